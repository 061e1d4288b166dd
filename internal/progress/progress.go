// Package progress persists the set of files already handled by the organizer
// so an interrupted run can be resumed.
package progress

import (
	"time"
)

// DefaultFileName is the progress document stored in the source directory.
const DefaultFileName = ".sorter_progress.json"

// ProcessedEntry records a file that was organized successfully.
type ProcessedEntry struct {
	Path        string    `json:"path"`
	Destination string    `json:"destination"`
	ProcessedAt time.Time `json:"processed_at"`
}

// ErrorEntry records a file that failed, with the reason.
type ErrorEntry struct {
	Path        string    `json:"path"`
	Error       string    `json:"error"`
	ProcessedAt time.Time `json:"processed_at"`
}

// Log is the persisted progress document. Paths are absolute path strings.
type Log struct {
	Processed []ProcessedEntry `json:"processed"`
	Errors    []ErrorEntry     `json:"errors"`
	StartedAt *time.Time       `json:"started_at"`
	UpdatedAt *time.Time       `json:"updated_at"`
}

// Stats summarizes a Log.
type Stats struct {
	Processed int        `json:"processed"`
	Errors    int        `json:"errors"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// NewLog returns an empty Log.
func NewLog() *Log {
	return &Log{Processed: []ProcessedEntry{}, Errors: []ErrorEntry{}}
}

// Start stamps the start time unless the log already has one.
func (l *Log) Start(now time.Time) {
	if l.StartedAt == nil {
		l.StartedAt = &now
	}
}

// IsHandled reports whether path is already in the log. With retryErrors only
// successfully processed files count as handled.
func (l *Log) IsHandled(path string, retryErrors bool) bool {
	for _, e := range l.Processed {
		if e.Path == path {
			return true
		}
	}
	if retryErrors {
		return false
	}
	for _, e := range l.Errors {
		if e.Path == path {
			return true
		}
	}
	return false
}

// AddSuccess records path as processed, dropping an earlier error entry for it.
func (l *Log) AddSuccess(path, destination string, now time.Time) {
	l.removeError(path)
	l.Processed = append(l.Processed, ProcessedEntry{Path: path, Destination: destination, ProcessedAt: now})
	l.touch(now)
}

// AddError records path as errored, replacing an earlier error entry for it.
func (l *Log) AddError(path, reason string, now time.Time) {
	l.removeError(path)
	l.Errors = append(l.Errors, ErrorEntry{Path: path, Error: reason, ProcessedAt: now})
	l.touch(now)
}

// Stats returns the processed and errored counts.
func (l *Log) Stats() Stats {
	return Stats{
		Processed: len(l.Processed),
		Errors:    len(l.Errors),
		StartedAt: l.StartedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (l *Log) removeError(path string) {
	kept := l.Errors[:0]
	for _, e := range l.Errors {
		if e.Path != path {
			kept = append(kept, e)
		}
	}
	l.Errors = kept
}

func (l *Log) touch(now time.Time) {
	l.UpdatedAt = &now
}

func (l *Log) clone() *Log {
	c := &Log{
		Processed: append([]ProcessedEntry{}, l.Processed...),
		Errors:    append([]ErrorEntry{}, l.Errors...),
	}
	if l.StartedAt != nil {
		t := *l.StartedAt
		c.StartedAt = &t
	}
	if l.UpdatedAt != nil {
		t := *l.UpdatedAt
		c.UpdatedAt = &t
	}
	return c
}
