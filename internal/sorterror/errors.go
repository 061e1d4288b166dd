// Package sorterror defines the typed errors reported by the statement sorter.
package sorterror

import (
	"errors"
	"fmt"
)

// Causes carried by DirectoryError.
var (
	ErrDirectoryMissing  = errors.New("directory does not exist")
	ErrNotDirectory      = errors.New("path is not a directory")
	ErrSameDirectory     = errors.New("source and destination are the same directory")
	ErrDirectoryReadonly = errors.New("directory is not accessible")
)

// DirectoryError is a source or destination directory problem. It aborts a
// run before any file is touched.
type DirectoryError struct {
	Role string // "source" or "destination"
	Path string
	Err  error
}

func (e *DirectoryError) Error() string {
	return fmt.Sprintf("invalid %s directory '%s': %v", e.Role, e.Path, e.Err)
}

func (e *DirectoryError) Unwrap() error {
	return e.Err
}

// ConfigError is an invalid configuration value.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
}

// ExtractionError is a field that could not be identified for a file.
type ExtractionError struct {
	FilePath string
	Field    string // "date" or "account"
	Reason   string
}

func (e *ExtractionError) Error() string {
	return e.Reason
}

// CopyError wraps an I/O failure while copying a file to its destination.
type CopyError struct {
	Source      string
	Destination string
	Err         error
}

func (e *CopyError) Error() string {
	return fmt.Sprintf("copy %s -> %s failed: %v", e.Source, e.Destination, e.Err)
}

func (e *CopyError) Unwrap() error {
	return e.Err
}

// IntegrityError reports a copy whose size differs from its source. The
// partial destination has already been removed when this is returned.
type IntegrityError struct {
	Destination     string
	SourceSize      int64
	DestinationSize int64
}

func (e *IntegrityError) Error() string {
	return fmt.Sprintf("size mismatch after copy to %s: source %d bytes, destination %d bytes",
		e.Destination, e.SourceSize, e.DestinationSize)
}

// ClassifierError is a failure of the external classifier. Callers treat it
// as not-found.
type ClassifierError struct {
	Provider string
	Err      error
}

func (e *ClassifierError) Error() string {
	return fmt.Sprintf("%s classifier failed: %v", e.Provider, e.Err)
}

func (e *ClassifierError) Unwrap() error {
	return e.Err
}
