package progress

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fjacquet/statement-sorter/internal/models"

	"github.com/spf13/afero"
)

// Store loads and saves a progress Log.
type Store interface {
	// Load returns the stored log, or an empty one when nothing is stored.
	Load() (*Log, error)
	Save(l *Log) error
	Clear() error
}

// FileStore keeps the log as a JSON document on an afero filesystem.
type FileStore struct {
	fs   afero.Fs
	path string
}

// NewFileStore returns a store for dir/name. An empty name uses DefaultFileName.
func NewFileStore(fs afero.Fs, dir, name string) *FileStore {
	if name == "" {
		name = DefaultFileName
	}
	return &FileStore{fs: fs, path: filepath.Join(dir, name)}
}

// Path returns the location of the progress document.
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) Load() (*Log, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return NewLog(), nil
		}
		return nil, fmt.Errorf("failed to read progress log %s: %w", s.path, err)
	}

	l := NewLog()
	if err := json.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("failed to parse progress log %s: %w", s.path, err)
	}
	if l.Processed == nil {
		l.Processed = []ProcessedEntry{}
	}
	if l.Errors == nil {
		l.Errors = []ErrorEntry{}
	}
	return l, nil
}

// Save writes the log to a temporary file and renames it over the previous
// document, so a crash never leaves a truncated log.
func (s *FileStore) Save(l *Log) error {
	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode progress log: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := afero.WriteFile(s.fs, tmp, data, models.PermissionReportFile); err != nil {
		return fmt.Errorf("failed to write progress log: %w", err)
	}
	if err := s.fs.Rename(tmp, s.path); err != nil {
		_ = s.fs.Remove(tmp)
		return fmt.Errorf("failed to replace progress log: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	if err := s.fs.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear progress log: %w", err)
	}
	return nil
}

// MemoryStore keeps the log in memory. Saved logs are copied, so later changes
// by the caller are not visible until the next Save.
type MemoryStore struct {
	mu    sync.Mutex
	log   *Log
	saves int
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Load() (*Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.log == nil {
		return NewLog(), nil
	}
	return s.log.clone(), nil
}

func (s *MemoryStore) Save(l *Log) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = l.clone()
	s.saves++
	return nil
}

func (s *MemoryStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = nil
	return nil
}

// Saves returns how many times Save was called.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}
