// Package installed persists which package versions are installed where.
package installed

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/ralt/wpm/internal/models"
)

// Store is a key-value table of installation records backed by a JSON file.
// Keys have the form "<package>-<normalized version>". Entries for packages
// that are not in any feed are kept as they are.
type Store struct {
	path  string
	mu    sync.RWMutex
	cache map[string]models.InstalledRecord
}

// NewStore opens the table stored at path. A missing file is an empty table.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:  filepath.Clean(path),
		cache: make(map[string]models.InstalledRecord),
	}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return &models.EngineError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to read installation database: %w", err),
		}
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, &s.cache); err != nil {
		return &models.EngineError{
			Type: models.ErrFormat,
			Err:  fmt.Errorf("failed to unmarshal installation database %s: %w", s.path, err),
		}
	}

	return nil
}

func (s *Store) save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.cache, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to marshal installation database: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return &models.EngineError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to create directory for installation database: %w", err),
		}
	}

	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return &models.EngineError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to write installation database: %w", err),
		}
	}

	return nil
}

// Get returns the record for key
func (s *Store) Get(key string) (models.InstalledRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.cache[key]
	return rec, ok
}

// Entries returns a copy of all records
func (s *Store) Entries() (map[string]models.InstalledRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]models.InstalledRecord, len(s.cache))
	for k, v := range s.cache {
		out[k] = v
	}
	return out, nil
}

// Put stores a record and writes the table to disk
func (s *Store) Put(key string, rec models.InstalledRecord) error {
	s.mu.Lock()
	s.cache[key] = rec
	s.mu.Unlock()

	return s.save()
}

// Delete removes a record and writes the table to disk
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	_, ok := s.cache[key]
	delete(s.cache, key)
	s.mu.Unlock()

	if !ok {
		return nil
	}
	return s.save()
}
