package config

import (
	"slices"
)

// FileSourceStore keeps the repository list in a settings file
type FileSourceStore struct {
	path     string
	settings *Settings
}

// NewFileSourceStore creates a source store over already loaded settings
// that are written back to path on change
func NewFileSourceStore(path string, s *Settings) *FileSourceStore {
	return &FileSourceStore{path: path, settings: s}
}

// Sources returns a copy of the repository list
func (f *FileSourceStore) Sources() ([]string, error) {
	return slices.Clone(f.settings.Repositories), nil
}

// SetSources replaces the repository list and saves the settings
func (f *FileSourceStore) SetSources(urls []string) error {
	f.settings.Repositories = slices.Clone(urls)
	return f.settings.Save(f.path)
}
