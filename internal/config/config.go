// Package config loads and stores the settings file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/utils"
	"gopkg.in/yaml.v3"
)

// Settings contains the configuration of the package manager
type Settings struct {
	// Repositories is the ordered list of feed URLs
	Repositories []string `yaml:"repositories" toml:"repositories"`

	InstallDir string `yaml:"install_dir" toml:"install_dir"`
	CacheDir   string `yaml:"cache_dir" toml:"cache_dir"`
	Database   string `yaml:"database" toml:"database"`

	// Keyring enables signature checks of feeds when set
	Keyring string `yaml:"keyring,omitempty" toml:"keyring,omitempty"`

	ScanDirs   []string `yaml:"scan_dirs,omitempty" toml:"scan_dirs,omitempty"`
	IgnoreDirs []string `yaml:"ignore_dirs,omitempty" toml:"ignore_dirs,omitempty"`

	CacheTTL      Duration `yaml:"cache_ttl" toml:"cache_ttl"`
	RetryAttempts int      `yaml:"retry_attempts" toml:"retry_attempts"`
}

// Duration is a time.Duration written as text, e.g. "24h"
type Duration time.Duration

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// DefaultPath returns the settings file location below the user's
// configuration directory
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "wpm", "config.yaml")
}

// Defaults returns the settings used for values missing from the file
func Defaults() *Settings {
	data, err := os.UserCacheDir()
	if err != nil {
		data = os.TempDir()
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}

	return &Settings{
		InstallDir:    filepath.Join(home, "wpm"),
		CacheDir:      filepath.Join(data, "wpm"),
		Database:      filepath.Join(home, "wpm", "installed.json"),
		CacheTTL:      Duration(24 * time.Hour),
		RetryAttempts: 3,
	}
}

type format int

const (
	formatYAML format = iota
	formatTOML
)

func formatOf(path string) (format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	case ".toml":
		return formatTOML, nil
	default:
		return 0, models.Errorf(models.ErrInvalidConfig, "", "unsupported settings file %s, use .yaml or .toml", path)
	}
}

// Load reads the settings file at path. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	f, err := formatOf(path)
	if err != nil {
		return nil, err
	}

	s := Defaults()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil
		}
		return nil, &models.EngineError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to read settings: %w", err),
		}
	}

	switch f {
	case formatTOML:
		err = toml.Unmarshal(data, s)
	default:
		err = yaml.Unmarshal(data, s)
	}
	if err != nil {
		return nil, &models.EngineError{
			Type: models.ErrInvalidConfig,
			Err:  fmt.Errorf("failed to parse settings %s: %w", path, err),
		}
	}

	return s, s.Validate()
}

// Validate checks the settings for values the engine cannot work with
func (s *Settings) Validate() error {
	if s.InstallDir == "" {
		return models.Errorf(models.ErrInvalidConfig, "", "install_dir is empty")
	}
	if s.Database == "" {
		return models.Errorf(models.ErrInvalidConfig, "", "database is empty")
	}
	if s.RetryAttempts < 1 {
		return models.Errorf(models.ErrInvalidConfig, "", "retry_attempts must be at least 1")
	}
	if s.CacheTTL < 0 {
		return models.Errorf(models.ErrInvalidConfig, "", "cache_ttl is negative")
	}
	return nil
}

// Save writes the settings to path in the format given by its extension
func (s *Settings) Save(path string) error {
	f, err := formatOf(path)
	if err != nil {
		return err
	}

	var data []byte
	switch f {
	case formatTOML:
		var buf bytes.Buffer
		err = toml.NewEncoder(&buf).Encode(s)
		data = buf.Bytes()
	default:
		data, err = yaml.Marshal(s)
	}
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if err := utils.WriteFile(path, data, 0o644); err != nil {
		return &models.EngineError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to write settings: %w", err),
		}
	}
	return nil
}
