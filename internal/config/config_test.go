package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ralt/wpm/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s)
	assert.Empty(t, s.Repositories)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
repositories:
  - https://one.example.com/feed.xml
  - https://two.example.com/feed.xml.gz
install_dir: /opt/wpm
database: /var/lib/wpm/installed.json
cache_ttl: 90m
scan_dirs: [/usr/local]
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://one.example.com/feed.xml", "https://two.example.com/feed.xml.gz"}, s.Repositories)
	assert.Equal(t, "/opt/wpm", s.InstallDir)
	assert.Equal(t, Duration(90*time.Minute), s.CacheTTL)
	assert.Equal(t, []string{"/usr/local"}, s.ScanDirs)
	assert.Equal(t, 3, s.RetryAttempts)
}

func TestLoadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
repositories = ["https://one.example.com/feed.xml"]
install_dir = "/opt/wpm"
keyring = "/etc/wpm/trusted.asc"
retry_attempts = 5
`), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://one.example.com/feed.xml"}, s.Repositories)
	assert.Equal(t, "/etc/wpm/trusted.asc", s.Keyring)
	assert.Equal(t, 5, s.RetryAttempts)
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "config.ini"))
	assert.True(t, models.IsType(err, models.ErrInvalidConfig))

	broken := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("repositories: [unterminated"), 0o644))
	_, err = Load(broken)
	assert.True(t, models.IsType(err, models.ErrInvalidConfig))

	zero := filepath.Join(dir, "zero.yaml")
	require.NoError(t, os.WriteFile(zero, []byte("retry_attempts: 0\n"), 0o644))
	_, err = Load(zero)
	assert.True(t, models.IsType(err, models.ErrInvalidConfig))
}

func TestSaveRoundTrip(t *testing.T) {
	for _, name := range []string{"config.yaml", "config.toml"} {
		path := filepath.Join(t.TempDir(), "nested", name)
		s := Defaults()
		s.Repositories = []string{"a", "b"}
		s.CacheTTL = Duration(time.Hour)
		require.NoError(t, s.Save(path))

		loaded, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, s, loaded, name)
	}
}

func TestFileSourceStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	s := Defaults()
	store := NewFileSourceStore(path, s)

	urls := []string{"https://one.example.com/feed.xml"}
	require.NoError(t, store.SetSources(urls))
	urls[0] = "mutated"

	got, err := store.Sources()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://one.example.com/feed.xml"}, got)

	reloaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, got, reloaded.Repositories)
}
