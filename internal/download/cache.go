package download

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache stores downloaded files in a directory. File names are derived
// from an xxhash of the key, so any URL can be used as key.
//
// Entries older than the TTL are treated as missing. A TTL of 0 means
// entries never expire.
type Cache struct {
	dir string
	ttl time.Duration
}

// NewCache creates a Cache in dir, creating the directory if needed
func NewCache(dir string, ttl time.Duration) (*Cache, error) {
	if dir == "" {
		base, err := os.UserCacheDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "wpm")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Cache{dir: dir, ttl: ttl}, nil
}

// Dir returns the cache directory
func (c *Cache) Dir() string { return c.dir }

// Path returns the file used for key, whether or not it exists
func (c *Cache) Path(key string) string {
	return filepath.Join(c.dir, strconv.FormatUint(xxhash.Sum64String(key), 16))
}

// Get returns the path of a fresh entry for key
func (c *Cache) Get(key string) (string, bool) {
	path := c.Path(key)
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	if c.ttl > 0 && time.Since(info.ModTime()) > c.ttl {
		return "", false
	}
	return path, true
}

// Put stores the content of r under key. The entry only becomes visible
// once it is completely written.
func (c *Cache) Put(key string, r io.Reader) (string, error) {
	tmp, err := os.CreateTemp(c.dir, ".partial-*")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", err
	}

	path := c.Path(key)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("failed to store cache entry: %w", err)
	}
	return path, nil
}

// Remove deletes the entry for key
func (c *Cache) Remove(key string) error {
	err := os.Remove(c.Path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
