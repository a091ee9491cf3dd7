package scanner

import (
	"os"
	"path/filepath"

	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/utils"
	"github.com/sirupsen/logrus"
)

// digestCache remembers the SHA-1 of files within one directory
type digestCache struct {
	dir    string
	sha1of map[string]string
}

func newDigestCache(dir string) *digestCache {
	return &digestCache{dir: dir, sha1of: make(map[string]string)}
}

// sha1 returns the digest of a regular file relative to the directory,
// or "" if it does not exist or cannot be read
func (c *digestCache) sha1(rel string) string {
	if sum, ok := c.sha1of[rel]; ok {
		return sum
	}

	path, err := utils.SafeJoin(c.dir, rel)
	if err != nil {
		logrus.Debugf("Ignoring detection path %q: %v", rel, err)
		c.sha1of[rel] = ""
		return ""
	}

	sum := ""
	if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
		if s, err := utils.SHA1File(path); err == nil {
			sum = s
		} else {
			logrus.Debugf("Failed to hash %s: %v", path, err)
		}
	}
	c.sha1of[rel] = sum
	return sum
}

// matches reports whether every detection file of pv is present with the
// declared digest
func (c *digestCache) matches(pv *models.PackageVersion) bool {
	if len(pv.DetectFiles) == 0 {
		return false
	}
	for _, df := range pv.DetectFiles {
		sum := c.sha1(df.Path)
		if sum == "" || sum != utils.NormalizeSHA1(df.SHA1) {
			return false
		}
	}
	return true
}

// isIgnored reports whether dir is one of the ignored directories
func isIgnored(dir string, ignore []string) bool {
	clean := filepath.Clean(dir)
	for _, i := range ignore {
		if filepath.Clean(i) == clean {
			return true
		}
	}
	return false
}
