package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/version"
)

// InstallationDir returns "<base>/<package>-<version>". When that directory
// already exists a numeric suffix is appended until a free name is found.
func InstallationDir(base string, pv *models.PackageVersion) string {
	dir := filepath.Join(base, pv.Key())
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return dir
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s~%d", dir, i)
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}

// ParseInstallationDir extracts package id and version from a directory
// name created by InstallationDir. Names with a numeric suffix are rejected.
func ParseInstallationDir(name string) (string, version.Version, bool) {
	pkg, v, err := models.ParseVersionKey(name)
	if err != nil {
		return "", version.Version{}, false
	}
	return pkg, v, true
}
