package scanner

import (
	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
)

// Match is a package version recognized in a directory
type Match struct {
	Version *models.PackageVersion
	Dir     string
}

// Scanner interface for recognizing package versions on disk
type Scanner interface {
	// Scan searches dir and its subdirectories for installations of the
	// candidates. Each candidate is matched at most once.
	Scan(j *job.Job, dir string, candidates []*models.PackageVersion) ([]Match, error)
}
