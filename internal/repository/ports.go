package repository

import (
	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
)

//go:generate mockgen -source=ports.go -destination=mocks/mock_ports.go -package=mocks

// FeedLoader downloads and parses one repository source. Load completes j.
type FeedLoader interface {
	Load(j *job.Job, url string) (*models.Feed, error)
}

// Installer performs the file operations of installing and uninstalling a
// package version. Bookkeeping of the installed state is left to the caller.
type Installer interface {
	Install(j *job.Job, pv *models.PackageVersion, dir string) error
	Uninstall(j *job.Job, pv *models.PackageVersion) error
}

// Detector recognizes software installed without the engine
type Detector interface {
	Name() string
	Detect(j *job.Job, r *Repository) error
}

// SourceStore persists the ordered list of repository source URLs
type SourceStore interface {
	Sources() ([]string, error)
	SetSources(urls []string) error
}

// StateStore is the durable installed-state table keyed by
// "<package>-<normalized version>"
type StateStore interface {
	Entries() (map[string]models.InstalledRecord, error)
	Put(key string, rec models.InstalledRecord) error
	Delete(key string) error
}

// Product is an entry of the system's installer product registry
type Product struct {
	Code     string
	Location string
}

// ProductRegistry lists the installer product codes present on the machine
type ProductRegistry interface {
	InstalledProducts() ([]Product, error)
}
