// Package repository holds the in-memory model of all known packages,
// package versions and licenses, and the operations that load it from
// feeds, reconcile it with the machine and install or uninstall versions.
//
// A Repository is not safe for concurrent use. Callers must not read or
// mutate it while a load, refresh or process is running.
package repository

import (
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/scanner"
	"github.com/ralt/wpm/internal/version"
)

// Dependencies are the collaborators of a Repository. Any of them may be
// nil; the operations needing a missing collaborator fail or skip the
// corresponding phase.
type Dependencies struct {
	Loader    FeedLoader
	Sources   SourceStore
	Installer Installer
	State     StateStore
	Products  ProductRegistry
	Detectors []Detector

	Scanner  scanner.Scanner
	ScanDirs []string

	// InstallDir is the base of preferred installation directories
	InstallDir string
}

// Repository owns every Package, PackageVersion and License. Entities
// refer to each other by id; the indexes map ids to positions in the
// owning slices.
type Repository struct {
	deps Dependencies

	packages     []*models.Package
	packageIndex map[string]int

	versions     []*models.PackageVersion
	versionIndex map[string]int
	byPackage    map[string][]int

	licenses     []*models.License
	licenseIndex map[string]int
}

// New creates an empty repository
func New(deps Dependencies) *Repository {
	r := &Repository{deps: deps}
	r.clear()
	return r
}

func (r *Repository) clear() {
	r.packages = nil
	r.packageIndex = make(map[string]int)
	r.versions = nil
	r.versionIndex = make(map[string]int)
	r.byPackage = make(map[string][]int)
	r.licenses = nil
	r.licenseIndex = make(map[string]int)
}

// AddPackage stores p unless a package with the same id exists. It reports
// whether p was stored.
func (r *Repository) AddPackage(p *models.Package) bool {
	if _, ok := r.packageIndex[p.ID]; ok {
		return false
	}
	r.packageIndex[p.ID] = len(r.packages)
	r.packages = append(r.packages, p)
	return true
}

// AddPackageVersion stores pv unless a version with the same package id and
// normalized version exists. It reports whether pv was stored.
func (r *Repository) AddPackageVersion(pv *models.PackageVersion) bool {
	key := pv.Key()
	if _, ok := r.versionIndex[key]; ok {
		return false
	}
	pos := len(r.versions)
	r.versionIndex[key] = pos
	r.byPackage[pv.Package] = append(r.byPackage[pv.Package], pos)
	r.versions = append(r.versions, pv)
	return true
}

// AddLicense stores l unless a license with the same id exists. It reports
// whether l was stored.
func (r *Repository) AddLicense(l *models.License) bool {
	if _, ok := r.licenseIndex[l.ID]; ok {
		return false
	}
	r.licenseIndex[l.ID] = len(r.licenses)
	r.licenses = append(r.licenses, l)
	return true
}

// Fold merges the declarations of a feed. Entities whose identity is
// already known are discarded.
func (r *Repository) Fold(feed *models.Feed) {
	for _, p := range feed.Packages {
		r.AddPackage(p)
	}
	for _, pv := range feed.Versions {
		r.AddPackageVersion(pv)
	}
	for _, l := range feed.Licenses {
		r.AddLicense(l)
	}
}

// Packages returns all packages in insertion order
func (r *Repository) Packages() []*models.Package {
	return append([]*models.Package(nil), r.packages...)
}

// Versions returns all package versions in insertion order
func (r *Repository) Versions() []*models.PackageVersion {
	return append([]*models.PackageVersion(nil), r.versions...)
}

// Licenses returns all licenses in insertion order
func (r *Repository) Licenses() []*models.License {
	return append([]*models.License(nil), r.licenses...)
}

// PackageVersions returns the versions of a package in insertion order
func (r *Repository) PackageVersions(pkg string) []*models.PackageVersion {
	positions := r.byPackage[pkg]
	out := make([]*models.PackageVersion, 0, len(positions))
	for _, pos := range positions {
		out = append(out, r.versions[pos])
	}
	return out
}

// InstalledVersions returns every installed package version
func (r *Repository) InstalledVersions() []*models.PackageVersion {
	var out []*models.PackageVersion
	for _, pv := range r.versions {
		if pv.Installed() {
			out = append(out, pv)
		}
	}
	return out
}

// FindPackage returns the package with the given id, or nil
func (r *Repository) FindPackage(id string) *models.Package {
	if pos, ok := r.packageIndex[id]; ok {
		return r.packages[pos]
	}
	return nil
}

// FindLicense returns the license with the given id, or nil
func (r *Repository) FindLicense(id string) *models.License {
	if pos, ok := r.licenseIndex[id]; ok {
		return r.licenses[pos]
	}
	return nil
}

// FindPackageVersion returns the version of pkg equal to v, or nil
func (r *Repository) FindPackageVersion(pkg string, v version.Version) *models.PackageVersion {
	if pos, ok := r.versionIndex[models.VersionKey(pkg, v)]; ok {
		return r.versions[pos]
	}
	return nil
}

// FindNewestPackageVersion returns the highest version of pkg, or nil
func (r *Repository) FindNewestPackageVersion(pkg string) *models.PackageVersion {
	return r.newest(pkg, false)
}

// FindNewestInstalledPackageVersion returns the highest installed version
// of pkg, or nil
func (r *Repository) FindNewestInstalledPackageVersion(pkg string) *models.PackageVersion {
	return r.newest(pkg, true)
}

func (r *Repository) newest(pkg string, installedOnly bool) *models.PackageVersion {
	var best *models.PackageVersion
	for _, pos := range r.byPackage[pkg] {
		pv := r.versions[pos]
		if installedOnly && !pv.Installed() {
			continue
		}
		if best == nil || best.Version.Less(pv.Version) {
			best = pv
		}
	}
	return best
}

// CountUpdates returns the number of installed versions for which a newer
// version of the same package exists that is not installed
func (r *Repository) CountUpdates() int {
	return len(r.Updatable())
}

// Updatable returns the installed versions counted by CountUpdates
func (r *Repository) Updatable() []*models.PackageVersion {
	var out []*models.PackageVersion
	for _, pv := range r.versions {
		if !pv.Installed() {
			continue
		}
		newest := r.FindNewestPackageVersion(pv.Package)
		if newest.Version.Compare(pv.Version) > 0 && !newest.Installed() {
			out = append(out, pv)
		}
	}
	return out
}

// FindOrCreatePackageVersion returns the version of pkg equal to v. When it
// does not exist a new, not installed version without a download is added.
func (r *Repository) FindOrCreatePackageVersion(pkg string, v version.Version) *models.PackageVersion {
	if pv := r.FindPackageVersion(pkg, v); pv != nil {
		return pv
	}
	pv := models.NewPackageVersion(pkg, v.Normalize())
	r.AddPackageVersion(pv)
	return pv
}

// MarkExternal records that version v of pkg is present at path without
// having been installed by the engine. Versions that are already installed
// are left unchanged.
func (r *Repository) MarkExternal(pkg string, v version.Version, path string) *models.PackageVersion {
	pv := r.FindOrCreatePackageVersion(pkg, v)
	if !pv.Installed() {
		pv.SetInstalled(path, true)
	}
	return pv
}

// ClearExternallyInstalled marks every external installation of pkg as
// not installed
func (r *Repository) ClearExternallyInstalled(pkg string) {
	for _, pv := range r.PackageVersions(pkg) {
		if pv.External {
			pv.ClearInstalled()
		}
	}
}

// GetSources returns the configured repository source URLs
func (r *Repository) GetSources() ([]string, error) {
	if r.deps.Sources == nil {
		return nil, models.Errorf(models.ErrInvalidConfig, "", "no source store configured")
	}
	return r.deps.Sources.Sources()
}

// SetSources replaces the configured repository source URLs
func (r *Repository) SetSources(urls []string) error {
	if r.deps.Sources == nil {
		return models.Errorf(models.ErrInvalidConfig, "", "no source store configured")
	}
	return r.deps.Sources.SetSources(urls)
}
