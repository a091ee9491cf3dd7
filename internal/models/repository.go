package models

import "github.com/ralt/wpm/internal/version"

// MaxSpecVersion is the first feed format version this engine cannot read
var MaxSpecVersion = version.New(3, 0)

// Feed contains the declarations of one repository document in document order
type Feed struct {
	URL         string
	SpecVersion string

	Packages []*Package
	Versions []*PackageVersion
	Licenses []*License
}

// InstallOperation installs or uninstalls one package version
type InstallOperation struct {
	Version *PackageVersion
	Install bool
}

// String returns a human readable description, e.g. "Installing com.example.A 1.0"
func (op InstallOperation) String() string {
	if op.Install {
		return "Installing " + op.Version.String()
	}
	return "Uninstalling " + op.Version.String()
}

// InstalledRecord is the persisted installation state of a package version,
// keyed by PackageVersion.Key
type InstalledRecord struct {
	Path     string `json:"path"`
	External bool   `json:"external"`
}
