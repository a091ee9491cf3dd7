package repository

import (
	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/version"
)

// EnginePackageID is the package id under which the engine registers itself
const EnginePackageID = "com.googlecode.windows-package-manager.Npackd"

var wellKnownPackages = []models.Package{
	{
		ID:          "com.microsoft.Windows",
		Title:       "Windows",
		URL:         "http://www.microsoft.com/windows/",
		Description: "Operating system",
	},
	{
		ID:          "com.microsoft.Windows32",
		Title:       "Windows/32 bit",
		URL:         "http://www.microsoft.com/windows/",
		Description: "Operating system",
	},
	{
		ID:          "com.microsoft.Windows64",
		Title:       "Windows/64 bit",
		URL:         "http://www.microsoft.com/windows/",
		Description: "Operating system",
	},
	{
		ID:          EnginePackageID,
		Title:       "Npackd",
		URL:         "http://code.google.com/p/windows-package-manager/",
		Description: "package manager",
	},
	{
		ID:          "com.oracle.JRE",
		Title:       "JRE",
		URL:         "http://www.java.com/",
		Description: "Java runtime",
	},
	{
		ID:          "com.oracle.JRE64",
		Title:       "JRE/64 bit",
		URL:         "http://www.java.com/",
		Description: "Java runtime",
	},
	{
		ID:          "com.oracle.JDK",
		Title:       "JDK",
		URL:         "http://www.oracle.com/technetwork/java/javase/overview/index.html",
		Description: "Java development kit",
	},
	{
		ID:          "com.oracle.JDK64",
		Title:       "JDK/64 bit",
		URL:         "http://www.oracle.com/technetwork/java/javase/overview/index.html",
		Description: "Java development kit",
	},
	{
		ID:          "com.microsoft.DotNetRedistributable",
		Title:       ".NET redistributable runtime",
		URL:         "http://msdn.microsoft.com/en-us/netframework/default.aspx",
		Description: ".NET runtime",
	},
	{
		ID:          "com.microsoft.WindowsInstaller",
		Title:       "Windows Installer",
		URL:         "http://msdn.microsoft.com/en-us/library/cc185688(VS.85).aspx",
		Description: "Package manager",
	},
	{
		ID:          "com.microsoft.MSXML",
		Title:       "Microsoft Core XML Services (MSXML)",
		URL:         "http://www.microsoft.com/downloads/en/details.aspx?FamilyID=993c0bcf-3bcf-4009-be21-27e85e1857b1#Overview",
		Description: "XML library",
	},
}

// AddWellKnownPackages adds the built-in packages that are not declared by
// any loaded feed
func (r *Repository) AddWellKnownPackages() {
	for _, p := range wellKnownPackages {
		p := p
		r.AddPackage(&p)
	}
}

// SelfDetector registers the running engine as an external installation of
// EnginePackageID
type SelfDetector struct {
	Version version.Version
	Dir     string
}

// Name returns the detector name
func (d *SelfDetector) Name() string {
	return "self"
}

// Detect marks the engine version as installed in Dir unless it already is
func (d *SelfDetector) Detect(j *job.Job, r *Repository) error {
	pv := r.MarkExternal(EnginePackageID, d.Version, d.Dir)
	j.SetHint(pv.String())
	return nil
}
