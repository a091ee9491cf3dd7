package models

import (
	"fmt"
	"strings"

	"github.com/ralt/wpm/internal/version"
)

// PackageType describes how the downloaded binary is installed
type PackageType int

const (
	// TypeZip is an archive unpacked into the installation directory
	TypeZip PackageType = iota
	// TypeOneFile is a single file copied into the installation directory
	TypeOneFile
)

// String returns the feed attribute value for the type
func (t PackageType) String() string {
	if t == TypeOneFile {
		return "one-file"
	}
	return "zip"
}

// ParsePackageType maps a feed attribute value to a PackageType.
// Anything other than "one-file" is an archive.
func ParsePackageType(s string) PackageType {
	if strings.TrimSpace(s) == "one-file" {
		return TypeOneFile
	}
	return TypeZip
}

// ImportantFile is a file inside the installation worth showing to the user,
// e.g. the main executable
type ImportantFile struct {
	Path  string
	Title string
}

// PackageVersionFile is a file whose content is part of the package
// declaration and written after unpacking
type PackageVersionFile struct {
	Path    string
	Content string
}

// DetectFile is a signature used to recognize an installation on disk
type DetectFile struct {
	Path string
	SHA1 string
}

// PackageVersion is one installable revision of a package. The package is
// referenced by id and may not resolve to a known Package.
type PackageVersion struct {
	Package string
	Version version.Version

	// Download descriptor
	URL  string
	SHA1 string
	Type PackageType

	ImportantFiles []ImportantFile
	Files          []PackageVersionFile
	Dependencies   []Dependency
	DetectFiles    []DetectFile

	// MSIGUID is the lower-cased installer product code, if any
	MSIGUID string

	// Installed state. An empty Path means not installed.
	Path     string
	External bool
}

// NewPackageVersion creates a not-installed version of a package
func NewPackageVersion(pkg string, v version.Version) *PackageVersion {
	return &PackageVersion{
		Package: pkg,
		Version: v,
	}
}

// Installed reports whether the version is present on the machine
func (pv *PackageVersion) Installed() bool {
	return pv.Path != ""
}

// SetInstalled records the installation directory and its origin
func (pv *PackageVersion) SetInstalled(path string, external bool) {
	pv.Path = path
	pv.External = external
}

// ClearInstalled marks the version as not installed
func (pv *PackageVersion) ClearInstalled() {
	pv.Path = ""
	pv.External = false
}

// Key returns "<package>-<normalized version>", the identity used by the
// installed-state table and installation directory names
func (pv *PackageVersion) Key() string {
	return VersionKey(pv.Package, pv.Version)
}

// String returns a human readable identifier
func (pv *PackageVersion) String() string {
	return fmt.Sprintf("%s %s", pv.Package, pv.Version.Canonical())
}

// Clone returns a deep copy
func (pv *PackageVersion) Clone() *PackageVersion {
	c := *pv
	c.ImportantFiles = append([]ImportantFile(nil), pv.ImportantFiles...)
	c.Files = append([]PackageVersionFile(nil), pv.Files...)
	c.Dependencies = append([]Dependency(nil), pv.Dependencies...)
	c.DetectFiles = append([]DetectFile(nil), pv.DetectFiles...)
	return &c
}

// VersionKey builds the "<package>-<normalized version>" key
func VersionKey(pkg string, v version.Version) string {
	return pkg + "-" + v.Canonical()
}

// ParseVersionKey splits a key produced by VersionKey. The package id may
// itself contain dashes, the version never does.
func ParseVersionKey(key string) (string, version.Version, error) {
	pos := strings.LastIndex(key, "-")
	if pos <= 0 {
		return "", version.Version{}, fmt.Errorf("invalid key %q: missing version", key)
	}
	pkg := key[:pos]
	if !IsValidPackageID(pkg) {
		return "", version.Version{}, fmt.Errorf("invalid key %q: bad package id", key)
	}
	v, err := version.Parse(key[pos+1:])
	if err != nil {
		return "", version.Version{}, fmt.Errorf("invalid key %q: %w", key, err)
	}
	return pkg, v, nil
}
