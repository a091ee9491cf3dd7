package models

// Package represents a piece of software independent of its versions
type Package struct {
	// ID is a globally unique, reverse-DNS style name,
	// e.g. "com.example.Editor"
	ID string

	Title       string
	URL         string
	Description string
	Icon        string
	License     string
	Categories  []string
}

// NewPackage creates a package whose title defaults to its id
func NewPackage(id string) *Package {
	return &Package{
		ID:    id,
		Title: id,
	}
}

// IsValidPackageID reports whether id can be used as a package id:
// non-empty, no whitespace and no leading or trailing dots.
func IsValidPackageID(id string) bool {
	if id == "" || id[0] == '.' || id[len(id)-1] == '.' {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '-', c == '_':
		default:
			return false
		}
	}
	return true
}

// License represents a software license referenced by packages
type License struct {
	ID          string
	Title       string
	URL         string
	Description string
}

// NewLicense creates a license whose title defaults to its id
func NewLicense(id string) *License {
	return &License{
		ID:    id,
		Title: id,
	}
}
