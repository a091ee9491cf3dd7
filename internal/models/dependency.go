package models

import (
	"fmt"
	"strings"

	"github.com/ralt/wpm/internal/version"
)

// Range is an interval of versions. A missing bound is unbounded.
//
// Two notations are accepted:
//
//	1.0-2.0    lower bound inclusive, upper bound exclusive
//	1.0-       lower bound only
//	-2.0       upper bound only
//	1.0        exactly 1.0
//	[1.0, 2.0) interval with explicit inclusivity, either side may be empty
type Range struct {
	Min, Max         version.Version
	HasMin, HasMax   bool
	MinIncl, MaxIncl bool
}

// ParseRange parses a version range. Ranges containing no version such as
// "2-1" are valid and match nothing.
func ParseRange(text string) (Range, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Range{}, fmt.Errorf("empty range")
	}

	var r Range
	var err error
	if text[0] == '[' || text[0] == '(' {
		r, err = parseInterval(text)
	} else {
		r, err = parseCompact(text)
	}
	if err != nil {
		return Range{}, err
	}
	return r, nil
}

// Empty reports whether no version lies within the range, e.g. "2-1"
func (r Range) Empty() bool {
	if !r.HasMin || !r.HasMax {
		return false
	}
	c := r.Min.Compare(r.Max)
	return c > 0 || (c == 0 && !(r.MinIncl && r.MaxIncl))
}

func parseCompact(text string) (Range, error) {
	if strings.Count(text, "-") > 1 {
		return Range{}, fmt.Errorf("range %q has more than one '-'", text)
	}

	lower, upper, found := strings.Cut(text, "-")
	if !found {
		v, err := version.Parse(text)
		if err != nil {
			return Range{}, fmt.Errorf("range %q: %w", text, err)
		}
		return Range{Min: v, Max: v, HasMin: true, HasMax: true, MinIncl: true, MaxIncl: true}, nil
	}

	if lower == "" && upper == "" {
		return Range{}, fmt.Errorf("range %q has no bounds", text)
	}

	var r Range
	if lower != "" {
		v, err := version.Parse(lower)
		if err != nil {
			return Range{}, fmt.Errorf("range %q: lower bound: %w", text, err)
		}
		r.Min, r.HasMin, r.MinIncl = v, true, true
	}
	if upper != "" {
		v, err := version.Parse(upper)
		if err != nil {
			return Range{}, fmt.Errorf("range %q: upper bound: %w", text, err)
		}
		r.Max, r.HasMax = v, true
	}
	return r, nil
}

func parseInterval(text string) (Range, error) {
	if len(text) < 2 {
		return Range{}, fmt.Errorf("range %q is missing a closing bracket", text)
	}
	last := text[len(text)-1]
	if last != ']' && last != ')' {
		return Range{}, fmt.Errorf("range %q is missing a closing bracket", text)
	}

	lower, upper, found := strings.Cut(text[1:len(text)-1], ",")
	if !found {
		return Range{}, fmt.Errorf("range %q is missing ','", text)
	}

	r := Range{
		MinIncl: text[0] == '[',
		MaxIncl: last == ']',
	}
	if lower = strings.TrimSpace(lower); lower != "" {
		v, err := version.Parse(lower)
		if err != nil {
			return Range{}, fmt.Errorf("range %q: lower bound: %w", text, err)
		}
		r.Min, r.HasMin = v, true
	}
	if upper = strings.TrimSpace(upper); upper != "" {
		v, err := version.Parse(upper)
		if err != nil {
			return Range{}, fmt.Errorf("range %q: upper bound: %w", text, err)
		}
		r.Max, r.HasMax = v, true
	}
	return r, nil
}

// Matches reports whether v lies within the range
func (r Range) Matches(v version.Version) bool {
	if r.HasMin {
		c := v.Compare(r.Min)
		if c < 0 || (c == 0 && !r.MinIncl) {
			return false
		}
	}
	if r.HasMax {
		c := v.Compare(r.Max)
		if c > 0 || (c == 0 && !r.MaxIncl) {
			return false
		}
	}
	return true
}

// String returns the compact notation when it can express the range
func (r Range) String() string {
	switch {
	case r.HasMin && r.HasMax && r.MinIncl && r.MaxIncl && r.Min.Equal(r.Max):
		return r.Min.String()
	case (!r.HasMin || r.MinIncl) && (!r.HasMax || !r.MaxIncl):
		var sb strings.Builder
		if r.HasMin {
			sb.WriteString(r.Min.String())
		}
		sb.WriteByte('-')
		if r.HasMax {
			sb.WriteString(r.Max.String())
		}
		return sb.String()
	}

	var sb strings.Builder
	if r.MinIncl {
		sb.WriteByte('[')
	} else {
		sb.WriteByte('(')
	}
	if r.HasMin {
		sb.WriteString(r.Min.String())
	}
	sb.WriteString(", ")
	if r.HasMax {
		sb.WriteString(r.Max.String())
	}
	if r.MaxIncl {
		sb.WriteByte(']')
	} else {
		sb.WriteByte(')')
	}
	return sb.String()
}

// Dependency requires a version of another package within a range
type Dependency struct {
	Package string
	Range   Range
}

// VersionLister gives access to every known version of a package
type VersionLister interface {
	PackageVersions(packageID string) []*PackageVersion
}

// ParseDependency creates a dependency, failing on an invalid package id or range
func ParseDependency(pkg, versions string) (Dependency, error) {
	pkg = strings.TrimSpace(pkg)
	if !IsValidPackageID(pkg) {
		return Dependency{}, &EngineError{
			Type: ErrFormat,
			Err:  fmt.Errorf("invalid package id %q", pkg),
		}
	}
	r, err := ParseRange(versions)
	if err != nil {
		return Dependency{}, &EngineError{Type: ErrFormat, Package: pkg, Err: err}
	}
	return Dependency{Package: pkg, Range: r}, nil
}

// Matches reports whether v satisfies the dependency's range
func (d Dependency) Matches(v version.Version) bool {
	return d.Range.Matches(v)
}

// FindHighestInstalledMatch returns the greatest installed version that
// satisfies the dependency, or nil when the dependency is unmet
func (d Dependency) FindHighestInstalledMatch(src VersionLister) *PackageVersion {
	var best *PackageVersion
	for _, pv := range src.PackageVersions(d.Package) {
		if !pv.Installed() || !d.Matches(pv.Version) {
			continue
		}
		if best == nil || pv.Version.Compare(best.Version) > 0 {
			best = pv
		}
	}
	return best
}

// FindHighestMatch is like FindHighestInstalledMatch but also considers
// versions that are not installed
func (d Dependency) FindHighestMatch(src VersionLister) *PackageVersion {
	var best *PackageVersion
	for _, pv := range src.PackageVersions(d.Package) {
		if !d.Matches(pv.Version) {
			continue
		}
		if best == nil || pv.Version.Compare(best.Version) > 0 {
			best = pv
		}
	}
	return best
}

// String returns "<package> <range>"
func (d Dependency) String() string {
	return d.Package + " " + d.Range.String()
}
