// Package version implements multi-part numeric version numbers such as
// "1.2.3" or "8_45".
package version

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat is returned when a version string cannot be parsed
var ErrInvalidFormat = errors.New("invalid version format")

// Version is an immutable sequence of non-negative integer parts.
// The zero value is equivalent to "0".
type Version struct {
	parts []int
}

// New creates a version from its parts. Missing parts default to "0".
func New(parts ...int) Version {
	if len(parts) == 0 {
		return Version{parts: []int{0}}
	}
	for _, p := range parts {
		if p < 0 {
			panic(fmt.Sprintf("version: negative part %d", p))
		}
	}
	return Version{parts: append([]int(nil), parts...)}
}

// Parse parses dot or underscore separated non-negative integers
func Parse(text string) (Version, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Version{}, fmt.Errorf("%w: empty string", ErrInvalidFormat)
	}

	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '_'
	})
	// FieldsFunc swallows empty fields, so "1..2" and ".1" must be caught here
	if strings.Count(text, ".")+strings.Count(text, "_")+1 != len(fields) {
		return Version{}, fmt.Errorf("%w: %q has an empty part", ErrInvalidFormat, text)
	}

	parts := make([]int, len(fields))
	for i, f := range fields {
		for _, c := range f {
			if c < '0' || c > '9' {
				return Version{}, fmt.Errorf("%w: %q is not a number in %q", ErrInvalidFormat, f, text)
			}
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return Version{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, text, err)
		}
		parts[i] = n
	}

	return Version{parts: parts}, nil
}

// MustParse is like Parse but panics on invalid input. Intended for
// constants and tests.
func MustParse(text string) Version {
	v, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return v
}

// Parts returns a copy of the version parts
func (v Version) Parts() []int {
	if len(v.parts) == 0 {
		return []int{0}
	}
	return append([]int(nil), v.parts...)
}

func (v Version) part(i int) int {
	if i < len(v.parts) {
		return v.parts[i]
	}
	return 0
}

// Compare returns -1, 0 or 1. The shorter version is padded with zeros.
func (v Version) Compare(other Version) int {
	n := max(len(v.parts), len(other.parts))
	for i := 0; i < n; i++ {
		a, b := v.part(i), other.part(i)
		switch {
		case a < b:
			return -1
		case a > b:
			return 1
		}
	}
	return 0
}

// Compare is the function form of Version.Compare, usable with slices.SortFunc
func Compare(a, b Version) int {
	return a.Compare(b)
}

// Equal reports whether both versions compare as equal
func (v Version) Equal(other Version) bool {
	return v.Compare(other) == 0
}

// Less reports whether v sorts before other
func (v Version) Less(other Version) bool {
	return v.Compare(other) < 0
}

// Normalize drops trailing zero parts, keeping at least one part
func (v Version) Normalize() Version {
	n := len(v.parts)
	for n > 1 && v.parts[n-1] == 0 {
		n--
	}
	if n == 0 {
		return Version{parts: []int{0}}
	}
	return Version{parts: append([]int(nil), v.parts[:n]...)}
}

// String returns the dot separated form without normalizing
func (v Version) String() string {
	if len(v.parts) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i, p := range v.parts {
		if i > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(strconv.Itoa(p))
	}
	return sb.String()
}

// Canonical returns the normalized string form, e.g. "1.2" for "1.2.0.0"
func (v Version) Canonical() string {
	return v.Normalize().String()
}

// MarshalText implements encoding.TextMarshaler
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (v *Version) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
