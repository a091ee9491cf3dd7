package models_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type versionList []*models.PackageVersion

func (l versionList) PackageVersions(id string) []*models.PackageVersion {
	var out []*models.PackageVersion
	for _, pv := range l {
		if pv.Package == id {
			out = append(out, pv)
		}
	}
	return out
}

func TestRangeCompact(t *testing.T) {
	r, err := models.ParseRange("1.0-2.0")
	require.NoError(t, err)
	assert.True(t, r.Matches(version.MustParse("1.0")))
	assert.True(t, r.Matches(version.MustParse("1")))
	assert.True(t, r.Matches(version.MustParse("1.5")))
	assert.True(t, r.Matches(version.MustParse("1.99.99")))
	assert.False(t, r.Matches(version.MustParse("2.0")))
	assert.False(t, r.Matches(version.MustParse("0.9")))
}

func TestRangeExact(t *testing.T) {
	r, err := models.ParseRange("1.0")
	require.NoError(t, err)
	assert.True(t, r.Matches(version.MustParse("1.0")))
	assert.True(t, r.Matches(version.MustParse("1.0.0")))
	assert.False(t, r.Matches(version.MustParse("1.0.1")))
	assert.False(t, r.Matches(version.MustParse("0.9")))
}

func TestRangeOpenEnded(t *testing.T) {
	lower, err := models.ParseRange("2.1-")
	require.NoError(t, err)
	assert.True(t, lower.Matches(version.MustParse("2.1")))
	assert.True(t, lower.Matches(version.MustParse("100")))
	assert.False(t, lower.Matches(version.MustParse("2.0.9")))

	upper, err := models.ParseRange("-3")
	require.NoError(t, err)
	assert.True(t, upper.Matches(version.MustParse("0")))
	assert.True(t, upper.Matches(version.MustParse("2.9")))
	assert.False(t, upper.Matches(version.MustParse("3")))
}

func TestRangeInterval(t *testing.T) {
	r, err := models.ParseRange("(1.0, 2.0]")
	require.NoError(t, err)
	assert.False(t, r.Matches(version.MustParse("1")))
	assert.True(t, r.Matches(version.MustParse("1.0.1")))
	assert.True(t, r.Matches(version.MustParse("2")))

	r, err = models.ParseRange("[1.5, )")
	require.NoError(t, err)
	assert.True(t, r.Matches(version.MustParse("1.5")))
	assert.True(t, r.Matches(version.MustParse("9")))
}

func TestRangeInvalid(t *testing.T) {
	for _, in := range []string{"", "-", "a-b", "1-2-3", "[1, 2", "[1 2]", "1.x"} {
		_, err := models.ParseRange(in)
		assert.Error(t, err, "range %q should be rejected", in)
	}
}

func TestRangeEmpty(t *testing.T) {
	for _, in := range []string{"2-1", "1-1", "(1,1]", "(1, 1)", "[2, 1]"} {
		r, err := models.ParseRange(in)
		require.NoError(t, err, in)
		assert.True(t, r.Empty(), in)
		for _, v := range []string{"0", "1", "1.5", "2", "3"} {
			assert.False(t, r.Matches(version.MustParse(v)), "%s should not match %s", in, v)
		}
	}

	r, err := models.ParseRange("[1, 1]")
	require.NoError(t, err)
	assert.False(t, r.Empty())
	assert.True(t, r.Matches(version.MustParse("1.0")))
}

func TestRangeString(t *testing.T) {
	for in, want := range map[string]string{
		"1.0":        "1.0",
		"1-2":        "1-2",
		"3-":         "3-",
		"-4":         "-4",
		"[1, 2)":     "1-2",
		"(1, 2]":     "(1, 2]",
		"[1.0, 2.0]": "[1.0, 2.0]",
	} {
		r, err := models.ParseRange(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, r.String(), in)
	}
}

func TestParseDependency(t *testing.T) {
	d, err := models.ParseDependency("com.example.Lib", "1-2")
	require.NoError(t, err)
	assert.Equal(t, "com.example.Lib", d.Package)
	assert.Equal(t, "com.example.Lib 1-2", d.String())

	_, err = models.ParseDependency("com.example.Lib", "oops")
	require.Error(t, err)
	assert.True(t, models.IsType(err, models.ErrFormat))

	_, err = models.ParseDependency("", "1")
	assert.True(t, models.IsType(err, models.ErrFormat))
}

func TestFindHighestInstalledMatch(t *testing.T) {
	mk := func(pkg, v, path string) *models.PackageVersion {
		pv := models.NewPackageVersion(pkg, version.MustParse(v))
		pv.Path = path
		return pv
	}
	list := versionList{
		mk("lib", "1.2", `C:\lib-1.2`),
		mk("lib", "1.9", ""),
		mk("lib", "1.5", `C:\lib-1.5`),
		mk("lib", "2.0", `C:\lib-2.0`),
		mk("other", "1.7", `C:\other`),
	}

	d, err := models.ParseDependency("lib", "1-2")
	require.NoError(t, err)

	got := d.FindHighestInstalledMatch(list)
	require.NotNil(t, got)
	assert.Equal(t, "1.5", got.Version.String())

	got = d.FindHighestMatch(list)
	require.NotNil(t, got)
	assert.Equal(t, "1.9", got.Version.String())

	d, err = models.ParseDependency("lib", "3-")
	require.NoError(t, err)
	assert.Nil(t, d.FindHighestInstalledMatch(list))
	assert.Nil(t, d.FindHighestInstalledMatch(versionList{}))
}

func TestVersionKey(t *testing.T) {
	pv := models.NewPackageVersion("com.example-tools.App", version.MustParse("1.2.0"))
	assert.Equal(t, "com.example-tools.App-1.2", pv.Key())

	pkg, v, err := models.ParseVersionKey(pv.Key())
	require.NoError(t, err)
	assert.Equal(t, "com.example-tools.App", pkg)
	assert.True(t, v.Equal(pv.Version))

	for _, bad := range []string{"noversion", "-1.0", "pkg-x", "bad id-1"} {
		_, _, err := models.ParseVersionKey(bad)
		assert.Error(t, err, bad)
	}
}

func TestPackageVersionClone(t *testing.T) {
	pv := models.NewPackageVersion("a", version.MustParse("1"))
	pv.DetectFiles = []models.DetectFile{{Path: "a.exe", SHA1: "abc"}}

	c := pv.Clone()
	c.DetectFiles[0].Path = "b.exe"
	c.Path = "/opt/a"

	assert.Equal(t, "a.exe", pv.DetectFiles[0].Path)
	assert.False(t, pv.Installed())
	assert.True(t, c.Installed())
}

func TestEngineError(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("load: %w", &models.EngineError{
		Type:    models.ErrSourceUnavailable,
		Package: "https://example.com/feed.xml",
		Err:     cause,
	})

	assert.True(t, models.IsType(err, models.ErrSourceUnavailable))
	assert.False(t, models.IsType(err, models.ErrFormat))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "[SourceUnavailable] https://example.com/feed.xml")

	nested := &models.EngineError{Type: models.ErrInstall, Err: models.Errorf(models.ErrFileOp, "", "disk full")}
	assert.True(t, models.IsType(nested, models.ErrFileOp))
	assert.False(t, models.IsType(nil, models.ErrFileOp))
}

func TestPackageType(t *testing.T) {
	assert.Equal(t, models.TypeOneFile, models.ParsePackageType("one-file"))
	assert.Equal(t, models.TypeZip, models.ParsePackageType("zip"))
	assert.Equal(t, models.TypeZip, models.ParsePackageType(""))
	assert.Equal(t, "one-file", models.TypeOneFile.String())
}
