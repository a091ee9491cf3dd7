package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/utils"
	"github.com/ralt/wpm/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, utils.WriteFile(path, []byte(content), 0644))
}

func candidate(pkg, v string, files ...models.DetectFile) *models.PackageVersion {
	pv := models.NewPackageVersion(pkg, version.MustParse(v))
	pv.DetectFiles = files
	return pv
}

func TestScanRecognizesInstallations(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "apps", "editor", "bin", "editor.exe"), "editor 2.0")
	writeFile(t, filepath.Join(root, "apps", "editor", "readme.txt"), "hi")
	writeFile(t, filepath.Join(root, "tools", "zip", "zip.exe"), "zip 3")

	editor := candidate("com.example.Editor", "2.0",
		models.DetectFile{Path: `bin\editor.exe`, SHA1: utils.SHA1Bytes([]byte("editor 2.0"))},
		models.DetectFile{Path: "readme.txt", SHA1: utils.SHA1Bytes([]byte("hi"))},
	)
	oldEditor := candidate("com.example.Editor", "1.0",
		models.DetectFile{Path: `bin\editor.exe`, SHA1: utils.SHA1Bytes([]byte("editor 1.0"))},
	)
	zip := candidate("com.example.Zip", "3",
		models.DetectFile{Path: "zip.exe", SHA1: utils.SHA1Bytes([]byte("zip 3"))},
	)
	noSignature := candidate("com.example.Plain", "1")

	j := job.New()
	matches, err := NewFileSystemScanner().Scan(j, root, []*models.PackageVersion{editor, oldEditor, zip, noSignature})
	require.NoError(t, err)

	require.Len(t, matches, 2)
	byPkg := map[string]Match{}
	for _, m := range matches {
		byPkg[m.Version.Package] = m
	}
	assert.Same(t, editor, byPkg["com.example.Editor"].Version)
	assert.Equal(t, filepath.Join(root, "apps", "editor"), byPkg["com.example.Editor"].Dir)
	assert.Equal(t, filepath.Join(root, "tools", "zip"), byPkg["com.example.Zip"].Dir)

	assert.Equal(t, job.Completed, j.State())
	assert.InDelta(t, 1.0, j.Progress(), 1e-9)
}

func TestScanSkipsInstalledAndIgnored(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "a.exe"), "a")
	writeFile(t, filepath.Join(root, "b", "b.exe"), "b")

	a := candidate("a", "1", models.DetectFile{Path: "a.exe", SHA1: utils.SHA1Bytes([]byte("a"))})
	a.Path = "/already/there"
	b := candidate("b", "1", models.DetectFile{Path: "b.exe", SHA1: utils.SHA1Bytes([]byte("b"))})

	s := NewFileSystemScanner(filepath.Join(root, "b"))
	matches, err := s.Scan(job.New(), root, []*models.PackageVersion{a, b})
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestScanCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "a.exe"), "a")
	a := candidate("a", "1", models.DetectFile{Path: "a.exe", SHA1: utils.SHA1Bytes([]byte("a"))})

	j := job.New()
	j.Cancel()
	matches, err := NewFileSystemScanner().Scan(j, root, []*models.PackageVersion{a})
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Equal(t, job.Cancelled, j.State())
}

func TestScanMissingDirectory(t *testing.T) {
	j := job.New()
	_, err := NewFileSystemScanner().Scan(j, filepath.Join(t.TempDir(), "nope"), nil)
	require.Error(t, err)
	assert.Equal(t, job.CompletedWithError, j.State())
}

func TestDigestCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "x.dll"), "x")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))

	c := newDigestCache(dir)
	assert.Equal(t, utils.SHA1Bytes([]byte("x")), c.sha1("x.dll"))
	assert.Equal(t, "", c.sha1("sub"), "directories have no digest")
	assert.Equal(t, "", c.sha1("missing"))
	assert.Equal(t, "", c.sha1("../escape"))

	pv := candidate("x", "1", models.DetectFile{Path: "x.dll", SHA1: "  " + utils.SHA1Bytes([]byte("x")) + " "})
	assert.True(t, c.matches(pv))
	assert.False(t, c.matches(candidate("y", "1")))
}
