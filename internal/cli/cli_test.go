package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/ralt/wpm/internal/config"
	"github.com/ralt/wpm/internal/feed"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/repository"
	"github.com/ralt/wpm/internal/utils"
	"github.com/ralt/wpm/internal/version"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeZip(t *testing.T, path string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	w := zip.NewWriter(f)
	for name, content := range files {
		fw, err := w.Create(name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
}

// setup writes a feed with an application depending on a runtime and a
// settings file pointing to it
func setup(t *testing.T) (cfgPath string, s *config.Settings) {
	t.Helper()
	dir := t.TempDir()

	makeZip(t, filepath.Join(dir, "runtime.zip"), map[string]string{"runtime.dll": "runtime"})
	makeZip(t, filepath.Join(dir, "app.zip"), map[string]string{"bin/app.exe": "app"})

	doc := `<?xml version="1.0"?>
<root>
  <spec-version>2.0</spec-version>
  <package name="com.example.App"><title>App</title></package>
  <package name="com.example.Runtime"><title>Runtime</title></package>
  <version package="com.example.Runtime" name="1.0"><url>runtime.zip</url></version>
  <version package="com.example.Runtime" name="2.5"><url>runtime.zip</url></version>
  <version package="com.example.App" name="3.0">
    <url>app.zip</url>
    <dependency package="com.example.Runtime" versions="1-2"/>
  </version>
</root>`
	feedPath := filepath.Join(dir, "feed.xml")
	require.NoError(t, os.WriteFile(feedPath, []byte(doc), 0o644))

	s = config.Defaults()
	s.Repositories = []string{feedPath}
	s.InstallDir = filepath.Join(dir, "programs")
	s.CacheDir = filepath.Join(dir, "cache")
	s.Database = filepath.Join(dir, "installed.json")
	cfgPath = filepath.Join(dir, "config.yaml")
	require.NoError(t, s.Save(cfgPath))
	return cfgPath, s
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd("0.1")
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInstallAndUninstall(t *testing.T) {
	cfg, s := setup(t)

	out, err := run(t, "--config", cfg, "install", "com.example.App")
	require.NoError(t, err, out)
	assert.Contains(t, out, "Installing com.example.Runtime 1\nInstalling com.example.App 3")

	appDir := filepath.Join(s.InstallDir, "com.example.App-3")
	assert.FileExists(t, filepath.Join(appDir, "bin", "app.exe"))
	assert.FileExists(t, filepath.Join(s.InstallDir, "com.example.Runtime-1", "runtime.dll"))

	out, err = run(t, "--config", cfg, "list", "--installed")
	require.NoError(t, err)
	assert.Contains(t, out, "com.example.App")
	assert.Contains(t, out, "com.example.Runtime")

	out, err = run(t, "--config", cfg, "updates")
	require.NoError(t, err)
	assert.Contains(t, out, "1 updates available")

	_, err = run(t, "--config", cfg, "uninstall", "com.example.Runtime", "1")
	require.Error(t, err)
	assert.True(t, models.IsType(err, models.ErrInstall))

	_, err = run(t, "--config", cfg, "uninstall", "com.example.App", "3.0")
	require.NoError(t, err)
	assert.NoDirExists(t, appDir)

	out, err = run(t, "--config", cfg, "graph", "--dot")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "digraph installed {"))
	assert.Contains(t, out, "com.example.Runtime")
	assert.NotContains(t, out, "com.example.App 3")
}

func TestInstallDryRun(t *testing.T) {
	cfg, s := setup(t)

	out, err := run(t, "--config", cfg, "install", "--dry-run", "com.example.App", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Installing com.example.App 3")
	assert.NoDirExists(t, s.InstallDir)
}

func TestSourcesCommands(t *testing.T) {
	cfg, s := setup(t)

	_, err := run(t, "--config", cfg, "sources", "add", "https://two.example.com/feed.xml", s.Repositories[0])
	require.NoError(t, err)
	out, err := run(t, "--config", cfg, "sources", "list")
	require.NoError(t, err)
	assert.Equal(t, s.Repositories[0]+"\nhttps://two.example.com/feed.xml\n", out)

	_, err = run(t, "--config", cfg, "sources", "remove", s.Repositories[0])
	require.NoError(t, err)
	loaded, err := config.Load(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://two.example.com/feed.xml"}, loaded.Repositories)
}

func TestExport(t *testing.T) {
	cfg, _ := setup(t)
	target := filepath.Join(t.TempDir(), "merged.xml.gz")

	_, err := run(t, "--config", cfg, "export", target)
	require.NoError(t, err)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, utils.CompressionGzip, utils.DetectCompression(data))

	plain, err := utils.Decompress(data)
	require.NoError(t, err)
	f, err := feed.Parse(bytes.NewReader(plain), target)
	require.NoError(t, err)
	assert.Equal(t, feed.WriteSpecVersion, f.SpecVersion)
	assert.Len(t, f.Versions, 3)
}

func TestGenerateAndInstall(t *testing.T) {
	dir := t.TempDir()
	pkgs := filepath.Join(dir, "packages")
	require.NoError(t, os.MkdirAll(pkgs, 0o755))
	makeZip(t, filepath.Join(pkgs, "com.example.Editor-1.2.zip"), map[string]string{"editor.exe": "editor"})

	feedPath := filepath.Join(pkgs, "feed.xml")
	out, err := run(t, "generate", "-i", pkgs, "-o", feedPath)
	require.NoError(t, err)
	assert.Equal(t, "1 packages, 1 versions\n", out)

	s := config.Defaults()
	s.Repositories = []string{feedPath}
	s.InstallDir = filepath.Join(dir, "programs")
	s.CacheDir = filepath.Join(dir, "cache")
	s.Database = filepath.Join(dir, "installed.json")
	cfg := filepath.Join(dir, "config.toml")
	require.NoError(t, s.Save(cfg))

	_, err = run(t, "--config", cfg, "install", "com.example.Editor")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(s.InstallDir, "com.example.Editor-1.2", "editor.exe"))
}

func TestPlanInstall(t *testing.T) {
	r := repository.New(repository.Dependencies{})
	dep := func(pkg, versions string) models.Dependency {
		d, err := models.ParseDependency(pkg, versions)
		require.NoError(t, err)
		return d
	}
	add := func(pkg, v string, deps ...models.Dependency) *models.PackageVersion {
		pv := models.NewPackageVersion(pkg, version.MustParse(v))
		pv.Dependencies = deps
		r.AddPackageVersion(pv)
		return pv
	}

	add("lib.A", "1")
	add("lib.A", "2")
	add("lib.B", "1", dep("lib.A", "1-"))
	installedC := add("lib.C", "1")
	installedC.SetInstalled("/opt/c", false)
	app := add("app", "1", dep("lib.B", "1"), dep("lib.A", "2"), dep("lib.C", "1"))

	ops, err := planInstall(r, app)
	require.NoError(t, err)

	var got []string
	for _, op := range ops {
		got = append(got, op.String())
	}
	assert.Equal(t, []string{
		"Installing lib.A 2",
		"Installing lib.B 1",
		"Installing app 1",
	}, got)

	broken := add("broken", "1", dep("lib.Missing", "1"))
	_, err = planInstall(r, broken)
	assert.True(t, models.IsType(err, models.ErrInstall))

	impossible := add("impossible", "1", dep("lib.A", "2-1"))
	_, err = planInstall(r, impossible)
	assert.True(t, models.IsType(err, models.ErrInstall))

	x := add("cycle.X", "1", dep("cycle.Y", "1"))
	add("cycle.Y", "1", dep("cycle.X", "1"))
	_, err = planInstall(r, x)
	assert.Error(t, err)
}
