package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ralt/wpm/internal/config"
	"github.com/ralt/wpm/internal/download"
	"github.com/ralt/wpm/internal/feed"
	"github.com/ralt/wpm/internal/installed"
	"github.com/ralt/wpm/internal/installer"
	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/progress"
	"github.com/ralt/wpm/internal/repository"
	"github.com/ralt/wpm/internal/scanner"
	"github.com/ralt/wpm/internal/signer"
	"github.com/ralt/wpm/internal/version"
	"github.com/sirupsen/logrus"
)

type globalOptions struct {
	configPath    string
	engineVersion string
	extraScanDirs []string
}

func (o *globalOptions) settingsPath() string {
	if o.configPath != "" {
		return o.configPath
	}
	return config.DefaultPath()
}

// app wires the repository to its collaborators as configured in the
// settings file
type app struct {
	settingsPath string
	settings     *config.Settings
	sources      *config.FileSourceStore
	repo         *repository.Repository
}

func newApp(o *globalOptions) (*app, error) {
	path := o.settingsPath()
	settings, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Settings: %+v", settings)

	cache, err := download.NewCache(settings.CacheDir, time.Duration(settings.CacheTTL))
	if err != nil {
		return nil, err
	}
	client := download.NewClient(cache,
		download.WithRetry(settings.RetryAttempts, time.Second),
		download.WithUserAgent("wpm/"+o.engineVersion),
	)

	var verifier feed.Verifier
	if settings.Keyring != "" {
		v, err := signer.NewKeyRingVerifier(settings.Keyring)
		if err != nil {
			return nil, err
		}
		verifier = v
		logrus.Debugf("Feed signatures are checked against %s", settings.Keyring)
	}

	state, err := installed.NewStore(settings.Database)
	if err != nil {
		return nil, err
	}

	sources := config.NewFileSourceStore(path, settings)
	deps := repository.Dependencies{
		Loader:     feed.NewLoader(client, verifier),
		Sources:    sources,
		Installer:  installer.New(client),
		State:      state,
		Scanner:    scanner.NewFileSystemScanner(append([]string{settings.InstallDir}, settings.IgnoreDirs...)...),
		ScanDirs:   append(append([]string(nil), settings.ScanDirs...), o.extraScanDirs...),
		InstallDir: settings.InstallDir,
	}
	if self := selfDetector(o.engineVersion); self != nil {
		deps.Detectors = append(deps.Detectors, self)
	}

	return &app{
		settingsPath: path,
		settings:     settings,
		sources:      sources,
		repo:         repository.New(deps),
	}, nil
}

func selfDetector(engineVersion string) repository.Detector {
	v, err := version.Parse(engineVersion)
	if err != nil {
		logrus.Debugf("Not registering this program: version %q: %v", engineVersion, err)
		return nil
	}
	exe, err := os.Executable()
	if err != nil {
		logrus.Debugf("Not registering this program: %v", err)
		return nil
	}
	return &repository.SelfDetector{Version: v, Dir: filepath.Dir(exe)}
}

func newJob(ctx context.Context) *job.Job {
	return job.NewWithContext(ctx, progress.NewLogger())
}

// reload loads all feeds and detects installed package versions
func (a *app) reload(ctx context.Context) error {
	j := newJob(ctx)
	if err := a.repo.Reload(j); err != nil {
		return err
	}
	if j.State() == job.Cancelled {
		return models.Errorf(models.ErrCancelled, "", "cancelled")
	}
	return nil
}

// findVersion resolves a package id and an optional version. Without a
// version the newest one is returned.
func (a *app) findVersion(pkg, ver string) (*models.PackageVersion, error) {
	if ver == "" {
		pv := a.repo.FindNewestPackageVersion(pkg)
		if pv == nil {
			return nil, fmt.Errorf("package %s not found", pkg)
		}
		return pv, nil
	}

	v, err := version.Parse(ver)
	if err != nil {
		return nil, &models.EngineError{Type: models.ErrFormat, Package: pkg, Err: err}
	}
	pv := a.repo.FindPackageVersion(pkg, v)
	if pv == nil {
		return nil, fmt.Errorf("package %s %s not found", pkg, v.Canonical())
	}
	return pv, nil
}
