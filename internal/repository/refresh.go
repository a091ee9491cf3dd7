package repository

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/utils"
	"github.com/sirupsen/logrus"
)

// Refresh reconciles the installation status of the package versions with
// the machine. The phases are skipped once j is cancelled or has failed.
// j is completed before returning.
func (r *Repository) Refresh(j *job.Job) error {
	if j.ShouldContinue() && r.deps.State != nil && r.deps.InstallDir != "" {
		j.SetHint("Detecting packages in the installation directory")
		if err := r.adoptInstallDir(); err != nil {
			j.Fail(err)
		}
		j.SetProgress(0.1)
	}

	if j.ShouldContinue() && r.deps.State != nil {
		j.SetHint("Reading the installation database")
		if err := r.readState(); err != nil {
			j.Fail(err)
		}
		j.SetProgress(0.3)
	}

	// directly set progress leaves out the share of the detector sub-jobs
	detectorShare := 0.0
	if j.ShouldContinue() && len(r.deps.Detectors) > 0 {
		detectorShare = 0.4
		weight := detectorShare / float64(len(r.deps.Detectors))
		for _, d := range r.deps.Detectors {
			if !j.ShouldContinue() {
				break
			}
			j.SetHint(fmt.Sprintf("Detecting %s", d.Name()))
			sub := j.Run(weight, func(sub *job.Job) {
				if err := d.Detect(sub, r); err != nil {
					sub.Fail(err)
				}
			})
			if sub.Failed() {
				logrus.Warnf("Detector %s failed: %s", d.Name(), sub.ErrorMessage())
			}
		}
	}

	if j.ShouldContinue() && r.deps.Products != nil {
		j.SetHint("Detecting installer packages")
		if err := r.detectProducts(); err != nil {
			logrus.Warnf("Reading the installer product registry failed: %v", err)
		}
	}
	j.SetProgress(0.8 - detectorShare)

	if j.ShouldContinue() && r.deps.Scanner != nil && len(r.deps.ScanDirs) > 0 {
		j.SetHint("Scanning for installed software")
		r.scan(j.NewSubJob(0.2))
	}

	state := j.Complete()
	if state == job.CompletedWithError {
		return j.Err()
	}
	return nil
}

// adoptInstallDir records directories named "<package>-<version>" below the
// installation directory that are missing from the installed-state table
func (r *Repository) adoptInstallDir() error {
	entries, err := os.ReadDir(r.deps.InstallDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return &models.EngineError{
			Type: models.ErrFileOp,
			Err:  fmt.Errorf("failed to read installation directory: %w", err),
		}
	}

	known, err := r.deps.State.Entries()
	if err != nil {
		return err
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		pkg, v, ok := utils.ParseInstallationDir(entry.Name())
		if !ok {
			continue
		}
		key := models.VersionKey(pkg, v)
		if _, ok := known[key]; ok {
			continue
		}

		dir := filepath.Join(r.deps.InstallDir, entry.Name())
		logrus.Infof("Found %s %s in %s", pkg, v.Canonical(), dir)
		if err := r.deps.State.Put(key, models.InstalledRecord{Path: dir}); err != nil {
			return err
		}
	}
	return nil
}

// readState applies the installed-state table. Entries of unknown packages
// create versions without a download; entries with invalid keys or missing
// directories are ignored.
func (r *Repository) readState() error {
	entries, err := r.deps.State.Entries()
	if err != nil {
		return err
	}

	for key, rec := range entries {
		pkg, v, err := models.ParseVersionKey(key)
		if err != nil {
			logrus.Warnf("Ignoring installation database entry: %v", err)
			continue
		}
		if rec.Path == "" {
			continue
		}
		if !utils.DirExists(rec.Path) {
			logrus.Debugf("Installation directory %s of %s no longer exists", rec.Path, key)
			continue
		}

		pv := r.FindOrCreatePackageVersion(pkg, v)
		if !pv.Installed() {
			pv.SetInstalled(rec.Path, rec.External)
		}
	}
	return nil
}

// detectProducts marks versions whose installer product code is registered
// as external installations and clears external versions whose product code
// is gone
func (r *Repository) detectProducts() error {
	products, err := r.deps.Products.InstalledProducts()
	if err != nil {
		return err
	}

	locations := make(map[string]string, len(products))
	for _, p := range products {
		locations[strings.ToLower(p.Code)] = p.Location
	}

	for _, pv := range r.versions {
		if pv.MSIGUID == "" {
			continue
		}
		location, ok := locations[pv.MSIGUID]
		switch {
		case ok && !pv.Installed():
			if location == "" {
				logrus.Debugf("Product %s of %s has no location", pv.MSIGUID, pv)
				continue
			}
			pv.SetInstalled(location, true)
		case !ok && pv.External:
			pv.ClearInstalled()
		}
	}
	return nil
}

// scan searches the configured directories for detection file signatures of
// versions that are not installed
func (r *Repository) scan(j *job.Job) {
	var candidates []*models.PackageVersion
	for _, pv := range r.versions {
		if !pv.Installed() && len(pv.DetectFiles) > 0 {
			candidates = append(candidates, pv)
		}
	}

	if len(candidates) > 0 {
		weight := 1 / float64(len(r.deps.ScanDirs))
		for _, dir := range r.deps.ScanDirs {
			if j.IsCancelled() {
				break
			}
			j.SetHint(dir)
			matches, err := r.deps.Scanner.Scan(j.NewSubJob(weight), dir, candidates)
			if err != nil {
				logrus.Warnf("Scanning %s failed: %v", dir, err)
				continue
			}
			for _, m := range matches {
				if !m.Version.Installed() {
					logrus.Infof("Detected %s in %s", m.Version, m.Dir)
					m.Version.SetInstalled(m.Dir, true)
				}
			}
		}
	}

	j.Complete()
}
