// Package installer implements the file operations of installing and
// removing package versions.
package installer

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/utils"
	"github.com/sirupsen/logrus"
)

// Downloader stores the content of a URL in a local file. Forget discards
// that file so the next Download fetches the URL again.
type Downloader interface {
	Download(j *job.Job, url string) (string, error)
	Forget(url string) error
}

// Installer unpacks downloaded packages into installation directories
type Installer struct {
	downloader Downloader
}

// New creates an installer
func New(d Downloader) *Installer {
	return &Installer{downloader: d}
}

// Install downloads pv, verifies its checksum and unpacks it into dir. The
// files declared by pv are written afterwards. On failure dir is removed.
func (i *Installer) Install(j *job.Job, pv *models.PackageVersion, dir string) error {
	if pv.URL == "" {
		return models.Errorf(models.ErrInstall, pv.Package, "%s has no download URL", pv)
	}

	err := i.install(j, pv, dir)
	if err != nil {
		if rmErr := os.RemoveAll(dir); rmErr != nil {
			logrus.Warnf("Failed to remove %s: %v", dir, rmErr)
		}
	}
	return err
}

func (i *Installer) install(j *job.Job, pv *models.PackageVersion, dir string) error {
	j.SetHint("Downloading")
	var file string
	var err error
	j.Run(0.6, func(sub *job.Job) {
		file, err = i.downloader.Download(sub, pv.URL)
	})
	if models.IsType(err, models.ErrCancelled) {
		return err
	}
	if err != nil {
		return &models.EngineError{
			Type:    models.ErrInstall,
			Package: pv.Package,
			Err:     fmt.Errorf("download of %s failed: %w", pv.URL, err),
		}
	}
	if j.IsCancelled() {
		return models.Errorf(models.ErrCancelled, pv.Package, "installation cancelled")
	}

	if err := utils.VerifySHA1(file, pv.SHA1); err != nil {
		if fErr := i.downloader.Forget(pv.URL); fErr != nil {
			logrus.Warnf("Failed to discard the download of %s: %v", pv.URL, fErr)
		}
		return &models.EngineError{Type: models.ErrInstall, Package: pv.Package, Err: err}
	}

	if err := utils.EnsureDir(dir); err != nil {
		return &models.EngineError{Type: models.ErrFileOp, Package: pv.Package, Err: err}
	}

	j.SetHint("Extracting")
	switch pv.Type {
	case models.TypeOneFile:
		err = utils.CopyFile(file, filepath.Join(dir, fileName(pv.URL)))
	default:
		err = unzip(j, file, dir)
	}
	if models.IsType(err, models.ErrCancelled) {
		return err
	}
	if err != nil {
		return &models.EngineError{Type: models.ErrFileOp, Package: pv.Package, Err: err}
	}
	j.SetProgress(0.3)

	for _, f := range pv.Files {
		target, err := utils.SafeJoin(dir, f.Path)
		if err != nil {
			return &models.EngineError{Type: models.ErrInstall, Package: pv.Package, Err: err}
		}
		if err := utils.WriteFile(target, []byte(f.Content), 0o644); err != nil {
			return &models.EngineError{Type: models.ErrFileOp, Package: pv.Package, Err: err}
		}
	}

	return nil
}

// Uninstall removes the installation directory of pv
func (i *Installer) Uninstall(j *job.Job, pv *models.PackageVersion) error {
	if pv.Path == "" {
		return models.Errorf(models.ErrInstall, pv.Package, "%s is not installed", pv)
	}

	j.SetHint("Deleting files")
	if err := os.RemoveAll(pv.Path); err != nil {
		return &models.EngineError{
			Type:    models.ErrFileOp,
			Package: pv.Package,
			Err:     fmt.Errorf("failed to remove %s: %w", pv.Path, err),
		}
	}
	j.SetProgress(1)
	return nil
}

// fileName returns the last path element of a download URL
func fileName(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil && u.Path != "" {
		p = u.Path
	}
	name := path.Base(strings.ReplaceAll(p, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "download"
	}
	return name
}

func unzip(j *job.Job, file, dir string) error {
	r, err := zip.OpenReader(file)
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer r.Close()

	for n, f := range r.File {
		if j.IsCancelled() {
			return models.Errorf(models.ErrCancelled, "", "extraction cancelled")
		}

		target, err := utils.SafeJoin(dir, f.Name)
		if err != nil {
			return err
		}

		if f.FileInfo().IsDir() {
			if err := utils.EnsureDir(target); err != nil {
				return err
			}
			continue
		}

		if err := extract(f, target); err != nil {
			return fmt.Errorf("failed to extract %s: %w", f.Name, err)
		}
		j.SetProgress(0.3 * float64(n+1) / float64(len(r.File)))
	}
	return nil
}

func extract(f *zip.File, target string) error {
	if err := utils.EnsureDir(filepath.Dir(target)); err != nil {
		return err
	}

	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, rc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
