package repository

import (
	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
	"github.com/ralt/wpm/internal/utils"
	"github.com/sirupsen/logrus"
)

// Process executes the operations in the given order, each as a sub-job of
// equal weight. Dependencies between the operations are not considered.
// The first failing operation stops the processing; its error is stored in
// j and returned. j is completed before returning.
func (r *Repository) Process(j *job.Job, ops []models.InstallOperation) error {
	var err error
	for _, op := range ops {
		if j.IsCancelled() {
			break
		}

		j.SetHint(op.String())
		sub := j.Run(1/float64(len(ops)), func(sub *job.Job) {
			opErr := r.apply(sub, op)
			if opErr != nil && !models.IsType(opErr, models.ErrCancelled) {
				sub.Fail(opErr)
			}
		})

		if sub.Failed() {
			err = sub.Err()
			j.Fail(err)
			break
		}
	}

	j.Complete()
	return err
}

func (r *Repository) apply(j *job.Job, op models.InstallOperation) error {
	if r.deps.Installer == nil {
		return models.Errorf(models.ErrInstall, op.Version.Package, "no installer configured")
	}
	if op.Install {
		return r.install(j, op.Version)
	}
	return r.uninstall(j, op.Version)
}

func (r *Repository) install(j *job.Job, pv *models.PackageVersion) error {
	if pv.Installed() {
		return models.Errorf(models.ErrInstall, pv.Package, "%s is already installed in %s", pv, pv.Path)
	}

	dir := utils.InstallationDir(r.deps.InstallDir, pv)
	if err := r.deps.Installer.Install(j, pv, dir); err != nil {
		return err
	}
	if j.Failed() {
		return j.Err()
	}
	pv.SetInstalled(dir, false)
	logrus.Infof("Installed %s in %s", pv, dir)

	if r.deps.State != nil {
		if err := r.deps.State.Put(pv.Key(), models.InstalledRecord{Path: dir}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repository) uninstall(j *job.Job, pv *models.PackageVersion) error {
	if !pv.Installed() {
		return models.Errorf(models.ErrInstall, pv.Package, "%s is not installed", pv)
	}
	if pv.External {
		return models.Errorf(models.ErrInstall, pv.Package,
			"%s was not installed by this program and cannot be removed", pv)
	}

	if err := r.deps.Installer.Uninstall(j, pv); err != nil {
		return err
	}
	if j.Failed() {
		return j.Err()
	}
	logrus.Infof("Uninstalled %s from %s", pv, pv.Path)
	pv.ClearInstalled()

	if r.deps.State != nil {
		if err := r.deps.State.Delete(pv.Key()); err != nil {
			return err
		}
	}
	return nil
}
