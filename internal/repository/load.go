package repository

import (
	"fmt"

	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
	"github.com/sirupsen/logrus"
)

// Load replaces the packages, versions and licenses with the contents of
// the given sources. Sources are read in order; the first failing source
// stops the load and its error is stored in j. Well-known packages are
// added afterwards in every case. j is completed before returning.
func (r *Repository) Load(j *job.Job, sources []string) error {
	r.clear()
	err := r.loadSources(j, sources)
	r.AddWellKnownPackages()
	j.Complete()
	return err
}

func (r *Repository) loadSources(j *job.Job, sources []string) error {
	if len(sources) == 0 {
		err := models.Errorf(models.ErrNoSourcesConfigured, "", "No repositories defined")
		j.Fail(err)
		j.SetProgress(0.9)
		return err
	}
	if r.deps.Loader == nil {
		err := models.Errorf(models.ErrInvalidConfig, "", "no feed loader configured")
		j.Fail(err)
		return err
	}

	weight := 0.9 / float64(len(sources))
	for _, url := range sources {
		j.SetHint(fmt.Sprintf("Loading %s", url))

		var feed *models.Feed
		var loadErr error
		sub := j.Run(weight, func(sub *job.Job) {
			feed, loadErr = r.deps.Loader.Load(sub, url)
		})

		if sub.Failed() || (loadErr != nil && !models.IsType(loadErr, models.ErrCancelled)) {
			if loadErr == nil {
				loadErr = sub.Err()
			}
			err := fmt.Errorf("error loading the repository %s: %w", url, loadErr)
			j.Fail(err)
			return err
		}

		if feed != nil {
			r.Fold(feed)
			logrus.Debugf("Loaded %s: %d packages, %d versions, %d licenses",
				url, len(feed.Packages), len(feed.Versions), len(feed.Licenses))
		}

		if j.IsCancelled() {
			logrus.Infof("Loading repositories cancelled")
			break
		}
	}

	return nil
}

// Reload loads the configured sources and reconciles the result with the
// machine. The refresh is skipped when loading failed or j was cancelled.
// j is completed before returning.
func (r *Repository) Reload(j *job.Job) error {
	sources, err := r.GetSources()
	if err != nil {
		j.Fail(err)
		j.Complete()
		return err
	}

	j.SetHint("Loading repositories")
	sub := j.NewSubJob(0.75)
	err = r.Load(sub, sources)
	if err != nil {
		j.Fail(err)
	}

	if j.ShouldContinue() {
		j.SetHint("Refreshing installation statuses")
		sub := j.NewSubJob(0.25)
		if rerr := r.Refresh(sub); rerr != nil {
			j.Fail(rerr)
			err = rerr
		}
	}

	j.Complete()
	return err
}
