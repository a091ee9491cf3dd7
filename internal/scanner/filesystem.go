package scanner

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ralt/wpm/internal/job"
	"github.com/ralt/wpm/internal/models"
	"github.com/sirupsen/logrus"
)

// FileSystemScanner implements Scanner by hashing detection files
// directory by directory
type FileSystemScanner struct {
	// Ignore lists directories that are not scanned
	Ignore []string

	// ProgressDepth is the number of directory levels that get their own
	// sub-job
	ProgressDepth int
}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner(ignore ...string) *FileSystemScanner {
	return &FileSystemScanner{
		Ignore:        ignore,
		ProgressDepth: 2,
	}
}

// Scan recursively scans a directory. A directory matching a candidate is
// not descended into. The job is completed before returning.
func (s *FileSystemScanner) Scan(j *job.Job, dir string, candidates []*models.PackageVersion) ([]Match, error) {
	defer j.Complete()

	info, err := os.Stat(dir)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", dir)
	}
	if err != nil {
		err = fmt.Errorf("failed to scan directory: %w", err)
		j.Fail(err)
		return nil, err
	}

	state := &scan{
		scanner: s,
		cancel:  j,
		pending: make(map[*models.PackageVersion]bool),
	}
	for _, pv := range candidates {
		if !pv.Installed() && len(pv.DetectFiles) > 0 {
			state.pending[pv] = true
		}
	}
	state.order = candidates

	if len(state.pending) > 0 {
		state.walk(dir, j, 0)
	}

	logrus.Infof("Recognized %d package versions in %s", len(state.matches), dir)
	return state.matches, nil
}

type scan struct {
	scanner *FileSystemScanner
	cancel  *job.Job
	order   []*models.PackageVersion
	pending map[*models.PackageVersion]bool
	matches []Match
}

func (s *scan) walk(dir string, j *job.Job, level int) {
	if s.cancel.IsCancelled() || len(s.pending) == 0 || isIgnored(dir, s.scanner.Ignore) {
		return
	}

	cache := newDigestCache(dir)
	for _, pv := range s.order {
		if s.cancel.IsCancelled() {
			return
		}
		if !s.pending[pv] || !cache.matches(pv) {
			continue
		}
		logrus.Debugf("Found %s in %s", pv, dir)
		delete(s.pending, pv)
		s.matches = append(s.matches, Match{Version: pv, Dir: dir})
		return
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		logrus.Debugf("Failed to read %s: %v", dir, err)
		return
	}

	var subdirs []string
	for _, e := range entries {
		if e.IsDir() {
			subdirs = append(subdirs, e.Name())
		}
	}

	for idx, name := range subdirs {
		if s.cancel.IsCancelled() {
			return
		}

		var sub *job.Job
		if j != nil {
			j.SetHint(name)
			if level < s.scanner.ProgressDepth {
				sub = j.NewSubJob(1.0 / float64(len(subdirs)))
			}
		}

		s.walk(filepath.Join(dir, name), sub, level+1)

		if sub != nil {
			sub.Complete()
		} else if j != nil {
			j.SetProgress(float64(idx+1) / float64(len(subdirs)))
		}
	}
}
