// Package progress reports job progress through logrus.
package progress

import (
	"math"
	"sync"

	"github.com/ralt/wpm/internal/job"
	"github.com/sirupsen/logrus"
)

// Logger is a job.Observer that logs the root job whenever its hint
// changes or its progress crosses a step
type Logger struct {
	Step float64

	mu       sync.Mutex
	lastHint string
	lastStep int
}

// NewLogger creates an observer logging every 10 percent
func NewLogger() *Logger {
	return &Logger{Step: 0.1, lastStep: -1}
}

// JobChanged implements job.Observer
func (l *Logger) JobChanged(j *job.Job) {
	root := j.Root()
	hint := root.FullHint()
	progress := root.Progress()

	l.mu.Lock()
	step := int(math.Floor(progress / l.Step))
	changed := hint != l.lastHint || step != l.lastStep
	l.lastHint, l.lastStep = hint, step
	l.mu.Unlock()

	if !changed {
		return
	}

	if msg := j.ErrorMessage(); msg != "" && j.Done() {
		logrus.Debugf("%s: %s", hint, msg)
	}
	logrus.Infof("[%3.0f%%] %s", progress*100, hint)
}
