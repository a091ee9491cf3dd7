// Package job tracks long running operations as a tree of weighted,
// cancellable jobs.
//
// A job reports its progress in [0, 1]. Sub-jobs contribute their progress
// multiplied by their weight to the parent. Errors are stored as messages in
// the job that detected them and are never propagated automatically: the
// creator of a sub-job decides whether to copy the message upwards.
//
// A job tree may be observed from other goroutines, but it is mutated by a
// single operation at a time.
package job

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

// State is the lifecycle state of a job
type State int

const (
	Running State = iota
	Completed
	CompletedWithError
	Cancelled
)

// String returns the string representation of State
func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case CompletedWithError:
		return "failed"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Observer is notified after any job of a tree changed
type Observer interface {
	JobChanged(j *Job)
}

// ObserverFunc adapts a function to the Observer interface
type ObserverFunc func(j *Job)

// JobChanged calls f(j)
func (f ObserverFunc) JobChanged(j *Job) {
	f(j)
}

// tree holds the state shared by all jobs created from the same root
type tree struct {
	mu        sync.Mutex
	cancelled atomic.Bool
	ctx       context.Context
	observers []Observer
}

// Job is a node of a job tree
type Job struct {
	tree     *tree
	parent   *Job
	weight   float64
	hint     string
	progress float64
	children []*Job
	errMsg   string
	err      error
	state    State
}

// New creates a root job
func New(observers ...Observer) *Job {
	return NewWithContext(context.Background(), observers...)
}

// NewWithContext creates a root job that is also cancelled when ctx is done
func NewWithContext(ctx context.Context, observers ...Observer) *Job {
	return &Job{
		tree: &tree{
			ctx:       ctx,
			observers: observers,
		},
		weight: 1,
	}
}

// NewSubJob creates a child contributing weight times its progress to this
// job. The weight should be in (0, 1]; other values are clamped.
func (j *Job) NewSubJob(weight float64) *Job {
	if weight <= 0 || weight > 1 {
		logrus.Warnf("Sub-job weight %g out of range, clamping", weight)
		weight = min(max(weight, 0), 1)
	}

	j.tree.mu.Lock()
	sub := &Job{
		tree:   j.tree,
		parent: j,
		weight: weight,
	}
	j.children = append(j.children, sub)
	j.tree.mu.Unlock()

	return sub
}

// Run creates a sub-job, passes it to fn and completes it afterwards unless
// fn already did. It returns the completed sub-job for inspection.
func (j *Job) Run(weight float64, fn func(sub *Job)) *Job {
	sub := j.NewSubJob(weight)
	defer func() {
		if sub.State() == Running {
			sub.Complete()
		}
	}()
	fn(sub)
	return sub
}

// Weight returns the share of the parent's progress this job represents
func (j *Job) Weight() float64 {
	return j.weight
}

// Root returns the root of the tree
func (j *Job) Root() *Job {
	for j.parent != nil {
		j = j.parent
	}
	return j
}

// SetProgress sets the progress made outside of sub-jobs
func (j *Job) SetProgress(p float64) {
	p = min(max(p, 0), 1)

	j.tree.mu.Lock()
	old, hint := j.progress, j.hint
	j.progress = p
	j.tree.mu.Unlock()

	if p < old {
		logrus.Debugf("Progress of %q decreased from %g to %g", hint, old, p)
	}

	j.notify()
}

// Progress returns the own progress plus the weighted progress of all
// sub-jobs, capped at 1
func (j *Job) Progress() float64 {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()
	return j.progressLocked()
}

func (j *Job) progressLocked() float64 {
	p := j.progress
	for _, c := range j.children {
		p += c.weight * c.progressLocked()
	}
	return min(p, 1)
}

// SetHint sets a short description of what the job is doing
func (j *Job) SetHint(hint string) {
	j.tree.mu.Lock()
	j.hint = hint
	j.tree.mu.Unlock()

	j.notify()
}

// Hint returns the hint of this job
func (j *Job) Hint() string {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()
	return j.hint
}

// FullHint joins the hints from the root down to the deepest running
// descendant, e.g. "Loading repositories / Repository 1 of 2 / Downloading"
func (j *Job) FullHint() string {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()

	var parts []string
	for cur := j; cur != nil; {
		if cur.hint != "" {
			parts = append(parts, cur.hint)
		}
		var next *Job
		for i := len(cur.children) - 1; i >= 0; i-- {
			if cur.children[i].state == Running {
				next = cur.children[i]
				break
			}
		}
		cur = next
	}
	return strings.Join(parts, " / ")
}

// Cancel requests cancellation of the whole tree. Long running operations
// observe it through IsCancelled.
func (j *Job) Cancel() {
	j.tree.cancelled.Store(true)
	j.notify()
}

// Context returns the context the root job was created with
func (j *Job) Context() context.Context {
	return j.tree.ctx
}

// IsCancelled reports whether the tree was cancelled
func (j *Job) IsCancelled() bool {
	return j.tree.cancelled.Load() || j.tree.ctx.Err() != nil
}

// SetErrorMessage stores msg unless a message is already present
func (j *Job) SetErrorMessage(msg string) {
	if msg == "" {
		return
	}

	j.tree.mu.Lock()
	changed := j.errMsg == ""
	if changed {
		j.errMsg = msg
	}
	j.tree.mu.Unlock()

	if changed {
		j.notify()
	}
}

// Fail stores err and its message unless a message is already present
func (j *Job) Fail(err error) {
	if err == nil {
		return
	}

	j.tree.mu.Lock()
	changed := j.errMsg == ""
	if changed {
		j.errMsg = err.Error()
		j.err = err
	}
	j.tree.mu.Unlock()

	if changed {
		j.notify()
	}
}

// ErrorMessage returns the stored error message, or ""
func (j *Job) ErrorMessage() string {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()
	return j.errMsg
}

// Err returns the stored error, or nil
func (j *Job) Err() error {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()

	if j.err != nil {
		return j.err
	}
	if j.errMsg != "" {
		return errors.New(j.errMsg)
	}
	return nil
}

// Failed reports whether an error message is present
func (j *Job) Failed() bool {
	return j.ErrorMessage() != ""
}

// ShouldContinue reports whether the job is neither cancelled nor failed
func (j *Job) ShouldContinue() bool {
	return !j.IsCancelled() && !j.Failed()
}

// Complete moves the job to its terminal state: CompletedWithError if an
// error is stored, Cancelled if the tree was cancelled, Completed otherwise.
// A completed job reports progress 1. Completing a job again has no effect
// and returns the state reached the first time.
func (j *Job) Complete() State {
	cancelled := j.IsCancelled()

	j.tree.mu.Lock()
	if j.state != Running {
		state, hint := j.state, j.hint
		j.tree.mu.Unlock()
		logrus.Warnf("Job %q completed more than once", hint)
		return state
	}
	switch {
	case j.errMsg != "":
		j.state = CompletedWithError
	case cancelled:
		j.state = Cancelled
	default:
		j.state = Completed
		j.progress = 1
	}
	state := j.state
	j.tree.mu.Unlock()

	j.notify()
	return state
}

// State returns the lifecycle state
func (j *Job) State() State {
	j.tree.mu.Lock()
	defer j.tree.mu.Unlock()
	return j.state
}

// Done reports whether the job reached a terminal state
func (j *Job) Done() bool {
	return j.State() != Running
}

func (j *Job) notify() {
	j.tree.mu.Lock()
	observers := j.tree.observers
	j.tree.mu.Unlock()

	for _, o := range observers {
		o.JobChanged(j)
	}
}
