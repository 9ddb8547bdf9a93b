// Package task runs the producer side of a sort on its own goroutine and
// reports how it ended.
//
// A Task converts a panic in its function into a TaskError matching
// ErrTaskPanicked, so a crashing sort surfaces as a failure on the channel
// instead of taking the process down.
package task

import (
	"context"
	"sync"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"

	"github.com/Iron-Ham/sortscope/internal/errors"
)

// Task is a function running on a background goroutine.
type Task struct {
	runID  string
	onDone []func(error)

	wg   conc.WaitGroup
	done chan struct{}

	mu  sync.Mutex
	err error
}

// Option configures a Task.
type Option func(*Task)

// WithRunID tags panic errors with the run they belong to.
func WithRunID(id string) Option {
	return func(t *Task) {
		t.runID = id
	}
}

// WithOnDone registers fn to be called with the task's result, on the task's
// goroutine, before Done is closed. Callbacks run in registration order.
func WithOnDone(fn func(error)) Option {
	return func(t *Task) {
		t.onDone = append(t.onDone, fn)
	}
}

// Go starts fn on a new goroutine.
func Go(fn func() error, opts ...Option) *Task {
	t := &Task{done: make(chan struct{})}
	for _, opt := range opts {
		opt(t)
	}

	t.wg.Go(func() {
		defer close(t.done)
		err := t.run(fn)

		t.mu.Lock()
		t.err = err
		t.mu.Unlock()

		for _, cb := range t.onDone {
			cb(err)
		}
	})
	return t
}

func (t *Task) run(fn func() error) (err error) {
	var pc panics.Catcher
	pc.Try(func() {
		err = fn()
	})
	if r := pc.Recovered(); r != nil {
		return errors.NewTaskError(errors.Join(errors.ErrTaskPanicked, r.AsError())).WithRunID(t.runID)
	}
	return err
}

// Done is closed when the function has returned and every callback has run.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx is cancelled and returns the
// task's error or ctx's.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		t.wg.Wait()
		return t.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the task's error. It is nil while the task is running.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}
