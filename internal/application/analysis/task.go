package analysis

import (
	"context"
	"sync"

	domain "github.com/bryanwahyu/herbalens/internal/domain/analysis"
)

// Task is one in-flight analysis. It resolves exactly once, either with a
// Result or with an error wrapping ErrPipelineFault or ErrCanceled.
type Task struct {
	id     string
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	result domain.Result
	err    error
}

func newTask(id string, cancel context.CancelFunc) *Task {
	return &Task{id: id, cancel: cancel, done: make(chan struct{})}
}

// ID is the analysis id the result will carry.
func (t *Task) ID() string { return t.id }

// Done is closed once the task has resolved.
func (t *Task) Done() <-chan struct{} { return t.done }

// Cancel stops the task. It is a no-op if the task already resolved.
func (t *Task) Cancel() { t.cancel() }

// Wait blocks until the task resolves or ctx ends.
func (t *Task) Wait(ctx context.Context) (domain.Result, error) {
	select {
	case <-t.done:
		if t.err != nil {
			return domain.Result{}, t.err
		}
		return t.result.Clone(), nil
	case <-ctx.Done():
		return domain.Result{}, ctx.Err()
	}
}

func (t *Task) resolve(r domain.Result, err error) {
	t.once.Do(func() {
		t.result, t.err = r, err
		close(t.done)
		t.cancel()
	})
}
