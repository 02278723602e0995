package assistant

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// Tasks keeps at most one running task per command kind.
// Starting a new task cancels the previous one of the same kind.
type Tasks struct {
	mu      sync.Mutex
	running map[Kind]*task
}

type task struct {
	id     string
	cancel context.CancelCauseFunc
}

func NewTasks() *Tasks {
	return &Tasks{running: map[Kind]*task{}}
}

// Start registers a task for kind. done must be called when the task finishes.
func (t *Tasks) Start(parent context.Context, kind Kind) (ctx context.Context, id string, done func()) {
	ctx, cancel := context.WithCancelCause(parent)
	current := &task{id: uuid.NewString(), cancel: cancel}

	t.mu.Lock()
	if previous, ok := t.running[kind]; ok {
		previous.cancel(errSuperseded)
	}
	t.running[kind] = current
	t.mu.Unlock()

	done = func() {
		t.mu.Lock()
		if t.running[kind] == current {
			delete(t.running, kind)
		}
		t.mu.Unlock()
		cancel(context.Canceled)
	}
	return ctx, current.id, done
}

// inFlight returns the number of tasks in flight
func (t *Tasks) inFlight() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.running)
}

// superseded reports whether ctx was canceled because a newer task took over
func superseded(ctx context.Context) bool {
	return context.Cause(ctx) == errSuperseded
}
