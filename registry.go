package safefetch

import (
	"context"
	"sync"
)

// callController is the cancellation handle registered for one in-flight
// call. Its context is merged into every attempt of the call, so AbortAll
// reaches the call even before its first attempt starts.
type callController struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// abortRegistry tracks the controller of every in-flight call issued through
// one Client. Membership edits and AbortAll may interleave freely.
type abortRegistry struct {
	mu          sync.Mutex
	controllers map[*callController]struct{}
}

func newAbortRegistry() *abortRegistry {
	return &abortRegistry{controllers: make(map[*callController]struct{})}
}

// register creates a controller for a new call and adds it to the set.
func (r *abortRegistry) register() *callController {
	ctx, cancel := context.WithCancelCause(context.Background())
	ctrl := &callController{ctx: ctx, cancel: cancel}

	r.mu.Lock()
	r.controllers[ctrl] = struct{}{}
	r.mu.Unlock()

	return ctrl
}

// deregister removes a controller and releases its context. Safe to call
// for a controller that AbortAll already removed.
func (r *abortRegistry) deregister(ctrl *callController) {
	r.mu.Lock()
	delete(r.controllers, ctrl)
	r.mu.Unlock()

	ctrl.cancel(context.Canceled)
}

// abortAll cancels every registered controller with ErrAborted and clears
// the set. Idempotent; a no-op with zero in-flight calls. Controllers are
// snapshotted under the lock so a concurrently deregistering call cannot
// corrupt the sweep.
func (r *abortRegistry) abortAll() int {
	r.mu.Lock()
	snapshot := make([]*callController, 0, len(r.controllers))
	for ctrl := range r.controllers {
		snapshot = append(snapshot, ctrl)
	}
	r.controllers = make(map[*callController]struct{})
	r.mu.Unlock()

	for _, ctrl := range snapshot {
		ctrl.cancel(ErrAborted)
	}
	return len(snapshot)
}

// size reports the number of currently registered controllers.
func (r *abortRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.controllers)
}
