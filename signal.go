package safefetch

import "context"

// combineContexts merges any number of cancellation sources into one
// effective context: the result is done as soon as the first parent is done,
// and context.Cause on the result reports that parent's cause so callers can
// classify the failure instead of guessing from timing.
//
// Zero parents yield a never-cancelled context. A single parent is returned
// unchanged to avoid pointless wrapping. The returned stop function releases
// all subscriptions and must be called once the combined context is no
// longer needed.
func combineContexts(parents ...context.Context) (context.Context, context.CancelFunc) {
	switch len(parents) {
	case 0:
		return context.Background(), func() {}
	case 1:
		return parents[0], func() {}
	}

	// An already-cancelled parent wins immediately: no work should start
	// on behalf of a caller that has already given up.
	for _, parent := range parents {
		if parent.Err() != nil {
			ctx, cancel := context.WithCancelCause(context.Background())
			cancel(context.Cause(parent))
			return ctx, func() {}
		}
	}

	ctx, cancel := context.WithCancelCause(context.Background())

	stops := make([]func() bool, 0, len(parents))
	for _, parent := range parents {
		parent := parent
		stops = append(stops, context.AfterFunc(parent, func() {
			// First firing wins; later cancels are no-ops.
			cancel(context.Cause(parent))
		}))
	}

	stop := func() {
		for _, s := range stops {
			s()
		}
		cancel(context.Canceled)
	}
	return ctx, stop
}
