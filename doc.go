// Package safefetch provides a resilient HTTP request orchestrator:
//
//   - Retries of recoverable failures with a fixed, predictable delay
//   - Per-attempt timeouts that never leak across attempts
//   - Multi-source cancellation: caller context, per-call controller and
//     client-wide AbortAll merged into one classified signal
//   - A lifecycle hook pipeline: pre-request, per-status-code dispatch,
//     4xx recovery/substitution, post-response and network-error hooks
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - Safe concurrent use of a single *Client instance
//   - The server's final answer is always observable: a 5xx that survives
//     its retry budget is returned as a Response, never hidden behind an
//     exhausted-retry error
//   - Every failure without a response is a classified *ClientError that
//     tells timeouts, caller cancellation and AbortAll apart
//
// Typical usage:
//
//	client := safefetch.New(
//	    safefetch.WithBaseURL("https://api.example.com"),
//	    safefetch.WithMaxRetries(3),
//	    safefetch.WithTimeout(5*time.Second),
//	    safefetch.WithStatusHandler(401, refreshSession),
//	)
//	resp, err := client.Get(ctx, "/data", nil)
//
// Responses with status < 500 are never retried: a 4xx is a valid
// application-level answer, optionally substituted by a RecoverHook. The
// library avoids opinionated logging: provide a Logger (e.g. via
// WithSimpleLogger) and enable debug flags selectively for insight without
// noise.
package safefetch
