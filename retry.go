package safefetch

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// retryPolicy decides after each transport outcome whether another attempt
// should occur and how long to wait first. The delay is fixed rather than
// exponential: attempt spacing stays predictable and testable.
type retryPolicy struct {
	maxRetries        int
	delay             time.Duration
	respectRetryAfter bool
}

func newRetryPolicy(maxRetries int, delay time.Duration, respectRetryAfter bool) retryPolicy {
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	return retryPolicy{
		maxRetries:        maxRetries,
		delay:             delay,
		respectRetryAfter: respectRetryAfter,
	}
}

// ShouldRetry reports whether attempt+1 should run, and the wait before it.
//
// A response with status < 500 is never retried: 4xx is a valid
// application-level answer. A 5xx is retried while attempts remain; on the
// last allowed attempt the 5xx response flows through to the caller instead
// of an exhausted-retry error. A transport error is retried while attempts
// remain unless the cancellation is permanent (caller context or AbortAll),
// in which case every further attempt would start already cancelled.
func (p retryPolicy) ShouldRetry(resp *http.Response, err error, attempt int) (time.Duration, bool) {
	if attempt >= p.maxRetries {
		return 0, false
	}

	if err != nil {
		var clientErr *ClientError
		if errors.As(err, &clientErr) {
			switch clientErr.Type {
			case ErrorTypeCanceled, ErrorTypeAborted:
				return 0, false
			}
		}
		return p.delay, true
	}

	if resp == nil || resp.StatusCode < 500 {
		return 0, false
	}

	delay := p.delay
	if p.respectRetryAfter && resp.StatusCode == http.StatusServiceUnavailable {
		if d := parseRetryAfter(resp.Header.Get("Retry-After")); d > 0 {
			delay = d
		}
	}
	return delay, true
}

// parseRetryAfter parses a Retry-After header value, supporting both
// delay-seconds and HTTP-date formats. Capped at one hour.
func parseRetryAfter(value string) time.Duration {
	if value == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
		if seconds > 0 {
			delay := time.Duration(seconds) * time.Second
			if delay > time.Hour {
				delay = time.Hour
			}
			return delay
		}
		return 0
	}

	if t, err := http.ParseTime(value); err == nil {
		delay := time.Until(t)
		if delay > 0 && delay <= time.Hour {
			return delay
		}
	}

	return 0
}
