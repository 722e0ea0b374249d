package safefetch

import (
	"context"
	"time"
)

// Request is the mutable per-call descriptor handed to the pre-request
// hook after URL, query and header resolution. Changes made by the hook
// apply to every attempt of the call.
type Request struct {
	Method string

	// URL is fully resolved: base URL applied, query encoded.
	URL string

	// Headers is the merged header set (request-level over client-level).
	Headers map[string]string

	// Body is the not-yet-normalized body value.
	Body any

	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
}

// RequestHook runs exactly once per call, before the first attempt. A
// non-nil error aborts the call before any attempt is made.
type RequestHook func(ctx context.Context, req *Request) error

// ResponseHook observes every final response regardless of status. It runs
// last in the pipeline and its return is not consumed.
type ResponseHook func(ctx context.Context, resp *Response)

// ErrorHook observes the classified error of a call that produced no
// response. The error is still returned to the caller afterwards.
type ErrorHook func(ctx context.Context, err *ClientError)

// RecoverHook runs when the final response is a 4xx. Returning a non-nil
// response substitutes it for the one delivered to the caller; returning
// nil keeps the original. Any follow-up request (token refresh and replay,
// say) is the hook's own responsibility; the client never re-enters it.
type RecoverHook func(ctx context.Context, resp *Response, attempt int) *Response

// StatusHandler observes a final response with a particular status code.
type StatusHandler func(ctx context.Context, resp *Response)

// hookSet holds the configured lifecycle hooks of a Client.
type hookSet struct {
	onRequest      RequestHook
	onResponse     ResponseHook
	onError        ErrorHook
	onRecover      RecoverHook
	statusHandlers map[int]StatusHandler
	onServerError  StatusHandler
}

// dispatchStatus runs the exact-status handler, then the generic 5xx
// handler for statuses above 500. A 500 only reaches its exact handler so
// a code-500 handler is never doubled by the catch-all.
func (h *hookSet) dispatchStatus(ctx context.Context, resp *Response) {
	if handler, ok := h.statusHandlers[resp.StatusCode]; ok {
		handler(ctx, resp)
	}
	if resp.StatusCode > 500 && h.onServerError != nil {
		h.onServerError(ctx, resp)
	}
}

// recoverResponse gives the 4xx hook a chance to substitute the response.
func (h *hookSet) recoverResponse(ctx context.Context, resp *Response, attempt int) *Response {
	if h.onRecover == nil {
		return resp
	}
	if resp.StatusCode < 400 || resp.StatusCode >= 500 {
		return resp
	}
	if substitute := h.onRecover(ctx, resp, attempt); substitute != nil {
		return substitute
	}
	return resp
}
