package safefetch

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"
)

// Client is a resilient HTTP client that layers retries, per-attempt
// timeouts, multi-source cancellation and a lifecycle hook pipeline around
// the standard net/http Client. It is safe for concurrent use; any number
// of calls may be in flight at once and AbortAll reaches them all.
type Client struct {
	httpClient        *http.Client
	baseURL           string
	headers           map[string]string
	maxRetries        int
	retryDelay        time.Duration
	respectRetryAfter bool
	timeout           time.Duration
	hooks             hookSet
	registry          *abortRegistry
	metrics           *MetricsCollector
	debug             *DebugConfig
	logger            Logger
	validationError   error
}

// New constructs a Client using the provided functional options. A best
// effort validation is performed; call IsValid / ValidationError for errors.
func New(options ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{},
		headers:    make(map[string]string),
		maxRetries: 0,
		retryDelay: DefaultRetryDelay,
		timeout:    0,
		hooks:      hookSet{statusHandlers: make(map[int]StatusHandler)},
		registry:   newAbortRegistry(),
		debug:      DefaultDebugConfig(),
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// Get performs an HTTP GET.
func (c *Client) Get(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodGet, url, opts)
}

// Head performs an HTTP HEAD.
func (c *Client) Head(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodHead, url, opts)
}

// Post performs an HTTP POST.
func (c *Client) Post(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodPost, url, opts)
}

// Put performs an HTTP PUT.
func (c *Client) Put(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodPut, url, opts)
}

// Patch performs an HTTP PATCH.
func (c *Client) Patch(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodPatch, url, opts)
}

// Delete performs an HTTP DELETE.
func (c *Client) Delete(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return c.Do(ctx, http.MethodDelete, url, opts)
}

// AbortAll cancels every call currently in flight on this client. Calls
// that already completed are unaffected; calls racing with AbortAll observe
// the cancellation because every attempt's combined signal includes the
// call's controller. Idempotent.
func (c *Client) AbortAll() {
	n := c.registry.abortAll()
	for i := 0; i < n; i++ {
		c.metrics.RecordAbort("client")
	}

	if c.debugEnabled() && c.debug.LogAborts {
		c.logger.Info("Aborted in-flight calls", "count", n)
	}
}

// InFlight reports the number of calls currently registered.
func (c *Client) InFlight() int {
	return c.registry.size()
}

// Do executes one orchestrated call: URL and header resolution, controller
// registration, pre-request hook, body normalization, the retry loop and
// the response/error hook pipeline, in that order. The returned Response
// carries the server's final answer even for a 5xx that exhausted its
// retries; a nil Response always comes with a classified *ClientError.
func (c *Client) Do(ctx context.Context, method, rawURL string, opts *RequestOptions) (*Response, error) {
	if c.validationError != nil {
		return nil, c.validationError
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if opts == nil {
		opts = &RequestOptions{}
	}

	start := time.Now()

	var requestID string
	if c.debugEnabled() && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}

	resolved := appendQuery(resolveURL(c.baseURL, rawURL), opts.Query)
	endpoint := endpointFromURL(resolved)

	if c.debugEnabled() && c.debug.LogRequests {
		c.logger.Debug("Starting call", "requestID", requestID, "method", method, "url", resolved)
	}

	c.metrics.RecordRequestStart(method, endpoint)
	defer c.metrics.RecordRequestEnd(method, endpoint)

	// Registration happens before the pre-request hook so AbortAll can
	// reach the call even before its first attempt starts.
	ctrl := c.registry.register()
	defer c.registry.deregister(ctrl)

	req := &Request{
		Method:     method,
		URL:        resolved,
		Headers:    c.mergeHeaders(opts.Headers),
		Body:       opts.Body,
		Timeout:    opts.Timeout,
		Retries:    opts.Retries,
		RetryDelay: opts.RetryDelay,
	}
	if req.Timeout <= 0 {
		req.Timeout = c.timeout
	}
	if req.Retries <= 0 {
		req.Retries = c.maxRetries
	}
	if req.RetryDelay <= 0 {
		req.RetryDelay = c.retryDelay
	}

	if c.hooks.onRequest != nil {
		c.metrics.RecordHook("request")
		if err := c.hooks.onRequest(ctx, req); err != nil {
			return nil, fmt.Errorf("safefetch: pre-request hook: %w", err)
		}
		endpoint = endpointFromURL(req.URL)
	}

	body, defaultCT, err := normalizeBody(req.Body, headerValue(req.Headers, contentTypeHeader))
	if err != nil {
		return nil, err
	}
	if defaultCT != "" && headerValue(req.Headers, contentTypeHeader) == "" {
		if req.Headers == nil {
			req.Headers = make(map[string]string, 1)
		}
		req.Headers[contentTypeHeader] = defaultCT
	}

	policy := newRetryPolicy(req.Retries, req.RetryDelay, c.respectRetryAfter)

	var (
		resp     *http.Response
		callErr  *ClientError
		attempts int
	)
	for attempt := 0; ; attempt++ {
		attempts = attempt + 1

		if attempt > 0 && c.debugEnabled() && c.debug.LogRetries {
			c.logger.Info("Retry attempt", "requestID", requestID, "attempt", attempt, "maxRetries", req.Retries, "endpoint", endpoint)
		}
		if attempt > 0 {
			c.metrics.RecordRetry(req.Method, endpoint, attempt)
		}

		resp, callErr = c.attemptOnce(ctx, ctrl, req, body, requestID, attempt, start)

		var retryErr error
		if callErr != nil {
			retryErr = callErr
			c.metrics.RecordError(callErr.Type, req.Method, endpoint)
		} else if resp.StatusCode >= 500 {
			c.metrics.RecordError(ErrorTypeServer, req.Method, endpoint)
		}

		delay, retry := policy.ShouldRetry(resp, retryErr, attempt)
		if !retry {
			break
		}

		// A retryable 5xx body is never delivered; release the
		// connection before the next attempt.
		if resp != nil {
			resp.Body.Close()
			resp = nil
		}

		if c.debugEnabled() && c.debug.LogRetries {
			c.logger.Info("Scheduling retry", "requestID", requestID, "attempt", attempt+1, "delay", delay, "endpoint", endpoint)
		}

		if werr := waitRetryDelay(ctx, ctrl.ctx, delay); werr != nil {
			resp = nil
			callErr = c.classifyCause(werr, req, requestID, attempt, start)
			break
		}
	}

	duration := time.Since(start)

	if callErr != nil {
		c.metrics.RecordRequest(req.Method, endpoint, 0, duration)
		c.recordAbortScope(callErr.Type)

		if c.hooks.onError != nil {
			c.metrics.RecordHook("error")
			c.hooks.onError(ctx, callErr)
		}
		if c.debugEnabled() {
			c.logger.Error("Call failed", "requestID", requestID, "error", callErr.Error(), "attempts", attempts)
		}
		return nil, callErr
	}

	response := &Response{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Header:     resp.Header,
		Body:       resp.Body,
		URL:        req.URL,
		Attempts:   attempts,
	}

	if c.hooks.onRecover != nil && response.StatusCode >= 400 && response.StatusCode < 500 {
		c.metrics.RecordHook("recover")
	}
	response = c.hooks.recoverResponse(ctx, response, attempts-1)

	c.hooks.dispatchStatus(ctx, response)
	if c.hooks.onResponse != nil {
		c.metrics.RecordHook("response")
		c.hooks.onResponse(ctx, response)
	}

	c.metrics.RecordRequest(req.Method, endpoint, response.StatusCode, duration)

	if c.debugEnabled() && c.debug.LogRequests {
		c.logger.Debug("Call completed", "requestID", requestID, "status", response.StatusCode, "attempts", attempts, "duration", duration)
	}

	return response, nil
}

// attemptOnce runs a single transport attempt under the combined
// cancellation signal: caller context, the call's controller and, when a
// timeout was requested, a fresh per-attempt timeout that cannot leak into
// the next attempt. The response body is buffered before the attempt's
// contexts are released so it stays readable after the call returns.
func (c *Client) attemptOnce(ctx context.Context, ctrl *callController, req *Request, body []byte, requestID string, attempt int, start time.Time) (*http.Response, *ClientError) {
	attemptCtx, stop := combineContexts(ctx, ctrl.ctx)
	defer stop()

	if req.Timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeoutCause(attemptCtx, req.Timeout, ErrTimeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(attemptCtx, req.Method, req.URL, reader)
	if err != nil {
		return nil, &ClientError{
			Type:       ErrorTypeValidation,
			Message:    "building request",
			Cause:      err,
			RequestID:  requestID,
			Method:     req.Method,
			URL:        req.URL,
			Attempt:    attempt,
			MaxRetries: req.Retries,
			Timestamp:  time.Now(),
		}
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classifyTransportError(attemptCtx, err, req, requestID, attempt, start)
	}

	buffered, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, c.classifyTransportError(attemptCtx, err, req, requestID, attempt, start)
	}
	resp.Body = io.NopCloser(bytes.NewReader(buffered))

	return resp, nil
}

// classifyTransportError distinguishes the attempt's own timeout, the
// caller's cancellation and the client-wide abort by inspecting which
// component of the combined signal actually tripped.
func (c *Client) classifyTransportError(attemptCtx context.Context, err error, req *Request, requestID string, attempt int, start time.Time) *ClientError {
	if attemptCtx.Err() != nil {
		return c.classifyCause(context.Cause(attemptCtx), req, requestID, attempt, start)
	}

	return &ClientError{
		Type:       ErrorTypeNetwork,
		Message:    "network request failed",
		Cause:      err,
		RequestID:  requestID,
		Method:     req.Method,
		URL:        req.URL,
		Endpoint:   endpointFromURL(req.URL),
		Attempt:    attempt,
		MaxRetries: req.Retries,
		Timestamp:  time.Now(),
		Duration:   time.Since(start),
	}
}

// classifyCause maps a cancellation cause to the error taxonomy.
func (c *Client) classifyCause(cause error, req *Request, requestID string, attempt int, start time.Time) *ClientError {
	errType := ErrorTypeCanceled
	message := "canceled by caller"
	switch {
	case errors.Is(cause, ErrTimeout):
		errType = ErrorTypeTimeout
		message = "attempt timed out"
	case errors.Is(cause, ErrAborted):
		errType = ErrorTypeAborted
		message = "aborted by client AbortAll"
	}

	return &ClientError{
		Type:       errType,
		Message:    message,
		Cause:      cause,
		RequestID:  requestID,
		Method:     req.Method,
		URL:        req.URL,
		Endpoint:   endpointFromURL(req.URL),
		Attempt:    attempt,
		MaxRetries: req.Retries,
		Timestamp:  time.Now(),
		Duration:   time.Since(start),
	}
}

func (c *Client) recordAbortScope(errType string) {
	switch errType {
	case ErrorTypeCanceled:
		c.metrics.RecordAbort("caller")
	case ErrorTypeTimeout:
		c.metrics.RecordAbort("timeout")
	}
}

// waitRetryDelay sleeps the inter-retry delay but returns early with the
// firing source's cause if the caller or the client aborts mid-wait.
func waitRetryDelay(ctx, groupCtx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	case <-groupCtx.Done():
		return context.Cause(groupCtx)
	}
}

// mergeHeaders folds client defaults and request headers into one set with
// canonical MIME keys, so case variants of the same header collapse to a
// single entry and the request-level value wins the collision.
func (c *Client) mergeHeaders(reqHeaders map[string]string) map[string]string {
	merged := make(map[string]string, len(c.headers)+len(reqHeaders))
	for k, v := range c.headers {
		merged[textproto.CanonicalMIMEHeaderKey(k)] = v
	}
	for k, v := range reqHeaders {
		merged[textproto.CanonicalMIMEHeaderKey(k)] = v
	}
	return merged
}

// headerValue looks a header up case-insensitively, per HTTP semantics.
// Merged sets hold canonical keys, but the pre-request hook may have added
// entries under any casing.
func headerValue(headers map[string]string, key string) string {
	if v, ok := headers[textproto.CanonicalMIMEHeaderKey(key)]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, key) {
			return v
		}
	}
	return ""
}

func (c *Client) debugEnabled() bool {
	return c.debug != nil && c.debug.Enabled && c.logger != nil
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

func endpointFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return "unknown"
	}

	var builder strings.Builder
	builder.WriteString(u.Host)

	if u.Path != "" && u.Path != "/" {
		builder.WriteString(u.Path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
