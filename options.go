package safefetch

import (
	"fmt"
	"net/http"
	"time"
)

// WithBaseURL sets the base URL relative call URLs are resolved against.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithHeader sets one default header sent with every call.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

// WithHeaders merges a set of default headers sent with every call.
func WithHeaders(headers map[string]string) Option {
	return func(c *Client) {
		if c.headers == nil {
			c.headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			c.headers[k] = v
		}
	}
}

// WithMaxRetries sets the default retry count for requests that do not
// specify their own.
func WithMaxRetries(n int) Option {
	return func(c *Client) {
		c.maxRetries = n
	}
}

// WithRetryDelay sets the default fixed delay between attempts.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Client) {
		c.retryDelay = d
	}
}

// WithRespectRetryAfter honors a Retry-After header on 503 responses
// instead of the fixed delay. Off by default.
func WithRespectRetryAfter() Option {
	return func(c *Client) {
		c.respectRetryAfter = true
	}
}

// WithTimeout sets the default per-attempt timeout for requests that do
// not specify their own.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithHTTPClient sets a custom HTTP client used as the transport.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithRequestHook sets the pre-request hook, run once per call before the
// first attempt.
func WithRequestHook(hook RequestHook) Option {
	return func(c *Client) {
		c.hooks.onRequest = hook
	}
}

// WithResponseHook sets the observation hook run for every final response.
func WithResponseHook(hook ResponseHook) Option {
	return func(c *Client) {
		c.hooks.onResponse = hook
	}
}

// WithErrorHook sets the hook observing classified errors of calls that
// produced no response.
func WithErrorHook(hook ErrorHook) Option {
	return func(c *Client) {
		c.hooks.onError = hook
	}
}

// WithRecoverHook sets the 4xx substitution hook.
func WithRecoverHook(hook RecoverHook) Option {
	return func(c *Client) {
		c.hooks.onRecover = hook
	}
}

// WithStatusHandler registers a handler for one exact status code.
func WithStatusHandler(status int, handler StatusHandler) Option {
	return func(c *Client) {
		if c.hooks.statusHandlers == nil {
			c.hooks.statusHandlers = make(map[int]StatusHandler)
		}
		c.hooks.statusHandlers[status] = handler
	}
}

// WithServerErrorHandler registers the catch-all handler for 5xx statuses
// above 500. A code-500 response only reaches a WithStatusHandler(500, …)
// handler.
func WithServerErrorHandler(handler StatusHandler) Option {
	return func(c *Client) {
		c.hooks.onServerError = handler
	}
}

// WithMetrics enables Prometheus metrics collection on the default
// registerer.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithDebug enables debug logging with default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a plain console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithRequestIDGenerator sets a custom function for generating request IDs.
func WithRequestIDGenerator(gen func() string) Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.RequestIDGen = gen
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error if invalid.
func (c *Client) ValidateConfiguration() error {
	var errs []string

	errs = append(errs, c.validateRetryConfig()...)
	errs = append(errs, c.validateHookConfig()...)
	errs = append(errs, c.validateDebugConfig()...)
	errs = append(errs, c.validateHTTPClientConfig()...)
	errs = append(errs, c.validateExtremeValues()...)

	if len(errs) > 0 {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", errs),
		}
	}

	return nil
}

func (c *Client) validateRetryConfig() []string {
	var errs []string

	if c.maxRetries < 0 {
		errs = append(errs, "maxRetries must be non-negative")
	}

	if c.retryDelay <= 0 {
		errs = append(errs, "retryDelay must be positive")
	}

	if c.timeout < 0 {
		errs = append(errs, "timeout must be non-negative")
	}

	return errs
}

func (c *Client) validateHookConfig() []string {
	var errs []string

	for status, handler := range c.hooks.statusHandlers {
		if handler == nil {
			errs = append(errs, fmt.Sprintf("status handler for %d cannot be nil", status))
		}
		if status < 100 || status > 599 {
			errs = append(errs, fmt.Sprintf("status handler code %d is not a valid HTTP status", status))
		}
	}

	return errs
}

func (c *Client) validateDebugConfig() []string {
	var errs []string

	if c.debug != nil && c.debug.Enabled {
		if c.debug.RequestIDGen == nil {
			errs = append(errs, "debug RequestIDGen must be set when debug is enabled")
		}
		if c.logger == nil {
			errs = append(errs, "logger must be set when debug is enabled")
		}
	}

	return errs
}

func (c *Client) validateHTTPClientConfig() []string {
	var errs []string

	if c.httpClient == nil {
		errs = append(errs, "HTTP client cannot be nil")
	}

	return errs
}

func (c *Client) validateExtremeValues() []string {
	var errs []string

	if c.maxRetries > 100 {
		errs = append(errs, "maxRetries > 100 may cause excessive resource usage")
	}

	if c.retryDelay > 10*time.Minute {
		errs = append(errs, "retryDelay > 10m may cause very long delays")
	}

	if c.timeout > 10*time.Minute {
		errs = append(errs, "timeout > 10m may cause requests to hang for too long")
	}

	return errs
}
