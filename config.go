package safefetch

// Config carries the instance-scoped settings that Configure can change
// after construction. Zero values mean "leave the current setting alone":
// headers merge key-by-key, every other set field replaces wholesale.
type Config struct {
	// BaseURL prefixes relative call URLs.
	BaseURL string

	// Headers are merged key-by-key into the client's default headers.
	Headers map[string]string

	// Debug toggles debug logging; nil leaves the current setting.
	Debug *bool

	// Hook slots. A non-nil value replaces the current hook.
	OnRequest  RequestHook
	OnResponse ResponseHook
	OnError    ErrorHook
	OnRecover  RecoverHook

	// StatusHandlers replaces the whole status handler table when non-nil.
	StatusHandlers map[int]StatusHandler

	// OnServerError is the catch-all handler for 5xx statuses above 500.
	OnServerError StatusHandler
}

// Configure merges cfg into the client. Callers are expected to configure
// outside of high-contention windows: like the rest of the client's
// settings, these fields are read-mostly and Configure provides no internal
// locking against in-flight calls.
func (c *Client) Configure(cfg Config) {
	if cfg.BaseURL != "" {
		c.baseURL = cfg.BaseURL
	}
	if len(cfg.Headers) > 0 {
		if c.headers == nil {
			c.headers = make(map[string]string, len(cfg.Headers))
		}
		for k, v := range cfg.Headers {
			c.headers[k] = v
		}
	}
	if cfg.Debug != nil {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = *cfg.Debug
	}
	if cfg.OnRequest != nil {
		c.hooks.onRequest = cfg.OnRequest
	}
	if cfg.OnResponse != nil {
		c.hooks.onResponse = cfg.OnResponse
	}
	if cfg.OnError != nil {
		c.hooks.onError = cfg.OnError
	}
	if cfg.OnRecover != nil {
		c.hooks.onRecover = cfg.OnRecover
	}
	if cfg.StatusHandlers != nil {
		c.hooks.statusHandlers = cfg.StatusHandlers
	}
	if cfg.OnServerError != nil {
		c.hooks.onServerError = cfg.OnServerError
	}
}
