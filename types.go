package safefetch

import (
	"io"
	"net/http"
	"time"
)

// RequestOptions describes one call. The zero value is usable: no extra
// headers, no query, no body, no timeout and no retries.
//
// Caller cancellation travels through the ctx argument of Do and the verb
// helpers, not through a field here.
type RequestOptions struct {
	// Headers are merged over the client's default headers; on collision
	// the request-level value wins.
	Headers map[string]string

	// Query is appended to the resolved URL preserving insertion order.
	Query Query

	// Body is resolved once before the first attempt. Recognized kinds
	// (nil, []byte, string, io.Reader, url.Values, json.RawMessage) pass
	// through; anything else is JSON-marshalled and Content-Type defaults
	// to application/json when absent.
	Body any

	// Timeout bounds each individual attempt. Zero means no per-attempt
	// timeout beyond the caller's context.
	Timeout time.Duration

	// Retries is the number of additional attempts after the first.
	Retries int

	// RetryDelay is the fixed wait between attempts. Zero means
	// DefaultRetryDelay.
	RetryDelay time.Duration
}

// DefaultRetryDelay is the inter-retry delay used when RequestOptions
// leaves RetryDelay unset.
const DefaultRetryDelay = time.Second

// Response is the final outcome of a successful call. A 4xx or a 5xx that
// survived the retry budget is still delivered as a Response, never as an
// error: the server's final answer stays observable.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header

	// Body is the response stream. The caller owns closing it.
	Body io.ReadCloser

	// URL is the fully resolved URL the response was obtained from.
	URL string

	// Attempts is the number of transport attempts the call used.
	Attempts int
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Bytes drains and closes the body, returning its contents.
func (r *Response) Bytes() ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, nil
	}
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

// QueryParam is a single key/value query entry.
type QueryParam struct {
	Key   string
	Value string
}

// Query is an ordered list of query parameters. Unlike url.Values, encoding
// preserves the insertion order of keys and of repeated values.
type Query []QueryParam

// Add appends a single key/value entry and returns the extended query.
func (q Query) Add(key, value string) Query {
	return append(q, QueryParam{Key: key, Value: value})
}

// AddList appends one entry per value, producing repeated query keys.
func (q Query) AddList(key string, values ...string) Query {
	for _, v := range values {
		q = append(q, QueryParam{Key: key, Value: v})
	}
	return q
}

// Option represents a configuration option for New.
type Option func(*Client)
