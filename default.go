package safefetch

import "context"

// Default is the process-wide client used by the package-level call
// functions. It is constructed explicitly at startup rather than living as
// hidden module state; reconfigure it through Configure or replace it
// wholesale before issuing calls.
var Default = New()

// Get performs an HTTP GET through the Default client.
func Get(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return Default.Get(ctx, url, opts)
}

// Head performs an HTTP HEAD through the Default client.
func Head(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return Default.Head(ctx, url, opts)
}

// Post performs an HTTP POST through the Default client.
func Post(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return Default.Post(ctx, url, opts)
}

// Put performs an HTTP PUT through the Default client.
func Put(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return Default.Put(ctx, url, opts)
}

// Patch performs an HTTP PATCH through the Default client.
func Patch(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return Default.Patch(ctx, url, opts)
}

// Delete performs an HTTP DELETE through the Default client.
func Delete(ctx context.Context, url string, opts *RequestOptions) (*Response, error) {
	return Default.Delete(ctx, url, opts)
}

// Configure merges cfg into the Default client.
func Configure(cfg Config) {
	Default.Configure(cfg)
}

// AbortAll cancels every in-flight call on the Default client.
func AbortAll() {
	Default.AbortAll()
}
