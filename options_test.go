package safefetch

import (
	"context"
	"net/http"
	"testing"
	"time"
)

func TestOptionsApply(t *testing.T) {
	httpClient := &http.Client{}
	client := New(
		WithBaseURL("https://api.example.com"),
		WithHeader("X-One", "1"),
		WithMaxRetries(2),
		WithRetryDelay(250*time.Millisecond),
		WithRespectRetryAfter(),
		WithTimeout(5*time.Second),
		WithHTTPClient(httpClient),
	)

	if client.baseURL != "https://api.example.com" {
		t.Errorf("baseURL not applied: %q", client.baseURL)
	}
	if client.headers["X-One"] != "1" {
		t.Error("header not applied")
	}
	if client.maxRetries != 2 {
		t.Errorf("maxRetries not applied: %d", client.maxRetries)
	}
	if client.retryDelay != 250*time.Millisecond {
		t.Errorf("retryDelay not applied: %v", client.retryDelay)
	}
	if !client.respectRetryAfter {
		t.Error("respectRetryAfter not applied")
	}
	if client.timeout != 5*time.Second {
		t.Errorf("timeout not applied: %v", client.timeout)
	}
	if client.httpClient != httpClient {
		t.Error("httpClient not applied")
	}
}

func TestValidateConfigurationRejectsNegativeRetries(t *testing.T) {
	client := New(WithMaxRetries(-1))
	if client.IsValid() {
		t.Error("Expected negative maxRetries to fail validation")
	}
}

func TestValidateConfigurationRejectsNilHTTPClient(t *testing.T) {
	client := New(WithHTTPClient(nil))
	if client.IsValid() {
		t.Error("Expected nil HTTP client to fail validation")
	}
}

func TestValidateConfigurationRejectsNilStatusHandler(t *testing.T) {
	client := New(WithStatusHandler(404, nil))
	if client.IsValid() {
		t.Error("Expected nil status handler to fail validation")
	}
}

func TestValidateConfigurationRejectsBogusStatusCode(t *testing.T) {
	client := New(WithStatusHandler(99, func(ctx context.Context, resp *Response) {}))
	if client.IsValid() {
		t.Error("Expected out-of-range status code to fail validation")
	}
}

func TestValidateConfigurationDebugNeedsLogger(t *testing.T) {
	client := New(WithDebug())
	if client.IsValid() {
		t.Error("Expected debug without logger to fail validation")
	}

	client = New(WithSimpleLogger())
	if !client.IsValid() {
		t.Errorf("Expected simple logger setup to validate, got %v", client.ValidationError())
	}
}

func TestValidateConfigurationExtremeValues(t *testing.T) {
	client := New(WithMaxRetries(101))
	if client.IsValid() {
		t.Error("Expected maxRetries > 100 to fail validation")
	}

	client = New(WithRetryDelay(11 * time.Minute))
	if client.IsValid() {
		t.Error("Expected retryDelay > 10m to fail validation")
	}

	client = New(WithTimeout(11 * time.Minute))
	if client.IsValid() {
		t.Error("Expected timeout > 10m to fail validation")
	}
}

func TestWithRequestIDGenerator(t *testing.T) {
	client := New(
		WithSimpleLogger(),
		WithRequestIDGenerator(func() string { return "fixed" }),
	)

	if got := client.debug.RequestIDGen(); got != "fixed" {
		t.Errorf("Expected custom generator, got %q", got)
	}
}
