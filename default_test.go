package safefetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestDefaultClientCalls(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-App"); got != "demo" {
			t.Errorf("Expected configured default header, got %q", got)
		}
	}))
	defer server.Close()

	prev := Default
	Default = New()
	defer func() { Default = prev }()

	Configure(Config{Headers: map[string]string{"X-App": "demo"}})

	resp, err := Get(context.Background(), server.URL, nil)
	if err != nil {
		t.Fatalf("Get() returned error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	// Safe with zero in-flight calls.
	AbortAll()
}
