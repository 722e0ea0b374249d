package safefetch

import (
	"errors"
	"fmt"
	"time"
)

// Error type constants used to classify a ClientError.
const (
	// ErrorTypeNetwork marks connection, DNS or protocol failures that
	// occurred before any status code was obtained.
	ErrorTypeNetwork = "Network"

	// ErrorTypeTimeout marks a per-attempt timeout firing.
	ErrorTypeTimeout = "Timeout"

	// ErrorTypeCanceled marks cancellation by the caller's own context.
	ErrorTypeCanceled = "Canceled"

	// ErrorTypeAborted marks cancellation by the client-wide AbortAll.
	ErrorTypeAborted = "Aborted"

	// ErrorTypeServer classifies a retryable 5xx outcome internally. It is
	// never surfaced to the caller: the caller sees either a retried
	// success or the final 5xx response itself.
	ErrorTypeServer = "Server"

	// ErrorTypeValidation marks invalid client or request configuration.
	ErrorTypeValidation = "Validation"
)

// Sentinel errors used as cancellation causes and for errors.Is checks.
var (
	// ErrTimeout is the cause attached to a per-attempt timeout context.
	ErrTimeout = errors.New("safefetch: attempt timed out")

	// ErrAborted is the cause attached when AbortAll cancels a call.
	ErrAborted = errors.New("safefetch: aborted by client")
)

// ClientError is the classified error returned for calls that fail without
// producing a final response. Type is one of the ErrorType constants.
type ClientError struct {
	Type       string
	Message    string
	Cause      error
	RequestID  string
	Method     string
	URL        string
	Endpoint   string
	StatusCode int
	Attempt    int
	MaxRetries int
	Timestamp  time.Time
	Duration   time.Duration
}

// IsTransient reports whether an error represents a failure that might
// succeed on retry. Network failures and timeouts are transient; caller
// cancellation, AbortAll and validation errors are not.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, ErrTimeout) {
		return true
	}

	var clientErr *ClientError
	if errors.As(err, &clientErr) {
		switch clientErr.Type {
		case ErrorTypeNetwork, ErrorTypeTimeout, ErrorTypeServer:
			return true
		default:
			return false
		}
	}

	return false
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	var msg string
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %s (%v)", e.Type, e.Message, e.Cause)
	} else {
		msg = fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	if e.Attempt > 0 {
		msg = fmt.Sprintf("%s (attempt %d/%d)", msg, e.Attempt, e.MaxRetries)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.Endpoint != "" {
		info += fmt.Sprintf("Endpoint: %s\n", e.Endpoint)
	}
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if e.Attempt > 0 {
		info += fmt.Sprintf("Attempt: %d/%d\n", e.Attempt, e.MaxRetries)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}
