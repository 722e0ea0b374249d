package safefetch

import (
	"log"
	"os"

	"github.com/google/uuid"
)

// Logger is the minimal structured logging interface the client emits
// debug output through. Key/value pairs alternate in keysAndValues.
type Logger interface {
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// DebugConfig selects which lifecycle events are logged when debugging is
// enabled.
type DebugConfig struct {
	Enabled     bool
	LogRequests bool
	LogRetries  bool
	LogHooks    bool
	LogAborts   bool

	// RequestIDGen produces the correlation ID attached to a call's log
	// lines and errors.
	RequestIDGen func() string
}

// DefaultDebugConfig logs every event category and correlates calls with
// UUID request IDs.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:      false,
		LogRequests:  true,
		LogRetries:   true,
		LogHooks:     true,
		LogAborts:    true,
		RequestIDGen: uuid.NewString,
	}
}

// SimpleLogger writes key=value formatted lines through the standard
// library logger. Useful for examples and tests.
type SimpleLogger struct {
	logger *log.Logger
}

// NewSimpleLogger creates a SimpleLogger writing to stderr.
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{logger: log.New(os.Stderr, "safefetch ", log.LstdFlags)}
}

func (l *SimpleLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.print("DEBUG", msg, keysAndValues...)
}

func (l *SimpleLogger) Info(msg string, keysAndValues ...interface{}) {
	l.print("INFO", msg, keysAndValues...)
}

func (l *SimpleLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.print("WARN", msg, keysAndValues...)
}

func (l *SimpleLogger) Error(msg string, keysAndValues ...interface{}) {
	l.print("ERROR", msg, keysAndValues...)
}

func (l *SimpleLogger) print(level, msg string, keysAndValues ...interface{}) {
	args := make([]interface{}, 0, 2+len(keysAndValues))
	args = append(args, level, msg)
	args = append(args, keysAndValues...)
	l.logger.Println(args...)
}
