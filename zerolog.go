package safefetch

import (
	"fmt"

	"github.com/rs/zerolog"
)

// ZerologLogger adapts a zerolog.Logger to the Logger interface.
type ZerologLogger struct {
	zlog zerolog.Logger
}

var _ Logger = (*ZerologLogger)(nil)

// NewZerologLogger wraps an existing zerolog.Logger.
func NewZerologLogger(zlog zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{zlog: zlog}
}

func (l *ZerologLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.emit(l.zlog.Debug(), msg, keysAndValues)
}

func (l *ZerologLogger) Info(msg string, keysAndValues ...interface{}) {
	l.emit(l.zlog.Info(), msg, keysAndValues)
}

func (l *ZerologLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.emit(l.zlog.Warn(), msg, keysAndValues)
}

func (l *ZerologLogger) Error(msg string, keysAndValues ...interface{}) {
	l.emit(l.zlog.Error(), msg, keysAndValues)
}

func (l *ZerologLogger) emit(event *zerolog.Event, msg string, keysAndValues []interface{}) {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		event = event.Interface(key, keysAndValues[i+1])
	}
	event.Msg(msg)
}
