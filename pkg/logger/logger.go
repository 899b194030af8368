package logger

import (
	"log/slog"
	"os"
)

// Logger wraps slog so the rest of the service takes one concrete type.
type Logger struct {
	*slog.Logger
}

// New creates a text logger at the given level (slog semantics: 0 info,
// -4 debug, 4 warn, 8 error).
func New(level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// Fatal is equivalent to Error followed by os.Exit(1).
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
