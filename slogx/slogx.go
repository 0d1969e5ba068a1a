// Package slogx extends [log/slog] with a trace level, a handler that fans records out to several handlers, and an in-memory handler for assertions in tests.
package slogx

import (
	"context"
	"log/slog"
	"strings"
)

// LevelTrace is more verbose than [slog.LevelDebug], and is used for transition and dispatch tracing.
const LevelTrace = slog.LevelDebug - 4

// Trace logs at [LevelTrace].
func Trace(log *slog.Logger, msg string, args ...any) {
	if log == nil {
		return
	}
	log.Log(context.Background(), LevelTrace, msg, args...)
}

// ParseLevel interprets a level name, accepting "trace" along with the names understood by [slog.Level.UnmarshalText].
// The defaultLevel is returned if the name can't be interpreted.
func ParseLevel(name string, defaultLevel slog.Level) slog.Level {
	name = strings.TrimSpace(name)
	if len(name) == 0 {
		return defaultLevel
	}
	if strings.EqualFold(name, "trace") {
		return LevelTrace
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(name)); err != nil {
		return defaultLevel
	}
	return level
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
