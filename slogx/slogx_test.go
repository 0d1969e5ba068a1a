package slogx

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace": LevelTrace,
		"TRACE": LevelTrace,
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"bogus": slog.LevelInfo,
	}
	for name, expected := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, expected, ParseLevel(name, slog.LevelInfo))
		})
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(slog.LevelDebug)
	log := slog.New(rec).With("content", "main").WithGroup("call")
	Trace(log, "dropped")
	log.Debug("dispatch", "key", "event")
	log.Info("other")

	entries := rec.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "dispatch", entries[0].Message)
	assert.Equal(t, "main", entries[0].Attrs["content"])
	assert.Equal(t, "event", entries[0].Attrs["call.key"])
	assert.Equal(t, []string{"other"}, rec.Messages(slog.LevelInfo))

	rec.Reset()
	assert.Empty(t, rec.Entries())
	Trace(nil, "nil logger is fine")
}
