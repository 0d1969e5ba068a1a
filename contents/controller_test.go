package contents

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/saylorsolutions/contents/env"
	"github.com/saylorsolutions/contents/slogx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigFromEnv(t *testing.T) {
	cfg := ConfigFromEnv(env.Map(EnvPrefix, map[string]string{
		"CONTENTS_PARALLEL_BOOT":       "true",
		"CONTENTS_LOCK_TIMEOUT":        "250ms",
		"CONTENTS_RELEASE_CONCURRENCY": "4",
		"CONTENTS_LOG_LEVEL":           "debug",
	}))
	assert.Equal(t, Config{
		ParallelBoot:       true,
		LockTimeout:        250 * time.Millisecond,
		ReleaseConcurrency: 4,
		LogLevel:           slog.LevelDebug,
	}, cfg)

	cfg = ConfigFromEnv(env.Map(EnvPrefix, map[string]string{
		"CONTENTS_LOCK_TIMEOUT": "soon",
	}))
	assert.Equal(t, DefaultConfig(), cfg, "Malformed values fall back to defaults")
}

func TestController_Unhandled(t *testing.T) {
	rec := slogx.NewRecorder(slog.LevelInfo)
	ctrl := NewController(WithLogger(slog.New(rec)))
	var first, second []error
	ctrl.OnException(func(err error) bool {
		first = append(first, err)
		return false
	})

	errBoom := errors.New("boom")
	p := traced("root", new(trace))
	p.fail = map[string]error{"boot": errBoom}
	_, err := ctrl.Boot(context.Background(), Of[traceContent](), p)
	assert.ErrorIs(t, err, errBoom)
	require.Len(t, first, 1)
	assert.Equal(t, []string{"Unhandled error"}, rec.Messages(slog.LevelError))

	rec.Reset()
	ctrl.OnException(func(err error) bool {
		second = append(second, err)
		return true
	})
	require.NoError(t, ctrl.Shutdown(context.Background()))
	p = traced("again", new(trace))
	p.fail = map[string]error{"run": errBoom}
	_, err = ctrl.Boot(context.Background(), Of[traceContent](), p)
	assert.ErrorIs(t, err, errBoom)
	assert.Len(t, first, 2, "Callbacks are called in registration order")
	assert.Len(t, second, 1)
	assert.Empty(t, rec.Messages(slog.LevelError), "Handled errors aren't logged as unhandled")
}

func TestController_Broadcast(t *testing.T) {
	ctrl := newTestController(t)
	c := newCounter()
	_, err := ctrl.Boot(context.Background(), Of[rootContent](), &BootParam{
		Contents: []Param{
			&mainParam{counter: c},
			&mainParam{counter: c},
			&mainParam{counter: c},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 3, c.get("Run"), "BootParam may be passed by pointer")

	assert.True(t, ctrl.Broadcast(eventPing))
	assert.Equal(t, 3, c.get("Ping"))
	assert.True(t, ctrl.Message(eventPing))
	assert.Equal(t, 4, c.get("Ping"))
	assert.False(t, ctrl.Message("unknown"))
}

func TestController_WithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ctrl := newTestController(t, WithContext(ctx))
	m := bootMain(t, ctrl, newCounter())
	assert.NoError(t, m.Context().Err())
	cancel()
	assert.ErrorIs(t, m.Context().Err(), context.Canceled)
	assert.Equal(t, StateRunning, m.State(), "Cancelling the context doesn't shut anything down")
}

func TestController_Accessors(t *testing.T) {
	cfg := Config{LockTimeout: time.Second}
	log := slogx.Discard()
	ctrl := NewController(WithConfig(cfg), WithLogger(log))
	assert.Equal(t, cfg, ctrl.Config())
	assert.Same(t, log, ctrl.Logger())
	assert.Nil(t, ctrl.Root())
	assert.NotNil(t, ctrl.Call())
	assert.NotNil(t, ctrl.Modules())

	_, ok := Get[*mainContent](ctrl, true)
	assert.False(t, ok, "Nothing to find before boot")
}
