package signalx

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyContext(t *testing.T) {
	ctx, stop := NotifyContext(context.Background(), false, syscall.SIGUSR1)
	defer stop()
	assert.NoError(t, ctx.Err())

	proc, err := os.FindProcess(os.Getpid())
	require.NoError(t, err)
	require.NoError(t, proc.Signal(syscall.SIGUSR1))
	select {
	case <-ctx.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("Context should be cancelled by the signal")
	}
}

func TestNotifyContext_Stop(t *testing.T) {
	ctx, stop := NotifyContext(context.Background(), true, syscall.SIGUSR2)
	stop()
	stop()
	assert.ErrorIs(t, ctx.Err(), context.Canceled)
}

func TestNotifyContext_NoSignals(t *testing.T) {
	assert.Panics(t, func() {
		NotifyContext(context.Background(), false)
	})
}
