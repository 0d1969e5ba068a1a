// Package signalx ties process signals to context cancellation.
package signalx

import (
	"context"
	"os"
	"os/signal"
	"sync"
)

// NotifyContext returns a context that is cancelled when any of the given signals is received.
// If force is true, then a second signal calls [os.Exit] with a non-zero exit code, which is useful when a graceful shutdown hangs.
//
// The returned stop function unregisters the signals and cancels the context.
func NotifyContext(parent context.Context, force bool, signals ...os.Signal) (context.Context, func()) {
	if len(signals) == 0 {
		panic("signalx: no signals passed to NotifyContext")
	}
	ctx, cancel := context.WithCancel(parent)
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, signals...)
	stopped := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			cancel()
		case <-stopped:
			return
		}
		if !force {
			return
		}
		select {
		case <-sigs:
			os.Exit(1)
		case <-stopped:
		}
	}()
	return ctx, sync.OnceFunc(func() {
		signal.Stop(sigs)
		close(stopped)
		cancel()
	})
}
