package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// WithShutdownSignals returns a context canceled on SIGINT or SIGTERM.
func WithShutdownSignals(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
}
