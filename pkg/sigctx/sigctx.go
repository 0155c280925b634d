// Package sigctx binds the process root context to shutdown signals.
package sigctx

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// NotifyContext returns a root context cancelled on the usual
// termination signals.
func NotifyContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
}
