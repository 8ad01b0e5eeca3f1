// Package handshake sends the one-time readiness signal that tells a host
// to dismiss its splash screen. The signal is best-effort: failures are logged
// and the game starts regardless.
package handshake

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// Defaults used when Options fields are zero.
const (
	DefaultDelay   = 200 * time.Millisecond
	DefaultTimeout = 2 * time.Second
)

// Notifier delivers the readiness signal to the host.
type Notifier interface {
	Ready(ctx context.Context) error
}

// Func adapts a plain function to Notifier.
type Func func(ctx context.Context) error

// Ready implements Notifier.
func (f Func) Ready(ctx context.Context) error {
	return f(ctx)
}

// Options controls signal timing.
type Options struct {
	Delay   time.Duration // Wait before signalling; 0 uses DefaultDelay, negative disables
	Timeout time.Duration // Upper bound on the Ready call
}

func (o Options) withDefaults() Options {
	if o.Delay < 0 {
		o.Delay = 0
	} else if o.Delay == 0 {
		o.Delay = DefaultDelay
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Signal waits for the configured delay, then calls n.Ready. It reports
// whether the host acknowledged; the caller proceeds either way.
// A nil notifier is treated as "no host" and returns false immediately.
func Signal(ctx context.Context, n Notifier, opts Options, logger *log.Logger) bool {
	if n == nil {
		return false
	}
	opts = opts.withDefaults()

	if opts.Delay > 0 {
		timer := time.NewTimer(opts.Delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return false
		case <-timer.C:
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	if err := safeReady(callCtx, n); err != nil {
		if logger != nil {
			logger.Warn("host ready signal failed, continuing", "error", err)
		}
		return false
	}

	if logger != nil {
		logger.Debug("host ready signal sent")
	}
	return true
}

// safeReady calls n.Ready in its own goroutine so a notifier that ignores ctx
// cannot outlive the timeout. A panicking notifier becomes an error.
func safeReady(ctx context.Context, n Notifier) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- &panicError{value: r}
			}
		}()
		done <- n.Ready(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("handshake: notifier did not return: %w", ctx.Err())
	}
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("handshake: notifier panicked: %v", e.value)
}
