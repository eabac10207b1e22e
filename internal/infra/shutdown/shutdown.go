package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Handler runs shutdown hooks once, on a signal or on Trigger.
type Handler struct {
	timeout time.Duration
	signals []os.Signal
	hooks   []func(context.Context) error
	mu      sync.Mutex
	trigger chan os.Signal
	done    chan struct{}
	once    sync.Once
}

// NewHandler creates a handler for SIGINT and SIGTERM whose hooks share a
// deadline of timeout.
func NewHandler(timeout time.Duration, signals ...os.Signal) *Handler {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	return &Handler{
		timeout: timeout,
		signals: signals,
		hooks:   make([]func(context.Context) error, 0),
		trigger: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// OnShutdown registers a shutdown hook.
// Hooks are called in reverse order of registration.
func (h *Handler) OnShutdown(hook func(context.Context) error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Trigger starts shutdown as if sig had been received.
func (h *Handler) Trigger(sig os.Signal) {
	select {
	case h.trigger <- sig:
	default:
	}
}

// Wait blocks until a signal arrives, Trigger is called or ctx is done.
// On a signal it runs the hooks and returns the signal with their joined
// errors. When ctx ends first no hooks run and the signal is nil.
func (h *Handler) Wait(ctx context.Context) (os.Signal, error) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, h.signals...)
	defer signal.Stop(sigCh)

	var sig os.Signal
	select {
	case sig = <-sigCh:
	case sig = <-h.trigger:
	case <-ctx.Done():
		return nil, nil
	}
	return sig, h.run()
}

func (h *Handler) run() error {
	var errs []error
	h.once.Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
		defer cancel()

		h.mu.Lock()
		hooks := make([]func(context.Context) error, len(h.hooks))
		copy(hooks, h.hooks)
		h.mu.Unlock()

		for i := len(hooks) - 1; i >= 0; i-- {
			if err := hooks[i](ctx); err != nil {
				errs = append(errs, err)
			}
		}
		close(h.done)
	})
	return errors.Join(errs...)
}

// Done returns a channel that closes when the hooks have run.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}

// ExitCode returns the conventional exit status for a process stopped by sig.
func ExitCode(sig os.Signal) int {
	if s, ok := sig.(syscall.Signal); ok {
		return 128 + int(s)
	}
	return 1
}
