package shutdown

import (
	"context"
	"errors"
	"sync"
	"syscall"
	"testing"
	"time"
)

func TestNewHandler(t *testing.T) {
	h := NewHandler(5 * time.Second)
	if h.timeout != 5*time.Second {
		t.Errorf("timeout = %v, want 5s", h.timeout)
	}
	if len(h.signals) != 2 {
		t.Errorf("default signals = %v, want SIGINT and SIGTERM", h.signals)
	}

	h = NewHandler(time.Second, syscall.SIGHUP)
	if len(h.signals) != 1 || h.signals[0] != syscall.SIGHUP {
		t.Errorf("signals = %v, want [SIGHUP]", h.signals)
	}
}

func TestHandler_TriggerRunsHooksInReverse(t *testing.T) {
	h := NewHandler(5 * time.Second)

	var mu sync.Mutex
	var order []int
	for i := 1; i <= 3; i++ {
		h.OnShutdown(func(ctx context.Context) error {
			if _, ok := ctx.Deadline(); !ok {
				t.Error("hook context has no deadline")
			}
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return nil
		})
	}

	h.Trigger(syscall.SIGTERM)
	sig, err := h.Wait(context.Background())
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if sig != syscall.SIGTERM {
		t.Errorf("signal = %v, want SIGTERM", sig)
	}

	want := []int{3, 2, 1}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}

	select {
	case <-h.Done():
	default:
		t.Error("Done channel should be closed after hooks ran")
	}
}

func TestHandler_HookErrorsJoined(t *testing.T) {
	h := NewHandler(time.Second)
	errA := errors.New("a")
	errB := errors.New("b")
	ran := 0
	h.OnShutdown(func(context.Context) error { ran++; return errA })
	h.OnShutdown(func(context.Context) error { ran++; return errB })

	h.Trigger(syscall.SIGINT)
	_, err := h.Wait(context.Background())
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Wait() error = %v, want both hook errors", err)
	}
	if ran != 2 {
		t.Errorf("ran %d hooks, want 2", ran)
	}
}

func TestHandler_ContextCancelSkipsHooks(t *testing.T) {
	h := NewHandler(time.Second)
	called := false
	h.OnShutdown(func(context.Context) error { called = true; return nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sig, err := h.Wait(ctx)
	if sig != nil || err != nil {
		t.Errorf("Wait() = %v, %v; want nil, nil", sig, err)
	}
	if called {
		t.Error("hooks must not run when the context ends first")
	}
	select {
	case <-h.Done():
		t.Error("Done channel should stay open")
	default:
	}
}

func TestHandler_HooksRunOnce(t *testing.T) {
	h := NewHandler(time.Second)
	count := 0
	h.OnShutdown(func(context.Context) error { count++; return nil })

	for i := 0; i < 2; i++ {
		h.Trigger(syscall.SIGTERM)
		if _, err := h.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	if count != 1 {
		t.Errorf("hook ran %d times, want 1", count)
	}
}

func TestExitCode(t *testing.T) {
	if got := ExitCode(syscall.SIGINT); got != 130 {
		t.Errorf("ExitCode(SIGINT) = %d, want 130", got)
	}
	if got := ExitCode(syscall.SIGTERM); got != 143 {
		t.Errorf("ExitCode(SIGTERM) = %d, want 143", got)
	}
}
