package storage

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/yndnr/rolodex/internal/telemetry/metric"
)

func newTestBadger(t *testing.T) *BadgerEngine {
	t.Helper()
	cfg := DefaultBadgerConfig(t.TempDir())
	cfg.GCInterval = "1h" // Disable auto GC for tests
	cfg.SyncWrites = false

	engine, err := NewBadgerEngine(cfg, slog.Default())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestBadgerEngine_BasicOperations(t *testing.T) {
	engine := newTestBadger(t)
	ctx := context.Background()

	t.Run("Set and Get", func(t *testing.T) {
		if err := engine.Set(ctx, []byte("k"), []byte("v")); err != nil {
			t.Fatal(err)
		}
		got, err := engine.Get(ctx, []byte("k"))
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "v" {
			t.Errorf("Get() = %s, want v", got)
		}
	})

	t.Run("Get non-existent key", func(t *testing.T) {
		if _, err := engine.Get(ctx, []byte("missing")); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("Get() error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := engine.Set(ctx, []byte("k"), []byte("v2")); err != nil {
			t.Fatal(err)
		}
		got, _ := engine.Get(ctx, []byte("k"))
		if string(got) != "v2" {
			t.Errorf("Get() = %s, want v2", got)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := engine.Delete(ctx, []byte("k")); err != nil {
			t.Fatal(err)
		}
		if _, err := engine.Get(ctx, []byte("k")); !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("Get() after delete error = %v, want ErrKeyNotFound", err)
		}
	})
}

func TestBadgerEngine_GCAndStats(t *testing.T) {
	engine := newTestBadger(t)
	ctx := context.Background()

	if _, err := engine.GC(ctx); err != nil {
		t.Fatalf("GC() error = %v", err)
	}

	stats, err := engine.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats.LastGCTime == 0 {
		t.Error("Stats().LastGCTime = 0 after GC")
	}
	if stats.TotalSize != stats.LSMSize+stats.ValueLogSize {
		t.Errorf("TotalSize = %d, want %d", stats.TotalSize, stats.LSMSize+stats.ValueLogSize)
	}
}

func TestBadgerEngine_Closed(t *testing.T) {
	engine := newTestBadger(t)
	ctx := context.Background()

	if err := engine.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := engine.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if _, err := engine.Get(ctx, []byte("k")); !errors.Is(err, ErrClosed) {
		t.Errorf("Get() error = %v, want ErrClosed", err)
	}
	if err := engine.Set(ctx, []byte("k"), nil); !errors.Is(err, ErrClosed) {
		t.Errorf("Set() error = %v, want ErrClosed", err)
	}
	if _, err := engine.Stats(ctx); !errors.Is(err, ErrClosed) {
		t.Errorf("Stats() error = %v, want ErrClosed", err)
	}
}

func TestBadgerEngine_RegisterMetrics(t *testing.T) {
	engine := newTestBadger(t)
	registry := metric.NewRegistry()

	if err := engine.RegisterMetrics(registry); err != nil {
		t.Fatalf("RegisterMetrics() error = %v", err)
	}
	if err := engine.RegisterMetrics(registry); err == nil {
		t.Error("second RegisterMetrics() should fail on duplicate collectors")
	}

	families, err := registry.Prometheus().Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	var found int
	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "rolodex_badger_") {
			found++
		}
	}
	if found != 4 {
		t.Errorf("found %d badger metric families, want 4", found)
	}
}

func TestDefaultBadgerConfig(t *testing.T) {
	cfg := DefaultBadgerConfig("/tmp/db")
	if cfg.Dir != "/tmp/db" {
		t.Errorf("Dir = %q, want /tmp/db", cfg.Dir)
	}
	if cfg.GCInterval != "10m" || cfg.GCThreshold != 0.5 {
		t.Errorf("GC settings = %q/%v, want 10m/0.5", cfg.GCInterval, cfg.GCThreshold)
	}
	if !cfg.SyncWrites {
		t.Error("SyncWrites = false, want true")
	}
}

func TestNewBadgerEngine_RequiresDir(t *testing.T) {
	if _, err := NewBadgerEngine(BadgerConfig{}, nil); err == nil {
		t.Fatal("NewBadgerEngine() without dir should fail")
	}
}
