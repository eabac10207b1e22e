package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/yndnr/rolodex/internal/core/domain"
	"github.com/yndnr/rolodex/internal/storage/snapshot"
)

func testDocument(t *testing.T) *snapshot.Document {
	t.Helper()
	doc := snapshot.NewDocument()
	doc.MaxLength = 7
	doc.Data["Ann Lee"] = &domain.Record{Emails: []string{"ann@x.com"}}
	for _, tok := range []string{"Lee", "ann@x.com", "Ann Lee"} {
		if err := doc.Index.Insert(tok, "Ann Lee"); err != nil {
			t.Fatal(err)
		}
	}
	return doc
}

func testBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := b.Load(ctx); !errors.Is(err, snapshot.ErrNotFound) {
		t.Fatalf("Load() on empty backend error = %v, want ErrNotFound", err)
	}

	if err := b.Save(ctx, testDocument(t), false); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := b.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.MaxLength != 7 {
		t.Errorf("MaxLength = %d, want 7", got.MaxLength)
	}
	if rec := got.Data["Ann Lee"]; rec == nil || rec.Emails[0] != "ann@x.com" {
		t.Errorf("Data[Ann Lee] = %+v", rec)
	}
	if keys := got.Index.SearchPrefix("ann", 5); len(keys) != 1 || keys[0] != "Ann Lee" {
		t.Errorf("SearchPrefix(ann) = %v, want [Ann Lee]", keys)
	}
	if b.Location() == "" {
		t.Error("Location() is empty")
	}
}

func TestFileBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "c.json")
	b, err := NewFileBackend(snapshot.FileConfig{Path: path})
	if err != nil {
		t.Fatalf("NewFileBackend() error = %v", err)
	}
	defer b.Close()

	testBackend(t, b)
	if b.Location() != path {
		t.Errorf("Location() = %q, want %q", b.Location(), path)
	}
}

func TestKVBackend(t *testing.T) {
	kv := newTestBadger(t)
	b := NewKVBackend(kv, nil, "badger")

	testBackend(t, b)
	if b.KV() != kv {
		t.Error("KV() does not return the wrapped engine")
	}
}

func TestKVBackend_Sealed(t *testing.T) {
	ctx := context.Background()
	kv := newTestBadger(t)
	sealer, err := snapshot.NewSealer([]byte("correct horse"), "")
	if err != nil {
		t.Fatalf("NewSealer() error = %v", err)
	}

	sealed := NewKVBackend(kv, sealer, "badger")
	testBackend(t, sealed)

	raw, err := kv.Get(ctx, documentKey)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !snapshot.IsSealed(raw) {
		t.Error("stored document is not sealed")
	}

	plain := NewKVBackend(kv, nil, "badger")
	if _, err := plain.Load(ctx); !errors.Is(err, snapshot.ErrPassphraseRequired) {
		t.Errorf("Load() without sealer error = %v, want ErrPassphraseRequired", err)
	}
}
