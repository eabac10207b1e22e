package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_LoadMissing(t *testing.T) {
	store, err := NewFileStore(FileConfig{Path: filepath.Join(t.TempDir(), "nested", "index.json")})
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	if _, err := store.Load(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Load() error = %v, want ErrNotFound", err)
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.json")
	store, err := NewFileStore(FileConfig{Path: path})
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	if err := store.Save(sampleDocument(t), false); err != nil {
		t.Fatalf("Save: %v", err)
	}
	doc, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := doc.Data["John Smith"]; !ok {
		t.Fatal("Load() lost the record")
	}

	// Saving twice must leave exactly one file behind.
	if err := store.Save(doc, true); err != nil {
		t.Fatalf("Save(pretty): %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("dir has %d entries, want 1 (temp files left behind?)", len(entries))
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if perm := fi.Mode().Perm(); perm != 0600 {
		t.Fatalf("file mode = %o, want 600", perm)
	}
}

func TestFileStore_EmptyPath(t *testing.T) {
	if _, err := NewFileStore(FileConfig{}); err == nil {
		t.Fatal("NewFileStore(empty path) should fail")
	}
}

func TestFileStore_Sealed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.json")
	sealer, err := NewSealer([]byte("correct horse"), "")
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	sealed, _ := NewFileStore(FileConfig{Path: path, Sealer: sealer})
	if err := sealed.Save(sampleDocument(t), false); err != nil {
		t.Fatalf("Save: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !IsSealed(raw) {
		t.Fatal("file is not sealed")
	}

	doc, err := sealed.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if doc.MaxLength != 10 {
		t.Fatalf("MaxLength = %d, want 10", doc.MaxLength)
	}

	plain, _ := NewFileStore(FileConfig{Path: path})
	if _, err := plain.Load(); !errors.Is(err, ErrPassphraseRequired) {
		t.Fatalf("Load() without passphrase error = %v, want ErrPassphraseRequired", err)
	}

	wrongSealer, _ := NewSealer([]byte("wrong horse"), "")
	wrong, _ := NewFileStore(FileConfig{Path: path, Sealer: wrongSealer})
	if _, err := wrong.Load(); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("Load() with wrong passphrase error = %v, want ErrDecryptionFailed", err)
	}

	if err := plain.Save(NewDocument(), false); err != nil {
		t.Fatalf("Save(plain): %v", err)
	}
	if _, err := sealed.Load(); !errors.Is(err, ErrNotSealed) {
		t.Fatalf("Load() of plain file with passphrase error = %v, want ErrNotSealed", err)
	}
}
