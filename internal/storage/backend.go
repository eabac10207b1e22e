package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/yndnr/rolodex/internal/storage/snapshot"
)

// Backend types.
const (
	BackendFile   = "file"
	BackendBadger = "badger"
)

// documentKey is the Badger key holding the document.
var documentKey = []byte("rolodex/document")

// Backend persists the contact document.
type Backend interface {
	// Load returns the stored document, or snapshot.ErrNotFound when none
	// has been saved yet.
	Load(ctx context.Context) (*snapshot.Document, error)

	// Save replaces the stored document.
	Save(ctx context.Context, doc *snapshot.Document, pretty bool) error

	// Location describes where the document lives.
	Location() string

	Close() error
}

// FileBackend keeps the document in a single JSON file.
type FileBackend struct {
	store *snapshot.FileStore
}

// NewFileBackend creates a file backend.
func NewFileBackend(cfg snapshot.FileConfig) (*FileBackend, error) {
	store, err := snapshot.NewFileStore(cfg)
	if err != nil {
		return nil, err
	}
	return &FileBackend{store: store}, nil
}

func (b *FileBackend) Load(ctx context.Context) (*snapshot.Document, error) {
	return b.store.Load()
}

func (b *FileBackend) Save(ctx context.Context, doc *snapshot.Document, pretty bool) error {
	return b.store.Save(doc, pretty)
}

func (b *FileBackend) Location() string {
	return b.store.Path()
}

func (b *FileBackend) Close() error {
	return nil
}

// KVBackend keeps the document under one key of a KVEngine.
type KVBackend struct {
	kv       KVEngine
	sealer   *snapshot.Sealer
	location string
}

// NewKVBackend creates a backend over kv. The backend owns kv and closes
// it on Close.
func NewKVBackend(kv KVEngine, sealer *snapshot.Sealer, location string) *KVBackend {
	return &KVBackend{kv: kv, sealer: sealer, location: location}
}

func (b *KVBackend) Load(ctx context.Context) (*snapshot.Document, error) {
	raw, err := b.kv.Get(ctx, documentKey)
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return nil, snapshot.ErrNotFound
		}
		return nil, fmt.Errorf("storage: load document: %w", err)
	}
	return snapshot.Unmarshal(raw, b.sealer)
}

func (b *KVBackend) Save(ctx context.Context, doc *snapshot.Document, pretty bool) error {
	raw, err := snapshot.Marshal(doc, pretty, b.sealer)
	if err != nil {
		return err
	}
	if err := b.kv.Set(ctx, documentKey, raw); err != nil {
		return fmt.Errorf("storage: save document: %w", err)
	}
	return nil
}

func (b *KVBackend) Location() string {
	return b.location
}

// KV returns the underlying engine.
func (b *KVBackend) KV() KVEngine {
	return b.kv
}

func (b *KVBackend) Close() error {
	return b.kv.Close()
}
