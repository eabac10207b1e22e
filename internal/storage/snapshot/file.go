package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no document exists yet.
var ErrNotFound = errors.New("snapshot: not found")

// FileConfig configures a FileStore.
type FileConfig struct {
	// Path is the document file.
	Path string

	// Sealer, when set, encrypts the document at rest.
	Sealer *Sealer
}

// FileStore keeps one document in a file.
type FileStore struct {
	cfg FileConfig
}

// NewFileStore creates a FileStore and its parent directory.
func NewFileStore(cfg FileConfig) (*FileStore, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("snapshot: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0750); err != nil {
		return nil, fmt.Errorf("snapshot: create dir: %w", err)
	}
	return &FileStore{cfg: cfg}, nil
}

// Path returns the document file path.
func (s *FileStore) Path() string {
	return s.cfg.Path
}

// Load reads the document. It returns ErrNotFound when the file does not
// exist.
func (s *FileStore) Load() (*Document, error) {
	b, err := os.ReadFile(s.cfg.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("snapshot: read: %w", err)
	}
	return Unmarshal(b, s.cfg.Sealer)
}

// Save replaces the document file atomically.
func (s *FileStore) Save(doc *Document, pretty bool) error {
	b, err := Marshal(doc, pretty, s.cfg.Sealer)
	if err != nil {
		return err
	}
	return writeFileAtomic(s.cfg.Path, b)
}

// Marshal encodes doc and seals it when sealer is not nil.
func Marshal(doc *Document, pretty bool, sealer *Sealer) ([]byte, error) {
	b, err := Encode(doc, pretty)
	if err != nil {
		return nil, err
	}
	if sealer == nil {
		return b, nil
	}
	return sealer.Seal(b)
}

// Unmarshal decodes a possibly sealed document. A sealer configured for a
// plain document is an error, so a sealed file cannot be swapped for an
// unsealed one unnoticed.
func Unmarshal(b []byte, sealer *Sealer) (*Document, error) {
	switch {
	case IsSealed(b) && sealer == nil:
		return nil, ErrPassphraseRequired
	case IsSealed(b):
		plain, err := sealer.Open(b)
		if err != nil {
			return nil, err
		}
		b = plain
	case sealer != nil:
		return nil, ErrNotSealed
	}
	return Decode(b)
}

// writeFileAtomic writes data to a temp file next to path, syncs it and
// renames it over path.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	file, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("snapshot: create temp file: %w", err)
	}
	tempPath := file.Name()
	defer os.Remove(tempPath)

	if _, err := file.Write(data); err != nil {
		file.Close()
		return fmt.Errorf("snapshot: write: %w", err)
	}
	if err := file.Chmod(0600); err != nil {
		file.Close()
		return fmt.Errorf("snapshot: chmod: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		return fmt.Errorf("snapshot: sync: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("snapshot: close: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		return fmt.Errorf("snapshot: rename: %w", err)
	}
	return nil
}
