package snapshot

import (
	"bytes"
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/oklog/ulid/v2"
)

const (
	backupPrefix    = "backup-"
	backupExtension = ".json.zst"

	// DefaultKeep is the default number of backups retained by Prune.
	DefaultKeep = 5
)

// ArchiveConfig configures an Archive.
type ArchiveConfig struct {
	Dir string

	// Keep is the number of newest backups Prune retains. Zero selects
	// DefaultKeep; a negative value disables pruning.
	Keep int

	// Sealer, when set, encrypts backups after compression.
	Sealer *Sealer

	// Now overrides the clock used for backup IDs.
	Now func() time.Time
}

// BackupInfo describes one backup.
type BackupInfo struct {
	ID        string    `json:"id" yaml:"id"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
	Size      int64     `json:"size" yaml:"size"`
	Path      string    `json:"path" yaml:"path"`
}

// Archive manages document backups in a directory.
type Archive struct {
	cfg ArchiveConfig

	mu      sync.Mutex
	entropy io.Reader
}

// NewArchive creates an Archive and its directory.
func NewArchive(cfg ArchiveConfig) (*Archive, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("snapshot: backup dir is required")
	}
	if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
		return nil, fmt.Errorf("snapshot: create backup dir: %w", err)
	}
	if cfg.Keep == 0 {
		cfg.Keep = DefaultKeep
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Archive{
		cfg:     cfg,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Create writes doc as a new backup and prunes old ones.
func (a *Archive) Create(doc *Document) (*BackupInfo, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.cfg.Now()
	id, err := ulid.New(ulid.Timestamp(now), a.entropy)
	if err != nil {
		return nil, fmt.Errorf("snapshot: backup id: %w", err)
	}

	plain, err := Encode(doc, false)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("snapshot: zstd writer: %w", err)
	}
	if _, err := enc.Write(plain); err != nil {
		enc.Close()
		return nil, fmt.Errorf("snapshot: compress: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("snapshot: compress: %w", err)
	}

	data := buf.Bytes()
	if a.cfg.Sealer != nil {
		if data, err = a.cfg.Sealer.Seal(data); err != nil {
			return nil, err
		}
	}

	path := a.path(id.String())
	if err := writeFileAtomic(path, data); err != nil {
		return nil, err
	}

	info := &BackupInfo{
		ID:        id.String(),
		CreatedAt: ulid.Time(id.Time()),
		Size:      int64(len(data)),
		Path:      path,
	}
	if _, err := a.prune(); err != nil {
		return info, err
	}
	return info, nil
}

// List returns every backup, newest first.
func (a *Archive) List() ([]*BackupInfo, error) {
	entries, err := os.ReadDir(a.cfg.Dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("snapshot: list backups: %w", err)
	}

	var infos []*BackupInfo
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, backupPrefix) || !strings.HasSuffix(name, backupExtension) {
			continue
		}
		id, err := ulid.ParseStrict(strings.TrimSuffix(strings.TrimPrefix(name, backupPrefix), backupExtension))
		if err != nil {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		infos = append(infos, &BackupInfo{
			ID:        id.String(),
			CreatedAt: ulid.Time(id.Time()),
			Size:      fi.Size(),
			Path:      filepath.Join(a.cfg.Dir, name),
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID > infos[j].ID })
	return infos, nil
}

// Load reads the backup with the given ID. It returns ErrNotFound when
// no such backup exists.
func (a *Archive) Load(id string) (*Document, error) {
	parsed, err := ulid.ParseStrict(id)
	if err != nil {
		return nil, fmt.Errorf("%w: backup %q", ErrNotFound, id)
	}

	data, err := os.ReadFile(a.path(parsed.String()))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: backup %q", ErrNotFound, id)
		}
		return nil, fmt.Errorf("snapshot: read backup: %w", err)
	}

	switch {
	case IsSealed(data) && a.cfg.Sealer == nil:
		return nil, ErrPassphraseRequired
	case IsSealed(data):
		if data, err = a.cfg.Sealer.Open(data); err != nil {
			return nil, err
		}
	}

	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("snapshot: zstd reader: %w", err)
	}
	defer dec.Close()

	plain, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("snapshot: decompress backup %s: %w", id, err)
	}
	return Decode(plain)
}

// Prune deletes the oldest backups beyond the retention count and
// returns how many were removed.
func (a *Archive) Prune() (int, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.prune()
}

func (a *Archive) prune() (int, error) {
	if a.cfg.Keep < 0 {
		return 0, nil
	}
	infos, err := a.List()
	if err != nil {
		return 0, err
	}
	if len(infos) <= a.cfg.Keep {
		return 0, nil
	}

	removed := 0
	for _, info := range infos[a.cfg.Keep:] {
		if err := os.Remove(info.Path); err != nil && !os.IsNotExist(err) {
			return removed, fmt.Errorf("snapshot: prune %s: %w", info.ID, err)
		}
		removed++
	}
	return removed, nil
}

func (a *Archive) path(id string) string {
	return filepath.Join(a.cfg.Dir, backupPrefix+id+backupExtension)
}
