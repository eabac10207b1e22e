package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/yndnr/rolodex/internal/core/classify"
	"github.com/yndnr/rolodex/internal/core/domain"
	"github.com/yndnr/rolodex/internal/core/service"
	"github.com/yndnr/rolodex/internal/storage/memory"
	"github.com/yndnr/rolodex/internal/storage/snapshot"
	"github.com/yndnr/rolodex/internal/storage/trie"
	"github.com/yndnr/rolodex/internal/telemetry/logger"
	"github.com/yndnr/rolodex/internal/telemetry/metric"
)

// Default configuration values.
const (
	DefaultPath      = "rolodex.json"
	DefaultBackupDir = "backups"
	DefaultBadgerDir = "rolodex.db"
)

// Config configures the storage engine.
type Config struct {
	// Backend selects where the document lives ("file" or "badger").
	Backend string

	// Path is the document file for the file backend.
	Path string

	// Badger configures the badger backend.
	Badger BadgerConfig

	// BackupDir holds backups. Empty selects a "backups" directory next to
	// the document.
	BackupDir string

	// BackupKeep is the number of backups retained; see snapshot.ArchiveConfig.
	BackupKeep int

	// Passphrase, when set, seals the document and backups at rest.
	Passphrase []byte

	// Cipher names the sealing cipher (see adaptive.ParseType).
	Cipher string

	// Autosave saves the document after every successful mutation.
	Autosave bool

	// Pretty indents saved documents.
	Pretty bool

	// DefaultMax bounds searches that do not ask for a positive bound.
	DefaultMax int

	// MetricsTextfile, when set, receives the metrics on Close.
	MetricsTextfile string

	// Logger is the structured logger.
	Logger logger.Logger
}

// DefaultConfig returns the default storage configuration.
func DefaultConfig(path string) Config {
	if path == "" {
		path = DefaultPath
	}
	return Config{
		Backend:    BackendFile,
		Path:       path,
		Badger:     DefaultBadgerConfig(filepath.Join(filepath.Dir(path), DefaultBadgerDir)),
		BackupKeep: snapshot.DefaultKeep,
		Autosave:   true,
		DefaultMax: service.DefaultMaxResults,
	}
}

// Stats describes the engine state.
type Stats struct {
	Backend      string   `json:"backend" yaml:"backend"`
	Location     string   `json:"location" yaml:"location"`
	Sealed       bool     `json:"sealed" yaml:"sealed"`
	Records      int      `json:"records" yaml:"records"`
	Tokens       int      `json:"tokens" yaml:"tokens"`
	Nodes        int      `json:"nodes" yaml:"nodes"`
	MaxKeyLength int      `json:"max_key_length" yaml:"max_key_length"`
	DefaultMax   int      `json:"default_max" yaml:"default_max"`
	KV           *KVStats `json:"kv,omitempty" yaml:"kv,omitempty"`
}

// Part selects the sections written by Export.
type Part int

const (
	PartAll Part = iota
	PartIndex
	PartData
)

// Engine owns a contact index and keeps it persisted.
type Engine struct {
	cfg Config

	mu      sync.RWMutex
	index   *trie.Index
	records *memory.Store
	svc     *service.IndexService

	backend Backend
	kv      *BadgerEngine
	sealer  *snapshot.Sealer

	archiveOnce sync.Once
	archive     *snapshot.Archive
	archiveErr  error

	metrics *metric.Registry
	logger  logger.Logger
	closed  bool
}

// Open opens the document described by cfg. A missing document is
// created empty and saved at once.
func Open(ctx context.Context, cfg Config) (*Engine, error) {
	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}
	if cfg.Backend == "" {
		cfg.Backend = BackendFile
	}
	if cfg.DefaultMax <= 0 {
		cfg.DefaultMax = service.DefaultMaxResults
	}

	e := &Engine{
		cfg:     cfg,
		index:   trie.New(),
		records: memory.New(),
		metrics: metric.NewRegistry(),
		logger:  cfg.Logger.With("component", "storage"),
	}

	// Step 1: Sealing
	if len(cfg.Passphrase) > 0 {
		sealer, err := snapshot.NewSealer(cfg.Passphrase, cfg.Cipher)
		if err != nil {
			return nil, err
		}
		e.sealer = sealer
	}

	// Step 2: Backend
	if err := e.openBackend(); err != nil {
		return nil, err
	}

	// Step 3: Load or create the document
	doc, err := e.backend.Load(ctx)
	switch {
	case errors.Is(err, snapshot.ErrNotFound):
		doc = snapshot.NewDocument()
		if err := e.backend.Save(ctx, doc, cfg.Pretty); err != nil {
			e.backend.Close()
			return nil, err
		}
		e.logger.Info("new index created", "location", e.backend.Location())
	case err != nil:
		e.backend.Close()
		return nil, err
	default:
		e.logger.Debug("index loaded",
			"location", e.backend.Location(),
			"records", len(doc.Data),
			"tokens", doc.Index.Len())
	}
	e.apply(doc)

	// Step 4: Metrics
	if err := e.metrics.Register(metric.NewIndexCollector(e.indexStats)); err != nil {
		e.backend.Close()
		return nil, err
	}
	if e.kv != nil {
		if err := e.kv.RegisterMetrics(e.metrics); err != nil {
			e.backend.Close()
			return nil, err
		}
	}

	return e, nil
}

func (e *Engine) openBackend() error {
	switch e.cfg.Backend {
	case BackendFile:
		b, err := NewFileBackend(snapshot.FileConfig{Path: e.cfg.Path, Sealer: e.sealer})
		if err != nil {
			return err
		}
		e.backend = b
	case BackendBadger:
		kv, err := NewBadgerEngine(e.cfg.Badger, e.logger.Slog())
		if err != nil {
			return err
		}
		e.kv = kv
		e.backend = NewKVBackend(kv, e.sealer, e.cfg.Badger.Dir)
	default:
		return fmt.Errorf("storage: unknown backend %q", e.cfg.Backend)
	}
	return nil
}

// apply replaces the in-memory state with doc. Callers hold the write
// lock or have exclusive access.
func (e *Engine) apply(doc *snapshot.Document) {
	e.index = doc.Index
	e.records = memory.New()
	e.records.Restore(doc.Data, doc.MaxLength)
	e.svc = service.NewIndexService(e.index, e.records,
		service.WithDefaultMax(e.cfg.DefaultMax),
		service.WithLogger(e.logger),
	)
}

// document builds the persisted form of the current state. Callers hold
// at least the read lock.
func (e *Engine) document() *snapshot.Document {
	return &snapshot.Document{
		MaxLength: e.records.MaxKeyLength(),
		Data:      e.records.Records(),
		Index:     e.index,
	}
}

// ============================================================================
// Index operations
// ============================================================================

// Add classifies an input line and merges it into the index.
func (e *Engine) Add(ctx context.Context, input string) (*service.AddResult, error) {
	entry, err := classify.Parse(input)
	if err != nil {
		e.metrics.AddsTotal.WithLabelValues(metric.ResultError).Inc()
		return nil, err
	}
	return e.AddRecord(ctx, entry.Key, entry.Attributes)
}

// AddRecord merges attributes into the record under key.
func (e *Engine) AddRecord(ctx context.Context, key string, attrs domain.Record) (*service.AddResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	res, err := e.svc.Add(key, attrs)
	if err != nil {
		e.metrics.AddsTotal.WithLabelValues(metric.ResultError).Inc()
		return nil, err
	}
	if res.Created {
		e.metrics.AddsTotal.WithLabelValues(metric.ResultCreated).Inc()
	} else {
		e.metrics.AddsTotal.WithLabelValues(metric.ResultMerged).Inc()
	}

	e.log(ctx).Info("contact added", "key", key, "created", res.Created, "indexed", len(res.Indexed))
	return res, e.autosave(ctx)
}

// Search returns up to max records matched by query.
func (e *Engine) Search(ctx context.Context, query string, max int) []domain.Result {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.closed {
		return nil
	}

	start := time.Now()
	results := e.svc.Search(query, max)
	e.metrics.SearchDuration.Observe(time.Since(start).Seconds())

	if len(results) == 0 {
		e.metrics.SearchesTotal.WithLabelValues(metric.ResultMiss).Inc()
	} else {
		e.metrics.SearchesTotal.WithLabelValues(metric.ResultHit).Inc()
	}
	return results
}

// Get returns the record stored under exactly key.
func (e *Engine) Get(ctx context.Context, key string) (*domain.Result, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.checkOpen(); err != nil {
		return nil, err
	}
	return e.svc.Get(key)
}

// Remove deletes the first record matched by query.
func (e *Engine) Remove(ctx context.Context, query string) (*domain.Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	removed, err := e.svc.Remove(query)
	if err != nil {
		if errors.Is(err, domain.ErrContactNotFound) {
			e.metrics.RemovesTotal.WithLabelValues(metric.ResultNotFound).Inc()
		} else {
			e.metrics.RemovesTotal.WithLabelValues(metric.ResultError).Inc()
		}
		return nil, err
	}
	e.metrics.RemovesTotal.WithLabelValues(metric.ResultRemoved).Inc()

	e.log(ctx).Info("contact removed", "key", removed.Name)
	return removed, e.autosave(ctx)
}

// SetDefaultMax changes the bound used for searches without a positive max.
func (e *Engine) SetDefaultMax(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.svc.SetDefaultMax(n)
	e.cfg.DefaultMax = e.svc.DefaultMax()
}

// Stats returns the engine state.
func (e *Engine) Stats(ctx context.Context) (*Stats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	st := &Stats{
		Backend:      e.cfg.Backend,
		Location:     e.backend.Location(),
		Sealed:       e.sealer != nil,
		Records:      e.records.Len(),
		Tokens:       e.index.Len(),
		Nodes:        e.index.Nodes(),
		MaxKeyLength: e.records.MaxKeyLength(),
		DefaultMax:   e.svc.DefaultMax(),
	}
	if e.kv != nil {
		kv, err := e.kv.Stats(ctx)
		if err != nil {
			return nil, err
		}
		st.KV = kv
	}
	return st, nil
}

func (e *Engine) indexStats() metric.IndexStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return metric.IndexStats{
		Records:      e.records.Len(),
		Tokens:       e.index.Len(),
		Nodes:        e.index.Nodes(),
		MaxKeyLength: e.records.MaxKeyLength(),
	}
}

// Export encodes the selected part of the current state: the whole
// document, the index tree alone or the record map alone.
func (e *Engine) Export(part Part, pretty bool) ([]byte, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	var v any
	switch part {
	case PartIndex:
		v = e.index
	case PartData:
		v = e.records.Records()
	default:
		return snapshot.Encode(e.document(), pretty)
	}
	return snapshot.EncodeValue(v, pretty)
}

// Metrics returns the engine's metric registry.
func (e *Engine) Metrics() *metric.Registry {
	return e.metrics
}

// ============================================================================
// Persistence
// ============================================================================

// Save writes the current state to the backend.
func (e *Engine) Save(ctx context.Context, pretty bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return err
	}
	return e.save(ctx, pretty)
}

func (e *Engine) save(ctx context.Context, pretty bool) error {
	if err := e.backend.Save(ctx, e.document(), pretty); err != nil {
		e.metrics.SavesTotal.WithLabelValues(metric.StatusError).Inc()
		return domain.ErrStorageError.WithDetails("save document").WithCause(err)
	}
	e.metrics.SavesTotal.WithLabelValues(metric.StatusOK).Inc()
	e.log(ctx).Debug("index saved", "location", e.backend.Location())
	return nil
}

func (e *Engine) autosave(ctx context.Context) error {
	if !e.cfg.Autosave {
		return nil
	}
	return e.save(ctx, e.cfg.Pretty)
}

// Backup writes the current state as a new backup.
func (e *Engine) Backup(ctx context.Context) (*snapshot.BackupInfo, error) {
	archive, err := e.backups()
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	if err := e.checkOpen(); err != nil {
		return nil, err
	}

	info, err := archive.Create(e.document())
	if err != nil {
		return nil, domain.ErrStorageError.WithDetails("create backup").WithCause(err)
	}
	e.log(ctx).Info("backup created", "id", info.ID, "size", info.Size)
	return info, nil
}

// Backups lists the available backups, newest first.
func (e *Engine) Backups(ctx context.Context) ([]*snapshot.BackupInfo, error) {
	archive, err := e.backups()
	if err != nil {
		return nil, err
	}
	return archive.List()
}

// Restore replaces the current state with the backup id and saves it.
func (e *Engine) Restore(ctx context.Context, id string) error {
	archive, err := e.backups()
	if err != nil {
		return err
	}
	doc, err := archive.Load(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.checkOpen(); err != nil {
		return err
	}

	e.apply(doc)
	e.log(ctx).Info("backup restored", "id", id, "records", e.records.Len())
	return e.save(ctx, e.cfg.Pretty)
}

func (e *Engine) backups() (*snapshot.Archive, error) {
	e.archiveOnce.Do(func() {
		dir := e.cfg.BackupDir
		if dir == "" {
			dir = filepath.Join(filepath.Dir(e.cfg.Path), DefaultBackupDir)
			if e.cfg.Backend == BackendBadger {
				dir = filepath.Join(e.cfg.Badger.Dir, DefaultBackupDir)
			}
		}
		e.archive, e.archiveErr = snapshot.NewArchive(snapshot.ArchiveConfig{
			Dir:    dir,
			Keep:   e.cfg.BackupKeep,
			Sealer: e.sealer,
		})
	})
	return e.archive, e.archiveErr
}

// ============================================================================
// Lifecycle
// ============================================================================

// log returns the engine logger tagged with the running command.
func (e *Engine) log(ctx context.Context) logger.Logger {
	if name := logger.CommandFromContext(ctx); name != "" {
		return e.logger.With("command", name)
	}
	return e.logger
}

func (e *Engine) checkOpen() error {
	if e.closed {
		return ErrClosed
	}
	return nil
}

// Close writes the metrics textfile, if configured, and releases the
// backend. Unsaved changes are not written.
func (e *Engine) Close() error {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil
	}
	e.closed = true
	e.mu.Unlock()

	var errs []error
	if e.cfg.MetricsTextfile != "" {
		if err := e.metrics.WriteTextfile(e.cfg.MetricsTextfile); err != nil {
			errs = append(errs, err)
		}
	}
	if err := e.backend.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
