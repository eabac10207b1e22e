package storage

import "context"

// KVEngine defines the interface for embedded key-value storage.
//
// The KV backend keeps the whole contact document under a single key, so
// only point reads and writes are needed.
type KVEngine interface {
	// Get retrieves a value by key.
	// Returns ErrKeyNotFound if key doesn't exist.
	Get(ctx context.Context, key []byte) ([]byte, error)

	// Set stores a key-value pair.
	Set(ctx context.Context, key, value []byte) error

	// Delete removes a key.
	Delete(ctx context.Context, key []byte) error

	// GC triggers garbage collection (for LSM-based engines like Badger).
	// Returns the number of value log rewrites.
	GC(ctx context.Context) (int, error)

	// Stats returns storage statistics.
	Stats(ctx context.Context) (*KVStats, error)

	// Close gracefully shuts down the KV engine.
	Close() error
}

// KVStats contains storage engine statistics.
type KVStats struct {
	// TotalSize is the total disk usage in bytes.
	TotalSize uint64 `json:"total_size" yaml:"total_size"`

	// LSMSize is the LSM tree size.
	LSMSize uint64 `json:"lsm_size" yaml:"lsm_size"`

	// ValueLogSize is the value log size.
	ValueLogSize uint64 `json:"value_log_size" yaml:"value_log_size"`

	// LastGCTime is the last GC run timestamp (Unix milliseconds).
	LastGCTime int64 `json:"last_gc_time,omitempty" yaml:"last_gc_time,omitempty"`

	// GCRewrites is the total number of value log files rewritten by GC.
	GCRewrites uint64 `json:"gc_rewrites" yaml:"gc_rewrites"`
}

// BadgerConfig contains Badger tuning parameters.
type BadgerConfig struct {
	// Dir is the database directory.
	Dir string

	// GCInterval is the interval between automatic GC runs.
	// Default: 10m
	GCInterval string

	// GCThreshold is the GC discard ratio threshold (0.0-1.0).
	// Default: 0.5
	GCThreshold float64

	// CacheSize is the block cache size in bytes.
	// Default: 16MB
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	// Default: 64MB
	ValueLogFileSize int64

	// SyncWrites enables sync writes (fsync after each write).
	// Default: true
	SyncWrites bool
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{
		Dir:              dir,
		GCInterval:       "10m",
		GCThreshold:      0.5,
		CacheSize:        16 << 20, // 16MB
		ValueLogFileSize: 64 << 20, // 64MB
		SyncWrites:       true,
	}
}
