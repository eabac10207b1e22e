package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yndnr/rolodex/internal/infra/confloader"
	"github.com/yndnr/rolodex/internal/storage"
	"github.com/yndnr/rolodex/internal/telemetry/logger"
)

// Load builds the configuration from defaults, the file at path (if any),
// the environment and overrides, in increasing priority. overrides maps
// dotted keys such as "storage.path" to values, typically from flags.
func Load(path string, overrides map[string]any) (*Config, error) {
	cfg := Default()

	loader := confloader.NewLoader(confloader.WithConfigFile(path))
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if len(overrides) > 0 {
		if err := loader.LoadMap(overrides); err != nil {
			return nil, err
		}
		if err := loader.Unmarshal(cfg); err != nil {
			return nil, fmt.Errorf("unmarshal config: %w", err)
		}
	}
	return cfg, nil
}

// ResolvePassphrase returns the passphrase from the config or the
// passphrase file. A missing passphrase yields nil.
func (c *Config) ResolvePassphrase() ([]byte, error) {
	if c.Security.Passphrase != "" {
		return []byte(c.Security.Passphrase), nil
	}
	if c.Security.PassphraseFile == "" {
		return nil, nil
	}
	b, err := os.ReadFile(c.Security.PassphraseFile)
	if err != nil {
		return nil, fmt.Errorf("read passphrase file: %w", err)
	}
	return bytes.TrimRight(b, "\r\n"), nil
}

// LoggerConfig returns the logger configuration.
func (c *Config) LoggerConfig() logger.Config {
	cfg := logger.DefaultConfig()
	cfg.Level = c.Log.Level
	cfg.Format = c.Log.Format
	cfg.File = c.Log.File
	cfg.MaxSizeMB = c.Log.MaxSizeMB
	cfg.MaxBackups = c.Log.MaxBackups
	cfg.MaxAgeDays = c.Log.MaxAgeDays
	cfg.Compress = c.Log.Compress
	return cfg
}

// EngineConfig returns the storage engine configuration. The badger
// directory is resolved relative to the document directory.
func (c *Config) EngineConfig(log logger.Logger) (storage.Config, error) {
	passphrase, err := c.ResolvePassphrase()
	if err != nil {
		return storage.Config{}, err
	}

	cfg := storage.DefaultConfig(c.Storage.Path)
	cfg.Backend = c.Storage.Backend
	cfg.Autosave = c.Storage.Autosave
	cfg.Pretty = c.Storage.Pretty
	cfg.BackupDir = c.Storage.BackupDir
	cfg.BackupKeep = c.Storage.BackupKeep
	cfg.Passphrase = passphrase
	cfg.Cipher = c.Security.Cipher
	cfg.DefaultMax = c.Search.DefaultMax
	cfg.MetricsTextfile = c.Metrics.Textfile
	cfg.Logger = log

	dir := c.Storage.BadgerDir
	if dir != "" && !filepath.IsAbs(dir) {
		dir = filepath.Join(filepath.Dir(c.Storage.Path), dir)
	}
	cfg.Badger = storage.DefaultBadgerConfig(dir)
	cfg.Badger.GCInterval = c.Storage.BadgerGCInterval
	cfg.Badger.SyncWrites = c.Storage.BadgerSyncWrites
	return cfg, nil
}

// DefaultFilePath returns the configuration file used when none is named:
// ~/.rolodex/config.yaml.
func DefaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rolodex", "config.yaml")
}

// Discover returns path when set. Otherwise it returns DefaultFilePath if
// that file exists, or "" to run on defaults and the environment.
func Discover(path string) string {
	if path != "" {
		return path
	}
	def := DefaultFilePath()
	if def == "" {
		return ""
	}
	if _, err := os.Stat(def); err != nil {
		return ""
	}
	return def
}
