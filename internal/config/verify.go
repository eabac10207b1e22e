package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yndnr/rolodex/internal/storage/snapshot"
	"github.com/yndnr/rolodex/pkg/crypto/adaptive"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyStorage(&cfg.Storage); err != nil {
		return err
	}
	if cfg.Search.DefaultMax < 1 {
		return errors.New("search.default_max must be at least 1")
	}
	if err := verifySecurity(&cfg.Security); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyStorage(cfg *StorageSection) error {
	switch cfg.Backend {
	case "file":
		if cfg.Path == "" {
			return errors.New("storage.path is required for the file backend")
		}
	case "badger":
		if cfg.BadgerDir == "" {
			return errors.New("storage.badger_dir is required for the badger backend")
		}
		d, err := time.ParseDuration(cfg.BadgerGCInterval)
		if err != nil || d <= 0 {
			return fmt.Errorf("storage.badger_gc_interval %q is not a positive duration", cfg.BadgerGCInterval)
		}
	default:
		return fmt.Errorf("storage.backend must be file or badger, got %q", cfg.Backend)
	}

	if cfg.BackupKeep == 0 {
		return errors.New("storage.backup_keep must not be 0 (use a negative value to keep all)")
	}
	return nil
}

func verifySecurity(cfg *SecuritySection) error {
	if cfg.Passphrase != "" && cfg.PassphraseFile != "" {
		return errors.New("security.passphrase and security.passphrase_file are mutually exclusive")
	}
	if cfg.Passphrase != "" && len(cfg.Passphrase) < snapshot.MinPassphraseLength {
		return fmt.Errorf("security.passphrase must be at least %d characters", snapshot.MinPassphraseLength)
	}
	if _, err := adaptive.ParseType(cfg.Cipher); err != nil {
		return fmt.Errorf("security.cipher: %w", err)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn or error, got %q", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text", "console":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", cfg.Format)
	}
	if cfg.File != "" && cfg.MaxSizeMB < 1 {
		return errors.New("log.max_size_mb must be at least 1 when log.file is set")
	}
	return nil
}
