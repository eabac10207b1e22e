package config

// Config is the root configuration for rolodex.
type Config struct {
	Storage  StorageSection  `koanf:"storage" yaml:"storage" json:"storage"`
	Search   SearchSection   `koanf:"search" yaml:"search" json:"search"`
	Security SecuritySection `koanf:"security" yaml:"security" json:"security"`
	Log      LogSection      `koanf:"log" yaml:"log" json:"log"`
	Metrics  MetricsSection  `koanf:"metrics" yaml:"metrics" json:"metrics"`
}

// StorageSection configures where and how the index is persisted.
type StorageSection struct {
	// Backend is "file" or "badger".
	Backend string `koanf:"backend" yaml:"backend" json:"backend"`

	// Path is the document file for the file backend.
	Path string `koanf:"path" yaml:"path" json:"path"`

	// Autosave saves after every add or remove.
	Autosave bool `koanf:"autosave" yaml:"autosave" json:"autosave"`

	// Pretty indents saved documents with tabs.
	Pretty bool `koanf:"pretty" yaml:"pretty" json:"pretty"`

	// BackupDir holds backups; empty means "backups" next to the document.
	BackupDir string `koanf:"backup_dir" yaml:"backup_dir" json:"backup_dir"`

	// BackupKeep is the number of backups retained; negative keeps all.
	BackupKeep int `koanf:"backup_keep" yaml:"backup_keep" json:"backup_keep"`

	BadgerDir        string `koanf:"badger_dir" yaml:"badger_dir" json:"badger_dir"`
	BadgerGCInterval string `koanf:"badger_gc_interval" yaml:"badger_gc_interval" json:"badger_gc_interval"`
	BadgerSyncWrites bool   `koanf:"badger_sync_writes" yaml:"badger_sync_writes" json:"badger_sync_writes"`
}

// SearchSection configures searches.
type SearchSection struct {
	// DefaultMax bounds searches that do not ask for a result count.
	DefaultMax int `koanf:"default_max" yaml:"default_max" json:"default_max"`
}

// SecuritySection configures at-rest encryption.
type SecuritySection struct {
	Passphrase     string `koanf:"passphrase" yaml:"passphrase" json:"passphrase"`
	PassphraseFile string `koanf:"passphrase_file" yaml:"passphrase_file" json:"passphrase_file"`

	// Cipher is "auto", "aes-gcm" or "xchacha20-poly1305".
	Cipher string `koanf:"cipher" yaml:"cipher" json:"cipher"`
}

// LogSection configures logging.
type LogSection struct {
	Level      string `koanf:"level" yaml:"level" json:"level"`
	Format     string `koanf:"format" yaml:"format" json:"format"`
	File       string `koanf:"file" yaml:"file" json:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `koanf:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
	Compress   bool   `koanf:"compress" yaml:"compress" json:"compress"`
}

// MetricsSection configures metrics export.
type MetricsSection struct {
	// Textfile receives the metrics in node-exporter textfile format when
	// a command finishes.
	Textfile string `koanf:"textfile" yaml:"textfile" json:"textfile"`
}
