package config

// Default configuration values.
const (
	DefaultBackend          = "file"
	DefaultPath             = "rolodex.json"
	DefaultBackupKeep       = 5
	DefaultBadgerDir        = "rolodex.db"
	DefaultBadgerGCInterval = "10m"

	DefaultMaxResults = 10

	DefaultCipher = "auto"

	DefaultLogLevel   = "warn"
	DefaultLogFormat  = "text"
	DefaultLogMaxSize = 10
	DefaultLogBackups = 3
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageSection{
			Backend:          DefaultBackend,
			Path:             DefaultPath,
			Autosave:         true,
			BackupKeep:       DefaultBackupKeep,
			BadgerDir:        DefaultBadgerDir,
			BadgerGCInterval: DefaultBadgerGCInterval,
			BadgerSyncWrites: true,
		},
		Search: SearchSection{
			DefaultMax: DefaultMaxResults,
		},
		Security: SecuritySection{
			Cipher: DefaultCipher,
		},
		Log: LogSection{
			Level:      DefaultLogLevel,
			Format:     DefaultLogFormat,
			MaxSizeMB:  DefaultLogMaxSize,
			MaxBackups: DefaultLogBackups,
		},
	}
}
