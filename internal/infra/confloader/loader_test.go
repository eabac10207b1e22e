package confloader

import (
	"os"
	"path/filepath"
	"testing"
)

type testConfig struct {
	Storage struct {
		Path      string `koanf:"path"`
		BackupDir string `koanf:"backup_dir"`
		Autosave  bool   `koanf:"autosave"`
	} `koanf:"storage"`
	Search struct {
		DefaultMax int `koanf:"default_max"`
	} `koanf:"search"`
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rolodex.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	return path
}

func TestNewLoader(t *testing.T) {
	l := NewLoader()
	if l.envPrefix != DefaultEnvPrefix {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, DefaultEnvPrefix)
	}

	l = NewLoader(WithEnvPrefix("TEST_"), WithConfigFile("/etc/rolodex.yaml"))
	if l.envPrefix != "TEST_" {
		t.Errorf("envPrefix = %q, want %q", l.envPrefix, "TEST_")
	}
	if l.FilePath() != "/etc/rolodex.yaml" {
		t.Errorf("FilePath() = %q, want %q", l.FilePath(), "/etc/rolodex.yaml")
	}
}

func TestLoader_LoadFile(t *testing.T) {
	path := writeConfig(t, `
storage:
  path: "contacts.json"
  autosave: true
search:
  default_max: 25
`)

	l := NewLoader()
	if err := l.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if got := l.GetString("storage.path"); got != "contacts.json" {
		t.Errorf("storage.path = %q, want %q", got, "contacts.json")
	}
	if !l.GetBool("storage.autosave") {
		t.Error("storage.autosave should be true")
	}
	if got := l.GetInt("search.default_max"); got != 25 {
		t.Errorf("search.default_max = %d, want 25", got)
	}
}

func TestLoader_LoadFile_Errors(t *testing.T) {
	l := NewLoader()
	if err := l.LoadFile("/nonexistent/rolodex.yaml"); err == nil {
		t.Error("LoadFile() should return error for nonexistent file")
	}
	if err := l.LoadFile(""); err != nil {
		t.Errorf("LoadFile(\"\") should not error, got: %v", err)
	}
}

func TestEnvKey(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"ROLODEX_LOG_LEVEL", "log.level"},
		{"ROLODEX_STORAGE_BACKUP_DIR", "storage.backup_dir"},
		{"ROLODEX_SEARCH_DEFAULT_MAX", "search.default_max"},
		{"ROLODEX_DEBUG", "debug"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EnvKey(DefaultEnvPrefix, tt.name); got != tt.want {
				t.Errorf("EnvKey(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestLoader_LoadEnv(t *testing.T) {
	t.Setenv("ROLODEX_STORAGE_BACKUP_DIR", "/var/backups")
	t.Setenv("MYAPP_SEARCH_DEFAULT_MAX", "7")

	l := NewLoader()
	if err := l.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := l.GetString("storage.backup_dir"); got != "/var/backups" {
		t.Errorf("storage.backup_dir = %q, want %q", got, "/var/backups")
	}

	custom := NewLoader(WithEnvPrefix("MYAPP_"))
	if err := custom.LoadEnv(); err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	if got := custom.GetInt("search.default_max"); got != 7 {
		t.Errorf("search.default_max = %d, want 7", got)
	}
}

func TestLoader_Load_Priority(t *testing.T) {
	path := writeConfig(t, `
storage:
  path: "from-file.json"
  backup_dir: "file-backups"
`)
	t.Setenv("ROLODEX_STORAGE_PATH", "from-env.json")

	var cfg testConfig
	cfg.Search.DefaultMax = 10 // default, untouched by any source

	l := NewLoader(WithConfigFile(path))
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Storage.Path != "from-env.json" {
		t.Errorf("Path = %q, want %q (env should override file)", cfg.Storage.Path, "from-env.json")
	}
	if cfg.Storage.BackupDir != "file-backups" {
		t.Errorf("BackupDir = %q, want %q", cfg.Storage.BackupDir, "file-backups")
	}
	if cfg.Search.DefaultMax != 10 {
		t.Errorf("DefaultMax = %d, want default 10", cfg.Search.DefaultMax)
	}
	if !l.IsLoaded() {
		t.Error("IsLoaded() should be true after Load()")
	}
}

func TestLoader_Load_EnvStringsConvert(t *testing.T) {
	t.Setenv("ROLODEX_SEARCH_DEFAULT_MAX", "3")
	t.Setenv("ROLODEX_STORAGE_AUTOSAVE", "true")

	var cfg testConfig
	if err := NewLoader().Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Search.DefaultMax != 3 {
		t.Errorf("DefaultMax = %d, want 3", cfg.Search.DefaultMax)
	}
	if !cfg.Storage.Autosave {
		t.Error("Autosave should be true")
	}
}

func TestLoader_LoadMap_OverridesEnv(t *testing.T) {
	t.Setenv("ROLODEX_STORAGE_PATH", "from-env.json")

	l := NewLoader()
	var cfg testConfig
	if err := l.Load(&cfg); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if err := l.LoadMap(map[string]any{"storage.path": "from-flag.json"}); err != nil {
		t.Fatalf("LoadMap() error = %v", err)
	}
	if err := l.Unmarshal(&cfg); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if cfg.Storage.Path != "from-flag.json" {
		t.Errorf("Path = %q, want %q", cfg.Storage.Path, "from-flag.json")
	}
	if len(l.Keys()) == 0 {
		t.Error("Keys() is empty")
	}
}
