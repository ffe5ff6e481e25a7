package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Listen != "127.0.0.1:8080" {
		t.Fatalf("Listen = %q, want default", cfg.Listen)
	}
	if cfg.Store.Backend != "local" {
		t.Fatalf("Store.Backend = %q, want local", cfg.Store.Backend)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("default config was not written: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("config mode = %o, want 600", perm)
	}
}

func TestLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Listen = "0.0.0.0:9000"
	cfg.Store.Backend = "github"
	cfg.Store.Owner = "someone"
	cfg.Store.Repo = "sign-data"
	cfg.BasicAuth = &BasicAuthConfig{Username: "admin", Password: "secret"}

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Listen != "0.0.0.0:9000" {
		t.Fatalf("Listen = %q, want 0.0.0.0:9000", loaded.Listen)
	}
	if loaded.Store.Backend != "github" || loaded.Store.Owner != "someone" {
		t.Fatalf("Store = %#v, want github/someone", loaded.Store)
	}
	if loaded.BasicAuth == nil || loaded.BasicAuth.Username != "admin" {
		t.Fatalf("BasicAuth = %#v, want admin", loaded.BasicAuth)
	}
}

func TestNormalizeFillsZeroValues(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()

	if cfg.Listen == "" || cfg.Timezone == "" || cfg.RefreshCron == "" {
		t.Fatalf("Normalize left empties: %#v", cfg)
	}
	if cfg.PreviewScale <= 0 {
		t.Fatalf("PreviewScale = %d, want > 0", cfg.PreviewScale)
	}
	if cfg.Store.Backend != "local" {
		t.Fatalf("Store.Backend = %q, want local", cfg.Store.Backend)
	}
	if cfg.Paths.Events == "" || cfg.Paths.ScheduleDir == "" {
		t.Fatalf("Paths left empty: %#v", cfg.Paths)
	}
}

func TestNormalizeRejectsUnknownBackend(t *testing.T) {
	cfg := &Config{Store: StoreConfig{Backend: "ftp"}}
	cfg.Normalize()
	if cfg.Store.Backend != "local" {
		t.Fatalf("Backend = %q, want local fallback", cfg.Store.Backend)
	}
}

func TestToken(t *testing.T) {
	cfg := DefaultConfig()
	if token, err := cfg.Token(); err != nil || token != "" {
		t.Fatalf("Token without file = %q/%v, want empty/nil", token, err)
	}

	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  ghp_abc123\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg.Store.TokenFile = path
	token, err := cfg.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token != "ghp_abc123" {
		t.Fatalf("Token = %q, want trimmed ghp_abc123", token)
	}
}
