package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenMissing(t *testing.T) {
	cfg, err := Load("non-existent-config.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	assertDefaultConfig(t, cfg)
}

func TestLoadWithPartialConfigAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  address: ":9090"
database:
  driver: ""
  sqlite: {}
media:
  key_prefix: "vega-tools/dev/images"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Address != ":9090" {
		t.Fatalf("expected server address :9090, got %s", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected database driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Database.SQLite.Path != "data/catalog.db" {
		t.Fatalf("expected sqlite path data/catalog.db, got %s", cfg.Database.SQLite.Path)
	}
	if cfg.Media.KeyPrefix != "vega-tools/dev/images" {
		t.Fatalf("expected custom key prefix, got %s", cfg.Media.KeyPrefix)
	}
	if len(cfg.Media.Variants) != 3 {
		t.Fatalf("expected default variant set, got %d variants", len(cfg.Media.Variants))
	}
}

func TestLoadVariantOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
media:
  variants:
    - name: original
      max_width: 800
      max_height: 800
      quality: 90
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if len(cfg.Media.Variants) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(cfg.Media.Variants))
	}
	v := cfg.Media.Variants[0]
	if v.Name != "original" || v.MaxWidth != 800 || v.Quality != 90 {
		t.Fatalf("unexpected variant: %+v", v)
	}
}

func assertDefaultConfig(t *testing.T, cfg *Config) {
	t.Helper()
	if cfg == nil {
		t.Fatalf("config is nil")
	}
	if cfg.Server.Address != ":8080" {
		t.Fatalf("expected default address :8080, got %s", cfg.Server.Address)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected default driver sqlite, got %s", cfg.Database.Driver)
	}
	if cfg.Database.SQLite.Path != "data/catalog.db" {
		t.Fatalf("expected default sqlite path data/catalog.db, got %s", cfg.Database.SQLite.Path)
	}
	if cfg.Storage.Type != "local" {
		t.Fatalf("expected default storage type local, got %s", cfg.Storage.Type)
	}
	if len(cfg.Media.Variants) != 3 {
		t.Fatalf("expected 3 default variants, got %d", len(cfg.Media.Variants))
	}
}
