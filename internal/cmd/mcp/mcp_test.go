package mcp

import (
	"flag"
	"path/filepath"
	"testing"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.DBPath != "data/admin.db" {
		t.Fatalf("DBPath = %q, want data/admin.db", cfg.DBPath)
	}
}

func TestParseConfigFlagOverride(t *testing.T) {
	t.Setenv("WAZAP_DB_PATH", "/env/admin.db")

	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-db-path", "/flag/admin.db"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.DBPath != "/flag/admin.db" {
		t.Fatalf("DBPath = %q, want flag override", cfg.DBPath)
	}
}

func TestOpenStore(t *testing.T) {
	t.Parallel()
	store, err := openStore(filepath.Join(t.TempDir(), "nested", "admin.db"))
	if err != nil {
		t.Fatalf("openStore() error = %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestOpenStoreRequiresPath(t *testing.T) {
	t.Parallel()
	if _, err := openStore(""); err == nil {
		t.Fatal("openStore(\"\") error = nil, want error")
	}
}
