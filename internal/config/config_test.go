package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file: %v", err)
	}
	if cfg.Panel.Speed != nil || cfg.Journal.Enabled != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[panel]
speed = 2.5
hold-ms = 120

[journal]
enabled = false
path = "/tmp/j.db"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Panel.Speed == nil || *cfg.Panel.Speed != 2.5 {
		t.Fatalf("unexpected speed %v", cfg.Panel.Speed)
	}
	if cfg.Panel.HoldMs == nil || *cfg.Panel.HoldMs != 120 {
		t.Fatalf("unexpected hold-ms %v", cfg.Panel.HoldMs)
	}
	if cfg.Journal.Enabled == nil || *cfg.Journal.Enabled {
		t.Fatalf("expected journal disabled")
	}
	if cfg.Journal.Path == nil || *cfg.Journal.Path != "/tmp/j.db" {
		t.Fatalf("unexpected journal path %v", cfg.Journal.Path)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[panel]\nspeeed = 2\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "speeed") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestDefaultPathsUseXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")
	if got := DefaultConfigPath(); got != filepath.Join("/cfg", "tallybox", "config.toml") {
		t.Fatalf("unexpected config path %s", got)
	}
	if got := DefaultJournalPath(); got != filepath.Join("/data", "tallybox", "journal.db") {
		t.Fatalf("unexpected journal path %s", got)
	}
}
