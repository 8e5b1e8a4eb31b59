package config

import (
	"path/filepath"
	"testing"
)

func TestSaveAndLoadConfig(t *testing.T) {
	dir := t.TempDir()

	cfg := &Config{
		Version:      "1",
		DatabasePath: "/tmp/custom.db",
	}

	if err := SaveConfig(dir, cfg); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Version != "1" {
		t.Errorf("expected version '1', got '%s'", loaded.Version)
	}
	if loaded.DatabasePath != "/tmp/custom.db" {
		t.Errorf("expected database path '/tmp/custom.db', got '%s'", loaded.DatabasePath)
	}
}

func TestLoadConfig_Missing(t *testing.T) {
	_, err := LoadConfig(t.TempDir())
	if err == nil {
		t.Error("expected error for missing config")
	}
}

func TestDatabasePath_EnvOverride(t *testing.T) {
	t.Setenv("DISPATCH_DB", "/tmp/override.db")

	path, err := DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath failed: %v", err)
	}
	if path != "/tmp/override.db" {
		t.Errorf("expected '/tmp/override.db', got '%s'", path)
	}
}

func TestDatabasePath_Default(t *testing.T) {
	t.Setenv("DISPATCH_DB", "")
	t.Setenv("HOME", t.TempDir())

	path, err := DatabasePath()
	if err != nil {
		t.Fatalf("DatabasePath failed: %v", err)
	}
	if filepath.Base(path) != "dispatch.db" {
		t.Errorf("expected default dispatch.db path, got '%s'", path)
	}
}
