package config

import (
	"os"
	"path/filepath"
	"testing"
)

// TestDefaultConfig verifies the default values.
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Grid.Size != 64 {
		t.Errorf("Expected default grid size 64, got %d", cfg.Grid.Size)
	}
	if cfg.Grid.Bins != 0 {
		t.Errorf("Expected default bins 0 (derived), got %d", cfg.Grid.Bins)
	}
	if cfg.Processing.NumWorkers < 1 {
		t.Errorf("Expected at least 1 worker, got %d", cfg.Processing.NumWorkers)
	}
	if cfg.Input.Phantom != "gaussian" {
		t.Errorf("Expected default phantom gaussian, got %q", cfg.Input.Phantom)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config failed validation: %v", err)
	}
}

// TestLoadMissingFile verifies that a missing config file falls back to
// defaults without error.
func TestLoadMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig on missing file failed: %v", err)
	}
	if cfg.Grid.Size != 64 {
		t.Errorf("Expected defaults from missing file, got grid size %d", cfg.Grid.Size)
	}
}

// TestSaveAndLoad round-trips a modified configuration through YAML.
func TestSaveAndLoad(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Grid.Size = 32
	cfg.Grid.Bins = 10
	cfg.Input.Phantom = "ball"
	cfg.Input.PhantomRadius = 5.5
	cfg.Output.SliceDir = "slices"

	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if loaded.Grid.Size != 32 || loaded.Grid.Bins != 10 {
		t.Errorf("Grid settings changed in round trip: size=%d bins=%d",
			loaded.Grid.Size, loaded.Grid.Bins)
	}
	if loaded.Input.Phantom != "ball" || loaded.Input.PhantomRadius != 5.5 {
		t.Errorf("Input settings changed in round trip: %q radius %v",
			loaded.Input.Phantom, loaded.Input.PhantomRadius)
	}
	if loaded.Output.SliceDir != "slices" {
		t.Errorf("Output settings changed in round trip: sliceDir %q", loaded.Output.SliceDir)
	}
}

// TestLoadInvalid verifies that invalid values in a config file surface as
// errors at load time.
func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("grid:\n  size: -3\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected validation error for negative grid size")
	}

	if err := os.WriteFile(path, []byte("input:\n  phantom: cube\n"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected validation error for unknown phantom")
	}
}

// TestCreateDefaultConfigFile verifies default file creation.
func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile failed: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("Expected config file to exist: %v", err)
	}
}
