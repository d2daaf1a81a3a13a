package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// Test run defaults
	if cfg.Run.MaxCycles != 1000000 {
		t.Errorf("Expected MaxCycles=1000000, got %d", cfg.Run.MaxCycles)
	}
	if cfg.Run.KernelDir != "." {
		t.Errorf("Expected KernelDir=., got %s", cfg.Run.KernelDir)
	}
	if cfg.Run.EnableTrace {
		t.Error("Expected EnableTrace=false")
	}

	// Test assembler defaults
	if !cfg.Assembler.StrictSRF {
		t.Error("Expected StrictSRF=true")
	}
	if !cfg.Assembler.StrictVWR {
		t.Error("Expected StrictVWR=true")
	}

	// Test inspector defaults
	if !cfg.Inspector.ColorOutput {
		t.Error("Expected ColorOutput=true")
	}
	if cfg.Inspector.RegistersPerLine != 4 {
		t.Errorf("Expected RegistersPerLine=4, got %d", cfg.Inspector.RegistersPerLine)
	}
	if cfg.Inspector.NumberFormat != "hex" {
		t.Errorf("Expected NumberFormat=hex, got %s", cfg.Inspector.NumberFormat)
	}
}

func TestGetConfigPath(t *testing.T) {
	path := GetConfigPath()

	// Verify path is not empty
	if path == "" {
		t.Error("GetConfigPath returned empty string")
	}

	// Verify path ends with config.toml
	if filepath.Base(path) != "config.toml" {
		t.Errorf("Expected path to end with config.toml, got %s", path)
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		// Should be absolute or be fallback
		if !filepath.IsAbs(path) && path != "config.toml" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		// Should be in .config/vwr2a-sim or be fallback
		dir := filepath.Dir(path)
		if filepath.Base(dir) != "vwr2a-sim" && path != "config.toml" {
			t.Errorf("Expected path in vwr2a-sim directory or fallback, got %s", path)
		}
	}
}

func TestGetLogPath(t *testing.T) {
	path := GetLogPath()

	// Verify path is not empty
	if path == "" {
		t.Error("GetLogPath returned empty string")
	}

	// Platform-specific checks
	switch runtime.GOOS {
	case "windows":
		// Should be absolute or be fallback
		if !filepath.IsAbs(path) && path != "logs" {
			t.Errorf("Expected absolute path on Windows, got %s", path)
		}

	case "darwin", "linux":
		// Should be in .local/share/vwr2a-sim/logs or be fallback
		if filepath.Base(path) != "logs" {
			t.Errorf("Expected path to end with logs, got %s", path)
		}
	}
}

func TestSaveAndLoad(t *testing.T) {
	// Create a temporary directory for testing
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "test_config.toml")

	// Create a config with custom values
	cfg := DefaultConfig()
	cfg.Run.MaxCycles = 5000000
	cfg.Run.EnableTrace = true
	cfg.Run.Version = "_v2"
	cfg.Assembler.StrictVWR = false
	cfg.Inspector.ColorOutput = false
	cfg.Inspector.NumberFormat = "both"

	// Save config
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// Verify file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatal("Config file was not created")
	}

	// Load config
	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	// Verify values match
	if loaded.Run.MaxCycles != 5000000 {
		t.Errorf("Expected MaxCycles=5000000, got %d", loaded.Run.MaxCycles)
	}
	if !loaded.Run.EnableTrace {
		t.Error("Expected EnableTrace=true")
	}
	if loaded.Run.Version != "_v2" {
		t.Errorf("Expected Version=_v2, got %s", loaded.Run.Version)
	}
	if loaded.Assembler.StrictVWR {
		t.Error("Expected StrictVWR=false")
	}
	if loaded.Inspector.ColorOutput {
		t.Error("Expected ColorOutput=false")
	}
	if loaded.Inspector.NumberFormat != "both" {
		t.Errorf("Expected NumberFormat=both, got %s", loaded.Inspector.NumberFormat)
	}
}

func TestLoadNonExistent(t *testing.T) {
	// Try to load from a non-existent file
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "nonexistent.toml")

	// Should return default config without error
	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("LoadFrom should not error on non-existent file: %v", err)
	}

	// Verify we got default config
	if cfg.Run.MaxCycles != 1000000 {
		t.Error("Expected default config when file doesn't exist")
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	// Create a temporary file with invalid TOML
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "invalid.toml")

	invalidTOML := `
[run]
max_cycles = "not a number"  # Invalid: should be uint64
`
	if err := os.WriteFile(configPath, []byte(invalidTOML), 0644); err != nil {
		t.Fatalf("Failed to create test file: %v", err)
	}

	// Should return error
	_, err := LoadFrom(configPath)
	if err == nil {
		t.Error("Expected error when loading invalid TOML")
	}
}

func TestSaveCreatesDirectory(t *testing.T) {
	// Create a temporary directory
	tempDir := t.TempDir()

	// Try to save to a path with non-existent subdirectories
	configPath := filepath.Join(tempDir, "subdir1", "subdir2", "config.toml")

	cfg := DefaultConfig()
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("Failed to save config: %v", err)
	}

	// Verify file was created
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	// Verify directories were created
	dir := filepath.Dir(configPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		t.Error("Parent directories were not created")
	}
}
