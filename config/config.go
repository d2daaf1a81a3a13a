package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config represents the simulator's configuration
type Config struct {
	// Run settings
	Run struct {
		MaxCycles   uint64 `toml:"max_cycles"`
		KernelDir   string `toml:"kernel_dir"`
		Version     string `toml:"version"`
		EnableTrace bool   `toml:"enable_trace"`
	} `toml:"run"`

	// Assembler settings
	Assembler struct {
		StrictSRF bool `toml:"strict_srf"` // reject an ambiguous SRF index at assemble time
		StrictVWR bool `toml:"strict_vwr"` // reject a conflicting VWR write letter at assemble time
	} `toml:"assembler"`

	// Inspector settings
	Inspector struct {
		ColorOutput      bool   `toml:"color_output"`
		RegistersPerLine int    `toml:"registers_per_line"`
		NumberFormat     string `toml:"number_format"` // hex, dec, both
	} `toml:"inspector"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Run defaults
	cfg.Run.MaxCycles = 1000000
	cfg.Run.KernelDir = "."
	cfg.Run.Version = ""
	cfg.Run.EnableTrace = false

	// Assembler defaults
	cfg.Assembler.StrictSRF = true
	cfg.Assembler.StrictVWR = true

	// Inspector defaults
	cfg.Inspector.ColorOutput = true
	cfg.Inspector.RegistersPerLine = 4
	cfg.Inspector.NumberFormat = "hex"

	return cfg
}

// GetConfigPath returns the platform-specific config file path
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\vwr2a-sim\config.toml
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "vwr2a-sim")

	case "darwin", "linux":
		// macOS/Linux: ~/.config/vwr2a-sim/config.toml
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to current directory
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "vwr2a-sim")

	default:
		// Unknown platform: use current directory
		return "config.toml"
	}

	// Ensure directory exists
	if err := os.MkdirAll(configDir, 0750); err != nil {
		// If we can't create the directory, fall back to current directory
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// GetLogPath returns the platform-specific log directory path
func GetLogPath() string {
	var logDir string

	switch runtime.GOOS {
	case "windows":
		// Windows: %APPDATA%\vwr2a-sim\logs
		logDir = os.Getenv("APPDATA")
		if logDir == "" {
			logDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		logDir = filepath.Join(logDir, "vwr2a-sim", "logs")

	case "darwin", "linux":
		// macOS/Linux: ~/.local/share/vwr2a-sim/logs
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "logs"
		}
		logDir = filepath.Join(homeDir, ".local", "share", "vwr2a-sim", "logs")

	default:
		return "logs"
	}

	// Ensure directory exists
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return "logs"
	}

	return logDir
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from the specified file
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read and parse config file
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo saves configuration to the specified file
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Create file
	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close config file: %w", closeErr)
		}
	}()

	// Encode to TOML
	encoder := toml.NewEncoder(f)
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
