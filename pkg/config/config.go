// Package config provides configuration loading and management for
// isobasis3d. It handles loading configuration from YAML files and provides
// default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Grid parameters
	Grid struct {
		// Size is the side length N of the cubic volume grid
		Size int `yaml:"size"`

		// Bins is the number of radial shells; 0 means the default
		// size/2 + 1
		Bins int `yaml:"bins"`
	} `yaml:"grid"`

	// Processing parameters
	Processing struct {
		// NumWorkers specifies how many goroutines the forward
		// transform may use; 1 disables parallel accumulation
		NumWorkers int `yaml:"numWorkers"`
	} `yaml:"processing"`

	// Input parameters
	Input struct {
		// VolumeFile is a raw little-endian float32 volume of Size³
		// values; when empty a synthetic phantom is used instead
		VolumeFile string `yaml:"volumeFile"`

		// Phantom selects the synthetic input: "ball" or "gaussian"
		Phantom string `yaml:"phantom"`

		// PhantomRadius is the ball radius or gaussian width in voxels
		PhantomRadius float64 `yaml:"phantomRadius"`
	} `yaml:"input"`

	// Output parameters
	Output struct {
		// DescriptorFile is where the radial descriptor is written
		DescriptorFile string `yaml:"descriptorFile"`

		// VolumeFile is where reconstructed volumes are written
		VolumeFile string `yaml:"volumeFile"`

		// SliceDir, when set, receives PNG slices of reconstructions
		SliceDir string `yaml:"sliceDir"`

		// PlotProfile controls the terminal plot of the radial profile
		PlotProfile bool `yaml:"plotProfile"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Grid.Size = 64
	cfg.Grid.Bins = 0 // derive from grid size

	cfg.Processing.NumWorkers = runtime.NumCPU()

	cfg.Input.Phantom = "gaussian"
	cfg.Input.PhantomRadius = 8.0

	cfg.Output.DescriptorFile = "descriptor.yaml"
	cfg.Output.VolumeFile = "reconstruction.f32"
	cfg.Output.PlotProfile = true

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the transforms would reject
func (cfg *Config) Validate() error {
	if cfg.Grid.Size <= 0 {
		return fmt.Errorf("grid size must be positive, got %d", cfg.Grid.Size)
	}
	if cfg.Grid.Bins < 0 {
		return fmt.Errorf("bin count must not be negative, got %d", cfg.Grid.Bins)
	}
	if cfg.Processing.NumWorkers < 1 {
		return fmt.Errorf("worker count must be at least 1, got %d", cfg.Processing.NumWorkers)
	}
	switch cfg.Input.Phantom {
	case "", "ball", "gaussian":
	default:
		return fmt.Errorf("unknown phantom %q, want ball or gaussian", cfg.Input.Phantom)
	}
	return nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
