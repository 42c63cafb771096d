package models

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Descriptor is the persisted form of a radial descriptor: the grid it was
// computed on and one mean value per radial shell.
type Descriptor struct {
	// GridSize is the side length N of the volume the descriptor
	// summarizes
	GridSize int `yaml:"gridSize"`

	// Bins is the number of radial shells
	Bins int `yaml:"bins"`

	// Coefficients is the mean voxel value per shell, length Bins
	Coefficients []float64 `yaml:"coefficients"`
}

// Validate checks internal consistency of a descriptor document.
func (d *Descriptor) Validate() error {
	if d.GridSize <= 0 {
		return fmt.Errorf("descriptor grid size must be positive, got %d", d.GridSize)
	}
	if d.Bins <= 0 {
		return fmt.Errorf("descriptor bin count must be positive, got %d", d.Bins)
	}
	if len(d.Coefficients) != d.Bins {
		return fmt.Errorf("descriptor has %d coefficients, want %d",
			len(d.Coefficients), d.Bins)
	}
	return nil
}

// Save writes the descriptor to a YAML file.
func (d *Descriptor) Save(path string) error {
	if err := d.Validate(); err != nil {
		return err
	}

	data, err := yaml.Marshal(d)
	if err != nil {
		return fmt.Errorf("error marshaling descriptor: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("error writing descriptor file: %w", err)
	}
	return nil
}

// LoadDescriptor reads and validates a descriptor from a YAML file.
func LoadDescriptor(path string) (*Descriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading descriptor file: %w", err)
	}

	d := &Descriptor{}
	if err := yaml.Unmarshal(data, d); err != nil {
		return nil, fmt.Errorf("error parsing descriptor file: %w", err)
	}

	if err := d.Validate(); err != nil {
		return nil, err
	}
	return d, nil
}
