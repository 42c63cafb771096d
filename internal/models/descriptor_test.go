package models

import (
	"path/filepath"
	"testing"
)

// TestDescriptorRoundTrip saves a descriptor and loads it back.
func TestDescriptorRoundTrip(t *testing.T) {
	d := &Descriptor{
		GridSize:     8,
		Bins:         5,
		Coefficients: []float64{1, 0.8, 0.5, 0.2, 0},
	}

	path := filepath.Join(t.TempDir(), "descriptor.yaml")
	if err := d.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadDescriptor(path)
	if err != nil {
		t.Fatalf("LoadDescriptor failed: %v", err)
	}

	if loaded.GridSize != 8 || loaded.Bins != 5 {
		t.Errorf("Dimensions changed in round trip: size=%d bins=%d",
			loaded.GridSize, loaded.Bins)
	}
	for i := range d.Coefficients {
		if loaded.Coefficients[i] != d.Coefficients[i] {
			t.Errorf("Coefficient %d changed: %v -> %v",
				i, d.Coefficients[i], loaded.Coefficients[i])
		}
	}
}

// TestDescriptorValidate verifies consistency checks.
func TestDescriptorValidate(t *testing.T) {
	cases := []struct {
		name string
		d    Descriptor
	}{
		{"zero grid size", Descriptor{GridSize: 0, Bins: 2, Coefficients: []float64{1, 2}}},
		{"zero bins", Descriptor{GridSize: 4, Bins: 0}},
		{"length mismatch", Descriptor{GridSize: 4, Bins: 3, Coefficients: []float64{1}}},
	}

	for _, c := range cases {
		if err := c.d.Validate(); err == nil {
			t.Errorf("%s: expected validation error", c.name)
		}
	}

	ok := Descriptor{GridSize: 4, Bins: 2, Coefficients: []float64{1, 2}}
	if err := ok.Validate(); err != nil {
		t.Errorf("Valid descriptor rejected: %v", err)
	}
}

// TestLoadDescriptorMissing verifies a missing file surfaces as an error.
func TestLoadDescriptorMissing(t *testing.T) {
	if _, err := LoadDescriptor(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("Expected error for missing descriptor file")
	}
}
