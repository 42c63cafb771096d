package volume

import (
	"math"
	"path/filepath"
	"testing"
)

// TestNewAndAccessors verifies allocation and the row-major index mapping.
func TestNewAndAccessors(t *testing.T) {
	v, err := New(4)
	if err != nil {
		t.Fatalf("New(4) failed: %v", err)
	}

	if len(v.Data) != 64 {
		t.Fatalf("Expected 64 voxels, got %d", len(v.Data))
	}

	v.Set(1, 2, 3, 5.5)
	if got := v.At(1, 2, 3); got != 5.5 {
		t.Errorf("At(1,2,3) = %v, want 5.5", got)
	}
	if idx := v.Index(1, 2, 3); idx != 3*16+2*4+1 {
		t.Errorf("Index(1,2,3) = %d, want %d", idx, 3*16+2*4+1)
	}

	if _, err := New(0); err == nil {
		t.Error("Expected error for zero side length")
	}
}

// TestFromData checks the cube-length validation on wrapped slices.
func TestFromData(t *testing.T) {
	data := make([]float64, 27)
	v, err := FromData(data, 3)
	if err != nil {
		t.Fatalf("FromData failed: %v", err)
	}
	if v.N != 3 {
		t.Errorf("Expected N=3, got %d", v.N)
	}

	if _, err := FromData(make([]float64, 26), 3); err == nil {
		t.Error("Expected error for non-cubic data length")
	}
}

// TestConstantAndStats verifies the constant constructor and summary
// statistics.
func TestConstantAndStats(t *testing.T) {
	v, err := Constant(3, 2.5)
	if err != nil {
		t.Fatalf("Constant failed: %v", err)
	}

	mean, stddev, min, max := v.Stats()
	if mean != 2.5 || min != 2.5 || max != 2.5 {
		t.Errorf("Expected constant stats 2.5, got mean=%v min=%v max=%v", mean, min, max)
	}
	if stddev != 0 {
		t.Errorf("Expected zero spread for constant volume, got %v", stddev)
	}
}

// TestSphericalPhantom checks that the ball phantom puts the inside value
// at the center and the outside value at the corners.
func TestSphericalPhantom(t *testing.T) {
	v, err := SphericalPhantom(9, 2.0, 1.0, 0.0)
	if err != nil {
		t.Fatalf("SphericalPhantom failed: %v", err)
	}

	if got := v.At(4, 4, 4); got != 1.0 {
		t.Errorf("Center voxel = %v, want 1.0", got)
	}
	if got := v.At(0, 0, 0); got != 0.0 {
		t.Errorf("Corner voxel = %v, want 0.0", got)
	}
}

// TestGaussianPhantom checks peak position and monotone falloff along an
// axis.
func TestGaussianPhantom(t *testing.T) {
	v, err := GaussianPhantom(9, 2.0)
	if err != nil {
		t.Fatalf("GaussianPhantom failed: %v", err)
	}

	if got := v.At(4, 4, 4); math.Abs(got-1.0) > 1e-12 {
		t.Errorf("Center voxel = %v, want 1.0", got)
	}

	prev := v.At(4, 4, 4)
	for x := 5; x < 9; x++ {
		cur := v.At(x, 4, 4)
		if cur >= prev {
			t.Errorf("Expected falloff along axis, got %v after %v at x=%d", cur, prev, x)
		}
		prev = cur
	}

	if _, err := GaussianPhantom(5, 0); err == nil {
		t.Error("Expected error for non-positive width")
	}
}

// TestRawRoundTrip writes a volume to a raw float32 file and reads it back.
func TestRawRoundTrip(t *testing.T) {
	v, err := GaussianPhantom(6, 1.5)
	if err != nil {
		t.Fatalf("GaussianPhantom failed: %v", err)
	}

	path := filepath.Join(t.TempDir(), "vol.f32")
	if err := v.SaveRaw(path); err != nil {
		t.Fatalf("SaveRaw failed: %v", err)
	}

	loaded, err := LoadRaw(path, 6)
	if err != nil {
		t.Fatalf("LoadRaw failed: %v", err)
	}

	if loaded.N != 6 {
		t.Fatalf("Loaded side length %d, want 6", loaded.N)
	}
	for i := range v.Data {
		// Round trip goes through float32, so compare at that precision.
		if math.Abs(loaded.Data[i]-v.Data[i]) > 1e-6 {
			t.Fatalf("Voxel %d changed in round trip: %v -> %v", i, v.Data[i], loaded.Data[i])
		}
	}

	// Wrong grid size must be rejected by the file-size check.
	if _, err := LoadRaw(path, 7); err == nil {
		t.Error("Expected error when loading with mismatched side length")
	}
}
