// Package volume provides the cubic voxel volumes consumed and produced by
// the radial basis transforms, along with raw-file I/O and synthetic
// phantoms for testing and demonstration.
package volume

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Volume is a dense N×N×N cube of real values. Data is stored flat in
// row-major order, indexed z*N*N + y*N + x.
type Volume struct {
	// Data is the voxel values as a 1D array in row-major order
	Data []float64

	// N is the side length of the cube in voxels
	N int
}

// New creates a zero-filled volume with side length n.
func New(n int) (*Volume, error) {
	if n <= 0 {
		return nil, fmt.Errorf("volume side length must be positive, got %d", n)
	}
	return &Volume{Data: make([]float64, n*n*n), N: n}, nil
}

// Constant creates a volume with every voxel set to k.
func Constant(n int, k float64) (*Volume, error) {
	v, err := New(n)
	if err != nil {
		return nil, err
	}
	for i := range v.Data {
		v.Data[i] = k
	}
	return v, nil
}

// FromData wraps an existing flat slice as a volume. The slice length must
// be a perfect cube n³.
func FromData(data []float64, n int) (*Volume, error) {
	if n <= 0 || len(data) != n*n*n {
		return nil, fmt.Errorf("volume data has %d elements, want %d for side length %d",
			len(data), n*n*n, n)
	}
	return &Volume{Data: data, N: n}, nil
}

// Index returns the flat index of the voxel at (x, y, z).
func (v *Volume) Index(x, y, z int) int {
	return (z*v.N+y)*v.N + x
}

// At returns the value of the voxel at (x, y, z).
func (v *Volume) At(x, y, z int) float64 {
	return v.Data[v.Index(x, y, z)]
}

// Set assigns the voxel at (x, y, z).
func (v *Volume) Set(x, y, z int, val float64) {
	v.Data[v.Index(x, y, z)] = val
}

// Stats returns summary statistics of the voxel values.
func (v *Volume) Stats() (mean, stddev, min, max float64) {
	mean = stat.Mean(v.Data, nil)
	stddev = stat.StdDev(v.Data, nil)
	min = floats.Min(v.Data)
	max = floats.Max(v.Data)
	return mean, stddev, min, max
}

// SphericalPhantom creates a solid-ball test volume: voxels within radius
// of the grid center get the inside value, the rest the outside value.
// The radius is in voxel units of the centered coordinate frame.
func SphericalPhantom(n int, radius, inside, outside float64) (*Volume, error) {
	v, err := New(n)
	if err != nil {
		return nil, err
	}

	center := float64(n-1) / 2
	idx := 0
	for z := 0; z < n; z++ {
		dz := float64(z) - center
		for y := 0; y < n; y++ {
			dy := float64(y) - center
			for x := 0; x < n; x++ {
				dx := float64(x) - center
				if math.Sqrt(dx*dx+dy*dy+dz*dz) <= radius {
					v.Data[idx] = inside
				} else {
					v.Data[idx] = outside
				}
				idx++
			}
		}
	}
	return v, nil
}

// GaussianPhantom creates a smooth test volume with a Gaussian bump of the
// given width centered on the grid, peak value 1 at the center.
func GaussianPhantom(n int, sigma float64) (*Volume, error) {
	if sigma <= 0 {
		return nil, fmt.Errorf("gaussian phantom width must be positive, got %v", sigma)
	}
	v, err := New(n)
	if err != nil {
		return nil, err
	}

	center := float64(n-1) / 2
	idx := 0
	for z := 0; z < n; z++ {
		dz := float64(z) - center
		for y := 0; y < n; y++ {
			dy := float64(y) - center
			for x := 0; x < n; x++ {
				dx := float64(x) - center
				r2 := dx*dx + dy*dy + dz*dz
				v.Data[idx] = math.Exp(-r2 / (2 * sigma * sigma))
				idx++
			}
		}
	}
	return v, nil
}

// LoadRaw reads a volume from a raw little-endian float32 file, the common
// dump format for single-precision volume data. The file must hold exactly
// n³ values.
func LoadRaw(path string, n int) (*Volume, error) {
	if n <= 0 {
		return nil, fmt.Errorf("volume side length must be positive, got %d", n)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open volume file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat volume file: %w", err)
	}

	want := int64(n) * int64(n) * int64(n)
	if info.Size() != want*4 {
		return nil, fmt.Errorf("volume file %s holds %d bytes, want %d for a %d³ float32 grid",
			path, info.Size(), want*4, n)
	}

	raw := make([]float32, want)
	if err := binary.Read(f, binary.LittleEndian, raw); err != nil {
		return nil, fmt.Errorf("failed to read volume data: %w", err)
	}

	v, _ := New(n)
	for i, s := range raw {
		v.Data[i] = float64(s)
	}
	return v, nil
}

// SaveRaw writes the volume as raw little-endian float32 values, matching
// the format LoadRaw reads.
func (v *Volume) SaveRaw(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create volume file: %w", err)
	}
	defer f.Close()

	raw := make([]float32, len(v.Data))
	for i, d := range v.Data {
		raw[i] = float32(d)
	}

	if err := binary.Write(f, binary.LittleEndian, raw); err != nil {
		return fmt.Errorf("failed to write volume data: %w", err)
	}
	return nil
}
