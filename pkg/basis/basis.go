// Package basis implements a rotation-invariant radial basis for cubic 3D
// volumes. It is a lightweight substitute for a full spherical-harmonic or
// Fourier-Bessel decomposition, restricted to the rotationally symmetric
// (l=0) component: voxels are grouped into concentric shells around the
// grid center, the forward transform reduces a volume to one mean value per
// shell, and the inverse transform broadcasts those means back onto the
// grid.
//
// The shell assignment is precomputed once at construction and never
// changes, so a single Basis may be shared freely across goroutines.
package basis

import (
	"math"
	"sync"
)

// Basis maps between N×N×N volumes and length-nbins radial descriptors.
//
// Volumes are flat row-major slices indexed z*N*N + y*N + x, matching the
// layout used throughout this module.
type Basis struct {
	// n is the side length of the cubic grid
	n int

	// nbins is the number of radial shells
	nbins int

	// rbin holds the precomputed radial bin index of every voxel.
	// Immutable after construction; every entry lies in [0, nbins-1].
	rbin []int32
}

// DefaultBins returns the shell count used when the caller does not choose
// one: n/2 + 1, one shell per voxel of half-diameter plus the center.
func DefaultBins(n int) int {
	return n/2 + 1
}

// New creates a basis for an n×n×n grid with the default shell count.
func New(n int) (*Basis, error) {
	return NewWithBins(n, DefaultBins(n))
}

// NewWithBins creates a basis for an n×n×n grid with nbins radial shells.
//
// Each voxel's coordinate along an axis is index - (n-1)/2, so the radial
// frame is centered on the grid's geometric center (between voxels for even
// n). The voxel's Euclidean radius is scaled so the corner of the grid
// lands on shell nbins-1, rounded half-to-even, and clamped into range.
//
// A 1×1×1 grid has zero corner radius, which makes the shell scaling
// ambiguous for more than one shell; it is accepted only with nbins == 1,
// where the single voxel maps to shell 0.
func NewWithBins(n, nbins int) (*Basis, error) {
	if n <= 0 {
		return nil, &ConstructionError{Reason: "grid size must be positive"}
	}
	if nbins <= 0 {
		return nil, &ConstructionError{Reason: "bin count must be positive"}
	}

	center := float64(n-1) / 2

	// Corner radius, the largest radius on the grid.
	rmax := math.Sqrt(3 * center * center)
	if rmax == 0 && nbins > 1 {
		return nil, &ConstructionError{
			Reason: "grid has zero radius, cannot scale more than one bin",
		}
	}

	scale := 0.0
	if rmax > 0 {
		scale = float64(nbins-1) / rmax
	}

	rbin := make([]int32, n*n*n)
	idx := 0
	for z := 0; z < n; z++ {
		dz := float64(z) - center
		for y := 0; y < n; y++ {
			dy := float64(y) - center
			for x := 0; x < n; x++ {
				dx := float64(x) - center
				r := math.Sqrt(dx*dx + dy*dy + dz*dz)

				bin := int32(math.RoundToEven(r * scale))
				if bin < 0 {
					bin = 0
				}
				if bin > int32(nbins-1) {
					bin = int32(nbins - 1)
				}

				rbin[idx] = bin
				idx++
			}
		}
	}

	return &Basis{n: n, nbins: nbins, rbin: rbin}, nil
}

// N returns the side length of the grid the basis was built for.
func (b *Basis) N() int {
	return b.n
}

// Bins returns the number of radial shells.
func (b *Basis) Bins() int {
	return b.nbins
}

// BinAt returns the shell index of the voxel at (x, y, z).
func (b *Basis) BinAt(x, y, z int) int {
	return int(b.rbin[(z*b.n+y)*b.n+x])
}

// Forward reduces a volume to its radial descriptor: the arithmetic mean of
// the voxel values in each shell. Shells that contain no voxels (possible
// when nbins exceeds the number of distinct radii) yield exactly 0.
//
// The volume must be a flat n³ slice; a wrong length is a ShapeError and no
// computation takes place.
func (b *Basis) Forward(vol []float64) ([]float64, error) {
	if len(vol) != len(b.rbin) {
		return nil, &ShapeError{Op: "forward transform", Got: len(vol), Want: len(b.rbin)}
	}

	sums := make([]float64, b.nbins)
	counts := make([]int64, b.nbins)
	for i, v := range vol {
		bin := b.rbin[i]
		sums[bin] += v
		counts[bin]++
	}

	// Reuse the sum buffer for the means; empty shells stay at 0 so the
	// descriptor never carries NaN.
	for i := range sums {
		if counts[i] > 0 {
			sums[i] /= float64(counts[i])
		} else {
			sums[i] = 0
		}
	}

	return sums, nil
}

// ForwardParallel computes the same descriptor as Forward using the given
// number of goroutines. Each worker accumulates sums and counts for a
// contiguous span of voxels into its own buffers, which are merged after
// all workers finish, so the result is identical to the serial transform.
//
// Worth using only for volumes large enough that the accumulation dominates
// the buffer setup; workers < 2 falls back to Forward.
func (b *Basis) ForwardParallel(vol []float64, workers int) ([]float64, error) {
	if workers < 2 {
		return b.Forward(vol)
	}
	if len(vol) != len(b.rbin) {
		return nil, &ShapeError{Op: "forward transform", Got: len(vol), Want: len(b.rbin)}
	}
	if workers > len(vol) {
		workers = len(vol)
	}

	sums := make([][]float64, workers)
	counts := make([][]int64, workers)

	var wg sync.WaitGroup
	span := (len(vol) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()

			lo := w * span
			hi := lo + span
			if hi > len(vol) {
				hi = len(vol)
			}

			s := make([]float64, b.nbins)
			c := make([]int64, b.nbins)
			for i := lo; i < hi; i++ {
				bin := b.rbin[i]
				s[bin] += vol[i]
				c[bin]++
			}
			sums[w] = s
			counts[w] = c
		}(w)
	}
	wg.Wait()

	coeffs := make([]float64, b.nbins)
	total := make([]int64, b.nbins)
	for w := 0; w < workers; w++ {
		for i := 0; i < b.nbins; i++ {
			coeffs[i] += sums[w][i]
			total[i] += counts[w][i]
		}
	}
	for i := range coeffs {
		if total[i] > 0 {
			coeffs[i] /= float64(total[i])
		} else {
			coeffs[i] = 0
		}
	}

	return coeffs, nil
}

// KeepIsotropic returns an independent copy of the descriptor. In a basis
// with angular components this would select the l=0, m=0 coefficients;
// every coefficient of this basis is already isotropic, so the selection is
// a copy. Mutating the result never affects the input.
func (b *Basis) KeepIsotropic(coeffs []float64) []float64 {
	out := make([]float64, len(coeffs))
	copy(out, coeffs)
	return out
}

// Inverse reconstructs an isotropic volume from a radial descriptor by
// writing each shell's coefficient to every voxel of that shell.
//
// The descriptor length must equal the basis shell count; a wrong length is
// a ShapeError and no computation takes place.
func (b *Basis) Inverse(coeffs []float64) ([]float64, error) {
	if len(coeffs) != b.nbins {
		return nil, &ShapeError{Op: "inverse transform", Got: len(coeffs), Want: b.nbins}
	}

	vol := make([]float64, len(b.rbin))
	for i, bin := range b.rbin {
		vol[i] = coeffs[bin]
	}
	return vol, nil
}
