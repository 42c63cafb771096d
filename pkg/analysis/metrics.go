// Package analysis provides quality metrics for comparing a volume against
// its isotropic reconstruction. An isotropic reconstruction discards all
// angular structure, so these metrics quantify how much of a volume's
// content was rotation-invariant to begin with.
package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Metrics holds the comparison metrics between an original volume and its
// reconstruction.
type Metrics struct {
	// RMSE is the root mean square error between voxel intensities.
	// Lower values indicate better reconstruction fidelity.
	RMSE float64

	// Correlation is the Pearson correlation between original and
	// reconstructed voxel values. 1 indicates a perfect linear match.
	Correlation float64

	// SSIM is the structural similarity index over the whole volume,
	// considering luminance, contrast, and structure. Values range from
	// -1 to 1, with 1 indicating perfect similarity.
	SSIM float64

	// EntropyDiff is the absolute difference in Shannon entropy between
	// the two volumes. Lower values indicate better information
	// preservation.
	EntropyDiff float64

	// Accuracy is a combined score in [0, 100] derived from the other
	// metrics, for a single at-a-glance quality figure.
	Accuracy float64
}

// Compare computes all metrics between an original volume and its
// reconstruction. Both slices must have the same length.
func Compare(original, reconstructed []float64) (Metrics, error) {
	if len(original) != len(reconstructed) {
		return Metrics{}, fmt.Errorf("volume size mismatch: %d vs %d voxels",
			len(original), len(reconstructed))
	}
	if len(original) == 0 {
		return Metrics{}, fmt.Errorf("cannot compare empty volumes")
	}

	m := Metrics{
		RMSE:        rmse(original, reconstructed),
		Correlation: correlation(original, reconstructed),
		SSIM:        ssim(original, reconstructed),
		EntropyDiff: math.Abs(entropy(original) - entropy(reconstructed)),
	}
	m.Accuracy = accuracy(m)
	return m, nil
}

// rmse computes the root mean square error between two volumes.
func rmse(a, b []float64) float64 {
	mse := 0.0
	for i := range a {
		diff := a[i] - b[i]
		mse += diff * diff
	}
	return math.Sqrt(mse / float64(len(a)))
}

// correlation computes the Pearson correlation, treating the degenerate
// zero-variance case (constant volumes) as perfect correlation when the
// volumes are equal and zero otherwise.
func correlation(a, b []float64) float64 {
	c := stat.Correlation(a, b, nil)
	if math.IsNaN(c) {
		for i := range a {
			if a[i] != b[i] {
				return 0
			}
		}
		return 1
	}
	return c
}

// ssim computes a single structural similarity index over the full volume.
func ssim(a, b []float64) float64 {
	// Standard SSIM constants for unit dynamic range.
	const (
		l  = 1.0
		k1 = 0.01
		k2 = 0.03
	)
	c1 := (k1 * l) * (k1 * l)
	c2 := (k2 * l) * (k2 * l)

	muX := stat.Mean(a, nil)
	muY := stat.Mean(b, nil)
	sigmaX := stat.Variance(a, nil)
	sigmaY := stat.Variance(b, nil)
	sigmaXY := stat.Covariance(a, b, nil)

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)
	if den <= 0 {
		return 0
	}
	return num / den
}

// entropy computes the Shannon entropy of the value distribution using a
// fixed 256-bin histogram over the data range.
func entropy(data []float64) float64 {
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if max <= min {
		return 0
	}

	const numBins = 256
	hist := make([]float64, numBins)
	binWidth := (max - min) / float64(numBins)
	for _, v := range data {
		binIdx := int((v - min) / binWidth)
		if binIdx >= numBins {
			binIdx = numBins - 1
		} else if binIdx < 0 {
			binIdx = 0
		}
		hist[binIdx]++
	}

	n := float64(len(data))
	e := 0.0
	for _, count := range hist {
		if count > 0 {
			p := count / n
			e -= p * math.Log2(p)
		}
	}
	return e
}

// accuracy folds the individual metrics into a single percentage. RMSE and
// the correlation enter as penalties; the result is clamped to [0, 100].
func accuracy(m Metrics) float64 {
	score := (1 - math.Min(m.RMSE, 1)) * m.SSIM * (0.5 + 0.5*m.Correlation)
	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	return score * 100
}
