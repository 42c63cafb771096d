// Package visualization renders reconstructed volumes and radial profiles
// for inspection: axis-aligned grayscale slice images and terminal plots of
// a descriptor's shell means.
package visualization

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"

	"github.com/guptarohit/asciigraph"

	"isobasis3d/pkg/volume"
)

// Viewer extracts 2D slices from a cubic volume for visual inspection.
// Voxel values are normalized to the volume's own range, so arbitrary
// intensity scales render as full-range grayscale.
type Viewer struct {
	vol *volume.Volume

	// min and range of the voxel values, precomputed for normalization
	lo   float64
	span float64
}

// NewViewer creates a viewer over the given volume.
func NewViewer(vol *volume.Volume) *Viewer {
	_, _, lo, hi := vol.Stats()
	return &Viewer{vol: vol, lo: lo, span: hi - lo}
}

// gray maps a voxel value into 16-bit grayscale using the volume's range.
func (v *Viewer) gray(val float64) color.Gray16 {
	if v.span <= 0 {
		return color.Gray16{Y: 0}
	}
	norm := (val - v.lo) / v.span
	if norm < 0 {
		norm = 0
	}
	if norm > 1 {
		norm = 1
	}
	return color.Gray16{Y: uint16(norm * 65535)}
}

// ExtractSlice extracts a 2D slice from the volume along the specified axis
// at the given position.
func (v *Viewer) ExtractSlice(axis string, position int) (image.Image, error) {
	n := v.vol.N
	if position < 0 || position >= n {
		return nil, fmt.Errorf("position %d outside grid of size %d", position, n)
	}

	img := image.NewGray16(image.Rect(0, 0, n, n))

	switch axis {
	case "x", "X":
		// YZ plane
		for y := 0; y < n; y++ {
			for z := 0; z < n; z++ {
				img.SetGray16(z, y, v.gray(v.vol.At(position, y, z)))
			}
		}

	case "y", "Y":
		// XZ plane
		for z := 0; z < n; z++ {
			for x := 0; x < n; x++ {
				img.SetGray16(x, z, v.gray(v.vol.At(x, position, z)))
			}
		}

	case "z", "Z":
		// XY plane
		for y := 0; y < n; y++ {
			for x := 0; x < n; x++ {
				img.SetGray16(x, y, v.gray(v.vol.At(x, y, position)))
			}
		}

	default:
		return nil, fmt.Errorf("invalid axis: %s (must be x, y, or z)", axis)
	}

	return img, nil
}

// SaveSlice saves an extracted slice as a PNG image.
func (v *Viewer) SaveSlice(img image.Image, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}

// SaveSliceSequence extracts and saves every slice along the specified axis
// into the output directory.
func (v *Viewer) SaveSliceSequence(axis string, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return err
	}

	for pos := 0; pos < v.vol.N; pos++ {
		img, err := v.ExtractSlice(axis, pos)
		if err != nil {
			return err
		}

		filename := filepath.Join(outputDir, fmt.Sprintf("slice_%s_%03d.png", axis, pos))
		if err := v.SaveSlice(img, filename); err != nil {
			return err
		}
	}

	return nil
}

// ProfilePlot renders the radial descriptor as a terminal line plot, shell
// index on the horizontal axis and mean voxel value on the vertical.
func ProfilePlot(coeffs []float64) string {
	if len(coeffs) == 0 {
		return ""
	}

	return asciigraph.Plot(coeffs,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("radial profile (shell index left to right)"),
	)
}
