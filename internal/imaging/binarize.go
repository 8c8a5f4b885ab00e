package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/disintegration/imaging"
)

// Luma returns the weighted grayscale value 0.3*R + 0.59*G + 0.11*B.
func Luma(r, g, b uint8) float64 {
	return 0.3*float64(r) + 0.59*float64(g) + 0.11*float64(b)
}

// ClampThreshold maps any integer into the valid threshold range [0, 255].
func ClampThreshold(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// Binarize returns a black/white copy of src.
//
// Every pixel whose luma is >= threshold becomes white, every other pixel
// black; R, G and B are set to the same value and alpha is left untouched.
// src is never modified, so calling Binarize twice on the same source with the
// same threshold yields identical output.
func Binarize(src image.Image, threshold uint8) *image.NRGBA {
	dst := imaging.Clone(src)
	BinarizeInPlace(dst, threshold)
	return dst
}

// BinarizeInPlace applies the threshold filter directly to img's pixels.
//
// Filtering is not idempotent across repeated application with different
// thresholds, so callers wanting a live preview must start from an unfiltered
// copy each time.
func BinarizeInPlace(img *image.NRGBA, threshold uint8) {
	b := img.Bounds()
	t := float64(threshold)
	rowLen := b.Dx() * 4

	parallel.Line(b.Dy(), func(start, end int) {
		for y := start; y < end; y++ {
			off := img.PixOffset(b.Min.X, b.Min.Y+y)
			row := img.Pix[off : off+rowLen]
			for i := 0; i < len(row); i += 4 {
				var v uint8
				if Luma(row[i], row[i+1], row[i+2]) >= t {
					v = 255
				}
				row[i], row[i+1], row[i+2] = v, v, v
			}
		}
	})
}
