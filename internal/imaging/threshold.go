package imaging

import (
	"image"
	"math"
)

// LumaHistogram counts pixels of img by rounded luma value.
func LumaHistogram(img image.Image) [256]int {
	var hist [256]int
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, _ := img.At(x, y).RGBA()
			l := math.Round(Luma(uint8(r>>8), uint8(g>>8), uint8(bl>>8)))
			if l > 255 {
				l = 255
			}
			hist[int(l)]++
		}
	}
	return hist
}

// SuggestThreshold picks a binarization threshold with Otsu's method.
//
// Otsu's split value t puts luma <= t in the dark class. Binarize keeps pixels
// with luma >= threshold white, so the returned value is t+1 (capped at 255).
// An image with no pixels yields the default of 128.
func SuggestThreshold(img image.Image) uint8 {
	hist := LumaHistogram(img)

	total := 0
	var sumAll float64
	for i, n := range hist {
		total += n
		sumAll += float64(i) * float64(n)
	}
	if total == 0 {
		return 128
	}

	var sumBack float64
	var weightBack int
	var maxVariance float64
	best := -1

	for t := 0; t < 256; t++ {
		weightBack += hist[t]
		if weightBack == 0 {
			continue
		}
		weightFore := total - weightBack
		if weightFore == 0 {
			break
		}

		sumBack += float64(t) * float64(hist[t])
		meanBack := sumBack / float64(weightBack)
		meanFore := (sumAll - sumBack) / float64(weightFore)

		variance := float64(weightBack) * float64(weightFore) * (meanBack - meanFore) * (meanBack - meanFore)
		if variance > maxVariance {
			maxVariance = variance
			best = t
		}
	}

	// Single-tone image: nothing to separate
	if best < 0 {
		return 128
	}
	return ClampThreshold(best + 1)
}
