package detection

import (
	"image"
	"math"
	"sort"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge (inclusive)
	Y1 int `json:"y1"` // Top edge (inclusive)
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Rect converts b to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// TextRegion represents a detected text region
type TextRegion struct {
	Bounds     Bounds  `json:"bounds"`
	Confidence float64 `json:"confidence"`
	Area       int     `json:"area"`
}

// Options tunes DetectTextRegions.
type Options struct {
	// MinConfidence drops windows scoring below it (0.0 to 1.0).
	MinConfidence float64

	// MaxRegions caps the number of results; 0 means no cap. When capped, the
	// most confident regions are kept and then put in reading order.
	MaxRegions int

	// Padding grows every result by this many pixels on each side, clamped to
	// the image.
	Padding int
}

// DefaultOptions returns the options used by the suggestion tool.
func DefaultOptions() Options {
	return Options{MinConfidence: 0.3, MaxRegions: 20, Padding: 4}
}

// windowSizes are the sliding windows, roughly one to three lines of print at
// display scale.
var windowSizes = []struct{ w, h int }{
	{100, 30}, // Small text
	{150, 40}, // Medium text
	{200, 50}, // Large text
	{80, 25},  // Very small text
}

// DetectTextRegions finds regions likely to contain text.
//
// This is a heuristic-based approach that looks for areas with medium edge
// density and a mostly horizontal edge structure, typical of printed lines.
func DetectTextRegions(img image.Image, opts Options) []TextRegion {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	if width < 3 || height < 3 {
		return []TextRegion{}
	}

	edges := detectEdges(img, width, height)
	counts := newIntegral(edges, width, height)

	candidates := make([]TextRegion, 0)

	for _, ws := range windowSizes {
		stepX := ws.w / 2
		stepY := ws.h / 2

		for y := 0; y <= height-ws.h; y += stepY {
			for x := 0; x <= width-ws.w; x += stepX {
				area := ws.w * ws.h
				density := float64(counts.sum(x, y, ws.w, ws.h)) / float64(area)

				// Text typically has medium edge density (not too sparse, not too dense)
				if density < 0.05 || density > 0.4 {
					continue
				}

				horizontalScore := calculateHorizontalScore(edges, x, y, ws.w, ws.h)
				confidence := horizontalScore * (1.0 - math.Abs(density-0.2)/0.2)
				if confidence < opts.MinConfidence {
					continue
				}

				candidates = append(candidates, TextRegion{
					Bounds: Bounds{
						X1: x + bounds.Min.X,
						Y1: y + bounds.Min.Y,
						X2: x + ws.w + bounds.Min.X,
						Y2: y + ws.h + bounds.Min.Y,
					},
					Confidence: math.Round(confidence*1000) / 1000,
					Area:       area,
				})
			}
		}
	}

	merged := mergeOverlappingRegions(candidates)

	if opts.MaxRegions > 0 && len(merged) > opts.MaxRegions {
		sort.SliceStable(merged, func(i, j int) bool {
			return merged[i].Confidence > merged[j].Confidence
		})
		merged = merged[:opts.MaxRegions]
	}

	if opts.Padding > 0 {
		for i := range merged {
			merged[i].Bounds = pad(merged[i].Bounds, opts.Padding, bounds)
			merged[i].Area = area(merged[i].Bounds)
		}
	}

	sortReadingOrder(merged)
	return merged
}

// calculateHorizontalScore calculates how "horizontal" the edge distribution is
func calculateHorizontalScore(edges [][]bool, x, y, w, h int) float64 {
	horizontalRuns := 0
	verticalRuns := 0

	// Count horizontal edge runs
	for row := y; row < y+h; row++ {
		inRun := false
		for col := x; col < x+w; col++ {
			if edges[row][col] {
				if !inRun {
					horizontalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	// Count vertical edge runs
	for col := x; col < x+w; col++ {
		inRun := false
		for row := y; row < y+h; row++ {
			if edges[row][col] {
				if !inRun {
					verticalRuns++
					inRun = true
				}
			} else {
				inRun = false
			}
		}
	}

	if horizontalRuns+verticalRuns == 0 {
		return 0
	}
	return float64(horizontalRuns) / float64(horizontalRuns+verticalRuns)
}

// mergeOverlappingRegions combines overlapping text regions until no two
// results overlap. A merge can make a region overlap one it was previously
// clear of, so passes repeat until nothing changes.
func mergeOverlappingRegions(regions []TextRegion) []TextRegion {
	if len(regions) == 0 {
		return regions
	}

	for {
		merged := make([]TextRegion, 0, len(regions))
		changed := false

		for _, r := range regions {
			foundMerge := false
			for i := range merged {
				if regionsOverlap(r.Bounds, merged[i].Bounds) {
					merged[i].Bounds = mergeBounds(r.Bounds, merged[i].Bounds)
					merged[i].Confidence = math.Max(r.Confidence, merged[i].Confidence)
					merged[i].Area = area(merged[i].Bounds)
					foundMerge = true
					changed = true
					break
				}
			}
			if !foundMerge {
				merged = append(merged, r)
			}
		}

		if !changed {
			return merged
		}
		regions = merged
	}
}

// regionsOverlap checks if two bounds overlap
func regionsOverlap(a, b Bounds) bool {
	return a.X1 < b.X2 && a.X2 > b.X1 && a.Y1 < b.Y2 && a.Y2 > b.Y1
}

// mergeBounds combines two bounds into their union
func mergeBounds(a, b Bounds) Bounds {
	return Bounds{
		X1: min(a.X1, b.X1),
		Y1: min(a.Y1, b.Y1),
		X2: max(a.X2, b.X2),
		Y2: max(a.Y2, b.Y2),
	}
}

func area(b Bounds) int {
	return (b.X2 - b.X1) * (b.Y2 - b.Y1)
}

// pad grows b by p on every side without leaving limit.
func pad(b Bounds, p int, limit image.Rectangle) Bounds {
	return Bounds{
		X1: max(b.X1-p, limit.Min.X),
		Y1: max(b.Y1-p, limit.Min.Y),
		X2: min(b.X2+p, limit.Max.X),
		Y2: min(b.Y2+p, limit.Max.Y),
	}
}

// sortReadingOrder orders regions by top edge, then left edge.
func sortReadingOrder(regions []TextRegion) {
	sort.SliceStable(regions, func(i, j int) bool {
		a, b := regions[i].Bounds, regions[j].Bounds
		if a.Y1 != b.Y1 {
			return a.Y1 < b.Y1
		}
		return a.X1 < b.X1
	})
}
