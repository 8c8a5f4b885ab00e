package selection

import "math"

// ScreenPoint is a position in display (scaled) pixels.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ImagePoint is a position in source image pixels.
type ImagePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Extent is a width and height in image space. It may be negative while a
// region is being drawn.
type Extent struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// ToImageSpace converts a screen position to image space by dividing by the
// display scale. A non-positive scale is treated as 1.
func ToImageSpace(p ScreenPoint, scale float64) ImagePoint {
	if scale <= 0 {
		scale = 1
	}
	return ImagePoint{X: p.X / scale, Y: p.Y / scale}
}

// ToScreenSpace is the inverse of ToImageSpace. Only rendering needs it.
func ToScreenSpace(p ImagePoint, scale float64) ScreenPoint {
	if scale <= 0 {
		scale = 1
	}
	return ScreenPoint{X: p.X * scale, Y: p.Y * scale}
}

// Sub returns the extent from q to p.
func (p ImagePoint) Sub(q ImagePoint) Extent {
	return Extent{Width: p.X - q.X, Height: p.Y - q.Y}
}

// Add offsets p by e.
func (p ImagePoint) Add(e Extent) ImagePoint {
	return ImagePoint{X: p.X + e.Width, Y: p.Y + e.Height}
}

// Scaled converts an image-space extent to screen pixels.
func (e Extent) Scaled(scale float64) (float64, float64) {
	if scale <= 0 {
		scale = 1
	}
	return e.Width * scale, e.Height * scale
}

// IsZero reports whether either side has no length.
func (e Extent) IsZero() bool {
	return e.Width == 0 || e.Height == 0
}

// normalize shifts origin so that the extent is non-negative.
func normalize(origin ImagePoint, ext Extent) (ImagePoint, Extent) {
	if ext.Width < 0 {
		origin.X += ext.Width
		ext.Width = -ext.Width
	}
	if ext.Height < 0 {
		origin.Y += ext.Height
		ext.Height = -ext.Height
	}
	return origin, ext
}

// clampRect limits a normalized rectangle to [0,w] x [0,h].
func clampRect(origin ImagePoint, ext Extent, w, h float64) (ImagePoint, Extent) {
	x0 := math.Max(0, origin.X)
	y0 := math.Max(0, origin.Y)
	x1 := math.Min(w, origin.X+ext.Width)
	y1 := math.Min(h, origin.Y+ext.Height)
	if x1 < x0 {
		x1 = x0
	}
	if y1 < y0 {
		y1 = y0
	}
	return ImagePoint{X: x0, Y: y0}, Extent{Width: x1 - x0, Height: y1 - y0}
}
