package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultGridColor is semi-transparent red.
const DefaultGridColor = "#FF000080"

// GridOptions configures WithGrid.
type GridOptions struct {
	// Spacing is the distance between grid lines in display pixels.
	Spacing int

	// Coordinates labels every intersection with its "x,y" position.
	Coordinates bool

	// Color is "#RRGGBB" or "#RRGGBBAA". Invalid or empty values use
	// DefaultGridColor.
	Color string
}

// WithGrid returns a copy of frame with a coordinate grid drawn over it, so
// that positions for pointer events can be read off the preview. frame is
// not modified.
func WithGrid(frame image.Image, opts GridOptions) *image.NRGBA {
	fb := frame.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, fb.Dx(), fb.Dy()))
	draw.Draw(dst, dst.Rect, frame, fb.Min, draw.Src)
	if opts.Spacing <= 0 {
		return dst
	}

	lineColor, err := parseGridColor(opts.Color)
	if err != nil {
		lineColor, _ = parseGridColor(DefaultGridColor)
	}
	line := image.NewUniform(lineColor)
	b := dst.Bounds()

	// Vertical lines
	for x := opts.Spacing; x < b.Dx(); x += opts.Spacing {
		draw.Draw(dst, image.Rect(x, 0, x+1, b.Dy()), line, image.Point{}, draw.Over)
	}

	// Horizontal lines
	for y := opts.Spacing; y < b.Dy(); y += opts.Spacing {
		draw.Draw(dst, image.Rect(0, y, b.Dx(), y+1), line, image.Point{}, draw.Over)
	}

	if opts.Coordinates {
		for y := opts.Spacing; y < b.Dy(); y += opts.Spacing {
			for x := opts.Spacing; x < b.Dx(); x += opts.Spacing {
				drawCoordinate(dst, x+2, y+2, fmt.Sprintf("%d,%d", x, y))
			}
		}
	}

	return dst
}

// parseGridColor parses "#RRGGBB" or "#RRGGBBAA".
func parseGridColor(hex string) (color.NRGBA, error) {
	alpha := uint8(255)
	if len(hex) == 9 {
		var a uint8
		if _, err := fmt.Sscanf(hex[7:], "%02x", &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid alpha in color %q: %w", hex, err)
		}
		alpha = a
		hex = hex[:7]
	}

	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	r, g, bl := c.RGB255()
	return color.NRGBA{R: r, G: g, B: bl, A: alpha}, nil
}

// drawCoordinate writes text white on a dark box with its top-left at (x, y).
func drawCoordinate(dst *image.NRGBA, x, y int, text string) {
	face := basicfont.Face7x13
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(color.White), Face: face}

	w := d.MeasureString(text).Ceil()
	box := image.Rect(x-1, y-1, x+w+1, y+face.Height)
	draw.Draw(dst, box.Intersect(dst.Bounds()), image.NewUniform(color.NRGBA{0, 0, 0, 180}), image.Point{}, draw.Over)

	d.Dot = fixed.P(x, y+face.Ascent)
	d.DrawString(text)
}
