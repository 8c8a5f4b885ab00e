package selection

import (
	"image"
	"image/color"
	"testing"

	"github.com/ironsheep/recipe-ocr-mcp/internal/imaging"
)

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// newSurface builds a surface over a pattern image displayed at containerWidth
func newSurface(t *testing.T, width, height, containerWidth int) *imaging.Surface {
	t.Helper()
	s, err := imaging.NewSurface(createPatternImage(width, height), containerWidth)
	if err != nil {
		t.Fatalf("NewSurface failed: %v", err)
	}
	return s
}

// drag performs a full down/move/up gesture in screen space
func drag(t *testing.T, c *Controller, x0, y0, x1, y1 float64) *Region {
	t.Helper()
	if err := c.Begin(ScreenPoint{X: x0, Y: y0}); err != nil {
		t.Fatalf("Begin failed: %v", err)
	}
	c.Move(ScreenPoint{X: x1, Y: y1})
	r, err := c.End()
	if err != nil {
		t.Fatalf("End failed: %v", err)
	}
	return r
}

func approxEqual(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
