package canvas

import (
	"image"
	"image/draw"
	"math"
	"strconv"

	"github.com/anthonynsimon/bild/parallel"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/recipe-ocr-mcp/internal/imaging"
	"github.com/ironsheep/recipe-ocr-mcp/internal/selection"
)

// Scene is everything a frame depends on.
type Scene struct {
	// Base is the display-scaled, unfiltered bitmap.
	Base image.Image

	// Scale converts image space to Base's pixels.
	Scale float64

	// Threshold is the live binarization threshold.
	Threshold uint8

	// Regions are the committed regions in commit order.
	Regions []selection.Region

	// Pending is the region being drawn, or nil.
	Pending *selection.Pending

	// Active is the selected drawing tool.
	Active selection.Category

	// Labels turns on the 1-based region number in each committed region.
	Labels bool
}

// Render draws scene into a new bitmap the size of scene.Base.
func Render(scene Scene) *image.NRGBA {
	if scene.Base == nil {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	// (1) base and (2) filter, always starting from the unfiltered bitmap
	dst := imaging.Binarize(scene.Base, scene.Threshold)

	// (3) committed regions
	for i, r := range scene.Regions {
		rect := screenRect(r.Origin, r.Extent, scene.Scale).Add(dst.Rect.Min)
		col := CategoryColor(r.Category)
		fillTint(dst, rect, col, FillAlpha)
		strokeRect(dst, rect, col)
		if scene.Labels {
			drawLabel(dst, rect, strconv.Itoa(i+1), col)
		}
	}

	// (4) in-progress region, outline only
	if p := scene.Pending; p != nil && !p.Extent.IsZero() {
		origin, ext := p.Normalized()
		rect := screenRect(origin, ext, scene.Scale).Add(dst.Rect.Min)
		strokeRect(dst, rect, CategoryColor(scene.Active))
	}

	return dst
}

// screenRect converts an image-space rectangle to display pixels.
func screenRect(origin selection.ImagePoint, ext selection.Extent, scale float64) image.Rectangle {
	tl := selection.ToScreenSpace(origin, scale)
	w, h := ext.Scaled(scale)
	return image.Rect(
		int(math.Round(tl.X)),
		int(math.Round(tl.Y)),
		int(math.Round(tl.X+w)),
		int(math.Round(tl.Y+h)),
	)
}

// fillTint blends col over every pixel of rect at the given opacity.
func fillTint(dst *image.NRGBA, rect image.Rectangle, col colorful.Color, alpha float64) {
	rect = rect.Intersect(dst.Rect)
	if rect.Empty() {
		return
	}

	parallel.Line(rect.Dy(), func(start, end int) {
		for y := rect.Min.Y + start; y < rect.Min.Y+end; y++ {
			for x := rect.Min.X; x < rect.Max.X; x++ {
				i := dst.PixOffset(x, y)
				px := colorful.Color{
					R: float64(dst.Pix[i]) / 255,
					G: float64(dst.Pix[i+1]) / 255,
					B: float64(dst.Pix[i+2]) / 255,
				}
				r, g, b := px.BlendRgb(col, alpha).Clamped().RGB255()
				dst.Pix[i], dst.Pix[i+1], dst.Pix[i+2] = r, g, b
			}
		}
	})
}

// strokeRect draws a LineWidth border just inside rect.
func strokeRect(dst *image.NRGBA, rect image.Rectangle, col colorful.Color) {
	if rect.Empty() {
		return
	}
	src := image.NewUniform(toNRGBA(col))
	lw := LineWidth

	edges := []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+lw), // top
		image.Rect(rect.Min.X, rect.Max.Y-lw, rect.Max.X, rect.Max.Y), // bottom
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+lw, rect.Max.Y), // left
		image.Rect(rect.Max.X-lw, rect.Min.Y, rect.Max.X, rect.Max.Y), // right
	}
	for _, e := range edges {
		draw.Draw(dst, e.Intersect(rect).Intersect(dst.Rect), src, image.Point{}, draw.Src)
	}
}

// drawLabel writes text in the top-left corner of rect.
func drawLabel(dst *image.NRGBA, rect image.Rectangle, text string, col colorful.Color) {
	// basicfont.Face7x13 glyphs are 7x13; skip regions too small to hold one
	if rect.Dx() < 7+2*LineWidth || rect.Dy() < 13+2*LineWidth {
		return
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(toNRGBA(col)),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(rect.Min.X+LineWidth+2, rect.Min.Y+LineWidth+11),
	}
	d.DrawString(text)
}
