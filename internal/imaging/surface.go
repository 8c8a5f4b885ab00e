package imaging

import (
	"errors"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// Surface owns a loaded source image and its display-scaled copy.
//
// The original is immutable. The display copy is derived from it whenever the
// container width changes, using a scale of min(1, containerWidth/imageWidth):
// large photos are shrunk to fit, small ones are never enlarged.
type Surface struct {
	original       image.Image
	display        *image.NRGBA
	scale          float64
	containerWidth int
}

// NewSurface wraps img for display in a container of the given width.
// A containerWidth of 0 or less means the container is unbounded (scale 1).
func NewSurface(img image.Image, containerWidth int) (*Surface, error) {
	if img == nil {
		return nil, errors.New("nil image")
	}
	if img.Bounds().Empty() {
		return nil, errors.New("image has no pixels")
	}

	s := &Surface{original: img}
	s.containerWidth = containerWidth
	s.scale = DisplayScale(img.Bounds().Dx(), containerWidth)
	s.rebuild()
	return s, nil
}

// DisplayScale computes min(1, containerWidth/imageWidth).
func DisplayScale(imageWidth, containerWidth int) float64 {
	if containerWidth <= 0 || imageWidth <= 0 {
		return 1
	}
	return math.Min(1, float64(containerWidth)/float64(imageWidth))
}

// Resize recomputes the display scale for a new container width. It reports
// whether the scale (and therefore the display copy) changed.
func (s *Surface) Resize(containerWidth int) bool {
	s.containerWidth = containerWidth
	scale := DisplayScale(s.original.Bounds().Dx(), containerWidth)
	if scale == s.scale {
		return false
	}
	s.scale = scale
	s.rebuild()
	return true
}

// rebuild regenerates the display copy from the original.
func (s *Surface) rebuild() {
	w, h := s.DisplaySize()
	if s.scale == 1 {
		s.display = imaging.Clone(s.original)
		return
	}
	s.display = imaging.Resize(s.original, w, h, imaging.Linear)
}

// Original returns the unmodified source image.
func (s *Surface) Original() image.Image { return s.original }

// Display returns the display-scaled copy. Callers must not modify it; clone
// it first (Binarize does).
func (s *Surface) Display() *image.NRGBA { return s.display }

// Scale returns the current display scale factor.
func (s *Surface) Scale() float64 { return s.scale }

// ContainerWidth returns the width last passed to NewSurface or Resize.
func (s *Surface) ContainerWidth() int { return s.containerWidth }

// ImageSize returns the original image width and height.
func (s *Surface) ImageSize() (int, int) {
	b := s.original.Bounds()
	return b.Dx(), b.Dy()
}

// DisplaySize returns the display copy's width and height (at least 1x1).
func (s *Surface) DisplaySize() (int, int) {
	w, h := s.ImageSize()
	dw := int(math.Round(float64(w) * s.scale))
	dh := int(math.Round(float64(h) * s.scale))
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}
	return dw, dh
}
