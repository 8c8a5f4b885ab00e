package ocr

import (
	"context"
	"errors"
	"image"
)

// ErrEngineClosed is returned by Recognize after Close.
var ErrEngineClosed = errors.New("ocr engine closed")

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Rect converts b to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

func boundsOf(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Paragraph is one run of recognized text.
type Paragraph struct {
	// Text is the recognized content, possibly spanning several lines.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	// Bounds locates the paragraph in the recognized bitmap.
	Bounds Bounds `json:"bounds"`
}

// Engine recognizes text in a bitmap.
//
// Implementations must allow concurrent Recognize calls.
type Engine interface {
	Recognize(ctx context.Context, img image.Image) ([]Paragraph, error)
	Close() error
}

// Factory acquires a fresh engine. Construction may be expensive.
type Factory func(ctx context.Context) (Engine, error)

// Block is a detected text block, without its text.
type Block struct {
	Bounds     Bounds  `json:"bounds"`
	Confidence float64 `json:"confidence"`
}

// BlockDetector is implemented by engines that can locate text blocks without
// full recognition.
type BlockDetector interface {
	DetectBlocks(ctx context.Context, img image.Image, minConfidence float64) ([]Block, error)
}

// EngineFunc adapts an ordinary function to the Engine interface. Close is a
// no-op.
type EngineFunc func(ctx context.Context, img image.Image) ([]Paragraph, error)

// Recognize calls f(ctx, img).
func (f EngineFunc) Recognize(ctx context.Context, img image.Image) ([]Paragraph, error) {
	return f(ctx, img)
}

// Close does nothing.
func (f EngineFunc) Close() error { return nil }

// StaticFactory returns a Factory that always hands out e.
func StaticFactory(e Engine) Factory {
	return func(context.Context) (Engine, error) { return e, nil }
}
