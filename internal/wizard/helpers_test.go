package wizard

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"testing"

	"github.com/ironsheep/recipe-ocr-mcp/internal/extract"
	"github.com/ironsheep/recipe-ocr-mcp/internal/ocr"
	"github.com/ironsheep/recipe-ocr-mcp/internal/selection"
)

// createPatternImage creates an image with a gray gradient so crops differ
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := uint8((x + y) % 256)
			img.Set(x, y, color.RGBA{v, v, v, 255})
		}
	}
	return img
}

// encodePNG encodes img to PNG bytes
func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode failed: %v", err)
	}
	return buf.Bytes()
}

// widthEngine answers every crop with one paragraph naming its width
var widthEngine = ocr.EngineFunc(func(ctx context.Context, img image.Image) ([]ocr.Paragraph, error) {
	return []ocr.Paragraph{{Text: fmt.Sprintf("w%d", img.Bounds().Dx()), Confidence: 0.9}}, nil
})

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newSession returns a session using engine with a width x height image loaded
// into a container of containerWidth
func newSession(t *testing.T, engine ocr.Engine, width, height, containerWidth int) *Session {
	t.Helper()
	logger := quietLogger()
	s := New(Options{
		ContainerWidth: containerWidth,
		Threshold:      128,
		Orchestrator:   extract.New(ocr.StaticFactory(engine), extract.WithLogger(logger)),
		Factory:        ocr.StaticFactory(engine),
		Logger:         logger,
	})
	if _, err := s.LoadImageBytes(encodePNG(t, createPatternImage(width, height))); err != nil {
		t.Fatalf("LoadImageBytes failed: %v", err)
	}
	return s
}

// draw commits one region from screen (x0,y0) to (x1,y1)
func draw(t *testing.T, s *Session, cat selection.Category, x0, y0, x1, y1 float64) selection.Region {
	t.Helper()
	if err := s.SetCategory(cat); err != nil {
		t.Fatalf("SetCategory failed: %v", err)
	}
	r, err := s.DrawRegion(selection.ScreenPoint{X: x0, Y: y0}, selection.ScreenPoint{X: x1, Y: y1})
	if err != nil {
		t.Fatalf("DrawRegion failed: %v", err)
	}
	if r == nil {
		t.Fatal("DrawRegion discarded the region")
	}
	return *r
}
