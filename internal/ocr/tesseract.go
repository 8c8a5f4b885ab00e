package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"strings"
	"sync"

	"github.com/otiai10/gosseract/v2"
)

// DefaultLanguage is the Tesseract language used when none is configured.
const DefaultLanguage = "eng"

// Options configures a TesseractEngine.
type Options struct {
	// Language is a Tesseract language code, or several joined with "+".
	Language string

	// TessdataPrefix overrides the traineddata directory when non-empty.
	TessdataPrefix string

	// PageSegMode is Tesseract's page segmentation mode. Zero means automatic.
	PageSegMode gosseract.PageSegMode

	// PoolSize caps the number of clients, and therefore concurrent
	// recognitions. Values below 1 mean 1.
	PoolSize int

	// Logger receives engine warnings. Nil means slog.Default().
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if strings.TrimSpace(o.Language) == "" {
		o.Language = DefaultLanguage
	}
	if o.PageSegMode == 0 {
		o.PageSegMode = gosseract.PSM_AUTO
	}
	if o.PoolSize < 1 {
		o.PoolSize = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// TesseractEngine is an Engine backed by a pool of gosseract clients.
type TesseractEngine struct {
	opts Options
	idle chan *gosseract.Client

	mu      sync.Mutex
	clients []*gosseract.Client
	closed  bool
}

// NewTesseractEngine returns an engine that creates up to opts.PoolSize
// clients on demand.
func NewTesseractEngine(opts Options) *TesseractEngine {
	opts = opts.withDefaults()
	return &TesseractEngine{
		opts: opts,
		idle: make(chan *gosseract.Client, opts.PoolSize),
	}
}

// NewTesseractFactory returns a Factory producing a fresh TesseractEngine per
// call.
func NewTesseractFactory(opts Options) Factory {
	return func(ctx context.Context) (Engine, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return NewTesseractEngine(opts), nil
	}
}

// Options returns the effective options.
func (e *TesseractEngine) Options() Options { return e.opts }

// acquire borrows a client, creating one if the pool has room.
func (e *TesseractEngine) acquire(ctx context.Context) (*gosseract.Client, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEngineClosed
	}
	select {
	case c := <-e.idle:
		e.mu.Unlock()
		return c, nil
	default:
	}
	if len(e.clients) < e.opts.PoolSize {
		c, err := e.newClient()
		if err != nil {
			e.mu.Unlock()
			return nil, err
		}
		e.clients = append(e.clients, c)
		e.mu.Unlock()
		return c, nil
	}
	e.mu.Unlock()

	select {
	case c := <-e.idle:
		return c, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release returns a borrowed client to the pool.
func (e *TesseractEngine) release(c *gosseract.Client) {
	e.idle <- c
}

func (e *TesseractEngine) newClient() (*gosseract.Client, error) {
	client := gosseract.NewClient()

	if e.opts.TessdataPrefix != "" {
		if err := client.SetTessdataPrefix(e.opts.TessdataPrefix); err != nil {
			client.Close()
			return nil, fmt.Errorf("failed to set tessdata path: %w", err)
		}
	}
	if err := client.SetLanguage(strings.Split(e.opts.Language, "+")...); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetPageSegMode(e.opts.PageSegMode); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set page segmentation mode: %w", err)
	}
	return client, nil
}

// setImage hands img to the client as PNG bytes.
func setImage(client *gosseract.Client, img image.Image) error {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("failed to encode image: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to set image: %w", err)
	}
	return nil
}

// Recognize returns the paragraphs Tesseract finds in img, in reading order.
//
// Paragraphs come from the RIL_PARA iterator level; empty ones are dropped. If
// no paragraph boxes are available the whole page text is returned as a single
// paragraph, or nothing when that is blank.
func (e *TesseractEngine) Recognize(ctx context.Context, img image.Image) ([]Paragraph, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer e.release(client)

	if err := setImage(client, img); err != nil {
		return nil, err
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_PARA)
	return e.paragraphs(boxes, err, client.Text, img.Bounds())
}

// paragraphs turns paragraph boxes into Paragraphs, falling back to the page
// text when the boxes are missing or could not be read.
func (e *TesseractEngine) paragraphs(boxes []gosseract.BoundingBox, boxErr error, pageText func() (string, error), b image.Rectangle) ([]Paragraph, error) {
	if boxErr == nil && len(boxes) > 0 {
		paragraphs := make([]Paragraph, 0, len(boxes))
		for _, box := range boxes {
			if strings.TrimSpace(box.Word) == "" {
				continue
			}
			paragraphs = append(paragraphs, Paragraph{
				Text:       box.Word,
				Confidence: float64(box.Confidence) / 100.0,
				Bounds:     boundsOf(box.Box),
			})
		}
		return paragraphs, nil
	}
	if boxErr != nil {
		e.opts.Logger.Warn("paragraph boxes unavailable, using page text", "error", boxErr)
	}

	text, err := pageText()
	if err != nil {
		if boxErr != nil {
			return nil, fmt.Errorf("OCR failed: %w (paragraph boxes: %w)", err, boxErr)
		}
		return nil, fmt.Errorf("OCR failed: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return []Paragraph{}, nil
	}
	return []Paragraph{{
		Text:   text,
		Bounds: Bounds{X1: 0, Y1: 0, X2: b.Dx(), Y2: b.Dy()},
	}}, nil
}

// DetectBlocks finds text blocks without returning their content.
//
// Uses Tesseract's RIL_BLOCK iterator level. Blocks with confidence below
// minConfidence (0.0 to 1.0) are excluded.
func (e *TesseractEngine) DetectBlocks(ctx context.Context, img image.Image, minConfidence float64) ([]Block, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer e.release(client)

	if err := setImage(client, img); err != nil {
		return nil, err
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("failed to get text regions: %w", err)
	}

	blocks := make([]Block, 0, len(boxes))
	for _, box := range boxes {
		confidence := float64(box.Confidence) / 100.0
		if confidence < minConfidence {
			continue
		}
		blocks = append(blocks, Block{Bounds: boundsOf(box.Box), Confidence: confidence})
	}
	return blocks, nil
}

// Close closes every client the engine created. It is safe to call twice.
func (e *TesseractEngine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	var firstErr error
	for _, c := range e.clients {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close tesseract client: %w", err)
		}
	}
	e.clients = nil
	return firstErr
}

// Info describes the local Tesseract installation.
type Info struct {
	Version  string `json:"version"`
	Language string `json:"language"`
}

// EngineInfo reports the Tesseract version and the configured language.
func EngineInfo(opts Options) Info {
	opts = opts.withDefaults()
	return Info{
		Version:  gosseract.Version(),
		Language: opts.Language,
	}
}
