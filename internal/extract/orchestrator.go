package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/ironsheep/recipe-ocr-mcp/internal/ocr"
	"github.com/ironsheep/recipe-ocr-mcp/internal/selection"
)

var (
	// ErrNoRegions is returned when Extract is called with nothing to recognize.
	ErrNoRegions = errors.New("no regions to extract")

	// ErrRecognition wraps any failure while recognizing a region.
	ErrRecognition = errors.New("recognition failed")
)

// Result is the outcome of a successful extraction.
type Result struct {
	// Ingredients are the ingredient lines of all ingredient regions, in commit
	// order.
	Ingredients []string `json:"ingredients"`

	// Instructions are the instruction lines of all instruction regions, in
	// commit order.
	Instructions []string `json:"instructions"`

	// Regions are copies of the input regions with RecognizedLines replaced.
	Regions []selection.Region `json:"regions"`
}

// Orchestrator runs one extraction per call.
type Orchestrator struct {
	factory     ocr.Factory
	rules       Rules
	concurrency int
	logger      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithRules sets the post-processing rules.
func WithRules(r Rules) Option {
	return func(o *Orchestrator) { o.rules = r }
}

// WithConcurrency caps the number of regions recognized at once. Zero or less
// means no cap.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) { o.concurrency = n }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New returns an orchestrator that acquires engines from factory.
func New(factory ocr.Factory, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		factory: factory,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Rules returns the configured post-processing rules.
func (o *Orchestrator) Rules() Rules { return o.rules }

// Extract recognizes every region and aggregates the lines by category.
//
// regions are not modified; the enriched copies are in the result. Calling
// Extract again with the same regions is safe.
func (o *Orchestrator) Extract(ctx context.Context, regions []selection.Region) (*Result, error) {
	if len(regions) == 0 {
		return nil, ErrNoRegions
	}

	engine, err := o.factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			o.logger.Warn("failed to close OCR engine", "error", cerr)
		}
	}()

	o.logger.Debug("extraction started", "regions", len(regions), "concurrency", o.concurrency)

	lines := make([][]string, len(regions))

	g, gctx := errgroup.WithContext(ctx)
	if o.concurrency > 0 {
		g.SetLimit(o.concurrency)
	}
	for i := range regions {
		r := regions[i]
		g.Go(func() error {
			out, err := o.recognize(gctx, engine, r)
			if err != nil {
				return fmt.Errorf("%w: region %s: %w", ErrRecognition, r.ID, err)
			}
			lines[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		o.logger.Warn("extraction failed", "error", err)
		return nil, err
	}

	res := &Result{
		Ingredients:  []string{},
		Instructions: []string{},
		Regions:      make([]selection.Region, len(regions)),
	}
	for i, r := range regions {
		enriched := r.Clone()
		enriched.RecognizedLines = lines[i]
		res.Regions[i] = enriched

		switch r.Category {
		case selection.Ingredient:
			res.Ingredients = append(res.Ingredients, lines[i]...)
		case selection.Instruction:
			res.Instructions = append(res.Instructions, lines[i]...)
		}
	}

	o.logger.Info("extraction finished",
		"regions", len(regions),
		"ingredients", len(res.Ingredients),
		"instructions", len(res.Instructions))
	return res, nil
}

// recognize runs OCR on one region's snapshot.
func (o *Orchestrator) recognize(ctx context.Context, engine ocr.Engine, r selection.Region) ([]string, error) {
	if r.Crop == nil {
		return nil, errors.New("region has no snapshot")
	}
	img, err := r.Crop.Image()
	if err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}

	paragraphs, err := engine.Recognize(ctx, img)
	if err != nil {
		return nil, err
	}
	return Lines(paragraphs, r.Category, o.rules), nil
}
