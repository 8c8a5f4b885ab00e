package wizard

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/ironsheep/recipe-ocr-mcp/internal/canvas"
	"github.com/ironsheep/recipe-ocr-mcp/internal/detection"
	"github.com/ironsheep/recipe-ocr-mcp/internal/extract"
	"github.com/ironsheep/recipe-ocr-mcp/internal/imaging"
	"github.com/ironsheep/recipe-ocr-mcp/internal/ocr"
	"github.com/ironsheep/recipe-ocr-mcp/internal/recipe"
	"github.com/ironsheep/recipe-ocr-mcp/internal/selection"
)

var (
	// ErrBusy is returned while an extraction or a region commit is in flight.
	ErrBusy = errors.New("session is busy")

	// ErrWrongStep is returned by an operation that is not available at the
	// current step.
	ErrWrongStep = errors.New("operation not available at this step")

	// ErrNotExtracted is returned when the recipe is needed before any
	// extraction has succeeded.
	ErrNotExtracted = errors.New("no text has been extracted yet")

	// ErrLastStep is returned by Proceed at the preview step.
	ErrLastStep = errors.New("already at the last step")

	// ErrNoDetector is returned when OCR-based suggestions are requested from
	// an engine that cannot locate text blocks.
	ErrNoDetector = errors.New("OCR engine cannot detect text blocks")
)

// Options configures a Session.
type Options struct {
	// ContainerWidth is the initial display width; see imaging.DisplayScale.
	ContainerWidth int

	// Threshold is the initial binarization threshold.
	Threshold uint8

	// Orchestrator runs extractions. Required for Extract.
	Orchestrator *extract.Orchestrator

	// Factory provides engines for OCR-based region suggestions. Optional.
	Factory ocr.Factory

	// Labels draws region numbers in rendered frames.
	Labels bool

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Session is one wizard run. All methods are safe for concurrent use.
type Session struct {
	mu sync.Mutex

	opts   Options
	logger *slog.Logger

	step       Step
	surface    *imaging.Surface
	info       *imaging.ImageInfo
	threshold  uint8
	model      *selection.Model
	controller *selection.Controller
	loop       *canvas.Loop
	recipe     *recipe.Recipe
	busy       bool
}

// New returns a session at the upload step.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	model := selection.NewModel()
	return &Session{
		opts:       opts,
		logger:     logger,
		threshold:  opts.Threshold,
		model:      model,
		controller: selection.NewController(model),
		loop:       canvas.NewLoop(),
	}
}

// LoadImage decodes the image at path and starts a new selection.
// On failure the session is left exactly as it was.
func (s *Session) LoadImage(path string) (*imaging.ImageInfo, error) {
	img, info, err := imaging.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return s.install(img, info)
}

// LoadImageBytes is LoadImage for an in-memory file.
func (s *Session) LoadImageBytes(data []byte) (*imaging.ImageInfo, error) {
	img, info, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return s.install(img, info)
}

func (s *Session) install(img image.Image, info *imaging.ImageInfo) (*imaging.ImageInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return nil, ErrBusy
	}

	surface, err := imaging.NewSurface(img, s.opts.ContainerWidth)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare image: %w", err)
	}

	s.surface = surface
	s.info = info
	s.model.Clear()
	s.controller.SetSource(surface)
	s.recipe = nil
	s.step = StepSelect
	s.loop.Invalidate()

	s.logger.Info("image loaded",
		"width", info.Width,
		"height", info.Height,
		"format", info.Format,
		"scale", surface.Scale())
	return info, nil
}

// Resize sets the container width and returns the new display scale.
func (s *Session) Resize(containerWidth int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.opts.ContainerWidth = containerWidth
	if s.surface == nil {
		return 1, selection.ErrNoImage
	}
	if s.surface.Resize(containerWidth) {
		s.loop.Invalidate()
	}
	return s.surface.Scale(), nil
}

// SetCategory selects the drawing tool.
func (s *Session) SetCategory(c selection.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.controller.SetCategory(c); err != nil {
		return err
	}
	s.loop.Invalidate()
	return nil
}

// SetThreshold sets the live threshold, clamped to [0, 255].
func (s *Session) SetThreshold(v int) uint8 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.threshold = imaging.ClampThreshold(v)
	s.loop.Invalidate()
	return s.threshold
}

// AutoThreshold picks a threshold for the loaded image with Otsu's method and
// makes it the live threshold.
func (s *Session) AutoThreshold() (uint8, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.surface == nil {
		return s.threshold, selection.ErrNoImage
	}
	s.threshold = imaging.SuggestThreshold(s.surface.Display())
	s.loop.Invalidate()
	return s.threshold, nil
}

// drawable reports whether pointer input is accepted right now.
func (s *Session) drawable() error {
	if s.busy {
		return ErrBusy
	}
	if s.surface == nil {
		return selection.ErrNoImage
	}
	if s.step != StepSelect {
		return fmt.Errorf("%w: drawing needs the select step, at %s", ErrWrongStep, s.step)
	}
	return nil
}

// PointerDown starts drawing a region at a screen position.
func (s *Session) PointerDown(p selection.ScreenPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.drawable(); err != nil {
		return err
	}
	if err := s.controller.Begin(p); err != nil {
		return err
	}
	s.loop.Invalidate()
	return nil
}

// PointerMove updates the region being drawn.
func (s *Session) PointerMove(p selection.ScreenPoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if _, drawing := s.controller.Pending(); !drawing {
		return nil
	}
	s.controller.Move(p)
	s.loop.Invalidate()
	return nil
}

// PointerUp commits the region being drawn. It returns nil with no error when
// nothing was drawing or the region had no area.
func (s *Session) PointerUp() (*selection.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endLocked()
}

// PointerLeave is PointerUp for a pointer that left the canvas.
func (s *Session) PointerLeave() (*selection.Region, error) {
	return s.PointerUp()
}

func (s *Session) endLocked() (*selection.Region, error) {
	if s.busy {
		return nil, ErrBusy
	}
	if _, drawing := s.controller.Pending(); !drawing {
		return nil, nil
	}

	s.busy = true
	defer func() { s.busy = false }()

	r, err := s.controller.End()
	s.loop.Invalidate()
	if err != nil {
		return nil, err
	}
	if r != nil {
		s.logger.Debug("region committed", "id", r.ID, "category", r.Category, "count", s.model.Len())
	}
	return r, nil
}

// DrawRegion performs a whole down, move, up gesture from one screen corner to
// the other.
func (s *Session) DrawRegion(from, to selection.ScreenPoint) (*selection.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.drawable(); err != nil {
		return nil, err
	}
	if err := s.controller.Begin(from); err != nil {
		return nil, err
	}
	s.controller.Move(to)
	return s.endLocked()
}

// Regions returns the committed regions in commit order.
func (s *Session) Regions() []selection.Region {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model.Regions()
}

// Region returns one committed region and its 1-based number.
func (s *Session) Region(id uuid.UUID) (selection.Region, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, n, ok := s.model.Get(id)
	if !ok {
		return selection.Region{}, 0, fmt.Errorf("region %s: %w", id, selection.ErrRegionNotFound)
	}
	return r, n, nil
}

// RemoveRegion deletes one committed region.
func (s *Session) RemoveRegion(id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	if err := s.model.Remove(id); err != nil {
		return err
	}
	s.loop.Invalidate()
	return nil
}

// ClearRegions drops every region and any gesture in progress.
func (s *Session) ClearRegions() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return ErrBusy
	}
	s.model.Clear()
	s.controller.Cancel()
	s.loop.Invalidate()
	return nil
}

// Frame returns the current preview, re-rendering only if something changed.
func (s *Session) Frame() (*image.NRGBA, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.surface == nil {
		return nil, selection.ErrNoImage
	}

	scene := canvas.Scene{
		Base:      s.surface.Display(),
		Scale:     s.surface.Scale(),
		Threshold: s.threshold,
		Regions:   s.model.Regions(),
		Active:    s.controller.Category(),
		Labels:    s.opts.Labels,
	}
	if p, ok := s.controller.Pending(); ok {
		scene.Pending = &p
	}
	return s.loop.Frame(scene), nil
}

// Suggestion is a proposed region in image space.
type Suggestion struct {
	Origin     selection.ImagePoint `json:"origin"`
	Extent     selection.Extent     `json:"extent"`
	Confidence float64              `json:"confidence"`
}

// SuggestOptions configures SuggestRegions.
type SuggestOptions struct {
	// UseOCR asks the OCR engine for text blocks instead of the edge heuristic.
	UseOCR bool

	// MinConfidence drops weaker suggestions (0.0 to 1.0).
	MinConfidence float64

	// MaxRegions caps the number of suggestions; 0 means no cap.
	MaxRegions int

	// Commit adds every suggestion to the region model with Category.
	Commit   bool
	Category selection.Category
}

// SuggestRegions proposes text regions on the loaded image. With Commit set,
// the suggestions are committed in reading order and returned as regions.
func (s *Session) SuggestRegions(ctx context.Context, opts SuggestOptions) ([]Suggestion, []selection.Region, error) {
	s.mu.Lock()
	if err := s.drawable(); err != nil {
		s.mu.Unlock()
		return nil, nil, err
	}
	surface := s.surface
	display, scale := surface.Display(), surface.Scale()
	s.mu.Unlock()

	var suggestions []Suggestion
	var err error
	if opts.UseOCR {
		suggestions, err = s.suggestWithOCR(ctx, surface.Original(), opts)
	} else {
		suggestions = suggestWithEdges(display, scale, opts)
	}
	if err != nil {
		return nil, nil, err
	}

	if !opts.Commit {
		return suggestions, nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.drawable(); err != nil {
		return nil, nil, err
	}
	if s.surface != surface {
		return nil, nil, fmt.Errorf("image changed while suggesting: %w", ErrBusy)
	}

	cat := opts.Category
	if cat == "" {
		cat = s.controller.Category()
	}

	committed := make([]selection.Region, 0, len(suggestions))
	for _, sg := range suggestions {
		r, err := s.controller.CommitRect(sg.Origin, sg.Extent, cat)
		if err != nil {
			return nil, nil, err
		}
		if r != nil {
			committed = append(committed, *r)
		}
	}
	s.loop.Invalidate()
	return suggestions, committed, nil
}

// suggestWithEdges runs the edge heuristic on the display bitmap and converts
// its pixel boxes to image space.
func suggestWithEdges(display image.Image, scale float64, opts SuggestOptions) []Suggestion {
	dopts := detection.DefaultOptions()
	dopts.MinConfidence = opts.MinConfidence
	if opts.MaxRegions > 0 {
		dopts.MaxRegions = opts.MaxRegions
	}

	found := detection.DetectTextRegions(display, dopts)

	out := make([]Suggestion, 0, len(found))
	for _, r := range found {
		tl := selection.ToImageSpace(selection.ScreenPoint{X: float64(r.Bounds.X1), Y: float64(r.Bounds.Y1)}, scale)
		br := selection.ToImageSpace(selection.ScreenPoint{X: float64(r.Bounds.X2), Y: float64(r.Bounds.Y2)}, scale)
		out = append(out, Suggestion{Origin: tl, Extent: br.Sub(tl), Confidence: r.Confidence})
	}
	return out
}

// suggestWithOCR asks a fresh engine for text blocks on the original image.
func (s *Session) suggestWithOCR(ctx context.Context, img image.Image, opts SuggestOptions) ([]Suggestion, error) {
	if s.opts.Factory == nil {
		return nil, ErrNoDetector
	}
	engine, err := s.opts.Factory(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create OCR engine: %w", err)
	}
	defer func() {
		if cerr := engine.Close(); cerr != nil {
			s.logger.Warn("failed to close OCR engine", "error", cerr)
		}
	}()

	detector, ok := engine.(ocr.BlockDetector)
	if !ok {
		return nil, ErrNoDetector
	}
	blocks, err := detector.DetectBlocks(ctx, img, opts.MinConfidence)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	out := make([]Suggestion, 0, len(blocks))
	for _, bl := range blocks {
		if opts.MaxRegions > 0 && len(out) == opts.MaxRegions {
			break
		}
		r := bl.Bounds.Rect().Intersect(b)
		if r.Empty() {
			continue
		}
		out = append(out, Suggestion{
			Origin:     selection.ImagePoint{X: float64(r.Min.X - b.Min.X), Y: float64(r.Min.Y - b.Min.Y)},
			Extent:     selection.Extent{Width: float64(r.Dx()), Height: float64(r.Dy())},
			Confidence: bl.Confidence,
		})
	}
	return out, nil
}

// Extract recognizes every committed region and moves to the edit step.
//
// While it runs the session is busy: pointer input, region changes, image
// loads and a second Extract all fail with ErrBusy. If recognition fails the
// region model is left exactly as it was and the session stays at select.
func (s *Session) Extract(ctx context.Context) (*extract.Result, error) {
	s.mu.Lock()
	if s.busy {
		s.mu.Unlock()
		return nil, ErrBusy
	}
	if s.surface == nil {
		s.mu.Unlock()
		return nil, selection.ErrNoImage
	}
	if s.step != StepSelect {
		step := s.step
		s.mu.Unlock()
		return nil, fmt.Errorf("%w: extraction needs the select step, at %s", ErrWrongStep, step)
	}
	if s.opts.Orchestrator == nil {
		s.mu.Unlock()
		return nil, errors.New("no orchestrator configured")
	}
	s.controller.Cancel()
	regions := s.model.Regions()
	s.busy = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.busy = false
		s.mu.Unlock()
	}()

	res, err := s.opts.Orchestrator.Extract(ctx, regions)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range res.Regions {
		if err := s.model.SetRecognizedLines(r.ID, r.RecognizedLines); err != nil {
			return nil, err
		}
	}

	next := recipe.New(res.Ingredients, res.Instructions)
	if s.recipe != nil {
		next.Title = s.recipe.Title
		next.SetDetails(s.recipe.PrepTime, s.recipe.CookTime, s.recipe.Servings)
	}
	s.recipe = next
	s.step = StepEdit
	s.loop.Invalidate()
	return res, nil
}

// Busy reports whether an extraction or commit is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// LineOp is an edit applied to one recipe list.
type LineOp string

const (
	OpAdd    LineOp = "add"
	OpEdit   LineOp = "edit"
	OpRemove LineOp = "remove"
)

// EditLine changes the extracted recipe text.
func (s *Session) EditLine(section recipe.Section, op LineOp, index int, text string) (*recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return nil, ErrNotExtracted
	}

	var err error
	switch op {
	case OpAdd:
		err = s.recipe.Add(section, text)
	case OpEdit:
		err = s.recipe.Edit(section, index, text)
	case OpRemove:
		err = s.recipe.Remove(section, index)
	default:
		err = fmt.Errorf("unknown line operation %q", op)
	}
	if err != nil {
		return nil, err
	}
	return s.recipe.Clone(), nil
}

// SetTitle sets the recipe title.
func (s *Session) SetTitle(title string) (*recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return nil, ErrNotExtracted
	}
	s.recipe.Title = title
	return s.recipe.Clone(), nil
}

// SetDetails sets prep time, cook time and servings.
func (s *Session) SetDetails(prep, cook, servings string) (*recipe.Recipe, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return nil, ErrNotExtracted
	}
	s.recipe.SetDetails(prep, cook, servings)
	return s.recipe.Clone(), nil
}

// Recipe returns a copy of the current recipe, or nil before extraction.
func (s *Session) Recipe() *recipe.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return nil
	}
	return s.recipe.Clone()
}

// Proceed moves to the next step if the current one is complete.
func (s *Session) Proceed() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return s.step, ErrBusy
	}

	switch s.step {
	case StepUpload:
		if s.surface == nil {
			return s.step, selection.ErrNoImage
		}
	case StepSelect:
		if s.recipe == nil {
			return s.step, ErrNotExtracted
		}
	case StepEdit:
		if err := s.recipe.CanProceed(); err != nil {
			return s.step, err
		}
	case StepDetails:
	case StepPreview:
		return s.step, ErrLastStep
	}

	s.step++
	return s.step, nil
}

// Back moves one step back. The region model and recipe are kept.
func (s *Session) Back() (Step, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.busy {
		return s.step, ErrBusy
	}
	s.controller.Cancel()
	s.step = s.step.previous()
	s.loop.Invalidate()
	return s.step, nil
}

// Markdown renders the recipe document.
func (s *Session) Markdown() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return "", ErrNotExtracted
	}
	return s.recipe.Markdown(), nil
}

// Export renders the recipe document and, when path is not empty, writes it
// there too.
func (s *Session) Export(path string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.recipe == nil {
		return "", ErrNotExtracted
	}
	if path != "" {
		if err := s.recipe.WriteFile(path); err != nil {
			return "", err
		}
		s.logger.Info("recipe exported", "path", path)
	}
	return s.recipe.Markdown(), nil
}

// Status is a snapshot of the session for display.
type Status struct {
	Step           Step               `json:"step"`
	Image          *imaging.ImageInfo `json:"image,omitempty"`
	Scale          float64            `json:"scale"`
	ContainerWidth int                `json:"container_width"`
	DisplayWidth   int                `json:"display_width,omitempty"`
	DisplayHeight  int                `json:"display_height,omitempty"`
	Threshold      uint8              `json:"threshold"`
	Category       selection.Category `json:"category"`
	Drawing        bool               `json:"drawing"`
	Pending        *selection.Pending `json:"pending,omitempty"`
	Regions        int                `json:"regions"`
	Busy           bool               `json:"busy"`
	Recipe         *recipe.Recipe     `json:"recipe,omitempty"`
	Rules          extract.Rules      `json:"rules"`
}

// Status returns a snapshot of the session.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	st := Status{
		Step:           s.step,
		Scale:          1,
		ContainerWidth: s.opts.ContainerWidth,
		Threshold:      s.threshold,
		Category:       s.controller.Category(),
		Regions:        s.model.Len(),
		Busy:           s.busy,
	}
	if s.opts.Orchestrator != nil {
		st.Rules = s.opts.Orchestrator.Rules()
	}
	if s.surface != nil {
		info := *s.info
		st.Image = &info
		st.Scale = s.surface.Scale()
		st.ContainerWidth = s.surface.ContainerWidth()
		st.DisplayWidth, st.DisplayHeight = s.surface.DisplaySize()
	}
	if p, ok := s.controller.Pending(); ok {
		st.Drawing = true
		st.Pending = &p
	}
	if s.recipe != nil {
		st.Recipe = s.recipe.Clone()
	}
	return st
}
