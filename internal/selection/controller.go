package selection

import (
	"errors"
	"fmt"
	"image"

	"github.com/google/uuid"

	"github.com/ironsheep/recipe-ocr-mcp/internal/imaging"
)

var (
	// ErrNoImage is returned when a gesture starts before any image is loaded.
	ErrNoImage = errors.New("no image loaded")

	// ErrAlreadyDrawing is returned by Begin while another region is in progress.
	ErrAlreadyDrawing = errors.New("a region is already being drawn")
)

// Source is the raster a controller draws over. *imaging.Surface satisfies it.
type Source interface {
	Original() image.Image
	Scale() float64
}

// State is the controller's gesture state.
type State int

const (
	Idle State = iota
	Drawing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Drawing:
		return "drawing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Pending is the region currently being drawn. Its extent may be negative.
type Pending struct {
	Origin   ImagePoint `json:"origin"`
	Extent   Extent     `json:"extent"`
	Category Category   `json:"category"`
}

// Normalized returns the pending rectangle with a non-negative extent.
func (p Pending) Normalized() (ImagePoint, Extent) {
	return normalize(p.Origin, p.Extent)
}

// Controller turns pointer events into committed regions.
//
// The display scale is read from the source on every event, so a resize in the
// middle of a drag still produces a rectangle that is correct in image space.
type Controller struct {
	model   *Model
	source  Source
	active  Category
	state   State
	pending Pending
	newID   func() uuid.UUID
}

// NewController returns an idle controller committing into model, with the
// ingredient tool selected.
func NewController(model *Model) *Controller {
	return &Controller{
		model:  model,
		active: Ingredient,
		newID:  uuid.New,
	}
}

// SetSource installs the image regions are drawn over. Any gesture in progress
// is dropped. A nil source disables drawing.
func (c *Controller) SetSource(src Source) {
	c.source = src
	c.Cancel()
}

// SetCategory selects the tool for the next region. A region already being
// drawn keeps the category it started with.
func (c *Controller) SetCategory(cat Category) error {
	if !cat.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidCategory, string(cat))
	}
	c.active = cat
	return nil
}

// Category returns the active tool.
func (c *Controller) Category() Category { return c.active }

// State returns the gesture state.
func (c *Controller) State() State { return c.state }

// Begin starts a region at screen position p.
func (c *Controller) Begin(p ScreenPoint) error {
	if c.source == nil {
		return ErrNoImage
	}
	if c.state == Drawing {
		return ErrAlreadyDrawing
	}

	c.pending = Pending{
		Origin:   ToImageSpace(p, c.source.Scale()),
		Category: c.active,
	}
	c.state = Drawing
	return nil
}

// Move updates the in-progress extent. It does nothing while idle.
func (c *Controller) Move(p ScreenPoint) {
	if c.state != Drawing || c.source == nil {
		return
	}
	cur := ToImageSpace(p, c.source.Scale())
	c.pending.Extent = cur.Sub(c.pending.Origin)
}

// End finishes the gesture. It returns the committed region, or nil with no
// error when the rectangle has no area (inside the image) and was discarded.
// The controller is idle afterwards on every path.
func (c *Controller) End() (*Region, error) {
	if c.state != Drawing {
		return nil, nil
	}
	p := c.pending
	c.Cancel()

	if c.source == nil {
		return nil, ErrNoImage
	}

	origin, ext := p.Normalized()
	return c.commit(origin, ext, p.Category)
}

// CommitRect commits an image-space rectangle directly, without a gesture.
// It follows the same rules as End and returns nil, nil for a rectangle with
// no area inside the image.
func (c *Controller) CommitRect(origin ImagePoint, ext Extent, cat Category) (*Region, error) {
	if c.source == nil {
		return nil, ErrNoImage
	}
	if !cat.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, string(cat))
	}
	if c.state == Drawing {
		return nil, ErrAlreadyDrawing
	}
	origin, ext = normalize(origin, ext)
	return c.commit(origin, ext, cat)
}

// commit clamps a normalized rectangle, snapshots the original pixels under it
// and appends the region to the model.
func (c *Controller) commit(origin ImagePoint, ext Extent, cat Category) (*Region, error) {
	if ext.IsZero() {
		return nil, nil
	}

	src := c.source.Original()
	b := src.Bounds()
	origin, ext = clampRect(origin, ext, float64(b.Dx()), float64(b.Dy()))
	if ext.IsZero() {
		return nil, nil
	}

	rect := pixelRect(origin, ext).Add(b.Min)
	snap, err := imaging.NewSnapshot(src, rect)
	if err != nil {
		return nil, fmt.Errorf("failed to crop region: %w", err)
	}

	r := Region{
		ID:              c.newID(),
		Origin:          origin,
		Extent:          ext,
		Category:        cat,
		RecognizedLines: []string{},
		Crop:            snap,
	}
	c.model.Append(r)
	return &r, nil
}

// Cancel drops the in-progress region, if any.
func (c *Controller) Cancel() {
	c.state = Idle
	c.pending = Pending{}
}

// Pending returns the region being drawn.
func (c *Controller) Pending() (Pending, bool) {
	if c.state != Drawing {
		return Pending{}, false
	}
	return c.pending, true
}
