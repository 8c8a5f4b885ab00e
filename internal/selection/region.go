package selection

import (
	"image"
	"math"

	"github.com/google/uuid"

	"github.com/ironsheep/recipe-ocr-mcp/internal/imaging"
)

// Region is a committed rectangle over the source image.
type Region struct {
	// ID is assigned at commit and never changes.
	ID uuid.UUID `json:"id"`

	// Origin is the top-left corner in image space.
	Origin ImagePoint `json:"origin"`

	// Extent is the non-negative size in image space.
	Extent Extent `json:"extent"`

	// Category is frozen when drawing starts.
	Category Category `json:"category"`

	// RecognizedLines is empty until recognition runs, then replaced wholesale
	// by each pass.
	RecognizedLines []string `json:"recognized_lines"`

	// Crop is a PNG snapshot of the original pixels under the region, taken at
	// commit time.
	Crop *imaging.Snapshot `json:"crop,omitempty"`
}

// Bounds returns the smallest pixel rectangle that covers the region, relative
// to an image whose top-left pixel is (0,0).
func (r Region) Bounds() image.Rectangle {
	return pixelRect(r.Origin, r.Extent)
}

// Clone returns a copy of r that shares no slices with it. The snapshot is
// immutable and stays shared.
func (r Region) Clone() Region {
	c := r
	if r.RecognizedLines != nil {
		c.RecognizedLines = append([]string(nil), r.RecognizedLines...)
	}
	return c
}

func pixelRect(origin ImagePoint, ext Extent) image.Rectangle {
	return image.Rect(
		int(math.Floor(origin.X)),
		int(math.Floor(origin.Y)),
		int(math.Ceil(origin.X+ext.Width)),
		int(math.Ceil(origin.Y+ext.Height)),
	)
}
