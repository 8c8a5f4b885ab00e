package canvas

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/recipe-ocr-mcp/internal/selection"
)

const (
	// FillAlpha is the opacity of the tint laid over a committed region.
	FillAlpha = 0.1

	// LineWidth is the border width in screen pixels.
	LineWidth = 2
)

var (
	ingredientColor  = mustHex("#3B82F6")
	instructionColor = mustHex("#10B981")
)

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// CategoryColor returns the tint used for regions of the given category.
func CategoryColor(c selection.Category) colorful.Color {
	if c == selection.Instruction {
		return instructionColor
	}
	return ingredientColor
}

// CategoryHex returns CategoryColor as a #rrggbb string.
func CategoryHex(c selection.Category) string {
	return CategoryColor(c).Hex()
}

func toNRGBA(c colorful.Color) color.NRGBA {
	r, g, b := c.Clamped().RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
