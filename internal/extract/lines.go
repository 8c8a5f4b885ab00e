package extract

import (
	"strings"

	"github.com/ironsheep/recipe-ocr-mcp/internal/ocr"
	"github.com/ironsheep/recipe-ocr-mcp/internal/selection"
)

// Rules are the optional text normalizations applied after recognition.
type Rules struct {
	// InstructionTrailingPeriod appends "." to instruction lines that do not
	// already end with one.
	InstructionTrailingPeriod bool `json:"instruction_trailing_period"`
}

// Lines turns recognized paragraphs into text lines for a region of the given
// category.
//
// Ingredient paragraphs are split on line breaks, so one paragraph may yield
// several ingredients. Each instruction paragraph is one line. Lines are trimmed
// and empty ones dropped. The result is never nil.
func Lines(paragraphs []ocr.Paragraph, category selection.Category, rules Rules) []string {
	lines := []string{}

	for _, p := range paragraphs {
		if category == selection.Ingredient {
			for _, l := range splitLines(p.Text) {
				if l = strings.TrimSpace(l); l != "" {
					lines = append(lines, l)
				}
			}
			continue
		}

		l := strings.TrimSpace(p.Text)
		if l == "" {
			continue
		}
		if rules.InstructionTrailingPeriod && !strings.HasSuffix(l, ".") {
			l += "."
		}
		lines = append(lines, l)
	}

	return lines
}

func splitLines(s string) []string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.Split(s, "\n")
}
