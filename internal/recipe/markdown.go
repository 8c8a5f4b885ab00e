package recipe

import (
	"fmt"
	"os"
	"strings"
)

// Markdown renders r with the fixed document template:
//
//	# Title
//
//	## Ingredients
//
//	- one bullet per ingredient
//
//	## Instructions
//
//	1. one numbered line per instruction
//
//	## Notes
//
//	- Prep Time: ...
//	- Cook Time: ...
//	- Servings: ...
//
// Ingredient lines already starting with "#" are emitted as-is, so a user can
// insert sub-headings such as "## For the glaze". An empty list leaves its
// heading in place with no items. No line has trailing whitespace and the
// document ends with a single newline.
func (r *Recipe) Markdown() string {
	var b strings.Builder

	if title := strings.TrimSpace(r.Title); title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	} else {
		b.WriteString("#\n\n")
	}

	b.WriteString("## Ingredients\n\n")
	if n := writeIngredients(&b, r.Ingredients); n > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Instructions\n\n")
	if n := writeInstructions(&b, r.Instructions); n > 0 {
		b.WriteString("\n")
	}

	b.WriteString("## Notes\n\n")
	writeNote(&b, "Prep Time", r.PrepTime)
	writeNote(&b, "Cook Time", r.CookTime)
	writeNote(&b, "Servings", r.Servings)

	return b.String()
}

func writeIngredients(b *strings.Builder, lines []string) int {
	n := 0
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		if strings.HasPrefix(l, "#") {
			b.WriteString(l)
		} else {
			b.WriteString("- ")
			b.WriteString(l)
		}
		b.WriteString("\n")
		n++
	}
	return n
}

func writeInstructions(b *strings.Builder, lines []string) int {
	n := 0
	for _, l := range lines {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		n++
		fmt.Fprintf(b, "%d. %s\n", n, l)
	}
	return n
}

func writeNote(b *strings.Builder, label, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		fmt.Fprintf(b, "- %s:\n", label)
		return
	}
	fmt.Fprintf(b, "- %s: %s\n", label, value)
}

// WriteFile writes the Markdown document to path.
func (r *Recipe) WriteFile(path string) error {
	if err := os.WriteFile(path, []byte(r.Markdown()), 0o644); err != nil {
		return fmt.Errorf("failed to write recipe: %w", err)
	}
	return nil
}
