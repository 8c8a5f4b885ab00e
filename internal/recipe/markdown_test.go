package recipe

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMarkdown_Pancakes(t *testing.T) {
	r := &Recipe{
		Title:        "Pancakes",
		Ingredients:  []string{"2 eggs", "1 cup flour"},
		Instructions: []string{"Mix.", "Cook."},
		PrepTime:     "10m",
		CookTime:     "15m",
		Servings:     "4",
	}

	want := `# Pancakes

## Ingredients

- 2 eggs
- 1 cup flour

## Instructions

1. Mix.
2. Cook.

## Notes

- Prep Time: 10m
- Cook Time: 15m
- Servings: 4
`

	if got := r.Markdown(); got != want {
		t.Errorf("Markdown mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestMarkdown_HeadingLines(t *testing.T) {
	r := &Recipe{
		Title:        "Cake",
		Ingredients:  []string{"## For the glaze", "1 cup sugar", "#topping", "  "},
		Instructions: []string{"# not a heading here"},
	}

	got := r.Markdown()

	for _, line := range []string{"\n## For the glaze\n", "\n- 1 cup sugar\n", "\n#topping\n", "\n1. # not a heading here\n"} {
		if !strings.Contains(got, line) {
			t.Errorf("missing %q in:\n%s", line, got)
		}
	}
	if strings.Contains(got, "- ## For") {
		t.Error("heading line got a bullet")
	}
}

func TestMarkdown_EmptyFields(t *testing.T) {
	r := &Recipe{Title: "  Toast  "}

	want := `# Toast

## Ingredients

## Instructions

## Notes

- Prep Time:
- Cook Time:
- Servings:
`
	if got := r.Markdown(); got != want {
		t.Errorf("Markdown mismatch\ngot:\n%q\nwant:\n%q", got, want)
	}
}

func TestMarkdown_BlankTitle(t *testing.T) {
	r := &Recipe{Title: "   ", Ingredients: []string{"salt"}}

	got := r.Markdown()
	if !strings.HasPrefix(got, "#\n\n## Ingredients\n") {
		t.Errorf("blank title heading:\n%q", got)
	}
}

func TestMarkdown_TrimsAndSkipsBlankLines(t *testing.T) {
	r := &Recipe{
		Title:        "Soup",
		Ingredients:  []string{"  water ", ""},
		Instructions: []string{"  ", " Boil ", "Serve"},
	}

	got := r.Markdown()
	if !strings.Contains(got, "\n- water\n\n") {
		t.Errorf("ingredient not trimmed:\n%s", got)
	}
	if !strings.Contains(got, "\n1. Boil\n2. Serve\n") {
		t.Errorf("instructions not renumbered after blanks:\n%s", got)
	}
	for i, line := range strings.Split(got, "\n") {
		if line != strings.TrimRight(line, " \t") {
			t.Errorf("line %d has trailing whitespace: %q", i, line)
		}
	}
	if !strings.HasSuffix(got, "\n") || strings.HasSuffix(got, "\n\n") {
		t.Error("document should end with exactly one newline")
	}
}

func TestMarkdown_UTF8(t *testing.T) {
	r := &Recipe{Title: "Crème brûlée", Ingredients: []string{"½ tasse de crème"}}
	got := r.Markdown()
	if !strings.HasPrefix(got, "# Crème brûlée\n") || !strings.Contains(got, "- ½ tasse de crème\n") {
		t.Errorf("UTF-8 content mangled:\n%s", got)
	}
}

func TestWriteFile(t *testing.T) {
	r := &Recipe{Title: "Tea", Instructions: []string{"Steep."}}
	path := filepath.Join(t.TempDir(), "tea.md")

	if err := r.WriteFile(path); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != r.Markdown() {
		t.Errorf("file content differs from Markdown()")
	}
}

func TestWriteFile_BadPath(t *testing.T) {
	r := &Recipe{Title: "Tea"}
	err := r.WriteFile(filepath.Join(t.TempDir(), "missing", "dir", "tea.md"))
	if err == nil || !strings.Contains(err.Error(), "failed to write recipe") {
		t.Errorf("got %v", err)
	}
}
