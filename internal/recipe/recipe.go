// Package recipe holds the editable recipe assembled from recognized text and
// renders it as a Markdown document.
package recipe

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultTitle is the title a freshly extracted recipe starts with.
const DefaultTitle = "Recipe Title"

var (
	// ErrEmptyTitle blocks proceeding while the title is blank.
	ErrEmptyTitle = errors.New("recipe title is empty")

	// ErrNoLines blocks proceeding while both lists are empty.
	ErrNoLines = errors.New("recipe has no ingredients or instructions")

	// ErrIndexOutOfRange is returned for an edit or remove past either end of a
	// list.
	ErrIndexOutOfRange = errors.New("line index out of range")

	// ErrUnknownSection is returned for a section name other than ingredients
	// or instructions.
	ErrUnknownSection = errors.New("unknown recipe section")
)

// Section names one of the two editable lists.
type Section string

const (
	Ingredients  Section = "ingredients"
	Instructions Section = "instructions"
)

// ParseSection accepts the singular or plural section name, case-insensitively.
func ParseSection(s string) (Section, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ingredient", "ingredients":
		return Ingredients, nil
	case "instruction", "instructions":
		return Instructions, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSection, s)
}

// Recipe is the editable result of an extraction. Every field is free-form.
type Recipe struct {
	Title        string   `json:"title"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	PrepTime     string   `json:"prep_time"`
	CookTime     string   `json:"cook_time"`
	Servings     string   `json:"servings"`
}

// New returns a recipe with the default title and copies of the given lists.
func New(ingredients, instructions []string) *Recipe {
	return &Recipe{
		Title:        DefaultTitle,
		Ingredients:  append([]string{}, ingredients...),
		Instructions: append([]string{}, instructions...),
	}
}

// Clone returns a deep copy of r.
func (r *Recipe) Clone() *Recipe {
	c := *r
	c.Ingredients = append([]string{}, r.Ingredients...)
	c.Instructions = append([]string{}, r.Instructions...)
	return &c
}

func (r *Recipe) list(s Section) (*[]string, error) {
	switch s {
	case Ingredients:
		return &r.Ingredients, nil
	case Instructions:
		return &r.Instructions, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownSection, string(s))
}

// Add appends a trimmed line to a section. Blank text is ignored.
func (r *Recipe) Add(s Section, text string) error {
	l, err := r.list(s)
	if err != nil {
		return err
	}
	if text = strings.TrimSpace(text); text != "" {
		*l = append(*l, text)
	}
	return nil
}

// Edit replaces the line at index. Blank text removes the line.
func (r *Recipe) Edit(s Section, index int, text string) error {
	l, err := r.list(s)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*l) {
		return fmt.Errorf("%w: %s[%d] (have %d)", ErrIndexOutOfRange, s, index, len(*l))
	}
	text = strings.TrimSpace(text)
	if text == "" {
		*l = append((*l)[:index], (*l)[index+1:]...)
		return nil
	}
	(*l)[index] = text
	return nil
}

// Remove deletes the line at index.
func (r *Recipe) Remove(s Section, index int) error {
	l, err := r.list(s)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(*l) {
		return fmt.Errorf("%w: %s[%d] (have %d)", ErrIndexOutOfRange, s, index, len(*l))
	}
	*l = append((*l)[:index], (*l)[index+1:]...)
	return nil
}

// SetDetails sets the three note fields, trimmed.
func (r *Recipe) SetDetails(prep, cook, servings string) {
	r.PrepTime = strings.TrimSpace(prep)
	r.CookTime = strings.TrimSpace(cook)
	r.Servings = strings.TrimSpace(servings)
}

// CanProceed reports whether the recipe may move on from editing.
func (r *Recipe) CanProceed() error {
	if strings.TrimSpace(r.Title) == "" {
		return ErrEmptyTitle
	}
	if len(r.Ingredients) == 0 && len(r.Instructions) == 0 {
		return ErrNoLines
	}
	return nil
}
