package selection

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidCategory is returned for a category name that is neither
// ingredient nor instruction.
var ErrInvalidCategory = errors.New("invalid category")

// Category tags a region with the kind of recipe text it covers. It decides both
// the region's tint and how its recognized text is split into lines.
type Category string

const (
	Ingredient  Category = "ingredient"
	Instruction Category = "instruction"
)

// ParseCategory accepts "ingredient" or "instruction", case-insensitively, with
// an optional trailing "s".
func ParseCategory(s string) (Category, error) {
	c := Category(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s"))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the two known categories.
func (c Category) Valid() bool {
	return c == Ingredient || c == Instruction
}

func (c Category) String() string { return string(c) }

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidCategory, string(c))
	}
	return []byte(c), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
