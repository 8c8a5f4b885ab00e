package selection

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrRegionNotFound is returned when no committed region has the given id.
var ErrRegionNotFound = errors.New("region not found")

// Model is the ordered collection of committed regions.
//
// Model is not safe for concurrent use; the owning session serializes access.
type Model struct {
	regions []Region
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{}
}

// Append adds r at the end of the commit order.
func (m *Model) Append(r Region) {
	m.regions = append(m.regions, r.Clone())
}

// Regions returns a deep copy of the committed regions in commit order.
func (m *Model) Regions() []Region {
	out := make([]Region, len(m.regions))
	for i, r := range m.regions {
		out[i] = r.Clone()
	}
	return out
}

// Len returns the number of committed regions.
func (m *Model) Len() int {
	return len(m.regions)
}

// Get returns a copy of the region with the given id and its 1-based position
// in commit order.
func (m *Model) Get(id uuid.UUID) (Region, int, bool) {
	i := m.index(id)
	if i < 0 {
		return Region{}, 0, false
	}
	return m.regions[i].Clone(), i + 1, true
}

// Remove deletes one region, keeping the order of the rest.
func (m *Model) Remove(id uuid.UUID) error {
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRegionNotFound, id)
	}
	m.regions = append(m.regions[:i], m.regions[i+1:]...)
	return nil
}

// Clear drops every region.
func (m *Model) Clear() {
	m.regions = nil
}

// SetRecognizedLines replaces the recognized lines of one region.
func (m *Model) SetRecognizedLines(id uuid.UUID, lines []string) error {
	i := m.index(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRegionNotFound, id)
	}
	m.regions[i].RecognizedLines = append([]string{}, lines...)
	return nil
}

// ReplaceAll swaps the whole collection for regions, in the given order.
func (m *Model) ReplaceAll(regions []Region) {
	m.regions = make([]Region, len(regions))
	for i, r := range regions {
		m.regions[i] = r.Clone()
	}
}

func (m *Model) index(id uuid.UUID) int {
	for i := range m.regions {
		if m.regions[i].ID == id {
			return i
		}
	}
	return -1
}
