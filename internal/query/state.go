package query

import (
	"errors"
	"fmt"
	"strings"

	"estates/internal/models"
)

// ErrUnknownChip is returned by ParseChip for names outside the chip bar.
var ErrUnknownChip = errors.New("unknown filter chip")

// Dimension is one filter axis: either unset or set to a label.
type Dimension struct {
	value string
	set   bool
}

// Set selects a label. A blank label unsets the dimension.
func (d *Dimension) Set(label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		d.Clear()
		return
	}
	d.value, d.set = label, true
}

// Clear returns the dimension to the unset state.
func (d *Dimension) Clear() {
	d.value, d.set = "", false
}

// Toggle sets label, or clears the dimension when label is already selected.
func (d *Dimension) Toggle(label string) {
	if d.set && strings.EqualFold(d.value, label) {
		d.Clear()
		return
	}
	d.Set(label)
}

// Value returns the selected label and whether one is set.
func (d Dimension) Value() (string, bool) {
	return d.value, d.set
}

// IsSet reports whether a label is selected.
func (d Dimension) IsSet() bool {
	return d.set
}

func (d Dimension) String() string {
	return d.value
}

// State is the per-screen query state. SearchText follows every keystroke;
// DebouncedText is what queries actually use.
type State struct {
	SearchText    string
	DebouncedText string
	Category      Dimension
	Status        Dimension
}

// Type records the raw input.
func (s *State) Type(text string) {
	s.SearchText = text
}

// Settle promotes a quiet-period value to the effective search term.
func (s *State) Settle(text string) {
	s.DebouncedText = text
}

// ResetFilters unsets both filter dimensions.
func (s *State) ResetFilters() {
	s.Category.Clear()
	s.Status.Clear()
}

// ResetAll unsets every dimension and clears the search text.
func (s *State) ResetAll() {
	s.ResetFilters()
	s.SearchText = ""
	s.DebouncedText = ""
}

// Query builds the engine query from the settled state.
func (s State) Query() Query {
	return Query{
		Term:     s.DebouncedText,
		Category: s.Category.String(),
		Status:   s.Status.String(),
	}
}

// Active reports whether any filter or search term narrows the result.
func (s State) Active() bool {
	return s.Category.IsSet() || s.Status.IsSet() || strings.TrimSpace(s.DebouncedText) != ""
}

// ChipAxis names the dimension a chip drives.
type ChipAxis int

const (
	AxisNone ChipAxis = iota
	AxisCategory
	AxisStatus
)

// Chip is one entry of the single-select filter bar.
type Chip struct {
	Name  string   `json:"name"`
	Axis  ChipAxis `json:"-"`
	Label string   `json:"label,omitempty"`
}

// Chips is the filter bar in display order.
var Chips = []Chip{
	{Name: "all", Axis: AxisNone},
	{Name: "luxury", Axis: AxisCategory, Label: models.CategoryLuxury},
	{Name: "affordable", Axis: AxisCategory, Label: models.CategoryAffordable},
	{Name: "ongoing", Axis: AxisStatus, Label: models.StatusOngoing},
	{Name: "completed", Axis: AxisStatus, Label: models.StatusCompleted},
}

// ParseChip resolves a chip by name, ignoring case. An empty name is "all".
func ParseChip(name string) (Chip, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return Chips[0], nil
	}
	for _, c := range Chips {
		if c.Name == name {
			return c, nil
		}
	}
	return Chip{}, fmt.Errorf("%w: %q", ErrUnknownChip, name)
}

// ApplyChip makes c the only active filter.
func (s *State) ApplyChip(c Chip) {
	s.ResetFilters()
	switch c.Axis {
	case AxisCategory:
		s.Category.Set(c.Label)
	case AxisStatus:
		s.Status.Set(c.Label)
	}
}

// ActiveChip returns the chip matching the current filters, or "all" when
// the filters do not correspond to a single chip.
func (s State) ActiveChip() Chip {
	cat, catSet := s.Category.Value()
	status, statusSet := s.Status.Value()
	for _, c := range Chips {
		switch {
		case c.Axis == AxisCategory && catSet && !statusSet && strings.EqualFold(c.Label, cat):
			return c
		case c.Axis == AxisStatus && statusSet && !catSet && strings.EqualFold(c.Label, status):
			return c
		}
	}
	return Chips[0]
}

// Apply narrows q with the chip's filter.
func (c Chip) Apply(q Query) Query {
	switch c.Axis {
	case AxisCategory:
		q.Category = c.Label
	case AxisStatus:
		q.Status = c.Label
	}
	return q
}
