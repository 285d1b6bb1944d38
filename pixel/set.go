package pixel

import (
	"fmt"
	"sort"
)

// Update is a single pending cell change.
type Update struct {
	Index int
	Color Color
}

// Set is a sparse map of pending cell changes. Each index appears at most
// once and holds the latest colour set for it.
type Set struct {
	cells map[int]Color
}

// NewSet returns an empty Set.
func NewSet() *Set {
	return &Set{
		cells: make(map[int]Color),
	}
}

// SetOf returns a Set populated from the given updates, later updates
// overwriting earlier ones for the same index.
func SetOf(updates ...Update) *Set {
	s := NewSet()
	for _, u := range updates {
		s.Set(u.Index, u.Color)
	}
	return s
}

// Set inserts or overwrites the colour for index i.
func (s *Set) Set(i int, c Color) {
	s.cells[i] = c
}

// Remove deletes index i, if present.
func (s *Set) Remove(i int) {
	delete(s.cells, i)
}

// Get returns the colour for index i.
func (s *Set) Get(i int) (Color, bool) {
	c, ok := s.cells[i]
	return c, ok
}

// Len returns the number of cells in the set.
func (s *Set) Len() int {
	return len(s.cells)
}

// Entries returns every update in the set. No ordering is guaranteed.
func (s *Set) Entries() []Update {
	u := make([]Update, 0, len(s.cells))
	for i, c := range s.cells {
		u = append(u, Update{Index: i, Color: c})
	}
	return u
}

// Indices returns every index in the set in ascending order.
func (s *Set) Indices() []int {
	keys := make([]int, 0, len(s.cells))
	for k := range s.cells {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

// Clone returns an independent copy of the set.
func (s *Set) Clone() *Set {
	dup := NewSet()
	for i, c := range s.cells {
		dup.cells[i] = c
	}
	return dup
}

// Validate checks every index lies within g and every colour is a valid
// packed RGB value.
func (s *Set) Validate(g Grid) error {
	for _, i := range s.Indices() {
		if !g.Contains(i) {
			return fmt.Errorf("%w: %d on %s grid", ErrIndexRange, i, g)
		}
		if c := s.cells[i]; c > MaxColor {
			return fmt.Errorf("%w: %#x at %d", ErrColorRange, uint32(c), i)
		}
	}
	return nil
}
