package grid

import (
	"sort"
	"strings"
)

type SelectionMode int

const (
	SelectNone SelectionMode = iota
	SelectSingle
	SelectMultiple
)

func (m SelectionMode) String() string {
	switch m {
	case SelectSingle:
		return "single"
	case SelectMultiple:
		return "multiple"
	default:
		return "none"
	}
}

// ParseSelectionMode maps unknown values to SelectNone.
func ParseSelectionMode(value string) SelectionMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "single":
		return SelectSingle
	case "multiple", "multi":
		return SelectMultiple
	default:
		return SelectNone
	}
}

// Selection is the set of selected display positions. Positions index the
// sorted sequence, so re-sorting moves a selection onto whichever record now
// occupies the position.
type Selection struct {
	positions map[int]struct{}
}

// Select applies one click at pos under mode and reports whether the set
// changed.
func (s *Selection) Select(pos int, mode SelectionMode) bool {
	switch mode {
	case SelectSingle:
		if s.Len() == 1 && s.Has(pos) {
			return false
		}
		s.positions = map[int]struct{}{pos: {}}
		return true
	case SelectMultiple:
		if s.positions == nil {
			s.positions = map[int]struct{}{}
		}
		if _, ok := s.positions[pos]; ok {
			delete(s.positions, pos)
		} else {
			s.positions[pos] = struct{}{}
		}
		return true
	default:
		return false
	}
}

func (s *Selection) Has(pos int) bool {
	_, ok := s.positions[pos]
	return ok
}

func (s *Selection) Len() int {
	return len(s.positions)
}

// Positions returns the selected positions in ascending order.
func (s *Selection) Positions() []int {
	out := make([]int, 0, len(s.positions))
	for pos := range s.positions {
		out = append(out, pos)
	}
	sort.Ints(out)
	return out
}

func (s *Selection) Clear() bool {
	if len(s.positions) == 0 {
		return false
	}
	s.positions = nil
	return true
}

// All reports whether every position in [0, n) is selected.
func (s *Selection) All(n int) bool {
	if n == 0 || len(s.positions) < n {
		return false
	}
	for i := 0; i < n; i++ {
		if !s.Has(i) {
			return false
		}
	}
	return true
}

// ToggleAll selects [0, n) unless it is already fully selected, in which
// case it clears the set.
func (s *Selection) ToggleAll(n int) bool {
	if n == 0 {
		return s.Clear()
	}
	if s.All(n) {
		return s.Clear()
	}
	s.positions = make(map[int]struct{}, n)
	for i := 0; i < n; i++ {
		s.positions[i] = struct{}{}
	}
	return true
}

// Prune drops positions that fall outside [0, n).
func (s *Selection) Prune(n int) bool {
	changed := false
	for pos := range s.positions {
		if pos < 0 || pos >= n {
			delete(s.positions, pos)
			changed = true
		}
	}
	return changed
}

// Restrict trims the set to the cardinality mode allows: empty for none,
// the lowest position for single.
func (s *Selection) Restrict(mode SelectionMode) bool {
	switch mode {
	case SelectNone:
		return s.Clear()
	case SelectSingle:
		if s.Len() <= 1 {
			return false
		}
		first := s.Positions()[0]
		s.positions = map[int]struct{}{first: {}}
		return true
	}
	return false
}
