package grid

import "sort"

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "descending"
	}
	return "ascending"
}

func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}

// SortState is the active sort key. An empty Property means insertion order;
// Direction is ignored until a property is set.
type SortState struct {
	Property  string
	Direction Direction
}

func (s SortState) Active() bool {
	return s.Property != ""
}

// Toggle flips the direction when property is already active and otherwise
// makes property the active key in ascending order.
func (s SortState) Toggle(property string) SortState {
	if property == s.Property {
		s.Direction = s.Direction.Flip()
		return s
	}
	return SortState{Property: property, Direction: Ascending}
}

// Indicator is the header sort state of a column.
type Indicator int

const (
	Unsorted Indicator = iota
	SortedAscending
	SortedDescending
)

func (i Indicator) String() string {
	switch i {
	case SortedAscending:
		return "ascending"
	case SortedDescending:
		return "descending"
	default:
		return "unsorted"
	}
}

func (s SortState) IndicatorFor(property string) Indicator {
	if !s.Active() || property != s.Property {
		return Unsorted
	}
	if s.Direction == Descending {
		return SortedDescending
	}
	return SortedAscending
}

// Order returns rows in display order. An inactive state returns rows as is.
// Otherwise the result is a new slice, stably sorted by the active property;
// descending inverts the comparison so ties keep their input order.
func Order(rows []Record, s SortState) []Record {
	if !s.Active() {
		return rows
	}
	perm := Permutation(rows, s)
	out := make([]Record, len(perm))
	for i, idx := range perm {
		out[i] = rows[idx]
	}
	return out
}

// Permutation returns, for each display position, the index of the row in
// the input sequence.
func Permutation(rows []Record, s SortState) []int {
	perm := make([]int, len(rows))
	for i := range perm {
		perm[i] = i
	}
	if !s.Active() {
		return perm
	}
	prop := s.Property
	sort.SliceStable(perm, func(i, j int) bool {
		a := rows[perm[i]][prop]
		b := rows[perm[j]][prop]
		cmp := Compare(a, b)
		if s.Direction == Descending {
			return cmp > 0
		}
		return cmp < 0
	})
	return perm
}
