package grid

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func names(rows []Record) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Cell("name")
	}
	return out
}

func people() []Record {
	return RecordsFrom([]map[string]any{
		{"name": "John", "age": 30, "email": "j@x"},
		{"name": "Jane", "age": 25, "email": "j2@x"},
		{"name": "Ann", "age": 30, "email": "a@x"},
		{"name": "Bob", "age": 25, "email": "b@x"},
	})
}

func TestSortStateToggle(t *testing.T) {
	var s SortState
	assert.False(t, s.Active())

	s = s.Toggle("age")
	assert.Equal(t, SortState{Property: "age", Direction: Ascending}, s)

	s = s.Toggle("age")
	assert.Equal(t, SortState{Property: "age", Direction: Descending}, s)

	s = s.Toggle("name")
	assert.Equal(t, SortState{Property: "name", Direction: Ascending}, s)
}

func TestSortStateToggleTwiceRestoresDirection(t *testing.T) {
	for _, start := range []SortState{
		{Property: "age", Direction: Ascending},
		{Property: "age", Direction: Descending},
	} {
		got := start.Toggle("age").Toggle("age")
		assert.Equal(t, start, got)
	}
}

func TestIndicatorFor(t *testing.T) {
	s := SortState{Property: "age", Direction: Descending}
	assert.Equal(t, SortedDescending, s.IndicatorFor("age"))
	assert.Equal(t, Unsorted, s.IndicatorFor("name"))
	assert.Equal(t, Unsorted, SortState{}.IndicatorFor("age"))
}

func TestOrderInactiveKeepsInput(t *testing.T) {
	rows := people()
	got := Order(rows, SortState{})
	assert.Equal(t, []string{"John", "Jane", "Ann", "Bob"}, names(got))
}

func TestOrderIsStable(t *testing.T) {
	rows := people()

	asc := Order(rows, SortState{Property: "age"})
	if diff := cmp.Diff([]string{"Jane", "Bob", "John", "Ann"}, names(asc)); diff != "" {
		t.Errorf("ascending order mismatch (-want +got):\n%s", diff)
	}

	desc := Order(rows, SortState{Property: "age", Direction: Descending})
	if diff := cmp.Diff([]string{"John", "Ann", "Jane", "Bob"}, names(desc)); diff != "" {
		t.Errorf("descending order mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []string{"John", "Jane", "Ann", "Bob"}, names(rows), "input must not be reordered")
}

func TestOrderUnknownPropertyKeepsInput(t *testing.T) {
	rows := people()
	got := Order(rows, SortState{Property: "missing", Direction: Descending})
	assert.Equal(t, names(rows), names(got))
}

func TestPermutation(t *testing.T) {
	perm := Permutation(people(), SortState{Property: "name"})
	assert.Equal(t, []int{2, 3, 1, 0}, perm)
}
