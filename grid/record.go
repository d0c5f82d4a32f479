package grid

import (
	"fmt"
	"sort"

	"github.com/mattn/go-runewidth"
)

// Record is one row of the grid: an open mapping from property to value.
type Record map[string]Value

func RecordFrom(m map[string]any) Record {
	r := make(Record, len(m))
	for k, v := range m {
		r[k] = Of(v)
	}
	return r
}

func RecordsFrom(ms []map[string]any) []Record {
	out := make([]Record, len(ms))
	for i, m := range ms {
		out[i] = RecordFrom(m)
	}
	return out
}

func (r Record) Get(property string) (Value, bool) {
	v, ok := r[property]
	return v, ok
}

// Cell returns the display text for property; missing keys render empty.
func (r Record) Cell(property string) string {
	if v, ok := r[property]; ok {
		return v.String()
	}
	return ""
}

type IssueKind int

const (
	IssueMissingProperty IssueKind = iota
	IssueDuplicateProperty
	IssueEmptyProperty
)

func (k IssueKind) String() string {
	switch k {
	case IssueMissingProperty:
		return "missing property"
	case IssueDuplicateProperty:
		return "duplicate property"
	default:
		return "empty property"
	}
}

// Issue is a schema problem found by Validate. Row is -1 for column issues.
type Issue struct {
	Kind     IssueKind
	Row      int
	Property string
}

func (i Issue) String() string {
	if i.Row < 0 {
		return fmt.Sprintf("column %q: %s", i.Property, i.Kind)
	}
	return fmt.Sprintf("row %d: %s %q", i.Row, i.Kind, i.Property)
}

// Validate reports how rows deviate from columns. Nothing reported here is
// fatal: missing values render as empty cells and duplicate properties render
// the same value twice.
func Validate(columns []Column, rows []Record) []Issue {
	var issues []Issue
	seen := make(map[string]bool, len(columns))
	for _, col := range columns {
		if col.Property == "" {
			issues = append(issues, Issue{Kind: IssueEmptyProperty, Row: -1})
			continue
		}
		if seen[col.Property] {
			issues = append(issues, Issue{Kind: IssueDuplicateProperty, Row: -1, Property: col.Property})
			continue
		}
		seen[col.Property] = true
	}
	for i, row := range rows {
		for _, col := range columns {
			if col.Property == "" {
				continue
			}
			if _, ok := row[col.Property]; !ok {
				issues = append(issues, Issue{Kind: IssueMissingProperty, Row: i, Property: col.Property})
			}
		}
	}
	return issues
}

const derivedPadding = 2

// DeriveColumns builds a column list for rows. When properties is empty the
// union of all row keys is used in lexical order. Numeric columns are right
// aligned, every derived column is sortable and sized to its widest value.
func DeriveColumns(properties []string, rows []Record, unitsPerCell int) []Column {
	if len(properties) == 0 {
		keys := map[string]struct{}{}
		for _, row := range rows {
			for k := range row {
				keys[k] = struct{}{}
			}
		}
		for k := range keys {
			properties = append(properties, k)
		}
		sort.Strings(properties)
	}
	if unitsPerCell <= 0 {
		unitsPerCell = DefaultUnitsPerCell
	}
	columns := make([]Column, 0, len(properties))
	for _, prop := range properties {
		width := runewidth.StringWidth(prop)
		numeric, seen := true, false
		for _, row := range rows {
			v, ok := row[prop]
			if !ok {
				continue
			}
			if w := runewidth.StringWidth(v.String()); w > width {
				width = w
			}
			if !v.IsNull() {
				seen = true
				numeric = numeric && v.IsNumeric()
			}
		}
		align := AlignLeft
		if seen && numeric {
			align = AlignRight
		}
		columns = append(columns, Column{
			HeaderName: prop,
			Property:   prop,
			Width:      (width + derivedPadding) * unitsPerCell,
			Align:      align,
			Sortable:   true,
		})
	}
	return columns
}
