package grid

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

func (a Alignment) String() string {
	if a == AlignRight {
		return "right"
	}
	return "left"
}

// ParseAlignment accepts left/right in either the short or the
// "leftAligned"/"rightAligned" spelling. Anything else is left.
func ParseAlignment(value string) Alignment {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "right", "rightaligned", "right-aligned":
		return AlignRight
	default:
		return AlignLeft
	}
}

// Column describes one column of the grid. Width is expressed in logical
// units; the terminal renderer divides it by the grid's units-per-cell.
type Column struct {
	HeaderName string
	Property   string
	Width      int
	Align      Alignment
	Sortable   bool
}

func (c Column) Title() string {
	if c.HeaderName != "" {
		return c.HeaderName
	}
	return c.Property
}

// cells converts the column width to terminal cells. Columns without a width
// fall back to the header width plus room for the sort glyph.
func (c Column) cells(unitsPerCell int) int {
	if c.Width <= 0 || unitsPerCell <= 0 {
		return runewidth.StringWidth(c.Title()) + 2
	}
	n := (c.Width + unitsPerCell - 1) / unitsPerCell
	if n < 1 {
		n = 1
	}
	return n
}

func findColumn(columns []Column, property string) (Column, bool) {
	for _, col := range columns {
		if col.Property == property {
			return col, true
		}
	}
	return Column{}, false
}
