package grid

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const (
	dividerGlyph  = "│"
	ruleGlyph     = "─"
	ellipsis      = "…"
	selectionGap  = 1
	compactIndent = controlWidth + selectionGap
)

// span is a clickable horizontal range of the header line, [x0, x1).
type span struct {
	x0, x1    int
	property  string
	selectAll bool
}

// hitMap records where drawn elements landed so mouse coordinates can be
// mapped back to header cells and display positions.
type hitMap struct {
	headerLine int
	header     []span
	lines      []int
	firstLine  map[int]int
	lastLine   map[int]int
}

func (h hitMap) headerAt(x int) (span, bool) {
	for _, s := range h.header {
		if x >= s.x0 && x < s.x1 {
			return s, true
		}
	}
	return span{}, false
}

func (h hitMap) rowAt(y int) (int, bool) {
	if y < 0 || y >= len(h.lines) {
		return 0, false
	}
	pos := h.lines[y]
	return pos, pos >= 0
}

type drawer struct {
	styles       Styles
	unitsPerCell int
	maxWidth     int
	mode         SelectionMode
	columns      []Column

	out  []string
	hits hitMap
}

// draw lays a rendered tree out as terminal lines.
func draw(tree *Node, d drawer) (string, hitMap) {
	d.hits = hitMap{headerLine: -1, firstLine: map[int]int{}, lastLine: map[int]int{}}
	for _, child := range tree.Children {
		switch {
		case child.Has(HookHeader):
			d.drawHeader(child)
		case child.Has(HookBody):
			d.drawBody(child)
		}
	}
	return strings.Join(d.out, "\n"), d.hits
}

func (d *drawer) emit(line string, pos int) {
	d.out = append(d.out, line)
	d.hits.lines = append(d.hits.lines, pos)
	if pos < 0 {
		return
	}
	if _, ok := d.hits.firstLine[pos]; !ok {
		d.hits.firstLine[pos] = len(d.out) - 1
	}
	d.hits.lastLine[pos] = len(d.out) - 1
}

func (d *drawer) clip(line string) string {
	if d.maxWidth > 0 && runewidth.StringWidth(line) > d.maxWidth {
		return runewidth.Truncate(line, d.maxWidth, "")
	}
	return line
}

func (d *drawer) tableWidth() int {
	width := 0
	if d.mode != SelectNone {
		width += controlWidth + selectionGap
	}
	for i, col := range d.columns {
		width += col.cells(d.unitsPerCell)
		if i < len(d.columns)-1 {
			width += runewidth.StringWidth(dividerGlyph)
		}
	}
	if d.maxWidth > 0 && width > d.maxWidth {
		width = d.maxWidth
	}
	return width
}

func (d *drawer) drawHeader(header *Node) {
	if title := header.Find(HookTitle); title != nil {
		d.hits.headerLine = len(d.out)
		d.emit(d.styles.Title.Render(d.clip(title.Text)), -1)
		d.emit(d.styles.HeaderRule.Render(strings.Repeat(ruleGlyph, d.visibleWidth())), -1)
		return
	}

	var b strings.Builder
	x := 0
	cells := 0
	put := func(text string, style lipgloss.Style) int {
		w := runewidth.StringWidth(text)
		if d.maxWidth > 0 && x+w > d.maxWidth {
			text = runewidth.Truncate(text, d.maxWidth-x, "")
			w = runewidth.StringWidth(text)
		}
		if w > 0 {
			b.WriteString(style.Render(text))
		}
		x += w
		return w
	}
	for _, cell := range header.Children {
		switch {
		case cell.Has(HookSelectionHeader):
			text := strings.Repeat(" ", controlWidth)
			if ctrl := cell.Find(HookCheckbox); ctrl != nil {
				text = ctrl.Text
				d.hits.header = append(d.hits.header, span{x0: x, x1: x + controlWidth, selectAll: true})
			}
			put(text+strings.Repeat(" ", selectionGap), d.styles.Header)
		case cell.Has(HookHeaderCell):
			if cells > 0 {
				put(" ", d.styles.Header)
			}
			cells++
			w := d.cellWidth(cell)
			label := fit(cell.Text, w)
			if glyph := cell.Find(HookSortGlyph); glyph != nil {
				label = fit(cell.Text, w-2) + " " + glyph.Text
			}
			style := d.styles.Header
			if cell.Has(HookHeaderFocus) {
				style = d.styles.HeaderFocused
			}
			x0 := x
			if drawn := put(pad(label, w, cell.Align), style); drawn > 0 {
				d.hits.header = append(d.hits.header, span{x0: x0, x1: x0 + drawn, property: cell.Property})
			}
		}
	}
	d.hits.headerLine = len(d.out)
	d.emit(b.String(), -1)
	d.emit(d.styles.HeaderRule.Render(strings.Repeat(ruleGlyph, d.visibleWidth())), -1)
}

func (d *drawer) visibleWidth() int {
	if w := d.tableWidth(); w > 0 {
		return w
	}
	return 1
}

func (d *drawer) drawBody(body *Node) {
	for i, row := range body.Children {
		if row.Find(HookCompactCell) != nil {
			if i > 0 {
				d.emit(d.styles.CompactSeparator.Render(strings.Repeat(ruleGlyph, d.visibleWidth())), -1)
			}
			d.drawCompactRow(row)
			continue
		}
		d.drawRow(row)
	}
}

func (d *drawer) rowStyle(row *Node) lipgloss.Style {
	selected := row.Has(HookRowSelected)
	cursor := row.Has(HookRowCursor)
	switch {
	case selected && cursor:
		return d.styles.RowSelectedCursor
	case selected:
		return d.styles.RowSelected
	case cursor:
		return d.styles.RowCursor
	default:
		return d.styles.Row
	}
}

func (d *drawer) drawRow(row *Node) {
	var b strings.Builder
	for _, cell := range row.Children {
		switch {
		case cell.Has(HookSelectionCell):
			b.WriteString(controlText(cell))
			b.WriteString(strings.Repeat(" ", selectionGap))
		case cell.Has(HookCell):
			w := d.cellWidth(cell)
			b.WriteString(pad(fit(cell.Text, w), w, cell.Align))
		case cell.Has(HookDivider):
			b.WriteString(dividerGlyph)
		}
	}
	line := runewidth.FillRight(d.clip(b.String()), d.tableWidth())
	d.emit(d.rowStyle(row).Render(line), row.Position)
}

func (d *drawer) drawCompactRow(row *Node) {
	prefix := ""
	indent := ""
	if cell := row.Find(HookSelectionCell); cell != nil {
		prefix = controlText(cell) + strings.Repeat(" ", selectionGap)
		indent = strings.Repeat(" ", compactIndent)
	}
	style := d.rowStyle(row)
	fields := row.FindAll(HookCompactField)
	if len(fields) == 0 {
		d.emit(style.Render(d.clip(prefix)), row.Position)
		return
	}
	width := d.maxWidth
	for i, field := range fields {
		lead := indent
		if i == 0 {
			lead = prefix
		}
		line := lead + field.TextContent()
		if width > 0 {
			line = runewidth.FillRight(d.clip(line), width)
		}
		d.emit(style.Render(line), row.Position)
	}
}

// cellWidth sizes header cells and body cells of one column identically.
func (d *drawer) cellWidth(cell *Node) int {
	if col, ok := findColumn(d.columns, cell.Property); ok {
		return col.cells(d.unitsPerCell)
	}
	return Column{HeaderName: cell.Text, Width: cell.Width}.cells(d.unitsPerCell)
}

func controlText(cell *Node) string {
	for _, child := range cell.Children {
		if child.Control != nil {
			return child.Text
		}
	}
	return strings.Repeat(" ", controlWidth)
}

// fit truncates text to w cells, marking the cut with an ellipsis.
func fit(text string, w int) string {
	if w <= 0 {
		return ""
	}
	if runewidth.StringWidth(text) <= w {
		return text
	}
	return runewidth.Truncate(text, w, ellipsis)
}

func pad(text string, w int, align Alignment) string {
	if align == AlignRight {
		return runewidth.FillLeft(text, w)
	}
	return runewidth.FillRight(text, w)
}
