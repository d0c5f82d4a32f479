package grid

// Sort glyphs shown next to sortable header labels.
const (
	GlyphAscending  = "▲"
	GlyphDescending = "▼"
	GlyphUnsorted   = "↕"
)

const HookCompactField = "grid-cell-compact-field"

// Handlers receive the interactions wired into a rendered tree. Nil handlers
// leave the corresponding nodes without click behaviour.
type Handlers struct {
	HeaderClick func(property string)
	RowClick    func(pos int)
	SelectAll   func()
}

// Frame is the input of one render pass. Rows must already be in display
// order; Selected is queried with display positions.
type Frame struct {
	Columns     []Column
	Rows        []Record
	Sort        SortState
	Mode        SelectionMode
	Selected    func(pos int) bool
	Layout      Layout
	ShowHeader  bool
	Title       string
	Cursor      int
	FocusColumn int
	Handlers    Handlers
}

// Render builds the visual tree for f. It has no side effects; handlers are
// only captured, never called.
func Render(f Frame) *Node {
	root := newNode(HookGrid)
	if f.ShowHeader {
		if f.Layout == LayoutCompact {
			root.add(renderCompactHeader(f))
		} else {
			root.add(renderHeader(f))
		}
	}
	body := newNode(HookBody)
	for pos, row := range f.Rows {
		body.add(renderRow(f, pos, row))
	}
	return root.add(body)
}

func renderCompactHeader(f Frame) *Node {
	title := newNode(HookTitle)
	title.Text = f.Title
	return newNode(HookHeader).add(title)
}

func renderHeader(f Frame) *Node {
	header := newNode(HookHeader)
	if f.Mode == SelectSingle || f.Mode == SelectMultiple {
		header.add(renderSelectionHeader(f))
	}
	for i, col := range f.Columns {
		header.add(renderHeaderCell(f, i, col))
	}
	return header
}

func renderSelectionHeader(f Frame) *Node {
	cell := newNode(HookSelectionHeader)
	if f.Mode != SelectMultiple {
		return cell
	}
	all := len(f.Rows) > 0
	for pos := range f.Rows {
		if !isSelected(f, pos) {
			all = false
			break
		}
	}
	selectAll := f.Handlers.SelectAll
	ctrl := NewCheckbox(all, func(bool) {
		if selectAll != nil {
			selectAll()
		}
	})
	cell.add(controlNode(ctrl))
	if selectAll != nil {
		cell.OnClick = ctrl.Toggle
	}
	return cell
}

func renderHeaderCell(f Frame, index int, col Column) *Node {
	indicator := f.Sort.IndicatorFor(col.Property)
	cell := newNode(HookHeaderCell, alignHook(col.Align), indicatorHook(indicator))
	if index == f.FocusColumn {
		cell.Hooks = append(cell.Hooks, HookHeaderFocus)
	}
	cell.Text = col.Title()
	cell.Width = col.Width
	cell.Align = col.Align
	cell.Property = col.Property
	if !col.Sortable {
		return cell
	}
	glyph := newNode(HookSortGlyph)
	glyph.Text = sortGlyph(indicator)
	cell.add(glyph)
	if click := f.Handlers.HeaderClick; click != nil {
		prop := col.Property
		cell.OnClick = func() { click(prop) }
	}
	return cell
}

func renderRow(f Frame, pos int, row Record) *Node {
	selected := isSelected(f, pos)
	state := HookRowUnselected
	if selected {
		state = HookRowSelected
	}
	node := newNode(HookRow, state)
	if pos == f.Cursor {
		node.Hooks = append(node.Hooks, HookRowCursor)
	}
	node.Position = pos

	var onSelect func()
	if click := f.Handlers.RowClick; click != nil && f.Mode != SelectNone {
		onSelect = func() { click(pos) }
		node.OnClick = onSelect
	}
	if ctrl := controlFor(f.Mode, selected, onSelect); ctrl != nil {
		cell := newNode(HookSelectionCell)
		cell.Position = pos
		cell.add(controlNode(ctrl))
		cell.OnClick = onSelect
		node.add(cell)
	}

	if f.Layout == LayoutCompact {
		return node.add(renderCompactFields(f, row))
	}
	for i, col := range f.Columns {
		cell := newNode(HookCell, alignHook(col.Align))
		cell.Text = row.Cell(col.Property)
		cell.Width = col.Width
		cell.Align = col.Align
		cell.Property = col.Property
		node.add(cell)
		if i < len(f.Columns)-1 {
			node.add(newNode(HookDivider))
		}
	}
	return node
}

func renderCompactFields(f Frame, row Record) *Node {
	stack := newNode(HookCompactCell)
	for _, col := range f.Columns {
		label := newNode(HookCompactHeader)
		label.Text = col.Title() + " : "
		value := newNode(HookCompactText)
		value.Text = row.Cell(col.Property)
		field := newNode(HookCompactField).add(label, value)
		field.Property = col.Property
		stack.add(field)
	}
	return stack
}

func controlNode(ctrl Control) *Node {
	state := HookUnchecked
	if ctrl.Checked() {
		state = HookChecked
	}
	node := newNode(ctrl.Hook(), state)
	node.Text = ctrl.Glyph()
	node.Control = ctrl
	node.OnClick = ctrl.Toggle
	return node
}

func isSelected(f Frame, pos int) bool {
	return f.Selected != nil && f.Selected(pos)
}

func alignHook(a Alignment) string {
	if a == AlignRight {
		return HookAlignRight
	}
	return HookAlignLeft
}

func indicatorHook(i Indicator) string {
	switch i {
	case SortedAscending:
		return HookSortAscending
	case SortedDescending:
		return HookSortDescending
	default:
		return HookSortUnsorted
	}
}

func sortGlyph(i Indicator) string {
	switch i {
	case SortedAscending:
		return GlyphAscending
	case SortedDescending:
		return GlyphDescending
	default:
		return GlyphUnsorted
	}
}
