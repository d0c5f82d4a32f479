// Package grid implements a sortable, selectable data grid for terminal
// applications. Records are laid out as a column table on wide terminals and
// as stacked label/value blocks on narrow ones.
//
// The grid owns only its sort state and its selection. Columns, rows and
// display flags are supplied by the host and may be replaced at any time.
// Selection is positional: it stores indices into the currently sorted row
// sequence, so re-sorting moves a selection onto whichever record now sits at
// the same position.
package grid

import (
	"io"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
)

const DefaultTitle = "Details"

type EventKind int

const (
	EventSort EventKind = iota
	EventSelection
	EventLayout
)

func (k EventKind) String() string {
	switch k {
	case EventSort:
		return "sort"
	case EventSelection:
		return "selection"
	case EventLayout:
		return "layout"
	default:
		return "unknown"
	}
}

// Event describes one state change. Only the fields matching Kind are set.
type Event struct {
	Kind     EventKind
	Sort     SortState
	Selected []int
	Layout   Layout
}

// EventMsg carries an Event produced while handling a tea.Msg in Update.
type EventMsg struct {
	Event
}

type Option func(*Model)

func WithShowHeader(show bool) Option {
	return func(m *Model) { m.showHeader = show }
}

func WithSelectionMode(mode SelectionMode) Option {
	return func(m *Model) { m.mode = mode }
}

// WithRowIdentityKey records the property that identifies a record. It is
// accepted for hosts that carry one but does not change selection semantics.
func WithRowIdentityKey(property string) Option {
	return func(m *Model) { m.identityKey = property }
}

// WithTitle sets the heading shown above the stacked compact layout.
func WithTitle(title string) Option {
	return func(m *Model) { m.title = title }
}

// WithWidth sets the initial width in terminal cells.
func WithWidth(cells int) Option {
	return func(m *Model) { m.width = cells }
}

func WithBreakpoint(units int) Option {
	return func(m *Model) { m.breakpoint = units }
}

func WithUnitsPerCell(units int) Option {
	return func(m *Model) {
		if units > 0 {
			m.unitsPerCell = units
		}
	}
}

// WithMonitor shares an existing viewport monitor. The grid subscribes to it
// but never resizes or closes it.
func WithMonitor(mon *Monitor) Option {
	return func(m *Model) { m.monitor = mon }
}

func WithStyles(s Styles) Option {
	return func(m *Model) { m.styles = s }
}

func WithKeyMap(km KeyMap) Option {
	return func(m *Model) { m.keys = km }
}

// WithObserver registers fn to be called synchronously after every change.
func WithObserver(fn func(Event)) Option {
	return func(m *Model) {
		if fn != nil {
			m.observers = append(m.observers, fn)
		}
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(m *Model) {
		if log != nil {
			m.log = log
		}
	}
}

func WithFocused(focused bool) Option {
	return func(m *Model) { m.focused = focused }
}

// Model is the grid component. It is used through a pointer because the
// rendered tree captures handlers bound to it.
type Model struct {
	columns     []Column
	rows        []Record
	showHeader  bool
	mode        SelectionMode
	identityKey string
	title       string

	sort      SortState
	selection Selection
	layout    Layout
	cursor    int
	focusCol  int

	monitor     *Monitor
	ownMonitor  bool
	unsubscribe func()
	closed      bool

	unitsPerCell int
	breakpoint   int
	width        int
	focused      bool

	styles    Styles
	keys      KeyMap
	observers []func(Event)
	log       logrus.FieldLogger

	hits      hitMap
	pressed   bool
	recording bool
	pending   []Event
}

func New(columns []Column, rows []Record, opts ...Option) *Model {
	quiet := logrus.New()
	quiet.SetOutput(io.Discard)

	m := &Model{
		columns:      columns,
		rows:         rows,
		showHeader:   true,
		title:        DefaultTitle,
		unitsPerCell: DefaultUnitsPerCell,
		breakpoint:   CompactBreakpoint,
		focused:      true,
		styles:       DefaultStyles(),
		keys:         DefaultKeyMap(),
		log:          quiet,
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.monitor == nil {
		units := DefaultWidth
		if m.width > 0 {
			units = m.width * m.unitsPerCell
		}
		m.monitor = NewMonitor(units, m.breakpoint)
		m.ownMonitor = true
	}
	m.layout = m.monitor.Layout()
	m.unsubscribe = m.monitor.Subscribe(m.setLayout)

	for _, issue := range Validate(columns, rows) {
		m.log.WithField("issue", issue.String()).Debug("grid: data issue")
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles window resizes, mouse input and, while focused, key input.
// Mouse coordinates are read relative to the grid's top-left corner; hosts
// that place the grid elsewhere translate before forwarding.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	m.recording = true
	defer func() {
		m.recording = false
		m.pending = nil
	}()

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetWidth(msg.Width)
	case tea.MouseMsg:
		m.handleMouse(msg.X, msg.Y, msg)
	case tea.KeyMsg:
		if m.focused {
			m.handleKey(msg)
		}
	}
	return m, m.flush()
}

// HandleMouse processes a mouse event at grid-local coordinates.
func (m *Model) HandleMouse(localX, localY int, msg tea.MouseMsg) (*Model, tea.Cmd) {
	m.recording = true
	defer func() {
		m.recording = false
		m.pending = nil
	}()
	m.handleMouse(localX, localY, msg)
	return m, m.flush()
}

func (m *Model) handleMouse(x, y int, msg tea.MouseMsg) {
	switch msg.Type {
	case tea.MouseWheelUp:
		m.MoveCursor(-1)
	case tea.MouseWheelDown:
		m.MoveCursor(1)
	case tea.MouseRelease:
		m.pressed = false
	case tea.MouseLeft:
		// Drags report MouseLeft for every cell crossed; only the press acts.
		if m.pressed {
			return
		}
		m.pressed = true
		m.refresh()
		if y == m.hits.headerLine {
			if s, ok := m.hits.headerAt(x); ok {
				if s.selectAll {
					m.SelectAllClick()
				} else {
					m.focusCol = m.columnIndex(s.property)
					m.HeaderClick(s.property)
				}
			}
			return
		}
		if pos, ok := m.hits.rowAt(y); ok {
			m.cursor = pos
			m.RowClick(pos)
		}
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.MoveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.MoveCursor(1)
	case key.Matches(msg, m.keys.Home):
		m.cursor = 0
	case key.Matches(msg, m.keys.End):
		m.cursor = max(len(m.rows)-1, 0)
	case key.Matches(msg, m.keys.Left):
		if m.focusCol > 0 {
			m.focusCol--
		}
	case key.Matches(msg, m.keys.Right):
		if m.focusCol < len(m.columns)-1 {
			m.focusCol++
		}
	case key.Matches(msg, m.keys.Sort):
		if m.focusCol >= 0 && m.focusCol < len(m.columns) {
			m.HeaderClick(m.columns[m.focusCol].Property)
		}
	case key.Matches(msg, m.keys.Select):
		m.RowClick(m.cursor)
	case key.Matches(msg, m.keys.SelectAll):
		m.SelectAllClick()
	}
}

// HeaderClick toggles the sort on property. Unknown and non-sortable
// columns are ignored. The selection is left untouched.
func (m *Model) HeaderClick(property string) bool {
	col, ok := findColumn(m.columns, property)
	if !ok || !col.Sortable {
		m.log.WithField("property", property).Debug("grid: header click ignored")
		return false
	}
	m.sort = m.sort.Toggle(property)
	m.log.WithFields(logrus.Fields{
		"property":  m.sort.Property,
		"direction": m.sort.Direction.String(),
	}).Debug("grid: sort changed")
	m.emit(Event{Kind: EventSort, Sort: m.sort})
	return true
}

// RowClick applies a selection click at display position pos and reports
// whether the selection changed.
func (m *Model) RowClick(pos int) bool {
	if m.mode == SelectNone || pos < 0 || pos >= len(m.rows) {
		return false
	}
	m.cursor = pos
	if !m.selection.Select(pos, m.mode) {
		return false
	}
	m.emitSelection()
	return true
}

// SelectAllClick selects every row, or clears the selection when every row
// is already selected. It only applies in multiple mode.
func (m *Model) SelectAllClick() bool {
	if m.mode != SelectMultiple {
		return false
	}
	if !m.selection.ToggleAll(len(m.rows)) {
		return false
	}
	m.emitSelection()
	return true
}

func (m *Model) MoveCursor(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) SetRows(rows []Record) {
	m.rows = rows
	if m.selection.Prune(len(rows)) {
		m.emitSelection()
	}
	m.clampCursor()
	if issues := Validate(m.columns, rows); len(issues) > 0 {
		m.log.WithField("issues", len(issues)).Debug("grid: rows replaced with data issues")
	}
}

// SetColumns replaces the column set. An active sort whose column is gone or
// no longer sortable is reset.
func (m *Model) SetColumns(columns []Column) {
	m.columns = columns
	if m.sort.Active() {
		if col, ok := findColumn(columns, m.sort.Property); !ok || !col.Sortable {
			m.sort = SortState{}
			m.emit(Event{Kind: EventSort, Sort: m.sort})
		}
	}
	if m.focusCol >= len(columns) {
		m.focusCol = max(len(columns)-1, 0)
	}
}

func (m *Model) SetSelectionMode(mode SelectionMode) {
	m.mode = mode
	if m.selection.Restrict(mode) {
		m.emitSelection()
	}
}

func (m *Model) SetShowHeader(show bool) { m.showHeader = show }
func (m *Model) SetTitle(title string)   { m.title = title }
func (m *Model) SetStyles(s Styles)      { m.styles = s }

// SetWidth sets the width in cells. A monitor owned by the grid is resized
// accordingly; a shared monitor is left to its owner.
func (m *Model) SetWidth(cells int) {
	m.width = cells
	if m.ownMonitor && cells > 0 {
		m.monitor.Resize(cells * m.unitsPerCell)
	}
}

func (m *Model) Focus()        { m.focused = true }
func (m *Model) Blur()         { m.focused = false }
func (m *Model) Focused() bool { return m.focused }

// Close releases the viewport subscription. A monitor created by the grid is
// closed too. Close is idempotent.
func (m *Model) Close() {
	if m.closed {
		return
	}
	m.closed = true
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.ownMonitor {
		m.monitor.Close()
	}
}

// Tree renders the current state as a node tree with handlers bound to m.
func (m *Model) Tree() *Node {
	cursor, focusCol := -1, -1
	if m.focused {
		cursor, focusCol = m.cursor, m.focusCol
	}
	return Render(Frame{
		Columns:     m.columns,
		Rows:        m.SortedRows(),
		Sort:        m.sort,
		Mode:        m.mode,
		Selected:    m.selection.Has,
		Layout:      m.layout,
		ShowHeader:  m.showHeader,
		Title:       m.title,
		Cursor:      cursor,
		FocusColumn: focusCol,
		Handlers: Handlers{
			HeaderClick: func(property string) { m.HeaderClick(property) },
			RowClick:    func(pos int) { m.RowClick(pos) },
			SelectAll:   func() { m.SelectAllClick() },
		},
	})
}

func (m *Model) View() string {
	return m.refresh()
}

func (m *Model) refresh() string {
	view, hits := draw(m.Tree(), drawer{
		styles:       m.styles,
		unitsPerCell: m.unitsPerCell,
		maxWidth:     m.width,
		mode:         m.mode,
		columns:      m.columns,
	})
	m.hits = hits
	return view
}

// CursorLines returns the first and last drawn line of the cursor row, for
// hosts that scroll the grid inside a viewport.
func (m *Model) CursorLines() (first, last int, ok bool) {
	m.refresh()
	first, ok = m.hits.firstLine[m.cursor]
	if !ok {
		return 0, 0, false
	}
	return first, m.hits.lastLine[m.cursor], true
}

// SortedRows returns the rows in display order.
func (m *Model) SortedRows() []Record {
	return Order(m.rows, m.sort)
}

// SelectedRecords resolves the selected positions against the current
// display order.
func (m *Model) SelectedRecords() []Record {
	sorted := m.SortedRows()
	var out []Record
	for _, pos := range m.selection.Positions() {
		if pos < len(sorted) {
			out = append(out, sorted[pos])
		}
	}
	return out
}

// CursorRecord returns the record under the cursor in display order.
func (m *Model) CursorRecord() (Record, bool) {
	sorted := m.SortedRows()
	if m.cursor < 0 || m.cursor >= len(sorted) {
		return nil, false
	}
	return sorted[m.cursor], true
}

func (m *Model) Selected() []int         { return m.selection.Positions() }
func (m *Model) IsSelected(pos int) bool { return m.selection.Has(pos) }
func (m *Model) SortState() SortState    { return m.sort }
func (m *Model) Layout() Layout          { return m.layout }
func (m *Model) Mode() SelectionMode     { return m.mode }
func (m *Model) RowIdentityKey() string  { return m.identityKey }
func (m *Model) Cursor() int             { return m.cursor }
func (m *Model) Columns() []Column       { return m.columns }
func (m *Model) Rows() []Record          { return m.rows }
func (m *Model) ShowHeader() bool        { return m.showHeader }
func (m *Model) Monitor() *Monitor       { return m.monitor }
func (m *Model) KeyMap() KeyMap          { return m.keys }

func (m *Model) FocusedColumn() (Column, bool) {
	if m.focusCol < 0 || m.focusCol >= len(m.columns) {
		return Column{}, false
	}
	return m.columns[m.focusCol], true
}

func (m *Model) setLayout(l Layout) {
	if l == m.layout {
		return
	}
	m.layout = l
	m.log.WithField("layout", l.String()).Debug("grid: layout changed")
	m.emit(Event{Kind: EventLayout, Layout: l})
}

func (m *Model) emitSelection() {
	m.emit(Event{Kind: EventSelection, Selected: m.selection.Positions()})
}

func (m *Model) emit(ev Event) {
	for _, fn := range m.observers {
		fn(ev)
	}
	if m.recording {
		m.pending = append(m.pending, ev)
	}
}

func (m *Model) flush() tea.Cmd {
	if len(m.pending) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(m.pending))
	for _, ev := range m.pending {
		ev := ev
		cmds = append(cmds, func() tea.Msg { return EventMsg{Event: ev} })
	}
	if len(cmds) == 1 {
		return cmds[0]
	}
	return tea.Sequence(cmds...)
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) columnIndex(property string) int {
	for i, col := range m.columns {
		if col.Property == property {
			return i
		}
	}
	return m.focusCol
}
