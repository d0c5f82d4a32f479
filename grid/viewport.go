package grid

// Breakpoint and sizing defaults, in logical units.
const (
	// CompactBreakpoint is the first width that is not compact.
	CompactBreakpoint = 768

	// DefaultUnitsPerCell maps one terminal cell to logical units, so a
	// 96 column terminal sits exactly on the breakpoint.
	DefaultUnitsPerCell = 8

	// DefaultWidth is used until the first size notification arrives.
	DefaultWidth = 1024
)

// Layout is the viewport classification.
type Layout int

const (
	LayoutDesktop Layout = iota
	LayoutCompact
)

func (l Layout) String() string {
	if l == LayoutCompact {
		return "compact"
	}
	return "desktop"
}

// Classify returns LayoutCompact for widths below breakpoint.
func Classify(width, breakpoint int) Layout {
	if breakpoint <= 0 {
		breakpoint = CompactBreakpoint
	}
	if width < breakpoint {
		return LayoutCompact
	}
	return LayoutDesktop
}

// Monitor tracks the rendering surface width and notifies subscribers when
// its classification changes. It is driven from a single event loop and is
// not safe for concurrent use.
type Monitor struct {
	breakpoint int
	width      int
	layout     Layout
	subs       map[int]func(Layout)
	nextID     int
	closed     bool
}

func NewMonitor(width, breakpoint int) *Monitor {
	if breakpoint <= 0 {
		breakpoint = CompactBreakpoint
	}
	return &Monitor{
		breakpoint: breakpoint,
		width:      width,
		layout:     Classify(width, breakpoint),
		subs:       map[int]func(Layout){},
	}
}

func (m *Monitor) Layout() Layout  { return m.layout }
func (m *Monitor) Width() int      { return m.width }
func (m *Monitor) Breakpoint() int { return m.breakpoint }

// Subscribe registers fn for classification changes. The returned function
// removes the subscription; calling it more than once is harmless.
func (m *Monitor) Subscribe(fn func(Layout)) func() {
	if m.closed || fn == nil {
		return func() {}
	}
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	return func() {
		delete(m.subs, id)
	}
}

// Resize records a new width and reports whether the classification
// changed. Subscribers are only called on a change.
func (m *Monitor) Resize(width int) bool {
	if m.closed {
		return false
	}
	m.width = width
	next := Classify(width, m.breakpoint)
	if next == m.layout {
		return false
	}
	m.layout = next
	for _, id := range m.subscriberIDs() {
		if fn, ok := m.subs[id]; ok {
			fn(next)
		}
	}
	return true
}

// Close drops every subscription. Later resizes are ignored.
func (m *Monitor) Close() {
	m.closed = true
	m.subs = map[int]func(Layout){}
}

func (m *Monitor) Subscribers() int {
	return len(m.subs)
}

// subscriberIDs returns ids in registration order so notification order is
// deterministic.
func (m *Monitor) subscriberIDs() []int {
	ids := make([]int, 0, len(m.subs))
	for id := 0; id < m.nextID; id++ {
		if _, ok := m.subs[id]; ok {
			ids = append(ids, id)
		}
	}
	return ids
}
