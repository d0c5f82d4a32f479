package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/bekirdag/gridview/grid"
	"github.com/bekirdag/gridview/internal/config"
	"github.com/bekirdag/gridview/internal/export"
	"github.com/bekirdag/gridview/internal/source"
	"github.com/bekirdag/gridview/internal/telemetry"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/sirupsen/logrus"
)

const (
	topBarHeight    = 1
	statusBarHeight = 1
	minDetailHeight = 6
	defaultWidth    = 128
	defaultHeight   = 32
	wheelLines      = 3
)

type appOptions struct {
	Definition *config.Definition
	Table      *source.Table
	Source     source.Options
	Theme      string
	Width      int
	Height     int
	Telemetry  *telemetry.Logger
	Logger     logrus.FieldLogger
	Clipboard  func(string) error
}

// reloadMsg carries the result of re-reading the data source.
type reloadMsg struct {
	table *source.Table
	err   error
}

// changedMsg reports that the watched data file changed on disk.
type changedMsg struct{}

type app struct {
	grid   *grid.Model
	panel  *scrollPanel
	help   help.Model
	keys   keyMap
	styles styles
	md     *export.MarkdownRenderer

	def        *config.Definition
	source     source.Options
	sourceName string
	tel        *telemetry.Logger
	log        logrus.FieldLogger
	clipboard  func(string) error
	changes    <-chan struct{}
	now        func() time.Time

	width      int
	height     int
	showDetail bool
	detail     string

	toastMessage string
	toastError   bool
	toastExpires time.Time
}

func newApp(opts appOptions) *app {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	def := opts.Definition
	if def == nil {
		def = &config.Definition{}
	}
	var rows []grid.Record
	if opts.Table != nil {
		rows = opts.Table.Rows
	}
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = defaultWidth
	}
	if height <= 0 {
		height = defaultHeight
	}

	a := &app{
		help:       help.New(),
		styles:     newStyles(),
		md:         export.NewMarkdownRenderer(export.ParseTheme(opts.Theme), width-4),
		def:        def,
		source:     opts.Source,
		sourceName: filepath.Base(opts.Source.Path),
		tel:        opts.Telemetry,
		log:        log,
		clipboard:  opts.Clipboard,
		now:        time.Now,
	}
	if a.clipboard == nil {
		a.clipboard = clipboard.WriteAll
	}
	a.keys = newKeyMap(grid.DefaultKeyMap())
	a.panel = newScrollPanel("", a.styles)
	a.width, a.height = width, height
	a.layoutPanels()

	gridOpts := append(def.GridOptions(),
		grid.WithWidth(a.panel.ContentWidth()),
		grid.WithKeyMap(a.keys.grid),
		grid.WithLogger(log),
		grid.WithObserver(a.tel.GridEvent(a.sourceName)),
	)
	a.grid = grid.New(def.GridColumns(), rows, gridOpts...)
	a.sync()
	return a
}

func (a *app) Init() tea.Cmd {
	return a.waitForChange()
}

// Close releases the grid's viewport subscription.
func (a *app) Close() {
	a.grid.Close()
}

func (a *app) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return a, a.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		return a, a.handleKey(msg)
	case tea.MouseMsg:
		return a, a.handleMouse(msg)
	case grid.EventMsg:
		a.handleGridEvent(msg.Event)
		return a, nil
	case changedMsg:
		return a, tea.Batch(a.reloadCmd(), a.waitForChange())
	case reloadMsg:
		a.applyReload(msg)
		return a, nil
	}
	return a, nil
}

func (a *app) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, a.keys.quit):
		return tea.Quit
	case key.Matches(msg, a.keys.help):
		a.help.ShowAll = !a.help.ShowAll
		return a.resize(a.width, a.height)
	case key.Matches(msg, a.keys.detail):
		a.showDetail = !a.showDetail
		return a.resize(a.width, a.height)
	case key.Matches(msg, a.keys.copy):
		a.copySelection()
		return nil
	case key.Matches(msg, a.keys.reload):
		a.setToast("Reloading "+a.sourceName, false, 2*time.Second)
		return a.reloadCmd()
	case key.Matches(msg, a.keys.theme):
		theme := a.md.Theme().Next()
		a.md.SetTheme(theme)
		a.refreshDetail()
		a.setToast("Theme: "+string(theme), false, 3*time.Second)
		return nil
	case key.Matches(msg, a.keys.pageUp):
		a.grid.MoveCursor(-a.pageRows())
		a.sync()
		return nil
	case key.Matches(msg, a.keys.pageDown):
		a.grid.MoveCursor(a.pageRows())
		a.sync()
		return nil
	}
	_, cmd := a.grid.Update(msg)
	a.sync()
	return cmd
}

// handleMouse scrolls the grid panel on wheel events and forwards clicks
// inside it, translated to grid coordinates. Releases always reach the grid
// so a press dragged off the panel does not stay held.
func (a *app) handleMouse(msg tea.MouseMsg) tea.Cmd {
	x, y, ok := a.panel.ContentAt(msg.X, msg.Y-topBarHeight)
	switch msg.Type {
	case tea.MouseWheelUp, tea.MouseWheelDown:
		if !ok {
			return nil
		}
		if msg.Type == tea.MouseWheelUp {
			a.panel.Scroll(-wheelLines)
		} else {
			a.panel.Scroll(wheelLines)
		}
		return nil
	case tea.MouseRelease:
		_, cmd := a.grid.HandleMouse(x, y, msg)
		return cmd
	}
	if !ok {
		return nil
	}
	_, cmd := a.grid.HandleMouse(x, y, msg)
	a.sync()
	return cmd
}

func (a *app) handleGridEvent(ev grid.Event) {
	switch ev.Kind {
	case grid.EventSort:
		if ev.Sort.Active() {
			a.setToast(fmt.Sprintf("Sorted by %s (%s)", a.columnTitle(ev.Sort.Property), ev.Sort.Direction), false, 3*time.Second)
		} else {
			a.setToast("Sort cleared", false, 3*time.Second)
		}
	case grid.EventSelection:
		a.setToast(fmt.Sprintf("%d selected", len(ev.Selected)), false, 2*time.Second)
	case grid.EventLayout:
		a.setToast("Layout: "+ev.Layout.String(), false, 2*time.Second)
	}
	a.log.WithField("kind", ev.Kind.String()).Debug("gridview: grid event")
	a.refreshDetail()
	a.sync()
}

func (a *app) columnTitle(property string) string {
	for _, col := range a.grid.Columns() {
		if col.Property == property {
			return col.Title()
		}
	}
	return property
}

func (a *app) waitForChange() tea.Cmd {
	if a.changes == nil {
		return nil
	}
	changes := a.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return changedMsg{}
	}
}

func (a *app) reloadCmd() tea.Cmd {
	opts := a.source
	return func() tea.Msg {
		table, err := source.Load(context.Background(), opts)
		return reloadMsg{table: table, err: err}
	}
}

func (a *app) applyReload(msg reloadMsg) {
	if msg.err != nil {
		a.log.WithError(msg.err).Warn("gridview: reload failed")
		a.setToast("Reload failed: "+msg.err.Error(), true, 5*time.Second)
		return
	}
	a.grid.SetRows(msg.table.Rows)
	a.tel.Emit(telemetry.Event{
		Event:  telemetry.EventReload,
		Source: a.sourceName,
		Extra:  map[string]string{"rows": strconv.Itoa(len(msg.table.Rows))},
	})
	a.log.WithField("rows", len(msg.table.Rows)).Info("gridview: data reloaded")
	a.setToast(fmt.Sprintf("Reloaded %d rows", len(msg.table.Rows)), false, 3*time.Second)
	a.refreshDetail()
	a.sync()
}

// copySelection puts the selected rows, or the cursor row when nothing is
// selected, on the clipboard as TSV.
func (a *app) copySelection() {
	rows := a.grid.SelectedRecords()
	if len(rows) == 0 {
		if row, ok := a.grid.CursorRecord(); ok {
			rows = []grid.Record{row}
		}
	}
	if len(rows) == 0 {
		a.setToast("Nothing to copy", false, 3*time.Second)
		return
	}
	if err := a.clipboard(export.TSV(a.grid.Columns(), rows)); err != nil {
		a.log.WithError(err).Warn("gridview: copy failed")
		a.setToast("Clipboard unavailable", true, 4*time.Second)
		return
	}
	a.tel.Emit(telemetry.Event{
		Event:  telemetry.EventCopy,
		Source: a.sourceName,
		Extra:  map[string]string{"rows": strconv.Itoa(len(rows))},
	})
	a.setToast(fmt.Sprintf("Copied %d row(s)", len(rows)), false, 3*time.Second)
}

func (a *app) setToast(msg string, isErr bool, duration time.Duration) {
	trimmed := strings.TrimSpace(msg)
	if trimmed == "" {
		a.toastMessage = ""
		a.toastExpires = time.Time{}
		return
	}
	if duration <= 0 {
		duration = 5 * time.Second
	}
	a.toastMessage = trimmed
	a.toastError = isErr
	a.toastExpires = a.now().Add(duration)
}

// resize lays the screen out again. The grid receives the panel's content
// size, so a layout change surfaces as a grid event.
func (a *app) resize(width, height int) tea.Cmd {
	a.width, a.height = width, height
	a.layoutPanels()
	_, cmd := a.grid.Update(tea.WindowSizeMsg{
		Width:  a.panel.ContentWidth(),
		Height: a.panel.ContentHeight(),
	})
	a.md.SetWordWrap(width - 4)
	a.refreshDetail()
	a.sync()
	return cmd
}

func (a *app) layoutPanels() {
	a.help.Width = max(a.width-2, 0)
	helpHeight := lipgloss.Height(a.help.View(a.keys))
	panelHeight := a.height - topBarHeight - statusBarHeight - helpHeight - a.detailHeight()
	a.panel.SetSize(a.width, panelHeight)
}

func (a *app) detailHeight() int {
	if !a.showDetail {
		return 0
	}
	return max(a.height/3, minDetailHeight)
}

// sync redraws the grid into the panel and scrolls the cursor row into
// view. The header stays visible while the cursor is on the first row.
func (a *app) sync() {
	a.panel.SetContent(a.grid.View())
	first, last, ok := a.grid.CursorLines()
	if !ok {
		return
	}
	if a.grid.Cursor() == 0 {
		first = 0
	}
	a.panel.EnsureVisible(first, last)
	a.panel.SetTitle(a.panelTitle())
}

func (a *app) pageRows() int {
	first, last, ok := a.grid.CursorLines()
	perRow := 1
	if ok {
		perRow = last - first + 1
	}
	return max(a.panel.ContentHeight()/perRow, 1)
}

func (a *app) panelTitle() string {
	rows := len(a.grid.Rows())
	title := fmt.Sprintf("%d rows", rows)
	if rows == 1 {
		title = "1 row"
	}
	if col, ok := a.grid.FocusedColumn(); ok && a.grid.Layout() == grid.LayoutDesktop {
		title += " • column: " + col.Title()
	}
	return title
}

// refreshDetail re-renders the detail pane: the selected records, or the
// cursor record when nothing is selected.
func (a *app) refreshDetail() {
	if !a.showDetail {
		a.detail = ""
		return
	}
	title := "Selection"
	rows := a.grid.SelectedRecords()
	if len(rows) == 0 {
		title = "Current row"
		if row, ok := a.grid.CursorRecord(); ok {
			rows = []grid.Record{row}
		}
	}
	a.detail = a.md.Render(export.RecordMarkdown(title, a.grid.Columns(), rows))
}

func (a *app) View() string {
	var b strings.Builder

	title := "gridview"
	if a.def.Title != "" {
		title += " • " + a.def.Title
	}
	if a.sourceName != "" && a.sourceName != "." {
		title += " • " + a.sourceName
	}
	inner := max(a.width-a.styles.topBar.GetHorizontalFrameSize(), 0)
	b.WriteString(a.styles.topBar.Width(a.width).Render(ansi.Truncate(title, inner, "…")))
	b.WriteRune('\n')

	b.WriteString(a.panel.View())
	b.WriteRune('\n')

	if a.showDetail {
		b.WriteString(a.renderDetail())
		b.WriteRune('\n')
	}

	if helpView := a.help.View(a.keys); helpView != "" {
		b.WriteString(" " + helpView)
		if !strings.HasSuffix(helpView, "\n") {
			b.WriteRune('\n')
		}
	}
	b.WriteString(a.renderStatus())
	return a.styles.app.Render(b.String())
}

func (a *app) renderDetail() string {
	height := max(a.detailHeight()-a.styles.detail.GetVerticalFrameSize(), 1)
	width := max(a.width-a.styles.detail.GetHorizontalFrameSize(), 1)
	lines := strings.Split(strings.Trim(a.detail, "\n"), "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = ansi.Truncate(line, width, "")
	}
	return a.styles.detail.Width(width).Render(strings.Join(lines, "\n"))
}

func (a *app) renderStatus() string {
	segments := []string{
		a.styles.statusSeg.Render(a.selectionSummary()),
	}
	if s := a.grid.SortState(); s.Active() {
		segments = append(segments, a.styles.statusSeg.Render(fmt.Sprintf("Sort: %s %s", a.columnTitle(s.Property), sortArrow(s.Direction))))
	}
	segments = append(segments,
		a.styles.statusSeg.Render("Layout: "+a.grid.Layout().String()),
		a.styles.statusSeg.Render(a.panel.Position()),
	)
	if a.toastMessage != "" {
		if a.now().After(a.toastExpires) {
			a.toastMessage = ""
		} else if a.toastError {
			segments = append(segments, a.styles.statusError.Render(a.toastMessage))
		} else {
			segments = append(segments, a.styles.statusHint.Render(a.toastMessage))
		}
	}
	line := strings.Join(segments, "")
	inner := max(a.width-a.styles.statusBar.GetHorizontalFrameSize(), 0)
	return a.styles.statusBar.Render(ansi.Truncate(line, inner, "…"))
}

func (a *app) selectionSummary() string {
	switch a.grid.Mode() {
	case grid.SelectNone:
		return "Selection: off"
	default:
		return fmt.Sprintf("Selected: %d/%d", len(a.grid.Selected()), len(a.grid.Rows()))
	}
}

func sortArrow(d grid.Direction) string {
	if d == grid.Descending {
		return grid.GlyphDescending
	}
	return grid.GlyphAscending
}
