package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// scrollPanel frames content that may be taller than the screen: a titled
// border around a viewport, with a scroll bar on the right edge.
type scrollPanel struct {
	title string
	view  viewport.Model

	width  int
	height int

	panelStyle       lipgloss.Style
	titleStyle       lipgloss.Style
	scrollTrackStyle lipgloss.Style
	scrollThumbStyle lipgloss.Style

	barWidth int

	contentWidth   int
	contentHeight  int
	contentOffsetX int
	contentOffsetY int
}

func newScrollPanel(title string, s styles) *scrollPanel {
	p := &scrollPanel{
		title:    title,
		view:     viewport.New(0, 0),
		barWidth: 1,
	}
	p.ApplyStyles(s)
	return p
}

func (p *scrollPanel) ApplyStyles(s styles) {
	p.panelStyle = s.panel
	p.titleStyle = s.panelTitle
	p.scrollTrackStyle = s.scrollTrack
	p.scrollThumbStyle = s.scrollThumb
	p.recalcMetrics()
}

func (p *scrollPanel) SetSize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 3 {
		height = 3
	}
	p.width = width
	p.height = height
	p.recalcMetrics()
}

func (p *scrollPanel) SetTitle(title string) {
	p.title = title
}

func (p *scrollPanel) recalcMetrics() {
	frameWidth := p.panelStyle.GetHorizontalFrameSize()
	frameHeight := p.panelStyle.GetVerticalFrameSize()

	innerWidth := p.width - frameWidth
	if innerWidth < p.barWidth+1 {
		innerWidth = p.barWidth + 1
	}
	p.contentWidth = innerWidth - p.barWidth

	innerHeight := p.height - frameHeight
	if innerHeight < 2 {
		innerHeight = 2
	}
	titleHeight := 1
	p.contentHeight = innerHeight - titleHeight

	p.contentOffsetX = p.panelStyle.GetBorderLeftSize() + p.panelStyle.GetPaddingLeft()
	p.contentOffsetY = p.panelStyle.GetBorderTopSize() + p.panelStyle.GetPaddingTop() + titleHeight

	p.view.Width = p.contentWidth
	p.view.Height = p.contentHeight
	p.clampOffset()
}

func (p *scrollPanel) clampOffset() {
	maxOffset := p.view.TotalLineCount() - p.view.Height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if p.view.YOffset > maxOffset {
		p.view.SetYOffset(maxOffset)
	}
}

func (p *scrollPanel) ContentWidth() int  { return p.contentWidth }
func (p *scrollPanel) ContentHeight() int { return p.contentHeight }
func (p *scrollPanel) YOffset() int       { return p.view.YOffset }

func (p *scrollPanel) SetContent(content string) {
	p.view.SetContent(content)
	p.clampOffset()
}

// EnsureVisible scrolls the least distance that brings content lines
// first..last into view. Spans taller than the panel keep their first line
// visible.
func (p *scrollPanel) EnsureVisible(first, last int) {
	height := p.view.Height
	if height <= 0 {
		return
	}
	offset := p.view.YOffset
	if last >= offset+height {
		offset = last - height + 1
	}
	if first < offset {
		offset = first
	}
	if offset != p.view.YOffset {
		p.view.SetYOffset(offset)
	}
}

// Scroll moves the viewport by delta lines.
func (p *scrollPanel) Scroll(delta int) {
	switch {
	case delta < 0:
		p.view.LineUp(-delta)
	case delta > 0:
		p.view.LineDown(delta)
	}
}

// ContentAt maps panel-local coordinates to a content position, counting
// lines scrolled out of view.
func (p *scrollPanel) ContentAt(localX, localY int) (x, y int, ok bool) {
	x = localX - p.contentOffsetX
	row := localY - p.contentOffsetY
	if x < 0 || x >= p.contentWidth || row < 0 || row >= p.contentHeight {
		return 0, 0, false
	}
	return x, p.view.YOffset + row, true
}

func (p *scrollPanel) View() string {
	title := ansi.Truncate(p.title, max(p.contentWidth+p.barWidth-p.titleStyle.GetHorizontalFrameSize(), 0), "…")
	body := lipgloss.JoinVertical(lipgloss.Left, p.titleStyle.Render(title), p.renderContent())
	return p.panelStyle.Width(p.contentWidth + p.barWidth).Render(body)
}

func (p *scrollPanel) renderContent() string {
	lines := strings.Split(p.view.View(), "\n")
	height := p.contentHeight
	if height < 1 {
		height = len(lines)
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]

	bar := p.renderScrollBar(height)
	for i := range lines {
		if gap := p.contentWidth - ansi.StringWidth(lines[i]); gap > 0 {
			lines[i] += strings.Repeat(" ", gap)
		}
		lines[i] += bar[i]
	}
	return strings.Join(lines, "\n")
}

func (p *scrollPanel) renderScrollBar(height int) []string {
	lines := make([]string, height)
	track := p.scrollTrackStyle.Render("│")
	thumb := p.scrollThumbStyle.Render("│")

	total := p.view.TotalLineCount()
	visible := p.view.Height
	if visible <= 0 {
		visible = height
	}
	if total <= visible || height <= 0 {
		for i := range lines {
			lines[i] = track
		}
		return lines
	}

	thumbHeight := int(math.Round(float64(visible) / float64(total) * float64(height)))
	if thumbHeight < 1 {
		thumbHeight = 1
	}
	maxOffset := total - visible
	offset := p.view.YOffset
	if offset < 0 {
		offset = 0
	}
	if offset > maxOffset {
		offset = maxOffset
	}
	ratio := float64(offset) / float64(maxOffset)
	thumbStart := int(math.Round(ratio * float64(height-thumbHeight)))
	if thumbStart+thumbHeight > height {
		thumbStart = height - thumbHeight
	}
	for i := 0; i < height; i++ {
		if i >= thumbStart && i < thumbStart+thumbHeight {
			lines[i] = thumb
		} else {
			lines[i] = track
		}
	}
	return lines
}

// Position describes the visible line range, e.g. "lines 1-20/48".
func (p *scrollPanel) Position() string {
	total := p.view.TotalLineCount()
	if total == 0 {
		return "empty"
	}
	start := p.view.YOffset + 1
	end := p.view.YOffset + p.view.Height
	if end > total {
		end = total
	}
	return fmt.Sprintf("lines %d-%d/%d", start, end, total)
}
