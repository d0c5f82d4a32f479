package main

import (
	"fmt"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numberedLines(n int) string {
	lines := make([]string, n)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %02d", i)
	}
	return strings.Join(lines, "\n")
}

func TestScrollPanelMetrics(t *testing.T) {
	p := newScrollPanel("Records", newStyles())
	p.SetSize(40, 10)

	assert.Equal(t, 37, p.ContentWidth())
	assert.Equal(t, 7, p.ContentHeight())

	view := ansi.Strip(p.View())
	lines := strings.Split(view, "\n")
	require.Len(t, lines, 10)
	assert.Contains(t, lines[1], "Records")
	for _, line := range lines {
		assert.Equal(t, 40, ansi.StringWidth(line))
	}
}

func TestScrollPanelContentAt(t *testing.T) {
	p := newScrollPanel("Records", newStyles())
	p.SetSize(40, 10)
	p.SetContent(numberedLines(30))

	tests := []struct {
		name         string
		x, y         int
		wantX, wantY int
		ok           bool
	}{
		{name: "first content cell", x: 1, y: 2, wantX: 0, wantY: 0, ok: true},
		{name: "last visible line", x: 10, y: 8, wantX: 9, wantY: 6, ok: true},
		{name: "title row", x: 1, y: 1, ok: false},
		{name: "left border", x: 0, y: 3, ok: false},
		{name: "scroll bar", x: 38, y: 3, ok: false},
		{name: "bottom border", x: 5, y: 9, ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y, ok := p.ContentAt(tt.x, tt.y)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.wantX, x)
				assert.Equal(t, tt.wantY, y)
			}
		})
	}

	p.Scroll(5)
	_, y, ok := p.ContentAt(1, 2)
	require.True(t, ok)
	assert.Equal(t, 5, y, "scrolled lines are counted")
}

func TestScrollPanelEnsureVisible(t *testing.T) {
	p := newScrollPanel("", newStyles())
	p.SetSize(40, 10)
	p.SetContent(numberedLines(30))
	require.Equal(t, 7, p.ContentHeight())

	p.EnsureVisible(10, 12)
	assert.Equal(t, 6, p.YOffset(), "scrolled just far enough to show the last line")

	p.EnsureVisible(8, 8)
	assert.Equal(t, 6, p.YOffset(), "already visible")

	p.EnsureVisible(2, 3)
	assert.Equal(t, 2, p.YOffset())

	p.EnsureVisible(20, 40)
	assert.Equal(t, 20, p.YOffset(), "tall spans keep their first line")

	assert.Equal(t, "lines 21-27/30", p.Position())
}

func TestScrollPanelScrollBar(t *testing.T) {
	p := newScrollPanel("", newStyles())
	p.SetSize(40, 10)

	p.SetContent(numberedLines(3))
	bar := p.renderScrollBar(7)
	require.Len(t, bar, 7)
	for _, cell := range bar {
		assert.Equal(t, "│", ansi.Strip(cell))
	}

	p.SetContent(numberedLines(70))
	p.Scroll(1000)
	assert.Equal(t, 63, p.YOffset())
	assert.Equal(t, "lines 64-70/70", p.Position())
}

func TestScrollPanelShrinkClampsOffset(t *testing.T) {
	p := newScrollPanel("", newStyles())
	p.SetSize(40, 10)
	p.SetContent(numberedLines(30))
	p.Scroll(100)
	require.Equal(t, 23, p.YOffset())

	p.SetContent(numberedLines(10))
	assert.Equal(t, 3, p.YOffset())
}
