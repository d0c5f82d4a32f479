package grid

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func viewLines(m *Model) []string {
	return strings.Split(ansi.Strip(m.View()), "\n")
}

func TestDrawDesktop(t *testing.T) {
	m := New(scenarioColumns(), scenarioRows(), WithWidth(128))
	lines := viewLines(m)
	require.Len(t, lines, 4)

	assert.Equal(t, "Name            Age ↕ Email", strings.TrimRight(lines[0], " "))
	assert.True(t, strings.HasPrefix(lines[1], "───"))
	assert.Equal(t, "John         │     30│j@x", strings.TrimRight(lines[2], " "))
	assert.Equal(t, "Jane         │     25│j2@x", strings.TrimRight(lines[3], " "))
}

func TestDrawHitMap(t *testing.T) {
	m := New(scenarioColumns(), scenarioRows(), WithWidth(128), WithSelectionMode(SelectMultiple))
	m.View()

	assert.Equal(t, 0, m.hits.headerLine)

	s, ok := m.hits.headerAt(1)
	require.True(t, ok)
	assert.True(t, s.selectAll)

	s, ok = m.hits.headerAt(4)
	require.True(t, ok)
	assert.Equal(t, "name", s.property)

	s, ok = m.hits.headerAt(20)
	require.True(t, ok)
	assert.Equal(t, "age", s.property)

	_, ok = m.hits.headerAt(17)
	assert.False(t, ok, "gap between header cells")

	_, ok = m.hits.rowAt(1)
	assert.False(t, ok, "rule line")
	pos, ok := m.hits.rowAt(3)
	require.True(t, ok)
	assert.Equal(t, 1, pos)
}

func TestDrawTruncatesToWidth(t *testing.T) {
	m := New(scenarioColumns(), scenarioRows(), WithWidth(100))
	m.SetWidth(20)
	for _, line := range viewLines(m) {
		assert.LessOrEqual(t, ansi.StringWidth(line), 20, line)
	}
}

func TestDrawLongValueGetsEllipsis(t *testing.T) {
	columns := []Column{{HeaderName: "Name", Property: "name", Width: 48}}
	rows := RecordsFrom([]map[string]any{{"name": "Bartholomew"}})
	m := New(columns, rows, WithWidth(120))

	lines := viewLines(m)
	assert.Equal(t, "Barth…", lines[2])
}

func TestDrawCompact(t *testing.T) {
	m := New(scenarioColumns(), scenarioRows(), WithWidth(75), WithSelectionMode(SelectSingle))
	require.Equal(t, LayoutCompact, m.Layout())

	lines := viewLines(m)
	assert.Equal(t, "Details", lines[0])
	assert.Equal(t, "( ) Name : John", strings.TrimRight(lines[2], " "))
	assert.Equal(t, "    Age : 30", strings.TrimRight(lines[3], " "))
	assert.Equal(t, "    Email : j@x", strings.TrimRight(lines[4], " "))
	assert.Equal(t, "( ) Name : Jane", strings.TrimRight(lines[6], " "))

	pos, ok := m.hits.rowAt(4)
	require.True(t, ok)
	assert.Equal(t, 0, pos)
	_, ok = m.hits.rowAt(5)
	assert.False(t, ok, "separator")
	pos, _ = m.hits.rowAt(7)
	assert.Equal(t, 1, pos)
}

func TestDrawWithoutHeader(t *testing.T) {
	m := New(scenarioColumns(), scenarioRows(), WithWidth(128), WithShowHeader(false))
	lines := viewLines(m)
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "John"))
	assert.Equal(t, -1, m.hits.headerLine)
}
