package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bekirdag/gridview/grid"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWritesEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.jsonl")
	logger, err := NewLogger(path, " alice ", nil)
	require.NoError(t, err)
	_, err = uuid.Parse(logger.SessionID())
	require.NoError(t, err)

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	logger.now = func() time.Time { return fixed }

	observe := logger.GridEvent("people.csv")
	observe(grid.Event{Kind: grid.EventSort, Sort: grid.SortState{Property: "age", Direction: grid.Descending}})
	observe(grid.Event{Kind: grid.EventSelection, Selected: []int{0, 2}})
	observe(grid.Event{Kind: grid.EventLayout, Layout: grid.LayoutCompact})
	logger.Emit(Event{Event: EventCopy, Extra: map[string]string{}})
	logger.Emit(Event{})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], `"event":"sort"`)
	assert.Contains(t, lines[0], `"direction":"descending"`)
	assert.Contains(t, lines[0], `"user_id":"alice"`)
	assert.Contains(t, lines[0], `"timestamp":"2024-05-01T12:00:00Z"`)
	assert.Contains(t, lines[1], `"selected":2`)
	assert.Contains(t, lines[2], `"layout":"compact"`)
	assert.NotContains(t, lines[3], `"extra"`)

	summary, err := Summarize(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, 4, summary.Events)
	assert.Equal(t, 1, summary.Sessions)
	assert.Equal(t, []string{"alice"}, summary.Users)
	assert.Equal(t, 1, summary.SortKeys["age"])
	assert.Equal(t, 2, summary.MaxChosen)

	require.NoError(t, logger.Close())
	require.NoError(t, logger.Close())
	logger.Emit(Event{Event: EventCopy})
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, after, "events after Close are dropped")
}

func TestLoggerAppendsAcrossSessions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	for i := 0; i < 2; i++ {
		logger, err := NewLogger(path, "bob", nil)
		require.NoError(t, err)
		logger.Emit(Event{Event: EventReload})
		require.NoError(t, logger.Close())
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	summary, err := Summarize(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Events)
	assert.Equal(t, 2, summary.Sessions)
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	assert.NotPanics(t, func() {
		logger.Emit(Event{Event: EventCopy})
		logger.GridEvent("x")(grid.Event{Kind: grid.EventSort})
	})
	assert.Empty(t, logger.SessionID())
	assert.NoError(t, logger.Close())
}

func TestSummarize(t *testing.T) {
	log := strings.Join([]string{
		`{"session_id":"a","timestamp":"2024-05-01T12:00:00Z","event":"sort","property":"age"}`,
		`not json`,
		``,
		`{"session_id":"a","timestamp":"2024-05-01T11:00:00Z","event":"sort","property":"name"}`,
		`{"session_id":"b","timestamp":"2024-05-01T13:00:00Z","event":"sort","property":"age"}`,
		`{"session_id":"b","timestamp":"2024-05-01T13:30:00Z","event":"layout","layout":"compact"}`,
		`{"session_id":"b","event":"select","selected":3}`,
		`{"session_id":"b"}`,
	}, "\n")

	summary, err := Summarize(strings.NewReader(log))
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Events)
	assert.Equal(t, 2, summary.Sessions)
	assert.Equal(t, map[string]int{"sort": 3, "layout": 1, "select": 1}, summary.ByEvent)
	assert.Equal(t, []string{"age", "name"}, Ranked(summary.SortKeys))
	assert.Equal(t, 1, summary.Layouts["compact"])
	assert.Equal(t, 1, summary.Selections)
	assert.Equal(t, 3, summary.MaxChosen)
	assert.Equal(t, []int{2, 8}, summary.Malformed)
	assert.Equal(t, time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), summary.FirstSeen)
	assert.Equal(t, time.Date(2024, 5, 1, 13, 30, 0, 0, time.UTC), summary.LastSeen)
}
