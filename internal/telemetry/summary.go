package telemetry

import (
	"bufio"
	"encoding/json"
	"io"
	"sort"
	"strings"
	"time"
)

type Summary struct {
	Events     int            `json:"events"`
	Sessions   int            `json:"sessions"`
	Users      []string       `json:"users,omitempty"`
	ByEvent    map[string]int `json:"by_event"`
	SortKeys   map[string]int `json:"sort_keys"`
	Layouts    map[string]int `json:"layouts"`
	Selections int            `json:"selections"`
	MaxChosen  int            `json:"max_selected"`
	FirstSeen  time.Time      `json:"first_seen"`
	LastSeen   time.Time      `json:"last_seen"`
	Malformed  []int          `json:"malformed_lines,omitempty"`
}

// Summarize aggregates a JSON-lines event log. Lines that do not decode are
// counted by line number and skipped.
func Summarize(r io.Reader) (Summary, error) {
	summary := Summary{
		ByEvent:  map[string]int{},
		SortKeys: map[string]int{},
		Layouts:  map[string]int{},
	}
	sessions := map[string]struct{}{}
	users := map[string]struct{}{}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(line), &ev); err != nil || ev.Event == "" {
			summary.Malformed = append(summary.Malformed, lineNo)
			continue
		}

		summary.Events++
		summary.ByEvent[ev.Event]++
		if ev.SessionID != "" {
			sessions[ev.SessionID] = struct{}{}
		}
		if ev.UserID != "" {
			users[ev.UserID] = struct{}{}
		}
		switch ev.Event {
		case EventSort:
			if ev.Property != "" {
				summary.SortKeys[ev.Property]++
			}
		case EventLayout:
			if ev.Layout != "" {
				summary.Layouts[ev.Layout]++
			}
		case EventSelect:
			summary.Selections++
			if ev.Selected != nil && *ev.Selected > summary.MaxChosen {
				summary.MaxChosen = *ev.Selected
			}
		}
		if !ev.Timestamp.IsZero() {
			if summary.FirstSeen.IsZero() || ev.Timestamp.Before(summary.FirstSeen) {
				summary.FirstSeen = ev.Timestamp
			}
			if ev.Timestamp.After(summary.LastSeen) {
				summary.LastSeen = ev.Timestamp
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return summary, err
	}

	summary.Sessions = len(sessions)
	for user := range users {
		summary.Users = append(summary.Users, user)
	}
	sort.Strings(summary.Users)
	return summary, nil
}

// Ranked returns the keys of counts ordered by descending count, then name.
func Ranked(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
