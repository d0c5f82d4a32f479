// Package telemetry records grid interactions as JSON lines and summarizes
// the resulting logs.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/bekirdag/gridview/grid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	EventSort   = "sort"
	EventSelect = "select"
	EventLayout = "layout"
	EventCopy   = "copy"
	EventReload = "reload"
	EventExport = "export"
)

type Event struct {
	SessionID string            `json:"session_id"`
	UserID    string            `json:"user_id,omitempty"`
	Timestamp time.Time         `json:"timestamp"`
	Event     string            `json:"event"`
	Source    string            `json:"source,omitempty"`
	Property  string            `json:"property,omitempty"`
	Direction string            `json:"direction,omitempty"`
	Selected  *int              `json:"selected,omitempty"`
	Layout    string            `json:"layout,omitempty"`
	Extra     map[string]string `json:"extra,omitempty"`
}

// Logger appends events to a file. A nil *Logger discards everything, so
// callers need not check whether telemetry is enabled.
type Logger struct {
	sessionID string
	userID    string
	now       func() time.Time
	log       logrus.FieldLogger

	mu   sync.Mutex
	file *os.File
	enc  *json.Encoder
}

// NewLogger opens path for appending, creating its directory as needed.
func NewLogger(path, userID string, log logrus.FieldLogger) (*Logger, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open telemetry log: %w", err)
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Logger{
		sessionID: uuid.NewString(),
		userID:    strings.TrimSpace(userID),
		now:       func() time.Time { return time.Now().UTC() },
		log:       log,
		file:      f,
		enc:       json.NewEncoder(f),
	}, nil
}

func (t *Logger) SessionID() string {
	if t == nil {
		return ""
	}
	return t.sessionID
}

// Emit writes one event line. Events without a name, and events emitted
// after Close, are dropped. Write failures are logged, never returned.
func (t *Logger) Emit(event Event) {
	if t == nil || strings.TrimSpace(event.Event) == "" {
		return
	}
	t.stamp(&event)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.enc == nil {
		return
	}
	if err := t.enc.Encode(event); err != nil {
		t.log.WithError(err).WithField("event", event.Event).Warn("telemetry: write event")
	}
}

// stamp fills the session, user and time an event was not given.
func (t *Logger) stamp(event *Event) {
	if event.SessionID == "" {
		event.SessionID = t.sessionID
	}
	if strings.TrimSpace(event.UserID) == "" {
		event.UserID = t.userID
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = t.now()
	}
	if len(event.Extra) == 0 {
		event.Extra = nil
	}
}

// Close closes the log file. It is safe on a nil Logger and when called
// more than once.
func (t *Logger) Close() error {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.file == nil {
		return nil
	}
	err := t.file.Close()
	t.file, t.enc = nil, nil
	return err
}

// GridEvent records a grid state change. It fits grid.WithObserver.
func (t *Logger) GridEvent(source string) func(grid.Event) {
	return func(ev grid.Event) {
		out := Event{Source: source}
		switch ev.Kind {
		case grid.EventSort:
			out.Event = EventSort
			out.Property = ev.Sort.Property
			if ev.Sort.Active() {
				out.Direction = ev.Sort.Direction.String()
			}
		case grid.EventSelection:
			out.Event = EventSelect
			n := len(ev.Selected)
			out.Selected = &n
		case grid.EventLayout:
			out.Event = EventLayout
			out.Layout = ev.Layout.String()
		default:
			return
		}
		t.Emit(out)
	}
}

// ResolveUserID picks the first non-empty of GRIDVIEW_USER, USER and
// USERNAME.
func ResolveUserID() string {
	for _, candidate := range []string{
		os.Getenv("GRIDVIEW_USER"),
		os.Getenv("USER"),
		os.Getenv("USERNAME"),
	} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
