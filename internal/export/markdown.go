package export

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bekirdag/gridview/grid"
	"github.com/charmbracelet/glamour"
)

type Theme string

const (
	ThemeAuto  Theme = "auto"
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func ParseTheme(value string) Theme {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "dark":
		return ThemeDark
	case "light":
		return ThemeLight
	default:
		return ThemeAuto
	}
}

func (t Theme) Next() Theme {
	switch t {
	case ThemeAuto:
		return ThemeDark
	case ThemeDark:
		return ThemeLight
	default:
		return ThemeAuto
	}
}

var markdownEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ")

// Markdown builds a pipe table. Right aligned columns get a ---: marker.
func Markdown(columns []grid.Column, rows []grid.Record) string {
	if len(columns) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("|")
	for _, col := range columns {
		fmt.Fprintf(&b, " %s |", markdownEscaper.Replace(col.Title()))
	}
	b.WriteString("\n|")
	for _, col := range columns {
		if col.Align == grid.AlignRight {
			b.WriteString(" ---: |")
		} else {
			b.WriteString(" --- |")
		}
	}
	b.WriteByte('\n')
	for _, row := range rows {
		b.WriteString("|")
		for _, cell := range cells(columns, row, markdownEscaper.Replace) {
			fmt.Fprintf(&b, " %s |", cell)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// RecordMarkdown lists each record as a heading followed by label/value
// bullets.
func RecordMarkdown(title string, columns []grid.Column, rows []grid.Record) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	if len(rows) == 0 {
		b.WriteString("_Nothing selected._\n")
		return b.String()
	}
	for i, row := range rows {
		fmt.Fprintf(&b, "## Record %d\n\n", i+1)
		for _, col := range columns {
			value := row.Cell(col.Property)
			if value == "" {
				value = "—"
			}
			fmt.Fprintf(&b, "- **%s**: %s\n", markdownEscaper.Replace(col.Title()), markdownEscaper.Replace(value))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// MarkdownRenderer caches a glamour renderer for a theme and wrap width.
type MarkdownRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	err      error
	theme    Theme
	wordWrap int
}

func NewMarkdownRenderer(theme Theme, wordWrap int) *MarkdownRenderer {
	if theme == "" {
		theme = ThemeAuto
	}
	return &MarkdownRenderer{theme: theme, wordWrap: wordWrap}
}

// Render returns glamour output for content, or content unchanged when the
// renderer cannot be built.
func (r *MarkdownRenderer) Render(content string) string {
	renderer := r.ensure()
	if renderer == nil {
		return content
	}
	out, err := renderer.Render(content)
	if err != nil {
		return content
	}
	return out
}

func (r *MarkdownRenderer) ensure() *glamour.TermRenderer {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.renderer != nil && r.err == nil {
		return r.renderer
	}
	options := []glamour.TermRendererOption{
		glamour.WithWordWrap(max(r.wordWrap, 0)),
	}
	switch r.theme {
	case ThemeLight:
		options = append(options, glamour.WithStandardStyle("light"))
	case ThemeDark:
		options = append(options, glamour.WithStandardStyle("dark"))
	default:
		options = append(options, glamour.WithAutoStyle())
	}
	r.renderer, r.err = glamour.NewTermRenderer(options...)
	if r.err != nil {
		return nil
	}
	return r.renderer
}

func (r *MarkdownRenderer) SetWordWrap(width int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width < 0 {
		width = 0
	}
	if r.wordWrap != width {
		r.wordWrap = width
		r.renderer = nil
	}
}

func (r *MarkdownRenderer) SetTheme(theme Theme) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if theme == "" {
		theme = ThemeAuto
	}
	if r.theme != theme {
		r.theme = theme
		r.renderer = nil
	}
}

func (r *MarkdownRenderer) Theme() Theme {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.theme
}

// RenderMarkdown renders content once with a fresh renderer.
func RenderMarkdown(content string, theme Theme, wordWrap int) string {
	return NewMarkdownRenderer(theme, wordWrap).Render(content)
}
