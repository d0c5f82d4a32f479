package grid

import "github.com/charmbracelet/lipgloss"

var palette = struct {
	text, textMuted, border, selection, accent lipgloss.AdaptiveColor
}{
	text:      lipgloss.AdaptiveColor{Light: "#1F1F24", Dark: "#E6E6EA"},
	textMuted: lipgloss.AdaptiveColor{Light: "#6B6B76", Dark: "#8A8A96"},
	border:    lipgloss.AdaptiveColor{Light: "#C9C9D1", Dark: "#3C3C46"},
	selection: lipgloss.AdaptiveColor{Light: "#EFEDFD", Dark: "#3B3566"},
	accent:    lipgloss.AdaptiveColor{Light: "#5A3FD8", Dark: "#A594F9"},
}

// Styles are applied per drawn line. Cells are laid out as plain text first,
// so a row style covers the whole row including its dividers.
type Styles struct {
	Header, HeaderFocused, HeaderRule lipgloss.Style
	Title                             lipgloss.Style
	Row, RowSelected                  lipgloss.Style
	RowCursor, RowSelectedCursor      lipgloss.Style
	CompactSeparator                  lipgloss.Style
}

func DefaultStyles() Styles {
	base := lipgloss.NewStyle()

	return Styles{
		Header:            base.Copy().Bold(true).Foreground(palette.textMuted),
		HeaderFocused:     base.Copy().Bold(true).Underline(true).Foreground(palette.accent),
		HeaderRule:        base.Copy().Foreground(palette.border),
		Title:             base.Copy().Bold(true).Foreground(palette.text),
		Row:               base.Copy().Foreground(palette.text),
		RowSelected:       base.Copy().Foreground(palette.text).Background(palette.selection),
		RowCursor:         base.Copy().Bold(true).Foreground(palette.accent),
		RowSelectedCursor: base.Copy().Bold(true).Foreground(palette.accent).Background(palette.selection),
		CompactSeparator:  base.Copy().Foreground(palette.border),
	}
}
