package main

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.AdaptiveColor{Light: "#5A3FD8", Dark: "#A594F9"}
	colorFaint  = lipgloss.AdaptiveColor{Light: "#A0A0AA", Dark: "#4A4A55"}
	colorError  = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
)

type styles struct {
	app, topBar                      lipgloss.Style
	panel, panelTitle                lipgloss.Style
	scrollTrack, scrollThumb         lipgloss.Style
	detail, detailTitle              lipgloss.Style
	statusBar, statusSeg, statusHint lipgloss.Style
	statusError                      lipgloss.Style
}

func newStyles() styles {
	base := lipgloss.NewStyle()
	panelBorder := lipgloss.NormalBorder()

	return styles{
		app:         base,
		topBar:      base.Copy().Bold(true).Padding(0, 1),
		panel:       base.Copy().Border(panelBorder),
		panelTitle:  base.Copy().Bold(true).Padding(0, 1),
		scrollTrack: base.Copy().Foreground(colorFaint),
		scrollThumb: base.Copy().Foreground(colorAccent),
		detail:      base.Copy().Border(panelBorder),
		detailTitle: base.Copy().Bold(true).Padding(0, 1),
		statusBar:   base.Padding(0, 1),
		statusSeg:   base.Copy().MarginRight(2),
		statusHint:  base.Copy().Faint(true),
		statusError: base.Copy().Foreground(colorError),
	}
}
