package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Title    lipgloss.Style
	Muted    lipgloss.Style
	Success  lipgloss.Style
	Error    lipgloss.Style
	Own      lipgloss.Style
	Peer     lipgloss.Style
	Edited   lipgloss.Style
	Composer lipgloss.Style
}

// Palette returns the light or dark theme.
func Palette(dark bool) Styles {
	fg, muted, accent, own, peer := lipgloss.Color("#1f2937"), lipgloss.Color("#6b7280"), lipgloss.Color("#2563eb"), lipgloss.Color("#1e40af"), lipgloss.Color("#374151")
	if dark {
		fg, muted, accent, own, peer = lipgloss.Color("#e5e7eb"), lipgloss.Color("#9ca3af"), lipgloss.Color("#60a5fa"), lipgloss.Color("#93c5fd"), lipgloss.Color("#d1d5db")
	}
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(accent),
		Muted:    lipgloss.NewStyle().Foreground(muted),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#16a34a")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#dc2626")),
		Own:      lipgloss.NewStyle().Foreground(own),
		Peer:     lipgloss.NewStyle().Foreground(peer),
		Edited:   lipgloss.NewStyle().Italic(true).Foreground(muted),
		Composer: lipgloss.NewStyle().Foreground(fg).BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(muted),
	}
}
