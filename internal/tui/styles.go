package tui

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	colorAccent = lipgloss.Color("#8BC34A")
	colorPulse  = lipgloss.Color("#e53935")
	colorMuted  = lipgloss.Color("#6b7280")
	colorBorder = lipgloss.Color("#2a3850")
	colorText   = lipgloss.Color("#f2f2f2")
)

// Styles holds the lipgloss styles of the browse screen.
type Styles struct {
	Title        lipgloss.Style
	Badge        lipgloss.Style
	BadgeAnimate lipgloss.Style
	BadgePulse   lipgloss.Style
	Card         lipgloss.Style
	CardSelected lipgloss.Style
	Control      lipgloss.Style
	Disabled     lipgloss.Style
	Section      lipgloss.Style
	Muted        lipgloss.Style
	Cursor       lipgloss.Style
	Help         lipgloss.Style
}

// DefaultStyles returns the browse screen styles.
func DefaultStyles() Styles {
	card := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1).
		Width(22)

	return Styles{
		Title:        lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Badge:        lipgloss.NewStyle().Foreground(colorText),
		BadgeAnimate: lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		BadgePulse:   lipgloss.NewStyle().Bold(true).Reverse(true).Foreground(colorPulse),
		Card:         card,
		CardSelected: card.BorderForeground(colorAccent),
		Control:      lipgloss.NewStyle().Bold(true).Foreground(colorText),
		Disabled:     lipgloss.NewStyle().Foreground(colorMuted),
		Section:      lipgloss.NewStyle().Bold(true).Underline(true).MarginTop(1),
		Muted:        lipgloss.NewStyle().Foreground(colorMuted),
		Cursor:       lipgloss.NewStyle().Bold(true).Foreground(colorAccent),
		Help:         lipgloss.NewStyle().Foreground(colorMuted).MarginTop(1),
	}
}
