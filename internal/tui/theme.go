package tui

import "github.com/charmbracelet/lipgloss"

// Catppuccin Mocha, the subset the card uses.
const (
	colorPink     lipgloss.Color = "#f5c2e7"
	colorMauve    lipgloss.Color = "#cba6f7"
	colorYellow   lipgloss.Color = "#f9e2af"
	colorLavender lipgloss.Color = "#b4befe"
	colorText     lipgloss.Color = "#cdd6f4"
	colorOverlay1 lipgloss.Color = "#7f849c"
	colorSurface0 lipgloss.Color = "#313244"
	colorBase     lipgloss.Color = "#1e1e2e"
)

const (
	colorFront  = colorPink
	colorBack   = colorLavender
	colorAccent = colorMauve
	colorHint   = colorYellow
	colorMuted  = colorOverlay1
)

var (
	frontStyle = lipgloss.NewStyle().Foreground(colorFront)
	backStyle  = lipgloss.NewStyle().Foreground(colorBack)

	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorHint).
			Foreground(colorText).
			Background(colorBase).
			Padding(0, 2)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Foreground(colorText).
			Background(colorSurface0).
			Padding(1, 4).
			Align(lipgloss.Center)

	modalTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	helpStyle       = lipgloss.NewStyle().Foreground(colorMuted)
)
