// Package tui implements the Bubble Tea mark browser.
package tui

import "github.com/charmbracelet/lipgloss"

// Icons and symbols.
const iconDot = "•"

var (
	colorPrimary = lipgloss.Color("#7aa2f7")
	colorMuted   = lipgloss.Color("#565f89")
	colorSuccess = lipgloss.Color("#9ece6a")
	colorWarning = lipgloss.Color("#e0af68")
	colorError   = lipgloss.Color("#f7768e")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			Padding(0, 1)

	normalStyle   = lipgloss.NewStyle()
	selectedStyle = lipgloss.NewStyle().Foreground(colorPrimary)

	selectedBorderStyle = lipgloss.NewStyle().Foreground(colorPrimary)

	mutedStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	completedStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle   = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle     = lipgloss.NewStyle().Foreground(colorError)

	filterBarStyle = lipgloss.NewStyle().
			Foreground(colorWarning).
			Padding(0, 1)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Padding(0, 1)

	statusStyle = lipgloss.NewStyle().Padding(0, 1)
)

// priorityStyle returns the style for a priority badge: hot priorities
// stand out, cold ones fade.
func priorityStyle(p int) lipgloss.Style {
	switch {
	case p <= 1:
		return errorStyle
	case p == 2:
		return warningStyle
	default:
		return mutedStyle
	}
}
