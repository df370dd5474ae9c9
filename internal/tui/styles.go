package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorAccent = lipgloss.Color("#C89A3A")
	colorText   = lipgloss.Color("#F0F0F0")
	colorMuted  = lipgloss.Color("#8C8C8C")
	colorBorder = lipgloss.Color("#4A4A4A")
	colorError  = lipgloss.Color("#FF4D4F")

	activeNavStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(colorAccent)
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(colorBorder)

	labelStyle        = lipgloss.NewStyle().Foreground(colorMuted)
	focusedLabelStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	selectorStyle     = lipgloss.NewStyle().Foreground(colorText)
	unitStyle         = lipgloss.NewStyle().Foreground(colorMuted)
	drivingStyle      = lipgloss.NewStyle().Foreground(colorAccent)

	cardStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(colorBorder)
	cardTitleStyle = lipgloss.NewStyle().Foreground(colorMuted)
	cardValueStyle = lipgloss.NewStyle().Foreground(colorText).Bold(true)

	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	statusStyle = lipgloss.NewStyle().Foreground(colorMuted)
	errorStyle  = lipgloss.NewStyle().Foreground(colorError)
	barStyle    = lipgloss.NewStyle().Foreground(colorAccent)
	formStyle   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(colorAccent).
			Padding(1, 2)
)
