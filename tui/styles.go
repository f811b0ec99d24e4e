package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorPrimary = "#5B5BD6"
	colorAccent  = "#A5B4FC"
	colorError   = "#FECACA"
	colorMuted   = "#A9A9C8"
	colorText    = "#F4F4FF"
	colorBorder  = "#3F3F6B"
)

var (
	TitleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorAccent)).
		MarginBottom(1)

	LabelStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorMuted))

	FocusStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorText))

	ButtonStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorText)).
		Background(lipgloss.Color(colorPrimary)).
		Padding(0, 2)

	DisabledButtonStyle = ButtonStyle.
		Foreground(lipgloss.Color(colorMuted))

	ErrorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorError))

	HeadingStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color(colorText))

	BoxStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(colorBorder)).
		Padding(0, 1)

	HelpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color(colorMuted)).
		MarginTop(1)
)
