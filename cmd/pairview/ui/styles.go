package ui

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("#bb86fc")
	errRed = lipgloss.Color("#cf6679")
	okGrn  = lipgloss.Color("#03dac6")
	dimmed = lipgloss.Color("240")

	titleStyle = lipgloss.NewStyle().Foreground(accent).Bold(true)

	statusInfoStyle  = lipgloss.NewStyle().Foreground(accent)
	statusErrorStyle = lipgloss.NewStyle().Foreground(errRed)

	connectedDot    = lipgloss.NewStyle().Foreground(okGrn).Render("●")
	disconnectedDot = lipgloss.NewStyle().Foreground(errRed).Render("●")

	timestampStyle   = lipgloss.NewStyle().Foreground(dimmed)
	placeholderStyle = lipgloss.NewStyle().Foreground(dimmed).Italic(true)

	helpStyle = lipgloss.NewStyle().Foreground(dimmed)
)
