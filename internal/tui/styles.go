package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary   = lipgloss.Color("12")  // bright blue
	colorHighlight = lipgloss.Color("11")  // bright yellow
	colorDim       = lipgloss.Color("240") // gray

	styleQuestion = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleName = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true)

	styleHint = lipgloss.NewStyle().
			Foreground(colorDim)
)
