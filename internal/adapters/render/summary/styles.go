package summary

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	section    lipgloss.Style
	vendor     lipgloss.Style
	success    lipgloss.Style
	failure    lipgloss.Style
	warning    lipgloss.Style
	empty      lipgloss.Style
	message    lipgloss.Style
	barBracket lipgloss.Style
	barFill    lipgloss.Style
	barEmpty   lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section:    lipgloss.NewStyle().MarginTop(1),
		vendor:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		success:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		failure:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		empty:      lipgloss.NewStyle().Faint(true),
		message:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).PaddingLeft(2),
		barBracket: lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
		barFill:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		barEmpty:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
	}
}
