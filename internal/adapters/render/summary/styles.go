package summary

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title  lipgloss.Style
	course lipgloss.Style
	item   lipgloss.Style
	empty  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:  lipgloss.NewStyle().Bold(true),
		course: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("69")),
		item:   lipgloss.NewStyle(),
		empty:  lipgloss.NewStyle().Faint(true),
	}
}
