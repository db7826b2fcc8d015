package tui

import (
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

const defaultWidth = 80

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

func tableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("0")).
		Background(lipgloss.Color("4"))
	return s
}

func tabColumns(width int) []table.Column {
	name := width - 2 - 4 - 6 - 8
	if name < 10 {
		name = 10
	}
	return []table.Column{
		{Title: "", Width: 2},
		{Title: "Pos", Width: 4},
		{Title: "Tab", Width: name},
		{Title: "Mark", Width: 6},
	}
}

func historyColumns(width int) []table.Column {
	result := width - 9 - 14 - 5 - 9 - 10
	if result < 12 {
		result = 12
	}
	return []table.Column{
		{Title: "Time", Width: 9},
		{Title: "Preset", Width: 14},
		{Title: "Mark", Width: 5},
		{Title: "Tier", Width: 9},
		{Title: "Result", Width: result},
	}
}
