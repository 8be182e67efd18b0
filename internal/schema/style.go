package schema

import "github.com/charmbracelet/lipgloss"

// ANSI palette used by the label tables.
var (
	styleGreen  = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleYellow = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleRed    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleBlue   = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleCyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

func render(styles map[int]lipgloss.Style, key int, text string) string {
	style, ok := styles[key]
	if !ok {
		return text
	}
	return style.Render(text)
}
