package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"github.com/ylchen07/jira-estimate/internal/estimate"
)

var (
	keyStyle     = lipgloss.NewStyle().Bold(true).Width(14)
	cellStyle    = lipgloss.NewStyle().Width(18)
	sizeStyle    = lipgloss.NewStyle().Width(4).Align(lipgloss.Right).MarginRight(2)
	mutedStyle   = lipgloss.NewStyle().Faint(true)
	summaryStyle = lipgloss.NewStyle().MaxWidth(72)
)

// printRows writes one line per issue: key, type, status, priority, size, summary.
func printRows(w io.Writer, rows []estimate.Row) {
	if len(rows) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("no issues"))
		return
	}
	for _, row := range rows {
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			keyStyle.Render(row.Key),
			cellStyle.Render(row.TypeLabel()),
			cellStyle.Render(row.StatusLabel()),
			cellStyle.Render(row.PriorityLabel()),
			sizeStyle.Render(row.SizeLabel()),
			summaryStyle.Render(row.Summary),
		)
		fmt.Fprintln(w, line)
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
