package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/muurk/nodeedit/internal/graph"
)

// RenderRecords renders records as a bordered table, one column per
// property key plus the element ID.
func RenderRecords(records []graph.Record, width int) string {
	if len(records) == 0 {
		return MutedStyle.Render("  No records found.")
	}

	columns := make(map[string]any)
	for _, r := range records {
		for k := range r.Props {
			columns[k] = nil
		}
	}
	keys := graph.SortedKeys(columns)

	headers := append([]string{"element id"}, keys...)
	rows := make([][]string, len(records))
	for i, r := range records {
		row := make([]string, len(headers))
		row[0] = r.ElementID
		for j, k := range keys {
			row[j+1] = truncate(graph.FormatValue(r.Props[k]), MaxCellWidth)
		}
		rows[i] = row
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			return TableCellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	out := t.Render()
	if width > 0 && lipgloss.Width(out) > clampWidth(width) {
		out = t.Width(clampWidth(width)).Render()
	}
	return out
}

// RenderSuggestions lists the suggested values per property key
func RenderSuggestions(s graph.Suggestions, width int) string {
	if s.Len() == 0 {
		return MutedStyle.Render("  No suggestions for this node's labels.")
	}

	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		values := s.For(k)
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = graph.FormatValue(v)
		}
		key := ResultKeyStyle.Render("  " + k + ":")
		lines = append(lines, key+" "+ResultValueStyle.Render(truncate(strings.Join(parts, ", "), clampWidth(width)-22)))
	}
	return strings.Join(lines, "\n")
}

// RenderChanges renders the keys of next that differ from prev as
// "key: old → new" lines.
func RenderChanges(prev, next map[string]any) string {
	changed := graph.ChangedKeys(prev, next)
	if len(changed) == 0 {
		return MutedStyle.Render("  No values changed.")
	}

	lines := make([]string, len(changed))
	for i, k := range changed {
		old := "(unset)"
		if v, ok := prev[k]; ok {
			old = graph.FormatValue(v)
		}
		lines[i] = fmt.Sprintf("  %s %s → %s",
			ResultKeyStyle.Render(k+":"),
			OldValueStyle.Render(truncate(old, MaxCellWidth)),
			NewValueStyle.Render(truncate(graph.FormatValue(next[k]), MaxCellWidth)),
		)
	}
	return strings.Join(lines, "\n")
}
