package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmUpdate shows the pending property changes of a node in a warning
// box and asks the user to answer y or yes. Anything else, including end of
// input, declines.
func ConfirmUpdate(in io.Reader, out io.Writer, elementID string, prev, next map[string]any) bool {
	width := GetTerminalWidth()

	lines := []string{
		"",
		WarningTitleStyle.Render(fmt.Sprintf("   %s  CONFIRM UPDATE  ─  %s", WarningMarker, elementID)),
		"",
		RenderChanges(prev, next),
		"",
		lipgloss.NewStyle().
			Foreground(MutedColor).
			Italic(true).
			Width(width - 12).
			PaddingLeft(3).
			Render("All listed properties are written in one SET n += $properties statement."),
		"",
	}
	_, _ = fmt.Fprintln(out, ResultBoxStyle(width, WarningColor).Render(strings.Join(lines, "\n")))
	_, _ = fmt.Fprintln(out)

	prompt := lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	_, _ = fmt.Fprint(out, prompt.Render("Are you sure you want to update this node? [y/N]: "))

	input, err := bufio.NewReader(in).ReadString('\n')
	_, _ = fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true
	}
	_, _ = fmt.Fprintln(out, MutedStyle.Render("  Update cancelled."))
	return false
}
