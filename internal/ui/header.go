package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header is the banner printed at the start of a command: title, the
// command line and the connection parameters.
type Header struct {
	Title   string            // e.g., "SET PROPERTIES"
	Command string            // e.g., "nodeedit set 4:abc:12 name=Alice"
	Params  map[string]string // e.g., {"Server": "neo4j://localhost:7687"}
	Width   int
}

// NewHeader creates a header sized to the terminal
func NewHeader(title, command string, params map[string]string) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth sets the width for rendering
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header. Params are listed in key order.
func (h *Header) Render() string {
	width := clampWidth(h.Width)

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(truncate(h.Command, width-6)),
	)
	if len(h.Params) == 0 {
		return HeaderBorderStyle(width).Render(top)
	}

	keys := make([]string, 0, len(h.Params))
	keyWidth := 0
	for k := range h.Params {
		keys = append(keys, k)
		if len(k) > keyWidth {
			keyWidth = len(k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, len(keys))
	for i, k := range keys {
		key := HeaderParamKeyStyle.Width(keyWidth + 4).Render(k + ":")
		lines[i] = key + HeaderParamValueStyle.Render(h.Params[k])
	}

	dividerWidth := width - 6
	if dividerWidth < 10 {
		dividerWidth = 10
	}
	content := lipgloss.JoinVertical(lipgloss.Left,
		top,
		RenderHorizontalDivider(dividerWidth, "─"),
		strings.Join(lines, "\n"),
	)
	return HeaderBorderStyle(width).Render(content)
}

// String implements fmt.Stringer
func (h *Header) String() string {
	return h.Render()
}
