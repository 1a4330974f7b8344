package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/nodeedit/internal/graph"
	"github.com/muurk/nodeedit/internal/version"
)

// AppName is shown at the left of the header bar.
const AppName = "NODEEDIT"

// Layout
const (
	MinTerminalWidth = 72
	MaxColumnWidth   = 24 // Widest a table column gets before truncation
	MinColumnWidth   = 4
	FormPaneRatio    = 2 // Form pane takes 1/FormPaneRatio of the width
	MinModalWidth    = 40
)

// Palette
var (
	PrimaryColor   = lipgloss.Color("#7D56F4") // Purple
	SecondaryColor = lipgloss.Color("#43BF6D") // Green
	WarningColor   = lipgloss.Color("#FFA500") // Orange
	ErrorColor     = lipgloss.Color("#FF0000") // Red

	TextColor       = lipgloss.Color("#FFFFFF")
	SubtleColor     = lipgloss.Color("#626262")
	HighlightColor  = SecondaryColor
	BackgroundColor = lipgloss.Color("#1A1A1A")
)

// kindColors tints the type tag next to each form field.
var kindColors = map[graph.Kind]lipgloss.Color{
	graph.KindBoolean:    lipgloss.Color("#5FAFFF"),
	graph.KindPointList:  lipgloss.Color("#D787FF"),
	graph.KindPoint:      lipgloss.Color("#D787FF"),
	graph.KindDate:       lipgloss.Color("#FFD75F"),
	graph.KindEnumerated: SecondaryColor,
	graph.KindText:       SubtleColor,
}

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Italic(true)

	// Panes dim their border when they lose focus.
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(SubtleColor).
			Padding(0, 1)

	FocusedPaneStyle = PaneStyle.
				BorderForeground(PrimaryColor)

	FieldLabelStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	SelectedFieldStyle = lipgloss.NewStyle().
				Foreground(HighlightColor).
				Bold(true)

	EditedMarkerStyle = lipgloss.NewStyle().
				Foreground(WarningColor)

	StatusBarStyle = lipgloss.NewStyle().
			Foreground(SubtleColor).
			Padding(0, 1)

	SpinnerStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor)

	FocusedInputStyle = lipgloss.NewStyle().
				Foreground(PrimaryColor).
				Bold(true)

	BlurredInputStyle = lipgloss.NewStyle().
				Foreground(SubtleColor)

	ErrorTextStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	SuccessNotificationStyle = notificationStyle(SecondaryColor)
	ErrorNotificationStyle   = notificationStyle(ErrorColor)

	ModalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(PrimaryColor).
			Padding(1, 2)

	ButtonStyle = lipgloss.NewStyle().
			Foreground(TextColor).
			Padding(0, 2)

	ActiveButtonStyle = ButtonStyle.
				Background(PrimaryColor).
				Bold(true)
)

func notificationStyle(c lipgloss.Color) lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(c).
		Bold(true).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(c).
		Padding(0, 2)
}

func RenderTitle(text string) string {
	return TitleStyle.Render(text)
}

func RenderSubtitle(text string) string {
	return SubtitleStyle.Render(text)
}

// KindTag renders the short type tag shown after a field label.
func KindTag(kind graph.Kind) string {
	tag := map[graph.Kind]string{
		graph.KindBoolean:    "bool",
		graph.KindPointList:  "points",
		graph.KindPoint:      "point",
		graph.KindDate:       "date",
		graph.KindEnumerated: "enum",
		graph.KindText:       "text",
	}[kind]
	if tag == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(kindColors[kind]).Faint(true).Render(tag)
}

// headerBar is the top line of the frame: name and version on the left, the
// record source on the right.
func headerBar(source string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(TextColor).
		Bold(true).
		Render(AppName + " " + version.Version)
	right := lipgloss.NewStyle().
		Foreground(HighlightColor).
		Render(source)

	gap := width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 2 {
		gap = 2
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}

// RenderApplicationContainer frames a screen: header bar, content and the
// help line, inside one border sized to the terminal.
func RenderApplicationContainer(source, content, footerText string, terminalWidth, terminalHeight int) string {
	if terminalWidth < MinTerminalWidth {
		terminalWidth = MinTerminalWidth
	}
	inner := terminalWidth - 4

	rule := func(b lipgloss.Border) lipgloss.Style {
		return lipgloss.NewStyle().
			BorderStyle(b).
			BorderForeground(PrimaryColor).
			Width(inner).
			Padding(0, 1)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		rule(lipgloss.Border{Bottom: "─"}).Render(headerBar(source, inner-2)),
		lipgloss.NewStyle().Width(inner).Render(content),
		rule(lipgloss.Border{Top: "─"}).Render(FieldLabelStyle.Render(footerText)),
	)

	frame := lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(PrimaryColor).
		Width(terminalWidth - 2)
	if terminalHeight > 2 {
		frame = frame.Height(terminalHeight - 2)
	}
	return lipgloss.Place(terminalWidth, terminalHeight, lipgloss.Left, lipgloss.Top, frame.Render(body))
}

// SafeModalWidth clamps requestedWidth to the terminal, never below
// MinModalWidth.
func SafeModalWidth(requestedWidth, terminalWidth int) int {
	limit := max(terminalWidth-4, MinModalWidth)
	return min(requestedWidth, limit)
}

// RenderModal centers modalContent over a dimmed backdrop.
func RenderModal(modalContent string, terminalWidth, terminalHeight int) string {
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Center,
		modalContent,
		lipgloss.WithWhitespaceChars("░"),
		lipgloss.WithWhitespaceForeground(lipgloss.Color("240")),
	)
}

// InlineEditorStyle frames the editor opened under a field.
func InlineEditorStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.Border{Top: "━", Bottom: "━", Left: "┃", Right: "┃"}).
		BorderForeground(PrimaryColor).
		Padding(0, 1)
}

// ExpandedFieldStyle highlights the option under the cursor.
func ExpandedFieldStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Background(lipgloss.Color("236"))
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 0 || len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}
