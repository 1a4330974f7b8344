package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/nodeedit/internal/editor"
	"github.com/muurk/nodeedit/internal/form"
	"github.com/muurk/nodeedit/internal/graph"
	"github.com/muurk/nodeedit/internal/query"
	"github.com/muurk/nodeedit/internal/table"
)

// renderContent lays out notification bar, table pane and form pane
func (m AppModel) renderContent() string {
	panes := lipgloss.JoinHorizontal(lipgloss.Top,
		m.renderTablePane(),
		m.renderFormPane(),
	)

	parts := []string{}
	if n := m.renderNotification(); n != "" {
		parts = append(parts, n)
	}
	parts = append(parts, panes)
	if m.statusMsg != "" {
		parts = append(parts, ErrorTextStyle.Render("  "+m.statusMsg))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderNotification renders the success/failure bar, empty when hidden
func (m AppModel) renderNotification() string {
	n, ok := m.ctrl.Notification()
	if !ok {
		return ""
	}
	if n.Success {
		return SuccessNotificationStyle.Render("✓ " + n.Message + "  (x to dismiss)")
	}
	return ErrorNotificationStyle.Render("✗ " + n.Message + "  (x to dismiss)")
}

func (m AppModel) renderTablePane() string {
	width := m.tablePaneWidth()
	style := PaneStyle
	if m.Pane == PaneTable {
		style = FocusedPaneStyle
	}
	style = style.Width(width - 2)

	switch {
	case m.loading:
		return style.Render(m.spinner.View() + " Loading records...")
	case m.loadErr != nil:
		return style.Render(m.renderLoadError(width - 6))
	case len(m.view.Columns()) == 0:
		return style.Render(RenderSubtitle("No records found."))
	}

	parts := []string{m.grid.View(), m.renderTableStatus()}
	if m.Mode == ModeFilter {
		parts = append(parts, m.filterInput.View())
	} else if f := m.view.Filter(); f != "" {
		parts = append(parts, FieldLabelStyle.Render("filter: "+f))
	}
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, parts...))
}

func (m AppModel) renderTableStatus() string {
	status := fmt.Sprintf("Page %d/%d · %d rows · %d per page",
		m.view.Page()+1, m.view.PageCount(), m.view.MatchCount(), m.view.PageSize())

	if col, order := m.view.Sort(); order != table.SortNone {
		dir := "asc"
		if order == table.SortDesc {
			dir = "desc"
		}
		status += fmt.Sprintf(" · sort: %s %s", table.Header(col), dir)
	}
	return StatusBarStyle.Render(status)
}

func (m AppModel) renderLoadError(width int) string {
	lines := []string{
		ErrorTextStyle.Bold(true).Render("Could not load records"),
		"",
		truncate(m.loadErr.Error(), width*3),
	}
	if hint := query.Hint(m.loadErr); hint != "" {
		lines = append(lines, "", FieldLabelStyle.Render(hint))
	}
	lines = append(lines, "", RenderSubtitle("Press r to retry"))
	return lipgloss.NewStyle().Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m AppModel) renderFormPane() string {
	width := m.formPaneWidth()
	style := PaneStyle
	if m.Pane == PaneForm {
		style = FocusedPaneStyle
	}
	style = style.Width(width - 2)

	rec, ok := m.ctrl.Selected()
	if !ok {
		return style.Render(RenderSubtitle("Select a row and press enter to edit it."))
	}

	title := RenderTitle("Node " + truncate(rec.ElementID, width-12))
	labels := FieldLabelStyle.Render(":" + strings.Join(rec.Labels, ":"))
	if len(rec.Labels) == 0 {
		labels = FieldLabelStyle.Render("(no labels)")
	}

	lines := []string{title, labels, ""}
	fields := m.ctrl.Form().Fields()
	if len(fields) == 0 {
		lines = append(lines, RenderSubtitle("This node has no properties."))
	}
	labelWidth := 0
	for _, f := range fields {
		if w := len([]rune(table.Header(f.Key))); w > labelWidth {
			labelWidth = w
		}
	}
	if labelWidth > MaxColumnWidth {
		labelWidth = MaxColumnWidth
	}
	for i, f := range fields {
		lines = append(lines, m.renderField(f, i, labelWidth, width-8))
	}

	lines = append(lines, "", m.renderSaveButton(len(fields)))
	return style.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m AppModel) renderField(f form.Field, idx, labelWidth, width int) string {
	isSelected := m.Pane == PaneForm && m.fieldCursor == idx
	editing := isSelected && (m.Mode == ModeEditing || m.Mode == ModeOtherPrompt) && m.edit.key == f.Key

	labelStyle := lipgloss.NewStyle().Width(labelWidth + 1).Foreground(SubtleColor)
	valueStyle := lipgloss.NewStyle()
	if isSelected {
		labelStyle = labelStyle.Foreground(HighlightColor).Bold(true)
		valueStyle = SelectedFieldStyle
	}

	arrow := "  "
	if isSelected {
		arrow = "→ "
	}
	marker := " "
	if f.Edited {
		marker = EditedMarkerStyle.Render("*")
	}

	value := f.Display()
	switch f.Kind {
	case graph.KindBoolean:
		box := "[ ] "
		if f.Bool {
			box = "[✓] "
		}
		value = box + value
	case graph.KindEnumerated:
		value += " ▼"
	}

	line := lipgloss.JoinHorizontal(lipgloss.Left,
		arrow,
		labelStyle.Render(truncate(table.Header(f.Key), labelWidth)),
		marker,
		valueStyle.Render(truncate(value, width-labelWidth-11)),
		" ",
		KindTag(f.Kind),
	)
	if !editing {
		return line
	}
	return lipgloss.JoinVertical(lipgloss.Left, line, m.renderInlineEditor(f))
}

// renderInlineEditor renders the expanded editor for the field being edited
func (m AppModel) renderInlineEditor(f form.Field) string {
	var lines []string

	switch {
	case m.Mode == ModeOtherPrompt:
		lines = append(lines,
			FieldLabelStyle.Render("Other value:"),
			m.edit.input.View(),
			FieldLabelStyle.Render("Enter confirm • Esc keep \"Other\""),
		)

	case f.Kind == graph.KindEnumerated:
		for i, opt := range f.Options {
			indicator := "( )"
			if i == f.Selected {
				indicator = "(•)"
			}
			text := fmt.Sprintf("%s %s", indicator, graph.FormatValue(opt))
			if f.IsOther(i) {
				text = fmt.Sprintf("%s %s…", indicator, graph.OtherOption)
			}
			if i == m.edit.option {
				text = ExpandedFieldStyle().Render(text + " ←")
			}
			lines = append(lines, text)
		}
		lines = append(lines, FieldLabelStyle.Render("↑/↓ select • Enter confirm • Esc cancel"))

	case f.Kind == graph.KindPoint || f.Kind == graph.KindPointList:
		for i, p := range f.Points {
			x := m.renderCoordinate(f, i, form.AxisX)
			y := m.renderCoordinate(f, i, form.AxisY)
			line := fmt.Sprintf("x: %s  y: %s", x, y)
			if p.HasSRID {
				line += FieldLabelStyle.Render(fmt.Sprintf("  SRID: %d", p.SRID))
			}
			lines = append(lines, line)
		}
		lines = append(lines, FieldLabelStyle.Render("Tab next box • Enter apply • Esc cancel"))

	case f.Kind == graph.KindDate:
		lines = append(lines,
			m.edit.input.View(),
			FieldLabelStyle.Render("↑/↓ shift a day • Enter apply • Esc cancel"),
		)

	default:
		lines = append(lines,
			m.edit.input.View(),
			FieldLabelStyle.Render("Enter apply • Esc cancel"),
		)
	}

	if m.edit.err != "" {
		lines = append(lines, ErrorTextStyle.Render(m.edit.err))
	}
	return InlineEditorStyle().MarginLeft(2).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m AppModel) renderCoordinate(f form.Field, index int, axis form.Axis) string {
	if index == m.edit.point && axis == m.edit.axis {
		return FocusedInputStyle.Render("[") + m.edit.input.View() + FocusedInputStyle.Render("]")
	}
	return BlurredInputStyle.Render("[" + f.Coordinate(index, axis) + "]")
}

func (m AppModel) renderSaveButton(idx int) string {
	buttonText := "[Save]"
	if m.ctrl.Form().Edited() {
		buttonText += " ⚠ Modified"
	}

	buttonStyle := lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Bold(true)
	if m.Pane == PaneForm && m.fieldCursor == idx {
		buttonStyle = buttonStyle.
			Background(PrimaryColor).
			Foreground(BackgroundColor)
	}
	return "  " + buttonStyle.Render(buttonText)
}

// renderConfirmModalContent renders the Yes/No confirmation, or the
// spinner while the update runs.
func (m AppModel) renderConfirmModalContent() string {
	modalWidth := SafeModalWidth(64, m.Width)
	title := TitleStyle.Render("CONFIRM UPDATE")

	if m.ctrl.Status() == editor.StatusRunning {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			m.spinner.View()+" Updating node...",
		)
		return ModalStyle.Width(modalWidth).Render(content)
	}

	lines := []string{title, "", "Are you sure you want to update this node?", ""}

	rec, _ := m.ctrl.Selected()
	pending := m.ctrl.Pending()
	changed := graph.ChangedKeys(rec.Props, pending)
	if len(changed) == 0 {
		lines = append(lines, RenderSubtitle("No values changed; the node is written as is."))
	}
	for _, k := range changed {
		old := "(unset)"
		if v, ok := rec.Props[k]; ok {
			old = graph.FormatValue(v)
		}
		line := fmt.Sprintf("  %s: %s → %s", table.Header(k), old, graph.FormatValue(pending[k]))
		lines = append(lines, truncate(line, modalWidth-6))
	}

	yes := ButtonStyle.Render("Yes")
	no := ButtonStyle.Render("No")
	if m.modalCursor == 0 {
		yes = ActiveButtonStyle.Render("Yes")
	} else {
		no = ActiveButtonStyle.Render("No")
	}
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, yes, "  ", no)

	lines = append(lines, "", lipgloss.NewStyle().Width(modalWidth-6).Align(lipgloss.Center).Render(buttons))
	return ModalStyle.Width(modalWidth).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m AppModel) renderHelpModalContent() string {
	subtitleStyle := lipgloss.NewStyle().
		Foreground(SecondaryColor).
		Bold(true)

	content := lipgloss.JoinVertical(lipgloss.Left,
		TitleStyle.Render("NODEEDIT HELP"),
		"",
		subtitleStyle.Render("Record table:"),
		m.help.FullHelpView(m.keys.Table.FullHelp()),
		"",
		subtitleStyle.Render("Property form:"),
		m.help.FullHelpView(m.keys.Form.FullHelp()),
		"",
		subtitleStyle.Render("Field kinds:"),
		"  Enumerated - values seen on nodes with the same labels, plus Other",
		"  Boolean    - enter toggles",
		"  Point      - tab moves between x and y boxes",
		"  Date       - +/- shift by one day, enter types a date",
		"",
		"Press any key to close this help screen",
	)

	return ModalStyle.Width(SafeModalWidth(80, m.Width)).Render(content)
}
