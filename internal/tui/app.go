package tui

import (
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	bubbletable "github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/muurk/nodeedit/internal/editor"
	"github.com/muurk/nodeedit/internal/form"
	"github.com/muurk/nodeedit/internal/graph"
	"github.com/muurk/nodeedit/internal/logging"
	"github.com/muurk/nodeedit/internal/query"
	"github.com/muurk/nodeedit/internal/table"
)

// Pane is the half of the screen that has keyboard focus
type Pane int

const (
	PaneTable Pane = iota
	PaneForm
)

// Mode is the input mode inside the focused pane
type Mode int

const (
	ModeNormal Mode = iota
	ModeFilter
	ModeEditing
	ModeOtherPrompt
)

// Options configures the application model.
type Options struct {
	Source          string // Shown in the header, e.g. "local :Person"
	Spec            query.LoadSpec
	PageSize        int
	NotificationTTL time.Duration
}

// fieldEditor is the state of the field expanded for inline editing
type fieldEditor struct {
	key    string
	input  textinput.Model
	option int       // Enumerated: option under the cursor
	point  int       // Point/PointList: element being edited
	axis   form.Axis // Point/PointList: coordinate being edited
	err    string
}

// AppModel is the top-level model: record table on the left, property form
// on the right, confirmation modal and notification bar on top.
type AppModel struct {
	backend Backend
	opts    Options

	ctrl   *editor.Controller
	view   *table.View
	grid   bubbletable.Model
	column int // Column cursor for sorting

	Pane Pane
	Mode Mode

	fieldCursor int
	edit        fieldEditor
	filterInput textinput.Model
	modalCursor int // 0 = Yes, 1 = No

	loading   bool
	loadErr   error
	statusMsg string

	spinner  spinner.Model
	help     help.Model
	keys     keyMaps
	showHelp bool

	Width  int
	Height int
}

// NewAppModel creates the application model. Records are loaded by Init.
func NewAppModel(backend Backend, opts Options) AppModel {
	view := table.NewView(nil)
	for i := 0; i < len(table.PageSizes) && view.PageSize() != opts.PageSize; i++ {
		view.CyclePageSize()
	}
	if view.PageSize() != opts.PageSize {
		for view.PageSize() != table.DefaultPageSize {
			view.CyclePageSize()
		}
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	filterInput := textinput.New()
	filterInput.Prompt = "/ "
	filterInput.Placeholder = "filter rows"
	filterInput.CharLimit = 120

	input := textinput.New()
	input.CharLimit = 4096

	grid := bubbletable.New(
		bubbletable.WithFocused(true),
		bubbletable.WithHeight(view.PageSize()+2),
	)

	return AppModel{
		backend:     backend,
		opts:        opts,
		ctrl:        editor.New(graph.NewRecordSet(nil), editor.WithNotificationTTL(opts.NotificationTTL)),
		view:        view,
		grid:        grid,
		edit:        fieldEditor{input: input},
		filterInput: filterInput,
		loading:     true,
		spinner:     s,
		help:        help.New(),
		keys:        newKeyMaps(),
		Width:       MinTerminalWidth,
		Height:      24,
	}
}

// Controller exposes the edit workflow state.
func (m AppModel) Controller() *editor.Controller {
	return m.ctrl
}

// Init starts loading records
func (m AppModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, loadRecordsCmd(m.backend, m.opts.Spec))
}

// Update handles all messages
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.syncGrid()
		return m, nil

	case spinner.TickMsg:
		if !m.loading && m.ctrl.Status() != editor.StatusRunning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case recordsLoadedMsg:
		return m.handleRecordsLoaded(msg)

	case suggestionsMsg:
		m.ctrl.ApplySuggestions(msg.elementID, msg.suggestions, msg.err)
		m.clampFieldCursor()
		return m, nil

	case updateCompleteMsg:
		n := m.ctrl.Complete(msg.submission, msg.record, msg.err)
		if msg.err != nil {
			logging.Warn("Update failed", zap.String("element_id", msg.submission.ElementID), zap.Error(msg.err))
		}
		m.view.SetRecords(m.ctrl.Records().All())
		m.syncGrid()
		return m, hideNotificationCmd(m.ctrl.NotificationTTL(), n.Seq)

	case hideNotificationMsg:
		m.ctrl.Dismiss(msg.seq)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.ctrl.Confirming() {
			return m.updateConfirm(msg)
		}
		switch m.Mode {
		case ModeFilter:
			return m.updateFilter(msg)
		case ModeEditing:
			return m.updateEditor(msg)
		case ModeOtherPrompt:
			return m.updateOtherPrompt(msg)
		}
		if m.Pane == PaneForm {
			return m.updateForm(msg)
		}
		return m.updateTable(msg)
	}

	return m, nil
}

func (m AppModel) handleRecordsLoaded(msg recordsLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		m.loadErr = msg.err
		logging.Error("Loading records failed", zap.Error(msg.err))
		return m, nil
	}
	m.loadErr = nil
	m.ctrl.SetRecords(msg.records)
	m.view.SetRecords(msg.records.All())
	if _, ok := m.ctrl.Selected(); !ok {
		m.Pane = PaneTable
		m.Mode = ModeNormal
		m.grid.Focus()
	}
	m.syncGrid()
	logging.Info("Records loaded", zap.Int("count", msg.records.Len()))
	return m, nil
}

// syncGrid rebuilds the bubbles table from the current page of the view.
func (m *AppModel) syncGrid() {
	cols := m.view.Columns()
	if m.column >= len(cols) {
		m.column = len(cols) - 1
	}
	if m.column < 0 {
		m.column = 0
	}

	page := m.view.PageRows()
	rows := make([]bubbletable.Row, len(page))
	for i, r := range page {
		rows[i] = m.view.Cells(r)
	}

	sortCol, order := m.view.Sort()
	columns := make([]bubbletable.Column, len(cols))
	for i, c := range cols {
		title := table.Header(c)
		if c == sortCol {
			switch order {
			case table.SortAsc:
				title += " ▲"
			case table.SortDesc:
				title += " ▼"
			}
		}
		if i == m.column && m.Pane == PaneTable {
			title = "›" + title
		}
		width := len([]rune(title))
		for _, row := range rows {
			if w := len([]rune(row[i])); w > width {
				width = w
			}
		}
		if width > MaxColumnWidth {
			width = MaxColumnWidth
		}
		if width < MinColumnWidth {
			width = MinColumnWidth
		}
		columns[i] = bubbletable.Column{Title: title, Width: width}
	}

	m.grid.SetRows(nil)
	m.grid.SetColumns(columns)
	m.grid.SetRows(rows)
	m.grid.SetHeight(m.view.PageSize() + 2)
	m.grid.SetWidth(m.tablePaneWidth() - 4)

	if rec, ok := m.ctrl.Selected(); ok {
		if pos := m.view.PositionOf(rec.Key); pos >= 0 {
			m.grid.SetCursor(pos)
			return
		}
	}
	if m.grid.Cursor() >= len(rows) {
		m.grid.SetCursor(len(rows) - 1)
	}
	if m.grid.Cursor() < 0 {
		m.grid.SetCursor(0)
	}
}

func (m AppModel) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.Table
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.showHelp = true

	case key.Matches(msg, k.Select):
		return m.selectCurrentRow()

	case key.Matches(msg, k.Left):
		if m.column > 0 {
			m.column--
		}
		m.syncGrid()

	case key.Matches(msg, k.Right):
		if m.column < len(m.view.Columns())-1 {
			m.column++
		}
		m.syncGrid()

	case key.Matches(msg, k.Sort):
		if cols := m.view.Columns(); len(cols) > 0 {
			m.view.CycleSort(cols[m.column])
			m.syncGrid()
		}

	case key.Matches(msg, k.Filter):
		m.Mode = ModeFilter
		m.filterInput.SetValue(m.view.Filter())
		m.filterInput.CursorEnd()
		return m, m.filterInput.Focus()

	case key.Matches(msg, k.PageSize):
		m.view.CyclePageSize()
		m.syncGrid()

	case key.Matches(msg, k.NextPage):
		if m.view.NextPage() {
			m.grid.SetCursor(0)
			m.syncGrid()
		}

	case key.Matches(msg, k.PrevPage):
		if m.view.PrevPage() {
			m.grid.SetCursor(0)
			m.syncGrid()
		}

	case key.Matches(msg, k.Reload):
		m.loading = true
		m.statusMsg = ""
		return m, tea.Batch(m.spinner.Tick, loadRecordsCmd(m.backend, m.opts.Spec))

	case key.Matches(msg, k.Switch):
		if _, ok := m.ctrl.Selected(); ok {
			m.Pane = PaneForm
			m.grid.Blur()
			m.syncGrid()
		}

	case key.Matches(msg, k.Dismiss):
		m.dismissNotification()

	default:
		var cmd tea.Cmd
		m.grid, cmd = m.grid.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m AppModel) selectCurrentRow() (tea.Model, tea.Cmd) {
	rec, ok := m.view.RowAt(m.grid.Cursor())
	if !ok {
		return m, nil
	}
	req, err := m.ctrl.Select(rec.Key)
	if err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}
	m.statusMsg = ""
	m.Pane = PaneForm
	m.Mode = ModeNormal
	m.fieldCursor = 0
	m.grid.Blur()
	m.syncGrid()
	return m, fetchSuggestionsCmd(m.backend, req)
}

func (m AppModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.Mode = ModeNormal
		m.filterInput.Blur()
		m.view.SetFilter("")
		m.syncGrid()
		return m, nil
	case "enter":
		m.Mode = ModeNormal
		m.filterInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	m.view.SetFilter(m.filterInput.Value())
	m.grid.SetCursor(0)
	m.syncGrid()
	return m, cmd
}

func (m *AppModel) clampFieldCursor() {
	// The Save button sits after the last field
	last := m.ctrl.Form().Len()
	if m.fieldCursor > last {
		m.fieldCursor = last
	}
	if m.fieldCursor < 0 {
		m.fieldCursor = 0
	}
}

func (m AppModel) currentField() (form.Field, bool) {
	fields := m.ctrl.Form().Fields()
	if m.fieldCursor < 0 || m.fieldCursor >= len(fields) {
		return form.Field{}, false
	}
	return fields[m.fieldCursor], true
}

func (m AppModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.keys.Form
	last := m.ctrl.Form().Len()

	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit

	case key.Matches(msg, k.Help):
		m.showHelp = true

	case key.Matches(msg, k.Up):
		m.fieldCursor--
		if m.fieldCursor < 0 {
			m.fieldCursor = last
		}

	case key.Matches(msg, k.Down):
		m.fieldCursor++
		if m.fieldCursor > last {
			m.fieldCursor = 0
		}

	case key.Matches(msg, k.Back), key.Matches(msg, k.Switch):
		m.Pane = PaneTable
		m.grid.Focus()
		m.syncGrid()

	case key.Matches(msg, k.Save):
		return m.save()

	case key.Matches(msg, k.DayBack), key.Matches(msg, k.DayAhead):
		field, ok := m.currentField()
		if ok && field.Kind == graph.KindDate {
			days := 1
			if key.Matches(msg, k.DayBack) {
				days = -1
			}
			_ = m.ctrl.Form().ShiftDate(field.Key, days)
		}

	case key.Matches(msg, k.Dismiss):
		m.dismissNotification()

	case key.Matches(msg, k.Edit):
		if m.fieldCursor == last {
			return m.save()
		}
		field, ok := m.currentField()
		if !ok {
			return m, nil
		}
		return m.startEditing(field)
	}

	return m, nil
}

func (m AppModel) save() (tea.Model, tea.Cmd) {
	if err := m.ctrl.Save(m.ctrl.Form().Draft()); err != nil {
		m.statusMsg = err.Error()
		return m, nil
	}
	m.statusMsg = ""
	m.modalCursor = 0
	return m, nil
}

// startEditing expands field for editing. Booleans toggle in place.
func (m AppModel) startEditing(field form.Field) (tea.Model, tea.Cmd) {
	m.edit.key = field.Key
	m.edit.err = ""
	m.edit.input.Placeholder = ""

	switch field.Kind {
	case graph.KindBoolean:
		_ = m.ctrl.Form().Toggle(field.Key)
		return m, nil

	case graph.KindEnumerated:
		m.edit.option = field.Selected
		if m.edit.option < 0 {
			m.edit.option = 0
		}
		m.Mode = ModeEditing
		return m, nil

	case graph.KindPoint, graph.KindPointList:
		if len(field.Points) == 0 {
			m.statusMsg = "No points to edit"
			return m, nil
		}
		m.edit.point = 0
		m.edit.axis = form.AxisX
		m.edit.input.SetValue(field.Coordinate(0, form.AxisX))

	case graph.KindDate:
		m.edit.input.SetValue(field.Date.Format(time.DateOnly))
		m.edit.input.Placeholder = "YYYY-MM-DD"

	default:
		m.edit.input.SetValue(field.Text)
	}

	m.edit.input.CursorEnd()
	m.Mode = ModeEditing
	return m, m.edit.input.Focus()
}

func (m AppModel) stopEditing() AppModel {
	m.Mode = ModeNormal
	m.edit.err = ""
	m.edit.input.Blur()
	return m
}

func (m AppModel) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.ctrl.Form()
	field, ok := f.Field(m.edit.key)
	if !ok {
		return m.stopEditing(), nil
	}
	k := m.keys.Editor

	if key.Matches(msg, k.Cancel) {
		return m.stopEditing(), nil
	}

	switch field.Kind {
	case graph.KindEnumerated:
		switch {
		case key.Matches(msg, k.Up):
			m.edit.option--
			if m.edit.option < 0 {
				m.edit.option = len(field.Options) - 1
			}
		case key.Matches(msg, k.Down):
			m.edit.option++
			if m.edit.option >= len(field.Options) {
				m.edit.option = 0
			}
		case key.Matches(msg, k.Confirm):
			if err := f.Choose(field.Key, m.edit.option); err != nil {
				m.edit.err = err.Error()
				return m, nil
			}
			if field.IsOther(m.edit.option) {
				m.Mode = ModeOtherPrompt
				m.edit.input.SetValue("")
				m.edit.input.Placeholder = "type a value"
				return m, m.edit.input.Focus()
			}
			return m.stopEditing(), nil
		}
		return m, nil

	case graph.KindPoint, graph.KindPointList:
		switch {
		case key.Matches(msg, k.Next):
			_ = f.SetCoordinate(field.Key, m.edit.point, m.edit.axis, m.edit.input.Value())
			if m.edit.axis == form.AxisX {
				m.edit.axis = form.AxisY
			} else {
				m.edit.axis = form.AxisX
				m.edit.point = (m.edit.point + 1) % len(field.Points)
			}
			field, _ = f.Field(field.Key)
			m.edit.input.SetValue(field.Coordinate(m.edit.point, m.edit.axis))
			m.edit.input.CursorEnd()
			return m, nil
		case key.Matches(msg, k.Confirm):
			_ = f.SetCoordinate(field.Key, m.edit.point, m.edit.axis, m.edit.input.Value())
			return m.stopEditing(), nil
		}

	case graph.KindDate:
		switch {
		case key.Matches(msg, k.Up), key.Matches(msg, k.Down):
			days := 1
			if key.Matches(msg, k.Down) {
				days = -1
			}
			_ = f.ShiftDate(field.Key, days)
			field, _ = f.Field(field.Key)
			m.edit.input.SetValue(field.Date.Format(time.DateOnly))
			m.edit.err = ""
			return m, nil
		case key.Matches(msg, k.Confirm):
			if err := f.ParseDate(field.Key, m.edit.input.Value()); err != nil {
				m.edit.err = "Use YYYY-MM-DD"
				return m, nil
			}
			return m.stopEditing(), nil
		}

	default:
		if key.Matches(msg, k.Confirm) {
			// untouched text leaves the value and its type alone
			if text := m.edit.input.Value(); text != field.Text {
				if err := f.SetText(field.Key, text); err != nil {
					m.edit.err = "Enter valid JSON of the same shape"
					return m, nil
				}
			}
			return m.stopEditing(), nil
		}
	}

	var cmd tea.Cmd
	m.edit.input, cmd = m.edit.input.Update(msg)
	return m, cmd
}

// updateOtherPrompt handles the free-text prompt opened by choosing
// "Other". Cancelling keeps the literal "Other".
func (m AppModel) updateOtherPrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		return m.stopEditing(), nil
	case "enter":
		_ = m.ctrl.Form().SetText(m.edit.key, m.edit.input.Value())
		return m.stopEditing(), nil
	}
	var cmd tea.Cmd
	m.edit.input, cmd = m.edit.input.Update(msg)
	return m, cmd
}

func (m AppModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ctrl.Status() == editor.StatusRunning {
		// Block input while the update runs
		return m, nil
	}
	k := m.keys.Confirm

	switch {
	case key.Matches(msg, k.Yes):
		return m.confirm()
	case key.Matches(msg, k.No):
		m.ctrl.Decline()
	case key.Matches(msg, k.Left):
		m.modalCursor = 0
	case key.Matches(msg, k.Right):
		m.modalCursor = 1
	case key.Matches(msg, k.Enter):
		if m.modalCursor == 0 {
			return m.confirm()
		}
		m.ctrl.Decline()
	}
	return m, nil
}

func (m AppModel) confirm() (tea.Model, tea.Cmd) {
	sub, err := m.ctrl.Confirm()
	if err != nil {
		m.statusMsg = err.Error()
		if !errors.Is(err, editor.ErrSubmissionInFlight) {
			m.ctrl.Decline()
		}
		return m, nil
	}
	m.statusMsg = ""
	return m, tea.Batch(m.spinner.Tick, updateCmd(m.backend, sub))
}

func (m AppModel) dismissNotification() {
	if n, ok := m.ctrl.Notification(); ok {
		m.ctrl.Dismiss(n.Seq)
	}
}

func (m AppModel) tablePaneWidth() int {
	total := m.Width - 4
	if total < MinTerminalWidth-4 {
		total = MinTerminalWidth - 4
	}
	return total - total/FormPaneRatio
}

func (m AppModel) formPaneWidth() int {
	total := m.Width - 4
	if total < MinTerminalWidth-4 {
		total = MinTerminalWidth - 4
	}
	return total / FormPaneRatio
}

// helpKeys returns the key map for the current context
func (m AppModel) helpKeys() help.KeyMap {
	switch {
	case m.ctrl.Confirming():
		return m.keys.Confirm
	case m.Mode == ModeEditing || m.Mode == ModeOtherPrompt:
		return m.keys.Editor
	case m.Pane == PaneForm:
		return m.keys.Form
	default:
		return m.keys.Table
	}
}

// View renders the application
func (m AppModel) View() string {
	if m.showHelp {
		return RenderModal(m.renderHelpModalContent(), m.Width, m.Height)
	}
	if m.ctrl.Confirming() {
		return RenderModal(m.renderConfirmModalContent(), m.Width, m.Height)
	}
	return RenderApplicationContainer(m.source(), m.renderContent(), m.help.View(m.helpKeys()), m.Width, m.Height)
}

func (m AppModel) source() string {
	if m.opts.Source != "" {
		return m.opts.Source
	}
	if m.opts.Spec.Label != "" {
		return fmt.Sprintf(":%s", m.opts.Spec.Label)
	}
	return "custom query"
}
