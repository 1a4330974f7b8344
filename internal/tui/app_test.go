package tui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/nodeedit/internal/editor"
	"github.com/muurk/nodeedit/internal/graph"
	"github.com/muurk/nodeedit/internal/query"
	"github.com/muurk/nodeedit/internal/table"
)

type fakeBackend struct {
	mu          sync.Mutex
	records     *graph.RecordSet
	loadErr     error
	suggestions graph.Suggestions
	updateErr   error
	updates     []map[string]any
	targets     []string
}

func (f *fakeBackend) LoadRecords(_ context.Context, _ query.LoadSpec) (*graph.RecordSet, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.records, nil
}

func (f *fakeBackend) Suggestions(_ context.Context, _ graph.Record) (graph.Suggestions, error) {
	return f.suggestions, nil
}

func (f *fakeBackend) Update(_ context.Context, elementID string, props map[string]any) (*graph.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates = append(f.updates, props)
	f.targets = append(f.targets, elementID)
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return &graph.Record{ElementID: elementID, Labels: []string{"Person"}, Props: props}, nil
}

func newBackend() *fakeBackend {
	return &fakeBackend{
		records: graph.NewRecordSet([]graph.Record{
			{Key: 0, ElementID: "4:db:0", Labels: []string{"Person"}, Props: map[string]any{"name": "Alice", "active": true}},
			{Key: 1, ElementID: "4:db:1", Labels: []string{"Person"}, Props: map[string]any{"name": "Bob", "active": false}},
		}),
		suggestions: graph.Suggestions{"name": {"Alice", "Bob"}},
	}
}

// collect runs cmd and flattens batches into their messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func send(t *testing.T, m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	app, ok := next.(AppModel)
	require.True(t, ok)
	return app, cmd
}

func press(t *testing.T, m AppModel, keys ...string) AppModel {
	t.Helper()
	for _, k := range keys {
		m, _ = send(t, m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "ctrl+s":
		return tea.KeyMsg{Type: tea.KeyCtrlS}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func loaded(t *testing.T, b *fakeBackend) AppModel {
	t.Helper()
	m := NewAppModel(b, Options{Spec: query.LoadSpec{Label: "Person"}, PageSize: 5})
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = send(t, m, loadRecordsCmd(b, m.opts.Spec)())
	return m
}

// selectRow presses enter on the current row and delivers the suggestions.
func selectRow(t *testing.T, m AppModel) AppModel {
	t.Helper()
	m, cmd := send(t, m, keyMsg("enter"))
	require.NotNil(t, cmd)
	require.Equal(t, PaneForm, m.Pane)
	for _, msg := range collect(cmd) {
		m, _ = send(t, m, msg)
	}
	return m
}

func TestLoadPopulatesTable(t *testing.T) {
	m := loaded(t, newBackend())

	assert.False(t, m.loading)
	assert.Equal(t, []string{"active", "name"}, m.view.Columns())
	assert.Equal(t, 2, m.view.MatchCount())

	view := m.View()
	assert.Contains(t, view, "Alice")
	assert.Contains(t, view, "Select a row")
}

func TestLoadErrorIsShown(t *testing.T) {
	b := newBackend()
	b.loadErr = &query.QueryError{Type: query.ErrTypeAuth, Op: "load records", Message: "authentication failed"}
	m := loaded(t, b)

	assert.Error(t, m.loadErr)
	assert.Contains(t, m.View(), "Could not load records")

	// r retries
	b.loadErr = nil
	m, cmd := send(t, m, keyMsg("r"))
	assert.True(t, m.loading)
	for _, msg := range collect(cmd) {
		m, _ = send(t, m, msg)
	}
	assert.NoError(t, m.loadErr)
	assert.Equal(t, 2, m.view.MatchCount())
}

func TestSelectAppliesSuggestions(t *testing.T) {
	m := selectRow(t, loaded(t, newBackend()))

	rec, ok := m.ctrl.Selected()
	require.True(t, ok)
	assert.Equal(t, "4:db:0", rec.ElementID)

	field, ok := m.ctrl.Form().Field("name")
	require.True(t, ok)
	assert.Equal(t, graph.KindEnumerated, field.Kind)
	assert.Contains(t, m.View(), "Node 4:db:0")
}

func TestToggleSaveConfirmUpdates(t *testing.T) {
	b := newBackend()
	m := selectRow(t, loaded(t, b))

	// cursor starts on "active"
	m = press(t, m, "enter")
	assert.Equal(t, false, m.ctrl.Form().Draft()["active"])

	m = press(t, m, "ctrl+s")
	require.True(t, m.ctrl.Confirming())
	assert.Contains(t, m.View(), "Are you sure you want to update this node?")

	m, cmd := send(t, m, keyMsg("y"))
	assert.Equal(t, editor.StatusRunning, m.ctrl.Status())

	var hide tea.Cmd
	for _, msg := range collect(cmd) {
		m, hide = send(t, m, msg)
		if _, ok := msg.(updateCompleteMsg); ok {
			break
		}
	}
	assert.NotNil(t, hide)
	assert.False(t, m.ctrl.Confirming())
	assert.Equal(t, editor.StatusSubmitted, m.ctrl.Status())

	require.Len(t, b.updates, 1)
	assert.Equal(t, map[string]any{"active": false, "name": "Alice"}, b.updates[0])

	n, ok := m.ctrl.Notification()
	require.True(t, ok)
	assert.True(t, n.Success)
	assert.Contains(t, m.View(), editor.SuccessMessage)

	rec, _ := m.ctrl.Records().Get(0)
	assert.Equal(t, false, rec.Props["active"])

	m, _ = send(t, m, hideNotificationMsg{seq: n.Seq})
	_, ok = m.ctrl.Notification()
	assert.False(t, ok)
}

func TestUpdateFailureShowsFailure(t *testing.T) {
	b := newBackend()
	b.updateErr = errors.New("constraint violated")
	m := selectRow(t, loaded(t, b))

	m = press(t, m, "ctrl+s")
	m, cmd := send(t, m, keyMsg("y"))
	for _, msg := range collect(cmd) {
		m, _ = send(t, m, msg)
	}

	assert.Equal(t, editor.StatusError, m.ctrl.Status())
	n, ok := m.ctrl.Notification()
	require.True(t, ok)
	assert.False(t, n.Success)
	assert.Equal(t, editor.FailureMessage, n.Message)

	rec, _ := m.ctrl.Records().Get(0)
	assert.Equal(t, true, rec.Props["active"], "record must be unchanged after a failed update")

	// x dismisses by hand
	m = press(t, m, "x")
	_, ok = m.ctrl.Notification()
	assert.False(t, ok)
}

func TestDeclineDoesNotUpdate(t *testing.T) {
	b := newBackend()
	m := selectRow(t, loaded(t, b))

	m = press(t, m, "ctrl+s", "n")
	assert.False(t, m.ctrl.Confirming())
	assert.Empty(t, b.updates)
	assert.Equal(t, editor.StatusIdle, m.ctrl.Status())
}

func TestKeysIgnoredWhileUpdateRuns(t *testing.T) {
	m := selectRow(t, loaded(t, newBackend()))

	m = press(t, m, "ctrl+s", "y", "n", "esc")
	assert.True(t, m.ctrl.Confirming())
	assert.Equal(t, editor.StatusRunning, m.ctrl.Status())
	assert.Contains(t, m.View(), "Updating node")
}

func TestOtherPromptStoresTypedText(t *testing.T) {
	m := selectRow(t, loaded(t, newBackend()))

	// "name" is the second field; options are Alice, Bob, Other
	m = press(t, m, "down", "enter")
	require.Equal(t, ModeEditing, m.Mode)
	m = press(t, m, "down", "down", "enter")
	require.Equal(t, ModeOtherPrompt, m.Mode)
	assert.Equal(t, graph.OtherOption, m.ctrl.Form().Draft()["name"])

	m = press(t, m, "Zed", "enter")
	assert.Equal(t, ModeNormal, m.Mode)
	assert.Equal(t, "Zed", m.ctrl.Form().Draft()["name"])
}

func TestOtherPromptCancelKeepsLiteral(t *testing.T) {
	m := selectRow(t, loaded(t, newBackend()))

	m = press(t, m, "down", "enter", "up", "enter", "esc")
	assert.Equal(t, ModeNormal, m.Mode)
	assert.Equal(t, graph.OtherOption, m.ctrl.Form().Draft()["name"])
}

func TestTextFieldEditing(t *testing.T) {
	b := newBackend()
	b.suggestions = nil
	m := selectRow(t, loaded(t, b))

	m = press(t, m, "down", "enter")
	require.Equal(t, ModeEditing, m.Mode)
	m = press(t, m, "!", "enter")
	assert.Equal(t, "Alice!", m.ctrl.Form().Draft()["name"])

	// esc discards the text typed since enter
	m = press(t, m, "enter", "?", "esc")
	assert.Equal(t, "Alice!", m.ctrl.Form().Draft()["name"])
}

func TestFilterNarrowsRows(t *testing.T) {
	m := loaded(t, newBackend())

	m = press(t, m, "/", "bob")
	assert.Equal(t, ModeFilter, m.Mode)
	assert.Equal(t, 1, m.view.MatchCount())

	m = press(t, m, "enter")
	assert.Equal(t, ModeNormal, m.Mode)
	assert.Equal(t, "bob", m.view.Filter())

	m = press(t, m, "/", "esc")
	assert.Equal(t, "", m.view.Filter())
	assert.Equal(t, 2, m.view.MatchCount())
}

func TestSortAndPageSizeKeys(t *testing.T) {
	m := loaded(t, newBackend())

	// column cursor starts on "active"; move to "name" and sort
	m = press(t, m, "l", "s")
	col, order := m.view.Sort()
	assert.Equal(t, "name", col)
	assert.Equal(t, table.SortAsc, order)

	m = press(t, m, "p")
	assert.Equal(t, 10, m.view.PageSize())
}

func TestHelpModal(t *testing.T) {
	m := loaded(t, newBackend())
	m = press(t, m, "?")
	assert.True(t, m.showHelp)
	assert.True(t, strings.Contains(m.View(), "NODEEDIT HELP"))

	m = press(t, m, "a")
	assert.False(t, m.showHelp)
}

func TestReloadKeepsSelection(t *testing.T) {
	b := newBackend()
	m := selectRow(t, loaded(t, b))

	m, _ = send(t, m, loadRecordsCmd(b, m.opts.Spec)())
	_, ok := m.ctrl.Selected()
	assert.True(t, ok)
	assert.Equal(t, PaneForm, m.Pane)
}

func TestReorderedReloadUpdatesSelectedNode(t *testing.T) {
	b := newBackend()
	m := selectRow(t, loaded(t, b))

	// toggle Alice's "active" before the reload swaps the row order
	m = press(t, m, "enter")
	m, _ = send(t, m, recordsLoadedMsg{records: graph.NewRecordSet([]graph.Record{
		{Key: 0, ElementID: "4:db:1", Labels: []string{"Person"}, Props: map[string]any{"name": "Bob", "active": false}},
		{Key: 1, ElementID: "4:db:0", Labels: []string{"Person"}, Props: map[string]any{"name": "Alice", "active": true}},
	})})

	rec, ok := m.ctrl.Selected()
	require.True(t, ok)
	assert.Equal(t, "4:db:0", rec.ElementID)

	m = press(t, m, "ctrl+s")
	m, cmd := send(t, m, keyMsg("y"))
	for _, msg := range collect(cmd) {
		m, _ = send(t, m, msg)
		if _, ok := msg.(updateCompleteMsg); ok {
			break
		}
	}

	require.Equal(t, []string{"4:db:0"}, b.targets)
	assert.Equal(t, map[string]any{"active": false, "name": "Alice"}, b.updates[0])

	bob, _ := m.ctrl.Records().Get(0)
	assert.Equal(t, "Bob", bob.Props["name"])
	assert.Equal(t, false, bob.Props["active"])
	alice, _ := m.ctrl.Records().Get(1)
	assert.Equal(t, false, alice.Props["active"])
}

func TestUnchangedTextEnterKeepsTypes(t *testing.T) {
	props := map[string]any{"age": int64(30), "tags": []any{"a", "b"}}
	b := &fakeBackend{records: graph.NewRecordSet([]graph.Record{
		{Key: 0, ElementID: "4:db:0", Labels: []string{"Person"}, Props: graph.CloneProps(props)},
	})}
	m := selectRow(t, loaded(t, b))

	// open and close "age", then "tags", without typing
	m = press(t, m, "enter", "enter", "down", "enter", "enter")
	assert.Equal(t, ModeNormal, m.Mode)
	assert.False(t, m.ctrl.Form().Edited())

	m = press(t, m, "ctrl+s")
	m, cmd := send(t, m, keyMsg("y"))
	for _, msg := range collect(cmd) {
		m, _ = send(t, m, msg)
		if _, ok := msg.(updateCompleteMsg); ok {
			break
		}
	}
	require.Len(t, b.updates, 1)
	assert.Equal(t, props, b.updates[0])
}

func TestListFieldRejectsInvalidJSON(t *testing.T) {
	b := &fakeBackend{records: graph.NewRecordSet([]graph.Record{
		{Key: 0, ElementID: "4:db:0", Props: map[string]any{"tags": []any{"a", "b"}}},
	})}
	m := selectRow(t, loaded(t, b))

	m = press(t, m, "enter", "x", "enter")
	assert.Equal(t, ModeEditing, m.Mode)
	assert.NotEmpty(t, m.edit.err)
	assert.Equal(t, []any{"a", "b"}, m.ctrl.Form().Draft()["tags"])

	m = press(t, m, "esc")
	assert.Equal(t, ModeNormal, m.Mode)
	assert.False(t, m.ctrl.Form().Edited())
}
