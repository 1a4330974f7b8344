package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/nodeedit/internal/editor"
	"github.com/muurk/nodeedit/internal/graph"
	"github.com/muurk/nodeedit/internal/query"
)

// Backend is what the UI needs from the query layer. *query.Service
// implements it.
type Backend interface {
	LoadRecords(ctx context.Context, spec query.LoadSpec) (*graph.RecordSet, error)
	Suggestions(ctx context.Context, rec graph.Record) (graph.Suggestions, error)
	Update(ctx context.Context, elementID string, props map[string]any) (*graph.Record, error)
}

// Message types for async operations. Each command resolves exactly once
// with one of these.
type recordsLoadedMsg struct {
	records *graph.RecordSet
	err     error
}

type suggestionsMsg struct {
	elementID   string
	suggestions graph.Suggestions
	err         error
}

type updateCompleteMsg struct {
	submission editor.Submission
	record     *graph.Record
	err        error
}

type hideNotificationMsg struct {
	seq int
}

func loadRecordsCmd(backend Backend, spec query.LoadSpec) tea.Cmd {
	return func() tea.Msg {
		records, err := backend.LoadRecords(context.Background(), spec)
		return recordsLoadedMsg{records: records, err: err}
	}
}

func fetchSuggestionsCmd(backend Backend, req editor.SuggestionRequest) tea.Cmd {
	return func() tea.Msg {
		s, err := backend.Suggestions(context.Background(), req.Record)
		return suggestionsMsg{elementID: req.ElementID, suggestions: s, err: err}
	}
}

func updateCmd(backend Backend, sub editor.Submission) tea.Cmd {
	return func() tea.Msg {
		rec, err := backend.Update(context.Background(), sub.ElementID, sub.Props)
		return updateCompleteMsg{submission: sub, record: rec, err: err}
	}
}

func hideNotificationCmd(after time.Duration, seq int) tea.Cmd {
	return tea.Tick(after, func(time.Time) tea.Msg {
		return hideNotificationMsg{seq: seq}
	})
}
