package editor

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/muurk/nodeedit/internal/graph"
)

func sample() *graph.RecordSet {
	return graph.NewRecordSet([]graph.Record{
		{Key: 0, ElementID: "4:db:0", Labels: []string{"Person"}, Props: map[string]any{"name": "Alice", "active": true}},
		{Key: 1, ElementID: "4:db:1", Labels: []string{"Person"}, Props: map[string]any{"name": "Bob", "active": false}},
	})
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestSelectLoadsFormAndLeavesStatus(t *testing.T) {
	c := New(sample())
	req, err := c.Select(1)
	require.NoError(t, err)
	assert.Equal(t, 1, req.Key)
	assert.Equal(t, "4:db:1", req.Record.ElementID)

	assert.Equal(t, map[string]any{"name": "Bob", "active": false}, c.Form().Draft())
	assert.Equal(t, StatusIdle, c.Status())

	_, err = c.Select(9)
	assert.ErrorIs(t, err, ErrRecordGone)
}

func TestStaleSuggestionsAreDiscarded(t *testing.T) {
	c := New(sample())
	_, _ = c.Select(0)
	_, _ = c.Select(1)

	applied := c.ApplySuggestions("4:db:0", graph.Suggestions{"name": {"Alice"}}, nil)
	assert.False(t, applied)
	assert.Nil(t, c.Suggestions())

	applied = c.ApplySuggestions("4:db:1", graph.Suggestions{"name": {"Bob", "Carol"}}, nil)
	assert.True(t, applied)
	field, _ := c.Form().Field("name")
	assert.Equal(t, graph.KindEnumerated, field.Kind)
}

func TestFailedSuggestionFetchClearsSuggestions(t *testing.T) {
	c := New(sample())
	_, _ = c.Select(0)
	c.ApplySuggestions("4:db:0", graph.Suggestions{"name": {"Alice"}}, nil)

	assert.True(t, c.ApplySuggestions("4:db:0", graph.Suggestions{"name": {"x"}}, errors.New("timeout")))
	assert.Nil(t, c.Suggestions())
	assert.Equal(t, StatusIdle, c.Status())
	_, shown := c.Notification()
	assert.False(t, shown)
}

func TestSaveRequiresSelection(t *testing.T) {
	c := New(sample())
	assert.ErrorIs(t, c.Save(map[string]any{"a": 1}), ErrNoSelection)
	_, err := c.Confirm()
	assert.ErrorIs(t, err, ErrNoPendingEdit)
}

func TestDeclineHasNoSideEffects(t *testing.T) {
	c := New(sample())
	_, _ = c.Select(0)
	require.NoError(t, c.Form().Toggle("active"))
	require.NoError(t, c.Save(c.Form().Draft()))
	assert.True(t, c.Confirming())

	c.Decline()
	assert.False(t, c.Confirming())
	assert.Equal(t, StatusIdle, c.Status())
	rec, _ := c.Records().Get(0)
	assert.Equal(t, true, rec.Props["active"])

	_, err := c.Confirm()
	assert.ErrorIs(t, err, ErrNoPendingEdit)
}

func TestConfirmAndCompleteSuccess(t *testing.T) {
	clk := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := New(sample(), WithClock(clk.now))
	_, _ = c.Select(0)
	require.NoError(t, c.Form().Toggle("active"))
	require.NoError(t, c.Save(c.Form().Draft()))

	sub, err := c.Confirm()
	require.NoError(t, err)
	assert.NotEmpty(t, sub.ID)
	assert.Equal(t, "4:db:0", sub.ElementID)
	assert.Equal(t, map[string]any{"name": "Alice", "active": false}, sub.Props)
	assert.Equal(t, StatusRunning, c.Status())
	assert.True(t, c.InFlight("4:db:0"))

	updated := &graph.Record{ElementID: "4:db:0", Labels: []string{"Person"}, Props: map[string]any{"name": "Alice", "active": false}}
	n := c.Complete(sub, updated, nil)

	assert.True(t, n.Success)
	assert.Equal(t, "Data successfully updated!", n.Message)
	assert.Equal(t, StatusSubmitted, c.Status())
	assert.False(t, c.Confirming())
	assert.False(t, c.InFlight("4:db:0"))

	rec, _ := c.Records().Get(0)
	assert.Equal(t, false, rec.Props["active"])
	assert.Equal(t, 0, rec.Key)
	assert.Equal(t, false, c.Form().Draft()["active"])
}

func TestCompleteFailure(t *testing.T) {
	c := New(sample())
	_, _ = c.Select(1)
	require.NoError(t, c.Save(c.Form().Draft()))
	sub, err := c.Confirm()
	require.NoError(t, err)

	n := c.Complete(sub, nil, errors.New("constraint violation"))
	assert.False(t, n.Success)
	assert.Equal(t, "Failed to update data.", n.Message)
	assert.Equal(t, StatusError, c.Status())
	assert.False(t, c.Confirming())

	rec, _ := c.Records().Get(1)
	assert.Equal(t, "Bob", rec.Props["name"])

	// a new edit is allowed after an error
	require.NoError(t, c.Save(c.Form().Draft()))
}

func TestSingleFlightGuard(t *testing.T) {
	c := New(sample())
	_, _ = c.Select(0)
	require.NoError(t, c.Save(c.Form().Draft()))

	first, err := c.Confirm()
	require.NoError(t, err)

	_, err = c.Confirm()
	assert.ErrorIs(t, err, ErrSubmissionInFlight)
	assert.ErrorIs(t, c.Save(c.Form().Draft()), ErrSubmissionInFlight)

	c.Complete(first, nil, nil)
	require.NoError(t, c.Save(c.Form().Draft()))
	_, err = c.Confirm()
	assert.NoError(t, err)
}

func TestReorderKeepsDraftOnSameNode(t *testing.T) {
	c := New(sample())
	_, _ = c.Select(0)
	require.NoError(t, c.Form().Toggle("active"))

	c.SetRecords(graph.NewRecordSet([]graph.Record{
		{Key: 0, ElementID: "4:db:1", Labels: []string{"Person"}, Props: map[string]any{"name": "Bob", "active": false}},
		{Key: 1, ElementID: "4:db:0", Labels: []string{"Person"}, Props: map[string]any{"name": "Alice", "active": true}},
	}))

	rec, ok := c.Selected()
	require.True(t, ok)
	assert.Equal(t, "4:db:0", rec.ElementID)
	assert.Equal(t, 1, rec.Key)
	assert.Equal(t, map[string]any{"name": "Alice", "active": false}, c.Form().Draft())

	assert.False(t, c.ApplySuggestions("4:db:1", graph.Suggestions{"name": {"Bob"}}, nil))
	assert.True(t, c.ApplySuggestions("4:db:0", graph.Suggestions{"name": {"Alice"}}, nil))

	require.NoError(t, c.Save(c.Form().Draft()))
	sub, err := c.Confirm()
	require.NoError(t, err)
	assert.Equal(t, "4:db:0", sub.ElementID)
	assert.Equal(t, map[string]any{"name": "Alice", "active": false}, sub.Props)
}

func TestCompleteFollowsNodeAcrossReload(t *testing.T) {
	c := New(sample())
	_, _ = c.Select(0)
	require.NoError(t, c.Form().Toggle("active"))
	require.NoError(t, c.Save(c.Form().Draft()))
	sub, err := c.Confirm()
	require.NoError(t, err)

	c.SetRecords(graph.NewRecordSet([]graph.Record{
		{Key: 0, ElementID: "4:db:1", Props: map[string]any{"name": "Bob", "active": false}},
		{Key: 1, ElementID: "4:db:0", Props: map[string]any{"name": "Alice", "active": true}},
	}))
	updated := &graph.Record{ElementID: "4:db:0", Props: map[string]any{"name": "Alice", "active": false}}
	c.Complete(sub, updated, nil)

	bob, _ := c.Records().Get(0)
	assert.Equal(t, "Bob", bob.Props["name"])
	alice, _ := c.Records().Get(1)
	assert.Equal(t, "4:db:0", alice.ElementID)
	assert.Equal(t, false, alice.Props["active"])
}

func TestSetRecordsDropsMissingSelection(t *testing.T) {
	c := New(sample())
	_, _ = c.Select(1)
	c.SetRecords(graph.NewRecordSet(nil))

	_, ok := c.Selected()
	assert.False(t, ok)
	assert.Equal(t, 0, c.Form().Len())
}

func TestNotificationExpiresAndDismiss(t *testing.T) {
	clk := &clock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := New(sample(), WithClock(clk.now))
	assert.Equal(t, DefaultNotificationTTL, c.NotificationTTL())

	_, _ = c.Select(0)
	require.NoError(t, c.Save(c.Form().Draft()))
	sub, _ := c.Confirm()
	first := c.Complete(sub, nil, nil)

	n, ok := c.Notification()
	require.True(t, ok)
	assert.Equal(t, first.Seq, n.Seq)

	clk.t = clk.t.Add(6 * time.Second)
	_, ok = c.Notification()
	assert.False(t, ok)

	clk.t = clk.t.Add(time.Second)
	require.NoError(t, c.Save(c.Form().Draft()))
	sub, _ = c.Confirm()
	second := c.Complete(sub, nil, errors.New("x"))

	c.Dismiss(first.Seq)
	_, ok = c.Notification()
	assert.True(t, ok)

	c.Dismiss(second.Seq)
	_, ok = c.Notification()
	assert.False(t, ok)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "idle", StatusIdle.String())
	assert.Equal(t, "running", StatusRunning.String())
	assert.Equal(t, "submitted", StatusSubmitted.String())
	assert.Equal(t, "error", StatusError.String())
}
