package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/muurk/nodeedit/internal/form"
	"github.com/muurk/nodeedit/internal/graph"
	"github.com/muurk/nodeedit/internal/logging"
)

// Status is the state of the most recent submission.
type Status int

const (
	StatusIdle Status = iota
	StatusRunning
	StatusSubmitted
	StatusError
)

// String returns the lower-case status name.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusSubmitted:
		return "submitted"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Notification messages.
const (
	SuccessMessage = "Data successfully updated!"
	FailureMessage = "Failed to update data."
)

// DefaultNotificationTTL is how long a notification stays visible.
const DefaultNotificationTTL = 6 * time.Second

var (
	ErrNoSelection        = errors.New("no record selected")
	ErrNoPendingEdit      = errors.New("no edit awaiting confirmation")
	ErrSubmissionInFlight = errors.New("an update for this node is already running")
	ErrRecordGone         = errors.New("record is no longer loaded")
)

// SuggestionRequest asks the caller to fetch suggestions for Record and hand
// them back through ApplySuggestions.
type SuggestionRequest struct {
	Key       int
	ElementID string
	Record    graph.Record
}

// Submission is one confirmed update, handed to the caller to execute and
// passed back to Complete with the outcome.
type Submission struct {
	ID        string
	Key       int
	ElementID string
	Props     map[string]any
}

// Notification is the transient outcome message of a submission.
type Notification struct {
	Seq     int
	Success bool
	Message string
	Expires time.Time
}

// Controller holds the selection, the form, the pending confirmation and the
// submission status. It performs no I/O; fetches and updates are requested
// through return values and completed by calling back in.
type Controller struct {
	mu sync.Mutex

	records     *graph.RecordSet
	form        *form.Form
	selected    int
	selectedID  string
	hasSelected bool
	suggestions graph.Suggestions

	pending    map[string]any
	confirming bool
	status     Status
	inFlight   map[string]string

	notification *Notification
	notifySeq    int
	ttl          time.Duration
	now          func() time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotificationTTL overrides how long notifications stay visible.
func WithNotificationTTL(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.ttl = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// New creates a controller over records.
func New(records *graph.RecordSet, opts ...Option) *Controller {
	c := &Controller{
		records:  records,
		form:     form.New(nil, nil),
		inFlight: make(map[string]string),
		ttl:      DefaultNotificationTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetRecords replaces the loaded record set. Keys are reassigned on every
// load, so the selection follows its element id to whatever key it now has.
// It is cleared when the node is no longer in the set.
func (c *Controller) SetRecords(records *graph.RecordSet) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.records = records
	if !c.hasSelected {
		return
	}
	rec, ok := records.FindElement(c.selectedID)
	if !ok {
		c.clearSelection()
		return
	}
	c.selected = rec.Key
}

func (c *Controller) clearSelection() {
	c.hasSelected = false
	c.selected = 0
	c.selectedID = ""
	c.suggestions = nil
	c.form.Load(nil, nil)
	c.pending = nil
	c.confirming = false
}

// Records returns the loaded record set.
func (c *Controller) Records() *graph.RecordSet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.records
}

// Select makes the record with key the selection and reloads the form with
// it, discarding any unsaved edits and any open confirmation. Suggestions are
// cleared until the returned request is answered. Status is unchanged.
func (c *Controller) Select(key int) (SuggestionRequest, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec, ok := c.records.Get(key)
	if !ok {
		return SuggestionRequest{}, fmt.Errorf("%w: key %d", ErrRecordGone, key)
	}
	c.selected = key
	c.selectedID = rec.ElementID
	c.hasSelected = true
	c.suggestions = nil
	c.pending = nil
	c.confirming = false
	c.form.Load(&rec, nil)

	return SuggestionRequest{Key: key, ElementID: rec.ElementID, Record: rec.Clone()}, nil
}

// ApplySuggestions stores the outcome of a suggestion fetch for the node with
// elementID. Results for a node that is no longer selected are discarded and
// false is returned. A failed fetch leaves no suggestions; the failure is
// logged only.
func (c *Controller) ApplySuggestions(elementID string, s graph.Suggestions, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasSelected || elementID != c.selectedID {
		logging.Debug("Discarding suggestions for stale selection", zap.String("element_id", elementID))
		return false
	}
	if err != nil {
		logging.Warn("Suggestion fetch failed", zap.String("element_id", elementID), zap.Error(err))
		c.suggestions = nil
	} else {
		c.suggestions = s
	}
	c.form.Suggest(c.suggestions)
	return true
}

// Selected returns the selected record.
func (c *Controller) Selected() (graph.Record, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.hasSelected {
		return graph.Record{}, false
	}
	return c.records.Get(c.selected)
}

// Suggestions returns the suggestions for the selected record, nil when
// none have arrived.
func (c *Controller) Suggestions() graph.Suggestions {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.suggestions
}

// Form returns the form for the selected record. The caller must not use it
// concurrently with the controller.
func (c *Controller) Form() *form.Form {
	return c.form
}

// Save records draft as the pending edit and opens the confirmation step.
func (c *Controller) Save(draft map[string]any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasSelected {
		return ErrNoSelection
	}
	if c.status == StatusRunning {
		return ErrSubmissionInFlight
	}
	c.pending = copyProps(draft)
	c.confirming = true
	return nil
}

// Confirming reports whether the confirmation step is open.
func (c *Controller) Confirming() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.confirming
}

// Pending returns the draft awaiting confirmation.
func (c *Controller) Pending() map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyProps(c.pending)
}

// Decline closes the confirmation step without side effects.
func (c *Controller) Decline() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = nil
	c.confirming = false
	if c.status != StatusRunning {
		c.status = StatusIdle
	}
}

// Confirm turns the pending edit into a Submission for the selected node.
// Only one submission per element id may run at a time.
func (c *Controller) Confirm() (Submission, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.confirming || c.pending == nil {
		return Submission{}, ErrNoPendingEdit
	}
	rec, ok := c.records.FindElement(c.selectedID)
	if !ok {
		return Submission{}, fmt.Errorf("%w: %s", ErrRecordGone, c.selectedID)
	}
	if _, running := c.inFlight[rec.ElementID]; running {
		return Submission{}, ErrSubmissionInFlight
	}

	sub := Submission{
		ID:        uuid.NewString(),
		Key:       rec.Key,
		ElementID: rec.ElementID,
		Props:     copyProps(c.pending),
	}
	c.inFlight[sub.ElementID] = sub.ID
	c.status = StatusRunning
	logging.LogSubmission(sub.ID, sub.ElementID, "started", len(sub.Props), nil)
	return sub, nil
}

// Complete records the outcome of sub. On success updated, when non-nil,
// replaces the stored record with the same element id, wherever a reload
// has since moved it, and reloads the form if that node is still selected.
// The confirmation step is closed either way. The returned notification is
// also kept as the current one.
func (c *Controller) Complete(sub Submission, updated *graph.Record, err error) Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.inFlight[sub.ElementID] == sub.ID {
		delete(c.inFlight, sub.ElementID)
	}
	c.pending = nil
	c.confirming = false

	if err != nil {
		c.status = StatusError
		logging.LogSubmission(sub.ID, sub.ElementID, "failed", len(sub.Props), err)
		return c.notify(false, FailureMessage)
	}

	c.status = StatusSubmitted
	logging.LogSubmission(sub.ID, sub.ElementID, "succeeded", len(sub.Props), nil)
	if updated != nil {
		if cur, ok := c.records.FindElement(sub.ElementID); ok {
			rec := updated.Clone()
			rec.Key = cur.Key
			rec.ElementID = sub.ElementID
			if c.records.Replace(rec) && c.hasSelected && c.selectedID == sub.ElementID {
				c.form.Load(&rec, c.suggestions)
			}
		}
	}
	return c.notify(true, SuccessMessage)
}

// Status returns the submission status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// InFlight reports whether a submission for elementID is running.
func (c *Controller) InFlight(elementID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inFlight[elementID]
	return ok
}

func (c *Controller) notify(success bool, msg string) Notification {
	c.notifySeq++
	n := Notification{
		Seq:     c.notifySeq,
		Success: success,
		Message: msg,
		Expires: c.now().Add(c.ttl),
	}
	c.notification = &n
	return n
}

// NotificationTTL returns how long notifications stay visible.
func (c *Controller) NotificationTTL() time.Duration {
	return c.ttl
}

// Notification returns the visible notification, if any.
func (c *Controller) Notification() (Notification, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notification == nil {
		return Notification{}, false
	}
	if !c.now().Before(c.notification.Expires) {
		c.notification = nil
		return Notification{}, false
	}
	return *c.notification, true
}

// Dismiss hides the notification with seq. A newer notification is left
// alone, so an expiry timer of an old one cannot hide its successor.
func (c *Controller) Dismiss(seq int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.notification != nil && c.notification.Seq == seq {
		c.notification = nil
	}
}

func copyProps(props map[string]any) map[string]any {
	if props == nil {
		return nil
	}
	return graph.CloneProps(props)
}
