// Package form builds the editable property form for one record.
//
// Each property key becomes a Field whose kind is resolved once, when the
// record is loaded:
//
//  1. a non-empty suggestion list makes the field Enumerated, offering the
//     list plus the literal "Other";
//  2. booleans become toggles;
//  3. arrays of points become one (x, y) pair per element;
//  4. points become a single (x, y) pair;
//  5. temporal values become a date picker;
//  6. everything else is free text.
//
// Edits accumulate in a Draft that starts as a copy of the record. Draft()
// always returns every key, edited or not.
package form

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/muurk/nodeedit/internal/graph"
)

var (
	// ErrUnknownField is returned when an edit names a key the form does not have.
	ErrUnknownField = errors.New("unknown field")
	// ErrWrongKind is returned when an edit does not fit the field's kind.
	ErrWrongKind = errors.New("edit does not match field kind")
)

// Axis selects a coordinate of a point pair.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// String returns "x" or "y"
func (a Axis) String() string {
	if a == AxisY {
		return "y"
	}
	return "x"
}

// Field is one rendered control.
type Field struct {
	Key  string
	Kind graph.Kind

	// Options holds the selectable values of an Enumerated field, the
	// "Other" literal last. Selected indexes Options, -1 when the current
	// value is not among them.
	Options  []any
	Selected int

	Bool      bool
	Points    []graph.Point
	Date      time.Time
	DateStyle graph.DateStyle
	Text      string

	// Inputs holds the raw text typed into each coordinate box, keyed
	// "index.axis", so a NaN keeps showing what the user typed.
	Inputs map[string]string

	Edited bool
	value  any
}

// Value returns the draft value of the field.
func (f Field) Value() any {
	return f.value
}

// Display returns the text shown for the field when it is not being edited.
func (f Field) Display() string {
	switch f.Kind {
	case graph.KindBoolean:
		if f.Bool {
			return "on"
		}
		return "off"
	case graph.KindPoint, graph.KindPointList:
		parts := make([]string, len(f.Points))
		for i, p := range f.Points {
			parts[i] = fmt.Sprintf("(%s, %s)", f.Coordinate(i, AxisX), f.Coordinate(i, AxisY))
			if p.HasSRID {
				parts[i] += fmt.Sprintf(" SRID: %d", p.SRID)
			}
		}
		return strings.Join(parts, " ")
	case graph.KindDate:
		return graph.FormatValue(graph.DateRaw(f.Date, f.DateStyle))
	default:
		return graph.FormatValue(f.value)
	}
}

// Coordinate returns the text of one coordinate box.
func (f Field) Coordinate(index int, axis Axis) string {
	if s, ok := f.Inputs[inputKey(index, axis)]; ok {
		return s
	}
	if index < 0 || index >= len(f.Points) {
		return ""
	}
	v := f.Points[index].X
	if axis == AxisY {
		v = f.Points[index].Y
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func inputKey(index int, axis Axis) string {
	return fmt.Sprintf("%d.%s", index, axis)
}

// Form is the property form for one record.
type Form struct {
	record *graph.Record
	fields []*Field
	byKey  map[string]*Field
}

// New creates a form for record (nil for an empty form).
func New(record *graph.Record, suggestions graph.Suggestions) *Form {
	f := &Form{}
	f.Load(record, suggestions)
	return f
}

// Load replaces the form contents with record. Any unsaved edits of the
// previous record are discarded.
func (f *Form) Load(record *graph.Record, suggestions graph.Suggestions) {
	f.fields = nil
	f.byKey = make(map[string]*Field)
	f.record = nil
	if record == nil {
		return
	}

	rec := record.Clone()
	f.record = &rec
	for _, key := range graph.SortedKeys(rec.Props) {
		field := newField(key, rec.Props[key], suggestions.For(key))
		f.fields = append(f.fields, field)
		f.byKey[key] = field
	}
}

// Suggest re-resolves field kinds against suggestions that arrived after
// Load. Draft values and edit marks are kept.
func (f *Form) Suggest(suggestions graph.Suggestions) {
	for i, old := range f.fields {
		field := newField(old.Key, old.value, suggestions.For(old.Key))
		field.Edited = old.Edited
		if field.Kind == old.Kind {
			field.Inputs = old.Inputs
		}
		f.fields[i] = field
		f.byKey[old.Key] = field
	}
}

// Record returns the record the form was loaded from.
func (f *Form) Record() (graph.Record, bool) {
	if f.record == nil {
		return graph.Record{}, false
	}
	return *f.record, true
}

func newField(key string, v any, options []any) *Field {
	field := &Field{Key: key, value: v, Selected: -1, Inputs: make(map[string]string)}

	if len(options) > 0 {
		field.Kind = graph.KindEnumerated
		field.Options = append(append([]any(nil), options...), graph.OtherOption)
		field.Selected = indexOf(field.Options, v)
		return field
	}

	field.Kind = graph.Classify(v)
	switch field.Kind {
	case graph.KindBoolean:
		field.Bool = v.(bool)
	case graph.KindPointList:
		field.Points, _ = graph.AsPointList(v)
	case graph.KindPoint:
		p, _ := graph.AsPoint(v)
		field.Points = []graph.Point{p}
	case graph.KindDate:
		field.Date, field.DateStyle, _ = graph.AsDate(v)
	default:
		field.Text = graph.FormatValue(v)
	}
	return field
}

func indexOf(options []any, v any) int {
	want := graph.FormatValue(v)
	for i, o := range options {
		if graph.FormatValue(o) == want {
			return i
		}
	}
	return -1
}

// Fields returns the fields in display order.
func (f *Form) Fields() []Field {
	out := make([]Field, len(f.fields))
	for i, field := range f.fields {
		out[i] = *field
	}
	return out
}

// Len returns the number of fields
func (f *Form) Len() int {
	return len(f.fields)
}

// Field returns the field for key.
func (f *Form) Field(key string) (Field, bool) {
	field, ok := f.byKey[key]
	if !ok {
		return Field{}, false
	}
	return *field, true
}

func (f *Form) lookup(key string, kinds ...graph.Kind) (*Field, error) {
	field, ok := f.byKey[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
	}
	for _, k := range kinds {
		if field.Kind == k {
			return field, nil
		}
	}
	return nil, fmt.Errorf("%w: %s is %s", ErrWrongKind, key, field.Kind)
}

// SetText stores raw text. Text fields accept it, and so do Enumerated
// fields, which is how a value typed after choosing "Other" is stored.
// A Text field holding a list or map keeps that shape: the text must be
// JSON of the same shape and is stored decoded.
func (f *Form) SetText(key, text string) error {
	field, err := f.lookup(key, graph.KindText, graph.KindEnumerated)
	if err != nil {
		return err
	}
	var value any = text
	if field.Kind == graph.KindText && isComposite(field.value) {
		if value, err = decodeComposite(field.value, text); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrWrongKind, key, err)
		}
	}
	field.Text = text
	field.value = value
	field.Edited = true
	if field.Kind == graph.KindEnumerated {
		field.Selected = indexOf(field.Options, text)
	}
	return nil
}

// Toggle flips a boolean field.
func (f *Form) Toggle(key string) error {
	field, err := f.lookup(key, graph.KindBoolean)
	if err != nil {
		return err
	}
	return f.SetBool(key, !field.Bool)
}

// SetBool sets a boolean field.
func (f *Form) SetBool(key string, on bool) error {
	field, err := f.lookup(key, graph.KindBoolean)
	if err != nil {
		return err
	}
	field.Bool = on
	field.value = on
	field.Edited = true
	return nil
}

// SetCoordinate parses text as one coordinate of a point or of one point of
// a point list. Unparseable text stores NaN rather than failing.
func (f *Form) SetCoordinate(key string, index int, axis Axis, text string) error {
	field, err := f.lookup(key, graph.KindPoint, graph.KindPointList)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(field.Points) {
		return fmt.Errorf("%w: %s has no element %d", ErrWrongKind, key, index)
	}

	n, perr := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if perr != nil {
		n = math.NaN()
	}
	if axis == AxisY {
		field.Points[index].Y = n
	} else {
		field.Points[index].X = n
	}
	field.Inputs[inputKey(index, axis)] = text
	field.Edited = true

	if field.Kind == graph.KindPoint {
		field.value = field.Points[0].Raw()
		return nil
	}
	items := make([]any, len(field.Points))
	for i, p := range field.Points {
		items[i] = p.Raw()
	}
	field.value = items
	return nil
}

// SetDate replaces a date field's value with the picked date.
func (f *Form) SetDate(key string, t time.Time) error {
	field, err := f.lookup(key, graph.KindDate)
	if err != nil {
		return err
	}
	field.Date = t
	field.value = graph.DateRaw(t, field.DateStyle)
	field.Edited = true
	return nil
}

// ParseDate parses an ISO date (YYYY-MM-DD) and keeps the time of day of
// the current value.
func (f *Form) ParseDate(key, text string) error {
	field, err := f.lookup(key, graph.KindDate)
	if err != nil {
		return err
	}
	day, err := time.Parse(time.DateOnly, strings.TrimSpace(text))
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", text, err)
	}
	cur := field.Date
	t := time.Date(day.Year(), day.Month(), day.Day(),
		cur.Hour(), cur.Minute(), cur.Second(), cur.Nanosecond(), locationOf(cur))
	return f.SetDate(key, t)
}

// ShiftDate moves a date field by days.
func (f *Form) ShiftDate(key string, days int) error {
	field, err := f.lookup(key, graph.KindDate)
	if err != nil {
		return err
	}
	return f.SetDate(key, field.Date.AddDate(0, 0, days))
}

func locationOf(t time.Time) *time.Location {
	if t.Location() == nil {
		return time.UTC
	}
	return t.Location()
}

// Choose selects an option of an Enumerated field and stores the chosen
// literal. Choosing "Other" stores the string "Other".
func (f *Form) Choose(key string, option int) error {
	field, err := f.lookup(key, graph.KindEnumerated)
	if err != nil {
		return err
	}
	if option < 0 || option >= len(field.Options) {
		return fmt.Errorf("%w: %s has no option %d", ErrWrongKind, key, option)
	}
	field.Selected = option
	field.value = field.Options[option]
	field.Text = graph.FormatValue(field.value)
	field.Edited = true
	return nil
}

// IsOther reports whether option is the "Other" escape of an Enumerated field.
func (f Field) IsOther(option int) bool {
	return f.Kind == graph.KindEnumerated && option == len(f.Options)-1
}

// Edited reports whether any field has been edited since the last Load.
func (f *Form) Edited() bool {
	for _, field := range f.fields {
		if field.Edited {
			return true
		}
	}
	return false
}

// Draft returns the full working copy: every key of the record, with
// edited fields holding their new value.
func (f *Form) Draft() map[string]any {
	out := make(map[string]any, len(f.fields))
	for _, field := range f.fields {
		out[field.Key] = field.value
	}
	return out
}
