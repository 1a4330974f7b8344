package form

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/muurk/nodeedit/internal/graph"
)

// Apply sets a field from text, parsed according to the field's kind:
//
//	boolean      true, false, 1, 0
//	date         YYYY-MM-DD
//	point        x,y
//	point list   x,y;x,y  (one pair per existing element)
//	enumerated   an option's text, or any other text
//	text         stored as typed; lists and maps as JSON
//
// Unlike the interactive controls, malformed numbers are rejected rather
// than stored as NaN. A rejected point list leaves every point unchanged.
func (f *Form) Apply(key, text string) error {
	field, ok := f.byKey[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, key)
	}

	switch field.Kind {
	case graph.KindBoolean:
		b, err := strconv.ParseBool(strings.TrimSpace(text))
		if err != nil {
			return fmt.Errorf("%w: %s expects true or false, got %q", ErrWrongKind, key, text)
		}
		return f.SetBool(key, b)

	case graph.KindDate:
		return f.ParseDate(key, text)

	case graph.KindPoint, graph.KindPointList:
		pairs := strings.Split(text, ";")
		if len(pairs) != len(field.Points) {
			return fmt.Errorf("%w: %s has %d point(s), got %d", ErrWrongKind, key, len(field.Points), len(pairs))
		}
		coords := make([][2]string, len(pairs))
		for i, pair := range pairs {
			xy := strings.Split(pair, ",")
			if len(xy) != 2 {
				return fmt.Errorf("%w: %s expects x,y, got %q", ErrWrongKind, key, pair)
			}
			for axis, s := range xy {
				s = strings.TrimSpace(s)
				if _, err := strconv.ParseFloat(s, 64); err != nil {
					return fmt.Errorf("%w: %s coordinate %q is not a number", ErrWrongKind, key, s)
				}
				coords[i][axis] = s
			}
		}
		for i, xy := range coords {
			for axis, s := range xy {
				if err := f.SetCoordinate(key, i, Axis(axis), s); err != nil {
					return err
				}
			}
		}
		return nil

	case graph.KindEnumerated:
		for i, o := range field.Options {
			if !field.IsOther(i) && graph.FormatValue(o) == text {
				return f.Choose(key, i)
			}
		}
		return f.SetText(key, text)

	default:
		return f.SetText(key, text)
	}
}
