package form

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
)

// isComposite reports whether v is a list or map property rendered as JSON
// text.
func isComposite(v any) bool {
	switch v.(type) {
	case []any, []string, []int64, []float64, []bool, map[string]any:
		return true
	}
	return false
}

// decodeComposite parses text as JSON of the same shape as current: a list
// for a list, an object for a map. Whole numbers decode as int64, the type
// the driver uses for integers.
func decodeComposite(current any, text string) (any, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, errors.New("expects JSON")
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected text after JSON value")
	}

	_, wantMap := current.(map[string]any)
	switch out.(type) {
	case []any:
		if wantMap {
			return nil, errors.New("expects a JSON object")
		}
	case map[string]any:
		if !wantMap {
			return nil, errors.New("expects a JSON list")
		}
	default:
		if wantMap {
			return nil, errors.New("expects a JSON object")
		}
		return nil, errors.New("expects a JSON list")
	}
	return fromJSON(out), nil
}

func fromJSON(v any) any {
	switch x := v.(type) {
	case json.Number:
		if n, err := x.Int64(); err == nil {
			return n
		}
		f, _ := x.Float64()
		return f
	case []any:
		for i := range x {
			x[i] = fromJSON(x[i])
		}
		return x
	case map[string]any:
		for k := range x {
			x[k] = fromJSON(x[k])
		}
		return x
	}
	return v
}
