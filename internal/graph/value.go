package graph

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// Kind is the editing shape of a property value. It is decided once when a
// record is loaded, never re-inferred while editing.
type Kind int

const (
	KindText Kind = iota
	KindBoolean
	KindPointList
	KindPoint
	KindDate
	KindEnumerated
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindBoolean:
		return "boolean"
	case KindPointList:
		return "point-list"
	case KindPoint:
		return "point"
	case KindDate:
		return "date"
	case KindEnumerated:
		return "enumerated"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Spatial reference identifiers used when a point carries none.
const (
	SRIDCartesian2D uint32 = 7203
	SRIDCartesian3D uint32 = 9157
)

// Point is a spatial value. Only X and Y are editable; Z and the SRID are
// carried through unchanged.
type Point struct {
	X       float64
	Y       float64
	Z       float64
	Is3D    bool
	SRID    uint32
	HasSRID bool
}

// Raw converts the point back to the driver type used for query parameters.
func (p Point) Raw() any {
	srid := p.SRID
	if p.Is3D {
		if !p.HasSRID {
			srid = SRIDCartesian3D
		}
		return dbtype.Point3D{X: p.X, Y: p.Y, Z: p.Z, SpatialRefId: srid}
	}
	if !p.HasSRID {
		srid = SRIDCartesian2D
	}
	return dbtype.Point2D{X: p.X, Y: p.Y, SpatialRefId: srid}
}

// MarshalJSON renders the point as {"x":..,"y":..[,"z":..][,"srid":..]}.
func (p Point) MarshalJSON() ([]byte, error) {
	out := map[string]any{"x": p.X, "y": p.Y}
	if p.Is3D {
		out["z"] = p.Z
	}
	if p.HasSRID {
		out["srid"] = p.SRID
	}
	return json.Marshal(out)
}

// AsPoint reports whether v is a point. Driver point types always are; a
// map is a point only when it holds numeric x and y and no keys other than
// x, y, z and srid.
func AsPoint(v any) (Point, bool) {
	switch p := v.(type) {
	case dbtype.Point2D:
		return Point{X: p.X, Y: p.Y, SRID: p.SpatialRefId, HasSRID: true}, true
	case *dbtype.Point2D:
		if p == nil {
			return Point{}, false
		}
		return AsPoint(*p)
	case dbtype.Point3D:
		return Point{X: p.X, Y: p.Y, Z: p.Z, Is3D: true, SRID: p.SpatialRefId, HasSRID: true}, true
	case *dbtype.Point3D:
		if p == nil {
			return Point{}, false
		}
		return AsPoint(*p)
	case Point:
		return p, true
	case map[string]any:
		return pointFromMap(p)
	}
	return Point{}, false
}

func pointFromMap(m map[string]any) (Point, bool) {
	for k := range m {
		switch k {
		case "x", "y", "z", "srid":
		default:
			return Point{}, false
		}
	}
	x, okX := toFloat(m["x"])
	y, okY := toFloat(m["y"])
	if !okX || !okY {
		return Point{}, false
	}
	p := Point{X: x, Y: y}
	if raw, ok := m["z"]; ok {
		z, ok := toFloat(raw)
		if !ok {
			return Point{}, false
		}
		p.Z, p.Is3D = z, true
	}
	if raw, ok := m["srid"]; ok {
		srid, ok := toFloat(raw)
		if !ok || srid < 0 {
			return Point{}, false
		}
		p.SRID, p.HasSRID = uint32(srid), true
	}
	return p, true
}

// AsPointList reports whether v is an array whose every element is a point.
// The empty array counts as a point list.
func AsPointList(v any) ([]Point, bool) {
	items, ok := asSlice(v)
	if !ok {
		return nil, false
	}
	points := make([]Point, 0, len(items))
	for _, item := range items {
		p, ok := AsPoint(item)
		if !ok {
			return nil, false
		}
		points = append(points, p)
	}
	return points, true
}

// DateStyle records which temporal type a date came from so an edit can be
// written back with the same type.
type DateStyle int

const (
	DateOnly DateStyle = iota
	DateLocalTime
	DateTime
)

// AsDate reports whether v is a temporal value editable with a date picker.
func AsDate(v any) (time.Time, DateStyle, bool) {
	switch d := v.(type) {
	case dbtype.Date:
		return d.Time(), DateOnly, true
	case dbtype.LocalDateTime:
		return d.Time(), DateLocalTime, true
	case time.Time:
		return d, DateTime, true
	}
	return time.Time{}, DateOnly, false
}

// DateRaw converts a picked date back to the driver type for style.
func DateRaw(t time.Time, style DateStyle) any {
	switch style {
	case DateOnly:
		return dbtype.Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	case DateLocalTime:
		return dbtype.LocalDateTime(t)
	default:
		return t
	}
}

// Classify resolves the kind of v without suggestions, in precedence
// order: boolean, point list, point, date, text.
func Classify(v any) Kind {
	if _, ok := v.(bool); ok {
		return KindBoolean
	}
	if _, ok := AsPointList(v); ok {
		return KindPointList
	}
	if _, ok := AsPoint(v); ok {
		return KindPoint
	}
	if _, _, ok := AsDate(v); ok {
		return KindDate
	}
	return KindText
}

// FormatValue renders a property value as cell or field text. Scalars are
// printed verbatim, structured values as JSON.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	}
	if t, style, ok := AsDate(v); ok {
		return formatDate(t, style)
	}
	data, err := json.Marshal(normalize(v))
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

func formatDate(t time.Time, style DateStyle) string {
	switch style {
	case DateOnly:
		return t.Format(time.DateOnly)
	case DateLocalTime:
		return t.Format("2006-01-02T15:04:05")
	default:
		return t.Format(time.RFC3339)
	}
}

// normalize rewrites driver values into JSON-friendly shapes.
func normalize(v any) any {
	if p, ok := AsPoint(v); ok {
		if _, isMap := v.(map[string]any); !isMap {
			return p
		}
	}
	if t, style, ok := AsDate(v); ok {
		return formatDate(t, style)
	}
	if items, ok := asSlice(v); ok {
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = normalize(item)
		}
		return out
	}
	if m, ok := v.(map[string]any); ok {
		out := make(map[string]any, len(m))
		for k, item := range m {
			out[k] = normalize(item)
		}
		return out
	}
	return v
}

// SortedKeys returns the keys of props in lexical order.
func SortedKeys(props map[string]any) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func asSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []dbtype.Point2D:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []dbtype.Point3D:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []Point:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []string:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []int64:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case []float64:
		out := make([]any, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	}
	return nil, false
}

// AsNumber reports whether v is numeric and returns it as a float64.
func AsNumber(v any) (float64, bool) {
	return toFloat(v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
