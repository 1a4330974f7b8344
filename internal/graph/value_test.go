package graph

import (
	"testing"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  Kind
	}{
		{"bool", true, KindBoolean},
		{"string", "Alice", KindText},
		{"integer", int64(42), KindText},
		{"float", 1.5, KindText},
		{"nil", nil, KindText},
		{"point2d", dbtype.Point2D{X: 1, Y: 2, SpatialRefId: 7203}, KindPoint},
		{"point3d", dbtype.Point3D{X: 1, Y: 2, Z: 3, SpatialRefId: 9157}, KindPoint},
		{"point map", map[string]any{"x": 1.0, "y": 2.0}, KindPoint},
		{"point map with srid", map[string]any{"x": 1.0, "y": 2.0, "srid": int64(4326)}, KindPoint},
		{"map with extra keys", map[string]any{"x": 1.0, "y": 2.0, "label": "a"}, KindText},
		{"map with text coordinate", map[string]any{"x": "1", "y": 2.0}, KindText},
		{"point list", []any{dbtype.Point2D{X: 1, Y: 2}}, KindPointList},
		{"point map list", []any{map[string]any{"x": 1, "y": 2}}, KindPointList},
		{"empty list", []any{}, KindPointList},
		{"string list", []any{"a", "b"}, KindText},
		{"mixed list", []any{dbtype.Point2D{X: 1, Y: 2}, "b"}, KindText},
		{"date", dbtype.Date(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)), KindDate},
		{"local datetime", dbtype.LocalDateTime(time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)), KindDate},
		{"datetime", time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC), KindDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value))
		})
	}
}

func TestPointRawDefaultsSRID(t *testing.T) {
	p, ok := AsPoint(map[string]any{"x": 1.0, "y": 2.0})
	require.True(t, ok)
	assert.Equal(t, dbtype.Point2D{X: 1, Y: 2, SpatialRefId: SRIDCartesian2D}, p.Raw())

	p3, ok := AsPoint(map[string]any{"x": 1.0, "y": 2.0, "z": 3.0})
	require.True(t, ok)
	assert.Equal(t, dbtype.Point3D{X: 1, Y: 2, Z: 3, SpatialRefId: SRIDCartesian3D}, p3.Raw())
}

func TestPointRawKeepsSRID(t *testing.T) {
	p, ok := AsPoint(dbtype.Point2D{X: 4.5, Y: 52.1, SpatialRefId: 4326})
	require.True(t, ok)
	assert.True(t, p.HasSRID)
	assert.Equal(t, uint32(4326), p.SRID)
	assert.Equal(t, dbtype.Point2D{X: 4.5, Y: 52.1, SpatialRefId: 4326}, p.Raw())
}

func TestDateRawRoundTrip(t *testing.T) {
	day := time.Date(2023, 12, 24, 0, 0, 0, 0, time.UTC)
	tm, style, ok := AsDate(dbtype.Date(day))
	require.True(t, ok)
	assert.Equal(t, DateOnly, style)
	assert.Equal(t, dbtype.Date(day), DateRaw(tm, style))

	stamp := time.Date(2023, 12, 24, 18, 0, 0, 0, time.UTC)
	assert.Equal(t, stamp, DateRaw(stamp, DateTime))
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"nil", nil, ""},
		{"string", "Alice", "Alice"},
		{"bool", false, "false"},
		{"int64", int64(7), "7"},
		{"float", 2.5, "2.5"},
		{"date", dbtype.Date(time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)), "2024-02-29"},
		{"point", dbtype.Point2D{X: 1, Y: 2, SpatialRefId: 7203}, `{"srid":7203,"x":1,"y":2}`},
		{"point list", []any{map[string]any{"x": 1, "y": 2}}, `[{"x":1,"y":2}]`},
		{"string list", []any{"a", "b"}, `["a","b"]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.value))
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "point-list", KindPointList.String())
	assert.Equal(t, "Kind(99)", Kind(99).String())
}
