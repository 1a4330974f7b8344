package graph

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromNodesAssignsKeysInOrder(t *testing.T) {
	set := FromNodes([]dbtype.Node{
		{ElementId: "4:abc:1", Labels: []string{"Person"}, Props: map[string]any{"name": "Alice"}},
		{ElementId: "4:abc:2", Labels: []string{"Person"}, Props: map[string]any{"name": "Bob"}},
	})

	require.Equal(t, 2, set.Len())
	first, ok := set.Get(0)
	require.True(t, ok)
	assert.Equal(t, "4:abc:1", first.ElementID)
	assert.Equal(t, "Alice", first.Props["name"])

	second, ok := set.Get(1)
	require.True(t, ok)
	assert.Equal(t, "4:abc:2", second.ElementID)
}

func TestRecordSetReplace(t *testing.T) {
	set := NewRecordSet([]Record{
		{Key: 10, ElementID: "a", Props: map[string]any{"v": 1}},
		{Key: 20, ElementID: "b", Props: map[string]any{"v": 2}},
	})

	assert.True(t, set.Replace(Record{Key: 20, ElementID: "b", Props: map[string]any{"v": 3}}))
	got, _ := set.Get(20)
	assert.Equal(t, 3, got.Props["v"])

	assert.False(t, set.Replace(Record{Key: 99}))
	assert.Equal(t, []int{10, 20}, []int{set.All()[0].Key, set.All()[1].Key})
}

func TestRecordSetFindElement(t *testing.T) {
	set := NewRecordSet([]Record{
		{Key: 0, ElementID: "a"},
		{Key: 1, ElementID: "b"},
	})

	got, ok := set.FindElement("b")
	require.True(t, ok)
	assert.Equal(t, 1, got.Key)

	_, ok = set.FindElement("z")
	assert.False(t, ok)
	_, ok = set.FindElement("")
	assert.False(t, ok)
}

func TestCloneIsIndependent(t *testing.T) {
	orig := Record{Key: 1, Props: map[string]any{"tags": []any{"a"}, "name": "x"}}
	c := orig.Clone()
	c.Props["name"] = "y"
	c.Props["tags"].([]any)[0] = "b"

	assert.Equal(t, "x", orig.Props["name"])
	assert.Equal(t, "a", orig.Props["tags"].([]any)[0])
}

func TestNilRecordSet(t *testing.T) {
	var set *RecordSet
	assert.Equal(t, 0, set.Len())
	_, ok := set.Get(0)
	assert.False(t, ok)
	_, ok = set.FindElement("a")
	assert.False(t, ok)
}
