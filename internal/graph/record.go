// Package graph holds the in-memory model of the nodes being edited: records
// with their stable row key and database identity, and the value shapes
// that drive form rendering.
package graph

import (
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// Record is one node's property mapping as returned by a graph query.
type Record struct {
	// Key is the local row identifier assigned at ingestion. It is stable
	// under sorting and filtering and is only meaningful inside one RecordSet.
	Key int

	// ElementID is the database internal identity of the node.
	ElementID string

	Labels []string
	Props  map[string]any
}

// FromNode builds a Record for a driver node.
func FromNode(key int, node dbtype.Node) Record {
	return Record{
		Key:       key,
		ElementID: node.ElementId,
		Labels:    append([]string(nil), node.Labels...),
		Props:     CloneProps(node.Props),
	}
}

// Clone returns a copy whose property map can be mutated independently.
func (r Record) Clone() Record {
	r.Labels = append([]string(nil), r.Labels...)
	r.Props = CloneProps(r.Props)
	return r
}

// CloneProps makes a shallow copy of a property map. Slices are copied so
// element edits do not leak back into the source.
func CloneProps(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		if items, ok := v.([]any); ok {
			v = append([]any(nil), items...)
		}
		out[k] = v
	}
	return out
}

// RecordSet is an ordered collection of records addressable by Key.
type RecordSet struct {
	records []Record
	index   map[int]int
}

// NewRecordSet creates a set from records in the given order. Records keep
// the keys they carry.
func NewRecordSet(records []Record) *RecordSet {
	s := &RecordSet{
		records: make([]Record, len(records)),
		index:   make(map[int]int, len(records)),
	}
	for i, r := range records {
		s.records[i] = r
		s.index[r.Key] = i
	}
	return s
}

// FromNodes creates a set assigning keys 0..n-1 in result order.
func FromNodes(nodes []dbtype.Node) *RecordSet {
	records := make([]Record, len(nodes))
	for i, n := range nodes {
		records[i] = FromNode(i, n)
	}
	return NewRecordSet(records)
}

// Len returns the number of records
func (s *RecordSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// All returns the records in ingestion order. The slice must not be modified.
func (s *RecordSet) All() []Record {
	if s == nil {
		return nil
	}
	return s.records
}

// Get looks a record up by key.
func (s *RecordSet) Get(key int) (Record, bool) {
	if s == nil {
		return Record{}, false
	}
	i, ok := s.index[key]
	if !ok {
		return Record{}, false
	}
	return s.records[i], true
}

// FindElement looks a record up by element id.
func (s *RecordSet) FindElement(elementID string) (Record, bool) {
	if s == nil || elementID == "" {
		return Record{}, false
	}
	for _, r := range s.records {
		if r.ElementID == elementID {
			return r, true
		}
	}
	return Record{}, false
}

// Replace swaps the record with the same key. Returns false if the key is
// unknown.
func (s *RecordSet) Replace(r Record) bool {
	if s == nil {
		return false
	}
	i, ok := s.index[r.Key]
	if !ok {
		return false
	}
	s.records[i] = r
	return true
}
