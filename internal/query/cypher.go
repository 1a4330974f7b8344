package query

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/saulfrancisco-ruizacevedo/gocypher"
)

// DefaultLimit caps the number of nodes a label load returns.
const DefaultLimit = 100

// suggestionQuery collects, for every key present on nodes that carry all of
// the selected node's labels, the distinct values observed. Nodes without
// labels match nothing.
const suggestionQuery = `MATCH (n) WHERE elementId(n) = $id
WITH labels(n) AS nodeLabels
WHERE size(nodeLabels) > 0
MATCH (m)
WHERE all(label IN nodeLabels WHERE label IN labels(m))
UNWIND keys(m) AS key
WITH key, collect(DISTINCT m[key]) AS values
RETURN key, values
ORDER BY key`

// suggestionQueryAPOC is the equivalent for servers with APOC installed.
// It returns a single row holding a map of key to value list.
const suggestionQueryAPOC = `MATCH (n) WHERE elementId(n) = $id
WITH labels(n) AS nodeLabels
WHERE size(nodeLabels) > 0
MATCH (m)
WHERE all(label IN nodeLabels WHERE label IN labels(m))
UNWIND keys(m) AS key
WITH key, collect(DISTINCT m[key]) AS values
RETURN apoc.map.fromPairs(collect([key, values])) AS suggestions`

// nodeQuery fetches a single node by element ID.
const nodeQuery = `MATCH (n) WHERE elementId(n) = $id
RETURN n`

// updateQuery merges properties onto the node; keys not in $properties are
// left alone.
const updateQuery = `MATCH (n) WHERE elementId(n) = $id
SET n += $properties
RETURN n`

var labelPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ErrInvalidLabel is returned for labels that cannot be used unquoted.
var ErrInvalidLabel = errors.New("invalid label")

// LoadSpec selects the nodes to load: either every node with Label, or the
// nodes returned by a custom Cypher statement.
type LoadSpec struct {
	Label  string
	Cypher string
	Params map[string]any
	Limit  int
}

// Build returns the statement and parameters for spec.
func (spec LoadSpec) Build() (string, map[string]any, error) {
	if spec.Cypher != "" {
		return spec.Cypher, spec.Params, nil
	}
	if spec.Label == "" {
		return "", nil, errors.New("a label or a Cypher query is required")
	}
	if !labelPattern.MatchString(spec.Label) {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidLabel, spec.Label)
	}

	query, params, err := gocypher.NewQueryBuilder().
		Match(gocypher.N("n", spec.Label)).
		Return("n").
		Build()
	if err != nil {
		return "", nil, fmt.Errorf("could not build query: %w", err)
	}

	limit := spec.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	return fmt.Sprintf("%s LIMIT %d", query, limit), params, nil
}
