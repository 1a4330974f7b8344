package query

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/muurk/nodeedit/internal/graph"
	"github.com/muurk/nodeedit/internal/logging"
)

// Defaults for Options.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultCacheTTL = 2 * time.Minute
)

// Options configures a Service.
type Options struct {
	// Timeout bounds every query. Zero means DefaultTimeout.
	Timeout time.Duration
	// CacheTTL is how long suggestions for a label set are reused. Zero
	// means DefaultCacheTTL, negative disables caching.
	CacheTTL time.Duration
	// UseAPOC selects the APOC variant of the suggestion query.
	UseAPOC bool
}

// Service runs the load, suggestion and update statements through a Runner.
// It is safe for concurrent use.
type Service struct {
	runner  Runner
	timeout time.Duration
	apoc    bool

	cache *cache.Cache
	group singleflight.Group
}

// NewService creates a Service over runner.
func NewService(runner Runner, opts Options) *Service {
	s := &Service{
		runner:  runner,
		timeout: opts.Timeout,
		apoc:    opts.UseAPOC,
	}
	if s.timeout <= 0 {
		s.timeout = DefaultTimeout
	}
	ttl := opts.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	if ttl > 0 {
		s.cache = cache.New(ttl, 2*ttl)
	}
	return s
}

func (s *Service) run(ctx context.Context, op, query string, params map[string]any) (*neo4j.EagerResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	result, err := s.runner.Run(ctx, query, params)
	rows := 0
	if result != nil {
		rows = len(result.Records)
	}
	logging.LogQuery(op, query, params, rows, time.Since(start), err)
	if err != nil {
		return nil, Classify(op, err)
	}
	return result, nil
}

// LoadRecords runs spec and ingests the first node-valued column of each
// row. Nodes returned more than once are kept once, at their first
// position. Keys are assigned 0..n-1 in result order.
func (s *Service) LoadRecords(ctx context.Context, spec LoadSpec) (*graph.RecordSet, error) {
	query, params, err := spec.Build()
	if err != nil {
		return nil, err
	}
	result, err := s.run(ctx, "load", query, params)
	if err != nil {
		return nil, err
	}
	return ingest(result), nil
}

func ingest(result *neo4j.EagerResult) *graph.RecordSet {
	var nodes []neo4j.Node
	seen := make(map[string]bool)
	for _, record := range result.Records {
		node, ok := firstNode(record)
		if !ok || seen[node.ElementId] {
			continue
		}
		seen[node.ElementId] = true
		nodes = append(nodes, node)
	}
	return graph.FromNodes(nodes)
}

func firstNode(record *neo4j.Record) (neo4j.Node, bool) {
	if record == nil {
		return neo4j.Node{}, false
	}
	for _, value := range record.Values {
		switch v := value.(type) {
		case neo4j.Node:
			return v, true
		case *neo4j.Node:
			if v != nil {
				return *v, true
			}
		}
	}
	return neo4j.Node{}, false
}

// Node fetches the node with elementID. ErrNotFound (classified) is
// returned when no node matched.
func (s *Service) Node(ctx context.Context, elementID string) (*graph.Record, error) {
	result, err := s.run(ctx, "node", nodeQuery, map[string]any{"id": elementID})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, Classify("node", fmt.Errorf("%w: %s", ErrNotFound, elementID))
	}
	node, ok := firstNode(result.Records[0])
	if !ok {
		return nil, Classify("node", fmt.Errorf("%w: %s", ErrNotFound, elementID))
	}
	rec := graph.FromNode(0, node)
	return &rec, nil
}

// Suggestions returns the distinct values observed per key on nodes sharing
// all of rec's labels. Results are cached per label set and concurrent
// requests for the same set share one query. The shared query is not bound
// to any one caller's context: a caller that gives up gets ctx.Err() while
// the others still receive the result. A record without labels has no
// suggestions.
func (s *Service) Suggestions(ctx context.Context, rec graph.Record) (graph.Suggestions, error) {
	if len(rec.Labels) == 0 {
		return nil, nil
	}
	key := labelSetKey(rec.Labels)
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			logging.Debug("Suggestion cache hit", zap.String("labels", key))
			return cached.(graph.Suggestions), nil
		}
	}

	shared := context.WithoutCancel(ctx)
	ch := s.group.DoChan(key, func() (any, error) {
		query := suggestionQuery
		if s.apoc {
			query = suggestionQueryAPOC
		}
		result, err := s.run(shared, "suggestions", query, map[string]any{"id": rec.ElementID})
		if err != nil {
			return nil, err
		}
		suggestions, err := decodeSuggestions(result)
		if err != nil {
			return nil, Classify("suggestions", err)
		}
		if s.cache != nil {
			s.cache.SetDefault(key, suggestions)
		}
		return suggestions, nil
	})

	select {
	case <-ctx.Done():
		logging.Debug("Suggestion caller gave up", zap.String("labels", key), zap.Error(ctx.Err()))
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(graph.Suggestions), nil
	}
}

// decodeSuggestions accepts both result shapes: one row per key with
// (key, values), or a single row holding a map.
func decodeSuggestions(result *neo4j.EagerResult) (graph.Suggestions, error) {
	out := graph.Suggestions{}
	for _, record := range result.Records {
		if m, ok := record.Get("suggestions"); ok {
			entries, ok := m.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("suggestions column is %T, want map", m)
			}
			for k, v := range entries {
				if values, ok := v.([]any); ok {
					out[k] = values
				}
			}
			continue
		}

		k, kok := record.Get("key")
		v, vok := record.Get("values")
		if !kok || !vok {
			return nil, fmt.Errorf("unexpected suggestion columns %v", record.Keys)
		}
		key, ok := k.(string)
		if !ok {
			return nil, fmt.Errorf("suggestion key is %T, want string", k)
		}
		values, _ := v.([]any)
		out[key] = values
	}
	return out, nil
}

func labelSetKey(labels []string) string {
	sorted := append([]string(nil), labels...)
	sort.Strings(sorted)
	return strings.Join(sorted, ":")
}

// Update merges props onto the node with elementID and returns the node as
// stored afterwards. Suggestions cached for the node's labels are dropped.
// ErrNotFound (classified) is returned when no node matched.
func (s *Service) Update(ctx context.Context, elementID string, props map[string]any) (*graph.Record, error) {
	result, err := s.run(ctx, "update", updateQuery, map[string]any{
		"id":         elementID,
		"properties": props,
	})
	if err != nil {
		return nil, err
	}
	if len(result.Records) == 0 {
		return nil, Classify("update", fmt.Errorf("%w: %s", ErrNotFound, elementID))
	}
	node, ok := firstNode(result.Records[0])
	if !ok {
		return nil, Classify("update", fmt.Errorf("update returned no node for %s", elementID))
	}

	if s.cache != nil {
		s.cache.Delete(labelSetKey(node.Labels))
	}
	rec := graph.FromNode(0, node)
	return &rec, nil
}

// InvalidateSuggestions drops every cached suggestion list.
func (s *Service) InvalidateSuggestions() {
	if s.cache != nil {
		s.cache.Flush()
	}
}
