// Package query runs the Cypher statements behind the edit workflow: loading
// the nodes shown in the table, fetching per-key value suggestions for a
// selected node and merging an edited property map back onto it.
//
// All statements go through the Runner interface, a request that resolves
// exactly once with either a fully buffered result or an error. The
// production Runner is Neo4jExecutor; tests substitute their own.
package query

import (
	"context"
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/config"

	"github.com/muurk/nodeedit/internal/version"
)

// Runner executes one Cypher query with parameters and returns the buffered
// result.
type Runner interface {
	Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error)
}

// ConnectionSettings holds what is needed to open a driver.
type ConnectionSettings struct {
	URI      string
	Username string
	Password string
	Database string
}

// Neo4jExecutor is the Runner backed by the official Neo4j driver.
type Neo4jExecutor struct {
	Driver neo4j.DriverWithContext
	DBName string
}

// NewNeo4jExecutor creates a driver for settings. No connection is made
// until the first query or Verify.
func NewNeo4jExecutor(settings ConnectionSettings) (*Neo4jExecutor, error) {
	driver, err := neo4j.NewDriverWithContext(
		settings.URI,
		neo4j.BasicAuth(settings.Username, settings.Password, ""),
		func(c *config.Config) {
			c.UserAgent = version.UserAgent()
		},
	)
	if err != nil {
		return nil, fmt.Errorf("could not create Neo4j driver: %w", err)
	}
	return &Neo4jExecutor{Driver: driver, DBName: settings.Database}, nil
}

// Verify checks connectivity and credentials.
func (e *Neo4jExecutor) Verify(ctx context.Context) error {
	if err := e.Driver.VerifyConnectivity(ctx); err != nil {
		return Classify("verify", err)
	}
	return nil
}

// Run executes query with ExecuteQuery, which manages sessions,
// transactions and retries of transient failures.
func (e *Neo4jExecutor) Run(ctx context.Context, query string, params map[string]any) (*neo4j.EagerResult, error) {
	opts := []neo4j.ExecuteQueryConfigurationOption{}
	if e.DBName != "" {
		opts = append(opts, neo4j.ExecuteQueryWithDatabase(e.DBName))
	}

	result, err := neo4j.ExecuteQuery(ctx, e.Driver, query, params, neo4j.EagerResultTransformer, opts...)
	if err != nil {
		return nil, fmt.Errorf("error executing neo4j query: %w", err)
	}
	return result, nil
}

// Close releases the driver.
func (e *Neo4jExecutor) Close(ctx context.Context) error {
	return e.Driver.Close(ctx)
}
