package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/muurk/nodeedit/internal/urls"
)

// ErrNotFound is returned when a node addressed by element id does not exist.
var ErrNotFound = errors.New("node not found")

// ErrorType represents the category of a failed query
type ErrorType int

const (
	// ErrTypeConnectivity indicates the server could not be reached
	ErrTypeConnectivity ErrorType = iota
	// ErrTypeAuth indicates rejected credentials or missing permissions
	ErrTypeAuth
	// ErrTypeClient indicates a problem with the statement itself (syntax, constraint, type)
	ErrTypeClient
	// ErrTypeTransient indicates a temporary server condition
	ErrTypeTransient
	// ErrTypeTimeout indicates the query did not finish in time
	ErrTypeTimeout
	// ErrTypeNotFound indicates the addressed node is gone
	ErrTypeNotFound
	// ErrTypeUnknown indicates an unknown or unexpected error
	ErrTypeUnknown
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeConnectivity:
		return "Connectivity Error"
	case ErrTypeAuth:
		return "Authentication Error"
	case ErrTypeClient:
		return "Query Error"
	case ErrTypeTransient:
		return "Transient Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeNotFound:
		return "Not Found"
	case ErrTypeUnknown:
		return "Unknown Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// QueryError is a classified failure of one query operation.
type QueryError struct {
	Type      ErrorType // Category of error
	Op        string    // Operation that failed ("load", "suggestions", "update")
	Message   string    // Human-readable error message
	Code      string    // Neo4j status code, when the server sent one
	Err       error     // Underlying error
	Retryable bool      // Whether running the operation again may succeed
}

// Error implements the error interface
func (e *QueryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s (caused by: %v)", e.Op, e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *QueryError) Unwrap() error {
	return e.Err
}

// Classify wraps err in a QueryError. Errors that already are QueryErrors
// are returned unchanged.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var qe *QueryError
	if errors.As(err, &qe) {
		return err
	}

	if errors.Is(err, ErrNotFound) {
		return &QueryError{Type: ErrTypeNotFound, Op: op, Message: "Node no longer exists", Err: err}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &QueryError{Type: ErrTypeTimeout, Op: op, Message: "Query timed out", Err: err, Retryable: true}
	}

	var neoErr *neo4j.Neo4jError
	if errors.As(err, &neoErr) {
		return classifyNeo4jError(op, neoErr, err)
	}

	var connErr *neo4j.ConnectivityError
	if errors.As(err, &connErr) {
		return &QueryError{Type: ErrTypeConnectivity, Op: op, Message: "Could not reach the database", Err: err, Retryable: true}
	}

	return &QueryError{Type: ErrTypeUnknown, Op: op, Message: "Query failed", Err: err}
}

func classifyNeo4jError(op string, neoErr *neo4j.Neo4jError, err error) *QueryError {
	qe := &QueryError{Op: op, Code: neoErr.Code, Message: neoErr.Msg, Err: err}
	switch {
	case strings.HasPrefix(neoErr.Code, "Neo.ClientError.Security."):
		qe.Type = ErrTypeAuth
	case strings.HasPrefix(neoErr.Code, "Neo.TransientError."):
		qe.Type = ErrTypeTransient
		qe.Retryable = true
	case strings.HasPrefix(neoErr.Code, "Neo.ClientError."):
		qe.Type = ErrTypeClient
	default:
		qe.Type = ErrTypeUnknown
	}
	return qe
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	return typeOf(err) == ErrTypeAuth
}

// IsConnectivityError checks if an error means the database is unreachable
func IsConnectivityError(err error) bool {
	t := typeOf(err)
	return t == ErrTypeConnectivity || t == ErrTypeTimeout
}

// IsRetryable checks if an error may succeed when tried again
func IsRetryable(err error) bool {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Retryable
	}
	return false
}

func typeOf(err error) ErrorType {
	var qe *QueryError
	if errors.As(err, &qe) {
		return qe.Type
	}
	return ErrTypeUnknown
}

// Hint returns user-facing troubleshooting advice for err.
func Hint(err error) string {
	var qe *QueryError
	if !errors.As(err, &qe) {
		return "An unexpected error occurred. Please try again."
	}

	switch qe.Type {
	case ErrTypeConnectivity:
		return strings.Join([]string{
			"The database could not be reached.",
			"Troubleshooting:",
			"  • Check the URI (neo4j://host:7687 or bolt://host:7687)",
			"  • Verify the server is running and the port is open",
			"See: " + urls.ConnectionURIs,
		}, "\n")
	case ErrTypeAuth:
		return strings.Join([]string{
			"The database rejected the credentials.",
			"Troubleshooting:",
			"  • Check the username of the profile",
			"  • Set NEO4J_PASSWORD or enter the password when prompted",
			"See: " + urls.Authentication,
		}, "\n")
	case ErrTypeTimeout:
		return "The query did not finish in time. Increase query_timeout in the preferences.\nSee: " + urls.QueryTimeouts
	case ErrTypeClient:
		if strings.Contains(strings.ToLower(qe.Error()), "apoc.") {
			return "APOC is not available on this server. Remove apoc from the profile or install it.\nSee: " + urls.APOCInstallation
		}
		return "The database rejected the query. Check the Cypher text and the property values.\nSee: " + urls.CypherManual
	case ErrTypeTransient:
		return "The database is temporarily unable to serve the request. Try again."
	case ErrTypeNotFound:
		return "The node was deleted or changed identity. Reload the records."
	default:
		return "An error occurred. Please check the error message for details."
	}
}
