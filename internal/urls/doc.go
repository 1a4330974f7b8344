// Package urls holds the documentation links printed with error hints.
//
// Usage:
//
//	import "github.com/muurk/nodeedit/internal/urls"
//
//	fmt.Printf("For more information, see: %s\n", urls.ConnectionURIs)
package urls
