// Package ui renders the output of the non-interactive nodeedit commands.
//
// Unlike the full-screen editor in package tui, these components follow a
// "print and exit" pattern: each command prints a header, its result, and
// on failure an error box with troubleshooting tips.
//
//   - Header: Command banner showing operation name and connection
//   - Result: Success, failure and warning boxes
//   - RenderRecords: Record table (lipgloss/table)
//   - RenderChanges: "key: old → new" lines for a pending update
//   - ConfirmUpdate: y/N prompt before writing a node
//
// Example:
//
//	p := ui.NewPrinter(cmd.OutOrStdout())
//	p.PrintHeader("Show nodes", "nodeedit show --label Person", map[string]string{
//	    "Server": "neo4j://localhost:7687",
//	})
//	p.PrintRecords(records.All())
//
// Machine-readable output (--format json or yaml) goes through
// Printer.Encode and skips the styled components entirely.
//
// # Logging Integration
//
// Logging is controlled by the NODEEDIT_LOG_LEVEL environment variable.
// When unset, zap logging is silent so the curated output stays clean.
package ui
