// Package tui implements the terminal user interface for editing Neo4j nodes.
//
// Built on the Bubble Tea framework, it follows the Elm architecture: every
// query runs as a tea.Cmd and reports back with exactly one message, so the
// interface never blocks while the database works.
//
// # Layout
//
// The screen is split into two panes inside the common application
// container (RenderApplicationContainer):
//   - Record table: paginated, sortable, filterable view of the loaded nodes
//   - Property form: one control per property of the selected node
//
// A notification bar above the panes reports the outcome of the last update
// and hides itself after a few seconds. The confirmation dialog and the help
// screen are modal overlays (RenderModal).
//
// # Framework Components
//
//   - bubbles/table: The record grid
//   - bubbles/textinput: Text, date, coordinate and "Other" inputs
//   - bubbles/spinner: Loading and update indicators
//   - bubbles/help, bubbles/key: Context-aware key bindings
//   - lipgloss: Styling and layout
//
// # Usage Example
//
//	service := query.NewService(executor, query.Options{Timeout: 30 * time.Second})
//	app := tui.NewAppModel(service, tui.Options{
//	    Source:   "local :Person",
//	    Spec:     query.LoadSpec{Label: "Person"},
//	    PageSize: 10,
//	})
//	program := tea.NewProgram(app, tea.WithAltScreen())
//
//	if _, err := program.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Editing Flow
//
//  1. Pick a row in the table and press enter. The form loads at once and
//     suggested values for the node's labels arrive shortly after, turning
//     matching fields into option lists.
//  2. Edit fields in place. Edited fields are marked with "*".
//  3. Press Save (or ctrl+s) and confirm. The node is written with one
//     SET n += $properties statement and the table row is refreshed from
//     what the database returned.
//
// The workflow state itself (selection, pending edit, in-flight guard,
// notification) lives in package editor; this package only renders it and
// turns keys into calls.
package tui
