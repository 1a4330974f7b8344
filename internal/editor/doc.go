// Package editor implements the edit-and-submit workflow around one
// selected record: selection, suggestion hand-off, the confirmation step,
// the single-flight submission guard and the outcome notification.
//
// The controller never talks to the database. Select returns a
// SuggestionRequest and Confirm returns a Submission; the caller executes
// them (as Bubble Tea commands in the TUI, synchronously in the CLI) and
// reports back through ApplySuggestions and Complete.
//
//	req, _ := ctrl.Select(key)
//	s, err := svc.Suggestions(ctx, req.Record)
//	ctrl.ApplySuggestions(req.ElementID, s, err)
//
//	_ = ctrl.Save(ctrl.Form().Draft())
//	sub, err := ctrl.Confirm()
//	node, err := svc.Update(ctx, sub.ElementID, sub.Props)
//	ctrl.Complete(sub, node, err)
package editor
