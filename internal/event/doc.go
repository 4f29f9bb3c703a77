// Package event provides the synchronous event bus used to announce document
// changes to observers such as the view synchronizer.
//
// Topics are dot-separated names ("model.change", "history.undo"). Patterns
// used for subscriptions may contain wildcards:
//
//   - "*" matches exactly one segment ("model.*" matches "model.change")
//   - "**" matches zero or more segments ("**" matches every topic)
//
// Delivery is synchronous, in the publisher's goroutine, ordered by handler
// priority (lower values first). A panicking handler is recovered and counted
// and does not prevent delivery to the remaining handlers.
package event
