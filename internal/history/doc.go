// Package history provides undo and redo for document changes.
//
// A [History] is installed as the document's recorder and receives every
// committed batch:
//
//	h := history.New(100)
//	doc.SetRecorder(h)
//
//	// ... changes through doc.Change ...
//
//	h.Undo(doc)
//	h.Redo(doc)
//
// # Grouping
//
// Several changes can be undone as one unit:
//
//	h.BeginGroup("paste table")
//	// ... multiple changes ...
//	h.EndGroup()
package history
