// Package model provides the structured document tree the table engine
// operates on.
//
// The tree is made of [Node] values: elements (with a name, attributes and
// ordered children) and text nodes. A table is an element named "table"
// whose children are "tableRow" elements, which in turn hold "tableCell"
// elements.
//
// # Changes
//
// The tree is only mutated through a [Writer], which is handed out by
// [Document.Change]. Every writer call records an [Operation]; the operations
// of one change form a [Batch]. If the change function fails, every operation
// already applied is reverted, so observers never see a partially applied
// change:
//
//	err := doc.Change("insert column", func(w *model.Writer) error {
//	    if err := w.SetAttribute(model.AttrColspan, 2, cell); err != nil {
//	        return err
//	    }
//	    return w.Insert(model.NewElement(model.CellName, nil), row, 1)
//	})
//
// Committed batches are handed to the document's [Recorder] (usually an undo
// history) and announced on the document's publisher under [TopicChange].
//
// # Positions and selection
//
// A [Position] is a parent element plus an offset into its content, where
// each text node counts as many units as it has characters and each element
// counts as one. A [Selection] is an anchor and a focus position.
package model
