// Package table implements the table topology engine.
//
// A table element holds rows, and rows hold cells with optional colspan and
// rowspan attributes (absent means 1). A cell with a rowspan occupies the
// same columns in the rows below, which carry no physical cell there. The
// engine works on a [Grid]: a logical snapshot in which every (row, column)
// slot points at the cell covering it, built fresh for each edit.
//
// Structural edits are computed by planners (PlanInsertColumn,
// PlanInsertRow, PlanRemoveRow, PlanRemoveColumn and the heading setters)
// that read a grid and return a [Plan] of low-level mutations without touching
// the tree. [Apply] performs a plan through a model.Writer inside one
// Document.Change, so either every mutation lands or none does:
//
//	err := doc.Change("insert column", func(w *model.Writer) error {
//	    _, err := table.InsertColumn(w, tbl, 1, table.DefaultOptions())
//	    return err
//	})
//
// Heading bands (headingRows and headingColumns) follow the rows and columns
// they were attached to; see [AdjustHeading].
package table
