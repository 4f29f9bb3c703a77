package table

import "errors"

// Errors returned by the table engine.
var (
	// ErrInvalidTable indicates the table tree breaks a geometric invariant:
	// unexpected children, non-positive spans, overlapping cells, rows of
	// different widths or rowspans past the last row.
	ErrInvalidTable = errors.New("invalid table")

	// ErrNotTable indicates the node passed to the engine is not a table.
	ErrNotTable = errors.New("node is not a table")

	// ErrIndexOutOfRange indicates a row or column index outside the grid.
	ErrIndexOutOfRange = errors.New("table index out of range")

	// ErrLastRow indicates an attempt to remove the only row.
	ErrLastRow = errors.New("cannot remove the last row")

	// ErrLastColumn indicates an attempt to remove the only column.
	ErrLastColumn = errors.New("cannot remove the last column")

	// ErrCellNotInTable indicates a cell that is not part of the grid.
	ErrCellNotInTable = errors.New("cell is not in table")
)
