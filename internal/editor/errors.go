package editor

import "errors"

// Editor errors.
var (
	// ErrNoSuchTable indicates a table index outside the document.
	ErrNoSuchTable = errors.New("editor: no such table")

	// ErrNoSuchCell indicates a grid slot outside the table.
	ErrNoSuchCell = errors.New("editor: no such cell")

	// ErrClosed indicates the editor was closed.
	ErrClosed = errors.New("editor: closed")
)
