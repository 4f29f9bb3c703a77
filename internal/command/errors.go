package command

import (
	"errors"
	"fmt"
)

// Command errors.
var (
	// ErrNotInTable indicates the selection has no table ancestor.
	ErrNotInTable = errors.New("command: selection is not in a table")

	// ErrNotInCell indicates the selection is inside a table but not in a cell.
	ErrNotInCell = errors.New("command: selection is not in a table cell")

	// ErrUnknownCommand indicates no command is registered under a name.
	ErrUnknownCommand = errors.New("command: unknown command")

	// ErrInvalidOrder indicates an order the command does not support.
	ErrInvalidOrder = errors.New("command: invalid order")
)

// OperationError wraps a failure of a command on a specific table.
type OperationError struct {
	// Op is the command name.
	Op string
	// Target identifies the table, usually its node ID.
	Target string
	// Err is the underlying error.
	Err error
}

func (e *OperationError) Error() string {
	if e.Target == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s on %s: %v", e.Op, e.Target, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
