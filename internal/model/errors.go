package model

import "errors"

// Errors returned by tree mutations.
var (
	// ErrNoWriter indicates a mutation was attempted outside Document.Change.
	ErrNoWriter = errors.New("no active change")

	// ErrDetached indicates the node is not attached to a parent.
	ErrDetached = errors.New("node is detached")

	// ErrAttached indicates the node already has a parent.
	ErrAttached = errors.New("node is already attached")

	// ErrIndexOutOfRange indicates a child index outside the parent's children.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrNotElement indicates an element was required but a text node was given.
	ErrNotElement = errors.New("node is not an element")

	// ErrCycle indicates a node would become its own descendant.
	ErrCycle = errors.New("node cannot contain itself")

	// ErrNilNode indicates a nil node was passed.
	ErrNilNode = errors.New("nil node")
)

// ErrChangeInProgress indicates undo or redo was requested while a change is
// running.
var ErrChangeInProgress = errors.New("change in progress")
