package model

import (
	"fmt"
	"time"
)

// OperationKind identifies the type of a tree operation.
type OperationKind uint8

const (
	// OpInsert inserts a detached node into a parent.
	OpInsert OperationKind = iota
	// OpRemove detaches a node from its parent.
	OpRemove
	// OpMove detaches a node and inserts it somewhere else.
	OpMove
	// OpAttribute sets or clears an attribute.
	OpAttribute
	// OpSelection replaces the document selection.
	OpSelection
)

// String returns the operation kind name.
func (k OperationKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpRemove:
		return "remove"
	case OpMove:
		return "move"
	case OpAttribute:
		return "attribute"
	case OpSelection:
		return "selection"
	default:
		return "unknown"
	}
}

// Operation is a single reversible tree edit.
type Operation interface {
	// Kind returns the operation type.
	Kind() OperationKind

	// Apply performs the edit.
	Apply() error

	// Revert undoes a previously applied edit.
	Revert() error

	// Affected returns the elements whose children or attributes change.
	Affected() []*Node
}

// InsertOperation inserts Node into Parent at Index.
type InsertOperation struct {
	Parent *Node
	Index  int
	Node   *Node
}

func (op *InsertOperation) Kind() OperationKind { return OpInsert }

func (op *InsertOperation) Apply() error {
	if err := checkInsert(op.Parent, op.Index, op.Node); err != nil {
		return err
	}
	op.Parent.insertChild(op.Index, op.Node)
	return nil
}

func (op *InsertOperation) Revert() error {
	if op.Node.parent != op.Parent || op.Parent.Child(op.Index) != op.Node {
		return fmt.Errorf("revert insert of %s: %w", op.Node.name, ErrIndexOutOfRange)
	}
	op.Parent.removeChild(op.Index)
	return nil
}

func (op *InsertOperation) Affected() []*Node { return []*Node{op.Parent} }

// RemoveOperation detaches Node. Parent and Index are captured on Apply.
type RemoveOperation struct {
	Node   *Node
	Parent *Node
	Index  int
}

func (op *RemoveOperation) Kind() OperationKind { return OpRemove }

func (op *RemoveOperation) Apply() error {
	if op.Node == nil {
		return ErrNilNode
	}
	if op.Node.parent == nil {
		return fmt.Errorf("remove %s: %w", op.Node.name, ErrDetached)
	}
	op.Parent = op.Node.parent
	op.Index = op.Node.Index()
	op.Parent.removeChild(op.Index)
	return nil
}

func (op *RemoveOperation) Revert() error {
	if err := checkInsert(op.Parent, op.Index, op.Node); err != nil {
		return fmt.Errorf("revert remove of %s: %w", op.Node.name, err)
	}
	op.Parent.insertChild(op.Index, op.Node)
	return nil
}

func (op *RemoveOperation) Affected() []*Node { return []*Node{op.Parent} }

// MoveOperation relocates Node to Target at Index.
// Index is interpreted after the node has been detached from its old parent.
type MoveOperation struct {
	Node   *Node
	Target *Node
	Index  int

	source      *Node
	sourceIndex int
}

func (op *MoveOperation) Kind() OperationKind { return OpMove }

func (op *MoveOperation) Apply() error {
	if op.Node == nil || op.Target == nil {
		return ErrNilNode
	}
	if op.Node.parent == nil {
		return fmt.Errorf("move %s: %w", op.Node.name, ErrDetached)
	}
	if op.Node.Contains(op.Target) {
		return fmt.Errorf("move %s: %w", op.Node.name, ErrCycle)
	}
	src, srcIndex := op.Node.parent, op.Node.Index()
	src.removeChild(srcIndex)
	if err := checkInsert(op.Target, op.Index, op.Node); err != nil {
		src.insertChild(srcIndex, op.Node)
		return fmt.Errorf("move %s: %w", op.Node.name, err)
	}
	op.Target.insertChild(op.Index, op.Node)
	op.source, op.sourceIndex = src, srcIndex
	return nil
}

func (op *MoveOperation) Revert() error {
	if op.Node.parent != op.Target || op.Target.Child(op.Index) != op.Node {
		return fmt.Errorf("revert move of %s: %w", op.Node.name, ErrIndexOutOfRange)
	}
	op.Target.removeChild(op.Index)
	op.source.insertChild(op.sourceIndex, op.Node)
	return nil
}

func (op *MoveOperation) Affected() []*Node { return []*Node{op.source, op.Target} }

// AttributeOperation sets Key to Value on Node. A nil Value clears the key.
type AttributeOperation struct {
	Node  *Node
	Key   string
	Value any

	old    any
	hadOld bool
}

func (op *AttributeOperation) Kind() OperationKind { return OpAttribute }

func (op *AttributeOperation) Apply() error {
	if op.Node == nil {
		return ErrNilNode
	}
	if op.Node.IsText() {
		return fmt.Errorf("set attribute %s: %w", op.Key, ErrNotElement)
	}
	op.old, op.hadOld = op.Node.attrs[op.Key]
	op.Node.setAttribute(op.Key, op.Value)
	return nil
}

func (op *AttributeOperation) Revert() error {
	if op.hadOld {
		op.Node.setAttribute(op.Key, op.old)
	} else {
		op.Node.setAttribute(op.Key, nil)
	}
	return nil
}

func (op *AttributeOperation) Affected() []*Node { return []*Node{op.Node} }

// OldValue returns the value the attribute had before Apply.
func (op *AttributeOperation) OldValue() (any, bool) { return op.old, op.hadOld }

// SelectionOperation replaces the document selection.
type SelectionOperation struct {
	doc *Document
	old Selection
	New Selection
}

func (op *SelectionOperation) Kind() OperationKind { return OpSelection }

func (op *SelectionOperation) Apply() error {
	op.old = op.doc.selection
	op.doc.selection = op.New
	return nil
}

func (op *SelectionOperation) Revert() error {
	op.doc.selection = op.old
	return nil
}

func (op *SelectionOperation) Affected() []*Node { return nil }

func checkInsert(parent *Node, index int, node *Node) error {
	if parent == nil || node == nil {
		return ErrNilNode
	}
	if parent.IsText() {
		return ErrNotElement
	}
	if node.parent != nil {
		return ErrAttached
	}
	if index < 0 || index > len(parent.children) {
		return fmt.Errorf("index %d of %d: %w", index, len(parent.children), ErrIndexOutOfRange)
	}
	if node.Contains(parent) {
		return ErrCycle
	}
	return nil
}

// Batch is the ordered list of operations applied by one change.
type Batch struct {
	Description string
	Timestamp   time.Time

	ops             []Operation
	selectionBefore Selection
	selectionAfter  Selection
}

// Operations returns the batch's operations in application order.
func (b *Batch) Operations() []Operation {
	out := make([]Operation, len(b.ops))
	copy(out, b.ops)
	return out
}

// Len returns the number of operations.
func (b *Batch) Len() int { return len(b.ops) }

// IsEmpty reports whether the batch has no operations.
func (b *Batch) IsEmpty() bool { return len(b.ops) == 0 }

// SelectionBefore returns the selection at the start of the change.
func (b *Batch) SelectionBefore() Selection { return b.selectionBefore }

// SelectionAfter returns the selection at the end of the change.
func (b *Batch) SelectionAfter() Selection { return b.selectionAfter }

// Affected returns the distinct elements touched by the batch.
func (b *Batch) Affected() []*Node {
	seen := make(map[*Node]bool)
	var out []*Node
	for _, op := range b.ops {
		for _, n := range op.Affected() {
			if n == nil || seen[n] {
				continue
			}
			seen[n] = true
			out = append(out, n)
		}
	}
	return out
}

// revert undoes operations from the last to the first. If one of them fails
// the operations already reverted are applied again.
func (b *Batch) revert() error {
	for i := len(b.ops) - 1; i >= 0; i-- {
		if err := b.ops[i].Revert(); err != nil {
			for j := i + 1; j < len(b.ops); j++ {
				_ = b.ops[j].Apply()
			}
			return fmt.Errorf("undo step %d (%s): %w", i, b.ops[i].Kind(), err)
		}
	}
	return nil
}

// reapply performs the operations again in order. On failure the operations
// applied so far are reverted.
func (b *Batch) reapply() error {
	for i, op := range b.ops {
		if err := op.Apply(); err != nil {
			if rerr := revertOps(b.ops[:i]); rerr != nil {
				return fmt.Errorf("redo step %d: %v (rollback: %w)", i, err, rerr)
			}
			return fmt.Errorf("redo step %d: %w", i, err)
		}
	}
	return nil
}

func revertOps(ops []Operation) error {
	for i := len(ops) - 1; i >= 0; i-- {
		if err := ops[i].Revert(); err != nil {
			return fmt.Errorf("revert %s: %w", ops[i].Kind(), err)
		}
	}
	return nil
}
