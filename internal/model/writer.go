package model

import (
	"fmt"
	"reflect"
)

// Writer applies operations inside a Document.Change callback.
// A writer is only usable while its change function runs.
type Writer struct {
	doc   *Document
	batch *Batch
}

// Document returns the document being changed.
func (w *Writer) Document() *Document { return w.doc }

func (w *Writer) apply(op Operation) error {
	if w.doc == nil {
		return ErrNoWriter
	}
	if err := op.Apply(); err != nil {
		return err
	}
	w.batch.ops = append(w.batch.ops, op)
	return nil
}

// Insert attaches a detached node to parent at child index.
func (w *Writer) Insert(node, parent *Node, index int) error {
	if err := w.apply(&InsertOperation{Parent: parent, Index: index, Node: node}); err != nil {
		return fmt.Errorf("insert: %w", err)
	}
	return nil
}

// Append attaches a detached node as the last child of parent.
func (w *Writer) Append(node, parent *Node) error {
	if parent == nil {
		return fmt.Errorf("append: %w", ErrNilNode)
	}
	return w.Insert(node, parent, len(parent.children))
}

// Remove detaches node from its parent.
func (w *Writer) Remove(node *Node) error {
	if err := w.apply(&RemoveOperation{Node: node}); err != nil {
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// Move relocates an attached node to target at index. The index is counted
// after the node has left its old parent.
func (w *Writer) Move(node, target *Node, index int) error {
	if err := w.apply(&MoveOperation{Node: node, Target: target, Index: index}); err != nil {
		return fmt.Errorf("move: %w", err)
	}
	return nil
}

// SetAttribute sets key on node. A nil value removes the attribute.
// Setting a value equal to the current one records nothing.
func (w *Writer) SetAttribute(key string, value any, node *Node) error {
	if node == nil {
		return fmt.Errorf("set attribute %s: %w", key, ErrNilNode)
	}
	cur, ok := node.attrs[key]
	if (value == nil && !ok) || (ok && value != nil && sameValue(cur, value)) {
		return nil
	}
	if err := w.apply(&AttributeOperation{Node: node, Key: key, Value: value}); err != nil {
		return fmt.Errorf("set attribute %s: %w", key, err)
	}
	return nil
}

// RemoveAttribute clears key on node.
func (w *Writer) RemoveAttribute(key string, node *Node) error {
	return w.SetAttribute(key, nil, node)
}

// SetSelection replaces the document selection as part of the batch.
func (w *Writer) SetSelection(sel Selection) error {
	if w.doc == nil {
		return ErrNoWriter
	}
	return w.apply(&SelectionOperation{doc: w.doc, New: sel})
}

func sameValue(a, b any) bool {
	if ai, ok := ToInt(a); ok {
		if bi, ok := ToInt(b); ok {
			_, aStr := a.(string)
			_, bStr := b.(string)
			return ai == bi && aStr == bStr
		}
	}
	return reflect.DeepEqual(a, b)
}
