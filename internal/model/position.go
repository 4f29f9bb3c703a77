package model

import "fmt"

// Position is a location inside an element's content.
// Offset counts characters for text children and one unit per element child.
type Position struct {
	Parent *Node
	Offset int
}

// PositionAt creates a position inside parent at offset.
func PositionAt(parent *Node, offset int) Position {
	return Position{Parent: parent, Offset: offset}
}

// PositionBefore returns the position just before node in its parent.
func PositionBefore(node *Node) Position {
	if node.parent == nil {
		return Position{}
	}
	offset := 0
	for _, c := range node.parent.children {
		if c == node {
			break
		}
		offset += c.offsetSize()
	}
	return Position{Parent: node.parent, Offset: offset}
}

// IsZero reports whether the position points nowhere.
func (p Position) IsZero() bool {
	return p.Parent == nil
}

// IsValid reports whether the offset fits inside the parent.
func (p Position) IsValid() bool {
	return p.Parent != nil && p.Offset >= 0 && p.Offset <= p.Parent.MaxOffset()
}

// FindAncestor returns the closest element named name containing the position.
func (p Position) FindAncestor(name string) *Node {
	if p.Parent == nil {
		return nil
	}
	return p.Parent.FindAncestor(name)
}

// IsAttachedTo reports whether the position lies inside root's tree.
func (p Position) IsAttachedTo(root *Node) bool {
	return p.Parent != nil && root.Contains(p.Parent)
}

// Path returns the child indexes from the root down to the parent,
// followed by the offset.
func (p Position) Path() []int {
	if p.Parent == nil {
		return nil
	}
	var rev []int
	for cur := p.Parent; cur.parent != nil; cur = cur.parent {
		rev = append(rev, cur.Index())
	}
	path := make([]int, 0, len(rev)+1)
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return append(path, p.Offset)
}

// String returns a debug representation.
func (p Position) String() string {
	if p.Parent == nil {
		return "<none>"
	}
	return fmt.Sprintf("%s%v", p.Parent.name, p.Path())
}

// Selection is an anchor and a focus position.
// When both are equal the selection is collapsed.
type Selection struct {
	Anchor Position
	Focus  Position
}

// NewCollapsedSelection creates a selection with anchor and focus at p.
func NewCollapsedSelection(p Position) Selection {
	return Selection{Anchor: p, Focus: p}
}

// NewSelection creates a selection from anchor to focus.
func NewSelection(anchor, focus Position) Selection {
	return Selection{Anchor: anchor, Focus: focus}
}

// IsCollapsed reports whether anchor and focus are equal.
func (s Selection) IsCollapsed() bool {
	return s.Anchor == s.Focus
}

// IsZero reports whether there is no selection.
func (s Selection) IsZero() bool {
	return s.Focus.IsZero()
}
