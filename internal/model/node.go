package model

import (
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Element names known to the table engine.
const (
	RootName      = "$root"
	TextName      = "$text"
	TableName     = "table"
	RowName       = "tableRow"
	CellName      = "tableCell"
	ParagraphName = "paragraph"
)

// Attribute keys used on table elements.
const (
	AttrColspan        = "colspan"
	AttrRowspan        = "rowspan"
	AttrHeadingRows    = "headingRows"
	AttrHeadingColumns = "headingColumns"
)

// Node is an element or a text node in the document tree.
// Nodes are created detached and attached through a Writer.
type Node struct {
	id       string
	name     string
	data     string
	attrs    map[string]any
	children []*Node
	parent   *Node
}

// NewElement creates a detached element with the given attributes and children.
// Children that already have a parent are skipped.
func NewElement(name string, attrs map[string]any, children ...*Node) *Node {
	n := &Node{
		id:   uuid.NewString(),
		name: name,
	}
	for k, v := range attrs {
		if v == nil {
			continue
		}
		if n.attrs == nil {
			n.attrs = make(map[string]any, len(attrs))
		}
		n.attrs[k] = v
	}
	for _, c := range children {
		if c == nil || c.parent != nil {
			continue
		}
		c.parent = n
		n.children = append(n.children, c)
	}
	return n
}

// NewText creates a detached text node.
func NewText(data string) *Node {
	return &Node{
		id:   uuid.NewString(),
		name: TextName,
		data: data,
	}
}

// ID returns the node's unique identifier.
func (n *Node) ID() string { return n.id }

// Name returns the element name, or TextName for text nodes.
func (n *Node) Name() string { return n.name }

// Is reports whether the node has the given name.
func (n *Node) Is(name string) bool { return n != nil && n.name == name }

// IsText reports whether the node is a text node.
func (n *Node) IsText() bool { return n != nil && n.name == TextName }

// Data returns the text of a text node.
func (n *Node) Data() string { return n.data }

// Parent returns the parent element, or nil if the node is detached.
func (n *Node) Parent() *Node { return n.parent }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// Child returns the child at index i, or nil if out of range.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// Children returns a copy of the node's children.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// Index returns the node's index in its parent, or -1 when detached.
func (n *Node) Index() int {
	if n.parent == nil {
		return -1
	}
	for i, c := range n.parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

// Attribute returns the attribute value for key.
func (n *Node) Attribute(key string) (any, bool) {
	v, ok := n.attrs[key]
	return v, ok
}

// HasAttribute reports whether the attribute is set.
func (n *Node) HasAttribute(key string) bool {
	_, ok := n.attrs[key]
	return ok
}

// IntAttribute returns an integer attribute, or def when it is absent or
// not convertible.
func (n *Node) IntAttribute(key string, def int) int {
	v, ok := n.attrs[key]
	if !ok {
		return def
	}
	i, ok := ToInt(v)
	if !ok {
		return def
	}
	return i
}

// Attributes returns a copy of the attribute map.
func (n *Node) Attributes() map[string]any {
	out := make(map[string]any, len(n.attrs))
	for k, v := range n.attrs {
		out[k] = v
	}
	return out
}

// AttributeKeys returns the attribute keys in sorted order.
func (n *Node) AttributeKeys() []string {
	keys := make([]string, 0, len(n.attrs))
	for k := range n.attrs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TextContent returns the concatenated text of the subtree.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.data
	}
	var sb strings.Builder
	for _, c := range n.children {
		sb.WriteString(c.TextContent())
	}
	return sb.String()
}

// FindAncestor returns the closest node named name, starting with n itself
// and walking up through the parents.
func (n *Node) FindAncestor(name string) *Node {
	for cur := n; cur != nil; cur = cur.parent {
		if cur.name == name {
			return cur
		}
	}
	return nil
}

// Contains reports whether other is n or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == n {
			return true
		}
	}
	return false
}

// Root returns the topmost ancestor.
func (n *Node) Root() *Node {
	cur := n
	for cur.parent != nil {
		cur = cur.parent
	}
	return cur
}

// MaxOffset returns the largest valid offset inside the node.
func (n *Node) MaxOffset() int {
	total := 0
	for _, c := range n.children {
		total += c.offsetSize()
	}
	return total
}

// Clone returns a detached deep copy of the subtree with fresh IDs.
func (n *Node) Clone() *Node {
	if n.IsText() {
		return NewText(n.data)
	}
	kids := make([]*Node, len(n.children))
	for i, c := range n.children {
		kids[i] = c.Clone()
	}
	return NewElement(n.name, n.attrs, kids...)
}

func (n *Node) offsetSize() int {
	if n.IsText() {
		return utf8.RuneCountInString(n.data)
	}
	return 1
}

func (n *Node) insertChild(index int, child *Node) {
	n.children = append(n.children, nil)
	copy(n.children[index+1:], n.children[index:])
	n.children[index] = child
	child.parent = n
}

func (n *Node) removeChild(index int) *Node {
	child := n.children[index]
	copy(n.children[index:], n.children[index+1:])
	n.children[len(n.children)-1] = nil
	n.children = n.children[:len(n.children)-1]
	child.parent = nil
	return child
}

func (n *Node) setAttribute(key string, value any) {
	if value == nil {
		delete(n.attrs, key)
		return
	}
	if n.attrs == nil {
		n.attrs = make(map[string]any)
	}
	n.attrs[key] = value
}

// ToInt converts attribute values produced by builders, parsers and config
// loaders to int.
func ToInt(v any) (int, bool) {
	switch x := v.(type) {
	case int:
		return x, true
	case int32:
		return int(x), true
	case int64:
		return int(x), true
	case uint32:
		return int(x), true
	case float64:
		if x != float64(int(x)) {
			return 0, false
		}
		return int(x), true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(x))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}
