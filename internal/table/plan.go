package table

import (
	"fmt"
	"strings"

	"github.com/dshills/tablekit/internal/model"
)

// MutationKind identifies a low-level tree mutation.
type MutationKind uint8

const (
	// MutInsert inserts Node into Parent at Index.
	MutInsert MutationKind = iota
	// MutRemove removes Node.
	MutRemove
	// MutMove moves Node into Parent at Index.
	MutMove
	// MutSetAttribute sets Key to Value on Node.
	MutSetAttribute
	// MutRemoveAttribute clears Key on Node.
	MutRemoveAttribute
)

// String returns the mutation kind name.
func (k MutationKind) String() string {
	switch k {
	case MutInsert:
		return "insert"
	case MutRemove:
		return "remove"
	case MutMove:
		return "move"
	case MutSetAttribute:
		return "set"
	case MutRemoveAttribute:
		return "unset"
	default:
		return "unknown"
	}
}

// Mutation is one step of a plan.
type Mutation struct {
	Kind   MutationKind
	Node   *model.Node
	Parent *model.Node
	Index  int
	Key    string
	Value  any
}

// String returns a debug representation.
func (m Mutation) String() string {
	switch m.Kind {
	case MutInsert, MutMove:
		return fmt.Sprintf("%s %s into %s@%d", m.Kind, m.Node.Name(), m.Parent.Name(), m.Index)
	case MutRemove:
		return fmt.Sprintf("remove %s", m.Node.Name())
	case MutSetAttribute:
		return fmt.Sprintf("set %s=%v on %s", m.Key, m.Value, m.Node.Name())
	case MutRemoveAttribute:
		return fmt.Sprintf("unset %s on %s", m.Key, m.Node.Name())
	default:
		return "unknown"
	}
}

// Plan is the ordered list of mutations that performs one structural edit.
// Plans are computed from a grid snapshot and never touch the tree.
type Plan struct {
	Description string
	Mutations   []Mutation
}

// Len returns the number of mutations.
func (p *Plan) Len() int { return len(p.Mutations) }

// IsEmpty reports whether applying the plan would change nothing.
func (p *Plan) IsEmpty() bool { return len(p.Mutations) == 0 }

// Count returns how many mutations of kind the plan holds.
func (p *Plan) Count(kind MutationKind) int {
	n := 0
	for _, m := range p.Mutations {
		if m.Kind == kind {
			n++
		}
	}
	return n
}

// String lists the mutations one per line.
func (p *Plan) String() string {
	var sb strings.Builder
	sb.WriteString(p.Description)
	for _, m := range p.Mutations {
		sb.WriteString("\n  ")
		sb.WriteString(m.String())
	}
	return sb.String()
}

func (p *Plan) insert(node, parent *model.Node, index int) {
	p.Mutations = append(p.Mutations, Mutation{Kind: MutInsert, Node: node, Parent: parent, Index: index})
}

func (p *Plan) remove(node *model.Node) {
	p.Mutations = append(p.Mutations, Mutation{Kind: MutRemove, Node: node})
}

func (p *Plan) move(node, parent *model.Node, index int) {
	p.Mutations = append(p.Mutations, Mutation{Kind: MutMove, Node: node, Parent: parent, Index: index})
}

// setSpan stores a span attribute; a span of 1 is stored as no attribute.
func (p *Plan) setSpan(node *model.Node, key string, span int) {
	if span <= 1 {
		if node.HasAttribute(key) {
			p.Mutations = append(p.Mutations, Mutation{Kind: MutRemoveAttribute, Node: node, Key: key})
		}
		return
	}
	p.Mutations = append(p.Mutations, Mutation{Kind: MutSetAttribute, Node: node, Key: key, Value: span})
}

// setHeading stores a heading count; zero is stored as no attribute.
func (p *Plan) setHeading(table *model.Node, key string, n int) {
	if n <= 0 {
		if table.HasAttribute(key) {
			p.Mutations = append(p.Mutations, Mutation{Kind: MutRemoveAttribute, Node: table, Key: key})
		}
		return
	}
	if v, ok := table.Attribute(key); ok {
		if cur, ok := model.ToInt(v); ok && cur == n {
			return
		}
	}
	p.Mutations = append(p.Mutations, Mutation{Kind: MutSetAttribute, Node: table, Key: key, Value: n})
}

// Apply performs the plan's mutations through w in order. The caller's
// Document.Change reverts everything if a step fails.
func Apply(w *model.Writer, p *Plan) error {
	for i, m := range p.Mutations {
		var err error
		switch m.Kind {
		case MutInsert:
			err = w.Insert(m.Node, m.Parent, m.Index)
		case MutRemove:
			err = w.Remove(m.Node)
		case MutMove:
			err = w.Move(m.Node, m.Parent, m.Index)
		case MutSetAttribute:
			err = w.SetAttribute(m.Key, m.Value, m.Node)
		case MutRemoveAttribute:
			err = w.RemoveAttribute(m.Key, m.Node)
		default:
			err = fmt.Errorf("unknown mutation kind %d", m.Kind)
		}
		if err != nil {
			return fmt.Errorf("%s: step %d (%s): %w", p.Description, i, m.Kind, err)
		}
	}
	return nil
}
