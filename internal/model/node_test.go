package model

import (
	"errors"
	"testing"
)

func TestNewElementSkipsNilAttributes(t *testing.T) {
	n := NewElement(CellName, map[string]any{AttrColspan: 2, AttrRowspan: nil})
	if !n.HasAttribute(AttrColspan) {
		t.Error("colspan should be set")
	}
	if n.HasAttribute(AttrRowspan) {
		t.Error("nil rowspan should be skipped")
	}
	if n.ID() == "" {
		t.Error("id should be assigned")
	}
}

func TestIntAttribute(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 3, 3},
		{"int64", int64(4), 4},
		{"float", float64(5), 5},
		{"fraction", 1.5, 1},
		{"string", " 6 ", 6},
		{"garbage", "x", 1},
		{"bool", true, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := NewElement(CellName, map[string]any{AttrColspan: tt.value})
			if got := n.IntAttribute(AttrColspan, 1); got != tt.want {
				t.Errorf("IntAttribute = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFindAncestorIncludesSelf(t *testing.T) {
	p := NewElement(ParagraphName, nil, NewText("x"))
	cell := NewElement(CellName, nil, p)
	row := NewElement(RowName, nil, cell)
	table := NewElement(TableName, nil, row)

	if got := p.FindAncestor(TableName); got != table {
		t.Error("table not found from paragraph")
	}
	if got := cell.FindAncestor(CellName); got != cell {
		t.Error("cell should find itself")
	}
	if got := table.FindAncestor(CellName); got != nil {
		t.Error("table has no cell ancestor")
	}
}

func TestPositionOffsets(t *testing.T) {
	text := NewText("héllo")
	img := NewElement("image", nil)
	p := NewElement(ParagraphName, nil, text, img)

	if got := p.MaxOffset(); got != 6 {
		t.Errorf("MaxOffset = %d, want 6", got)
	}
	if got := PositionBefore(img); got.Offset != 5 {
		t.Errorf("PositionBefore offset = %d, want 5", got.Offset)
	}
	if PositionAt(p, 7).IsValid() {
		t.Error("offset 7 should be invalid")
	}
}

func TestPositionPath(t *testing.T) {
	inner := NewElement(ParagraphName, nil)
	cell := NewElement(CellName, nil, NewElement(ParagraphName, nil), inner)
	root := NewElement(RootName, nil, NewElement(ParagraphName, nil), cell)

	got := PositionAt(inner, 0).Path()
	want := []int{1, 1, 0}
	if len(got) != len(want) {
		t.Fatalf("Path = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Path = %v, want %v", got, want)
		}
	}
	if !PositionAt(inner, 0).IsAttachedTo(root) {
		t.Error("position should be attached to root")
	}
}

func TestInsertRejectsCycle(t *testing.T) {
	doc := NewDocument()
	outer := NewElement(TableName, nil)
	err := doc.Change("setup", func(w *Writer) error {
		return w.Append(outer, doc.Root())
	})
	if err != nil {
		t.Fatal(err)
	}
	err = doc.Change("cycle", func(w *Writer) error {
		return w.Move(doc.Root().Child(0), outer, 0)
	})
	if !errors.Is(err, ErrCycle) {
		t.Errorf("err = %v, want ErrCycle", err)
	}
}

func TestCloneIsDetachedDeepCopy(t *testing.T) {
	src := NewElement(CellName, map[string]any{AttrRowspan: 2}, NewElement(ParagraphName, nil, NewText("a")))
	c := src.Clone()
	if c.ID() == src.ID() {
		t.Error("clone should get a fresh id")
	}
	if c.TextContent() != "a" || c.IntAttribute(AttrRowspan, 1) != 2 {
		t.Error("clone lost content")
	}
	if c.Child(0) == src.Child(0) {
		t.Error("children should be copied")
	}
}
