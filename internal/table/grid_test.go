package table

import (
	"errors"
	"testing"

	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table/tabletest"
)

type span = tabletest.Cell

func TestGridSimple(t *testing.T) {
	tbl := tabletest.ModelTable([][]any{
		{"11", "12"},
		{"21", "22"},
	}, nil)
	g, err := NewGrid(tbl)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if g.Rows() != 2 || g.Columns() != 2 {
		t.Fatalf("size = %dx%d, want 2x2", g.Rows(), g.Columns())
	}
	info, anchor := g.At(1, 1)
	if info == nil || !anchor || info.Cell.TextContent() != "22" {
		t.Errorf("At(1,1) = %+v, anchor %v", info, anchor)
	}
	if info.Index != 1 {
		t.Errorf("Index = %d, want 1", info.Index)
	}
}

func TestGridSpans(t *testing.T) {
	// 00 00 02
	// 00 00 12
	// 20 21 22
	tbl := tabletest.ModelTable([][]any{
		{span{Contents: "00", Colspan: 2, Rowspan: 2}, "02"},
		{"12"},
		{"20", "21", "22"},
	}, nil)
	g, err := NewGrid(tbl)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if g.Columns() != 3 {
		t.Fatalf("Columns = %d, want 3", g.Columns())
	}

	tests := []struct {
		row, col int
		text     string
		anchor   bool
	}{
		{0, 0, "00", true},
		{0, 1, "00", false},
		{1, 0, "00", false},
		{1, 1, "00", false},
		{1, 2, "12", true},
		{2, 1, "21", true},
	}
	for _, tt := range tests {
		info, anchor := g.At(tt.row, tt.col)
		if info == nil {
			t.Fatalf("At(%d,%d) = nil", tt.row, tt.col)
		}
		if info.Cell.TextContent() != tt.text || anchor != tt.anchor {
			t.Errorf("At(%d,%d) = %s anchor=%v, want %s anchor=%v",
				tt.row, tt.col, info.Cell.TextContent(), anchor, tt.text, tt.anchor)
		}
	}

	twelve := g.Locate(tbl.Child(1).Child(0))
	if twelve.Row != 1 || twelve.Column != 2 || twelve.Index != 0 {
		t.Errorf("Locate(12) = %+v", twelve)
	}
	if got := g.PhysicalIndex(1, 2); got != 0 {
		t.Errorf("PhysicalIndex(1,2) = %d, want 0", got)
	}
	if got := g.PhysicalIndex(1, 3); got != 1 {
		t.Errorf("PhysicalIndex(1,3) = %d, want 1", got)
	}
	if got := g.PhysicalIndex(0, 2); got != 1 {
		t.Errorf("PhysicalIndex(0,2) = %d, want 1", got)
	}
	if n := len(g.Cells()); n != 6 {
		t.Errorf("Cells = %d, want 6", n)
	}
}

func TestGridOutOfRange(t *testing.T) {
	g, err := NewGrid(tabletest.ModelTable([][]any{{"a"}}, nil))
	if err != nil {
		t.Fatal(err)
	}
	for _, pos := range [][2]int{{-1, 0}, {0, -1}, {1, 0}, {0, 1}} {
		if info, _ := g.At(pos[0], pos[1]); info != nil {
			t.Errorf("At(%d,%d) should be nil", pos[0], pos[1])
		}
	}
}

func TestGridInvalid(t *testing.T) {
	tests := []struct {
		name  string
		table *model.Node
	}{
		{
			name: "uneven widths",
			table: tabletest.ModelTable([][]any{
				{"a", "b"},
				{"c"},
			}, nil),
		},
		{
			name: "rowspan past last row",
			table: tabletest.ModelTable([][]any{
				{span{Contents: "a", Rowspan: 3}, "b"},
				{"c"},
			}, nil),
		},
		{
			name: "zero colspan",
			table: model.NewElement(model.TableName, nil,
				model.NewElement(model.RowName, nil,
					model.NewElement(model.CellName, map[string]any{model.AttrColspan: 0}))),
		},
		{
			name: "non numeric rowspan",
			table: model.NewElement(model.TableName, nil,
				model.NewElement(model.RowName, nil,
					model.NewElement(model.CellName, map[string]any{model.AttrRowspan: "x"}))),
		},
		{
			name: "paragraph in table",
			table: model.NewElement(model.TableName, nil,
				tabletest.Paragraph("a")),
		},
		{
			name: "paragraph in row",
			table: model.NewElement(model.TableName, nil,
				model.NewElement(model.RowName, nil, tabletest.Paragraph("a"))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.table)
			if !errors.Is(err, ErrInvalidTable) {
				t.Errorf("err = %v, want ErrInvalidTable", err)
			}
		})
	}
}

func TestGridNotTable(t *testing.T) {
	if _, err := NewGrid(tabletest.Paragraph("x")); !errors.Is(err, ErrNotTable) {
		t.Errorf("err = %v, want ErrNotTable", err)
	}
}

func TestGridRaggedRows(t *testing.T) {
	tbl := tabletest.ModelTable([][]any{
		{"a", "b", "c"},
		{span{Contents: "d", Colspan: 2, Rowspan: 5}},
	}, nil)
	g, err := NewGrid(tbl, WithRaggedRows())
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if g.Columns() != 3 {
		t.Errorf("Columns = %d, want 3", g.Columns())
	}
	if info, _ := g.At(1, 2); info != nil {
		t.Error("tail slot of short row should be empty")
	}
	if d := g.Locate(tbl.Child(1).Child(0)); d.Rowspan != 1 {
		t.Errorf("clamped rowspan = %d, want 1", d.Rowspan)
	}
}

func TestGridHeadings(t *testing.T) {
	tbl := tabletest.ModelTable([][]any{
		{"a", "b"},
		{"c", "d"},
	}, map[string]any{model.AttrHeadingRows: 5, model.AttrHeadingColumns: 1})
	g, err := NewGrid(tbl)
	if err != nil {
		t.Fatal(err)
	}
	if g.HeadingRows() != 2 {
		t.Errorf("HeadingRows = %d, want clamped 2", g.HeadingRows())
	}
	if !g.InHeadingColumns(0) || g.InHeadingColumns(1) {
		t.Error("InHeadingColumns wrong")
	}
	d := g.Locate(tbl.Child(1).Child(1))
	if !g.IsHeading(d) {
		t.Error("cell in heading row should be a heading")
	}
}

func TestParentTable(t *testing.T) {
	doc := model.NewDocument()
	tabletest.SetData(t, doc, tabletest.Paragraph("foo[]"))
	if ParentTable(doc.Selection().Focus) != nil {
		t.Error("paragraph selection has no table")
	}

	tabletest.SetData(t, doc, tabletest.ModelTable([][]any{{"[]"}}, nil))
	tbl := ParentTable(doc.Selection().Focus)
	if tbl == nil || !tbl.Is(model.TableName) {
		t.Fatal("table not found")
	}
	if cell := ParentCell(doc.Selection().Focus); cell == nil {
		t.Error("cell not found")
	}
	if n := len(Tables(doc.Root())); n != 1 {
		t.Errorf("Tables = %d, want 1", n)
	}
}

func TestCellStart(t *testing.T) {
	para := model.NewElement(model.ParagraphName, nil, model.NewText("x"))
	withBlock := model.NewElement(model.CellName, nil, para)
	if got := CellStart(withBlock); got != model.PositionAt(para, 0) {
		t.Errorf("CellStart(cell with paragraph) = %v", got)
	}

	empty := model.NewElement(model.CellName, nil)
	if got := CellStart(empty); got != model.PositionAt(empty, 0) {
		t.Errorf("CellStart(empty cell) = %v", got)
	}
}
