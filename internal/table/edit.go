package table

import (
	"fmt"

	"github.com/dshills/tablekit/internal/model"
)

// PlanInsertColumn plans a new logical column at index at, 0 <= at <= Columns().
//
// In each row a cell that straddles at (starts left of it and reaches past
// it) absorbs the new column and grows by one; this happens once per cell,
// in its anchor row, however wide the cell is. Rows covered at that point by
// such a cell from above get nothing. Every other row gets a new cell
// anchored exactly at at, pushing a cell that started there one column right.
func PlanInsertColumn(g *Grid, at int, opts Options) (*Plan, error) {
	if at < 0 || at > g.Columns() {
		return nil, fmt.Errorf("insert column %d of %d: %w", at, g.Columns(), ErrIndexOutOfRange)
	}
	p := &Plan{Description: fmt.Sprintf("insert column at %d", at)}

	for r := 0; r < g.Rows(); r++ {
		if info, _ := g.At(r, at); info != nil && info.Column < at {
			if info.Row == r {
				p.setSpan(info.Cell, model.AttrColspan, info.Colspan+1)
			}
			continue
		}
		p.insert(opts.NewCell(), g.RowNode(r), g.PhysicalIndex(r, at))
	}

	p.setHeading(g.Table(), model.AttrHeadingColumns, AdjustHeading(g.HeadingColumns(), at, +1))
	return p, nil
}

// PlanInsertRow plans a new logical row at index at, 0 <= at <= Rows().
//
// Cells spanning vertically across at grow by one row. The new row gets one
// empty cell for every column not covered by such a cell.
func PlanInsertRow(g *Grid, at int, opts Options) (*Plan, error) {
	if at < 0 || at > g.Rows() {
		return nil, fmt.Errorf("insert row %d of %d: %w", at, g.Rows(), ErrIndexOutOfRange)
	}
	p := &Plan{Description: fmt.Sprintf("insert row at %d", at)}

	var cells []*model.Node
	for c := 0; c < g.Columns(); {
		info, _ := g.At(at, c)
		if info != nil && info.Row < at {
			p.setSpan(info.Cell, model.AttrRowspan, info.Rowspan+1)
			c = info.Column + info.Colspan
			continue
		}
		cells = append(cells, opts.NewCell())
		c++
	}
	row := model.NewElement(model.RowName, nil, cells...)
	p.insert(row, g.Table(), at)

	p.setHeading(g.Table(), model.AttrHeadingRows, AdjustHeading(g.HeadingRows(), at, +1))
	return p, nil
}

// PlanRemoveRow plans the removal of logical row.
//
// Cells reaching into the row from above shrink by one row. Cells anchored in
// the row that span further down are moved, content and all, into the next
// row at the physical position matching their column, and shrink by one row.
func PlanRemoveRow(g *Grid, row int) (*Plan, error) {
	if row < 0 || row >= g.Rows() {
		return nil, fmt.Errorf("remove row %d of %d: %w", row, g.Rows(), ErrIndexOutOfRange)
	}
	if g.Rows() == 1 {
		return nil, ErrLastRow
	}
	p := &Plan{Description: fmt.Sprintf("remove row %d", row)}

	for c := 0; c < g.Columns(); c++ {
		info, _ := g.At(row, c)
		if info != nil && info.Row < row && info.Column == c {
			p.setSpan(info.Cell, model.AttrRowspan, info.Rowspan-1)
		}
	}

	moved := 0
	for _, info := range g.RowCells(row) {
		if info.Rowspan <= 1 {
			continue
		}
		next := row + 1
		p.move(info.Cell, g.RowNode(next), g.PhysicalIndex(next, info.Column)+moved)
		p.setSpan(info.Cell, model.AttrRowspan, info.Rowspan-1)
		moved++
	}

	p.remove(g.RowNode(row))
	p.setHeading(g.Table(), model.AttrHeadingRows, AdjustHeading(g.HeadingRows(), row, -1))
	return p, nil
}

// PlanRemoveColumn plans the removal of logical column col. Cells wider than
// one column shrink; single-column cells in col are removed.
func PlanRemoveColumn(g *Grid, col int) (*Plan, error) {
	if col < 0 || col >= g.Columns() {
		return nil, fmt.Errorf("remove column %d of %d: %w", col, g.Columns(), ErrIndexOutOfRange)
	}
	if g.Columns() == 1 {
		return nil, ErrLastColumn
	}
	p := &Plan{Description: fmt.Sprintf("remove column %d", col)}

	for r := 0; r < g.Rows(); r++ {
		info, _ := g.At(r, col)
		if info == nil || info.Row != r {
			continue
		}
		if info.Colspan > 1 {
			p.setSpan(info.Cell, model.AttrColspan, info.Colspan-1)
			continue
		}
		p.remove(info.Cell)
	}

	p.setHeading(g.Table(), model.AttrHeadingColumns, AdjustHeading(g.HeadingColumns(), col, -1))
	return p, nil
}

// PlanSetHeadingRows plans a new headingRows value, clamped to [0, Rows()].
func PlanSetHeadingRows(g *Grid, n int) *Plan {
	p := &Plan{Description: "set heading rows"}
	p.setHeading(g.Table(), model.AttrHeadingRows, clamp(n, 0, g.Rows()))
	return p
}

// PlanSetHeadingColumns plans a new headingColumns value, clamped to
// [0, Columns()].
func PlanSetHeadingColumns(g *Grid, n int) *Plan {
	p := &Plan{Description: "set heading columns"}
	p.setHeading(g.Table(), model.AttrHeadingColumns, clamp(n, 0, g.Columns()))
	return p
}

type planner func(g *Grid) (*Plan, error)

func run(w *model.Writer, table *model.Node, opts Options, plan planner) (*Plan, error) {
	g, err := opts.Grid(table)
	if err != nil {
		return nil, err
	}
	p, err := plan(g)
	if err != nil {
		return nil, err
	}
	if err := Apply(w, p); err != nil {
		return nil, err
	}
	return p, nil
}

// InsertColumn builds the grid for table, plans a column insertion at at and
// applies it through w.
func InsertColumn(w *model.Writer, table *model.Node, at int, opts Options) (*Plan, error) {
	return run(w, table, opts, func(g *Grid) (*Plan, error) {
		return PlanInsertColumn(g, at, opts)
	})
}

// InsertRow inserts a row at at.
func InsertRow(w *model.Writer, table *model.Node, at int, opts Options) (*Plan, error) {
	return run(w, table, opts, func(g *Grid) (*Plan, error) {
		return PlanInsertRow(g, at, opts)
	})
}

// RemoveRow removes logical row.
func RemoveRow(w *model.Writer, table *model.Node, row int, opts Options) (*Plan, error) {
	return run(w, table, opts, func(g *Grid) (*Plan, error) {
		return PlanRemoveRow(g, row)
	})
}

// RemoveColumn removes logical column col.
func RemoveColumn(w *model.Writer, table *model.Node, col int, opts Options) (*Plan, error) {
	return run(w, table, opts, func(g *Grid) (*Plan, error) {
		return PlanRemoveColumn(g, col)
	})
}

// SetHeadingRows sets headingRows to n.
func SetHeadingRows(w *model.Writer, table *model.Node, n int, opts Options) (*Plan, error) {
	return run(w, table, opts, func(g *Grid) (*Plan, error) {
		return PlanSetHeadingRows(g, n), nil
	})
}

// SetHeadingColumns sets headingColumns to n.
func SetHeadingColumns(w *model.Writer, table *model.Node, n int, opts Options) (*Plan, error) {
	return run(w, table, opts, func(g *Grid) (*Plan, error) {
		return PlanSetHeadingColumns(g, n), nil
	})
}
