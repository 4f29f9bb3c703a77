package table

import (
	"fmt"

	"github.com/dshills/tablekit/internal/model"
)

// CellInfo describes a physical cell placed on the grid.
type CellInfo struct {
	Cell *model.Node

	// Row and Column are the logical coordinates of the cell's anchor.
	Row    int
	Column int

	// Rowspan and Colspan are the effective spans, always >= 1.
	Rowspan int
	Colspan int

	// Index is the cell's position in its row's children.
	Index int
}

// Covers reports whether the cell occupies (row, col).
func (c *CellInfo) Covers(row, col int) bool {
	return row >= c.Row && row < c.Row+c.Rowspan &&
		col >= c.Column && col < c.Column+c.Colspan
}

// LastRow returns the last logical row the cell occupies.
func (c *CellInfo) LastRow() int { return c.Row + c.Rowspan - 1 }

// LastColumn returns the last logical column the cell occupies.
func (c *CellInfo) LastColumn() int { return c.Column + c.Colspan - 1 }

// GridOption configures grid construction.
type GridOption func(*gridConfig)

type gridConfig struct {
	ragged bool
}

// WithRaggedRows accepts rows of different widths and clamps rowspans that
// run past the last row. Columns() then reports the widest row and slots
// past the end of a shorter row are empty.
func WithRaggedRows() GridOption {
	return func(c *gridConfig) { c.ragged = true }
}

// Grid is a read-only logical view of a table: every (row, column) slot maps
// to the cell covering it. A grid is built fresh for each edit and must not
// be reused after the table changes.
type Grid struct {
	table   *model.Node
	slots   [][]*CellInfo
	rows    [][]*CellInfo
	cells   []*CellInfo
	byCell  map[*model.Node]*CellInfo
	columns int

	headingRows    int
	headingColumns int
}

// NewGrid builds the grid for table.
func NewGrid(table *model.Node, opts ...GridOption) (*Grid, error) {
	if !table.Is(model.TableName) {
		return nil, ErrNotTable
	}
	var cfg gridConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	rowNodes := table.Children()
	g := &Grid{
		table:  table,
		slots:  make([][]*CellInfo, len(rowNodes)),
		rows:   make([][]*CellInfo, len(rowNodes)),
		byCell: make(map[*model.Node]*CellInfo),
	}

	for r, row := range rowNodes {
		if !row.Is(model.RowName) {
			return nil, fmt.Errorf("%w: table child %d is %q", ErrInvalidTable, r, row.Name())
		}
		col := 0
		for i, cell := range row.Children() {
			if !cell.Is(model.CellName) {
				return nil, fmt.Errorf("%w: row %d child %d is %q", ErrInvalidTable, r, i, cell.Name())
			}
			colspan, err := spanOf(cell, model.AttrColspan)
			if err != nil {
				return nil, fmt.Errorf("row %d cell %d: %w", r, i, err)
			}
			rowspan, err := spanOf(cell, model.AttrRowspan)
			if err != nil {
				return nil, fmt.Errorf("row %d cell %d: %w", r, i, err)
			}
			if r+rowspan > len(rowNodes) {
				if !cfg.ragged {
					return nil, fmt.Errorf("%w: row %d cell %d rowspan %d exceeds %d rows",
						ErrInvalidTable, r, i, rowspan, len(rowNodes))
				}
				rowspan = len(rowNodes) - r
			}

			for col < len(g.slots[r]) && g.slots[r][col] != nil {
				col++
			}
			info := &CellInfo{
				Cell:    cell,
				Row:     r,
				Column:  col,
				Rowspan: rowspan,
				Colspan: colspan,
				Index:   i,
			}
			if err := g.place(info); err != nil {
				return nil, err
			}
			g.rows[r] = append(g.rows[r], info)
			g.cells = append(g.cells, info)
			g.byCell[cell] = info
			col += colspan
		}
	}

	for _, line := range g.slots {
		if len(line) > g.columns {
			g.columns = len(line)
		}
	}
	for r := range g.slots {
		if !cfg.ragged {
			if len(g.slots[r]) != g.columns {
				return nil, fmt.Errorf("%w: row %d is %d columns wide, table is %d",
					ErrInvalidTable, r, len(g.slots[r]), g.columns)
			}
			for c, s := range g.slots[r] {
				if s == nil {
					return nil, fmt.Errorf("%w: slot (%d, %d) is not covered", ErrInvalidTable, r, c)
				}
			}
		}
		for len(g.slots[r]) < g.columns {
			g.slots[r] = append(g.slots[r], nil)
		}
	}

	g.headingRows = clamp(table.IntAttribute(model.AttrHeadingRows, 0), 0, len(rowNodes))
	g.headingColumns = clamp(table.IntAttribute(model.AttrHeadingColumns, 0), 0, g.columns)
	return g, nil
}

func (g *Grid) place(info *CellInfo) error {
	for r := info.Row; r <= info.LastRow(); r++ {
		for c := info.Column; c <= info.LastColumn(); c++ {
			for len(g.slots[r]) <= c {
				g.slots[r] = append(g.slots[r], nil)
			}
			if other := g.slots[r][c]; other != nil {
				return fmt.Errorf("%w: cells at (%d, %d) and (%d, %d) overlap at (%d, %d)",
					ErrInvalidTable, other.Row, other.Column, info.Row, info.Column, r, c)
			}
			g.slots[r][c] = info
		}
	}
	return nil
}

func spanOf(cell *model.Node, key string) (int, error) {
	v, ok := cell.Attribute(key)
	if !ok {
		return 1, nil
	}
	n, ok := model.ToInt(v)
	if !ok || n < 1 {
		return 0, fmt.Errorf("%w: %s %v is not a positive integer", ErrInvalidTable, key, v)
	}
	return n, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Table returns the table the grid was built from.
func (g *Grid) Table() *model.Node { return g.table }

// Rows returns the number of logical rows.
func (g *Grid) Rows() int { return len(g.slots) }

// Columns returns the number of logical columns.
func (g *Grid) Columns() int { return g.columns }

// At returns the cell covering (row, col) and whether the slot is the cell's
// anchor. It returns nil for slots outside the grid and for the empty tail of
// a short row in a ragged grid.
func (g *Grid) At(row, col int) (*CellInfo, bool) {
	if row < 0 || row >= len(g.slots) || col < 0 || col >= g.columns {
		return nil, false
	}
	info := g.slots[row][col]
	if info == nil {
		return nil, false
	}
	return info, info.Row == row && info.Column == col
}

// Locate returns the placement of cell, or nil if it is not in the table.
func (g *Grid) Locate(cell *model.Node) *CellInfo {
	return g.byCell[cell]
}

// Cells returns every physical cell in row-major anchor order.
func (g *Grid) Cells() []*CellInfo {
	out := make([]*CellInfo, len(g.cells))
	copy(out, g.cells)
	return out
}

// RowCells returns the cells anchored in row, left to right.
func (g *Grid) RowCells(row int) []*CellInfo {
	if row < 0 || row >= len(g.rows) {
		return nil
	}
	out := make([]*CellInfo, len(g.rows[row]))
	copy(out, g.rows[row])
	return out
}

// RowNode returns the row element at the logical row index.
func (g *Grid) RowNode(row int) *model.Node {
	return g.table.Child(row)
}

// PhysicalIndex returns the child index at which a cell anchored at col
// would be inserted into row: the number of cells anchored in that row to
// the left of col.
func (g *Grid) PhysicalIndex(row, col int) int {
	n := 0
	for _, info := range g.rows[row] {
		if info.Column < col {
			n++
		}
	}
	return n
}

// HeadingRows returns the clamped headingRows count.
func (g *Grid) HeadingRows() int { return g.headingRows }

// HeadingColumns returns the clamped headingColumns count.
func (g *Grid) HeadingColumns() int { return g.headingColumns }

// InHeadingRows reports whether row is inside the heading row band.
func (g *Grid) InHeadingRows(row int) bool { return row >= 0 && row < g.headingRows }

// InHeadingColumns reports whether col is inside the heading column band.
func (g *Grid) InHeadingColumns(col int) bool { return col >= 0 && col < g.headingColumns }

// IsHeading reports whether the cell anchored at info renders as a heading.
func (g *Grid) IsHeading(info *CellInfo) bool {
	return g.InHeadingRows(info.Row) || g.InHeadingColumns(info.Column)
}
