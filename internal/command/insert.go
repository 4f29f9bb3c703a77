package command

import (
	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table"
)

// InsertColumnCommand inserts a column before or after the selected cell.
type InsertColumnCommand struct {
	base
	order Order
}

// NewInsertColumn creates the command. An empty order means after.
func NewInsertColumn(name string, order Order, cfg Config) *InsertColumnCommand {
	if order == "" {
		order = OrderAfter
	}
	return &InsertColumnCommand{base: base{name: name, cfg: cfg}, order: order}
}

// IsEnabled reports whether the selection is inside a table.
func (c *InsertColumnCommand) IsEnabled(doc *model.Document) bool {
	return inTable(doc)
}

// Execute inserts the column. The target index is the selected cell's first
// column for before, and the column after its last for after.
func (c *InsertColumnCommand) Execute(doc *model.Document, opts Options) Result {
	order, err := pickOrder(opts.Order, c.order, OrderBefore, OrderAfter)
	if err != nil {
		return Error(err)
	}
	return c.run(doc, func(g *table.Grid, info *table.CellInfo) (*table.Plan, map[string]any, error) {
		at := info.Column
		if order == OrderAfter {
			at += info.Colspan
		}
		p, err := table.PlanInsertColumn(g, at, c.cfg.Table)
		return p, map[string]any{"column": at}, err
	})
}

// InsertRowCommand inserts a row above or below the selected cell.
type InsertRowCommand struct {
	base
	order Order
}

// NewInsertRow creates the command. An empty order means below.
func NewInsertRow(name string, order Order, cfg Config) *InsertRowCommand {
	if order == "" {
		order = OrderBelow
	}
	return &InsertRowCommand{base: base{name: name, cfg: cfg}, order: order}
}

// IsEnabled reports whether the selection is inside a table.
func (c *InsertRowCommand) IsEnabled(doc *model.Document) bool {
	return inTable(doc)
}

// Execute inserts the row above the selected cell's anchor row, or below
// the last row the cell spans.
func (c *InsertRowCommand) Execute(doc *model.Document, opts Options) Result {
	order, err := pickOrder(opts.Order, c.order, OrderAbove, OrderBelow)
	if err != nil {
		return Error(err)
	}
	return c.run(doc, func(g *table.Grid, info *table.CellInfo) (*table.Plan, map[string]any, error) {
		at := info.Row
		if order == OrderBelow {
			at += info.Rowspan
		}
		p, err := table.PlanInsertRow(g, at, c.cfg.Table)
		return p, map[string]any{"row": at}, err
	})
}
