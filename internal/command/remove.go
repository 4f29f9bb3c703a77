package command

import (
	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table"
)

// RemoveRowCommand removes the selected cell's anchor row.
type RemoveRowCommand struct {
	base
}

// NewRemoveRow creates the command.
func NewRemoveRow(name string, cfg Config) *RemoveRowCommand {
	return &RemoveRowCommand{base: base{name: name, cfg: cfg}}
}

// IsEnabled reports whether the selection is in a table with more than one row.
func (c *RemoveRowCommand) IsEnabled(doc *model.Document) bool {
	g, ok := c.grid(doc)
	return ok && g.Rows() > 1
}

// Execute removes the row.
func (c *RemoveRowCommand) Execute(doc *model.Document, _ Options) Result {
	if !c.IsEnabled(doc) {
		return NoOpWithMessage("cannot remove row here")
	}
	return c.run(doc, func(g *table.Grid, info *table.CellInfo) (*table.Plan, map[string]any, error) {
		p, err := table.PlanRemoveRow(g, info.Row)
		return p, map[string]any{"row": info.Row}, err
	})
}

// RemoveColumnCommand removes the selected cell's first column.
type RemoveColumnCommand struct {
	base
}

// NewRemoveColumn creates the command.
func NewRemoveColumn(name string, cfg Config) *RemoveColumnCommand {
	return &RemoveColumnCommand{base: base{name: name, cfg: cfg}}
}

// IsEnabled reports whether the selection is in a table with more than one
// column.
func (c *RemoveColumnCommand) IsEnabled(doc *model.Document) bool {
	g, ok := c.grid(doc)
	return ok && g.Columns() > 1
}

// Execute removes the column.
func (c *RemoveColumnCommand) Execute(doc *model.Document, _ Options) Result {
	if !c.IsEnabled(doc) {
		return NoOpWithMessage("cannot remove column here")
	}
	return c.run(doc, func(g *table.Grid, info *table.CellInfo) (*table.Plan, map[string]any, error) {
		p, err := table.PlanRemoveColumn(g, info.Column)
		return p, map[string]any{"column": info.Column}, err
	})
}

// grid returns the grid of the table holding the selection.
func (b base) grid(doc *model.Document) (*table.Grid, bool) {
	t, err := resolve(doc)
	if err != nil {
		return nil, false
	}
	g, err := b.cfg.Table.Grid(t.table)
	if err != nil {
		return nil, false
	}
	return g, true
}
