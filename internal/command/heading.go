package command

import (
	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table"
)

// ToggleHeadingRowCommand turns the selected cell's row into a heading row,
// or ends the heading band just above it when it already is one.
type ToggleHeadingRowCommand struct {
	base
}

// NewToggleHeadingRow creates the command.
func NewToggleHeadingRow(name string, cfg Config) *ToggleHeadingRowCommand {
	return &ToggleHeadingRowCommand{base: base{name: name, cfg: cfg}}
}

// IsEnabled reports whether the selection is inside a table.
func (c *ToggleHeadingRowCommand) IsEnabled(doc *model.Document) bool {
	return inTable(doc)
}

// Value reports whether the selected cell is in the heading row band.
func (c *ToggleHeadingRowCommand) Value(doc *model.Document) bool {
	g, info, ok := c.selected(doc)
	return ok && g.InHeadingRows(info.Row)
}

// Execute toggles the band. Turning a row on extends the band through the
// last row the selected cell spans, so no cell straddles the boundary.
func (c *ToggleHeadingRowCommand) Execute(doc *model.Document, _ Options) Result {
	return c.run(doc, func(g *table.Grid, info *table.CellInfo) (*table.Plan, map[string]any, error) {
		n := info.Row + info.Rowspan
		if g.InHeadingRows(info.Row) {
			n = info.Row
		}
		p := table.PlanSetHeadingRows(g, n)
		return p, map[string]any{"headingRows": n}, nil
	})
}

// ToggleHeadingColumnCommand is the column counterpart of
// ToggleHeadingRowCommand.
type ToggleHeadingColumnCommand struct {
	base
}

// NewToggleHeadingColumn creates the command.
func NewToggleHeadingColumn(name string, cfg Config) *ToggleHeadingColumnCommand {
	return &ToggleHeadingColumnCommand{base: base{name: name, cfg: cfg}}
}

// IsEnabled reports whether the selection is inside a table.
func (c *ToggleHeadingColumnCommand) IsEnabled(doc *model.Document) bool {
	return inTable(doc)
}

// Value reports whether the selected cell is in the heading column band.
func (c *ToggleHeadingColumnCommand) Value(doc *model.Document) bool {
	g, info, ok := c.selected(doc)
	return ok && g.InHeadingColumns(info.Column)
}

// Execute toggles the band.
func (c *ToggleHeadingColumnCommand) Execute(doc *model.Document, _ Options) Result {
	return c.run(doc, func(g *table.Grid, info *table.CellInfo) (*table.Plan, map[string]any, error) {
		n := info.Column + info.Colspan
		if g.InHeadingColumns(info.Column) {
			n = info.Column
		}
		p := table.PlanSetHeadingColumns(g, n)
		return p, map[string]any{"headingColumns": n}, nil
	})
}

func (b base) selected(doc *model.Document) (*table.Grid, *table.CellInfo, bool) {
	t, err := resolve(doc)
	if err != nil {
		return nil, nil, false
	}
	g, info, err := b.locate(t)
	if err != nil {
		return nil, nil, false
	}
	return g, info, true
}
