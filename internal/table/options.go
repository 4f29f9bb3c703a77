package table

import "github.com/dshills/tablekit/internal/model"

// Options is the explicit configuration passed to the planners.
type Options struct {
	// EmptyCellParagraph puts an empty paragraph inside each new cell.
	EmptyCellParagraph bool

	// CellText is the initial text of new cells. It implies a paragraph.
	CellText string

	// AllowRaggedRows builds grids with WithRaggedRows.
	AllowRaggedRows bool
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{EmptyCellParagraph: true}
}

// NewCell builds a detached empty cell.
func (o Options) NewCell() *model.Node {
	if o.CellText != "" {
		return model.NewElement(model.CellName, nil,
			model.NewElement(model.ParagraphName, nil, model.NewText(o.CellText)))
	}
	if o.EmptyCellParagraph {
		return model.NewElement(model.CellName, nil, model.NewElement(model.ParagraphName, nil))
	}
	return model.NewElement(model.CellName, nil)
}

// Grid builds the grid for table honoring the options.
func (o Options) Grid(table *model.Node) (*Grid, error) {
	if o.AllowRaggedRows {
		return NewGrid(table, WithRaggedRows())
	}
	return NewGrid(table)
}
