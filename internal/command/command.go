package command

import (
	"errors"
	"fmt"

	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table"
)

// Order places a new column or row relative to the selected cell.
type Order string

const (
	OrderBefore Order = "before"
	OrderAfter  Order = "after"
	OrderAbove  Order = "above"
	OrderBelow  Order = "below"
)

// ParseOrder validates an order name. The empty string is accepted and means
// the command's default.
func ParseOrder(s string) (Order, error) {
	switch o := Order(s); o {
	case "", OrderBefore, OrderAfter, OrderAbove, OrderBelow:
		return o, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidOrder, s)
	}
}

// Options are the per-invocation command options.
type Options struct {
	// Order overrides the order the command was constructed with.
	Order Order
}

// Logger is the logging surface commands use.
type Logger interface {
	Debug(msg string, args ...any)
	Error(msg string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Error(string, ...any) {}

// Config holds what commands need from their environment.
type Config struct {
	// Table configures grids and new cells.
	Table table.Options

	// ColumnOrder is the order of the plain insert column command.
	ColumnOrder Order

	// RowOrder is the order of the plain insert row command.
	RowOrder Order

	// Logger receives execution logs. Nil discards them.
	Logger Logger
}

// DefaultConfig returns the configuration used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Table:       table.DefaultOptions(),
		ColumnOrder: OrderAfter,
		RowOrder:    OrderBelow,
	}
}

func (c Config) logger() Logger {
	if c.Logger == nil {
		return nopLogger{}
	}
	return c.Logger
}

// Command is a user-invokable table action.
type Command interface {
	// Name returns the action name, e.g. "table.insertColumnAfter".
	Name() string

	// IsEnabled reports whether the command can run on the document's
	// current selection.
	IsEnabled(doc *model.Document) bool

	// Execute runs the command. A disabled command returns a no-op result
	// and leaves the document untouched.
	Execute(doc *model.Document, opts Options) Result
}

// target is the table context resolved from the selection.
type target struct {
	table *model.Node
	cell  *model.Node
}

// resolve finds the table and the cell holding the selection focus. The cell
// is nil when the focus is in the table but outside its cells.
func resolve(doc *model.Document) (target, error) {
	focus := doc.Selection().Focus
	if !focus.IsAttachedTo(doc.Root()) {
		return target{}, ErrNotInTable
	}
	tbl := table.ParentTable(focus)
	if tbl == nil {
		return target{}, ErrNotInTable
	}
	cell := table.ParentCell(focus)
	if cell != nil && !tbl.Contains(cell) {
		cell = nil
	}
	return target{table: tbl, cell: cell}, nil
}

// base carries the name and configuration shared by all commands.
type base struct {
	name string
	cfg  Config
}

func (b base) Name() string { return b.name }

// locate builds the grid and places the selected cell on it.
func (b base) locate(t target) (*table.Grid, *table.CellInfo, error) {
	g, err := b.cfg.Table.Grid(t.table)
	if err != nil {
		return nil, nil, err
	}
	if t.cell == nil {
		return g, nil, ErrNotInCell
	}
	info := g.Locate(t.cell)
	if info == nil {
		return g, nil, table.ErrCellNotInTable
	}
	return g, info, nil
}

// run executes one structural edit as a single document change. plan is
// called inside the change with the grid and the selected cell; it returns
// the plan to apply and the data to report.
func (b base) run(doc *model.Document, plan func(g *table.Grid, info *table.CellInfo) (*table.Plan, map[string]any, error)) Result {
	log := b.cfg.logger()
	t, err := resolve(doc)
	if err != nil {
		return NoOpWithMessage(err.Error())
	}

	var (
		applied *table.Plan
		data    map[string]any
	)
	err = doc.Change(b.name, func(w *model.Writer) error {
		g, info, err := b.locate(t)
		if err != nil {
			return err
		}
		p, d, err := plan(g, info)
		if err != nil {
			return err
		}
		if err := table.Apply(w, p); err != nil {
			return err
		}
		if err := b.fixSelection(w, doc, t.table, info); err != nil {
			return err
		}
		applied, data = p, d
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotInCell) {
			return NoOpWithMessage(err.Error())
		}
		if errors.Is(err, table.ErrInvalidTable) {
			log.Error("%s: invalid table %s: %v", b.name, t.table.ID(), err)
		} else {
			log.Debug("%s failed: %v", b.name, err)
		}
		return Error(&OperationError{Op: b.name, Target: t.table.ID(), Err: err})
	}

	if applied.IsEmpty() {
		log.Debug("%s: nothing to change", b.name)
		return NoOpWithMessage("nothing to change")
	}
	msg := fmt.Sprintf("applied %d mutations", applied.Len())
	log.Debug("%s: %s", b.name, msg)
	res := SuccessWithData("mutations", applied.Len()).WithMessage(msg)
	for k, v := range data {
		res = res.WithData(k, v)
	}
	return res
}

// fixSelection moves a selection left dangling by a removal into the cell
// now occupying the selected cell's former position.
func (b base) fixSelection(w *model.Writer, doc *model.Document, tbl *model.Node, was *table.CellInfo) error {
	if doc.Selection().Focus.IsAttachedTo(doc.Root()) {
		return nil
	}
	g, err := b.cfg.Table.Grid(tbl)
	if err != nil {
		return err
	}
	row := min(was.Row, g.Rows()-1)
	col := min(was.Column, g.Columns()-1)
	info, _ := g.At(row, col)
	if info == nil {
		return w.SetSelection(model.Selection{})
	}
	return w.SetSelection(model.NewCollapsedSelection(table.CellStart(info.Cell)))
}

// inTable reports whether the selection focus has a table ancestor.
func inTable(doc *model.Document) bool {
	_, err := resolve(doc)
	return err == nil
}

func pickOrder(override, def Order, allowed ...Order) (Order, error) {
	o := def
	if override != "" {
		o = override
	}
	for _, a := range allowed {
		if o == a {
			return o, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidOrder, o)
}
