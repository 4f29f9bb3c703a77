// Package editor wires the table engine into a single editing session.
//
// An Editor owns a document and everything that observes or drives it: the
// undo history, the event bus, the command registry and the HTML view sync.
// It is not safe for concurrent use.
package editor

import (
	"context"
	"fmt"
	"io"

	"golang.org/x/net/html"

	"github.com/dshills/tablekit/internal/command"
	"github.com/dshills/tablekit/internal/config"
	"github.com/dshills/tablekit/internal/convert"
	"github.com/dshills/tablekit/internal/event"
	"github.com/dshills/tablekit/internal/history"
	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table"
)

// Topics published by the editor.
const (
	TopicUndo event.Topic = "history.undo"
	TopicRedo event.Topic = "history.redo"
)

// HistoryEvent is the payload of TopicUndo and TopicRedo.
type HistoryEvent struct {
	// Description names the undone or redone change.
	Description string
	// Version is the document version afterwards.
	Version uint64
}

// Options configures the editor.
type Options struct {
	// Config holds the settings. Nil uses config.Default().
	Config *config.Config

	// Logger receives editor and command logs. Nil builds one from
	// logging.level writing to LogOutput.
	Logger *Logger

	// LogOutput is where the built logger writes. Defaults to os.Stderr.
	LogOutput io.Writer
}

// Editor is one table editing session.
type Editor struct {
	cfg      *config.Config
	log      *Logger
	doc      *model.Document
	history  *history.History
	bus      *event.Bus
	registry *command.Registry
	views    *convert.ViewSync
	gridOpts []table.GridOption
	closed   bool
}

// New creates an editor with an empty document.
func New(opts Options) (*Editor, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	log := opts.Logger
	if log == nil {
		lc := DefaultLoggerConfig()
		lc.Level = ParseLogLevel(cfg.Logging().Level)
		if opts.LogOutput != nil {
			lc.Output = opts.LogOutput
		}
		log = NewLogger(lc)
	}

	cc, err := commandConfig(cfg, log.WithComponent("command"))
	if err != nil {
		return nil, err
	}

	e := &Editor{
		cfg:      cfg,
		log:      log.WithComponent("editor"),
		doc:      model.NewDocument(),
		history:  history.New(cfg.History().MaxEntries),
		gridOpts: gridOptions(cfg.Table()),
	}
	e.bus = event.NewBus(event.WithPanicHandler(func(topic event.Topic, recovered any) {
		e.log.Error("handler for %s panicked: %v", topic, recovered)
	}))

	e.doc.SetRecorder(e.history)
	e.doc.SetPublisher(e.bus)

	e.registry = command.NewDefaultRegistry(cc)
	e.registry.SetPublisher(e.bus)

	e.views = convert.NewViewSync(e.doc, e.gridOpts...)
	if err := e.views.Attach(e.bus); err != nil {
		return nil, fmt.Errorf("attach views: %w", err)
	}

	e.log.Debug("editor ready with %d commands", len(e.registry.Names()))
	return e, nil
}

// Close detaches the view sync. Later calls fail with ErrClosed.
func (e *Editor) Close() error {
	if e.closed {
		return ErrClosed
	}
	e.closed = true
	return e.views.Detach()
}

// Config returns the editor settings.
func (e *Editor) Config() *config.Config { return e.cfg }

// Logger returns the editor logger.
func (e *Editor) Logger() *Logger { return e.log }

// Document returns the edited document.
func (e *Editor) Document() *model.Document { return e.doc }

// History returns the undo history.
func (e *Editor) History() *history.History { return e.history }

// Bus returns the event bus the document and commands publish on.
func (e *Editor) Bus() *event.Bus { return e.bus }

// Registry returns the command registry.
func (e *Editor) Registry() *command.Registry { return e.registry }

// Commands returns the registered command names in sorted order.
func (e *Editor) Commands() []string { return e.registry.Names() }

// Execute runs the named command on the current selection.
func (e *Editor) Execute(name string, opts command.Options) command.Result {
	if e.closed {
		return command.Error(ErrClosed)
	}
	res := e.registry.Execute(name, e.doc, opts)
	switch {
	case res.IsError():
		e.log.Warn("%s: %v", name, res.Error)
	case res.IsNoOp():
		e.log.Debug("%s: no-op: %s", name, res.Message)
	default:
		log := e.log
		if n, ok := res.GetInt("mutations"); ok {
			log = log.WithField("mutations", n)
		}
		log.Info("%s: done", name)
	}
	return res
}

// IsEnabled reports whether the named command can run on the selection.
func (e *Editor) IsEnabled(name string) bool {
	if e.closed {
		return false
	}
	return e.registry.IsEnabled(name, e.doc)
}

// Undo reverts the last change.
func (e *Editor) Undo() error {
	if e.closed {
		return ErrClosed
	}
	info, _ := e.history.PeekUndo()
	if err := e.history.Undo(e.doc); err != nil {
		return err
	}
	e.log.Debug("undo %q", info.Description)
	e.publish(TopicUndo, HistoryEvent{Description: info.Description, Version: e.doc.Version()})
	return nil
}

// Redo applies the last undone change again.
func (e *Editor) Redo() error {
	if e.closed {
		return ErrClosed
	}
	var desc string
	if infos := e.history.RedoInfo(); len(infos) > 0 {
		desc = infos[len(infos)-1].Description
	}
	if err := e.history.Redo(e.doc); err != nil {
		return err
	}
	e.log.Debug("redo %q", desc)
	e.publish(TopicRedo, HistoryEvent{Description: desc, Version: e.doc.Version()})
	return nil
}

func (e *Editor) publish(topic event.Topic, payload any) {
	if err := e.bus.Publish(context.Background(), topic, payload); err != nil {
		e.log.Debug("publish %s: %v", topic, err)
	}
}

// LoadHTML replaces the document content with the blocks read from r and
// clears the history. The selection is placed in the first cell of the
// first table, if any.
func (e *Editor) LoadHTML(r io.Reader) error {
	if e.closed {
		return ErrClosed
	}
	nodes, err := convert.ParseHTML(r)
	if err != nil {
		return err
	}

	root := e.doc.Root()
	err = e.doc.Change("load", func(w *model.Writer) error {
		for _, c := range root.Children() {
			if err := w.Remove(c); err != nil {
				return err
			}
		}
		for _, n := range nodes {
			if err := w.Append(n, root); err != nil {
				return err
			}
		}
		return w.SetSelection(e.initialSelection())
	})
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	e.history.Clear()
	e.log.Info("loaded %d blocks, %d tables", len(nodes), e.TableCount())
	return nil
}

func (e *Editor) initialSelection() model.Selection {
	for _, tbl := range table.Tables(e.doc.Root()) {
		g, err := e.grid(tbl)
		if err != nil {
			continue
		}
		if info, _ := g.At(0, 0); info != nil {
			return model.NewCollapsedSelection(table.CellStart(info.Cell))
		}
	}
	return model.Selection{}
}

// WriteHTML renders the document as an HTML fragment.
func (e *Editor) WriteHTML(w io.Writer) error {
	return convert.RenderHTML(w, e.doc, e.gridOpts...)
}

// TableCount returns the number of top-level tables.
func (e *Editor) TableCount() int {
	return len(table.Tables(e.doc.Root()))
}

// Table returns the top-level table at index.
func (e *Editor) Table(index int) (*model.Node, error) {
	tables := table.Tables(e.doc.Root())
	if index < 0 || index >= len(tables) {
		return nil, fmt.Errorf("%w: %d", ErrNoSuchTable, index)
	}
	return tables[index], nil
}

// TableSize returns the grid dimensions of the table at index.
func (e *Editor) TableSize(index int) (rows, columns int, err error) {
	tbl, err := e.Table(index)
	if err != nil {
		return 0, 0, err
	}
	g, err := e.grid(tbl)
	if err != nil {
		return 0, 0, err
	}
	return g.Rows(), g.Columns(), nil
}

// View returns the synced HTML view of the table at index.
func (e *Editor) View(index int) (*html.Node, bool) {
	tbl, err := e.Table(index)
	if err != nil {
		return nil, false
	}
	return e.views.View(tbl.ID())
}

// SelectCell places a collapsed selection at the start of the cell covering
// the given grid slot.
func (e *Editor) SelectCell(tableIndex, row, col int) error {
	tbl, err := e.Table(tableIndex)
	if err != nil {
		return err
	}
	g, err := e.grid(tbl)
	if err != nil {
		return err
	}
	info, _ := g.At(row, col)
	if info == nil {
		return fmt.Errorf("%w: (%d, %d) in table %d", ErrNoSuchCell, row, col, tableIndex)
	}
	e.doc.SetSelection(model.NewCollapsedSelection(table.CellStart(info.Cell)))
	return nil
}

func (e *Editor) grid(tbl *model.Node) (*table.Grid, error) {
	return table.NewGrid(tbl, e.gridOpts...)
}

