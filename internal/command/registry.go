package command

import (
	"context"
	"sort"
	"sync"

	"github.com/dshills/tablekit/internal/event"
	"github.com/dshills/tablekit/internal/model"
)

// Action names registered by NewDefaultRegistry.
const (
	ActionInsertColumn        = "table.insertColumn"
	ActionInsertColumnBefore  = "table.insertColumnBefore"
	ActionInsertColumnAfter   = "table.insertColumnAfter"
	ActionInsertRow           = "table.insertRow"
	ActionInsertRowAbove      = "table.insertRowAbove"
	ActionInsertRowBelow      = "table.insertRowBelow"
	ActionRemoveRow           = "table.removeRow"
	ActionRemoveColumn        = "table.removeColumn"
	ActionToggleHeadingRow    = "table.toggleHeadingRow"
	ActionToggleHeadingColumn = "table.toggleHeadingColumn"
)

// TopicExecuted is published after every registry execution.
const TopicExecuted event.Topic = "command.executed"

// ExecutedEvent is the payload of TopicExecuted.
type ExecutedEvent struct {
	Name   string
	Result Result
}

// Registry maps action names to commands.
type Registry struct {
	mu        sync.RWMutex
	commands  map[string]Command
	publisher event.Publisher
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]Command),
	}
}

// NewDefaultRegistry creates a registry holding every table command.
func NewDefaultRegistry(cfg Config) *Registry {
	r := NewRegistry()
	r.Register(NewInsertColumn(ActionInsertColumn, cfg.ColumnOrder, cfg))
	r.Register(NewInsertColumn(ActionInsertColumnBefore, OrderBefore, cfg))
	r.Register(NewInsertColumn(ActionInsertColumnAfter, OrderAfter, cfg))
	r.Register(NewInsertRow(ActionInsertRow, cfg.RowOrder, cfg))
	r.Register(NewInsertRow(ActionInsertRowAbove, OrderAbove, cfg))
	r.Register(NewInsertRow(ActionInsertRowBelow, OrderBelow, cfg))
	r.Register(NewRemoveRow(ActionRemoveRow, cfg))
	r.Register(NewRemoveColumn(ActionRemoveColumn, cfg))
	r.Register(NewToggleHeadingRow(ActionToggleHeadingRow, cfg))
	r.Register(NewToggleHeadingColumn(ActionToggleHeadingColumn, cfg))
	return r
}

// SetPublisher sets where execution events go. Nil disables them.
func (r *Registry) SetPublisher(p event.Publisher) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.publisher = p
}

// Register adds cmd under its name, replacing any previous command.
func (r *Registry) Register(cmd Command) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands[cmd.Name()] = cmd
}

// Unregister removes the command registered under name.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.commands, name)
}

// Get returns the command registered under name.
func (r *Registry) Get(name string) (Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[name]
	return cmd, ok
}

// Has returns true if a command is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Names returns all registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsEnabled reports whether the named command can run on doc.
// Unknown commands are disabled.
func (r *Registry) IsEnabled(name string, doc *model.Document) bool {
	cmd, ok := r.Get(name)
	return ok && cmd.IsEnabled(doc)
}

// Execute runs the named command on doc.
func (r *Registry) Execute(name string, doc *model.Document, opts Options) Result {
	cmd, ok := r.Get(name)
	if !ok {
		return Errorf("%w: %s", ErrUnknownCommand, name)
	}
	res := cmd.Execute(doc, opts)

	r.mu.RLock()
	p := r.publisher
	r.mu.RUnlock()
	if p != nil {
		_ = p.Publish(context.Background(), TopicExecuted, ExecutedEvent{Name: name, Result: res})
	}
	return res
}
