package convert

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/net/html"

	"github.com/dshills/tablekit/internal/event"
	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table"
)

// ViewSync keeps a downcast view of every top-level table of a document.
// Once attached to a bus it re-renders the tables touched by each change.
type ViewSync struct {
	mu    sync.RWMutex
	doc   *model.Document
	opts  []table.GridOption
	views map[string]*html.Node

	bus *event.Bus
	sub *event.Subscription
}

// NewViewSync creates a synchronizer for doc. Call Refresh or Attach to
// build the first views.
func NewViewSync(doc *model.Document, opts ...table.GridOption) *ViewSync {
	return &ViewSync{
		doc:   doc,
		opts:  opts,
		views: make(map[string]*html.Node),
	}
}

// Attach subscribes to model changes on bus and renders all tables.
func (s *ViewSync) Attach(bus *event.Bus) error {
	s.mu.Lock()
	if s.sub != nil {
		s.mu.Unlock()
		return errors.New("convert: view sync already attached")
	}
	sub, err := bus.Subscribe(model.TopicChange, s, event.PriorityCritical)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.bus, s.sub = bus, sub
	s.mu.Unlock()
	return s.Refresh()
}

// Detach stops listening for changes. Views are kept.
func (s *ViewSync) Detach() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sub == nil {
		return nil
	}
	err := s.bus.Unsubscribe(s.sub)
	s.bus, s.sub = nil, nil
	return err
}

// Refresh re-renders every table. Tables that fail to downcast lose their
// view; the first failure is returned.
func (s *ViewSync) Refresh() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.views = make(map[string]*html.Node)
	var first error
	for _, tbl := range table.Tables(s.doc.Root()) {
		if err := s.render(tbl); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Handle implements event.Handler for model.change events.
func (s *ViewSync) Handle(_ context.Context, _ event.Topic, payload any) error {
	ev, ok := payload.(model.ChangeEvent)
	if !ok {
		return fmt.Errorf("convert: unexpected payload %T", payload)
	}

	dirty := make(map[*model.Node]bool)
	for _, n := range ev.Affected {
		tbl := n.FindAncestor(model.TableName)
		if tbl == nil {
			// A change above table level may add or drop whole tables.
			return s.Refresh()
		}
		dirty[tbl] = true
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var first error
	for tbl := range dirty {
		if !s.doc.Root().Contains(tbl) {
			delete(s.views, tbl.ID())
			continue
		}
		if err := s.render(tbl); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// View returns the current view of the table with the given ID.
func (s *ViewSync) View(tableID string) (*html.Node, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.views[tableID]
	return v, ok
}

// Len returns the number of tables with a view.
func (s *ViewSync) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.views)
}

// render must be called with s.mu held.
func (s *ViewSync) render(tbl *model.Node) error {
	view, err := Downcast(tbl, s.opts...)
	if err != nil {
		delete(s.views, tbl.ID())
		return fmt.Errorf("view of table %s: %w", tbl.ID(), err)
	}
	s.views[tbl.ID()] = view
	return nil
}
