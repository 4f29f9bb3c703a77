package event

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
)

// Priority determines handler execution order. Lower values run first.
type Priority int

const (
	// PriorityCritical is for the view synchronizer and other handlers that
	// must observe a change before anyone else.
	PriorityCritical Priority = 0

	// PriorityHigh is for command-layer bookkeeping.
	PriorityHigh Priority = 100

	// PriorityNormal is the default priority for scripts and integrations.
	PriorityNormal Priority = 200

	// PriorityLow is for logging handlers that run last.
	PriorityLow Priority = 300
)

// String returns a human-readable priority name.
func (p Priority) String() string {
	switch {
	case p <= PriorityCritical:
		return "critical"
	case p <= PriorityHigh:
		return "high"
	case p <= PriorityNormal:
		return "normal"
	default:
		return "low"
	}
}

// Handler processes a published event.
type Handler interface {
	Handle(ctx context.Context, topic Topic, payload any) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, topic Topic, payload any) error

// Handle implements Handler.
func (f HandlerFunc) Handle(ctx context.Context, topic Topic, payload any) error {
	return f(ctx, topic, payload)
}

// Publisher is the publishing side of a bus.
type Publisher interface {
	Publish(ctx context.Context, topic Topic, payload any) error
}

// Subscription identifies a registered handler.
type Subscription struct {
	id       uint64
	pattern  Topic
	priority Priority
	handler  Handler
}

// Pattern returns the topic pattern the subscription listens on.
func (s *Subscription) Pattern() Topic { return s.pattern }

// Priority returns the subscription priority.
func (s *Subscription) Priority() Priority { return s.priority }

// Stats contains delivery counters.
type Stats struct {
	Published uint64
	Delivered uint64
	Errors    uint64
	Panics    uint64
}

// PanicHandler is called with the recovered value when a handler panics.
type PanicHandler func(topic Topic, recovered any)

// Option configures a Bus.
type Option func(*Bus)

// WithPanicHandler sets the callback for recovered handler panics.
func WithPanicHandler(h PanicHandler) Option {
	return func(b *Bus) {
		b.onPanic = h
	}
}

// Bus delivers events synchronously to matching subscriptions.
type Bus struct {
	mu      sync.RWMutex
	subs    []*Subscription
	nextID  uint64
	onPanic PanicHandler

	published atomic.Uint64
	delivered atomic.Uint64
	errors    atomic.Uint64
	panics    atomic.Uint64
}

// NewBus creates an event bus.
func NewBus(opts ...Option) *Bus {
	b := &Bus{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers handler for topics matching pattern.
func (b *Bus) Subscribe(pattern Topic, handler Handler, priority Priority) (*Subscription, error) {
	if err := pattern.Validate(); err != nil {
		return nil, err
	}
	if handler == nil {
		return nil, ErrNilHandler
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	sub := &Subscription{
		id:       b.nextID,
		pattern:  pattern,
		priority: priority,
		handler:  handler,
	}
	b.subs = append(b.subs, sub)
	sort.SliceStable(b.subs, func(i, j int) bool {
		if b.subs[i].priority != b.subs[j].priority {
			return b.subs[i].priority < b.subs[j].priority
		}
		return b.subs[i].id < b.subs[j].id
	})
	return sub, nil
}

// SubscribeFunc registers a function handler.
func (b *Bus) SubscribeFunc(pattern Topic, fn HandlerFunc, priority Priority) (*Subscription, error) {
	if fn == nil {
		return nil, ErrNilHandler
	}
	return b.Subscribe(pattern, fn, priority)
}

// Unsubscribe removes a subscription.
func (b *Bus) Unsubscribe(sub *Subscription) error {
	if sub == nil {
		return ErrSubscriptionNotFound
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for i, s := range b.subs {
		if s.id == sub.id {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			return nil
		}
	}
	return ErrSubscriptionNotFound
}

// Publish delivers payload to every subscription matching topic.
// Handler errors do not stop delivery; the first one is returned.
func (b *Bus) Publish(ctx context.Context, topic Topic, payload any) error {
	if err := topic.Validate(); err != nil {
		return err
	}
	if topic.IsPattern() {
		return fmt.Errorf("publish %q: %w", topic, ErrInvalidTopic)
	}
	b.published.Add(1)

	b.mu.RLock()
	targets := make([]*Subscription, 0, len(b.subs))
	for _, s := range b.subs {
		if topic.Matches(s.pattern) {
			targets = append(targets, s)
		}
	}
	b.mu.RUnlock()

	var first error
	for _, s := range targets {
		if err := b.deliver(ctx, s, topic, payload); err != nil {
			b.errors.Add(1)
			if first == nil {
				first = err
			}
			continue
		}
		b.delivered.Add(1)
	}
	return first
}

func (b *Bus) deliver(ctx context.Context, s *Subscription, topic Topic, payload any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.panics.Add(1)
			if b.onPanic != nil {
				b.onPanic(topic, r)
			}
			err = fmt.Errorf("%s: %w: %v", topic, ErrHandlerPanic, r)
		}
	}()
	return s.handler.Handle(ctx, topic, payload)
}

// SubscriptionCount returns the number of registered subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Stats returns a snapshot of the delivery counters.
func (b *Bus) Stats() Stats {
	return Stats{
		Published: b.published.Load(),
		Delivered: b.delivered.Load(),
		Errors:    b.errors.Load(),
		Panics:    b.panics.Load(),
	}
}
