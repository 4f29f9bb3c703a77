package model

import (
	"context"
	"fmt"
	"time"

	"github.com/dshills/tablekit/internal/event"
)

// Topics published by a document.
const (
	TopicChange    event.Topic = "model.change"
	TopicSelection event.Topic = "model.selection"
)

// ChangeKind tells observers why the tree changed.
type ChangeKind uint8

const (
	// ChangeEdit is a regular change made through Document.Change.
	ChangeEdit ChangeKind = iota
	// ChangeUndo is a batch being reverted.
	ChangeUndo
	// ChangeRedo is a batch being applied again.
	ChangeRedo
)

// String returns the change kind name.
func (k ChangeKind) String() string {
	switch k {
	case ChangeEdit:
		return "edit"
	case ChangeUndo:
		return "undo"
	case ChangeRedo:
		return "redo"
	default:
		return "unknown"
	}
}

// ChangeEvent is the payload published under TopicChange.
type ChangeEvent struct {
	Kind     ChangeKind
	Batch    *Batch
	Version  uint64
	Affected []*Node
}

// Recorder receives committed batches, typically an undo history.
type Recorder interface {
	Record(b *Batch)
}

// Document owns the tree root and the selection.
// It is not safe for concurrent use; a single writer is assumed.
type Document struct {
	root      *Node
	selection Selection
	writer    *Writer
	recorder  Recorder
	publisher event.Publisher
	version   uint64
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{
		root: NewElement(RootName, nil),
	}
}

// Root returns the root element.
func (d *Document) Root() *Node { return d.root }

// Selection returns the current selection.
func (d *Document) Selection() Selection { return d.selection }

// Version returns a counter incremented by every committed change, undo and redo.
func (d *Document) Version() uint64 { return d.version }

// SetRecorder attaches the batch recorder. Nil detaches it.
func (d *Document) SetRecorder(r Recorder) { d.recorder = r }

// SetPublisher attaches the event publisher. Nil detaches it.
func (d *Document) SetPublisher(p event.Publisher) { d.publisher = p }

// IsChanging reports whether a change function is running.
func (d *Document) IsChanging() bool { return d.writer != nil }

// SetSelection replaces the selection without recording it in a batch.
func (d *Document) SetSelection(sel Selection) {
	d.selection = sel
	d.publish(TopicSelection, sel)
}

// Change runs fn with a writer. All operations fn applies form one batch.
// If fn returns an error or panics, every applied operation is reverted and
// the tree is left as it was. Nested calls join the outer batch; a failing
// nested call only reverts its own operations.
func (d *Document) Change(description string, fn func(w *Writer) error) error {
	if d.writer != nil {
		mark := len(d.writer.batch.ops)
		if err := runChange(fn, d.writer); err != nil {
			nested := d.writer.batch.ops[mark:]
			if rerr := revertOps(nested); rerr != nil {
				return fmt.Errorf("%w (rollback: %v)", err, rerr)
			}
			d.writer.batch.ops = d.writer.batch.ops[:mark]
			return err
		}
		return nil
	}

	batch := &Batch{
		Description:     description,
		Timestamp:       time.Now(),
		selectionBefore: d.selection,
	}
	w := &Writer{doc: d, batch: batch}
	d.writer = w
	err := runChange(fn, w)
	d.writer = nil
	w.doc = nil

	if err != nil {
		if rerr := batch.revert(); rerr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rerr)
		}
		return err
	}

	batch.selectionAfter = d.selection
	if batch.IsEmpty() {
		return nil
	}

	d.version++
	if d.recorder != nil {
		d.recorder.Record(batch)
	}
	d.publishChange(ChangeEdit, batch)
	return nil
}

// Undo reverts a committed batch atomically and restores the selection the
// batch started with.
func (d *Document) Undo(b *Batch) error {
	if d.writer != nil {
		return ErrChangeInProgress
	}
	if err := b.revert(); err != nil {
		return err
	}
	d.selection = b.selectionBefore
	d.version++
	d.publishChange(ChangeUndo, b)
	return nil
}

// Redo applies a previously undone batch again.
func (d *Document) Redo(b *Batch) error {
	if d.writer != nil {
		return ErrChangeInProgress
	}
	if err := b.reapply(); err != nil {
		return err
	}
	d.selection = b.selectionAfter
	d.version++
	d.publishChange(ChangeRedo, b)
	return nil
}

func (d *Document) publishChange(kind ChangeKind, b *Batch) {
	d.publish(TopicChange, ChangeEvent{
		Kind:     kind,
		Batch:    b,
		Version:  d.version,
		Affected: b.Affected(),
	})
}

func (d *Document) publish(t event.Topic, payload any) {
	if d.publisher == nil {
		return
	}
	// Observers cannot veto a committed change; their errors are theirs.
	_ = d.publisher.Publish(context.Background(), t, payload)
}

func runChange(fn func(w *Writer) error, w *Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("change panicked: %v", r)
		}
	}()
	return fn(w)
}
