// Package tabletest builds model tables from compact literals and formats
// them back for comparison in tests.
//
// Cell contents may contain the selection marker "[]". SetData strips it and
// places a collapsed selection there; Format writes it back at the current
// selection, so a table before and after an edit can be compared as text:
//
//	doc := model.NewDocument()
//	tabletest.SetData(t, doc, tabletest.ModelTable([][]any{{"11[]", "12"}}, nil))
//	// ... run a command ...
//	got := tabletest.Format(doc)
//	want := tabletest.FormattedModelTable([][]any{{"11[]", "", "12"}}, nil)
package tabletest

import (
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/dshills/tablekit/internal/model"
)

// Marker is the selection marker understood by SetData and Format.
const Marker = "[]"

// Cell describes a cell with spans. Plain strings are cells with no spans.
type Cell struct {
	Contents string
	Colspan  int
	Rowspan  int
}

// ModelTable builds a detached table. Each row entry is a string or a Cell.
func ModelTable(rows [][]any, attrs map[string]any) *model.Node {
	rowNodes := make([]*model.Node, len(rows))
	for r, row := range rows {
		cells := make([]*model.Node, len(row))
		for i, def := range row {
			cells[i] = buildCell(def)
		}
		rowNodes[r] = model.NewElement(model.RowName, nil, cells...)
	}
	return model.NewElement(model.TableName, attrs, rowNodes...)
}

func buildCell(def any) *model.Node {
	var c Cell
	switch v := def.(type) {
	case string:
		c = Cell{Contents: v}
	case Cell:
		c = v
	default:
		panic(fmt.Sprintf("tabletest: unsupported cell definition %T", def))
	}
	attrs := map[string]any{}
	if c.Colspan > 1 {
		attrs[model.AttrColspan] = c.Colspan
	}
	if c.Rowspan > 1 {
		attrs[model.AttrRowspan] = c.Rowspan
	}
	return model.NewElement(model.CellName, attrs, Paragraph(c.Contents))
}

// Paragraph builds a detached paragraph holding text.
func Paragraph(text string) *model.Node {
	if text == "" {
		return model.NewElement(model.ParagraphName, nil)
	}
	return model.NewElement(model.ParagraphName, nil, model.NewText(text))
}

// SetData replaces the document content with nodes and places the selection
// at the first marker found in their text.
func SetData(tb testing.TB, doc *model.Document, nodes ...*model.Node) {
	tb.Helper()
	err := doc.Change("set data", func(w *model.Writer) error {
		for _, c := range doc.Root().Children() {
			if err := w.Remove(c); err != nil {
				return err
			}
		}
		for _, n := range nodes {
			if err := w.Append(n, doc.Root()); err != nil {
				return err
			}
		}
		text := findMarker(doc.Root())
		if text == nil {
			return w.SetSelection(model.Selection{})
		}
		parent := text.Parent()
		before := model.PositionBefore(text).Offset
		idx := strings.Index(text.Data(), Marker)
		offset := before + utf8.RuneCountInString(text.Data()[:idx])

		stripped := strings.Replace(text.Data(), Marker, "", 1)
		if stripped != "" {
			if err := w.Insert(model.NewText(stripped), parent, text.Index()); err != nil {
				return err
			}
		}
		if err := w.Remove(text); err != nil {
			return err
		}
		return w.SetSelection(model.NewCollapsedSelection(model.PositionAt(parent, offset)))
	})
	if err != nil {
		tb.Fatalf("tabletest.SetData: %v", err)
	}
}

func findMarker(n *model.Node) *model.Node {
	if n.IsText() {
		if strings.Contains(n.Data(), Marker) {
			return n
		}
		return nil
	}
	for _, c := range n.Children() {
		if found := findMarker(c); found != nil {
			return found
		}
	}
	return nil
}

// SelectCell places a collapsed selection at the end of the cell's first
// paragraph, or inside the cell when it has none.
func SelectCell(tb testing.TB, doc *model.Document, cell *model.Node) {
	tb.Helper()
	parent := cell
	if p := cell.Child(0); p != nil && !p.IsText() {
		parent = p
	}
	doc.SetSelection(model.NewCollapsedSelection(model.PositionAt(parent, parent.MaxOffset())))
}

// Format renders every table in the document, with the selection marker at
// the document selection.
func Format(doc *model.Document) string {
	var parts []string
	for _, c := range doc.Root().Children() {
		if c.Is(model.TableName) {
			parts = append(parts, FormatTable(c, doc.Selection().Focus))
		}
	}
	return strings.Join(parts, "\n\n")
}

// FormattedModelTable is Format applied to ModelTable(rows, attrs), keeping
// any marker in the contents as literal text.
func FormattedModelTable(rows [][]any, attrs map[string]any) string {
	return FormatTable(ModelTable(rows, attrs), model.Position{})
}

// FormatTable renders table one row per line. Attributes are listed in key
// order; a cell renders as (contents) followed by its spans.
func FormatTable(table *model.Node, focus model.Position) string {
	var sb strings.Builder
	sb.WriteString("table")
	writeAttrs(&sb, table)
	for _, row := range table.Children() {
		sb.WriteString("\n ")
		for _, cell := range row.Children() {
			sb.WriteString(" (")
			writeContent(&sb, cell, focus)
			sb.WriteString(")")
			writeAttrs(&sb, cell)
		}
	}
	return sb.String()
}

func writeAttrs(sb *strings.Builder, n *model.Node) {
	for _, k := range n.AttributeKeys() {
		v, _ := n.Attribute(k)
		fmt.Fprintf(sb, " %s=%v", k, v)
	}
}

// writeContent writes the text of n with the marker at focus.
func writeContent(sb *strings.Builder, n *model.Node, focus model.Position) {
	if n.IsText() {
		sb.WriteString(n.Data())
		return
	}
	at := n == focus.Parent
	emitted := false
	mark := func() {
		if !emitted {
			sb.WriteString(Marker)
			emitted = true
		}
	}

	offset := 0
	for _, c := range n.Children() {
		size := 1
		if c.IsText() {
			size = utf8.RuneCountInString(c.Data())
		}
		if at && focus.Offset == offset {
			mark()
		}
		if at && c.IsText() && focus.Offset > offset && focus.Offset < offset+size {
			runes := []rune(c.Data())
			k := focus.Offset - offset
			sb.WriteString(string(runes[:k]))
			mark()
			sb.WriteString(string(runes[k:]))
		} else {
			writeContent(sb, c, focus)
		}
		offset += size
	}
	if at && focus.Offset == offset {
		mark()
	}
}
