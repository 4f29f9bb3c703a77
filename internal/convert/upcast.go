package convert

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table"
)

// Upcast converts a <table>, or a <figure> wrapping one, into a model table.
//
// Rows are read from thead, tbody and tfoot in document order, along with
// tr elements placed directly in the table. headingRows is the number of
// thead rows. headingColumns is the number of leading columns in which every
// body row holds a th. Span attributes that are not positive integers are
// read as 1. colspan is clamped to MaxColspan and rowspan to MaxRowspan or
// the rows left in the table, whichever is smaller.
//
// The geometry of the result is not validated; a malformed table upcasts
// fine and fails later, when a grid is built for it.
func Upcast(n *html.Node) (*model.Node, error) {
	tableEl := n
	if isElement(n, "figure") {
		tableEl = findChild(n, "table")
	}
	if tableEl == nil || !isElement(tableEl, "table") {
		return nil, fmt.Errorf("upcast <%s>: %w", n.Data, ErrNotTable)
	}

	type rowRef struct {
		tr   *html.Node
		head bool
	}
	var trs []rowRef
	for c := tableEl.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		switch c.Data {
		case "thead", "tbody", "tfoot":
			for tr := c.FirstChild; tr != nil; tr = tr.NextSibling {
				if isElement(tr, "tr") {
					trs = append(trs, rowRef{tr, c.Data == "thead"})
				}
			}
		case "tr":
			trs = append(trs, rowRef{c, false})
		}
	}

	var (
		rows     = make([]*model.Node, 0, len(trs))
		heading  int
		thCells  = make(map[cellRef]bool)
		inHeader = true
	)
	for r, ref := range trs {
		rows = append(rows, upcastRow(ref.tr, r, len(trs)-r, thCells))
		if ref.head && inHeader {
			heading++
		}
		if !ref.head {
			inHeader = false
		}
	}

	attrs := map[string]any{}
	if heading > 0 {
		attrs[model.AttrHeadingRows] = heading
	}
	if hc := headingColumns(rows, heading, thCells); hc > 0 {
		attrs[model.AttrHeadingColumns] = hc
	}
	return model.NewElement(model.TableName, attrs, rows...), nil
}

// cellRef addresses a cell by row and position within the row.
type cellRef struct{ row, index int }

// upcastRow converts one tr. remaining is the number of rows from r to the
// end of the table, including r; rowspans are clipped to it.
func upcastRow(tr *html.Node, r, remaining int, thCells map[cellRef]bool) *model.Node {
	var cells []*model.Node
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if !isElement(c, "td") && !isElement(c, "th") {
			continue
		}
		attrs := map[string]any{}
		if v := parseSpan(attrValue(c, "colspan"), MaxColspan); v > 1 {
			attrs[model.AttrColspan] = v
		}
		if v := parseSpan(attrValue(c, "rowspan"), min(MaxRowspan, remaining)); v > 1 {
			attrs[model.AttrRowspan] = v
		}
		if c.Data == "th" {
			thCells[cellRef{r, len(cells)}] = true
		}
		cells = append(cells, model.NewElement(model.CellName, attrs, upcastCellContent(c)...))
	}
	return model.NewElement(model.RowName, nil, cells...)
}

// upcastCellContent turns each block child into a paragraph. Inline content
// outside of blocks is gathered into a paragraph of its own. The result
// always holds at least one paragraph.
func upcastCellContent(cell *html.Node) []*model.Node {
	var (
		out    []*model.Node
		inline strings.Builder
	)
	flush := func() {
		if text := strings.TrimSpace(inline.String()); text != "" {
			out = append(out, paragraph(text))
		}
		inline.Reset()
	}
	for c := cell.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && isBlock(c.Data) {
			flush()
			out = append(out, paragraph(textContent(c)))
			continue
		}
		inline.WriteString(rawText(c))
	}
	flush()
	if len(out) == 0 {
		out = append(out, paragraph(""))
	}
	return out
}

// headingColumns counts the leading columns covered by th cells in every
// body row. Rows that do not form a grid report zero. The grid is laid out
// over copies, since the rows still have to go to the final table.
func headingColumns(rows []*model.Node, headingRows int, thCells map[cellRef]bool) int {
	probe := make([]*model.Node, len(rows))
	for i, r := range rows {
		probe[i] = r.Clone()
	}
	g, err := table.NewGrid(model.NewElement(model.TableName, nil, probe...), table.WithRaggedRows())
	if err != nil || g.Rows() <= headingRows {
		return 0
	}
	n := 0
	for c := 0; c < g.Columns(); c++ {
		for r := headingRows; r < g.Rows(); r++ {
			info, _ := g.At(r, c)
			if info == nil || !thCells[cellRef{info.Row, info.Index}] {
				return n
			}
		}
		n++
	}
	return n
}

// Span limits applied on upcast, as in the HTML table parsing rules.
const (
	MaxColspan = 1000
	MaxRowspan = 65534
)

// parseSpan reads a span attribute leniently and clamps it to limit.
func parseSpan(s string, limit int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v < 1 {
		return 1
	}
	return max(1, min(v, limit))
}

func paragraph(text string) *model.Node {
	if text == "" {
		return model.NewElement(model.ParagraphName, nil)
	}
	return model.NewElement(model.ParagraphName, nil, model.NewText(text))
}
