package convert

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table"
)

// FigureClass is the class of the figure wrapping every downcast table.
const FigureClass = "table"

// Downcast renders a model table as
// <figure class="table"><table><thead>…</thead><tbody>…</tbody></table></figure>.
// Rows inside the heading row band go to thead. Cells anchored in either
// heading band become th, all others td.
func Downcast(tbl *model.Node, opts ...table.GridOption) (*html.Node, error) {
	g, err := table.NewGrid(tbl, opts...)
	if err != nil {
		return nil, err
	}

	figure := element(atom.Figure, html.Attribute{Key: "class", Val: FigureClass})
	tableEl := element(atom.Table)
	figure.AppendChild(tableEl)

	var head, body *html.Node
	for r := 0; r < g.Rows(); r++ {
		section := body
		if g.InHeadingRows(r) {
			if head == nil {
				head = element(atom.Thead)
				tableEl.AppendChild(head)
			}
			section = head
		} else if body == nil {
			body = element(atom.Tbody)
			tableEl.AppendChild(body)
			section = body
		}

		tr := element(atom.Tr)
		for _, info := range g.RowCells(r) {
			tr.AppendChild(downcastCell(g, info))
		}
		section.AppendChild(tr)
	}
	return figure, nil
}

func downcastCell(g *table.Grid, info *table.CellInfo) *html.Node {
	tag := atom.Td
	if g.IsHeading(info) {
		tag = atom.Th
	}
	cell := element(tag)
	if info.Colspan > 1 {
		cell.Attr = append(cell.Attr, html.Attribute{Key: "colspan", Val: strconv.Itoa(info.Colspan)})
	}
	if info.Rowspan > 1 {
		cell.Attr = append(cell.Attr, html.Attribute{Key: "rowspan", Val: strconv.Itoa(info.Rowspan)})
	}

	// A lone paragraph renders as bare cell text.
	children := info.Cell.Children()
	if len(children) == 1 && children[0].Is(model.ParagraphName) {
		appendText(cell, children[0])
		return cell
	}
	for _, c := range children {
		cell.AppendChild(downcastBlock(c))
	}
	return cell
}

// downcastBlock renders a paragraph or any other block as <p>.
func downcastBlock(n *model.Node) *html.Node {
	if n.IsText() {
		return &html.Node{Type: html.TextNode, Data: n.Data()}
	}
	p := element(atom.P)
	appendText(p, n)
	return p
}

func appendText(dst *html.Node, n *model.Node) {
	if text := n.TextContent(); text != "" {
		dst.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	}
}

func element(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{
		Type:     html.ElementNode,
		DataAtom: a,
		Data:     a.String(),
		Attr:     attrs,
	}
}
