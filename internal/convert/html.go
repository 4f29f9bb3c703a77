package convert

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table"
)

// ErrNotTable is returned by Upcast for elements that hold no table.
var ErrNotTable = errors.New("convert: element is not a table")

// ParseHTML reads an HTML document and upcasts the top-level blocks of its
// body. Tables, optionally wrapped in a figure, become model tables. Every
// other block becomes a paragraph holding its text. Whitespace between blocks
// is dropped; other loose text becomes a paragraph.
func ParseHTML(r io.Reader) ([]*model.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	body := findElement(doc, "body")
	if body == nil {
		return nil, nil
	}

	var out []*model.Node
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if text := strings.TrimSpace(c.Data); text != "" {
				out = append(out, paragraph(text))
			}
		case html.ElementNode:
			if shouldSkipElement(c.Data) {
				continue
			}
			if isElement(c, "table") || (isElement(c, "figure") && findChild(c, "table") != nil) {
				tbl, err := Upcast(c)
				if err != nil {
					return nil, err
				}
				out = append(out, tbl)
				continue
			}
			out = append(out, paragraph(textContent(c)))
		}
	}
	return out, nil
}

// RenderHTML downcasts the top-level nodes of doc and writes them as an HTML
// fragment, one block per line.
func RenderHTML(w io.Writer, doc *model.Document, opts ...table.GridOption) error {
	for _, n := range doc.Root().Children() {
		var view *html.Node
		switch {
		case n.Is(model.TableName):
			v, err := Downcast(n, opts...)
			if err != nil {
				return fmt.Errorf("render table %s: %w", n.ID(), err)
			}
			view = v
		case n.IsText():
			view = &html.Node{Type: html.TextNode, Data: n.Data()}
		default:
			view = downcastBlock(n)
		}
		if err := html.Render(w, view); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func isElement(n *html.Node, tag string) bool {
	return n != nil && n.Type == html.ElementNode && n.Data == tag
}

// findChild returns the first direct child element named tag.
func findChild(n *html.Node, tag string) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if isElement(c, tag) {
			return c
		}
	}
	return nil
}

// findElement finds the first element with the given tag name.
func findElement(n *html.Node, tag string) *html.Node {
	if isElement(n, tag) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}

func attrValue(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func shouldSkipElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template":
		return true
	}
	return false
}

func isBlock(tag string) bool {
	switch atom.Lookup([]byte(tag)) {
	case atom.P, atom.Div, atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6,
		atom.Blockquote, atom.Pre, atom.Li, atom.Ul, atom.Ol:
		return true
	}
	return false
}

// textContent returns the trimmed text of n's subtree.
func textContent(n *html.Node) string {
	return strings.TrimSpace(rawText(n))
}

func rawText(n *html.Node) string {
	var sb strings.Builder
	collectText(n, &sb)
	return sb.String()
}

func collectText(n *html.Node, sb *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if shouldSkipElement(n.Data) {
			return
		}
		if n.DataAtom == atom.Br {
			sb.WriteString("\n")
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}
