package convert

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"golang.org/x/net/html"

	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table"
	"github.com/dshills/tablekit/internal/table/tabletest"
)

type span = tabletest.Cell

func render(t *testing.T, n *html.Node) string {
	t.Helper()
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		t.Fatal(err)
	}
	return buf.String()
}

func TestDowncast(t *testing.T) {
	tests := []struct {
		name  string
		rows  [][]any
		attrs map[string]any
		want  string
	}{
		{
			name: "plain",
			rows: [][]any{{"a", "b"}, {"c", ""}},
			want: `<figure class="table"><table><tbody><tr><td>a</td><td>b</td></tr><tr><td>c</td><td></td></tr></tbody></table></figure>`,
		},
		{
			name:  "heading rows",
			rows:  [][]any{{"a", "b"}, {"c", "d"}},
			attrs: map[string]any{model.AttrHeadingRows: 1},
			want:  `<figure class="table"><table><thead><tr><th>a</th><th>b</th></tr></thead><tbody><tr><td>c</td><td>d</td></tr></tbody></table></figure>`,
		},
		{
			name:  "heading columns",
			rows:  [][]any{{"a", "b"}, {"c", "d"}},
			attrs: map[string]any{model.AttrHeadingColumns: 1},
			want:  `<figure class="table"><table><tbody><tr><th>a</th><td>b</td></tr><tr><th>c</th><td>d</td></tr></tbody></table></figure>`,
		},
		{
			name:  "all rows heading",
			rows:  [][]any{{"a"}},
			attrs: map[string]any{model.AttrHeadingRows: 5},
			want:  `<figure class="table"><table><thead><tr><th>a</th></tr></thead></table></figure>`,
		},
		{
			name: "spans",
			rows: [][]any{{span{Contents: "a", Colspan: 2}, span{Contents: "b", Rowspan: 2}}, {"c", "d"}},
			want: `<figure class="table"><table><tbody><tr><td colspan="2">a</td><td rowspan="2">b</td></tr><tr><td>c</td><td>d</td></tr></tbody></table></figure>`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := Downcast(tabletest.ModelTable(tt.rows, tt.attrs))
			if err != nil {
				t.Fatal(err)
			}
			if got := render(t, view); got != tt.want {
				t.Errorf("got  %s\nwant %s", got, tt.want)
			}
		})
	}
}

func TestDowncastMultipleParagraphs(t *testing.T) {
	cell := model.NewElement(model.CellName, nil, tabletest.Paragraph("x"), tabletest.Paragraph("y"))
	tbl := model.NewElement(model.TableName, nil, model.NewElement(model.RowName, nil, cell))
	view, err := Downcast(tbl)
	if err != nil {
		t.Fatal(err)
	}
	want := `<figure class="table"><table><tbody><tr><td><p>x</p><p>y</p></td></tr></tbody></table></figure>`
	if got := render(t, view); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}

func TestDowncastInvalidTable(t *testing.T) {
	_, err := Downcast(tabletest.ModelTable([][]any{{"a", "b"}, {"c"}}, nil))
	if !errors.Is(err, table.ErrInvalidTable) {
		t.Errorf("err = %v, want ErrInvalidTable", err)
	}
	if _, err := Downcast(tabletest.ModelTable([][]any{{"a", "b"}, {"c"}}, nil), table.WithRaggedRows()); err != nil {
		t.Errorf("ragged downcast: %v", err)
	}
}

func TestUpcast(t *testing.T) {
	tests := []struct {
		name  string
		input string
		rows  [][]any
		attrs map[string]any
	}{
		{
			name:  "bare rows",
			input: `<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td></td></tr></table>`,
			rows:  [][]any{{"a", "b"}, {"c", ""}},
		},
		{
			name:  "thead sets heading rows",
			input: `<figure class="table"><table><thead><tr><th>a</th><th>b</th></tr></thead><tbody><tr><td>c</td><td>d</td></tr></tbody></table></figure>`,
			rows:  [][]any{{"a", "b"}, {"c", "d"}},
			attrs: map[string]any{model.AttrHeadingRows: 1},
		},
		{
			name:  "leading th columns",
			input: `<table><thead><tr><th>h</th><th>h</th><th>h</th></tr></thead><tbody><tr><th>a</th><th>b</th><td>c</td></tr><tr><th>d</th><td>e</td><td>f</td></tr></tbody></table>`,
			rows:  [][]any{{"h", "h", "h"}, {"a", "b", "c"}, {"d", "e", "f"}},
			attrs: map[string]any{model.AttrHeadingRows: 1, model.AttrHeadingColumns: 1},
		},
		{
			name:  "spanning th column",
			input: `<table><tr><th rowspan="2">a</th><td>b</td></tr><tr><td>c</td></tr></table>`,
			rows:  [][]any{{span{Contents: "a", Rowspan: 2}, "b"}, {"c"}},
			attrs: map[string]any{model.AttrHeadingColumns: 1},
		},
		{
			name:  "lenient spans",
			input: `<table><tr><td colspan="x">a</td><td rowspan="-2">b</td><td colspan=" 2 ">c</td></tr></table>`,
			rows:  [][]any{{"a", "b", span{Contents: "c", Colspan: 2}}},
		},
		{
			name:  "oversized colspan",
			input: `<table><tr><td colspan="2000000000">a</td></tr></table>`,
			rows:  [][]any{{span{Contents: "a", Colspan: MaxColspan}}},
		},
		{
			name:  "rowspan clipped to the remaining rows",
			input: `<table><tr><td rowspan="9999">a</td><td>b</td></tr><tr><td>c</td></tr></table>`,
			rows:  [][]any{{span{Contents: "a", Rowspan: 2}, "b"}, {"c"}},
		},
		{
			name:  "rowspan on the last row",
			input: `<table><tr><td>a</td></tr><tr><td rowspan="5">b</td></tr></table>`,
			rows:  [][]any{{"a"}, {"b"}},
		},
		{
			name:  "tfoot rows are body rows",
			input: `<table><tbody><tr><td>a</td></tr></tbody><tfoot><tr><td>b</td></tr></tfoot></table>`,
			rows:  [][]any{{"a"}, {"b"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, err := ParseHTML(strings.NewReader(tt.input))
			if err != nil {
				t.Fatal(err)
			}
			if len(nodes) != 1 || !nodes[0].Is(model.TableName) {
				t.Fatalf("nodes = %v", nodes)
			}
			got := tabletest.FormatTable(nodes[0], model.Position{})
			if want := tabletest.FormattedModelTable(tt.rows, tt.attrs); got != want {
				t.Errorf("got:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestUpcastCellBlocks(t *testing.T) {
	nodes, err := ParseHTML(strings.NewReader(`<table><tr><td><p>x</p>loose <b>bold</b><p>y</p></td></tr></table>`))
	if err != nil {
		t.Fatal(err)
	}
	cell := nodes[0].Child(0).Child(0)
	var texts []string
	for _, p := range cell.Children() {
		texts = append(texts, p.TextContent())
	}
	if got := strings.Join(texts, "|"); got != "x|loose bold|y" {
		t.Errorf("paragraphs = %q", got)
	}
}

func TestUpcastNotTable(t *testing.T) {
	p := &html.Node{Type: html.ElementNode, Data: "p"}
	if _, err := Upcast(p); !errors.Is(err, ErrNotTable) {
		t.Errorf("err = %v, want ErrNotTable", err)
	}
	fig := &html.Node{Type: html.ElementNode, Data: "figure"}
	if _, err := Upcast(fig); !errors.Is(err, ErrNotTable) {
		t.Errorf("empty figure err = %v, want ErrNotTable", err)
	}
}

func TestParseAndRenderDocument(t *testing.T) {
	input := `<html><body>
<p>intro</p>
<figure class="table"><table><thead><tr><th>a</th></tr></thead><tbody><tr><td>b</td></tr></tbody></table></figure>
<h2>after</h2>
<script>ignored()</script>
</body></html>`
	nodes, err := ParseHTML(strings.NewReader(input))
	if err != nil {
		t.Fatal(err)
	}
	if len(nodes) != 3 {
		t.Fatalf("got %d nodes, want 3", len(nodes))
	}

	doc := model.NewDocument()
	tabletest.SetData(t, doc, nodes...)

	var buf bytes.Buffer
	if err := RenderHTML(&buf, doc); err != nil {
		t.Fatal(err)
	}
	want := `<p>intro</p>
<figure class="table"><table><thead><tr><th>a</th></tr></thead><tbody><tr><td>b</td></tr></tbody></table></figure>
<p>after</p>
`
	if got := buf.String(); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRoundTrip(t *testing.T) {
	src := tabletest.ModelTable([][]any{
		{span{Contents: "h", Colspan: 2}, "x"},
		{span{Contents: "a", Rowspan: 2}, "b", "c"},
		{"d", "e"},
	}, map[string]any{model.AttrHeadingRows: 1, model.AttrHeadingColumns: 1})

	view, err := Downcast(src)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Upcast(view)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := tabletest.FormatTable(back, model.Position{}), tabletest.FormatTable(src, model.Position{}); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}
