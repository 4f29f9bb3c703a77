package command

import (
	"errors"
	"fmt"
	"testing"

	"github.com/dshills/tablekit/internal/model"
	"github.com/dshills/tablekit/internal/table"
	"github.com/dshills/tablekit/internal/table/tabletest"
)

type span = tabletest.Cell

type recordingLogger struct {
	debug []string
	errs  []string
}

func (l *recordingLogger) Debug(msg string, args ...any) {
	l.debug = append(l.debug, fmt.Sprintf(msg, args...))
}

func (l *recordingLogger) Error(msg string, args ...any) {
	l.errs = append(l.errs, fmt.Sprintf(msg, args...))
}

func newDoc(t *testing.T, nodes ...*model.Node) *model.Document {
	t.Helper()
	doc := model.NewDocument()
	tabletest.SetData(t, doc, nodes...)
	return doc
}

func allCommands(cfg Config) []Command {
	return []Command{
		NewInsertColumn(ActionInsertColumnAfter, OrderAfter, cfg),
		NewInsertColumn(ActionInsertColumnBefore, OrderBefore, cfg),
		NewInsertRow(ActionInsertRowAbove, OrderAbove, cfg),
		NewInsertRow(ActionInsertRowBelow, OrderBelow, cfg),
		NewRemoveRow(ActionRemoveRow, cfg),
		NewRemoveColumn(ActionRemoveColumn, cfg),
		NewToggleHeadingRow(ActionToggleHeadingRow, cfg),
		NewToggleHeadingColumn(ActionToggleHeadingColumn, cfg),
	}
}

func TestIsEnabled(t *testing.T) {
	for _, cmd := range allCommands(DefaultConfig()) {
		t.Run(cmd.Name(), func(t *testing.T) {
			doc := newDoc(t, tabletest.Paragraph("foo[]"))
			if cmd.IsEnabled(doc) {
				t.Error("should be false if wrong node")
			}

			doc = newDoc(t, tabletest.ModelTable([][]any{{"[]", "b"}, {"c", "d"}}, nil))
			if !cmd.IsEnabled(doc) {
				t.Error("should be true if in table")
			}
		})
	}
}

func TestIsEnabledWithoutSelection(t *testing.T) {
	doc := newDoc(t, tabletest.ModelTable([][]any{{"a"}}, nil))
	cmd := NewInsertColumn(ActionInsertColumnAfter, OrderAfter, DefaultConfig())
	if cmd.IsEnabled(doc) {
		t.Error("no selection should disable the command")
	}
}

func TestRemoveDisabledOnSingleRowOrColumn(t *testing.T) {
	cfg := DefaultConfig()
	doc := newDoc(t, tabletest.ModelTable([][]any{{"a[]"}}, nil))
	if NewRemoveRow(ActionRemoveRow, cfg).IsEnabled(doc) {
		t.Error("remove row should be disabled on a single row")
	}
	if NewRemoveColumn(ActionRemoveColumn, cfg).IsEnabled(doc) {
		t.Error("remove column should be disabled on a single column")
	}
	if res := NewRemoveRow(ActionRemoveRow, cfg).Execute(doc, Options{}); !res.IsNoOp() {
		t.Errorf("status = %s, want no-op", res.Status)
	}
}

func TestExecuteDisabledIsNoOp(t *testing.T) {
	for _, cmd := range allCommands(DefaultConfig()) {
		t.Run(cmd.Name(), func(t *testing.T) {
			doc := newDoc(t, tabletest.Paragraph("foo[]"))
			version := doc.Version()
			res := cmd.Execute(doc, Options{})
			if !res.IsNoOp() {
				t.Errorf("status = %s, want no-op", res.Status)
			}
			if doc.Version() != version {
				t.Error("document changed")
			}
		})
	}
}

func TestInsertColumnCommand(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		opts  Options
		rows  [][]any
		want  [][]any
	}{
		{
			name:  "after",
			order: OrderAfter,
			rows:  [][]any{{"11[]", "12"}, {"21", "22"}},
			want:  [][]any{{"11[]", "", "12"}, {"21", "", "22"}},
		},
		{
			name:  "before",
			order: OrderBefore,
			rows:  [][]any{{"11", "12"}, {"[]21", "22"}},
			want:  [][]any{{"", "11", "12"}, {"", "[]21", "22"}},
		},
		{
			name:  "default order is after",
			order: "",
			rows:  [][]any{{"11", "12[]"}},
			want:  [][]any{{"11", "12[]", ""}},
		},
		{
			name:  "option overrides order",
			order: OrderAfter,
			opts:  Options{Order: OrderBefore},
			rows:  [][]any{{"11", "12[]"}},
			want:  [][]any{{"11", "", "12[]"}},
		},
		{
			name:  "after a spanning cell",
			order: OrderAfter,
			rows:  [][]any{{span{Contents: "a[]", Colspan: 2}, "b"}, {"c", "d", "e"}},
			want:  [][]any{{span{Contents: "a[]", Colspan: 2}, "", "b"}, {"c", "d", "", "e"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDoc(t, tabletest.ModelTable(tt.rows, nil))
			cmd := NewInsertColumn(ActionInsertColumn, tt.order, DefaultConfig())
			res := cmd.Execute(doc, tt.opts)
			if !res.IsOK() {
				t.Fatalf("status = %s, err = %v", res.Status, res.Error)
			}
			if got, want := tabletest.Format(doc), tabletest.FormattedModelTable(tt.want, nil); got != want {
				t.Errorf("got:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestInsertColumnInvalidOrder(t *testing.T) {
	doc := newDoc(t, tabletest.ModelTable([][]any{{"a[]"}}, nil))
	res := NewInsertColumn(ActionInsertColumn, OrderAfter, DefaultConfig()).Execute(doc, Options{Order: OrderAbove})
	if !res.IsError() || !errors.Is(res.Error, ErrInvalidOrder) {
		t.Errorf("res = %+v, want ErrInvalidOrder", res)
	}
}

func TestInvalidTableIsReported(t *testing.T) {
	log := &recordingLogger{}
	cfg := DefaultConfig()
	cfg.Logger = log
	doc := newDoc(t, tabletest.ModelTable([][]any{{"a[]", "b"}, {"c"}}, nil))
	before := tabletest.Format(doc)

	res := NewInsertColumn(ActionInsertColumnAfter, OrderAfter, cfg).Execute(doc, Options{})
	if !res.IsError() {
		t.Fatalf("status = %s, want error", res.Status)
	}
	if !errors.Is(res.Error, table.ErrInvalidTable) {
		t.Errorf("err = %v, want ErrInvalidTable", res.Error)
	}
	var opErr *OperationError
	if !errors.As(res.Error, &opErr) || opErr.Op != ActionInsertColumnAfter {
		t.Errorf("err = %v, want OperationError", res.Error)
	}
	if len(log.errs) != 1 {
		t.Errorf("logged %d errors, want 1", len(log.errs))
	}
	if got := tabletest.Format(doc); got != before {
		t.Errorf("tree changed:\n%s", got)
	}
}

func TestRaggedRowsConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Table.AllowRaggedRows = true
	doc := newDoc(t, tabletest.ModelTable([][]any{{"a[]", "b"}, {"c"}}, nil))
	res := NewInsertColumn(ActionInsertColumnAfter, OrderAfter, cfg).Execute(doc, Options{})
	if !res.IsOK() {
		t.Fatalf("status = %s, err = %v", res.Status, res.Error)
	}
	want := tabletest.FormattedModelTable([][]any{{"a[]", "", "b"}, {"c", ""}}, nil)
	if got := tabletest.Format(doc); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestInsertRowCommand(t *testing.T) {
	tests := []struct {
		name  string
		order Order
		rows  [][]any
		want  [][]any
	}{
		{
			name:  "below",
			order: OrderBelow,
			rows:  [][]any{{"11[]", "12"}, {"21", "22"}},
			want:  [][]any{{"11[]", "12"}, {"", ""}, {"21", "22"}},
		},
		{
			name:  "above",
			order: OrderAbove,
			rows:  [][]any{{"11", "12"}, {"21[]", "22"}},
			want:  [][]any{{"11", "12"}, {"", ""}, {"21[]", "22"}},
		},
		{
			name:  "below a spanning cell",
			order: OrderBelow,
			rows:  [][]any{{span{Contents: "a[]", Rowspan: 2}, "b"}, {"c"}},
			want:  [][]any{{span{Contents: "a[]", Rowspan: 2}, "b"}, {"c"}, {"", ""}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := newDoc(t, tabletest.ModelTable(tt.rows, nil))
			res := NewInsertRow(ActionInsertRow, tt.order, DefaultConfig()).Execute(doc, Options{})
			if !res.IsOK() {
				t.Fatalf("status = %s, err = %v", res.Status, res.Error)
			}
			n, ok := res.GetInt("mutations")
			if !ok || res.Message != fmt.Sprintf("applied %d mutations", n) {
				t.Errorf("message = %q, mutations = %d", res.Message, n)
			}
			if got, want := tabletest.Format(doc), tabletest.FormattedModelTable(tt.want, nil); got != want {
				t.Errorf("got:\n%s\nwant:\n%s", got, want)
			}
		})
	}
}

func TestRemoveRowMovesSelection(t *testing.T) {
	doc := newDoc(t, tabletest.ModelTable([][]any{{"a", "b"}, {"c[]", "d"}}, nil))
	res := NewRemoveRow(ActionRemoveRow, DefaultConfig()).Execute(doc, Options{})
	if !res.IsOK() {
		t.Fatalf("status = %s, err = %v", res.Status, res.Error)
	}
	if row, _ := res.GetInt("row"); row != 1 {
		t.Errorf("row = %d, want 1", row)
	}
	want := tabletest.FormattedModelTable([][]any{{"[]a", "b"}}, nil)
	if got := tabletest.Format(doc); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRemoveRowKeepsRelocatedSelection(t *testing.T) {
	doc := newDoc(t, tabletest.ModelTable([][]any{{span{Contents: "a[]", Rowspan: 2}, "b"}, {"c"}}, nil))
	res := NewRemoveRow(ActionRemoveRow, DefaultConfig()).Execute(doc, Options{})
	if !res.IsOK() {
		t.Fatalf("status = %s, err = %v", res.Status, res.Error)
	}
	want := tabletest.FormattedModelTable([][]any{{"a[]", "c"}}, nil)
	if got := tabletest.Format(doc); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestRemoveColumnCommand(t *testing.T) {
	doc := newDoc(t, tabletest.ModelTable([][]any{{"a", "b[]"}, {"c", "d"}}, nil))
	res := NewRemoveColumn(ActionRemoveColumn, DefaultConfig()).Execute(doc, Options{})
	if !res.IsOK() {
		t.Fatalf("status = %s, err = %v", res.Status, res.Error)
	}
	want := tabletest.FormattedModelTable([][]any{{"[]a"}, {"c"}}, nil)
	if got := tabletest.Format(doc); got != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestToggleHeadingRow(t *testing.T) {
	doc := newDoc(t, tabletest.ModelTable([][]any{{"a", "b"}, {"c[]", "d"}, {"e", "f"}}, nil))
	tbl := doc.Root().Child(0)
	cmd := NewToggleHeadingRow(ActionToggleHeadingRow, DefaultConfig())

	if cmd.Value(doc) {
		t.Error("row should not start as heading")
	}
	if res := cmd.Execute(doc, Options{}); !res.IsOK() {
		t.Fatalf("status = %s, err = %v", res.Status, res.Error)
	}
	if got := tbl.IntAttribute(model.AttrHeadingRows, 0); got != 2 {
		t.Errorf("headingRows = %d, want 2", got)
	}
	if !cmd.Value(doc) {
		t.Error("row should now be heading")
	}

	if res := cmd.Execute(doc, Options{}); !res.IsOK() {
		t.Fatalf("status = %s, err = %v", res.Status, res.Error)
	}
	if got := tbl.IntAttribute(model.AttrHeadingRows, 0); got != 1 {
		t.Errorf("headingRows = %d, want 1", got)
	}
}

func TestToggleHeadingColumnSpanningCell(t *testing.T) {
	doc := newDoc(t, tabletest.ModelTable([][]any{{span{Contents: "a[]", Colspan: 2}, "b"}, {"c", "d", "e"}}, nil))
	tbl := doc.Root().Child(0)
	cmd := NewToggleHeadingColumn(ActionToggleHeadingColumn, DefaultConfig())

	res := cmd.Execute(doc, Options{})
	if !res.IsOK() {
		t.Fatalf("status = %s, err = %v", res.Status, res.Error)
	}
	if got := tbl.IntAttribute(model.AttrHeadingColumns, 0); got != 2 {
		t.Errorf("headingColumns = %d, want 2", got)
	}

	res = cmd.Execute(doc, Options{})
	if !res.IsOK() {
		t.Fatalf("status = %s, err = %v", res.Status, res.Error)
	}
	if tbl.HasAttribute(model.AttrHeadingColumns) {
		t.Error("headingColumns should be removed")
	}
}

func TestParseOrder(t *testing.T) {
	for _, s := range []string{"", "before", "after", "above", "below"} {
		if _, err := ParseOrder(s); err != nil {
			t.Errorf("ParseOrder(%q) = %v", s, err)
		}
	}
	if _, err := ParseOrder("sideways"); !errors.Is(err, ErrInvalidOrder) {
		t.Errorf("err = %v, want ErrInvalidOrder", err)
	}
}

func TestOperationErrorMessage(t *testing.T) {
	err := &OperationError{Op: "table.removeRow", Target: "t1", Err: table.ErrLastRow}
	if err.Error() != "table.removeRow on t1: cannot remove the last row" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, table.ErrLastRow) {
		t.Error("should unwrap")
	}
}
