package script

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dshills/tablekit/internal/editor"
)

func TestRunAgainstEditor(t *testing.T) {
	e, err := editor.New(editor.Options{Logger: editor.NullLogger})
	if err != nil {
		t.Fatal(err)
	}
	defer e.Close()
	input := `<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>`
	if err := e.LoadHTML(strings.NewReader(input)); err != nil {
		t.Fatal(err)
	}

	code := `
assert(tables.select(1, 2, 2))
assert(tables.execute("table.removeColumn") == "ok")
assert(tables.select(1, 1, 1))
assert(tables.execute("table.toggleHeadingRow") == "ok")
local rows, cols = tables.size(1)
assert(rows == 2 and cols == 1, rows .. "x" .. cols)
assert(tables.undo())
assert(tables.redo())
`
	if err := NewRunner(e).Run(context.Background(), "edit", code); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := e.WriteHTML(&buf); err != nil {
		t.Fatal(err)
	}
	want := `<figure class="table"><table><thead><tr><th>a</th></tr></thead><tbody><tr><td>c</td></tr></tbody></table></figure>` + "\n"
	if got := buf.String(); got != want {
		t.Errorf("got  %s\nwant %s", got, want)
	}
}
