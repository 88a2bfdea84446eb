package handlers

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"csdash/internal/sheet"
)

func TestNewTableView(t *testing.T) {
	tbl := sheet.New("Id", "Note")
	tbl.Append(sheet.Row{sheet.Str("1"), nil})
	tbl.Append(sheet.Row{sheet.Str("2")})

	want := &TableView{
		Columns: []string{"Id", "Note"},
		Rows:    [][]string{{"1", ""}, {"2", ""}},
	}
	if diff := cmp.Diff(want, newTableView(tbl)); diff != "" {
		t.Errorf("newTableView() mismatch (-want +got):\n%s", diff)
	}

	if newTableView(nil) != nil {
		t.Error("newTableView(nil) should be nil")
	}
}
