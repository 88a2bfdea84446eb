package sheet

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

// typedWorkbook mimics a warehouse export: a real date cell, a number with a
// thousands format and a duration stored as a fraction of a day.
func typedWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	const sh = "Sheet1"

	if err := f.SetSheetRow(sh, "A1", &[]any{"Date", "Amount", "Duration"}); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sh, "A2", time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sh, "B2", 1234.5); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellValue(sh, "C2", 8.5/24); err != nil {
		t.Fatal(err)
	}

	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	if err != nil {
		t.Fatal(err)
	}
	clock, err := f.NewStyle(&excelize.Style{NumFmt: 21}) // h:mm:ss
	if err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle(sh, "B2", "B2", thousands); err != nil {
		t.Fatal(err)
	}
	if err := f.SetCellStyle(sh, "C2", "C2", clock); err != nil {
		t.Fatal(err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestRead_TypedCells(t *testing.T) {
	got, err := Read(bytes.NewReader(typedWorkbook(t)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got.Len() != 1 {
		t.Fatalf("rows = %d, want 1", got.Len())
	}
	r := got.Rows[0]

	if n := ParseNumber(got.Get(r, "Amount")); n == nil || *n != 1234.5 {
		t.Errorf("Amount = %q, want 1234.5", got.Text(r, "Amount"))
	}
	if n := ParseNumber(got.Get(r, "Duration")); n == nil || math.Abs(*n-8.5/24) > 1e-9 {
		t.Errorf("Duration = %q, want %v", got.Text(r, "Duration"), 8.5/24)
	}
	if d := FormatDateCell(got.Get(r, "Date")); d == nil || *d != "04-03-2025" {
		t.Errorf("FormatDateCell(Date) = %v, raw %q", d, got.Text(r, "Date"))
	}
}

func TestWrite_TypedCellsStayNumeric(t *testing.T) {
	tbl, err := Read(bytes.NewReader(typedWorkbook(t)))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	data, err := Write(Sheet{
		Name:    "Filtered",
		Table:   tbl,
		Formats: map[string]string{"A": FormatDate, "C": FormatTime},
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer f.Close()

	for _, cell := range []string{"A2", "B2", "C2"} {
		typ, err := f.GetCellType("Filtered", cell)
		if err != nil {
			t.Fatalf("GetCellType(%s): %v", cell, err)
		}
		if typ == excelize.CellTypeSharedString || typ == excelize.CellTypeInlineString {
			t.Errorf("%s written as text", cell)
		}
	}

	tests := []struct {
		cell string
		want string
	}{
		{"A2", "04-03-2025"},
		{"C2", "08:30:00"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue("Filtered", tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s displays %q, want %q", tt.cell, got, tt.want)
		}
	}
}
