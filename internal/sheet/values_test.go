package sheet

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		cell Cell
		want *float64
	}{
		{"nil", nil, nil},
		{"blank", Str("  "), nil},
		{"integer", Str("180"), ptr(180)},
		{"decimal", Str(" 149.5 "), ptr(149.5)},
		{"negative", Str("-3"), ptr(-3)},
		{"text", Str("n/a"), nil},
		{"nan", Str("NaN"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseNumber(tt.cell)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseNumber() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func ptr(f float64) *float64 { return &f }

func TestParseDate(t *testing.T) {
	day := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		cell Cell
		want *time.Time
	}{
		{"nil", nil, nil},
		{"iso", Str("2025-03-04"), &day},
		{"day first dashes", Str("04-03-2025"), &day},
		{"day first dots", Str("04.03.2025"), &day},
		{"excel serial", Str("45720"), &day},
		{"garbage", Str("not a date"), nil},
		{"zero serial", Str("0"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseDate(tt.cell)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("ParseDate() = %v, want %v", got, tt.want)
			}
			if got != nil && !got.Equal(*tt.want) {
				t.Errorf("ParseDate() = %v, want %v", *got, *tt.want)
			}
		})
	}
}

func TestFormatDateCell(t *testing.T) {
	if got := FormatDateCell(Str("2025-03-04 08:15:00")); got == nil || *got != "04-03-2025" {
		t.Errorf("FormatDateCell() = %v, want 04-03-2025", got)
	}
	if got := FormatDateCell(Str("tomorrow-ish")); got != nil {
		t.Errorf("FormatDateCell() = %q, want nil", *got)
	}
}

func TestFormatNumber(t *testing.T) {
	if got := FormatNumber(180); got != "180" {
		t.Errorf("FormatNumber(180) = %q", got)
	}
	if got := FormatNumber(0.25); got != "0.25" {
		t.Errorf("FormatNumber(0.25) = %q", got)
	}
}

func TestWriteThenRead(t *testing.T) {
	tbl := New("SessionId", "CustomerName", "SupportNote", "ActDuration")
	tbl.Append(Row{Str("00042"), Str("Acme"), Str("Road closed"), Str("190")})
	tbl.Append(Row{Str("43"), Str("Bolt"), nil, Str("95.5")})

	data, err := Write(Sheet{
		Name:    "Analyseret",
		Table:   tbl,
		Formats: map[string]string{"B": FormatDate},
	})
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := Read(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if diff := cmp.Diff(tbl.Columns, got.Columns); diff != "" {
		t.Errorf("columns mismatch:\n%s", diff)
	}
	want := [][]string{
		{"00042", "Acme", "Road closed", "190"},
		{"43", "Bolt", "<nil>", "95.5"},
	}
	if diff := cmp.Diff(want, rowsText(got)); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_NoSheets(t *testing.T) {
	if _, err := Write(); err != ErrNoSheets {
		t.Errorf("Write() error = %v, want ErrNoSheets", err)
	}
}

func TestRead_NotAWorkbook(t *testing.T) {
	if _, err := Read(bytes.NewReader([]byte("plain text"))); err == nil {
		t.Error("Read() expected error for non-xlsx input")
	}
}
