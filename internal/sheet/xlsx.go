package sheet

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrNoSheets is returned for workbooks without a readable sheet.
var ErrNoSheets = errors.New("workbook has no sheets")

// ContentType is the MIME type of generated workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Number formats applied to exported columns.
const (
	FormatDate = "dd-mm-yyyy"
	FormatTime = "hh:mm:ss"
)

// Read parses the first sheet of an xlsx workbook. The first row is the
// header; empty cells become nil. Cells are read as stored, not as displayed:
// numbers keep full precision and dates and times arrive as Excel serials.
func Read(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return New(), nil
	}

	t := New(rows[0]...)
	for _, raw := range rows[1:] {
		row := make(Row, len(t.Columns))
		blank := true
		for i, v := range raw {
			if i >= len(row) || v == "" {
				continue
			}
			row[i] = Str(v)
			blank = false
		}
		if blank {
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

// Sheet is one worksheet of an export.
type Sheet struct {
	Name  string
	Table *Table
	// Formats maps column letters ("H") to number formats.
	Formats map[string]string
}

// Write renders sheets into an xlsx workbook. Cells that parse as numbers are
// written as numbers so spreadsheet formulas keep working.
func Write(sheets ...Sheet) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, ErrNoSheets
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return nil, fmt.Errorf("rename sheet: %w", err)
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return nil, fmt.Errorf("add sheet %q: %w", s.Name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, s Sheet) error {
	header := make([]any, len(s.Table.Columns))
	for i, c := range s.Table.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for ri, r := range s.Table.Rows {
		values := make([]any, len(s.Table.Columns))
		for ci := range values {
			if ci >= len(r) || r[ci] == nil {
				values[ci] = nil
				continue
			}
			if n := ParseNumber(r[ci]); n != nil && !hasLeadingZero(*r[ci]) {
				values[ci] = *n
				continue
			}
			values[ci] = *r[ci]
		}
		cell, err := excelize.CoordinatesToCellName(1, ri+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.Name, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", ri+2, err)
		}
	}

	for col, format := range s.Formats {
		numFmt := format
		style, err := f.NewStyle(&excelize.Style{CustomNumFmt: &numFmt})
		if err != nil {
			return fmt.Errorf("style %s: %w", format, err)
		}
		if err := f.SetColStyle(s.Name, col, style); err != nil {
			return fmt.Errorf("style column %s: %w", col, err)
		}
	}
	return nil
}

// hasLeadingZero spots identifiers such as "00123" that must stay text.
func hasLeadingZero(s string) bool {
	return len(s) > 1 && s[0] == '0' && s[1] != '.'
}
