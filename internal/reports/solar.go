package reports

import (
	"errors"

	"csdash/internal/config"
	"csdash/internal/sheet"
)

// SolarResult is the output of AnalyzeSolarWeekly.
type SolarResult struct {
	Messages Messages
	Table    *sheet.Table
	Summary  Summary
	cfg      config.SolarConfig
}

// AnalyzeSolarWeekly keeps completed routes, coerces columns B–D to numbers,
// drops rows without a value in D and sorts ascending by D.
func AnalyzeSolarWeekly(t *sheet.Table, cfg config.SolarConfig) (*SolarResult, error) {
	if err := requireColumns(t, cfg.StatusColumn); err != nil {
		return nil, err
	}

	keep := sheet.Normalize(sheet.Str(cfg.KeepStatus))
	df := t.Filter(func(r sheet.Row) bool {
		return sheet.Normalize(t.Get(r, cfg.StatusColumn)) == keep
	})

	if len(df.Columns) < 4 {
		return nil, errors.New("filen har ikke nok kolonner til B, C og D")
	}
	colB, colC, colD := df.Columns[1], df.Columns[2], df.Columns[3]

	for _, col := range []string{colB, colC, colD} {
		df.Map(col, func(c sheet.Cell) sheet.Cell {
			if n := sheet.ParseNumber(c); n != nil {
				return sheet.Str(sheet.FormatNumber(*n))
			}
			return nil
		})
	}

	df = df.DropNull(colD)
	df.SortBy(func(a, b sheet.Row) bool {
		return *sheet.ParseNumber(df.Get(a, colD)) < *sheet.ParseNumber(df.Get(b, colD))
	})

	res := &SolarResult{Table: df, cfg: cfg}
	res.Summary = Summary{Report: Solar, RowsIn: t.Len(), RowsOut: df.Len()}
	res.Messages.add(LevelSuccess, "Data filtreret og sorteret korrekt.")
	return res, nil
}

// Sheets returns the workbook offered for download, with date and time
// formats on the configured columns.
func (r *SolarResult) Sheets() []sheet.Sheet {
	formats := make(map[string]string)
	for _, col := range r.cfg.DateColumns {
		formats[col] = sheet.FormatDate
	}
	for _, col := range r.cfg.TimeColumns {
		formats[col] = sheet.FormatTime
	}
	return []sheet.Sheet{{Name: "Filtered", Table: r.Table, Formats: formats}}
}
