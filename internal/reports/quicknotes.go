package reports

import (
	"strings"

	"csdash/internal/config"
	"csdash/internal/sheet"
	"csdash/internal/tagger"
)

// QuickNotesResult is the output of AnalyzeQuickNotes.
type QuickNotesResult struct {
	Messages Messages
	Table    *sheet.Table  // matching routes, output columns only
	Groups   []sheet.Group // Table split by CustomerName
	Summary  Summary
}

// AnalyzeQuickNotes narrows a duration controlling export down to long routes
// whose QuickNotes carry one of the configured solution patterns.
//
// When the duration or blank-note filters empty the table, Table is nil and
// the messages say which step did it. Without an ActDuration column the
// duration filter is skipped and an error message says so.
func AnalyzeQuickNotes(t *sheet.Table, cfg config.QuickNotesConfig) (*QuickNotesResult, error) {
	if err := requireColumns(t, "CustomerName", "QuickNotes"); err != nil {
		return nil, err
	}

	res := &QuickNotesResult{}
	res.Summary = Summary{Report: QuickNotes, RowsIn: t.Len()}

	excluded := make(map[string]struct{}, len(cfg.ExcludeCustomers))
	for _, name := range cfg.ExcludeCustomers {
		excluded[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	df := t.Filter(func(r sheet.Row) bool {
		_, skip := excluded[sheet.Normalize(t.Get(r, "CustomerName"))]
		return !skip
	})

	if df.Has("ActDuration") {
		df = filterByRealizedTime(df, cfg)
	} else {
		res.Messages.add(LevelError, "Kolonnen 'ActDuration' blev ikke fundet i data. Tjek at du har uploadet en DurationControlling-rapport.")
	}
	if df.Len() == 0 {
		res.Messages.add(LevelWarning, "Ingen ruter opfylder kravet til minimum realiseret tid efter filtrering.")
		return res, nil
	}

	df = df.Filter(func(r sheet.Row) bool {
		return strings.TrimSpace(df.Text(r, "QuickNotes")) != ""
	})
	if df.Len() == 0 {
		res.Messages.add(LevelWarning, "Ingen ruter med QuickNotes-tekst tilbage efter filtrering.")
		return res, nil
	}

	patterns, _ := tagger.LoadKeywords(tagger.LiteralSource(cfg.Patterns...))
	hits := make(map[string]int)
	df = df.Filter(func(r sheet.Row) bool {
		m := tagger.Match(df.Get(r, "QuickNotes"), patterns)
		for _, kw := range m.Matched {
			hits[kw]++
		}
		return m.Verdict
	})

	res.Table = df.Select(cfg.OutputColumns...)
	res.Groups = res.Table.GroupBy("CustomerName")
	res.Summary.RowsOut = res.Table.Len()
	res.Summary.Matched = res.Table.Len()
	res.Summary.Hits = hits
	if res.Table.Len() == 0 {
		res.Messages.add(LevelInfo, "Ingen ruter med de valgte QuickNotes efter alle filtreringer.")
	} else {
		res.Messages.add(LevelSuccess, "Antal ruter efter tids- og QuickNotes-filtrering: %d", res.Table.Len())
	}
	return res, nil
}

// filterByRealizedTime keeps routes whose ActDuration reaches the customer's
// minimum. Durations are coerced to numbers; non-numeric values never pass.
func filterByRealizedTime(t *sheet.Table, cfg config.QuickNotesConfig) *sheet.Table {
	out := t.Clone()
	out.Map("ActDuration", func(c sheet.Cell) sheet.Cell {
		if n := sheet.ParseNumber(c); n != nil {
			return sheet.Str(sheet.FormatNumber(*n))
		}
		return nil
	})
	return out.Filter(func(r sheet.Row) bool {
		d := sheet.ParseNumber(out.Get(r, "ActDuration"))
		if d == nil {
			return false
		}
		return *d >= cfg.MinDurationFor(out.Text(r, "CustomerName"))
	})
}

// Sheets returns the workbook offered for download.
func (r *QuickNotesResult) Sheets() []sheet.Sheet {
	return []sheet.Sheet{{Name: "QuickNotes", Table: r.Table}}
}
