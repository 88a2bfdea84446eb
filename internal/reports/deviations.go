package reports

import (
	"csdash/internal/config"
	"csdash/internal/sheet"
	"csdash/internal/tagger"
)

// DeviationsResult is the output of AnalyzeDeviations.
type DeviationsResult struct {
	Messages Messages
	// Table holds the required columns plus the keyword columns, for display.
	Table    *sheet.Table
	Analyzed *sheet.Table
	Summary  Summary
	cfg      config.DeviationsConfig
}

// AnalyzeDeviations tags the SupportNote column of a route deviations export
// and reformats its Date column as dd-mm-yyyy.
func AnalyzeDeviations(t *sheet.Table, vocab tagger.Vocabulary, yes, no string, cfg config.DeviationsConfig) (*DeviationsResult, error) {
	if err := requireColumns(t, cfg.RequiredColumns...); err != nil {
		return nil, err
	}

	df := t.DropNull("SupportNote")
	if df.Len() == 0 {
		return nil, noRows("ingen rækker med SupportNote fundet")
	}

	res := &DeviationsResult{cfg: cfg}
	res.Summary = Summary{Report: Deviations, RowsIn: t.Len(), RowsOut: df.Len()}

	tags := tagColumn(df, "SupportNote", vocab, yes, no)
	df.Map("Date", sheet.FormatDateCell)

	output := append(append([]string(nil), cfg.RequiredColumns...), ColKeywords, ColMatchingKeyword)
	res.Table = df.Select(output...)
	res.Analyzed = df
	res.Summary.Matched = tags.matched
	res.Summary.Hits = tags.hits
	if dropped := t.Len() - df.Len(); dropped > 0 {
		res.Messages.add(LevelInfo, "%d rækker uden SupportNote blev fjernet.", dropped)
	}
	return res, nil
}

// Sheets returns the workbook offered for download.
func (r *DeviationsResult) Sheets() []sheet.Sheet {
	return []sheet.Sheet{{Name: r.cfg.SheetName, Table: r.Analyzed}}
}
