package reports

import (
	"csdash/internal/config"
	"csdash/internal/sheet"
	"csdash/internal/tagger"
)

// SupportNotesResult is the output of AnalyzeSupportNotes.
type SupportNotesResult struct {
	Messages  Messages
	Matched   *sheet.Table // rows with at least one keyword
	Unmatched *sheet.Table
	Customers []string
	// Analyzed is the full tagged table offered for download.
	Analyzed *sheet.Table
	Summary  Summary
	cfg      config.SupportNotesConfig
}

// AnalyzeSupportNotes tags the SupportNote column of a controlling export.
// Rows without a SupportNote or CustomerName are dropped, as are customers
// named in the exclusion list.
func AnalyzeSupportNotes(t *sheet.Table, vocab tagger.Vocabulary, cfg config.SupportNotesConfig) (*SupportNotesResult, error) {
	if err := requireColumns(t, cfg.RequiredColumns...); err != nil {
		return nil, err
	}

	res := &SupportNotesResult{cfg: cfg}
	res.Summary = Summary{Report: SupportNotes, RowsIn: t.Len()}

	df := t.DropNull("SupportNote", "CustomerName")
	if dropped := t.Len() - df.Len(); dropped > 0 {
		res.Messages.add(LevelInfo, "%d rækker blev droppet, da de manglede værdier i SupportNote eller CustomerName.", dropped)
	}

	before := df.Len()
	df = excludeContaining(df, "CustomerName", cfg.ExcludeContains)
	if filtered := before - df.Len(); filtered > 0 {
		res.Messages.add(LevelInfo, "%d rækker blev droppet på grund af kundefilteret i CustomerName.", filtered)
	}
	res.Messages.add(LevelSuccess, "Filen er uploadet korrekt, og alle nødvendige kolonner er til stede!")

	tags := tagColumn(df, "SupportNote", vocab, cfg.YesLabel, cfg.NoLabel)

	output := append(append([]string(nil), cfg.RequiredColumns...), ColKeywords, ColMatchingKeyword)
	res.Matched = df.Filter(func(r sheet.Row) bool {
		return df.Text(r, ColKeywords) == cfg.YesLabel
	}).Select(output...)
	res.Unmatched = df.Filter(func(r sheet.Row) bool {
		return df.Text(r, ColKeywords) != cfg.YesLabel
	}).Select(output...)
	res.Customers = df.Distinct("CustomerName")
	res.Analyzed = df

	res.Summary.RowsOut = df.Len()
	res.Summary.Matched = tags.matched
	res.Summary.Hits = tags.hits
	return res, nil
}

// Sheets returns the workbook offered for download.
func (r *SupportNotesResult) Sheets() []sheet.Sheet {
	return []sheet.Sheet{{Name: r.cfg.SheetName, Table: r.Analyzed}}
}
