package reports

import (
	"csdash/internal/sheet"
	"csdash/internal/tagger"
)

// Tagged is the report name used for ad-hoc tagging runs.
const Tagged = "tagged"

// TagSheet appends the keyword verdict and matched-keyword columns to t,
// tagging every value of noteCol. Rows are kept as they are.
func TagSheet(t *sheet.Table, noteCol string, vocab tagger.Vocabulary, yes, no string) (Summary, error) {
	if err := requireColumns(t, noteCol); err != nil {
		return Summary{}, err
	}
	tg := tagColumn(t, noteCol, vocab, yes, no)
	return Summary{
		Report:  Tagged,
		RowsIn:  t.Len(),
		RowsOut: t.Len(),
		Matched: tg.matched,
		Hits:    tg.hits,
	}, nil
}
