// Package reports implements the dashboard pipelines: column checks, row
// filtering, keyword tagging and export shaping over uploaded spreadsheets.
//
// Every pipeline is a pure function of its input table, rules and keyword
// vocabulary. Messages collected along the way are shown to the operator.
package reports

import (
	"errors"
	"fmt"
	"strings"

	"csdash/internal/sheet"
	"csdash/internal/tagger"
)

// Report names, used in run logs, metrics and download file names.
const (
	SupportNotes = "support_notes"
	Deviations   = "deviations"
	QuickNotes   = "quicknotes"
	Revenue      = "revenue"
	Solar        = "solar"
)

// Derived column names added by keyword tagging.
const (
	ColKeywords        = "Keywords"
	ColMatchingKeyword = "MatchingKeyword"
)

var (
	// ErrMissingColumns is matched by every MissingColumnsError.
	ErrMissingColumns = errors.New("required columns missing")
	// ErrNoRows is returned when filtering leaves nothing to report on.
	ErrNoRows = errors.New("no rows left")
)

// MissingColumnsError lists the required columns an upload lacks.
type MissingColumnsError struct {
	Missing []string
}

func (e *MissingColumnsError) Error() string {
	return "missing columns: " + strings.Join(e.Missing, ", ")
}

func (e *MissingColumnsError) Is(target error) bool {
	return target == ErrMissingColumns
}

// requireColumns returns a MissingColumnsError when t lacks any of cols.
func requireColumns(t *sheet.Table, cols ...string) error {
	if missing := t.Missing(cols...); len(missing) > 0 {
		return &MissingColumnsError{Missing: missing}
	}
	return nil
}

func noRows(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrNoRows}, args...)...)
}

// Level classifies an operator message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is a line of feedback rendered above a report.
type Message struct {
	Level Level
	Text  string
}

// Messages accumulates operator feedback.
type Messages []Message

func (m *Messages) add(level Level, format string, args ...any) {
	*m = append(*m, Message{Level: level, Text: fmt.Sprintf(format, args...)})
}

// Summary is what a pipeline run reports to the run log and metrics.
type Summary struct {
	Report  string
	RowsIn  int
	RowsOut int
	Matched int
	// Hits counts rows per matched keyword.
	Hits     map[string]int
	Degraded bool
}

// tagging is the outcome of tagColumn.
type tagging struct {
	matched int
	hits    map[string]int
}

// tagColumn matches every value of noteCol against vocab and appends the
// verdict and matched-keyword columns to t.
func tagColumn(t *sheet.Table, noteCol string, vocab tagger.Vocabulary, yes, no string) tagging {
	out := tagging{hits: make(map[string]int)}
	results := make([]tagger.Result, len(t.Rows))
	for i, r := range t.Rows {
		res := tagger.Match(t.Get(r, noteCol), vocab)
		results[i] = res
		if res.Verdict {
			out.matched++
		}
		for _, kw := range res.Matched {
			out.hits[kw]++
		}
	}

	t.AddColumn(ColKeywords, rowByRow(results, func(res tagger.Result) string {
		return res.VerdictLabel(yes, no)
	}))
	t.AddColumn(ColMatchingKeyword, rowByRow(results, tagger.Result.Display))
	return out
}

// excludeContaining drops rows whose col contains any of needles,
// case-insensitively. Blank cells are kept.
func excludeContaining(t *sheet.Table, col string, needles []string) *sheet.Table {
	vocab, _ := tagger.LoadKeywords(tagger.LiteralSource(needles...))
	return t.Filter(func(r sheet.Row) bool {
		return !tagger.Match(t.Get(r, col), vocab).Verdict
	})
}

// rowByRow feeds AddColumn from precomputed per-row results. AddColumn visits
// rows in order, so a running index lines them up.
func rowByRow(results []tagger.Result, render func(tagger.Result) string) func(sheet.Row) sheet.Cell {
	i := 0
	return func(sheet.Row) sheet.Cell {
		res := results[i]
		i++
		return sheet.Str(render(res))
	}
}
