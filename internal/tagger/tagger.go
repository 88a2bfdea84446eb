// Package tagger classifies free-text notes against a keyword vocabulary.
//
// Matching is case-insensitive and substring based: a keyword matches when it
// occurs anywhere in the lowercased note, with no word-boundary checks.
package tagger

import (
	"sort"
	"strings"
)

// Vocabulary is an ordered list of lowercase keywords. Build one with
// LoadKeywords; callers must not mutate it after construction.
type Vocabulary []string

// Result is the outcome of matching a single note.
type Result struct {
	Verdict bool
	Matched []string // deduplicated, order not significant
}

// Match reports which keywords of vocab occur in note. A nil note never matches.
func Match(note *string, vocab Vocabulary) Result {
	if note == nil || len(vocab) == 0 {
		return Result{}
	}

	text := strings.ToLower(*note)
	var matched []string
	seen := make(map[string]struct{})
	for _, kw := range vocab {
		if _, ok := seen[kw]; ok {
			continue
		}
		if strings.Contains(text, kw) {
			seen[kw] = struct{}{}
			matched = append(matched, kw)
		}
	}

	return Result{Verdict: len(matched) > 0, Matched: matched}
}

// MatchString is Match for a note that is always present.
func MatchString(note string, vocab Vocabulary) Result {
	return Match(&note, vocab)
}

// Display renders the matched keywords as a sorted, comma-joined string.
func (r Result) Display() string {
	if len(r.Matched) == 0 {
		return ""
	}
	out := make([]string, len(r.Matched))
	copy(out, r.Matched)
	sort.Strings(out)
	return strings.Join(out, ", ")
}

// VerdictLabel returns yes when the note matched and no otherwise.
func (r Result) VerdictLabel(yes, no string) string {
	if r.Verdict {
		return yes
	}
	return no
}

// Contains reports whether query occurs in any of fields, ignoring case.
// An empty query matches everything.
func Contains(query string, fields ...string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), q) {
			return true
		}
	}
	return false
}
