package notes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"csdash/internal/models"
	"csdash/internal/tagger"
)

// ErrInvalidImport is returned when an import file is not a notes export.
var ErrInvalidImport = errors.New("invalid notes import")

// ExportFileName is the attachment name used for exports.
const ExportFileName = "overviewnotes_export.json"

// Bundle is the JSON document produced by Export and read by Import.
type Bundle struct {
	Notes        []models.Note        `json:"notes"`
	HelpArticles []models.HelpArticle `json:"help_articles"`
	ExportedAt   models.Timestamp     `json:"exported_at"`
}

// FilterNotes keeps notes whose title, body or any tag contains q,
// ignoring case. An empty q keeps everything.
func FilterNotes(notes []models.Note, q string) []models.Note {
	var out []models.Note
	for _, n := range notes {
		fields := append([]string{n.Title, n.Body}, n.Tags...)
		if tagger.Contains(q, fields...) {
			out = append(out, n)
		}
	}
	return out
}

// FilterHelpArticles keeps articles whose title, body or category
// contains q, ignoring case.
func FilterHelpArticles(articles []models.HelpArticle, q string) []models.HelpArticle {
	var out []models.HelpArticle
	for _, a := range articles {
		if tagger.Contains(q, a.Title, a.Body, a.Category) {
			out = append(out, a)
		}
	}
	return out
}

// Export renders every note and article as indented JSON.
func Export(ctx context.Context, s Store) ([]byte, error) {
	notes, err := s.ListNotes(ctx)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	articles, err := s.ListHelpArticles(ctx)
	if err != nil {
		return nil, fmt.Errorf("list help articles: %w", err)
	}
	if notes == nil {
		notes = []models.Note{}
	}
	if articles == nil {
		articles = []models.HelpArticle{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(Bundle{Notes: notes, HelpArticles: articles, ExportedAt: models.Now()}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Import reads an export and adds its content in front of what the store
// already holds. Sections that are missing or not lists are skipped.
func Import(ctx context.Context, s Store, r io.Reader) (notes, articles int, err error) {
	var raw struct {
		Notes        json.RawMessage `json:"notes"`
		HelpArticles json.RawMessage `json:"help_articles"`
	}
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return 0, 0, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	var b Bundle
	if isList(raw.Notes) {
		if err := json.Unmarshal(raw.Notes, &b.Notes); err != nil {
			return 0, 0, fmt.Errorf("%w: notes: %v", ErrInvalidImport, err)
		}
	}
	if isList(raw.HelpArticles) {
		if err := json.Unmarshal(raw.HelpArticles, &b.HelpArticles); err != nil {
			return 0, 0, fmt.Errorf("%w: help_articles: %v", ErrInvalidImport, err)
		}
	}

	if err := s.ImportNotes(ctx, b.Notes, b.HelpArticles); err != nil {
		return 0, 0, err
	}
	return len(b.Notes), len(b.HelpArticles), nil
}

func isList(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '['
}
