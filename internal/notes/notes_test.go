package notes

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"csdash/internal/db"
	"csdash/internal/models"
)

func titles(notes []models.Note) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Title
	}
	return out
}

func TestMemoryStore_NewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	a := &models.Note{Title: "a", Body: "x"}
	b := &models.Note{Title: "b", Body: "y"}
	s.CreateNote(ctx, a)
	s.CreateNote(ctx, b)

	got, _ := s.ListNotes(ctx)
	if diff := cmp.Diff([]string{"b", "a"}, titles(got)); diff != "" {
		t.Errorf("order mismatch:\n%s", diff)
	}
	if a.ID == uuid.Nil || a.CreatedAt.IsZero() {
		t.Error("CreateNote() should assign ID and CreatedAt")
	}

	if err := s.DeleteNote(ctx, a.ID); err != nil {
		t.Fatalf("DeleteNote() error = %v", err)
	}
	if err := s.DeleteNote(ctx, a.ID); !errors.Is(err, db.ErrNoteNotFound) {
		t.Errorf("DeleteNote() error = %v, want ErrNoteNotFound", err)
	}
	if err := s.DeleteHelpArticle(ctx, uuid.New()); !errors.Is(err, db.ErrHelpArticleNotFound) {
		t.Errorf("DeleteHelpArticle() error = %v, want ErrHelpArticleNotFound", err)
	}
}

func TestFilterNotes(t *testing.T) {
	notes := []models.Note{
		{Title: "IKEA proces", Body: "ring først"},
		{Title: "Solar", Body: "hent routestats", Tags: []string{"Uge"}},
		{Title: "Andet", Body: "intet"},
	}

	tests := []struct {
		name string
		q    string
		want []string
	}{
		{"empty query keeps all", "", []string{"IKEA proces", "Solar", "Andet"}},
		{"title match ignores case", "ikea", []string{"IKEA proces"}},
		{"body match", "ROUTESTATS", []string{"Solar"}},
		{"tag match", "uge", []string{"Solar"}},
		{"no match", "zzz", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterNotes(notes, tt.q)
			var names []string
			for _, n := range got {
				names = append(names, n.Title)
			}
			if diff := cmp.Diff(tt.want, names); diff != "" {
				t.Errorf("FilterNotes(%q) mismatch:\n%s", tt.q, diff)
			}
		})
	}
}

func TestFilterHelpArticles(t *testing.T) {
	articles := []models.HelpArticle{
		{Title: "Guide", Category: "Controlling", Body: "x"},
		{Title: "Other", Category: "Solar", Body: "y"},
	}
	got := FilterHelpArticles(articles, "control")
	if len(got) != 1 || got[0].Title != "Guide" {
		t.Errorf("FilterHelpArticles() = %+v", got)
	}
}

func TestExportImportAppends(t *testing.T) {
	ctx := context.Background()
	src := NewMemoryStore()
	src.CreateNote(ctx, &models.Note{Title: "ø-note", Body: "æble", Tags: []string{"dk"}})
	src.CreateHelpArticle(ctx, &models.HelpArticle{Title: "guide", Category: "Solar", Body: "g"})

	data, err := Export(ctx, src)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	if !strings.Contains(string(data), "ø-note") {
		t.Error("export should keep non-ASCII characters unescaped")
	}
	if !strings.Contains(string(data), "\n  \"notes\"") {
		t.Error("export should be indented with two spaces")
	}

	dst := NewMemoryStore()
	dst.CreateNote(ctx, &models.Note{Title: "existing", Body: "e"})

	n, a, err := Import(ctx, dst, strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n != 1 || a != 1 {
		t.Errorf("Import() = %d notes, %d articles", n, a)
	}

	got, _ := dst.ListNotes(ctx)
	if diff := cmp.Diff([]string{"ø-note", "existing"}, titles(got)); diff != "" {
		t.Errorf("order mismatch:\n%s", diff)
	}
}

func TestImport_LegacyAndInvalid(t *testing.T) {
	ctx := context.Background()

	legacy := `{"notes": [{"title": "gammel", "tags": [], "body": "b", "created_at": "2024-11-02 08:15"}], "help_articles": "nope"}`
	s := NewMemoryStore()
	n, a, err := Import(ctx, s, strings.NewReader(legacy))
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n != 1 || a != 0 {
		t.Errorf("Import() = %d, %d; want 1, 0", n, a)
	}
	got, _ := s.ListNotes(ctx)
	if got[0].CreatedAt.String() != "2024-11-02 08:15" {
		t.Errorf("CreatedAt = %s", got[0].CreatedAt)
	}

	for _, bad := range []string{"not json", `{"notes": [{"title": 5}]}`} {
		if _, _, err := Import(ctx, s, strings.NewReader(bad)); !errors.Is(err, ErrInvalidImport) {
			t.Errorf("Import(%q) error = %v, want ErrInvalidImport", bad, err)
		}
	}
}

func TestBundleShape(t *testing.T) {
	data, err := Export(context.Background(), NewMemoryStore())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	for _, key := range []string{"notes", "help_articles", "exported_at"} {
		if _, ok := m[key]; !ok {
			t.Errorf("export is missing %q", key)
		}
	}
	if notes, ok := m["notes"].([]any); !ok || len(notes) != 0 {
		t.Errorf("notes = %#v, want empty list", m["notes"])
	}
}
