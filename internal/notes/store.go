// Package notes holds the team's overview notes and help articles.
package notes

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"csdash/internal/db"
	"csdash/internal/models"
)

// Store persists notes and help articles. Lists are newest first.
type Store interface {
	ListNotes(ctx context.Context) ([]models.Note, error)
	CreateNote(ctx context.Context, n *models.Note) error
	DeleteNote(ctx context.Context, id uuid.UUID) error
	ListHelpArticles(ctx context.Context) ([]models.HelpArticle, error)
	CreateHelpArticle(ctx context.Context, a *models.HelpArticle) error
	DeleteHelpArticle(ctx context.Context, id uuid.UUID) error
	ImportNotes(ctx context.Context, notes []models.Note, articles []models.HelpArticle) error
}

var _ Store = (*db.DB)(nil)

// MemoryStore keeps notes in process memory. It is used when no database
// is configured, so content lives only as long as the server.
type MemoryStore struct {
	mu       sync.RWMutex
	notes    []models.Note
	articles []models.HelpArticle
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) ListNotes(ctx context.Context) ([]models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.notes), nil
}

func (m *MemoryStore) CreateNote(ctx context.Context, n *models.Note) error {
	fillNote(n)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = slices.Insert(m.notes, 0, *n)
	return nil
}

func (m *MemoryStore) DeleteNote(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.notes, func(n models.Note) bool { return n.ID == id })
	if i < 0 {
		return db.ErrNoteNotFound
	}
	m.notes = slices.Delete(m.notes, i, i+1)
	return nil
}

func (m *MemoryStore) ListHelpArticles(ctx context.Context) ([]models.HelpArticle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Clone(m.articles), nil
}

func (m *MemoryStore) CreateHelpArticle(ctx context.Context, a *models.HelpArticle) error {
	fillArticle(a)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.articles = slices.Insert(m.articles, 0, *a)
	return nil
}

func (m *MemoryStore) DeleteHelpArticle(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.articles, func(a models.HelpArticle) bool { return a.ID == id })
	if i < 0 {
		return db.ErrHelpArticleNotFound
	}
	m.articles = slices.Delete(m.articles, i, i+1)
	return nil
}

func (m *MemoryStore) ImportNotes(ctx context.Context, notes []models.Note, articles []models.HelpArticle) error {
	for i := range notes {
		fillNote(&notes[i])
	}
	for i := range articles {
		fillArticle(&articles[i])
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notes = append(slices.Clone(notes), m.notes...)
	m.articles = append(slices.Clone(articles), m.articles...)
	return nil
}

func fillNote(n *models.Note) {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = models.Now()
	}
}

func fillArticle(a *models.HelpArticle) {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = models.Now()
	}
}
