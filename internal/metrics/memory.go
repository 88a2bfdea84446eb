package metrics

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"csdash/internal/models"
)

// maxMemoryRuns bounds the in-memory run log.
const maxMemoryRuns = 200

// MemoryStore keeps the run log in process memory when no database is
// configured.
type MemoryStore struct {
	mu   sync.Mutex
	runs []models.AnalysisRun // newest first
	hits map[[2]string]*models.KeywordHit
}

// NewMemoryStore creates an empty in-memory run log.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{hits: make(map[[2]string]*models.KeywordHit)}
}

func (m *MemoryStore) RecordAnalysisRun(ctx context.Context, run *models.AnalysisRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = slices.Insert(m.runs, 0, *run)
	if len(m.runs) > maxMemoryRuns {
		m.runs = m.runs[:maxMemoryRuns]
	}
	return nil
}

func (m *MemoryStore) ListRecentRuns(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > len(m.runs) {
		limit = len(m.runs)
	}
	return slices.Clone(m.runs[:limit]), nil
}

func (m *MemoryStore) IncrementKeywordHits(ctx context.Context, report string, hits map[string]int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	for keyword, n := range hits {
		if n <= 0 {
			continue
		}
		key := [2]string{report, keyword}
		h, ok := m.hits[key]
		if !ok {
			h = &models.KeywordHit{Report: report, Keyword: keyword}
			m.hits[key] = h
		}
		h.Count += int64(n)
		h.LastSeenAt = now
	}
	return nil
}

func (m *MemoryStore) GetAllKeywordHits(ctx context.Context) ([]models.KeywordHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.KeywordHit, 0, len(m.hits))
	for _, h := range m.hits {
		out = append(out, *h)
	}
	return out, nil
}
