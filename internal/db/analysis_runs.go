package db

import (
	"context"

	"github.com/google/uuid"

	"csdash/internal/models"
)

// RecordAnalysisRun stores one report execution.
func (d *DB) RecordAnalysisRun(ctx context.Context, run *models.AnalysisRun) error {
	if run.ID == uuid.Nil {
		run.ID = uuid.New()
	}
	return d.Pool.QueryRow(ctx, `
		INSERT INTO analysis_runs (id, report, username, rows_in, rows_out, matched, degraded, outcome)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`, run.ID, run.Report, run.User, run.RowsIn, run.RowsOut, run.Matched, run.Degraded, run.Outcome).Scan(&run.CreatedAt)
}

// ListRecentRuns returns the latest report executions, newest first.
func (d *DB) ListRecentRuns(ctx context.Context, limit int) ([]models.AnalysisRun, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, report, username, rows_in, rows_out, matched, degraded, outcome, created_at
		FROM analysis_runs
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.AnalysisRun
	for rows.Next() {
		var r models.AnalysisRun
		if err := rows.Scan(&r.ID, &r.Report, &r.User, &r.RowsIn, &r.RowsOut, &r.Matched, &r.Degraded, &r.Outcome, &r.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// IncrementKeywordHits adds the per-keyword match counts of one run.
func (d *DB) IncrementKeywordHits(ctx context.Context, report string, hits map[string]int) error {
	for keyword, n := range hits {
		if n <= 0 {
			continue
		}
		_, err := d.Pool.Exec(ctx, `
			INSERT INTO keyword_hits (report, keyword, count, last_seen_at)
			VALUES ($1, $2, $3, NOW())
			ON CONFLICT (report, keyword) DO UPDATE
			SET count = keyword_hits.count + EXCLUDED.count, last_seen_at = NOW()
		`, report, keyword, n)
		if err != nil {
			return err
		}
	}
	return nil
}

// GetAllKeywordHits returns all keyword hit rows for metrics export.
func (d *DB) GetAllKeywordHits(ctx context.Context) ([]models.KeywordHit, error) {
	rows, err := d.Pool.Query(ctx, `SELECT report, keyword, count, last_seen_at FROM keyword_hits`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var hits []models.KeywordHit
	for rows.Next() {
		var h models.KeywordHit
		if err := rows.Scan(&h.Report, &h.Keyword, &h.Count, &h.LastSeenAt); err != nil {
			return nil, err
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}
