package db

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"csdash/internal/models"
)

// ListNotes returns all notes, newest first.
func (d *DB) ListNotes(ctx context.Context) ([]models.Note, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, title, tags, body, created_at
		FROM notes
		ORDER BY position DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Tags, &n.Body, &n.CreatedAt.Time); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// CreateNote inserts a note in front of the existing ones. A zero ID or
// timestamp is filled in.
func (d *DB) CreateNote(ctx context.Context, n *models.Note) error {
	return insertNote(ctx, d.Pool, n)
}

// DeleteNote removes a note by ID.
func (d *DB) DeleteNote(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

// ListHelpArticles returns all help articles, newest first.
func (d *DB) ListHelpArticles(ctx context.Context) ([]models.HelpArticle, error) {
	rows, err := d.Pool.Query(ctx, `
		SELECT id, title, category, body, created_at
		FROM help_articles
		ORDER BY position DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var articles []models.HelpArticle
	for rows.Next() {
		var a models.HelpArticle
		if err := rows.Scan(&a.ID, &a.Title, &a.Category, &a.Body, &a.CreatedAt.Time); err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// CreateHelpArticle inserts an article in front of the existing ones.
func (d *DB) CreateHelpArticle(ctx context.Context, a *models.HelpArticle) error {
	return insertHelpArticle(ctx, d.Pool, a)
}

// DeleteHelpArticle removes a help article by ID.
func (d *DB) DeleteHelpArticle(ctx context.Context, id uuid.UUID) error {
	tag, err := d.Pool.Exec(ctx, `DELETE FROM help_articles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrHelpArticleNotFound
	}
	return nil
}

// ImportNotes places the given notes and articles in front of the existing
// ones, preserving their order, in a single transaction.
func (d *DB) ImportNotes(ctx context.Context, notes []models.Note, articles []models.HelpArticle) error {
	return pgx.BeginFunc(ctx, d.Pool, func(tx pgx.Tx) error {
		for i := len(notes) - 1; i >= 0; i-- {
			if err := insertNote(ctx, tx, &notes[i]); err != nil {
				return err
			}
		}
		for i := len(articles) - 1; i >= 0; i-- {
			if err := insertHelpArticle(ctx, tx, &articles[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

type queryRower interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertNote(ctx context.Context, q queryRower, n *models.Note) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = models.Now()
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}
	return q.QueryRow(ctx, `
		INSERT INTO notes (id, title, tags, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, n.ID, n.Title, n.Tags, n.Body, n.CreatedAt.Time).Scan(&n.CreatedAt.Time)
}

func insertHelpArticle(ctx context.Context, q queryRower, a *models.HelpArticle) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = models.Now()
	}
	return q.QueryRow(ctx, `
		INSERT INTO help_articles (id, title, category, body, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`, a.ID, a.Title, a.Category, a.Body, a.CreatedAt.Time).Scan(&a.CreatedAt.Time)
}
