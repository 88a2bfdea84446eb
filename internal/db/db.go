package db

import (
	"context"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"

	"csdash/internal/models"
	"csdash/migrations"
)

// DB wraps a pgxpool connection pool.
type DB struct {
	Pool *pgxpool.Pool
}

// New creates a new database connection pool.
func New(ctx context.Context, connString string) (*DB, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// RunMigrations runs all embedded SQL migrations.
func (d *DB) RunMigrations(connString string) error {
	sourceDriver, err := iofs.New(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, connString)
	if err != nil {
		return fmt.Errorf("failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("migration failed: %w", err)
	}

	return nil
}

// Close closes the connection pool.
func (d *DB) Close() {
	d.Pool.Close()
}

// Ping checks that the database is reachable.
func (d *DB) Ping(ctx context.Context) error {
	return d.Pool.Ping(ctx)
}

// SeedDevArticles inserts starter help articles for development when the
// table is empty.
func (d *DB) SeedDevArticles(ctx context.Context) error {
	var n int
	if err := d.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM help_articles`).Scan(&n); err != nil {
		return fmt.Errorf("failed to count help articles: %w", err)
	}
	if n > 0 {
		return nil
	}

	articles := []models.HelpArticle{
		{Title: "Controlling-rapport", Category: "Controlling", Body: "Upload eksporten fra Duration Controlling og vælg kunde i listen."},
		{Title: "Solar ugerapport", Category: "Solar", Body: "Hent routestats for sidste uge via linket og upload filen."},
	}
	for i := range articles {
		if err := d.CreateHelpArticle(ctx, &articles[i]); err != nil {
			return fmt.Errorf("failed to seed article %s: %w", articles[i].Title, err)
		}
	}
	return nil
}
