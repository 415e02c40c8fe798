package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hemispheres-scraper/config"
	"hemispheres-scraper/models"
)

// PostgresWriter records batch outcomes so runs can be compared and failed
// URLs re-fed later.
type PostgresWriter struct {
	pool *pgxpool.Pool
}

func NewPostgresWriter(cfg *config.Config) (*PostgresWriter, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		cfg.DBUser,
		cfg.DBPassword,
		cfg.DBHost,
		cfg.DBPort,
		cfg.DBName,
		cfg.DBSSLMode,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to connect postgres: %w", err)
	}

	return &PostgresWriter{pool: pool}, nil
}

func (w *PostgresWriter) Close() {
	if w.pool != nil {
		w.pool.Close()
	}
}

func (w *PostgresWriter) EnsureSchema() error {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	sql := `
	CREATE TABLE IF NOT EXISTS scrape_results (
		id BIGSERIAL PRIMARY KEY,
		run_id UUID NOT NULL,
		listing_url TEXT NOT NULL,
		url TEXT NOT NULL,
		region TEXT,
		success BOOLEAN NOT NULL,
		error TEXT,
		json_path TEXT,
		html_path TEXT,
		markdown_path TEXT,
		scraped_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_scrape_results_run ON scrape_results(run_id);
	CREATE INDEX IF NOT EXISTS idx_scrape_results_url ON scrape_results(url);
	`

	if _, err := w.pool.Exec(ctx, sql); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}

	return nil
}

// WriteBatch inserts one row per result under the given run ID.
func (w *PostgresWriter) WriteBatch(runID uuid.UUID, listingURL string, results []models.BatchResult) error {
	if len(results) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	batch := &pgx.Batch{}
	insertSQL := `
	INSERT INTO scrape_results (run_id, listing_url, url, region, success, error, json_path, html_path, markdown_path)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`

	for _, r := range results {
		batch.Queue(
			insertSQL,
			runID,
			listingURL,
			r.URL,
			r.Region,
			r.Success,
			r.Error,
			r.Outputs["json"],
			r.Outputs["html"],
			r.Outputs["markdown"],
		)
	}

	br := w.pool.SendBatch(ctx, batch)
	defer br.Close()

	for i := 0; i < len(results); i++ {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch insert failed at row %d: %w", i, err)
		}
	}

	return nil
}
