package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/khryptorgraphics/cpuschedsim/internal/config"
	"github.com/khryptorgraphics/cpuschedsim/pkg/types"
)

// Run is a single persisted record of a Compute invocation.
type Run struct {
	ID             uuid.UUID `db:"id"`
	Algorithm      string    `db:"algorithm"`
	InputDigest    string    `db:"input_digest"`
	SegmentCount   int       `db:"segment_count"`
	Schedulability string    `db:"schedulability"`
	CreatedAt      time.Time `db:"created_at"`
}

// Repository persists run history to PostgreSQL.
type Repository struct {
	db     *sqlx.DB
	logger *slog.Logger
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id              UUID PRIMARY KEY,
	algorithm       TEXT NOT NULL,
	input_digest    TEXT NOT NULL,
	segment_count   INTEGER NOT NULL,
	schedulability  TEXT NOT NULL,
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS runs_input_digest_idx ON runs (input_digest);
`

// Open connects to PostgreSQL using cfg and ensures the runs table exists.
func Open(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.PGHost, cfg.PGPort, cfg.PGUser, cfg.PGPassword, cfg.PGName, cfg.PGSSLMode)

	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply run-history schema: %w", err)
	}

	logger.Info("store connected", "host", cfg.PGHost, "db", cfg.PGName)
	return &Repository{db: db, logger: logger}, nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Record inserts a completed run.
func (r *Repository) Record(ctx context.Context, algorithm, inputDigest string, trace types.Trace, info types.Info) (*Run, error) {
	run := &Run{
		ID:             uuid.New(),
		Algorithm:      algorithm,
		InputDigest:    inputDigest,
		SegmentCount:   len(trace),
		Schedulability: string(info.Schedulability),
		CreatedAt:      time.Now(),
	}

	const query = `
		INSERT INTO runs (id, algorithm, input_digest, segment_count, schedulability, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if _, err := r.db.ExecContext(ctx, query,
		run.ID, run.Algorithm, run.InputDigest, run.SegmentCount, run.Schedulability, run.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to record run: %w", err)
	}

	r.logger.Info("run recorded", "run_id", run.ID, "algorithm", algorithm)
	return run, nil
}

// Get fetches a run by id.
func (r *Repository) Get(ctx context.Context, id uuid.UUID) (*Run, error) {
	var run Run
	const query = `SELECT * FROM runs WHERE id = $1`
	if err := r.db.GetContext(ctx, &run, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("run not found: %s", id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// List returns the most recent runs, newest first, capped at limit.
func (r *Repository) List(ctx context.Context, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 50
	}
	var runs []*Run
	const query = `SELECT * FROM runs ORDER BY created_at DESC LIMIT $1`
	if err := r.db.SelectContext(ctx, &runs, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	return runs, nil
}
