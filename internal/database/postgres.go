package database

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq"
)

// PoolOptions sizes the Postgres connection pool.
type PoolOptions struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// ConnectPostgres opens the pool, pings it and makes sure the feedback schema exists.
func ConnectPostgres(ctx context.Context, dsn string, opts PoolOptions) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	if err = InitFeedbackSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// feedbackSchema creates the tables this service writes to if they don't exist.
var feedbackSchema = []string{
	`CREATE TABLE IF NOT EXISTS feedback (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		message TEXT NOT NULL,
		page_url TEXT,
		feedback_type VARCHAR(20) NOT NULL DEFAULT 'general',
		ip_address VARCHAR(255),
		user_agent TEXT,
		beads_issue_id VARCHAR(64)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_created_at ON feedback(created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_feedback_beads_issue_id ON feedback(beads_issue_id)`,
}

// InitFeedbackSchema runs the idempotent schema statements in order.
func InitFeedbackSchema(ctx context.Context, db *sql.DB) error {
	for _, query := range feedbackSchema {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}
