package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/edinfinite/aiworkshop-backend/internal/models"
)

const insertFeedbackQuery = `
	INSERT INTO feedback (id, created_at, message, page_url, feedback_type, ip_address, user_agent, beads_issue_id)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
`

// FeedbackRepository is the insert-only store for sanitized feedback rows.
type FeedbackRepository struct {
	db *sql.DB
}

func NewFeedbackRepository(db *sql.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// InsertFeedback writes one row. Nil page URL and issue id are stored as NULL.
func (r *FeedbackRepository) InsertFeedback(ctx context.Context, row *models.FeedbackRow) error {
	_, err := r.db.ExecContext(ctx, insertFeedbackQuery,
		row.ID,
		row.CreatedAt,
		row.Message,
		nullString(row.PageURL),
		string(row.FeedbackType),
		row.IPAddress,
		row.UserAgent,
		nullString(row.BeadsIssueID),
	)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
