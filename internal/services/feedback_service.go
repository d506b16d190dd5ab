package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/edinfinite/aiworkshop-backend/internal/models"
	"github.com/edinfinite/aiworkshop-backend/internal/observability"
)

// FeedbackStore persists sanitized feedback rows.
type FeedbackStore interface {
	InsertFeedback(ctx context.Context, row *models.FeedbackRow) error
}

// RequestMeta is the request context a submission arrives with.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

// SubmitResult describes an accepted submission. IssueID is nil when no issue record
// could be written; Stored is false when the database insert failed.
type SubmitResult struct {
	IssueID       *string
	PIICategories []string
	Stored        bool
}

// PIIRedacted reports whether the stored message differs from what the user sent.
func (r *SubmitResult) PIIRedacted() bool {
	return len(r.PIICategories) > 0
}

// FeedbackService runs the feedback pipeline: spam gate, PII redaction, issue record,
// database insert. Only the spam gate can fail a submission; everything after it is
// best effort.
type FeedbackService struct {
	gate     *SpamGate
	redactor *Redactor
	issues   IssueRecorder
	store    FeedbackStore
	logger   *observability.Logger
	now      func() time.Time
}

// NewFeedbackService creates a new FeedbackService instance.
func NewFeedbackService(gate *SpamGate, redactor *Redactor, issues IssueRecorder, store FeedbackStore, logger *observability.Logger) *FeedbackService {
	if gate == nil {
		panic("NewFeedbackService: gate is nil")
	}
	if redactor == nil {
		panic("NewFeedbackService: redactor is nil")
	}
	if issues == nil {
		panic("NewFeedbackService: issue recorder is nil")
	}
	if store == nil {
		panic("NewFeedbackService: store is nil")
	}
	if logger == nil {
		panic("NewFeedbackService: logger is nil")
	}
	return &FeedbackService{
		gate:     gate,
		redactor: redactor,
		issues:   issues,
		store:    store,
		logger:   logger,
		now:      time.Now,
	}
}

// Submit processes one submission. The returned error is always a *Rejection.
func (s *FeedbackService) Submit(ctx context.Context, sub models.FeedbackSubmission, meta RequestMeta) (*SubmitResult, error) {
	sub.ApplyDefaults()

	if rej := s.gate.Evaluate(ctx, &sub, meta.IPAddress); rej != nil {
		observability.FeedbackSubmissions.WithLabelValues("rejected").Inc()
		s.logger.Info("feedback rejected",
			zap.String("check", rej.Check),
			zap.String("ip_address", meta.IPAddress))
		return nil, rej
	}

	// Side effects below must finish even if the client goes away.
	ctx = context.WithoutCancel(ctx)

	redaction := s.redactor.Redact(sub.Message)
	for _, category := range redaction.Categories {
		observability.RedactionCategories.WithLabelValues(category).Inc()
	}

	result := &SubmitResult{PIICategories: redaction.Categories}

	issueID, err := s.issues.Record(ctx, IssueDraft{
		Message:       redaction.Text,
		FeedbackType:  sub.FeedbackType,
		PageURL:       sub.PageURL,
		PIICategories: redaction.Categories,
	})
	if err != nil {
		s.logger.Warn("issue record not created",
			zap.String("ip_address", meta.IPAddress), zap.Error(err))
	} else {
		result.IssueID = &issueID
	}

	row := &models.FeedbackRow{
		ID:           uuid.New(),
		CreatedAt:    s.now().UTC(),
		Message:      redaction.Text,
		PageURL:      sub.PageURL,
		FeedbackType: sub.FeedbackType,
		IPAddress:    meta.IPAddress,
		UserAgent:    meta.UserAgent,
		BeadsIssueID: result.IssueID,
	}
	if err := s.store.InsertFeedback(ctx, row); err != nil {
		observability.FeedbackPersist.WithLabelValues("failed").Inc()
		s.logger.Error("feedback row not stored",
			zap.String("feedback_id", row.ID.String()),
			zap.Stringp("beads_issue_id", result.IssueID),
			zap.Error(err))
	} else {
		observability.FeedbackPersist.WithLabelValues("stored").Inc()
		result.Stored = true
	}

	observability.FeedbackSubmissions.WithLabelValues("accepted").Inc()
	s.logger.Info("feedback accepted",
		zap.String("feedback_id", row.ID.String()),
		zap.Stringp("beads_issue_id", result.IssueID),
		zap.Strings("pii_categories", redaction.Categories),
		zap.Bool("stored", result.Stored))
	return result, nil
}
