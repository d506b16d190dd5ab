package models

import (
	"time"

	"github.com/google/uuid"
)

// FeedbackType is the category a user picks on the feedback form.
type FeedbackType string

const (
	FeedbackGeneral    FeedbackType = "general"
	FeedbackSuggestion FeedbackType = "suggestion"
	FeedbackBug        FeedbackType = "bug"
	FeedbackQuestion   FeedbackType = "question"
)

// IssueCategory is the label shown on an issue record for this feedback type.
func (t FeedbackType) IssueCategory() string {
	switch t {
	case FeedbackBug:
		return "Bug"
	case FeedbackSuggestion:
		return "Enhancement"
	case FeedbackQuestion:
		return "Question"
	default:
		return "Feedback"
	}
}

// FeedbackSubmission is one incoming form post. It is never stored as-is.
type FeedbackSubmission struct {
	Message      string       `json:"message" validate:"required,min=1,max=5000"`
	PageURL      *string      `json:"page_url,omitempty"`
	FeedbackType FeedbackType `json:"feedback_type" validate:"oneof=general suggestion bug question"`
	Honeypot     string       `json:"honeypot"`
	OpenedAt     float64      `json:"opened_at"` // epoch seconds when the form opened, 0 if unknown
}

// ApplyDefaults fills the fields the form may omit.
func (s *FeedbackSubmission) ApplyDefaults() {
	if s.FeedbackType == "" {
		s.FeedbackType = FeedbackGeneral
	}
}

// FeedbackRow is the sanitized record written to the feedback table.
type FeedbackRow struct {
	ID           uuid.UUID
	CreatedAt    time.Time
	Message      string
	PageURL      *string
	FeedbackType FeedbackType
	IPAddress    string
	UserAgent    string
	BeadsIssueID *string
}
