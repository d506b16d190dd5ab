package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FeedbackSubmissions counts submissions by final outcome (accepted, rejected).
	FeedbackSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_submissions_total",
		Help: "Feedback submissions by outcome",
	}, []string{"outcome"})

	// FeedbackRejections counts spam gate rejections by the check that fired.
	FeedbackRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_rejections_total",
		Help: "Feedback submissions rejected by the spam gate, by check",
	}, []string{"check"})

	// IssueRecords counts issue file writes by result (created, failed).
	IssueRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_issue_records_total",
		Help: "Issue record file writes by result",
	}, []string{"result"})

	// FeedbackPersist counts feedback row inserts by result (stored, failed).
	FeedbackPersist = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_persist_total",
		Help: "Feedback database inserts by result",
	}, []string{"result"})

	// RedactionCategories counts redacted PII categories.
	RedactionCategories = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "feedback_pii_redactions_total",
		Help: "PII categories redacted from feedback messages",
	}, []string{"category"})
)
