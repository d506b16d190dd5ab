package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/edinfinite/aiworkshop-backend/internal/models"
	"github.com/edinfinite/aiworkshop-backend/internal/services"
	"github.com/edinfinite/aiworkshop-backend/pkg/clientip"
)

const maxFeedbackBodyBytes = 64 << 10

// SubmitFeedbackResponse represents the response after submitting feedback
type SubmitFeedbackResponse struct {
	Success      bool    `json:"success"`
	Message      string  `json:"message"`
	BeadsIssueID *string `json:"beads_issue_id"`
	PIIRedacted  bool    `json:"pii_redacted"`
}

// FeedbackHandler serves POST /api/feedback.
type FeedbackHandler struct {
	service *services.FeedbackService
}

func NewFeedbackHandler(service *services.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// SubmitFeedback validates the body, runs the feedback pipeline and maps spam gate
// rejections to 422 (validation) or 429 (cooldown). Once past the gate the response
// is always 200, even if the issue file or database row could not be written.
func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackSubmission
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxFeedbackBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	req.ApplyDefaults()

	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationDetail(err))
		return
	}

	source := clientip.RealClientIP(r)
	if source == "" {
		source = "unknown"
	}

	res, err := h.service.Submit(r.Context(), req, services.RequestMeta{
		IPAddress: source,
		UserAgent: r.Header.Get("User-Agent"),
	})
	if err != nil {
		var rej *services.Rejection
		if errors.As(err, &rej) && rej.Kind == services.RejectionThrottled {
			if rej.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(rej.RetryAfter.Seconds())))
			}
			writeError(w, http.StatusTooManyRequests, rej.Reason)
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, SubmitFeedbackResponse{
		Success:      true,
		Message:      "Thank you for your feedback!",
		BeadsIssueID: res.IssueID,
		PIIRedacted:  res.PIIRedacted(),
	})
}
