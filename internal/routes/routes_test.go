package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edinfinite/aiworkshop-backend/internal/handlers"
	"github.com/edinfinite/aiworkshop-backend/internal/models"
	"github.com/edinfinite/aiworkshop-backend/internal/observability"
	"github.com/edinfinite/aiworkshop-backend/internal/services"
)

type discardStore struct{}

func (discardStore) InsertFeedback(context.Context, *models.FeedbackRow) error { return nil }

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	redactor, err := services.NewRedactor()
	require.NoError(t, err)
	logger := observability.NewNopLogger()
	svc := services.NewFeedbackService(
		services.NewSpamGate(services.NewMemoryCooldownLedger(30*time.Second), logger),
		redactor,
		services.NewFileIssueRecorder(t.TempDir()),
		discardStore{},
		logger,
	)

	r := chi.NewRouter()
	r.Use(chimw.StripSlashes)
	SetupRoutes(r, handlers.NewFeedbackHandler(svc))
	return r
}

func TestSetupRoutes(t *testing.T) {
	r := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/api/health", "", http.StatusOK},
		{http.MethodGet, "/api/standards/msde", "", http.StatusOK},
		{http.MethodGet, "/api/standards/csta/", "", http.StatusOK},
		{http.MethodGet, "/api/standards/crosswalk?alignment=strong", "", http.StatusOK},
		{http.MethodGet, "/api/lessons/", "", http.StatusOK},
		{http.MethodPost, "/api/lessons/generate", `{"grade_band":"6-8"}`, http.StatusOK},
		{http.MethodGet, "/api/search/?q=loops", "", http.StatusOK},
		{http.MethodPost, "/api/feedback/", `{"message":"The new unit on loops is great but could use more examples"}`, http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodGet, "/api/feedback", "", http.StatusMethodNotAllowed},
		{http.MethodGet, "/api/unknown", "", http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tc.status, w.Code)
		})
	}
}
