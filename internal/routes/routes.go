package routes

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/edinfinite/aiworkshop-backend/internal/handlers"
)

func SetupRoutes(r *chi.Mux, feedback *handlers.FeedbackHandler) {
	r.Get("/api/health", handlers.Health)

	// Curriculum standards (placeholders)
	r.Get("/api/standards/msde", handlers.ListMSDEStandards)
	r.Get("/api/standards/csta", handlers.ListCSTAPriorities)
	r.Get("/api/standards/crosswalk", handlers.GetCrosswalk)

	// Lessons (placeholders)
	r.Post("/api/lessons/generate", handlers.GenerateLesson)
	r.Get("/api/lessons", handlers.ListLessons)

	// Search (placeholder)
	r.Get("/api/search", handlers.Search)

	// Feedback
	r.Post("/api/feedback", feedback.SubmitFeedback)

	r.Handle("/metrics", promhttp.Handler())
}
