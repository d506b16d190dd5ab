package handlers

import (
	"encoding/json"
	"net/http"
)

// LessonRequest is the body of POST /api/lessons/generate.
type LessonRequest struct {
	GradeBand       string  `json:"grade_band" validate:"required"`
	AICategory      *string `json:"ai_category"`
	DurationMinutes int     `json:"duration_minutes"`
	Context         *string `json:"context"`
	OutputFormat    string  `json:"output_format"`
}

// GenerateLesson accepts a lesson request and echoes it back as pending.
func GenerateLesson(w http.ResponseWriter, r *http.Request) {
	req := LessonRequest{DurationMinutes: 45, OutputFormat: "markdown"}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "Invalid request body")
		return
	}
	if err := validate.Struct(&req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationDetail(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "pending",
		"message": "Lesson generation agent not yet connected (Phase 1)",
		"request": req,
	})
}

// ListLessons serves GET /api/lessons.
func ListLessons(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lessons": []interface{}{},
		"message": "Lesson storage not yet implemented (Phase 2)",
	})
}
