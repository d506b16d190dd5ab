package handlers

import (
	"net/http"
	"strconv"
)

type searchQuery struct {
	Q     string `query:"q" validate:"required"`
	Limit int    `query:"limit" validate:"gte=1,lte=50"`
}

// Search serves GET /api/search?q=&limit=. Results stay empty until vector search
// is connected.
func Search(w http.ResponseWriter, r *http.Request) {
	query := searchQuery{Q: r.URL.Query().Get("q"), Limit: 10}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusUnprocessableEntity, "limit must be an integer")
			return
		}
		query.Limit = limit
	}
	if err := validate.Struct(&query); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationDetail(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   query.Q,
		"results": []interface{}{},
		"message": "Vector search not yet connected (Phase 2)",
	})
}
