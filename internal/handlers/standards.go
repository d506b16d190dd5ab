package handlers

import "net/http"

// Standards, crosswalk and lessons are placeholders until the curriculum data is
// loaded. Filters are accepted and ignored.

// ListMSDEStandards serves GET /api/standards/msde?grade_band=&concept=
func ListMSDEStandards(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"standards": []interface{}{},
		"message":   "Standards data loading (Phase 1)",
	})
}

// ListCSTAPriorities serves GET /api/standards/csta?category=&grade_band=
func ListCSTAPriorities(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"priorities": []interface{}{},
		"message":    "CSTA data loading (Phase 1)",
	})
}

// GetCrosswalk serves GET /api/standards/crosswalk?msde_code=&csta_category=&alignment=
func GetCrosswalk(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"crosswalk": []interface{}{},
		"message":   "Crosswalk not yet generated (Phase 1)",
	})
}
