package handlers

import "net/http"

// Version is reported by the health endpoint.
const Version = "0.1.0"

// Health reports liveness. It does not touch the database.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": Version})
}
