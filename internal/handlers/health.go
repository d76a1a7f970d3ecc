package handlers

import "net/http"

// NewHealthHandler returns the health-check handler.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} handlers.Response
// @Router /api/health [get]
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, Response{Success: true})
	}
}
