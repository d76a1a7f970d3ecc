package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
)

// UserSearcher defines the interface that the service must implement.
type UserSearcher interface {
	Search(ctx context.Context, query string) ([]models.UserInfo, error)
}

// NewSearchUsersHandler returns an HTTP handler for user search.
// @Summary Search users
// @Description Case-insensitive substring match on username or email
// @Tags users
// @Produce json
// @Param query query string true "Search query"
// @Success 200 {object} handlers.Response "Matching users"
// @Failure 400 {object} handlers.Response "Query parameter required"
// @Router /api/search [get]
func NewSearchUsersHandler(svc UserSearcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("query"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "Query parameter required")
			return
		}

		users, err := svc.Search(r.Context(), query)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Search failed")
			return
		}

		writeSuccess(w, http.StatusOK, users, "")
	}
}
