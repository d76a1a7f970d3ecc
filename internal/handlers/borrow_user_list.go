package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
	"github.com/Odorikoma/booknest/internal/services"
)

// UserBorrowsLister defines the interface that the service must implement.
type UserBorrowsLister interface {
	ListByUser(ctx context.Context, userID int64) ([]models.BorrowWithBook, error)
}

// NewListUserBorrowsHandler returns an HTTP handler for a user's borrow history.
// @Summary List a user's borrow records
// @Tags borrows
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} handlers.Response "Borrowing history"
// @Failure 404 {object} handlers.Response "User does not exist"
// @Security BearerAuth
// @Router /api/borrows/user/{id} [get]
func NewListUserBorrowsHandler(svc UserBorrowsLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := parseIDParam(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid user ID")
			return
		}

		records, err := svc.ListByUser(r.Context(), userID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrUserNotFound):
				writeError(w, http.StatusNotFound, "User does not exist")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to retrieve borrowing history")
			}
			return
		}

		if records == nil {
			records = []models.BorrowWithBook{}
		}

		writeSuccess(w, http.StatusOK, records, "Successfully retrieved borrowing history")
	}
}
