package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/middlewares"
	"github.com/Odorikoma/booknest/internal/services"
)

// BookReturner defines the interface that the service must implement.
type BookReturner interface {
	Return(ctx context.Context, recordID, callerID int64) error
}

// NewReturnBookHandler returns an HTTP handler for the self-service return.
// @Summary Return a borrowed book
// @Description Only the record's owner may return it, and only from borrowed state.
// @Tags borrows
// @Produce json
// @Param id path int true "Borrow record ID"
// @Success 200 {object} handlers.Response "Book returned successfully"
// @Failure 400 {object} handlers.Response "This book is not currently borrowed"
// @Failure 403 {object} handlers.Response "Not the record owner"
// @Failure 404 {object} handlers.Response "Borrow record not found"
// @Security BearerAuth
// @Router /api/borrows/{id}/return [put]
func NewReturnBookHandler(svc BookReturner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		callerID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authorization token required")
			return
		}

		id, ok := parseIDParam(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid borrow record ID")
			return
		}

		err := svc.Return(r.Context(), id, callerID)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrRecordNotFound):
				writeError(w, http.StatusNotFound, "Borrow record not found")
			case errors.Is(err, services.ErrNotRecordOwner):
				writeError(w, http.StatusForbidden, "You can only return your own borrowed books")
			case errors.Is(err, services.ErrNotBorrowed):
				writeError(w, http.StatusBadRequest, "This book is not currently borrowed")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to return book")
			}
			return
		}

		writeSuccess(w, http.StatusOK, nil, "Book returned successfully")
	}
}
