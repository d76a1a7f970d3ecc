package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/services"
)

// BookDeleter defines the interface that the service must implement.
type BookDeleter interface {
	Delete(ctx context.Context, id int64) error
}

// NewDeleteBookHandler returns an HTTP handler for removing a book.
// @Summary Delete a book
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} handlers.Response "Book deleted successfully"
// @Failure 404 {object} handlers.Response "Book not found"
// @Security BearerAuth
// @Router /api/books/{id} [delete]
func NewDeleteBookHandler(svc BookDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid book ID")
			return
		}

		err := svc.Delete(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrBookNotFound):
				writeError(w, http.StatusNotFound, "Book not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to delete book")
			}
			return
		}

		writeSuccess(w, http.StatusOK, nil, "Book deleted successfully")
	}
}
