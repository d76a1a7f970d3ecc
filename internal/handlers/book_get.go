package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
	"github.com/Odorikoma/booknest/internal/services"
)

// BookGetter defines the interface that the service must implement.
type BookGetter interface {
	Get(ctx context.Context, id int64) (*models.BookDB, error)
}

// NewGetBookHandler returns an HTTP handler for fetching a single book.
// @Summary Get book details
// @Tags books
// @Produce json
// @Param id path int true "Book ID"
// @Success 200 {object} handlers.Response "Book details"
// @Failure 404 {object} handlers.Response "Book not found"
// @Router /api/books/{id} [get]
func NewGetBookHandler(svc BookGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid book ID")
			return
		}

		book, err := svc.Get(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrBookNotFound):
				writeError(w, http.StatusNotFound, "Book not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to retrieve book details")
			}
			return
		}

		writeSuccess(w, http.StatusOK, book, "Successfully retrieved book details")
	}
}
