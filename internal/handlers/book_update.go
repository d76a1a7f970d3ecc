package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/services"
)

// BookUpdater defines the interface that the service must implement.
type BookUpdater interface {
	Update(ctx context.Context, id int64, title, author, description string, stock int, coverImageURL *string, price float64) error
}

// NewUpdateBookHandler returns an HTTP handler for replacing a book's mutable fields.
// @Summary Update a book
// @Tags books
// @Accept json
// @Produce json
// @Param id path int true "Book ID"
// @Param bookRequest body handlers.BookRequest true "Book fields"
// @Success 200 {object} handlers.Response "Book updated successfully"
// @Failure 400 {object} handlers.Response "Missing required field"
// @Failure 404 {object} handlers.Response "Book not found"
// @Security BearerAuth
// @Router /api/books/{id} [put]
func NewUpdateBookHandler(svc BookUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid book ID")
			return
		}

		var req BookRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if field := req.missingField(); field != "" {
			writeError(w, http.StatusBadRequest, "Missing required field: "+field)
			return
		}

		err := svc.Update(r.Context(), id, *req.Title, *req.Author, *req.Description, *req.Stock, req.CoverImageURL, req.price())
		if err != nil {
			switch {
			case errors.Is(err, services.ErrBookNotFound):
				writeError(w, http.StatusNotFound, "Book not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to update book")
			}
			return
		}

		writeSuccess(w, http.StatusOK, nil, "Book updated successfully")
	}
}
