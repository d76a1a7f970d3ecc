package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
)

// BookCreator defines the interface that the service must implement.
type BookCreator interface {
	Create(ctx context.Context, title, author, description string, stock int, coverImageURL *string, price float64) (int64, error)
}

// NewCreateBookHandler returns an HTTP handler for adding a catalog entry.
// @Summary Create a book
// @Tags books
// @Accept json
// @Produce json
// @Param bookRequest body handlers.BookRequest true "Book fields"
// @Success 201 {object} handlers.Response "Book created successfully"
// @Failure 400 {object} handlers.Response "Missing required field"
// @Failure 401 {object} handlers.Response "Unauthorized"
// @Security BearerAuth
// @Router /api/books [post]
func NewCreateBookHandler(svc BookCreator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookRequest

		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		if field := req.missingField(); field != "" {
			writeError(w, http.StatusBadRequest, "Missing required field: "+field)
			return
		}

		_, err := svc.Create(r.Context(), *req.Title, *req.Author, *req.Description, *req.Stock, req.CoverImageURL, req.price())
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to create book")
			return
		}

		writeSuccess(w, http.StatusCreated, nil, "Book created successfully")
	}
}
