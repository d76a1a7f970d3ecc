package handlers

import (
	"context"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
)

// BookLister defines the interface that the service must implement.
type BookLister interface {
	List(ctx context.Context, title, author *string) ([]models.BookDB, error)
}

// NewListBooksHandler returns an HTTP handler for the filtered catalog listing.
// @Summary List books
// @Description Returns all books matching the optional case-insensitive title and author filters, newest first
// @Tags books
// @Produce json
// @Param title query string false "Title substring filter"
// @Param author query string false "Author substring filter"
// @Success 200 {object} handlers.Response "Book list"
// @Router /api/books [get]
func NewListBooksHandler(svc BookLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var title, author *string
		if v := r.URL.Query().Get("title"); v != "" {
			title = &v
		}
		if v := r.URL.Query().Get("author"); v != "" {
			author = &v
		}

		books, err := svc.List(r.Context(), title, author)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve book list")
			return
		}

		if books == nil {
			books = []models.BookDB{}
		}

		writeSuccess(w, http.StatusOK, books, "Successfully retrieved book list")
	}
}
