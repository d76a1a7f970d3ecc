package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/middlewares"
	"github.com/Odorikoma/booknest/internal/services"
)

// BorrowRequester defines the interface that the service must implement.
type BorrowRequester interface {
	CreateRequest(ctx context.Context, userID, bookID int64, notes *string) (int64, error)
}

// BorrowRequest represents the JSON body for a borrow request
// swagger:model BorrowRequest
type BorrowRequest struct {
	// Book to borrow
	// required: true
	BookID *int64 `json:"book_id"`

	// Optional free-text notes
	Notes *string `json:"notes"`
}

// BorrowCreatedData carries the id of the new borrow record.
// swagger:model BorrowCreatedData
type BorrowCreatedData struct {
	BorrowID int64 `json:"borrow_id"`
}

// NewCreateBorrowHandler returns an HTTP handler for opening a borrow request.
// @Summary Request to borrow a book
// @Description Creates a borrow record in requested state. Stock is reserved only when an admin moves it to borrowed.
// @Tags borrows
// @Accept json
// @Produce json
// @Param borrowRequest body handlers.BorrowRequest true "Borrow request"
// @Success 201 {object} handlers.Response "Borrow request submitted"
// @Failure 400 {object} handlers.Response "Insufficient stock / already borrowed"
// @Failure 404 {object} handlers.Response "Book not found"
// @Security BearerAuth
// @Router /api/borrows [post]
func NewCreateBorrowHandler(svc BorrowRequester) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middlewares.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, "Authorization token required")
			return
		}

		var req BorrowRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.BookID == nil {
			writeError(w, http.StatusBadRequest, "Missing required field: book_id")
			return
		}

		id, err := svc.CreateRequest(r.Context(), userID, *req.BookID, req.Notes)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrBookNotFound):
				writeError(w, http.StatusNotFound, "Book not found")
			case errors.Is(err, services.ErrInsufficientStock):
				writeError(w, http.StatusBadRequest, "Insufficient stock")
			case errors.Is(err, services.ErrAlreadyBorrowed):
				writeError(w, http.StatusBadRequest, "You have already borrowed this book")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to create borrow request")
			}
			return
		}

		writeSuccess(w, http.StatusCreated, BorrowCreatedData{BorrowID: id}, "Borrow request submitted successfully")
	}
}
