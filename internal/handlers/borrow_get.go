package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
	"github.com/Odorikoma/booknest/internal/services"
)

// BorrowGetter defines the interface that the service must implement.
type BorrowGetter interface {
	Get(ctx context.Context, recordID int64) (*models.BorrowDB, error)
}

// NewGetBorrowHandler returns an HTTP handler for fetching a single borrow record.
// @Summary Get borrow record details
// @Tags borrows
// @Produce json
// @Param id path int true "Borrow record ID"
// @Success 200 {object} handlers.Response "Borrow record"
// @Failure 404 {object} handlers.Response "Borrow record not found"
// @Router /api/borrows/{id} [get]
func NewGetBorrowHandler(svc BorrowGetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid borrow record ID")
			return
		}

		record, err := svc.Get(r.Context(), id)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrRecordNotFound):
				writeError(w, http.StatusNotFound, "Borrow record not found")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to retrieve borrow record")
			}
			return
		}

		writeSuccess(w, http.StatusOK, record, "Successfully retrieved borrow record")
	}
}
