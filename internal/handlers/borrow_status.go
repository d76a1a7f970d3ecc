package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/services"
)

// BorrowStatusSetter defines the interface that the service must implement.
type BorrowStatusSetter interface {
	SetStatus(ctx context.Context, recordID int64, status string, notes *string) error
}

// BorrowStatusRequest represents the JSON body for the administrative
// status transition
// swagger:model BorrowStatusRequest
type BorrowStatusRequest struct {
	// New status: requested, borrowed or returned
	// required: true
	BorrowStatus *string `json:"borrow_status"`

	// Optional free-text notes stored with the transition
	Notes *string `json:"notes"`
}

// NewUpdateBorrowStatusHandler returns an HTTP handler for the admin transition.
// @Summary Update borrow status
// @Description Moving requested->borrowed reserves one copy; borrowed->returned releases it and stamps the return date.
// @Tags borrows
// @Accept json
// @Produce json
// @Param id path int true "Borrow record ID"
// @Param statusRequest body handlers.BorrowStatusRequest true "Status update"
// @Success 200 {object} handlers.Response "Borrow status updated successfully"
// @Failure 400 {object} handlers.Response "Missing/invalid status or insufficient stock"
// @Failure 404 {object} handlers.Response "Borrow record not found"
// @Security BearerAuth
// @Router /api/borrows/{id}/borrow_status [put]
func NewUpdateBorrowStatusHandler(svc BorrowStatusSetter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := parseIDParam(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "Invalid borrow record ID")
			return
		}

		var req BorrowStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if req.BorrowStatus == nil {
			writeError(w, http.StatusBadRequest, "Missing required field: borrow_status")
			return
		}

		err := svc.SetStatus(r.Context(), id, *req.BorrowStatus, req.Notes)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrRecordNotFound):
				writeError(w, http.StatusNotFound, "Borrow record not found")
			case errors.Is(err, services.ErrInvalidStatus):
				writeError(w, http.StatusBadRequest, "Invalid borrow status")
			case errors.Is(err, services.ErrInsufficientStock):
				writeError(w, http.StatusBadRequest, "Insufficient stock")
			default:
				logger.Log.Errorw("internal server error", "err", err)
				writeError(w, http.StatusInternalServerError, "Failed to update borrow status")
			}
			return
		}

		writeSuccess(w, http.StatusOK, nil, "Borrow status updated successfully")
	}
}
