package handlers

import (
	"context"
	"net/http"

	"github.com/Odorikoma/booknest/internal/logger"
	"github.com/Odorikoma/booknest/internal/models"
)

// BorrowLister defines the interface that the service must implement.
type BorrowLister interface {
	ListAll(ctx context.Context, status *string) ([]models.BorrowDetail, error)
}

// NewListBorrowsHandler returns an HTTP handler for the administrative listing.
// @Summary List all borrow records
// @Description Returns every borrow record joined with book and user display fields, optionally filtered by status
// @Tags borrows
// @Produce json
// @Param borrow_status query string false "Status filter"
// @Success 200 {object} handlers.Response "Borrow records"
// @Security BearerAuth
// @Router /api/borrows [get]
func NewListBorrowsHandler(svc BorrowLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status *string
		if v := r.URL.Query().Get("borrow_status"); v != "" {
			status = &v
		}

		records, err := svc.ListAll(r.Context(), status)
		if err != nil {
			logger.Log.Errorw("internal server error", "err", err)
			writeError(w, http.StatusInternalServerError, "Failed to retrieve borrow records")
			return
		}

		if records == nil {
			records = []models.BorrowDetail{}
		}

		writeSuccess(w, http.StatusOK, records, "Successfully retrieved borrow records")
	}
}
