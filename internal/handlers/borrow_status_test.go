package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/Odorikoma/booknest/internal/models"
	"github.com/Odorikoma/booknest/internal/services"
)

func TestUpdateBorrowStatusHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	serve := func(svc BorrowStatusSetter, target string, body interface{}) *httptest.ResponseRecorder {
		router := chi.NewRouter()
		router.Put("/api/borrows/{id}/borrow_status", NewUpdateBorrowStatusHandler(svc))

		bodyBytes, _ := json.Marshal(body)
		req := httptest.NewRequest(http.MethodPut, target, bytes.NewBuffer(bodyBytes))
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		return rr
	}

	t.Run("success", func(t *testing.T) {
		mockSvc := NewMockBorrowStatusSetter(ctrl)
		mockSvc.EXPECT().
			SetStatus(gomock.Any(), int64(42), models.BorrowStatusBorrowed, (*string)(nil)).
			Return(nil)

		rr := serve(mockSvc, "/api/borrows/42/borrow_status", BorrowStatusRequest{
			BorrowStatus: strPtr(models.BorrowStatusBorrowed),
		})

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp Response
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Borrow status updated successfully", resp.Message)
	})

	t.Run("missing borrow_status", func(t *testing.T) {
		rr := serve(NewMockBorrowStatusSetter(ctrl), "/api/borrows/42/borrow_status", BorrowStatusRequest{})

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp Response
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Missing required field: borrow_status", resp.Message)
	})

	t.Run("invalid status", func(t *testing.T) {
		mockSvc := NewMockBorrowStatusSetter(ctrl)
		mockSvc.EXPECT().
			SetStatus(gomock.Any(), int64(42), "vanished", (*string)(nil)).
			Return(services.ErrInvalidStatus)

		rr := serve(mockSvc, "/api/borrows/42/borrow_status", BorrowStatusRequest{
			BorrowStatus: strPtr("vanished"),
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp Response
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Invalid borrow status", resp.Message)
	})

	t.Run("record not found", func(t *testing.T) {
		mockSvc := NewMockBorrowStatusSetter(ctrl)
		mockSvc.EXPECT().
			SetStatus(gomock.Any(), int64(43), models.BorrowStatusBorrowed, (*string)(nil)).
			Return(services.ErrRecordNotFound)

		rr := serve(mockSvc, "/api/borrows/43/borrow_status", BorrowStatusRequest{
			BorrowStatus: strPtr(models.BorrowStatusBorrowed),
		})

		assert.Equal(t, http.StatusNotFound, rr.Code)

		var resp Response
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Borrow record not found", resp.Message)
	})

	t.Run("insufficient stock on approval", func(t *testing.T) {
		mockSvc := NewMockBorrowStatusSetter(ctrl)
		mockSvc.EXPECT().
			SetStatus(gomock.Any(), int64(44), models.BorrowStatusBorrowed, (*string)(nil)).
			Return(services.ErrInsufficientStock)

		rr := serve(mockSvc, "/api/borrows/44/borrow_status", BorrowStatusRequest{
			BorrowStatus: strPtr(models.BorrowStatusBorrowed),
		})

		assert.Equal(t, http.StatusBadRequest, rr.Code)

		var resp Response
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "Insufficient stock", resp.Message)
	})

	t.Run("invalid record id", func(t *testing.T) {
		rr := serve(NewMockBorrowStatusSetter(ctrl), "/api/borrows/abc/borrow_status", BorrowStatusRequest{
			BorrowStatus: strPtr(models.BorrowStatusBorrowed),
		})
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
