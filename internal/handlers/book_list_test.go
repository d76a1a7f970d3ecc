package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/Odorikoma/booknest/internal/models"
)

func TestListBooksHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("no filters", func(t *testing.T) {
		mockSvc := NewMockBookLister(ctrl)
		mockSvc.EXPECT().
			List(gomock.Any(), (*string)(nil), (*string)(nil)).
			Return([]models.BookDB{{ID: 1, Title: "Dune"}}, nil)

		handler := NewListBooksHandler(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var resp struct {
			Success bool            `json:"success"`
			Data    []models.BookDB `json:"data"`
			Message string          `json:"message"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Len(t, resp.Data, 1)
		assert.Equal(t, "Successfully retrieved book list", resp.Message)
	})

	t.Run("title and author filters forwarded", func(t *testing.T) {
		mockSvc := NewMockBookLister(ctrl)
		mockSvc.EXPECT().
			List(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, title, author *string) ([]models.BookDB, error) {
				assert.NotNil(t, title)
				assert.NotNil(t, author)
				assert.Equal(t, "dune", *title)
				assert.Equal(t, "herbert", *author)
				return nil, nil
			})

		handler := NewListBooksHandler(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/api/books?title=dune&author=herbert", nil)
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("nil result becomes empty list", func(t *testing.T) {
		mockSvc := NewMockBookLister(ctrl)
		mockSvc.EXPECT().
			List(gomock.Any(), (*string)(nil), (*string)(nil)).
			Return(nil, nil)

		handler := NewListBooksHandler(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"data":[]`)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc := NewMockBookLister(ctrl)
		mockSvc.EXPECT().
			List(gomock.Any(), (*string)(nil), (*string)(nil)).
			Return(nil, errors.New("db error"))

		handler := NewListBooksHandler(mockSvc)

		req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
