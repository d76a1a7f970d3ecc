package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCreateBookHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("success", func(t *testing.T) {
		mockSvc := NewMockBookCreator(ctrl)
		mockSvc.EXPECT().
			Create(gomock.Any(), "Dune", "Frank Herbert", "Desert planet", 3, (*string)(nil), 12.5).
			Return(int64(11), nil)

		handler := NewCreateBookHandler(mockSvc)

		bodyBytes, _ := json.Marshal(BookRequest{
			Title:       strPtr("Dune"),
			Author:      strPtr("Frank Herbert"),
			Description: strPtr("Desert planet"),
			Stock:       intPtr(3),
			Price:       floatPtr(12.5),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(bodyBytes))
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var resp Response
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "Book created successfully", resp.Message)
	})

	t.Run("price defaults to zero", func(t *testing.T) {
		mockSvc := NewMockBookCreator(ctrl)
		mockSvc.EXPECT().
			Create(gomock.Any(), "Free Book", "Anon", "No price", 1, (*string)(nil), 0.0).
			Return(int64(12), nil)

		handler := NewCreateBookHandler(mockSvc)

		bodyBytes, _ := json.Marshal(BookRequest{
			Title:       strPtr("Free Book"),
			Author:      strPtr("Anon"),
			Description: strPtr("No price"),
			Stock:       intPtr(1),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(bodyBytes))
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)
	})

	t.Run("missing required fields", func(t *testing.T) {
		tests := []struct {
			field string
			body  BookRequest
		}{
			{"title", BookRequest{Author: strPtr("a"), Description: strPtr("d"), Stock: intPtr(1)}},
			{"author", BookRequest{Title: strPtr("t"), Description: strPtr("d"), Stock: intPtr(1)}},
			{"description", BookRequest{Title: strPtr("t"), Author: strPtr("a"), Stock: intPtr(1)}},
			{"stock", BookRequest{Title: strPtr("t"), Author: strPtr("a"), Description: strPtr("d")}},
		}

		for _, tt := range tests {
			t.Run(tt.field, func(t *testing.T) {
				handler := NewCreateBookHandler(NewMockBookCreator(ctrl))

				bodyBytes, _ := json.Marshal(tt.body)
				req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(bodyBytes))
				rr := httptest.NewRecorder()
				handler(rr, req)

				assert.Equal(t, http.StatusBadRequest, rr.Code)

				var resp Response
				assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, "Missing required field: "+tt.field, resp.Message)
			})
		}
	})

	t.Run("invalid json", func(t *testing.T) {
		handler := NewCreateBookHandler(NewMockBookCreator(ctrl))

		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBufferString("{broken"))
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("service error", func(t *testing.T) {
		mockSvc := NewMockBookCreator(ctrl)
		mockSvc.EXPECT().
			Create(gomock.Any(), "t", "a", "d", 1, (*string)(nil), 0.0).
			Return(int64(0), errors.New("db error"))

		handler := NewCreateBookHandler(mockSvc)

		bodyBytes, _ := json.Marshal(BookRequest{
			Title: strPtr("t"), Author: strPtr("a"), Description: strPtr("d"), Stock: intPtr(1),
		})
		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBuffer(bodyBytes))
		rr := httptest.NewRecorder()
		handler(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
