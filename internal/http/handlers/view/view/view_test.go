package view

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// MockService реализует интерфейс view.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) View(ctx context.Context, uploadID string) (*models.Upload, error) {
	args := m.Called(ctx, uploadID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Upload), args.Error(1)
}

func TestViewHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		uploadID       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "меню отдается гостю",
			uploadID: "up-1",
			setupMock: func(m *MockService) {
				m.On("View", mock.Anything, "up-1").Return(&models.Upload{
					ID:      "up-1",
					Name:    "menu.pdf",
					DocType: "pdf",
					CDNURL:  "https://cdn/menu.pdf",
				}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"url":"https://cdn/menu.pdf"`,
		},
		{
			name:     "подписка владельца истекла",
			uploadID: "up-2",
			setupMock: func(m *MockService) {
				m.On("View", mock.Anything, "up-2").Return(nil, errs.ErrForbidden)
			},
			expectedStatus: http.StatusForbidden,
			expectedBody:   `{"status":"Error","error":"forbidden"}`,
		},
		{
			name:     "несуществующая загрузка",
			uploadID: "up-x",
			setupMock: func(m *MockService) {
				m.On("View", mock.Anything, "up-x").Return(nil, errs.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"status":"Error","error":"not found"}`,
		},
		{
			name:     "ошибка базы",
			uploadID: "up-3",
			setupMock: func(m *MockService) {
				m.On("View", mock.Anything, "up-3").Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"status":"Error","error":"internal error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/view/"+tt.uploadID, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uploadID", tt.uploadID)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
