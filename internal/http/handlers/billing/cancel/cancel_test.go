package cancel

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/qrmenu-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
)

// MockService реализует интерфейс cancel.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Cancel(ctx context.Context, subject string) (time.Time, error) {
	args := m.Called(ctx, subject)
	return args.Get(0).(time.Time), args.Error(1)
}

func TestCancelHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name           string
		subject        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешная отмена",
			subject: "auth0|alice",
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, "auth0|alice").Return(periodEnd, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"subscription_end":"2026-10-01T00:00:00Z"`,
		},
		{
			name:    "нет активной подписки",
			subject: "auth0|trial",
			setupMock: func(m *MockService) {
				m.On("Cancel", mock.Anything, "auth0|trial").Return(time.Time{}, errs.ErrValidation)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `"error":"validation failed"`,
		},
		{
			name:           "без subject запрос отклоняется",
			subject:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/cancel-subscription", nil)
			if tt.subject != "" {
				req = req.WithContext(context.WithValue(req.Context(), middlewarectx.Subject, tt.subject))
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			mockService.AssertExpectations(t)
		})
	}
}
