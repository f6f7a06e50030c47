package webhook

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/qrmenu-backend/internal/billing"
	billingservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/billing"
)

const testSecret = "whsec_test"

// MockService реализует интерфейс webhook.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ApplyEvent(ctx context.Context, event *billing.Event) (billingservice.Result, error) {
	args := m.Called(ctx, event)
	return args.Get(0).(billingservice.Result), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestWebhookHandler_ValidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed","data":{"object":{"subscription":"sub_123","client_reference_id":"auth0|alice"}}}`)

	mockService := new(MockService)
	mockService.On("ApplyEvent", mock.Anything, mock.MatchedBy(func(e *billing.Event) bool {
		return e.ID == "evt_1" && e.Data.Object.Subscription == "sub_123"
	})).Return(billingservice.ResultApplied, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set(SignatureHeader, billing.Sign(payload, testSecret, time.Now()))

	rr := httptest.NewRecorder()
	New(newNoopLogger(), mockService, testSecret).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"result":"applied"`)
	mockService.AssertExpectations(t)
}

func TestWebhookHandler_InvalidSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)

	mockService := new(MockService)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set(SignatureHeader, billing.Sign(payload, "whsec_other", time.Now()))

	rr := httptest.NewRecorder()
	New(newNoopLogger(), mockService, testSecret).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid signature")
	mockService.AssertNotCalled(t, "ApplyEvent", mock.Anything, mock.Anything)
}

func TestWebhookHandler_TamperedPayload(t *testing.T) {
	signed := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	tampered := []byte(`{"id":"evt_666","type":"checkout.session.completed"}`)

	mockService := new(MockService)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(tampered))
	req.Header.Set(SignatureHeader, billing.Sign(signed, testSecret, time.Now()))

	rr := httptest.NewRecorder()
	New(newNoopLogger(), mockService, testSecret).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	mockService.AssertNotCalled(t, "ApplyEvent", mock.Anything, mock.Anything)
}

func TestWebhookHandler_IgnoredEventStillOK(t *testing.T) {
	payload := []byte(`{"id":"evt_2","type":"invoice.paid","data":{"object":{}}}`)

	mockService := new(MockService)
	mockService.On("ApplyEvent", mock.Anything, mock.Anything).Return(billingservice.ResultIgnored, nil)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/stripe", bytes.NewReader(payload))
	req.Header.Set(SignatureHeader, billing.Sign(payload, testSecret, time.Now()))

	rr := httptest.NewRecorder()
	New(newNoopLogger(), mockService, testSecret).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"result":"ignored"`)
}
