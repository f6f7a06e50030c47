package services

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/qrmenu-backend/internal/billing"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *RepoMock) SetAccountPaid(ctx context.Context, id, billingSubscriptionID string) error {
	return m.Called(ctx, id, billingSubscriptionID).Error(0)
}

func (m *RepoMock) SetAccountCancelled(ctx context.Context, id string, subscriptionEnd time.Time) error {
	return m.Called(ctx, id, subscriptionEnd).Error(0)
}

type ProviderMock struct{ mock.Mock }

func (m *ProviderMock) RetrieveSubscription(ctx context.Context, id string) (*billing.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func (m *ProviderMock) CancelAtPeriodEnd(ctx context.Context, id string) (*billing.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func checkoutEvent() *billing.Event {
	event := &billing.Event{
		ID:   "evt_1",
		Type: billing.EventCheckoutCompleted,
	}
	event.Data.Object = billing.EventObject{
		Subscription:      "sub_123",
		ClientReferenceID: "auth0|alice",
	}
	return event
}

func TestBillingService_ApplyEvent_CheckoutCompleted(t *testing.T) {
	repo := new(RepoMock)
	svc := NewBillingService(repo, new(ProviderMock), newNoopLogger())

	repo.On("SetAccountPaid", mock.Anything, "auth0|alice", "sub_123").Return(nil).Once()

	result, err := svc.ApplyEvent(context.Background(), checkoutEvent())
	require.NoError(t, err)
	assert.Equal(t, ResultApplied, result)

	repo.AssertExpectations(t)
}

func TestBillingService_ApplyEvent_RedeliveryIsIdempotent(t *testing.T) {
	repo := new(RepoMock)
	svc := NewBillingService(repo, new(ProviderMock), newNoopLogger())

	repo.On("SetAccountPaid", mock.Anything, "auth0|alice", "sub_123").Return(nil).Twice()

	for range 2 {
		result, err := svc.ApplyEvent(context.Background(), checkoutEvent())
		require.NoError(t, err)
		assert.Equal(t, ResultApplied, result)
	}
}

func TestBillingService_ApplyEvent_UnknownTypeIgnored(t *testing.T) {
	repo := new(RepoMock)
	svc := NewBillingService(repo, new(ProviderMock), newNoopLogger())

	result, err := svc.ApplyEvent(context.Background(), &billing.Event{ID: "evt_2", Type: "invoice.paid"})
	require.NoError(t, err)
	assert.Equal(t, ResultIgnored, result)

	repo.AssertNotCalled(t, "SetAccountPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestBillingService_ApplyEvent_MissingReference(t *testing.T) {
	repo := new(RepoMock)
	svc := NewBillingService(repo, new(ProviderMock), newNoopLogger())

	event := &billing.Event{ID: "evt_3", Type: billing.EventCheckoutCompleted}

	_, err := svc.ApplyEvent(context.Background(), event)
	assert.ErrorIs(t, err, errs.ErrValidation)
	repo.AssertNotCalled(t, "SetAccountPaid", mock.Anything, mock.Anything, mock.Anything)
}

func TestBillingService_Cancel(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	svc := NewBillingService(repo, provider, newNoopLogger())

	subID := "sub_123"
	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	repo.On("GetAccount", mock.Anything, "auth0|alice").Return(&models.Account{
		ID:                    "auth0|alice",
		SubscriptionStatus:    models.StatusPaid,
		BillingSubscriptionID: &subID,
	}, nil).Once()
	provider.On("RetrieveSubscription", mock.Anything, "sub_123").Return(&billing.Subscription{
		ID:               "sub_123",
		Status:           "active",
		CurrentPeriodEnd: periodEnd.Unix(),
	}, nil).Once()
	provider.On("CancelAtPeriodEnd", mock.Anything, "sub_123").Return(&billing.Subscription{
		ID:                "sub_123",
		CancelAtPeriodEnd: true,
		CurrentPeriodEnd:  periodEnd.Unix(),
	}, nil).Once()
	repo.On("SetAccountCancelled", mock.Anything, "auth0|alice", periodEnd).Return(nil).Once()

	end, err := svc.Cancel(context.Background(), "auth0|alice")
	require.NoError(t, err)
	assert.Equal(t, periodEnd, end)

	repo.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestBillingService_Cancel_AlreadyCancelledAtProvider(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	svc := NewBillingService(repo, provider, newNoopLogger())

	subID := "sub_123"
	periodEnd := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)

	repo.On("GetAccount", mock.Anything, "auth0|alice").Return(&models.Account{
		ID:                    "auth0|alice",
		SubscriptionStatus:    models.StatusPaid,
		BillingSubscriptionID: &subID,
	}, nil).Once()
	provider.On("RetrieveSubscription", mock.Anything, "sub_123").Return(&billing.Subscription{
		ID:                "sub_123",
		Status:            "active",
		CancelAtPeriodEnd: true,
		CurrentPeriodEnd:  periodEnd.Unix(),
	}, nil).Once()
	repo.On("SetAccountCancelled", mock.Anything, "auth0|alice", periodEnd).Return(nil).Once()

	end, err := svc.Cancel(context.Background(), "auth0|alice")
	require.NoError(t, err)
	assert.Equal(t, periodEnd, end)

	provider.AssertNotCalled(t, "CancelAtPeriodEnd", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestBillingService_Cancel_NoBillingSubscription(t *testing.T) {
	repo := new(RepoMock)
	provider := new(ProviderMock)
	svc := NewBillingService(repo, provider, newNoopLogger())

	repo.On("GetAccount", mock.Anything, "auth0|trial").Return(&models.Account{
		ID:                 "auth0|trial",
		SubscriptionStatus: models.StatusTrial,
	}, nil).Once()

	_, err := svc.Cancel(context.Background(), "auth0|trial")
	assert.ErrorIs(t, err, errs.ErrValidation)
	provider.AssertNotCalled(t, "CancelAtPeriodEnd", mock.Anything, mock.Anything)
}
