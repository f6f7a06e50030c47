package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/qrmenu-backend/internal/identity"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
	"github.com/magabrotheeeer/qrmenu-backend/internal/storage"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Account), args.Error(1)
}

func (m *RepoMock) CreateAccount(ctx context.Context, account models.Account) error {
	return m.Called(ctx, account).Error(0)
}

type ProfileMock struct{ mock.Mock }

func (m *ProfileMock) FetchProfile(ctx context.Context, rawToken string) (*identity.Profile, error) {
	args := m.Called(ctx, rawToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Profile), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func TestAccountService_Resolve_Existing(t *testing.T) {
	repo := new(RepoMock)
	profiles := new(ProfileMock)
	svc := NewAccountService(repo, profiles, newNoopLogger())

	existing := &models.Account{ID: "auth0|abc", Email: "owner@example.com", SubscriptionStatus: models.StatusPaid}
	repo.On("GetAccount", mock.Anything, "auth0|abc").Return(existing, nil).Once()

	account, err := svc.Resolve(context.Background(), "auth0|abc", "raw-token")
	require.NoError(t, err)
	assert.Equal(t, existing, account)

	profiles.AssertNotCalled(t, "FetchProfile", mock.Anything, mock.Anything)
	repo.AssertExpectations(t)
}

func TestAccountService_Resolve_ProvisionsTrial(t *testing.T) {
	repo := new(RepoMock)
	profiles := new(ProfileMock)
	svc := NewAccountService(repo, profiles, newNoopLogger())

	created := &models.Account{ID: "auth0|new", Email: "new@example.com", SubscriptionStatus: models.StatusTrial}

	repo.On("GetAccount", mock.Anything, "auth0|new").Return(nil, errs.ErrNotFound).Once()
	profiles.On("FetchProfile", mock.Anything, "raw-token").
		Return(&identity.Profile{Sub: "auth0|new", Email: "new@example.com"}, nil).Once()
	repo.On("CreateAccount", mock.Anything, models.Account{
		ID:                 "auth0|new",
		Email:              "new@example.com",
		SubscriptionStatus: models.StatusTrial,
	}).Return(nil).Once()
	repo.On("GetAccount", mock.Anything, "auth0|new").Return(created, nil).Once()

	account, err := svc.Resolve(context.Background(), "auth0|new", "raw-token")
	require.NoError(t, err)
	assert.Equal(t, models.StatusTrial, account.SubscriptionStatus)
	assert.Equal(t, "new@example.com", account.Email)

	repo.AssertExpectations(t)
	profiles.AssertExpectations(t)
}

func TestAccountService_Resolve_ConcurrentProvisioning(t *testing.T) {
	repo := new(RepoMock)
	profiles := new(ProfileMock)
	svc := NewAccountService(repo, profiles, newNoopLogger())

	winner := &models.Account{ID: "auth0|race", Email: "race@example.com", SubscriptionStatus: models.StatusTrial}

	repo.On("GetAccount", mock.Anything, "auth0|race").Return(nil, errs.ErrNotFound).Once()
	profiles.On("FetchProfile", mock.Anything, "raw-token").
		Return(&identity.Profile{Sub: "auth0|race", Email: "race@example.com"}, nil).Once()
	repo.On("CreateAccount", mock.Anything, mock.Anything).Return(storage.ErrDuplicate).Once()
	repo.On("GetAccount", mock.Anything, "auth0|race").Return(winner, nil).Once()

	account, err := svc.Resolve(context.Background(), "auth0|race", "raw-token")
	require.NoError(t, err)
	assert.Equal(t, winner, account)

	repo.AssertExpectations(t)
}

func TestAccountService_Resolve_ProfileUnavailable(t *testing.T) {
	repo := new(RepoMock)
	profiles := new(ProfileMock)
	svc := NewAccountService(repo, profiles, newNoopLogger())

	repo.On("GetAccount", mock.Anything, "auth0|down").Return(nil, errs.ErrNotFound).Once()
	profiles.On("FetchProfile", mock.Anything, "raw-token").
		Return(nil, errors.New("userinfo: status 503")).Once()

	_, err := svc.Resolve(context.Background(), "auth0|down", "raw-token")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errs.ErrUnauthenticated)

	repo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything)
}
