// Package services содержит бизнес-логику работы с аккаунтами:
// поиск аккаунта по subject токена и создание при первом появлении.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/qrmenu-backend/internal/identity"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
	"github.com/magabrotheeeer/qrmenu-backend/internal/storage"
)

// AccountRepository определяет методы для работы с аккаунтами в хранилище.
type AccountRepository interface {
	// GetAccount возвращает аккаунт по subject токена.
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	// CreateAccount создает новый аккаунт.
	CreateAccount(ctx context.Context, account models.Account) error
}

// ProfileFetcher запрашивает профиль пользователя у провайдера идентификации.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, rawToken string) (*identity.Profile, error)
}

// AccountService реализует создание аккаунта при первом появлении subject.
type AccountService struct {
	repo     AccountRepository
	profiles ProfileFetcher
	log      *slog.Logger
}

// NewAccountService создает новый экземпляр AccountService.
func NewAccountService(repo AccountRepository, profiles ProfileFetcher, log *slog.Logger) *AccountService {
	return &AccountService{
		repo:     repo,
		profiles: profiles,
		log:      log,
	}
}

// Resolve возвращает аккаунт для subject. Если аккаунт ещё не существует,
// запрашивает email у провайдера идентификации и создает запись со статусом TRIAL.
// Гонка двух одновременных первых запросов разрешается повторным чтением.
func (s *AccountService) Resolve(ctx context.Context, subject, rawToken string) (*models.Account, error) {
	const op = "services.account.Resolve"

	account, err := s.repo.GetAccount(ctx, subject)
	if err == nil {
		return account, nil
	}
	if !errors.Is(err, errs.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	profile, err := s.profiles.FetchProfile(ctx, rawToken)
	if err != nil {
		return nil, fmt.Errorf("%s: fetch profile: %w", op, err)
	}

	err = s.repo.CreateAccount(ctx, models.Account{
		ID:                 subject,
		Email:              profile.Email,
		SubscriptionStatus: models.StatusTrial,
	})
	switch {
	case err == nil:
		s.log.Info("provisioned new account", sl.Subject(subject))
	case errors.Is(err, storage.ErrDuplicate):
		// Соседний запрос успел создать аккаунт первым.
		s.log.Info("account already provisioned concurrently", sl.Subject(subject))
	default:
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	account, err = s.repo.GetAccount(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return account, nil
}
