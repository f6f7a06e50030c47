// Package services проверяет цепочку владения ресурсами:
// upload принадлежит restaurant, restaurant принадлежит account.
// Проверка выполняется заново при каждом вызове, результат не кешируется.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// OwnershipRepository определяет запросы цепочки владения.
type OwnershipRepository interface {
	// GetRestaurantOwner возвращает account_id владельца ресторана.
	GetRestaurantOwner(ctx context.Context, restaurantID string) (string, error)
	// GetUploadChain возвращает загрузку вместе с владельцем и статусом подписки.
	GetUploadChain(ctx context.Context, uploadID string) (*models.UploadChain, error)
}

// Authorizer проверяет принадлежность ресурсов аккаунту.
type Authorizer struct {
	repo OwnershipRepository
}

// NewAuthorizer создает новый экземпляр Authorizer.
func NewAuthorizer(repo OwnershipRepository) *Authorizer {
	return &Authorizer{repo: repo}
}

// AuthorizeRestaurant возвращает errs.ErrNotFound, если ресторан не существует,
// и errs.ErrForbidden, если он принадлежит другому аккаунту.
func (a *Authorizer) AuthorizeRestaurant(ctx context.Context, subject, restaurantID string) error {
	const op = "services.ownership.AuthorizeRestaurant"

	owner, err := a.repo.GetRestaurantOwner(ctx, restaurantID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.ErrNotFound
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	if owner != subject {
		return errs.ErrForbidden
	}
	return nil
}

// AuthorizeUpload проверяет всю цепочку upload -> restaurant -> account
// и возвращает её для дальнейшей работы с загрузкой.
func (a *Authorizer) AuthorizeUpload(ctx context.Context, subject, restaurantID, uploadID string) (*models.UploadChain, error) {
	const op = "services.ownership.AuthorizeUpload"

	chain, err := a.repo.GetUploadChain(ctx, uploadID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if chain.AccountID != subject {
		return nil, errs.ErrForbidden
	}
	if chain.RestaurantID != restaurantID {
		// Загрузка существует, но привязана к другому ресторану того же аккаунта.
		return nil, errs.ErrNotFound
	}
	return chain, nil
}
