// Package services отдает публичные страницы меню. Перед выдачей ссылки
// проверяется статус подписки владельца, прочитанный из базы при каждом
// запросе: деградация подписки видна немедленно, без кеша.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// ViewRepository определяет запрос цепочки владения для публичного просмотра.
type ViewRepository interface {
	GetUploadChain(ctx context.Context, uploadID string) (*models.UploadChain, error)
}

// ViewService отдает меню гостям по публичной ссылке из QR-кода.
type ViewService struct {
	repo ViewRepository
	log  *slog.Logger
}

// NewViewService создает новый экземпляр ViewService.
func NewViewService(repo ViewRepository, log *slog.Logger) *ViewService {
	return &ViewService{
		repo: repo,
		log:  log,
	}
}

// View возвращает загрузку для публичного просмотра. Если подписка владельца
// в статусе EXPIRED, возвращает errs.ErrForbidden и меню не отдается.
func (s *ViewService) View(ctx context.Context, uploadID string) (*models.Upload, error) {
	const op = "services.view.View"

	chain, err := s.repo.GetUploadChain(ctx, uploadID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if !chain.SubscriptionStatus.IsServeable() {
		s.log.Info("menu not served, owner subscription expired",
			slog.String("upload_id", uploadID))
		return nil, errs.ErrForbidden
	}

	return &chain.Upload, nil
}
