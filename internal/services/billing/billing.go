// Package services приводит статус подписки аккаунта в соответствие
// с событиями платежного провайдера и обрабатывает отмену подписки.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/qrmenu-backend/internal/billing"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// AccountRepository определяет методы изменения статуса подписки аккаунта.
type AccountRepository interface {
	// GetAccount возвращает аккаунт по subject токена.
	GetAccount(ctx context.Context, id string) (*models.Account, error)
	// SetAccountPaid переводит аккаунт в статус PAID.
	SetAccountPaid(ctx context.Context, id, billingSubscriptionID string) error
	// SetAccountCancelled переводит аккаунт в статус CANCELLED с датой окончания.
	SetAccountCancelled(ctx context.Context, id string, subscriptionEnd time.Time) error
}

// Provider выполняет запросы к платежному провайдеру.
type Provider interface {
	RetrieveSubscription(ctx context.Context, id string) (*billing.Subscription, error)
	CancelAtPeriodEnd(ctx context.Context, id string) (*billing.Subscription, error)
}

// Result — исход обработки webhook-события.
type Result string

// Исходы обработки события: Applied — статус аккаунта изменён,
// Ignored — тип события не обрабатывается.
const (
	ResultApplied Result = "applied"
	ResultIgnored Result = "ignored"
)

// BillingService обрабатывает события оплаты и отмену подписки.
type BillingService struct {
	repo     AccountRepository
	provider Provider
	log      *slog.Logger
}

// NewBillingService создает новый экземпляр BillingService.
func NewBillingService(repo AccountRepository, provider Provider, log *slog.Logger) *BillingService {
	return &BillingService{
		repo:     repo,
		provider: provider,
		log:      log,
	}
}

// ApplyEvent применяет проверенное webhook-событие к аккаунту.
// Запись статуса абсолютна, поэтому повторная доставка события
// приводит аккаунт в то же состояние.
func (s *BillingService) ApplyEvent(ctx context.Context, event *billing.Event) (Result, error) {
	const op = "services.billing.ApplyEvent"

	switch event.Type {
	case billing.EventCheckoutCompleted:
		object := event.Data.Object
		if object.ClientReferenceID == "" || object.Subscription == "" {
			return ResultIgnored, fmt.Errorf("%s: event %s has no account reference: %w",
				op, event.ID, errs.ErrValidation)
		}
		if err := s.repo.SetAccountPaid(ctx, object.ClientReferenceID, object.Subscription); err != nil {
			return ResultIgnored, fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("account marked paid",
			sl.Subject(object.ClientReferenceID),
			slog.String("event_id", event.ID))
		return ResultApplied, nil
	default:
		s.log.Info("ignoring billing event", slog.String("type", event.Type), slog.String("event_id", event.ID))
		return ResultIgnored, nil
	}
}

// Cancel запрашивает у провайдера отмену подписки в конце оплаченного периода
// и возвращает дату, до которой меню продолжат обслуживаться.
func (s *BillingService) Cancel(ctx context.Context, subject string) (time.Time, error) {
	const op = "services.billing.Cancel"

	account, err := s.repo.GetAccount(ctx, subject)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	if account.BillingSubscriptionID == nil {
		return time.Time{}, fmt.Errorf("%s: account has no active billing subscription: %w",
			op, errs.ErrValidation)
	}

	subscription, err := s.provider.RetrieveSubscription(ctx, *account.BillingSubscriptionID)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	// Повторный запрос отмены не отправляется, если провайдер уже
	// зафиксировал её: достаточно записать дату окончания у себя.
	if !subscription.CancelAtPeriodEnd {
		subscription, err = s.provider.CancelAtPeriodEnd(ctx, *account.BillingSubscriptionID)
		if err != nil {
			return time.Time{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	subscriptionEnd := time.Unix(subscription.CurrentPeriodEnd, 0).UTC()
	if err := s.repo.SetAccountCancelled(ctx, subject, subscriptionEnd); err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription cancelled at period end",
		sl.Subject(subject),
		slog.Time("subscription_end", subscriptionEnd))
	return subscriptionEnd, nil
}
