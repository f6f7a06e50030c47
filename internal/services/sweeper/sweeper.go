// Package services содержит фоновый процесс истечения подписок:
// перевод просроченных аккаунтов в EXPIRED и публикацию предупреждений
// о скором истечении в очередь уведомлений.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// AccountRepository определяет методы массового истечения подписок.
type AccountRepository interface {
	// ExpireTrialAccounts переводит в EXPIRED аккаунты с закончившимся пробным периодом.
	ExpireTrialAccounts(ctx context.Context, trialDays int) (int64, error)
	// ExpireAccountsPastEnd переводит в EXPIRED отменённые аккаунты после конца периода.
	ExpireAccountsPastEnd(ctx context.Context) (int64, error)
	// FindAccountsExpiringWithin возвращает аккаунты, подписка которых скоро истечёт.
	FindAccountsExpiringWithin(ctx context.Context, within time.Duration) ([]*models.ExpiryNotice, error)
}

// SweeperService периодически проставляет статус EXPIRED и рассылает предупреждения.
type SweeperService struct {
	repo       AccountRepository
	trialDays  int
	warnBefore time.Duration
	log        *slog.Logger
}

// NewSweeperService создает новый экземпляр SweeperService.
func NewSweeperService(repo AccountRepository, trialDays int, warnBefore time.Duration, log *slog.Logger) *SweeperService {
	return &SweeperService{
		repo:       repo,
		trialDays:  trialDays,
		warnBefore: warnBefore,
		log:        log,
	}
}

// Run выполняет проход сразу при старте и далее по тикеру до отмены контекста.
func (s *SweeperService) Run(ctx context.Context, interval time.Duration, channel rabbitmq.Channel) {
	s.runSweep(ctx, channel)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.runSweep(ctx, channel)
		case <-ctx.Done():
			return
		}
	}
}

func (s *SweeperService) runSweep(ctx context.Context, channel rabbitmq.Channel) {
	s.log.Info("starting subscription expiry sweep")

	expiredTrials, err := s.repo.ExpireTrialAccounts(ctx, s.trialDays)
	if err != nil {
		s.log.Error("failed to expire trial accounts", sl.Err(err))
	} else if expiredTrials > 0 {
		s.log.Info("expired trial accounts", slog.Int64("count", expiredTrials))
	}

	expiredCancelled, err := s.repo.ExpireAccountsPastEnd(ctx)
	if err != nil {
		s.log.Error("failed to expire cancelled accounts", sl.Err(err))
	} else if expiredCancelled > 0 {
		s.log.Info("expired cancelled accounts", slog.Int64("count", expiredCancelled))
	}

	notices, err := s.repo.FindAccountsExpiringWithin(ctx, s.warnBefore)
	if err != nil {
		s.log.Error("failed to find expiring accounts", sl.Err(err))
		return
	}
	if len(notices) == 0 {
		s.log.Info("no expiring accounts found")
		return
	}

	s.log.Info("found expiring accounts", slog.Int("count", len(notices)))
	for _, notice := range notices {
		err = rabbitmq.PublishMessage(channel, rabbitmq.NotificationsExchange, rabbitmq.RoutingKeyExpiring, notice)
		if err != nil {
			s.log.Error("failed to publish expiry notice", sl.Err(err))
		}
	}
}
