package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// GetAccount возвращает аккаунт по идентификатору subject.
func (s *Storage) GetAccount(ctx context.Context, id string) (*models.Account, error) {
	const op = "storage.GetAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, email, subscription_status, subscription_end,
			      billing_subscription_id, created_at
			  FROM accounts
			  WHERE id = $1`
	a := &models.Account{}
	row := s.DB.QueryRowContext(ctx, query, id)

	var subscriptionEnd sql.NullTime
	var billingSubscriptionID sql.NullString
	if err := row.Scan(&a.ID, &a.Email, &a.SubscriptionStatus, &subscriptionEnd,
		&billingSubscriptionID, &a.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if subscriptionEnd.Valid {
		a.SubscriptionEnd = &subscriptionEnd.Time
	}
	if billingSubscriptionID.Valid {
		a.BillingSubscriptionID = &billingSubscriptionID.String
	}
	return a, nil
}

// CreateAccount сохраняет новый аккаунт. При нарушении уникального ключа
// возвращает ErrDuplicate: гонка первого входа разрешается повторным чтением.
func (s *Storage) CreateAccount(ctx context.Context, account models.Account) error {
	const op = "storage.CreateAccount"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO accounts (id, email, subscription_status)
			  VALUES ($1, $2, $3)`
	if _, err := s.DB.ExecContext(ctx, query,
		account.ID, account.Email, account.SubscriptionStatus); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SetAccountPaid переводит аккаунт в статус PAID и записывает id подписки
// платёжного провайдера. Запись абсолютная, повторная доставка того же
// события даёт то же конечное состояние.
func (s *Storage) SetAccountPaid(ctx context.Context, id, billingSubscriptionID string) error {
	const op = "storage.SetAccountPaid"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET subscription_status = $1,
			      billing_subscription_id = $2,
			      subscription_end = NULL
			  WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, models.StatusPaid, billingSubscriptionID, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// SetAccountCancelled помечает подписку отменённой и сохраняет дату окончания,
// полученную от платёжного провайдера. Статус остаётся обслуживаемым до этой даты.
func (s *Storage) SetAccountCancelled(ctx context.Context, id string, subscriptionEnd time.Time) error {
	const op = "storage.SetAccountCancelled"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET subscription_status = $1,
			      subscription_end = $2
			  WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, models.StatusCancelled, subscriptionEnd, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// ExpireAccountsPastEnd переводит в EXPIRED аккаунты, чья дата окончания
// подписки уже прошла. Возвращает число изменённых записей.
func (s *Storage) ExpireAccountsPastEnd(ctx context.Context) (int64, error) {
	const op = "storage.ExpireAccountsPastEnd"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET subscription_status = $1
			  WHERE subscription_status IN ($2, $3)
			    AND subscription_end IS NOT NULL
			    AND subscription_end < CURRENT_DATE`
	res, err := s.DB.ExecContext(ctx, query,
		models.StatusExpired, models.StatusPaid, models.StatusCancelled)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// ExpireTrialAccounts переводит в EXPIRED аккаунты с пробным периодом,
// созданные раньше, чем trialDays дней назад.
func (s *Storage) ExpireTrialAccounts(ctx context.Context, trialDays int) (int64, error) {
	const op = "storage.ExpireTrialAccounts"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE accounts
			  SET subscription_status = $1
			  WHERE subscription_status = $2
			    AND created_at < now() - make_interval(days => $3)`
	res, err := s.DB.ExecContext(ctx, query, models.StatusExpired, models.StatusTrial, trialDays)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// FindAccountsExpiringWithin находит аккаунты, чья подписка закончится
// в ближайший интервал, для отправки предупреждений.
func (s *Storage) FindAccountsExpiringWithin(ctx context.Context, within time.Duration) ([]*models.ExpiryNotice, error) {
	const op = "storage.FindAccountsExpiringWithin"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT email, subscription_status, subscription_end
			  FROM accounts
			  WHERE subscription_end IS NOT NULL
			    AND subscription_end >= CURRENT_DATE
			    AND subscription_end < CURRENT_DATE + make_interval(secs => $1)`
	rows, err := s.DB.QueryContext(ctx, query, within.Seconds())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.ExpiryNotice
	for rows.Next() {
		var n models.ExpiryNotice
		if err = rows.Scan(&n.Email, &n.SubscriptionStatus, &n.SubscriptionEnd); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &n)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
