// Package models содержит доменные структуры аккаунта, ресторана и загруженного меню,
// используемые в бизнес-логике и при работе с хранилищем.
package models

import "time"

// SubscriptionStatus описывает состояние подписки аккаунта.
type SubscriptionStatus string

const (
	// StatusTrial — пробный период, выдаётся при первом входе.
	StatusTrial SubscriptionStatus = "TRIAL"
	// StatusPaid — оплаченная подписка.
	StatusPaid SubscriptionStatus = "PAID"
	// StatusExpired — подписка истекла, контент не отдаётся.
	StatusExpired SubscriptionStatus = "EXPIRED"
	// StatusCancelled — подписка отменена, но действует до даты окончания.
	StatusCancelled SubscriptionStatus = "CANCELLED"
)

// IsServeable сообщает, можно ли отдавать контент аккаунта посетителям.
// Запрещён только статус EXPIRED: отмена подписки — это отложенное истечение,
// а не мгновенная блокировка.
func (s SubscriptionStatus) IsServeable() bool {
	return s != StatusExpired
}

// Account представляет аккаунт владельца ресторанов.
// Идентификатором служит subject внешнего identity-провайдера,
// запись создаётся лениво при первом валидном запросе.
type Account struct {
	ID                    string             `json:"id"` // subject identity-провайдера
	Email                 string             `json:"email"`
	SubscriptionStatus    SubscriptionStatus `json:"subscription_status"`
	SubscriptionEnd       *time.Time         `json:"subscription_end,omitempty"`        // дата окончания подписки
	BillingSubscriptionID *string            `json:"billing_subscription_id,omitempty"` // id подписки у платёжного провайдера
	CreatedAt             time.Time          `json:"created_at"`
}

// ExpiryNotice — сообщение для очереди уведомлений об истекающей подписке.
type ExpiryNotice struct {
	Email              string             `json:"email"`
	SubscriptionStatus SubscriptionStatus `json:"subscription_status"`
	SubscriptionEnd    time.Time          `json:"subscription_end"`
}
