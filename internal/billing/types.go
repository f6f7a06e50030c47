package billing

// Event — событие жизненного цикла подписки от платёжного провайдера.
// Поле Type определяет вид события, Data.Object несёт провайдер-специфичные поля.
type Event struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object EventObject `json:"object"`
	} `json:"data"`
}

// EventObject — полезные поля объекта события.
type EventObject struct {
	Subscription      string `json:"subscription"`        // id подписки у провайдера
	ClientReferenceID string `json:"client_reference_id"` // id аккаунта в нашей системе
	CurrentPeriodEnd  int64  `json:"current_period_end"`  // unix-время конца оплаченного периода
}

// EventCheckoutCompleted — событие успешной оплаты checkout-сессии.
const EventCheckoutCompleted = "checkout.session.completed"

// Subscription — подписка на стороне платёжного провайдера.
type Subscription struct {
	ID                string `json:"id"`
	Status            string `json:"status"`
	CancelAtPeriodEnd bool   `json:"cancel_at_period_end"`
	CurrentPeriodEnd  int64  `json:"current_period_end"`
}
