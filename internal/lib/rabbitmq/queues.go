package rabbitmq

// NotificationsExchange — exchange для уведомлений аккаунтам.
const NotificationsExchange = "notifications"

// RoutingKeyExpiring — ключ маршрутизации предупреждений об истечении подписки.
const RoutingKeyExpiring = "expiring"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые слушает notification-sender.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notification.expiring", RoutingKey: RoutingKeyExpiring},
	}
}
