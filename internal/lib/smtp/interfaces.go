// Package smtp реализует почтовый транспорт для отправки уведомлений
// владельцам аккаунтов.
package smtp

import "io"

// Client — минимальный интерфейс SMTP-сессии, позволяющий подменять
// реального клиента в тестах.
type Client interface {
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}
