// Package errs определяет ошибки-маркеры, разделяющие отказы по их причине.
// Сервисы возвращают эти ошибки (обёрнутыми через %w), HTTP-слой сопоставляет
// их со статус-кодами через errors.Is. Отказ в доступе никогда не несёт деталей
// о существовании чужих ресурсов.
package errs

import "errors"

var (
	// ErrUnauthenticated — запрос без валидного credential.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden — субъект аутентифицирован, но не владеет ресурсом.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound — ресурс действительно отсутствует.
	ErrNotFound = errors.New("not found")
	// ErrValidation — некорректные входные данные.
	ErrValidation = errors.New("validation failed")
	// ErrSignatureInvalid — подпись webhook не прошла проверку.
	ErrSignatureInvalid = errors.New("invalid signature")
)
