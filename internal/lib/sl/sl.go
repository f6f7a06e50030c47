// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — единообразное формирование структурированных полей лога.
package sl

import "log/slog"

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Subject возвращает slog.Attr с идентификатором аккаунта,
// чтобы поле называлось одинаково во всех обработчиках.
func Subject(id string) slog.Attr {
	return slog.Attr{
		Key:   "subject",
		Value: slog.StringValue(id),
	}
}
