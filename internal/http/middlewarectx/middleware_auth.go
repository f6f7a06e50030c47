// Package middlewarectx содержит HTTP middleware для проверки bearer-токенов.
//
// AuthMiddleware проверяет подпись токена из заголовка Authorization ключами
// провайдера идентификации и кладет subject токена в контекст запроса.
// Запрос без заголовка Authorization проходит дальше анонимным: решение
// о том, обязательна ли аутентификация, принимает обработчик маршрута.
package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/qrmenu-backend/internal/auth"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/response"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
)

// Key тип для ключей контекста HTTP-запроса.
type Key string

const (
	// Subject — ключ для subject токена в контексте.
	Subject Key = "subject"
	// RawToken — ключ для исходного bearer-токена в контексте.
	// Нужен для запроса профиля у провайдера при первом появлении subject.
	RawToken Key = "raw_token"
)

// Verifier проверяет подпись и claims bearer-токена.
type Verifier interface {
	Verify(ctx context.Context, rawToken string) (*auth.Claims, error)
}

// AuthMiddleware возвращает HTTP middleware, который проверяет bearer-токен.
//
// Невалидный токен — 401. Недоступность ключей провайдера — 503: отказ
// инфраструктуры не выдается за отказ в доступе.
func AuthMiddleware(verifier Verifier, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AuthMiddleware"

			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			if !strings.HasPrefix(authHeader, "Bearer ") {
				log.Error("malformed authorization header")
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}
			rawToken := strings.TrimPrefix(authHeader, "Bearer ")

			claims, err := verifier.Verify(r.Context(), rawToken)
			if err != nil {
				if errors.Is(err, auth.ErrKeysetUnavailable) {
					log.Error("identity provider keyset unavailable", sl.Err(err))
					render.Status(r, http.StatusServiceUnavailable)
					render.JSON(w, r, response.Error("identity provider unavailable"))
					return
				}
				log.Error("invalid or expired token", sl.Err(err))
				render.Status(r, http.StatusUnauthorized)
				render.JSON(w, r, response.Error("unauthorized"))
				return
			}

			ctx := context.WithValue(r.Context(), Subject, claims.Subject)
			ctx = context.WithValue(ctx, RawToken, rawToken)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
