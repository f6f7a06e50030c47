package middlewarectx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/qrmenu-backend/internal/http/response"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// AccountResolver возвращает аккаунт для subject, создавая его при первом появлении.
type AccountResolver interface {
	Resolve(ctx context.Context, subject, rawToken string) (*models.Account, error)
}

// AccountMiddleware гарантирует, что для каждого аутентифицированного запроса
// существует аккаунт: первый запрос нового subject создает запись со статусом
// TRIAL. Анонимные запросы проходят без изменений.
func AccountMiddleware(resolver AccountResolver, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.AccountMiddleware"

			subject, ok := r.Context().Value(Subject).(string)
			if !ok || subject == "" {
				next.ServeHTTP(w, r)
				return
			}
			rawToken, _ := r.Context().Value(RawToken).(string)

			if _, err := resolver.Resolve(r.Context(), subject, rawToken); err != nil {
				log := log.With(
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				log.Error("failed to resolve account", sl.Subject(subject), sl.Err(err))
				render.Status(r, http.StatusInternalServerError)
				render.JSON(w, r, response.Error("internal error"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
