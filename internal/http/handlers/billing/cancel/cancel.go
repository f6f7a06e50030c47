// Package cancel реализует HTTP-обработчик отмены подписки.
//
// Подписка отменяется в конце оплаченного периода: до этой даты
// меню аккаунта продолжают обслуживаться.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/qrmenu-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/response"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
)

// Handler управляет HTTP-запросами на отмену подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены подписки.
type Service interface {
	Cancel(ctx context.Context, subject string) (time.Time, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Отменить подписку
// @Description Отменяет подписку в конце оплаченного периода и возвращает дату окончания.
// @Tags Billing
// @Produce json
// @Success 200 {object} response.Response "Дата окончания подписки"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "У аккаунта нет активной подписки"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /cancel-subscription [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	subject, ok := r.Context().Value(middlewarectx.Subject).(string)
	if !ok || subject == "" {
		log.Error("subject not found in context")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	subscriptionEnd, err := h.service.Cancel(r.Context(), subject)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			log.Info("cancel rejected, no active subscription", sl.Subject(subject))
		} else {
			log.Error("failed to cancel subscription", sl.Err(err))
		}
		w.WriteHeader(response.ErrorStatus(err))
		render.JSON(w, r, response.Error(response.ErrorText(err)))
		return
	}

	log.Info("subscription cancelled", sl.Subject(subject))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"subscription_end": subscriptionEnd.Format(time.RFC3339),
	}))
}
