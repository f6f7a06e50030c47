// Package webhook реализует HTTP-обработчик событий платежного провайдера.
//
// Подпись заголовка Stripe-Signature проверяется по сырому телу запроса
// до разбора JSON. Событие с невалидной подписью отбрасывается с 400.
package webhook

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/qrmenu-backend/internal/billing"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/response"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	billingservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/billing"
)

// MaxPayloadSize — максимальный размер тела webhook-запроса.
const MaxPayloadSize = 64 << 10

// SignatureHeader — заголовок с подписью события.
const SignatureHeader = "Stripe-Signature"

// Handler управляет webhook-запросами платежного провайдера.
type Handler struct {
	log           *slog.Logger
	service       Service
	webhookSecret string
}

// Service описывает интерфейс применения webhook-события к аккаунту.
type Service interface {
	ApplyEvent(ctx context.Context, event *billing.Event) (billingservice.Result, error)
}

// New создает новый Handler с переданными логгером, сервисом и секретом подписи.
func New(log *slog.Logger, service Service, webhookSecret string) *Handler {
	return &Handler{
		log:           log,
		service:       service,
		webhookSecret: webhookSecret,
	}
}

// ServeHTTP godoc
// @Summary Webhook платежного провайдера
// @Description Принимает события оплаты, проверяет подпись и обновляет статус аккаунта.
// @Tags Billing
// @Accept json
// @Produce json
// @Param Stripe-Signature header string true "Подпись события"
// @Success 200 {object} response.Response "Событие обработано"
// @Failure 400 {object} response.ErrorResponse "Невалидная подпись"
// @Failure 422 {object} response.ErrorResponse "Событие без ссылки на аккаунт"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /webhooks/stripe [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.billing.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxPayloadSize))
	if err != nil {
		log.Error("failed to read webhook payload", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid payload"))
		return
	}

	event, err := billing.ConstructEvent(payload, r.Header.Get(SignatureHeader), h.webhookSecret, billing.DefaultTolerance)
	if err != nil {
		log.Error("webhook signature verification failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid signature"))
		return
	}

	result, err := h.service.ApplyEvent(r.Context(), event)
	if err != nil {
		if errors.Is(err, errs.ErrValidation) {
			log.Error("webhook event rejected", slog.String("event_id", event.ID), sl.Err(err))
		} else {
			log.Error("failed to apply webhook event", sl.Err(err))
		}
		w.WriteHeader(response.ErrorStatus(err))
		render.JSON(w, r, response.Error(response.ErrorText(err)))
		return
	}

	log.Info("webhook event processed",
		slog.String("event_id", event.ID),
		slog.String("result", string(result)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"result": result,
	}))
}
