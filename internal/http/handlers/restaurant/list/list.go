// Package list реализует HTTP-обработчик списка ресторанов аккаунта.
//
// Handler извлекает subject из контекста запроса и возвращает рестораны
// аккаунта вместе с их загрузками.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/qrmenu-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/response"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// Handler управляет HTTP-запросами на получение списка ресторанов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики списка ресторанов.
type Service interface {
	List(ctx context.Context, subject string) ([]*models.Restaurant, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Список ресторанов аккаунта
// @Description Возвращает рестораны текущего аккаунта вместе с загрузками меню.
// @Tags Restaurants
// @Produce json
// @Success 200 {object} response.Response "Список ресторанов"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /restaurants [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.restaurant.list"
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

	restaurants, err := h.service.List(r.Context(), subject)
	if err != nil {
		log.Error("failed to list restaurants", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list restaurants"))
		return
	}

	log.Info("success to list restaurants", slog.Int("count", len(restaurants)))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"restaurants": restaurants,
	}))
}
