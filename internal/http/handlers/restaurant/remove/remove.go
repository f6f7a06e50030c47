// Package remove реализует HTTP-обработчик удаления ресторана.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/qrmenu-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/response"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
)

// Handler управляет HTTP-запросами на удаление ресторанов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления ресторана.
type Service interface {
	Delete(ctx context.Context, subject, restaurantID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить ресторан
// @Description Удаляет ресторан текущего аккаунта вместе с загрузками меню.
// @Tags Restaurants
// @Produce json
// @Param restaurantID path string true "ID ресторана"
// @Success 200 {object} response.Response "Ресторан удален"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Ресторан принадлежит другому аккаунту"
// @Failure 404 {object} response.ErrorResponse "Ресторан не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /restaurants/{restaurantID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.restaurant.remove"
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

	restaurantID := chi.URLParam(r, "restaurantID")

	if err := h.service.Delete(r.Context(), subject, restaurantID); err != nil {
		if errors.Is(err, errs.ErrForbidden) || errors.Is(err, errs.ErrNotFound) {
			log.Info("delete denied", slog.String("restaurant_id", restaurantID), sl.Err(err))
		} else {
			log.Error("failed to delete restaurant", sl.Err(err))
		}
		w.WriteHeader(response.ErrorStatus(err))
		render.JSON(w, r, response.Error(response.ErrorText(err)))
		return
	}

	log.Info("success to delete restaurant", slog.String("restaurant_id", restaurantID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"restaurant_id": restaurantID,
	}))
}
