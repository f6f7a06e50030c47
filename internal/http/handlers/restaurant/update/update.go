// Package update реализует HTTP-обработчик обновления ресторана.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/qrmenu-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/response"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// Handler управляет HTTP-запросами на обновление ресторанов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления ресторана.
type Service interface {
	Update(ctx context.Context, subject, restaurantID string, req models.DummyRestaurant) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Обновить ресторан
// @Description Обновляет название и логотип ресторана текущего аккаунта.
// @Tags Restaurants
// @Accept json
// @Produce json
// @Param restaurantID path string true "ID ресторана"
// @Param request body models.DummyRestaurant true "Новые данные ресторана"
// @Success 200 {object} response.Response "Ресторан обновлен"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Ресторан принадлежит другому аккаунту"
// @Failure 404 {object} response.ErrorResponse "Ресторан не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /restaurants/{restaurantID} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.restaurant.update"
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

	var req models.DummyRestaurant
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	if err := h.service.Update(r.Context(), subject, restaurantID, req); err != nil {
		if errors.Is(err, errs.ErrForbidden) || errors.Is(err, errs.ErrNotFound) {
			log.Info("update denied", slog.String("restaurant_id", restaurantID), sl.Err(err))
		} else {
			log.Error("failed to update restaurant", sl.Err(err))
		}
		w.WriteHeader(response.ErrorStatus(err))
		render.JSON(w, r, response.Error(response.ErrorText(err)))
		return
	}

	log.Info("success to update restaurant", slog.String("restaurant_id", restaurantID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"restaurant_id": restaurantID,
	}))
}
