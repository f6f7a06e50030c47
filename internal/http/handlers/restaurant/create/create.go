// Package create реализует HTTP-обработчик создания ресторана.
//
// Handler принимает JSON-запрос с названием и логотипом ресторана,
// валидирует их и создает ресторан для текущего аккаунта.
package create

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/qrmenu-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/response"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// Handler управляет HTTP-запросами на создание ресторанов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания ресторана.
type Service interface {
	Create(ctx context.Context, subject string, req models.DummyRestaurant) (*models.Restaurant, error)
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
// @Summary Создать ресторан
// @Description Создает ресторан для текущего аккаунта и возвращает его.
// @Tags Restaurants
// @Accept json
// @Produce json
// @Param request body models.DummyRestaurant true "Данные ресторана"
// @Success 200 {object} response.Response "Созданный ресторан"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /restaurants [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.restaurant.create"
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

	restaurant, err := h.service.Create(r.Context(), subject, req)
	if err != nil {
		log.Error("failed to create restaurant", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create restaurant"))
		return
	}

	log.Info("success to create restaurant", slog.String("restaurant_id", restaurant.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"restaurant": restaurant,
	}))
}
