// Package remove реализует HTTP-обработчик удаления загрузки меню.
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

// Handler управляет HTTP-запросами на удаление загрузок.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления загрузки.
type Service interface {
	Remove(ctx context.Context, subject, restaurantID, uploadID string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить загрузку меню
// @Description Удаляет файл из хранилища и запись о загрузке.
// @Tags Uploads
// @Produce json
// @Param restaurantID path string true "ID ресторана"
// @Param uploadID path string true "ID загрузки"
// @Success 200 {object} response.Response "Загрузка удалена"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Загрузка принадлежит другому аккаунту"
// @Failure 404 {object} response.ErrorResponse "Загрузка не найдена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /restaurants/{restaurantID}/uploads/{uploadID} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upload.remove"
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
	uploadID := chi.URLParam(r, "uploadID")

	if err := h.service.Remove(r.Context(), subject, restaurantID, uploadID); err != nil {
		if errors.Is(err, errs.ErrForbidden) || errors.Is(err, errs.ErrNotFound) {
			log.Info("delete denied", slog.String("upload_id", uploadID), sl.Err(err))
		} else {
			log.Error("failed to delete upload", sl.Err(err))
		}
		w.WriteHeader(response.ErrorStatus(err))
		render.JSON(w, r, response.Error(response.ErrorText(err)))
		return
	}

	log.Info("success to delete upload", slog.String("upload_id", uploadID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"upload_id": uploadID,
	}))
}
