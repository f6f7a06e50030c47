// Package view реализует публичный HTTP-обработчик просмотра меню.
//
// Handler не требует аутентификации: ссылку открывают гости ресторана
// по QR-коду. Статус подписки владельца проверяется при каждом запросе.
package view

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/qrmenu-backend/internal/http/response"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// Handler управляет публичными запросами на просмотр меню.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики публичного просмотра.
type Service interface {
	View(ctx context.Context, uploadID string) (*models.Upload, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Открыть меню по QR-коду
// @Description Возвращает ссылку на файл меню. Если подписка владельца истекла, меню недоступно.
// @Tags View
// @Produce json
// @Param uploadID path string true "ID загрузки"
// @Success 200 {object} response.Response "Ссылка на меню"
// @Failure 403 {object} response.ErrorResponse "Подписка владельца истекла"
// @Failure 404 {object} response.ErrorResponse "Меню не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /view/{uploadID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.view.view"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uploadID := chi.URLParam(r, "uploadID")

	upload, err := h.service.View(r.Context(), uploadID)
	if err != nil {
		if errors.Is(err, errs.ErrForbidden) || errors.Is(err, errs.ErrNotFound) {
			log.Info("menu not served", slog.String("upload_id", uploadID), sl.Err(err))
		} else {
			log.Error("failed to serve menu", sl.Err(err))
		}
		w.WriteHeader(response.ErrorStatus(err))
		render.JSON(w, r, response.Error(response.ErrorText(err)))
		return
	}

	log.Info("menu served", slog.String("upload_id", uploadID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"url":      upload.CDNURL,
		"doc_type": upload.DocType,
		"name":     upload.Name,
	}))
}
