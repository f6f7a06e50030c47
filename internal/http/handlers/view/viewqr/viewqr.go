// Package viewqr реализует HTTP-обработчик показа QR-кода меню.
//
// Возвращает PNG 512x512 без отступов для встраивания в личный кабинет.
package viewqr

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
	"github.com/magabrotheeeer/qrmenu-backend/internal/qr"
)

// ImageSize — размер стороны PNG c QR-кодом для просмотра.
const ImageSize = qr.ViewSize

// Handler управляет запросами на показ QR-кода.
type Handler struct {
	log       *slog.Logger
	service   Service
	generator Generator
}

// Service проверяет существование загрузки и статус подписки владельца.
type Service interface {
	View(ctx context.Context, uploadID string) (*models.Upload, error)
}

// Generator рендерит QR-код с публичной ссылкой на меню.
type Generator interface {
	Render(ctx context.Context, uploadID string, size int, border bool) ([]byte, error)
}

// New создает новый Handler с переданными логгером, сервисом и генератором.
func New(log *slog.Logger, service Service, generator Generator) *Handler {
	return &Handler{
		log:       log,
		service:   service,
		generator: generator,
	}
}

// ServeHTTP godoc
// @Summary QR-код меню
// @Description Возвращает PNG 512x512 с QR-кодом, ведущим на страницу меню.
// @Tags View
// @Produce png
// @Param uploadID path string true "ID загрузки"
// @Success 200 {file} file "PNG с QR-кодом"
// @Failure 403 {object} response.ErrorResponse "Подписка владельца истекла"
// @Failure 404 {object} response.ErrorResponse "Меню не найдено"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /view-qr/{uploadID} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.view.viewqr"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uploadID := chi.URLParam(r, "uploadID")

	if _, err := h.service.View(r.Context(), uploadID); err != nil {
		if errors.Is(err, errs.ErrForbidden) || errors.Is(err, errs.ErrNotFound) {
			log.Info("qr not served", slog.String("upload_id", uploadID), sl.Err(err))
		} else {
			log.Error("failed to check upload", sl.Err(err))
		}
		w.WriteHeader(response.ErrorStatus(err))
		render.JSON(w, r, response.Error(response.ErrorText(err)))
		return
	}

	png, err := h.generator.Render(r.Context(), uploadID, ImageSize, false)
	if err != nil {
		log.Error("failed to render qr code", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not render qr code"))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := w.Write(png); err != nil {
		log.Error("failed to write qr code", sl.Err(err))
	}
}
