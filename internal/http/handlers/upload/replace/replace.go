// Package replace реализует HTTP-обработчик замены файла меню.
//
// ID загрузки при замене не меняется, поэтому напечатанные QR-коды
// продолжают вести на актуальное меню.
package replace

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	uploadcreate "github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/upload/create"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/response"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// Handler управляет HTTP-запросами на замену файлов меню.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики замены файла меню.
type Service interface {
	Replace(ctx context.Context, subject, restaurantID, uploadID, filename, docType, contentType string, size int64, r io.Reader) (*models.Upload, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Заменить меню
// @Description Загружает новый файл вместо прежнего, сохраняя ID загрузки.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param restaurantID path string true "ID ресторана"
// @Param uploadID path string true "ID загрузки"
// @Param menu formData file true "Новый файл меню"
// @Param type formData string false "Тип документа (по умолчанию определяется по расширению)"
// @Success 200 {object} response.Response "Обновленная загрузка"
// @Failure 400 {object} response.ErrorResponse "Файл отсутствует или слишком велик"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Загрузка принадлежит другому аккаунту"
// @Failure 404 {object} response.ErrorResponse "Загрузка не найдена"
// @Failure 422 {object} response.ErrorResponse "Неподдерживаемый тип файла"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /restaurants/{restaurantID}/uploads/{uploadID} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upload.replace"
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

	r.Body = http.MaxBytesReader(w, r.Body, uploadcreate.MaxFileSize)
	file, header, err := r.FormFile(uploadcreate.FileField)
	if err != nil {
		log.Error("failed to read form file", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("file is missing or too large"))
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			log.Warn("failed to close form file", sl.Err(closeErr))
		}
	}()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	contentType, ok := uploadcreate.ContentType(ext)
	if !ok {
		log.Error("unsupported file extension", slog.String("filename", header.Filename))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("unsupported file type"))
		return
	}

	docType := r.FormValue("type")
	if docType == "" {
		docType = uploadcreate.DocType(ext)
	}

	upload, err := h.service.Replace(r.Context(), subject, restaurantID, uploadID,
		header.Filename, docType, contentType, header.Size, file)
	if err != nil {
		if errors.Is(err, errs.ErrForbidden) || errors.Is(err, errs.ErrNotFound) {
			log.Info("replace denied", slog.String("upload_id", uploadID), sl.Err(err))
		} else {
			log.Error("failed to replace upload", sl.Err(err))
		}
		w.WriteHeader(response.ErrorStatus(err))
		render.JSON(w, r, response.Error(response.ErrorText(err)))
		return
	}

	log.Info("success to replace upload", slog.String("upload_id", upload.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"upload": upload,
	}))
}
