// Package create реализует HTTP-обработчик загрузки файла меню.
//
// Handler принимает multipart-форму с файлом в поле menu, проверяет
// расширение и размер и передает файл в сервис загрузок.
package create

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

	"github.com/magabrotheeeer/qrmenu-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/response"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// MaxFileSize — максимальный размер файла меню: 5 MiB.
const MaxFileSize = 5 << 20

// FileField — имя поля multipart-формы с файлом меню.
const FileField = "menu"

var contentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".pdf":  "application/pdf",
}

// DocType возвращает тип документа по расширению файла.
func DocType(ext string) string {
	if ext == ".pdf" {
		return "pdf"
	}
	return "image"
}

// ContentType возвращает MIME-тип по расширению файла.
// Второе значение false означает неподдерживаемое расширение.
func ContentType(ext string) (string, bool) {
	ct, ok := contentTypes[ext]
	return ct, ok
}

// Handler управляет HTTP-запросами на загрузку файлов меню.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики загрузки файла меню.
type Service interface {
	Create(ctx context.Context, subject, restaurantID, filename, docType, contentType string, size int64, r io.Reader) (*models.Upload, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Загрузить меню
// @Description Загружает файл меню (.png, .jpg, .jpeg, .pdf, до 5 МБ) для ресторана.
// @Tags Uploads
// @Accept multipart/form-data
// @Produce json
// @Param restaurantID path string true "ID ресторана"
// @Param menu formData file true "Файл меню"
// @Param type formData string false "Тип документа (по умолчанию определяется по расширению)"
// @Success 200 {object} response.Response "Созданная загрузка"
// @Failure 400 {object} response.ErrorResponse "Файл отсутствует или слишком велик"
// @Failure 401 {object} response.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} response.ErrorResponse "Ресторан принадлежит другому аккаунту"
// @Failure 404 {object} response.ErrorResponse "Ресторан не найден"
// @Failure 422 {object} response.ErrorResponse "Неподдерживаемый тип файла"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Security BearerAuth
// @Router /restaurants/{restaurantID}/uploads [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.upload.create"
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

	r.Body = http.MaxBytesReader(w, r.Body, MaxFileSize)
	file, header, err := r.FormFile(FileField)
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
	contentType, ok := ContentType(ext)
	if !ok {
		log.Error("unsupported file extension", slog.String("filename", header.Filename))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("unsupported file type"))
		return
	}

	docType := r.FormValue("type")
	if docType == "" {
		docType = DocType(ext)
	}

	upload, err := h.service.Create(r.Context(), subject, restaurantID,
		header.Filename, docType, contentType, header.Size, file)
	if err != nil {
		if errors.Is(err, errs.ErrForbidden) || errors.Is(err, errs.ErrNotFound) {
			log.Info("upload denied", slog.String("restaurant_id", restaurantID), sl.Err(err))
		} else {
			log.Error("failed to create upload", sl.Err(err))
		}
		w.WriteHeader(response.ErrorStatus(err))
		render.JSON(w, r, response.Error(response.ErrorText(err)))
		return
	}

	log.Info("success to create upload", slog.String("upload_id", upload.ID))
	render.JSON(w, r, response.StatusOKWithData(map[string]any{
		"upload": upload,
	}))
}
