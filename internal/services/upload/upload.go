// Package services содержит бизнес-логику загрузок меню:
// сохранение файлов в объектное хранилище и привязку их к ресторанам.
package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/qrmenu-backend/internal/blob"
	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/sl"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// UploadRepository определяет методы для работы с загрузками в хранилище.
type UploadRepository interface {
	// CreateUpload добавляет запись о загрузке.
	CreateUpload(ctx context.Context, upload models.Upload) error
	// ReplaceUpload обновляет файл загрузки, сохраняя её ID.
	ReplaceUpload(ctx context.Context, upload models.Upload) error
	// DeleteUpload удаляет запись о загрузке.
	DeleteUpload(ctx context.Context, id string) error
}

// BlobStore определяет операции с объектным хранилищем файлов.
type BlobStore interface {
	Put(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*blob.Object, error)
	Delete(ctx context.Context, key string) error
}

// Authorizer проверяет принадлежность ресурсов аккаунту.
type Authorizer interface {
	AuthorizeRestaurant(ctx context.Context, subject, restaurantID string) error
	AuthorizeUpload(ctx context.Context, subject, restaurantID, uploadID string) (*models.UploadChain, error)
}

// QRCache сбрасывает закешированные QR-картинки загрузки.
type QRCache interface {
	Invalidate(ctx context.Context, uploadID string) error
}

// UploadService реализует операции над загрузками с проверкой владения.
type UploadService struct {
	repo    UploadRepository
	blobs   BlobStore
	auth    Authorizer
	qrcache QRCache
	log     *slog.Logger
}

// NewUploadService создает новый экземпляр UploadService.
func NewUploadService(repo UploadRepository, blobs BlobStore, auth Authorizer, qrcache QRCache, log *slog.Logger) *UploadService {
	return &UploadService{
		repo:    repo,
		blobs:   blobs,
		auth:    auth,
		qrcache: qrcache,
		log:     log,
	}
}

// Create сохраняет файл меню в объектное хранилище и привязывает его к ресторану.
func (s *UploadService) Create(ctx context.Context, subject, restaurantID, filename, docType, contentType string, size int64, r io.Reader) (*models.Upload, error) {
	const op = "services.upload.Create"

	if err := s.auth.AuthorizeRestaurant(ctx, subject, restaurantID); err != nil {
		return nil, err
	}

	object, err := s.blobs.Put(ctx, filename, contentType, size, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	upload := models.Upload{
		ID:           uuid.New().String(),
		Name:         filename,
		DocType:      docType,
		StorageKey:   object.Key,
		StorageURL:   object.StorageURL,
		CDNURL:       object.CDNURL,
		RestaurantID: restaurantID,
	}
	if err := s.repo.CreateUpload(ctx, upload); err != nil {
		if delErr := s.blobs.Delete(ctx, object.Key); delErr != nil {
			s.log.Warn("failed to delete orphaned blob", slog.String("key", object.Key), sl.Err(delErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created upload", slog.String("upload_id", upload.ID), slog.String("restaurant_id", restaurantID))
	return &upload, nil
}

// Replace загружает новый файл вместо прежнего. ID загрузки сохраняется,
// поэтому уже напечатанные QR-коды продолжают работать.
func (s *UploadService) Replace(ctx context.Context, subject, restaurantID, uploadID, filename, docType, contentType string, size int64, r io.Reader) (*models.Upload, error) {
	const op = "services.upload.Replace"

	chain, err := s.auth.AuthorizeUpload(ctx, subject, restaurantID, uploadID)
	if err != nil {
		return nil, err
	}

	object, err := s.blobs.Put(ctx, filename, contentType, size, r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	upload := models.Upload{
		ID:           uploadID,
		Name:         filename,
		DocType:      docType,
		StorageKey:   object.Key,
		StorageURL:   object.StorageURL,
		CDNURL:       object.CDNURL,
		RestaurantID: restaurantID,
	}
	if err := s.repo.ReplaceUpload(ctx, upload); err != nil {
		if delErr := s.blobs.Delete(ctx, object.Key); delErr != nil {
			s.log.Warn("failed to delete orphaned blob", slog.String("key", object.Key), sl.Err(delErr))
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.blobs.Delete(ctx, chain.Upload.StorageKey); err != nil {
		s.log.Warn("failed to delete replaced blob", slog.String("key", chain.Upload.StorageKey), sl.Err(err))
	}

	s.log.Info("replaced upload", slog.String("upload_id", uploadID))
	return &upload, nil
}

// Remove удаляет файл из объектного хранилища и запись о загрузке.
func (s *UploadService) Remove(ctx context.Context, subject, restaurantID, uploadID string) error {
	const op = "services.upload.Remove"

	chain, err := s.auth.AuthorizeUpload(ctx, subject, restaurantID, uploadID)
	if err != nil {
		return err
	}

	if err := s.blobs.Delete(ctx, chain.Upload.StorageKey); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.repo.DeleteUpload(ctx, uploadID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	// Кеш QR переживает загрузку до суток; сбрасываем его, чтобы
	// код удалённого меню не отдавался. Ошибка кеша удаление не отменяет.
	if err := s.qrcache.Invalidate(ctx, uploadID); err != nil {
		s.log.Warn("failed to invalidate qr cache", slog.String("upload_id", uploadID), sl.Err(err))
	}

	s.log.Info("deleted upload", slog.String("upload_id", uploadID))
	return nil
}
