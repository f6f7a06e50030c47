// Package blob реализует хранение загруженных документов меню
// в S3-совместимом объектном хранилище с публичной раздачей через CDN.
package blob

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/magabrotheeeer/qrmenu-backend/internal/config"
)

// Object описывает сохранённый в хранилище документ.
type Object struct {
	Key        string // ключ объекта в бакете
	StorageURL string // прямая ссылка на объект в хранилище
	CDNURL     string // публичная ссылка через CDN
}

// Store — клиент S3-совместимого хранилища.
type Store struct {
	client     *minio.Client
	endpoint   string
	bucket     string
	cdnBaseURL string
	useSSL     bool
}

// New создаёт клиента блоб-хранилища.
func New(cfg config.BlobStorage) (*Store, error) {
	const op = "blob.New"

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Store{
		client:     client,
		endpoint:   cfg.Endpoint,
		bucket:     cfg.Bucket,
		cdnBaseURL: strings.TrimRight(cfg.CDNBaseURL, "/"),
		useSSL:     cfg.UseSSL,
	}, nil
}

// Put сохраняет документ под ключом "<имя файла>_<unix ms>",
// чтобы повторные загрузки одного имени не затирали друг друга.
func (s *Store) Put(ctx context.Context, filename, contentType string, size int64, r io.Reader) (*Object, error) {
	const op = "blob.Put"

	key := fmt.Sprintf("%s_%d", filename, time.Now().UnixMilli())
	if _, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return &Object{
		Key:        key,
		StorageURL: fmt.Sprintf("%s://%s/%s/%s", scheme, s.endpoint, s.bucket, key),
		CDNURL:     s.cdnBaseURL + "/" + key,
	}, nil
}

// Delete удаляет объект по ключу.
func (s *Store) Delete(ctx context.Context, key string) error {
	const op = "blob.Delete"

	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
