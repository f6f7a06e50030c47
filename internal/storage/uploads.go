package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// CreateUpload сохраняет новую загрузку меню.
func (s *Storage) CreateUpload(ctx context.Context, upload models.Upload) error {
	const op = "storage.CreateUpload"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO uploads (id, name, doc_type, storage_key, storage_url, cdn_url, restaurant_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := s.DB.ExecContext(ctx, query,
		upload.ID, upload.Name, upload.DocType, upload.StorageKey,
		upload.StorageURL, upload.CDNURL, upload.RestaurantID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ReplaceUpload заменяет файл существующей загрузки, идентификатор сохраняется,
// чтобы напечатанные QR-коды продолжали работать.
func (s *Storage) ReplaceUpload(ctx context.Context, upload models.Upload) error {
	const op = "storage.ReplaceUpload"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE uploads
			  SET name = $1,
			      storage_key = $2,
			      storage_url = $3,
			      cdn_url = $4
			  WHERE id = $5`
	res, err := s.DB.ExecContext(ctx, query,
		upload.Name, upload.StorageKey, upload.StorageURL, upload.CDNURL, upload.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// DeleteUpload удаляет загрузку.
func (s *Storage) DeleteUpload(ctx context.Context, id string) error {
	const op = "storage.DeleteUpload"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM uploads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// GetUploadChain возвращает загрузку вместе с цепочкой владения и текущим
// статусом подписки владельца одним запросом. Статус читается заново при
// каждом обращении и нигде не кешируется.
func (s *Storage) GetUploadChain(ctx context.Context, uploadID string) (*models.UploadChain, error) {
	const op = "storage.GetUploadChain"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.id, u.name, u.doc_type, u.storage_key, u.storage_url, u.cdn_url,
			      u.restaurant_id, r.account_id, a.subscription_status
			  FROM uploads u
			  JOIN restaurants r ON r.id = u.restaurant_id
			  JOIN accounts a ON a.id = r.account_id
			  WHERE u.id = $1`
	var chain models.UploadChain
	row := s.DB.QueryRowContext(ctx, query, uploadID)
	if err := row.Scan(&chain.Upload.ID, &chain.Upload.Name, &chain.Upload.DocType,
		&chain.Upload.StorageKey, &chain.Upload.StorageURL, &chain.Upload.CDNURL,
		&chain.Upload.RestaurantID, &chain.AccountID, &chain.SubscriptionStatus); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	chain.RestaurantID = chain.Upload.RestaurantID
	return &chain, nil
}
