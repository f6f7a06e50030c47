package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/qrmenu-backend/internal/lib/errs"
	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// ListRestaurants возвращает рестораны аккаунта вместе с их загрузками.
func (s *Storage) ListRestaurants(ctx context.Context, accountID string) ([]*models.Restaurant, error) {
	const op = "storage.ListRestaurants"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT r.id, r.name, r.logo_url, r.account_id,
			      u.id, u.name, u.doc_type, u.storage_key, u.storage_url, u.cdn_url
			  FROM restaurants r
			  LEFT JOIN uploads u ON u.restaurant_id = r.id
			  WHERE r.account_id = $1
			  ORDER BY r.name, u.name`
	rows, err := s.DB.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	byID := make(map[string]*models.Restaurant)
	var result []*models.Restaurant
	for rows.Next() {
		var r models.Restaurant
		var logoURL sql.NullString
		var uploadID, uploadName, docType, storageKey, storageURL, cdnURL sql.NullString
		if err = rows.Scan(&r.ID, &r.Name, &logoURL, &r.AccountID,
			&uploadID, &uploadName, &docType, &storageKey, &storageURL, &cdnURL); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		restaurant, ok := byID[r.ID]
		if !ok {
			if logoURL.Valid {
				r.LogoURL = &logoURL.String
			}
			r.Uploads = []*models.Upload{}
			restaurant = &r
			byID[r.ID] = restaurant
			result = append(result, restaurant)
		}
		if uploadID.Valid {
			restaurant.Uploads = append(restaurant.Uploads, &models.Upload{
				ID:           uploadID.String,
				Name:         uploadName.String,
				DocType:      docType.String,
				StorageKey:   storageKey.String,
				StorageURL:   storageURL.String,
				CDNURL:       cdnURL.String,
				RestaurantID: restaurant.ID,
			})
		}
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateRestaurant сохраняет новый ресторан.
func (s *Storage) CreateRestaurant(ctx context.Context, restaurant models.Restaurant) error {
	const op = "storage.CreateRestaurant"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO restaurants (id, name, logo_url, account_id)
			  VALUES ($1, $2, $3, $4)`
	var logoURL sql.NullString
	if restaurant.LogoURL != nil {
		logoURL = sql.NullString{String: *restaurant.LogoURL, Valid: true}
	}
	if _, err := s.DB.ExecContext(ctx, query,
		restaurant.ID, restaurant.Name, logoURL, restaurant.AccountID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// UpdateRestaurant обновляет название и логотип ресторана.
func (s *Storage) UpdateRestaurant(ctx context.Context, id, name string, logoURL *string) error {
	const op = "storage.UpdateRestaurant"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var logo sql.NullString
	if logoURL != nil {
		logo = sql.NullString{String: *logoURL, Valid: true}
	}
	query := `UPDATE restaurants
			  SET name = $1,
			      logo_url = COALESCE($2, logo_url)
			  WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, name, logo, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// DeleteRestaurant удаляет ресторан; загрузки удаляются каскадно.
func (s *Storage) DeleteRestaurant(ctx context.Context, id string) error {
	const op = "storage.DeleteRestaurant"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM restaurants WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// GetRestaurantOwner возвращает идентификатор аккаунта-владельца ресторана.
// Это единственный запрос, которым выполняется проверка владения рестораном.
func (s *Storage) GetRestaurantOwner(ctx context.Context, restaurantID string) (string, error) {
	const op = "storage.GetRestaurantOwner"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var accountID string
	query := `SELECT account_id FROM restaurants WHERE id = $1`
	if err := s.DB.QueryRowContext(ctx, query, restaurantID).Scan(&accountID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return accountID, nil
}
