// Package services содержит бизнес-логику работы с ресторанами аккаунта.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// RestaurantRepository определяет методы для работы с ресторанами в хранилище.
type RestaurantRepository interface {
	// ListRestaurants возвращает рестораны аккаунта вместе с их загрузками.
	ListRestaurants(ctx context.Context, accountID string) ([]*models.Restaurant, error)
	// CreateRestaurant добавляет новый ресторан.
	CreateRestaurant(ctx context.Context, restaurant models.Restaurant) error
	// UpdateRestaurant обновляет имя и логотип ресторана.
	UpdateRestaurant(ctx context.Context, id, name string, logoURL *string) error
	// DeleteRestaurant удаляет ресторан вместе с его загрузками.
	DeleteRestaurant(ctx context.Context, id string) error
}

// Authorizer проверяет принадлежность ресторана аккаунту.
type Authorizer interface {
	AuthorizeRestaurant(ctx context.Context, subject, restaurantID string) error
}

// RestaurantService реализует операции над ресторанами с проверкой владения.
type RestaurantService struct {
	repo RestaurantRepository
	auth Authorizer
	log  *slog.Logger
}

// NewRestaurantService создает новый экземпляр RestaurantService.
func NewRestaurantService(repo RestaurantRepository, auth Authorizer, log *slog.Logger) *RestaurantService {
	return &RestaurantService{
		repo: repo,
		auth: auth,
		log:  log,
	}
}

// List возвращает все рестораны аккаунта.
func (s *RestaurantService) List(ctx context.Context, subject string) ([]*models.Restaurant, error) {
	const op = "services.restaurant.List"

	restaurants, err := s.repo.ListRestaurants(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return restaurants, nil
}

// Create создает ресторан для аккаунта и возвращает его.
func (s *RestaurantService) Create(ctx context.Context, subject string, req models.DummyRestaurant) (*models.Restaurant, error) {
	const op = "services.restaurant.Create"

	restaurant := models.Restaurant{
		ID:        uuid.New().String(),
		Name:      req.Name,
		AccountID: subject,
	}
	if req.LogoURL != "" {
		restaurant.LogoURL = &req.LogoURL
	}

	if err := s.repo.CreateRestaurant(ctx, restaurant); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("created restaurant", slog.String("restaurant_id", restaurant.ID))
	return &restaurant, nil
}

// Update обновляет ресторан после проверки владения.
func (s *RestaurantService) Update(ctx context.Context, subject, restaurantID string, req models.DummyRestaurant) error {
	const op = "services.restaurant.Update"

	if err := s.auth.AuthorizeRestaurant(ctx, subject, restaurantID); err != nil {
		return err
	}

	var logoURL *string
	if req.LogoURL != "" {
		logoURL = &req.LogoURL
	}
	if err := s.repo.UpdateRestaurant(ctx, restaurantID, req.Name, logoURL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("updated restaurant", slog.String("restaurant_id", restaurantID))
	return nil
}

// Delete удаляет ресторан после проверки владения.
// Записи загрузок удаляются каскадно на уровне базы.
func (s *RestaurantService) Delete(ctx context.Context, subject, restaurantID string) error {
	const op = "services.restaurant.Delete"

	if err := s.auth.AuthorizeRestaurant(ctx, subject, restaurantID); err != nil {
		return err
	}

	if err := s.repo.DeleteRestaurant(ctx, restaurantID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("deleted restaurant", slog.String("restaurant_id", restaurantID))
	return nil
}
