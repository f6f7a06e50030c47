package storage

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/qrmenu-backend/internal/models"
)

// TestDataFactory содержит методы для создания тестовых данных
type TestDataFactory struct {
	storage *Storage
}

// NewTestDataFactory создает новую фабрику тестовых данных
func NewTestDataFactory(storage *Storage) *TestDataFactory {
	return &TestDataFactory{storage: storage}
}

// CreateAccount создает тестовый аккаунт
func (f *TestDataFactory) CreateAccount(t *testing.T, id, email string, status models.SubscriptionStatus) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO accounts (id, email, subscription_status)
		VALUES ($1, $2, $3)`,
		id, email, status)
	require.NoError(t, err)
}

// CreateAccountWithEnd создает аккаунт с датой окончания подписки
func (f *TestDataFactory) CreateAccountWithEnd(t *testing.T, id, email string,
	status models.SubscriptionStatus, subscriptionEnd time.Time, billingSubscriptionID string) {
	t.Helper()
	_, err := f.storage.DB.Exec(`INSERT INTO accounts
		(id, email, subscription_status, subscription_end, billing_subscription_id)
		VALUES ($1, $2, $3, $4, $5)`,
		id, email, status, subscriptionEnd, billingSubscriptionID)
	require.NoError(t, err)
}

// CreateRestaurant создает тестовый ресторан и возвращает его ID
func (f *TestDataFactory) CreateRestaurant(t *testing.T, name, accountID string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO restaurants (id, name, account_id)
		VALUES ($1, $2, $3)`,
		id, name, accountID)
	require.NoError(t, err)
	return id
}

// CreateUpload создает тестовую загрузку и возвращает её ID
func (f *TestDataFactory) CreateUpload(t *testing.T, restaurantID, name, docType string) string {
	t.Helper()
	id := uuid.New().String()
	_, err := f.storage.DB.Exec(`INSERT INTO uploads
		(id, name, doc_type, storage_key, storage_url, cdn_url, restaurant_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, name, docType, name+"_key", "https://s3/bucket/"+name, "https://cdn/"+name, restaurantID)
	require.NoError(t, err)
	return id
}
