// Package qrmenu собирает основной HTTP-сервис: хранилище, кеш,
// проверку токенов, платежи, объектное хранилище и маршруты.
package qrmenu

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/magabrotheeeer/qrmenu-backend/internal/auth"
	"github.com/magabrotheeeer/qrmenu-backend/internal/billing"
	"github.com/magabrotheeeer/qrmenu-backend/internal/blob"
	"github.com/magabrotheeeer/qrmenu-backend/internal/cache"
	"github.com/magabrotheeeer/qrmenu-backend/internal/config"
	"github.com/magabrotheeeer/qrmenu-backend/internal/identity"
	"github.com/magabrotheeeer/qrmenu-backend/internal/migrations"
	"github.com/magabrotheeeer/qrmenu-backend/internal/qr"
	accountservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/account"
	billingservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/billing"
	ownershipservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/ownership"
	restaurantservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/restaurant"
	uploadservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/upload"
	viewservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/view"
	"github.com/magabrotheeeer/qrmenu-backend/internal/storage"
)

// App представляет основной HTTP-сервис.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *storage.Storage
}

// New собирает все зависимости сервиса по конфигурации.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := storage.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	blobStore, err := blob.New(cfg.BlobStorage)
	if err != nil {
		return nil, err
	}

	verifier := auth.NewVerifier(cfg.IdentityProvider)
	identityClient := identity.NewClient(cfg.IdentityProvider)
	billingClient := billing.NewClient(cfg.Billing)
	qrGenerator := qr.New(cfg.ViewBaseURL, cacheRedis)

	authorizer := ownershipservice.NewAuthorizer(db)
	accountSvc := accountservice.NewAccountService(db, identityClient, logger)
	restaurantSvc := restaurantservice.NewRestaurantService(db, authorizer, logger)
	uploadSvc := uploadservice.NewUploadService(db, blobStore, authorizer, qrGenerator, logger)
	viewSvc := viewservice.NewViewService(db, logger)
	billingSvc := billingservice.NewBillingService(db, billingClient, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, RouteServices{
		Verifier:      verifier,
		Accounts:      accountSvc,
		Restaurants:   restaurantSvc,
		Uploads:       uploadSvc,
		Views:         viewSvc,
		Billing:       billingSvc,
		QRGenerator:   qrGenerator,
		WebhookSecret: cfg.Billing.WebhookSecret,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его при отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", slog.Any("err", closeErr))
		}
		return err
	}
}
