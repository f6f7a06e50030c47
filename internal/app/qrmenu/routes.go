// Package qrmenu предоставляет маршруты основного HTTP-сервиса.
package qrmenu

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	billingcancel "github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/billing/cancel"
	billingwebhook "github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/billing/webhook"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/health"
	restaurantcreate "github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/restaurant/create"
	restaurantlist "github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/restaurant/list"
	restaurantremove "github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/restaurant/remove"
	restaurantupdate "github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/restaurant/update"
	uploadcreate "github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/upload/create"
	uploadremove "github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/upload/remove"
	uploadreplace "github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/upload/replace"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/view/downloadqr"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/view/view"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/handlers/view/viewqr"
	"github.com/magabrotheeeer/qrmenu-backend/internal/http/middlewarectx"
	"github.com/magabrotheeeer/qrmenu-backend/internal/qr"
	accountservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/account"
	billingservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/billing"
	restaurantservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/restaurant"
	uploadservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/upload"
	viewservice "github.com/magabrotheeeer/qrmenu-backend/internal/services/view"
)

// RouteServices — зависимости маршрутов основного сервиса.
type RouteServices struct {
	Verifier      middlewarectx.Verifier
	Accounts      *accountservice.AccountService
	Restaurants   *restaurantservice.RestaurantService
	Uploads       *uploadservice.UploadService
	Views         *viewservice.ViewService
	Billing       *billingservice.BillingService
	QRGenerator   *qr.Generator
	WebhookSecret string
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, svc RouteServices) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Route("/api/v1", func(r chi.Router) {
		// Публичные конечные точки: их открывают гости по QR-коду
		r.Get("/view/{uploadID}", view.New(logger, svc.Views).ServeHTTP)
		r.Get("/view-qr/{uploadID}", viewqr.New(logger, svc.Views, svc.QRGenerator).ServeHTTP)
		r.Get("/download-qr/{uploadID}", downloadqr.New(logger, svc.Views, svc.QRGenerator).ServeHTTP)

		// Группа с bearer-аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.AuthMiddleware(svc.Verifier, logger))
			r.Use(middlewarectx.AccountMiddleware(svc.Accounts, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))
			r.Get("/restaurants", restaurantlist.New(logger, svc.Restaurants).ServeHTTP)
			r.Post("/restaurants", restaurantcreate.New(logger, svc.Restaurants).ServeHTTP)
			r.Put("/restaurants/{restaurantID}", restaurantupdate.New(logger, svc.Restaurants).ServeHTTP)
			r.Delete("/restaurants/{restaurantID}", restaurantremove.New(logger, svc.Restaurants).ServeHTTP)
			r.Post("/restaurants/{restaurantID}/uploads", uploadcreate.New(logger, svc.Uploads).ServeHTTP)
			r.Put("/restaurants/{restaurantID}/uploads/{uploadID}", uploadreplace.New(logger, svc.Uploads).ServeHTTP)
			r.Delete("/restaurants/{restaurantID}/uploads/{uploadID}", uploadremove.New(logger, svc.Uploads).ServeHTTP)
			r.Post("/cancel-subscription", billingcancel.New(logger, svc.Billing).ServeHTTP)
		})

		// Webhook endpoint (подпись вместо аутентификации)
		r.Post("/webhooks/stripe", billingwebhook.New(logger, svc.Billing, svc.WebhookSecret).ServeHTTP)
	})

	r.Get("/health", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
