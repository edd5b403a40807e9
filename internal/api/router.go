package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ndewijer/Broker-Statement-Importer/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Broker-Statement-Importer/internal/api/middleware"
	"github.com/ndewijer/Broker-Statement-Importer/internal/config"
	"github.com/ndewijer/Broker-Statement-Importer/internal/service"
)

// Services bundles the services the HTTP layer delegates to.
type Services struct {
	System   *service.SystemService
	Account  *service.AccountService
	Activity *service.ActivityService
	Config   *service.ConfigService
	Import   *service.ImportService
}

// NewRouter creates and configures the HTTP router
func NewRouter(services Services, cfg *config.Config, logger *log.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	systemHandler := handlers.NewSystemHandler(services.System)
	accountHandler := handlers.NewAccountHandler(services.Account, services.Activity)
	configHandler := handlers.NewConfigHandler(services.Config)
	importHandler := handlers.NewImportHandler(services.Import, cfg.Server.MaxUploadBytes)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/account", func(r chi.Router) {
			r.Get("/", accountHandler.Accounts)
			r.Post("/", accountHandler.CreateAccount)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", accountHandler.GetAccount)
				r.Get("/activity", accountHandler.Activities)
			})
		})

		r.Route("/config", func(r chi.Router) {
			r.Get("/", configHandler.GetConfigs)
			r.Put("/", configHandler.UpdateConfigs)
		})

		r.Route("/import", func(r chi.Router) {
			r.With(custommiddleware.ValidateUUIDMiddleware).
				Post("/account/{uuid}", importHandler.Upload)

			r.Route("/{uuid}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateUUIDMiddleware)
				r.Get("/", importHandler.GetImport)
				r.Delete("/", importHandler.Discard)
				r.Get("/export", importHandler.Export)
				r.Post("/commit", importHandler.Commit)
			})
		})
	})

	return r
}
