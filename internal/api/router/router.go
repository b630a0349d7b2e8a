// Package router assembles the HTTP surface of the scheduling API.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/apptbook/scheduling-platform/internal/customers"
	"github.com/apptbook/scheduling-platform/internal/directory"
	httpmiddleware "github.com/apptbook/scheduling-platform/internal/http/middleware"
	"github.com/apptbook/scheduling-platform/internal/reports"
	"github.com/apptbook/scheduling-platform/internal/scheduling"
	"github.com/apptbook/scheduling-platform/internal/territory"
	"github.com/apptbook/scheduling-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger             *logging.Logger
	SchedulingHandler  *scheduling.Handler
	CustomersHandler   *customers.Handler
	TerritoryHandler   *territory.Handler
	DirectoryHandler   *directory.Handler
	ReportsHandler     *reports.Handler
	MetricsHandler     http.Handler
	RateLimiter        *httpmiddleware.RateLimiter
	CORSAllowedOrigins []string
}

// New creates a new chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware())
	}

	r.Get("/health", healthCheck)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	if cfg.SchedulingHandler != nil {
		r.Mount("/appointments", cfg.SchedulingHandler.Routes())
	}
	if cfg.CustomersHandler != nil {
		r.Mount("/customers", cfg.CustomersHandler.Routes())
	}
	if cfg.TerritoryHandler != nil {
		r.Mount("/countries", cfg.TerritoryHandler.Routes())
	}
	if cfg.DirectoryHandler != nil {
		r.Mount("/contacts", cfg.DirectoryHandler.ContactRoutes())
		r.Mount("/users", cfg.DirectoryHandler.UserRoutes())
	}
	if cfg.ReportsHandler != nil {
		r.Mount("/reports", cfg.ReportsHandler.Routes())
	}

	return r
}

func healthCheck(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status": "ok"}`))
}
