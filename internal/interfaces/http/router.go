// Package http assembles the polychain HTTP API: routing, middleware, and
// the server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/polyforge/polychain/internal/application/polymer"
	"github.com/polyforge/polychain/internal/config"
	"github.com/polyforge/polychain/internal/infrastructure/monitoring/logging"
	"github.com/polyforge/polychain/internal/infrastructure/monitoring/prometheus"
	"github.com/polyforge/polychain/internal/infrastructure/storage/fsstore"
	"github.com/polyforge/polychain/internal/interfaces/http/handlers"
	"github.com/polyforge/polychain/internal/interfaces/http/middleware"
)

// RouterDeps bundles the collaborators the router needs. Scratch is
// optional; without it uploads are processed straight from memory.
type RouterDeps struct {
	Service *polymer.Service
	Config  *config.Config
	Metrics *prometheus.Metrics
	Scratch *fsstore.Scratch
	Logger  logging.Logger
	Version string
}

// NewRouter builds the chi router with the full middleware chain and all
// API routes mounted.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	chainHandler := handlers.NewChainHandler(deps.Service, deps.Scratch, deps.Config.Server.MaxUploadBytes)
	docHandler := handlers.NewDocumentHandler(deps.Service.Store())
	healthHandler := handlers.NewHealthHandler(deps.Version)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogging(logger, deps.Metrics))

	r.Get("/healthz", healthHandler.Live)
	r.Get("/readyz", healthHandler.Ready)
	if deps.Metrics != nil && deps.Config.Metrics.Enabled {
		r.Method(http.MethodGet, "/metrics", deps.Metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/chains", func(r chi.Router) {
			r.Post("/generate", chainHandler.Generate)
			r.Post("/repeat", chainHandler.Repeat)
		})
		r.Post("/xyz/inspect", chainHandler.Inspect)
		r.Route("/documents", func(r chi.Router) {
			r.Get("/", docHandler.List)
			r.Get("/{name}", docHandler.Get)
			r.Delete("/{name}", docHandler.Delete)
		})
	})

	return r
}
