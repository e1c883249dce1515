// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/suadeo/suadeo/internal/auth"
	"github.com/suadeo/suadeo/internal/config"
)

// Router wires handlers and middleware into the HTTP surface.
type Router struct {
	cfg      *config.Config
	handlers *Handlers
	authMw   *auth.Middleware
}

// NewRouter creates the router. A nil auth middleware disables authentication.
func NewRouter(cfg *config.Config, handlers *Handlers, authMw *auth.Middleware) *Router {
	if authMw == nil {
		authMw = auth.NewMiddleware(nil)
	}
	return &Router{cfg: cfg, handlers: handlers, authMw: authMw}
}

// Setup configures all routes.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.cfg.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health endpoints stay unauthenticated and permissively rate limited
	// so orchestration probes keep working when everything else degrades.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(httprate.LimitByIP(1000, time.Minute))
		r.Get("/", router.handlers.Health)
		r.Get("/live", router.handlers.Health)
		r.Get("/ready", router.handlers.HealthReady)
	})

	// Core API endpoints.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(httprate.LimitByIP(router.rateLimit()))
		r.Use(prometheusMetrics)
		r.Use(router.authMw.Authenticate)

		r.Get("/recommendations", router.handlers.Recommendations)

		r.Route("/items", func(r chi.Router) {
			r.Get("/", router.handlers.ListItems)
			r.Post("/", router.handlers.CreateItem)
			r.Get("/popular", router.handlers.PopularItems)
			r.Get("/{itemID}", router.handlers.GetItem)
		})

		r.Route("/interactions", func(r chi.Router) {
			r.Get("/", router.handlers.ListInteractions)
			r.Post("/", router.handlers.CreateInteraction)
		})
	})

	// Observability.
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (router *Router) rateLimit() (int, time.Duration) {
	reqs := router.cfg.Security.RateLimitReqs
	window := router.cfg.Security.RateLimitWindow
	if reqs < 1 {
		reqs = 300
	}
	if window <= 0 {
		window = time.Minute
	}
	return reqs, window
}
