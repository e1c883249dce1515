// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

// Package api provides the HTTP surface using the Chi router.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/suadeo/suadeo/internal/config"
	"github.com/suadeo/suadeo/internal/models"
)

// Recommender produces recommendation pages.
type Recommender interface {
	Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResult, error)
}

// CatalogStore is the item catalog surface the handlers need.
type CatalogStore interface {
	CreateItem(ctx context.Context, item *models.ItemRecord) error
	GetItem(ctx context.Context, itemID string) (*models.ItemRecord, error)
	ListItems(ctx context.Context, page, pageSize int, brand string) ([]models.ItemRecord, error)
	PopularItems(ctx context.Context, page, pageSize int, brand string) ([]models.ItemRecord, error)
}

// HistoryStore reads interaction history for the read-side endpoint.
type HistoryStore interface {
	UserHistory(ctx context.Context, userID string, limit int) ([]models.InteractionEvent, error)
}

// EventRecorder accepts interaction events without blocking.
type EventRecorder interface {
	Record(event models.InteractionEvent)
}

// Pinger reports storage liveness for the readiness endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handlers holds the HTTP handler dependencies.
type Handlers struct {
	cfg         *config.Config
	recommender Recommender
	catalog     CatalogStore
	history     HistoryStore
	recorder    EventRecorder
	pinger      Pinger
	logger      zerolog.Logger
}

// NewHandlers creates the API handler set.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewHandlers(cfg *config.Config, recommender Recommender, catalog CatalogStore, history HistoryStore, recorder EventRecorder, pinger Pinger, logger zerolog.Logger) *Handlers {
	return &Handlers{
		cfg:         cfg,
		recommender: recommender,
		catalog:     catalog,
		history:     history,
		recorder:    recorder,
		pinger:      pinger,
		logger:      logger.With().Str("component", "api").Logger(),
	}
}

// Health reports liveness. It never touches storage.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "ok",
		Data:     map[string]string{"service": "suadeo"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady reports readiness, including storage reachability.
func (h *Handlers) HealthReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.pinger.Ping(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "storage unavailable", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "ok",
		Data:     map[string]string{"database": "up"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
