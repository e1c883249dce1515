// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package recommend

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/suadeo/suadeo/internal/metrics"
	"github.com/suadeo/suadeo/internal/models"
)

// Orchestrator is the top-level recommendation decision engine. Per request
// it recomputes the cold/warm classification from current history; nothing is
// persisted across requests. It is safe for concurrent use.
type Orchestrator struct {
	config   *Config
	gateway  Gateway
	history  HistoryStore
	hydrator *Hydrator
	ranker   *Ranker
	logger   zerolog.Logger
}

// NewOrchestrator creates a recommendation orchestrator.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewOrchestrator(cfg *Config, gateway Gateway, history HistoryStore, store ItemStore, logger zerolog.Logger) (*Orchestrator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Orchestrator{
		config:   cfg,
		gateway:  gateway,
		history:  history,
		hydrator: NewHydrator(store),
		ranker:   NewRanker(store),
		logger:   logger.With().Str("component", "recommend").Logger(),
	}, nil
}

// Recommend produces one ranked, paginated, labeled recommendation set.
//
// This method is the designated recovery boundary for the request: any
// storage error from the decision logic is absorbed by one final popularity
// attempt labeled error_fallback_popular. Only when that last attempt also
// fails does an error reach the caller.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (o *Orchestrator) Recommend(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResult, error) {
	start := time.Now()
	req = o.prepareRequest(req)
	logger := o.logger.With().Str("user_id", req.UserID).Int("page", req.Page).Logger()

	result, err := o.recommend(ctx, req, logger)
	if err != nil {
		logger.Warn().Err(err).Msg("recommendation pipeline failed, attempting final popularity fallback")
		items, rankErr := o.ranker.Rank(ctx, req.Page, req.PageSize, req.Brand)
		if rankErr != nil {
			return nil, fmt.Errorf("recommendation failed and popularity fallback failed: %w", rankErr)
		}
		result = &models.RecommendationResult{Type: models.ErrorFallbackPopular, Recommendations: items}
	}

	metrics.RecommendationsByTier.WithLabelValues(string(result.Type)).Inc()
	metrics.RecommendationDuration.Observe(time.Since(start).Seconds())
	logger.Debug().
		Str("type", string(result.Type)).
		Int("returned", len(result.Recommendations)).
		Dur("elapsed", time.Since(start)).
		Msg("recommendation complete")

	return result, nil
}

// prepareRequest applies paging defaults and clamps the page size.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (o *Orchestrator) prepareRequest(req models.RecommendationRequest) models.RecommendationRequest {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = o.config.DefaultPageSize
	}
	if req.PageSize > o.config.MaxPageSize {
		req.PageSize = o.config.MaxPageSize
	}
	return req
}

// recommend runs the cold/warm state machine. Storage errors propagate to the
// recovery boundary in Recommend; model service absence never does.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (o *Orchestrator) recommend(ctx context.Context, req models.RecommendationRequest, logger zerolog.Logger) (*models.RecommendationResult, error) {
	history, err := o.history.UserHistory(ctx, req.UserID, 0)
	if err != nil {
		return nil, fmt.Errorf("load interaction history: %w", err)
	}

	if len(history) < o.config.ColdStartThreshold {
		return o.coldStart(ctx, req, history, logger)
	}
	return o.warmStart(ctx, req, history, logger)
}

// coldStart serves users with too little history for collaborative filtering.
// With any history at all it tries content-based candidates seeded by the most
// recent item; otherwise, and on any absent or empty outcome, it falls back to
// the popularity ranking.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (o *Orchestrator) coldStart(ctx context.Context, req models.RecommendationRequest, history []models.InteractionEvent, logger zerolog.Logger) (*models.RecommendationResult, error) {
	if len(history) > 0 {
		lastItem := history[0].ItemID
		if ids, ok := o.gateway.SimilarItems(ctx, lastItem); ok {
			items, err := o.hydrator.Hydrate(ctx, DedupeKeepOrder(ids), req.Page, req.PageSize, req.Brand)
			if err != nil {
				return nil, err
			}
			if len(items) > 0 {
				return &models.RecommendationResult{Type: models.ColdStartCBF, Recommendations: items}, nil
			}
			logger.Debug().Str("seed_item", lastItem).Msg("cold start CBF hydrated empty, using popularity")
		} else {
			logger.Debug().Str("seed_item", lastItem).Msg("cold start CBF absent, using popularity")
		}
	}

	return o.popular(ctx, req, models.ColdStartPopular)
}

// warmStart serves users with sufficient history. The CF list is the base;
// CBF results for recent items only boost items already in it. An absent CF
// result is terminal: it escalates straight to the error fallback tier with
// no CBF calls wasted.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (o *Orchestrator) warmStart(ctx context.Context, req models.RecommendationRequest, history []models.InteractionEvent, logger zerolog.Logger) (*models.RecommendationResult, error) {
	cf, ok := o.gateway.UserRecommendations(ctx, req.UserID)
	if !ok {
		logger.Debug().Msg("CF absent, serving error fallback")
		return o.popular(ctx, req, models.ErrorFallbackPopular)
	}

	seeds := recentDistinctItems(history, o.config.SimilarFanout)
	cbfSet := o.collectSimilar(ctx, seeds)

	blended := DedupeKeepOrder(BoostByMembership(cf, cbfSet))
	items, err := o.hydrator.Hydrate(ctx, blended, req.Page, req.PageSize, req.Brand)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		logger.Debug().Int("candidates", len(blended)).Msg("hybrid blend hydrated empty, using popularity")
		return o.popular(ctx, req, models.HybridFallbackPopular)
	}

	return &models.RecommendationResult{Type: models.HybridWarmStart, Recommendations: items}, nil
}

// collectSimilar issues one SimilarItems call per seed concurrently and
// unions the results into a membership set. The calls are independent and
// order-insensitive; absent individual results contribute nothing. Each call
// carries its own timeout inside the gateway, so the fan-out is bounded by
// one round trip, not len(seeds).
func (o *Orchestrator) collectSimilar(ctx context.Context, seeds []string) map[string]struct{} {
	results := make([][]string, len(seeds))
	var wg sync.WaitGroup

	for i, seed := range seeds {
		wg.Add(1)
		go func(idx int, itemID string) {
			defer wg.Done()
			if ids, ok := o.gateway.SimilarItems(ctx, itemID); ok {
				results[idx] = ids
			}
		}(i, seed)
	}
	wg.Wait()

	union := make(map[string]struct{})
	for _, ids := range results {
		for _, id := range ids {
			union[id] = struct{}{}
		}
	}
	return union
}

// popular serves one page of the popularity ranking under the given tier label.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (o *Orchestrator) popular(ctx context.Context, req models.RecommendationRequest, tier models.ResultType) (*models.RecommendationResult, error) {
	items, err := o.ranker.Rank(ctx, req.Page, req.PageSize, req.Brand)
	if err != nil {
		return nil, err
	}
	return &models.RecommendationResult{Type: tier, Recommendations: items}, nil
}
