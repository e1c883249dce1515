// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

// Package modelsvc provides a resilient client to the external model service
// that serves collaborative filtering (CF) and content-based filtering (CBF)
// inference.
//
// The gateway absorbs every failure mode at this boundary: timeouts, network
// errors, non-2xx responses, malformed payloads and an open circuit breaker
// all surface as "absent" to the caller, never as an error. Retry policy is
// intentionally absent; the orchestrator's fallback chain handles degradation.
package modelsvc

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/suadeo/suadeo/internal/config"
	"github.com/suadeo/suadeo/internal/metrics"
)

// maxResponseBytes caps the model service response size read into memory.
const maxResponseBytes = 1 << 20

// recommendationsResponse is the strict response schema. A payload that does
// not carry a recommendations array is treated as absent, never parsed
// partially.
type recommendationsResponse struct {
	Recommendations []string `json:"recommendations"`
}

// Gateway issues CF and CBF requests to the model service.
// It is safe for concurrent use.
type Gateway struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[[]string]
	limiter *rate.Limiter
	timeout time.Duration
	cfTopK  int
	cbfTopK int
	logger  zerolog.Logger
}

// New creates a model service gateway.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *config.ModelServiceConfig, logger zerolog.Logger) *Gateway {
	var limiter *rate.Limiter
	if cfg.MaxRequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.MaxRequestsPerSecond), int(cfg.MaxRequestsPerSecond)+1)
	}

	breaker := gobreaker.NewCircuitBreaker[[]string](gobreaker.Settings{
		Name:    "model-service",
		Timeout: cfg.BreakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.BreakerMinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= cfg.BreakerFailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.Set(stateToFloat(to))
			logger.Info().Str("breaker", name).
				Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state transition")
		},
	})

	return &Gateway{
		baseURL: cfg.URL,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: breaker,
		limiter: limiter,
		timeout: cfg.Timeout,
		cfTopK:  cfg.CFTopK,
		cbfTopK: cfg.CBFTopK,
		logger:  logger.With().Str("component", "modelsvc").Logger(),
	}
}

// SimilarItems requests content-based "items similar to itemID". The second
// return value is false when the result is absent.
func (g *Gateway) SimilarItems(ctx context.Context, itemID string) ([]string, bool) {
	path := fmt.Sprintf("/api/recommend/cbf/%s?k=%d", url.PathEscape(itemID), g.cbfTopK)
	return g.fetch(ctx, "cbf", path)
}

// UserRecommendations requests collaborative filtering results for a user.
// The second return value is false when the result is absent.
func (g *Gateway) UserRecommendations(ctx context.Context, userID string) ([]string, bool) {
	path := fmt.Sprintf("/api/recommend/cf/%s?k=%d", url.PathEscape(userID), g.cfTopK)
	return g.fetch(ctx, "cf", path)
}

// fetch performs one bounded, breaker-protected call. Every failure is
// converted to absent here; nothing propagates as an error.
func (g *Gateway) fetch(ctx context.Context, endpoint, path string) ([]string, bool) {
	if g.limiter != nil && !g.limiter.Allow() {
		metrics.ModelServiceRequests.WithLabelValues(endpoint, "rejected").Inc()
		g.logger.Warn().Str("endpoint", endpoint).Msg("model service call rejected by rate limiter")
		return nil, false
	}

	start := time.Now()
	ids, err := g.breaker.Execute(func() ([]string, error) {
		return g.doRequest(ctx, path)
	})
	metrics.ModelServiceDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())

	if err != nil {
		outcome := "absent"
		if err == gobreaker.ErrOpenState || err == gobreaker.ErrTooManyRequests {
			outcome = "rejected"
		}
		metrics.ModelServiceRequests.WithLabelValues(endpoint, outcome).Inc()
		g.logger.Debug().Str("endpoint", endpoint).Err(err).
			Dur("elapsed", time.Since(start)).
			Msg("model service call treated as absent")
		return nil, false
	}

	metrics.ModelServiceRequests.WithLabelValues(endpoint, "ok").Inc()
	return ids, true
}

// doRequest issues the HTTP call and validates the response schema.
func (g *Gateway) doRequest(ctx context.Context, path string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("model service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("model service returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	var parsed recommendationsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Recommendations == nil {
		return nil, fmt.Errorf("response missing recommendations field")
	}

	return parsed.Recommendations, nil
}

// stateToFloat maps breaker state to the Prometheus gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	default:
		return 2
	}
}
