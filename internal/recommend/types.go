// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

// Package recommend implements the recommendation orchestration engine: per
// request it classifies the user as cold or warm start, fans out to the model
// service, blends candidate lists, hydrates identifiers into catalog records
// and degrades through a layered popularity fallback.
//
// The package depends only on the narrow interfaces below so the decision
// logic is testable without DuckDB or a live model service.
package recommend

import (
	"context"
	"fmt"

	"github.com/suadeo/suadeo/internal/models"
)

// Gateway is the model service contract. Both calls return absent (false)
// on any upstream failure; they never return an error.
type Gateway interface {
	// SimilarItems returns content-based candidates for an item.
	SimilarItems(ctx context.Context, itemID string) ([]string, bool)

	// UserRecommendations returns collaborative filtering candidates for a user.
	UserRecommendations(ctx context.Context, userID string) ([]string, bool)
}

// HistoryStore reads a user's interaction events, newest first.
type HistoryStore interface {
	UserHistory(ctx context.Context, userID string, limit int) ([]models.InteractionEvent, error)
}

// ItemStore is the catalog store contract used for hydration and the
// popularity ranking.
type ItemStore interface {
	// ItemsByIDs returns records for the given identifiers, optionally
	// restricted to one brand. Unknown identifiers are omitted. Order of
	// the returned slice is unspecified.
	ItemsByIDs(ctx context.Context, ids []string, brand string) ([]models.ItemRecord, error)

	// PopularItems returns the deterministic, stably sorted popularity
	// ranking, paginated at the data source.
	PopularItems(ctx context.Context, page, pageSize int, brand string) ([]models.ItemRecord, error)
}

// Config holds orchestration tuning knobs.
type Config struct {
	// ColdStartThreshold is the interaction count below which collaborative
	// filtering is considered unreliable for the user.
	ColdStartThreshold int

	// SimilarFanout is how many recent distinct items feed the concurrent
	// CBF fan-out on the warm-start path.
	SimilarFanout int

	DefaultPageSize int
	MaxPageSize     int
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		ColdStartThreshold: 5,
		SimilarFanout:      3,
		DefaultPageSize:    10,
		MaxPageSize:        25,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.ColdStartThreshold < 1 {
		return fmt.Errorf("cold start threshold must be at least 1, got %d", c.ColdStartThreshold)
	}
	if c.SimilarFanout < 1 {
		return fmt.Errorf("similar fanout must be at least 1, got %d", c.SimilarFanout)
	}
	if c.DefaultPageSize < 1 {
		return fmt.Errorf("default page size must be at least 1, got %d", c.DefaultPageSize)
	}
	if c.MaxPageSize < c.DefaultPageSize {
		return fmt.Errorf("max page size %d is below default page size %d", c.MaxPageSize, c.DefaultPageSize)
	}
	return nil
}
