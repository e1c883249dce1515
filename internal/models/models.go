// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

// Package models defines the domain types shared across Suadeo packages.
package models

import "time"

// ItemRecord represents a catalog entry. The orchestration engine only ever
// reads items; writes go through the catalog endpoints.
type ItemRecord struct {
	// ItemID is the opaque unique identifier assigned by the catalog.
	ItemID string `json:"item_id"`

	// Brand is the category label used for filtering.
	Brand string `json:"brand"`

	// Attributes holds free-form display attributes (name, image URL, specs).
	Attributes map[string]string `json:"attributes,omitempty"`

	// Rating bucket counters. The popularity score is the weighted sum
	// 5*Stars5 + 4*Stars4 + 3*Stars3 + 2*Stars2 + 1*Stars1.
	Stars1 int `json:"stars_1"`
	Stars2 int `json:"stars_2"`
	Stars3 int `json:"stars_3"`
	Stars4 int `json:"stars_4"`
	Stars5 int `json:"stars_5"`
}

// PopularityScore returns the weighted engagement score for the item.
func (i *ItemRecord) PopularityScore() int {
	return 5*i.Stars5 + 4*i.Stars4 + 3*i.Stars3 + 2*i.Stars2 + 1*i.Stars1
}

// Interaction types tracked by the service. The set is open-ended; these are
// the values the UI currently emits.
const (
	InteractionView  = "view"
	InteractionClick = "click"
)

// InteractionEvent represents one user action on one item. Events are
// immutable once created and are never deleted by this service.
type InteractionEvent struct {
	EventID string `json:"event_id"`
	UserID  string `json:"user_id"`
	ItemID  string `json:"item_id"`
	Type    string `json:"type"`

	// Seq is server-assigned and monotonically increasing per insertion.
	// History queries order by Seq descending, newest first.
	Seq       int64     `json:"seq"`
	CreatedAt time.Time `json:"created_at"`
}

// Identity is the verified {userId, username} pair extracted from the bearer
// credential issued by the external identity provider.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// ResultType labels which strategy produced a recommendation set. Downstream
// consumers key UI text off these exact values.
type ResultType string

// Recommendation result types.
const (
	ColdStartPopular      ResultType = "cold_start_popular"
	ColdStartCBF          ResultType = "cold_start_cbf"
	HybridWarmStart       ResultType = "hybrid_warm_start"
	HybridFallbackPopular ResultType = "hybrid_fallback_popular"
	ErrorFallbackPopular  ResultType = "error_fallback_popular"
)

// RecommendationRequest is the transient input to the orchestrator.
type RecommendationRequest struct {
	UserID   string `json:"user_id"`
	Page     int    `json:"page" validate:"min=1"`
	PageSize int    `json:"page_size" validate:"min=1,max=25"`

	// Brand optionally restricts results to one category.
	Brand string `json:"brand,omitempty"`
}

// RecommendationResult is the transient output of the orchestrator. Items are
// denormalized copies, never references into the catalog.
type RecommendationResult struct {
	Type            ResultType   `json:"type"`
	Recommendations []ItemRecord `json:"recommendations"`
}
