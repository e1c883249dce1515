// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package api

import (
	"net/http"
	"time"

	"github.com/suadeo/suadeo/internal/models"
)

// recommendationsResponse is the data payload of the recommendations endpoint.
type recommendationsResponse struct {
	Type            models.ResultType   `json:"type"`
	Recommendations []models.ItemRecord `json:"recommendations"`
	Count           int                 `json:"count"`
	Page            int                 `json:"page"`
	PageSize        int                 `json:"page_size"`
}

// Recommendations serves GET /api/v1/recommendations.
//
// The target user is the authenticated identity; the user_id query parameter
// is a fallback for unauthenticated deployments and never overrides a token.
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := h.viewerID(r)
	if userID == "" {
		respondError(w, http.StatusBadRequest, "MISSING_USER_ID", "user_id is required", nil)
		return
	}

	// Out-of-range pagination is clamped, not rejected, same as the item
	// listing endpoints.
	page, pageSize := h.pageParams(r)

	req := models.RecommendationRequest{
		UserID:   userID,
		Page:     page,
		PageSize: pageSize,
		Brand:    r.URL.Query().Get("brand"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	result, err := h.recommender.Recommend(r.Context(), req)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "RECOMMENDATION_FAILED", "failed to produce recommendations", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: recommendationsResponse{
			Type:            result.Type,
			Recommendations: result.Recommendations,
			Count:           len(result.Recommendations),
			Page:            req.Page,
			PageSize:        req.PageSize,
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
