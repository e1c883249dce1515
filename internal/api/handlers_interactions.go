// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package api

import (
	"net/http"
	"time"

	"github.com/suadeo/suadeo/internal/auth"
	"github.com/suadeo/suadeo/internal/models"
)

// createInteractionRequest is the payload for explicit interaction reporting.
type createInteractionRequest struct {
	UserID string `json:"user_id" validate:"max=256"`
	ItemID string `json:"item_id" validate:"required,max=256"`
	Type   string `json:"type" validate:"omitempty,oneof=view click"`
}

// CreateInteraction serves POST /api/v1/interactions. The event is accepted
// asynchronously: a 202 means queued, not persisted.
func (h *Handlers) CreateInteraction(w http.ResponseWriter, r *http.Request) {
	var req createInteractionRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "malformed request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	userID := req.UserID
	if identity := auth.IdentityFromContext(r.Context()); identity != nil {
		userID = identity.UserID
	}
	if userID == "" {
		respondError(w, http.StatusBadRequest, "MISSING_USER_ID", "user_id is required", nil)
		return
	}

	h.recorder.Record(models.InteractionEvent{
		UserID: userID,
		ItemID: req.ItemID,
		Type:   req.Type,
	})

	respondJSON(w, http.StatusAccepted, &models.APIResponse{
		Status:   "success",
		Data:     map[string]string{"state": "accepted"},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// ListInteractions serves GET /api/v1/interactions, newest first.
func (h *Handlers) ListInteractions(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		if identity := auth.IdentityFromContext(r.Context()); identity != nil {
			userID = identity.UserID
		}
	}
	if userID == "" {
		respondError(w, http.StatusBadRequest, "MISSING_USER_ID", "user_id is required", nil)
		return
	}

	limit := getIntParam(r, "limit", 50)
	if limit < 1 || limit > 500 {
		limit = 50
	}

	events, err := h.history.UserHistory(r.Context(), userID, limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "HISTORY_FAILED", "failed to load interactions", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   events,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}
