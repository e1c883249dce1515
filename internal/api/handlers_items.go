// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/suadeo/suadeo/internal/auth"
	"github.com/suadeo/suadeo/internal/database"
	"github.com/suadeo/suadeo/internal/models"
)

// createItemRequest is the payload for item creation.
type createItemRequest struct {
	ItemID     string            `json:"item_id" validate:"required,max=256"`
	Brand      string            `json:"brand" validate:"max=256"`
	Attributes map[string]string `json:"attributes"`
	Stars1     int               `json:"stars_1" validate:"min=0"`
	Stars2     int               `json:"stars_2" validate:"min=0"`
	Stars3     int               `json:"stars_3" validate:"min=0"`
	Stars4     int               `json:"stars_4" validate:"min=0"`
	Stars5     int               `json:"stars_5" validate:"min=0"`
}

// CreateItem serves POST /api/v1/items.
func (h *Handlers) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_BODY", "malformed request body", err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	item := &models.ItemRecord{
		ItemID:     req.ItemID,
		Brand:      req.Brand,
		Attributes: req.Attributes,
		Stars1:     req.Stars1,
		Stars2:     req.Stars2,
		Stars3:     req.Stars3,
		Stars4:     req.Stars4,
		Stars5:     req.Stars5,
	}
	if err := h.catalog.CreateItem(r.Context(), item); err != nil {
		respondError(w, http.StatusInternalServerError, "CREATE_FAILED", "failed to create item", err)
		return
	}

	respondJSON(w, http.StatusCreated, &models.APIResponse{
		Status:   "success",
		Data:     item,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// GetItem serves GET /api/v1/items/{itemID}. A successful lookup by an
// identified user records a view event on the fire-and-forget path.
func (h *Handlers) GetItem(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if itemID == "" {
		respondError(w, http.StatusBadRequest, "MISSING_ITEM_ID", "item id is required", nil)
		return
	}

	item, err := h.catalog.GetItem(r.Context(), itemID)
	if err != nil {
		if errors.Is(err, database.ErrItemNotFound) {
			respondError(w, http.StatusNotFound, "ITEM_NOT_FOUND", "item not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "GET_FAILED", "failed to fetch item", err)
		return
	}

	if userID := h.viewerID(r); userID != "" {
		h.recorder.Record(models.InteractionEvent{
			UserID: userID,
			ItemID: itemID,
			Type:   models.InteractionView,
		})
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     item,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// ListItems serves GET /api/v1/items.
func (h *Handlers) ListItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	page, pageSize := h.pageParams(r)

	items, err := h.catalog.ListItems(r.Context(), page, pageSize, r.URL.Query().Get("brand"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "LIST_FAILED", "failed to list items", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   items,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// PopularItems serves GET /api/v1/items/popular, the raw popularity ranking.
func (h *Handlers) PopularItems(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	page, pageSize := h.pageParams(r)

	items, err := h.catalog.PopularItems(r.Context(), page, pageSize, r.URL.Query().Get("brand"))
	if err != nil {
		respondError(w, http.StatusInternalServerError, "POPULAR_FAILED", "failed to rank items", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   items,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// pageParams extracts and clamps pagination query parameters.
func (h *Handlers) pageParams(r *http.Request) (page, pageSize int) {
	page = getIntParam(r, "page", 1)
	if page < 1 {
		page = 1
	}
	pageSize = getIntParam(r, "page_size", h.cfg.Recommend.DefaultPageSize)
	if pageSize < 1 {
		pageSize = h.cfg.Recommend.DefaultPageSize
	}
	if pageSize > h.cfg.Recommend.MaxPageSize {
		pageSize = h.cfg.Recommend.MaxPageSize
	}
	return page, pageSize
}

// viewerID resolves who is looking at an item: the authenticated identity,
// or the user_id query parameter for unauthenticated deployments.
func (h *Handlers) viewerID(r *http.Request) string {
	if identity := auth.IdentityFromContext(r.Context()); identity != nil {
		return identity.UserID
	}
	return r.URL.Query().Get("user_id")
}
