// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package recommend

import (
	"context"
	"fmt"

	"github.com/suadeo/suadeo/internal/models"
)

// Hydrator turns an ordered candidate list of item identifiers into an
// ordered, paginated list of full catalog records.
type Hydrator struct {
	store ItemStore
}

// NewHydrator creates a hydrator over the given catalog store.
func NewHydrator(store ItemStore) *Hydrator {
	return &Hydrator{store: store}
}

// Hydrate fetches the catalog records for candidateIDs (optionally restricted
// to one brand), re-emits them in the original candidate order to preserve
// upstream ranking, silently drops unknown identifiers, then applies the page
// window. The output length is at most pageSize and its order is a stable
// sub-sequence of candidateIDs.
func (h *Hydrator) Hydrate(ctx context.Context, candidateIDs []string, page, pageSize int, brand string) ([]models.ItemRecord, error) {
	if len(candidateIDs) == 0 {
		return []models.ItemRecord{}, nil
	}

	records, err := h.store.ItemsByIDs(ctx, candidateIDs, brand)
	if err != nil {
		return nil, fmt.Errorf("fetch candidates: %w", err)
	}

	byID := make(map[string]models.ItemRecord, len(records))
	for i := range records {
		byID[records[i].ItemID] = records[i]
	}

	ordered := make([]models.ItemRecord, 0, len(byID))
	for _, id := range candidateIDs {
		if rec, ok := byID[id]; ok {
			ordered = append(ordered, rec)
		}
	}

	// Pagination applies after filtering and reordering.
	offset := (page - 1) * pageSize
	if offset >= len(ordered) {
		return []models.ItemRecord{}, nil
	}
	end := offset + pageSize
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[offset:end], nil
}
