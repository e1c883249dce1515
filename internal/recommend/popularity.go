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

// Ranker produces the non-personalized popularity fallback ranking.
//
// The score per item is 5*stars_5 + 4*stars_4 + 3*stars_3 + 2*stars_2 +
// 1*stars_1, sorted descending with storage order as the tiebreak. The store
// computes and paginates the ranking at the data-source level; what matters
// here is the contract that repeated calls over unchanged data return
// identical output, since callers paginate across requests.
type Ranker struct {
	store ItemStore
}

// NewRanker creates a popularity ranker over the given catalog store.
func NewRanker(store ItemStore) *Ranker {
	return &Ranker{store: store}
}

// Rank returns one page of the popularity ranking, optionally restricted to
// one brand.
func (r *Ranker) Rank(ctx context.Context, page, pageSize int, brand string) ([]models.ItemRecord, error) {
	items, err := r.store.PopularItems(ctx, page, pageSize, brand)
	if err != nil {
		return nil, fmt.Errorf("popularity ranking: %w", err)
	}
	if items == nil {
		items = []models.ItemRecord{}
	}
	return items, nil
}
