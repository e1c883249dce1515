// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package recommend

import (
	"sort"

	"github.com/suadeo/suadeo/internal/models"
)

// DedupeKeepOrder removes duplicate identifiers, preserving the position of
// each identifier's first occurrence.
func DedupeKeepOrder(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// BoostByMembership re-ranks the CF candidate list: identifiers that also
// appear in the CBF membership set move to the front. The sort is stable, so
// identifiers with equal score keep their relative CF order. This is a boost,
// not a union; identifiers absent from cf are never introduced.
func BoostByMembership(cf []string, cbf map[string]struct{}) []string {
	out := make([]string, len(cf))
	copy(out, cf)
	sort.SliceStable(out, func(i, j int) bool {
		_, iIn := cbf[out[i]]
		_, jIn := cbf[out[j]]
		return iIn && !jIn
	})
	return out
}

// recentDistinctItems returns the first n distinct item identifiers from a
// newest-first event history.
func recentDistinctItems(history []models.InteractionEvent, n int) []string {
	seen := make(map[string]struct{}, n)
	out := make([]string, 0, n)
	for i := range history {
		id := history[i].ItemID
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
		if len(out) == n {
			break
		}
	}
	return out
}
