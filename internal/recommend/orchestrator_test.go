// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package recommend

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/suadeo/suadeo/internal/models"
)

// mockGateway returns canned model service responses and records calls.
type mockGateway struct {
	mu           sync.Mutex
	similar      map[string][]string
	similarOK    bool
	cf           []string
	cfOK         bool
	similarCalls []string
	cfCalls      int
}

func (m *mockGateway) SimilarItems(_ context.Context, itemID string) ([]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.similarCalls = append(m.similarCalls, itemID)
	if !m.similarOK {
		return nil, false
	}
	return m.similar[itemID], true
}

func (m *mockGateway) UserRecommendations(_ context.Context, _ string) ([]string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfCalls++
	return m.cf, m.cfOK
}

func (m *mockGateway) similarCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.similarCalls)
}

// mockHistory returns a fixed newest-first event list.
type mockHistory struct {
	events []models.InteractionEvent
	err    error
}

func (m *mockHistory) UserHistory(_ context.Context, _ string, _ int) ([]models.InteractionEvent, error) {
	return m.events, m.err
}

// mockStore serves items from an in-memory catalog.
type mockStore struct {
	items      map[string]models.ItemRecord
	popular    []models.ItemRecord
	idsErr     error
	popularErr error
}

func (m *mockStore) ItemsByIDs(_ context.Context, ids []string, brand string) ([]models.ItemRecord, error) {
	if m.idsErr != nil {
		return nil, m.idsErr
	}
	var out []models.ItemRecord
	for _, id := range ids {
		if item, ok := m.items[id]; ok {
			if brand != "" && item.Brand != brand {
				continue
			}
			out = append(out, item)
		}
	}
	return out, nil
}

func (m *mockStore) PopularItems(_ context.Context, page, pageSize int, _ string) ([]models.ItemRecord, error) {
	if m.popularErr != nil {
		return nil, m.popularErr
	}
	offset := (page - 1) * pageSize
	if offset >= len(m.popular) {
		return []models.ItemRecord{}, nil
	}
	end := offset + pageSize
	if end > len(m.popular) {
		end = len(m.popular)
	}
	return m.popular[offset:end], nil
}

func history(itemIDs ...string) []models.InteractionEvent {
	events := make([]models.InteractionEvent, 0, len(itemIDs))
	for i, id := range itemIDs {
		events = append(events, models.InteractionEvent{
			UserID: "u1",
			ItemID: id,
			Type:   models.InteractionView,
			Seq:    int64(len(itemIDs) - i),
		})
	}
	return events
}

func catalog(ids ...string) map[string]models.ItemRecord {
	items := make(map[string]models.ItemRecord, len(ids))
	for _, id := range ids {
		items[id] = models.ItemRecord{ItemID: id}
	}
	return items
}

func newTestOrchestrator(t *testing.T, gw *mockGateway, hist *mockHistory, store *mockStore) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(DefaultConfig(), gw, hist, store, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewOrchestrator: %v", err)
	}
	return o
}

func itemIDs(items []models.ItemRecord) []string {
	ids := make([]string, 0, len(items))
	for i := range items {
		ids = append(ids, items[i].ItemID)
	}
	return ids
}

func TestRecommendColdStartNoHistory(t *testing.T) {
	gw := &mockGateway{}
	hist := &mockHistory{}
	store := &mockStore{popular: []models.ItemRecord{{ItemID: "p1"}, {ItemID: "p2"}}}
	o := newTestOrchestrator(t, gw, hist, store)

	result, err := o.Recommend(context.Background(), models.RecommendationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Type != models.ColdStartPopular {
		t.Errorf("type = %s, want %s", result.Type, models.ColdStartPopular)
	}
	if len(result.Recommendations) != 2 {
		t.Errorf("got %d items, want 2", len(result.Recommendations))
	}
	if gw.similarCallCount() != 0 {
		t.Errorf("SimilarItems called %d times for empty history, want 0", gw.similarCallCount())
	}
}

func TestRecommendColdStartCBF(t *testing.T) {
	gw := &mockGateway{
		similarOK: true,
		similar:   map[string][]string{"i3": {"s1", "s2", "s1"}},
	}
	hist := &mockHistory{events: history("i3", "i2", "i1")}
	store := &mockStore{items: catalog("s1", "s2")}
	o := newTestOrchestrator(t, gw, hist, store)

	result, err := o.Recommend(context.Background(), models.RecommendationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Type != models.ColdStartCBF {
		t.Errorf("type = %s, want %s", result.Type, models.ColdStartCBF)
	}
	got := itemIDs(result.Recommendations)
	if len(got) != 2 || got[0] != "s1" || got[1] != "s2" {
		t.Errorf("items = %v, want [s1 s2]", got)
	}
	if len(gw.similarCalls) != 1 || gw.similarCalls[0] != "i3" {
		t.Errorf("SimilarItems calls = %v, want the most recent item only", gw.similarCalls)
	}
}

func TestRecommendColdStartCBFAbsent(t *testing.T) {
	gw := &mockGateway{similarOK: false}
	hist := &mockHistory{events: history("i1")}
	store := &mockStore{popular: []models.ItemRecord{{ItemID: "p1"}}}
	o := newTestOrchestrator(t, gw, hist, store)

	result, err := o.Recommend(context.Background(), models.RecommendationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Type != models.ColdStartPopular {
		t.Errorf("type = %s, want %s", result.Type, models.ColdStartPopular)
	}
}

func TestRecommendColdStartCBFHydratesEmpty(t *testing.T) {
	gw := &mockGateway{
		similarOK: true,
		similar:   map[string][]string{"i1": {"unknown1", "unknown2"}},
	}
	hist := &mockHistory{events: history("i1")}
	store := &mockStore{popular: []models.ItemRecord{{ItemID: "p1"}}}
	o := newTestOrchestrator(t, gw, hist, store)

	result, err := o.Recommend(context.Background(), models.RecommendationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Type != models.ColdStartPopular {
		t.Errorf("type = %s, want %s", result.Type, models.ColdStartPopular)
	}
}

func TestRecommendWarmStartCFAbsentIsTerminal(t *testing.T) {
	gw := &mockGateway{cfOK: false, similarOK: true}
	hist := &mockHistory{events: history("i5", "i4", "i3", "i2", "i1")}
	store := &mockStore{popular: []models.ItemRecord{{ItemID: "p1"}}}
	o := newTestOrchestrator(t, gw, hist, store)

	result, err := o.Recommend(context.Background(), models.RecommendationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Type != models.ErrorFallbackPopular {
		t.Errorf("type = %s, want %s", result.Type, models.ErrorFallbackPopular)
	}
	if gw.similarCallCount() != 0 {
		t.Errorf("SimilarItems called %d times after absent CF, want 0", gw.similarCallCount())
	}
}

func TestRecommendWarmStartBoost(t *testing.T) {
	gw := &mockGateway{
		cfOK: true,
		cf:   []string{"a", "b", "c", "d"},
		similarOK: true,
		similar: map[string][]string{
			"i5": {"c"},
			"i4": {"d"},
			"i3": nil,
		},
	}
	hist := &mockHistory{events: history("i5", "i4", "i3", "i2", "i1")}
	store := &mockStore{items: catalog("a", "b", "c", "d")}
	o := newTestOrchestrator(t, gw, hist, store)

	result, err := o.Recommend(context.Background(), models.RecommendationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Type != models.HybridWarmStart {
		t.Errorf("type = %s, want %s", result.Type, models.HybridWarmStart)
	}

	// Boosted members keep their relative CF order ahead of the rest.
	got := itemIDs(result.Recommendations)
	want := []string{"c", "d", "a", "b"}
	if len(got) != len(want) {
		t.Fatalf("items = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("items = %v, want %v", got, want)
			break
		}
	}

	// Fan-out hits the three most recent distinct items.
	if gw.similarCallCount() != 3 {
		t.Errorf("SimilarItems called %d times, want 3", gw.similarCallCount())
	}
}

func TestRecommendWarmStartFanoutSkipsDuplicates(t *testing.T) {
	gw := &mockGateway{cfOK: true, cf: []string{"a"}, similarOK: true}
	hist := &mockHistory{events: history("i2", "i2", "i1", "i2", "i1")}
	store := &mockStore{items: catalog("a")}
	o := newTestOrchestrator(t, gw, hist, store)

	if _, err := o.Recommend(context.Background(), models.RecommendationRequest{UserID: "u1"}); err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if gw.similarCallCount() != 2 {
		t.Errorf("SimilarItems called %d times, want 2 distinct seeds", gw.similarCallCount())
	}
}

func TestRecommendWarmStartEmptyHydrationFallsBack(t *testing.T) {
	gw := &mockGateway{cfOK: true, cf: []string{"ghost1", "ghost2"}, similarOK: true}
	hist := &mockHistory{events: history("i5", "i4", "i3", "i2", "i1")}
	store := &mockStore{popular: []models.ItemRecord{{ItemID: "p1"}}}
	o := newTestOrchestrator(t, gw, hist, store)

	result, err := o.Recommend(context.Background(), models.RecommendationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Type != models.HybridFallbackPopular {
		t.Errorf("type = %s, want %s", result.Type, models.HybridFallbackPopular)
	}
}

func TestRecommendStorageErrorRecovery(t *testing.T) {
	gw := &mockGateway{}
	hist := &mockHistory{err: errors.New("disk on fire")}
	store := &mockStore{popular: []models.ItemRecord{{ItemID: "p1"}}}
	o := newTestOrchestrator(t, gw, hist, store)

	result, err := o.Recommend(context.Background(), models.RecommendationRequest{UserID: "u1"})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if result.Type != models.ErrorFallbackPopular {
		t.Errorf("type = %s, want %s", result.Type, models.ErrorFallbackPopular)
	}
}

func TestRecommendStorageErrorAndRankFailure(t *testing.T) {
	gw := &mockGateway{}
	hist := &mockHistory{err: errors.New("disk on fire")}
	store := &mockStore{popularErr: errors.New("still on fire")}
	o := newTestOrchestrator(t, gw, hist, store)

	if _, err := o.Recommend(context.Background(), models.RecommendationRequest{UserID: "u1"}); err == nil {
		t.Fatal("expected error when both pipeline and fallback fail")
	}
}

func TestRecommendPageClamping(t *testing.T) {
	items := make([]models.ItemRecord, 60)
	for i := range items {
		items[i] = models.ItemRecord{ItemID: string(rune('A' + i%26))}
	}
	gw := &mockGateway{}
	hist := &mockHistory{}
	store := &mockStore{popular: items}
	o := newTestOrchestrator(t, gw, hist, store)

	result, err := o.Recommend(context.Background(), models.RecommendationRequest{
		UserID:   "u1",
		Page:     0,
		PageSize: 100,
	})
	if err != nil {
		t.Fatalf("Recommend: %v", err)
	}
	if len(result.Recommendations) != 25 {
		t.Errorf("got %d items, want page size clamped to 25", len(result.Recommendations))
	}
}
