// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package recommend

import (
	"reflect"
	"testing"

	"github.com/suadeo/suadeo/internal/models"
)

func TestDedupeKeepOrder(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"empty", nil, []string{}},
		{"no duplicates", []string{"a", "b", "c"}, []string{"a", "b", "c"}},
		{"keeps first occurrence", []string{"a", "b", "a", "c", "b"}, []string{"a", "b", "c"}},
		{"all same", []string{"x", "x", "x"}, []string{"x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DedupeKeepOrder(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("DedupeKeepOrder(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestBoostByMembership(t *testing.T) {
	set := func(ids ...string) map[string]struct{} {
		s := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			s[id] = struct{}{}
		}
		return s
	}

	tests := []struct {
		name string
		cf   []string
		cbf  map[string]struct{}
		want []string
	}{
		{"empty membership keeps order", []string{"a", "b", "c"}, set(), []string{"a", "b", "c"}},
		{"boosted keep relative order", []string{"a", "b", "c", "d"}, set("d", "b"), []string{"b", "d", "a", "c"}},
		{"members not in cf are ignored", []string{"a", "b"}, set("z"), []string{"a", "b"}},
		{"all boosted is a no-op", []string{"a", "b"}, set("a", "b"), []string{"a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BoostByMembership(tt.cf, tt.cbf)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BoostByMembership(%v) = %v, want %v", tt.cf, got, tt.want)
			}
		})
	}
}

func TestBoostByMembershipDoesNotMutateInput(t *testing.T) {
	cf := []string{"a", "b", "c"}
	BoostByMembership(cf, map[string]struct{}{"c": {}})
	if !reflect.DeepEqual(cf, []string{"a", "b", "c"}) {
		t.Errorf("input slice mutated: %v", cf)
	}
}

func TestRecentDistinctItems(t *testing.T) {
	events := []models.InteractionEvent{
		{ItemID: "e"},
		{ItemID: "d"},
		{ItemID: "e"},
		{ItemID: "c"},
		{ItemID: "b"},
		{ItemID: "a"},
	}

	got := recentDistinctItems(events, 3)
	want := []string{"e", "d", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recentDistinctItems = %v, want %v", got, want)
	}

	got = recentDistinctItems(events, 10)
	want = []string{"e", "d", "c", "b", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("recentDistinctItems with large n = %v, want %v", got, want)
	}

	if got := recentDistinctItems(nil, 3); len(got) != 0 {
		t.Errorf("recentDistinctItems(nil) = %v, want empty", got)
	}
}
