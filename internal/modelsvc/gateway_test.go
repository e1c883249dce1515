// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package modelsvc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/suadeo/suadeo/internal/config"
)

func newTestGateway(t *testing.T, serverURL string) *Gateway {
	t.Helper()
	return New(&config.ModelServiceConfig{
		URL:                 serverURL,
		Timeout:             500 * time.Millisecond,
		CFTopK:              50,
		CBFTopK:             5,
		BreakerFailureRatio: 0.6,
		BreakerMinRequests:  100, // keep the breaker closed during tests
		BreakerOpenTimeout:  time.Second,
	}, zerolog.Nop())
}

func TestUserRecommendationsSuccess(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"recommendations":["i1","i2","i3"]}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL)
	ids, ok := g.UserRecommendations(context.Background(), "user-1")
	if !ok {
		t.Fatal("expected present result")
	}
	if want := []string{"i1", "i2", "i3"}; !reflect.DeepEqual(ids, want) {
		t.Errorf("ids = %v, want %v", ids, want)
	}
	if gotPath != "/api/recommend/cf/user-1" {
		t.Errorf("path = %s, want /api/recommend/cf/user-1", gotPath)
	}
	if gotQuery != "k=50" {
		t.Errorf("query = %s, want k=50", gotQuery)
	}
}

func TestSimilarItemsSuccess(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		w.Write([]byte(`{"recommendations":[]}`))
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL)
	ids, ok := g.SimilarItems(context.Background(), "item/42")
	if !ok {
		t.Fatal("expected present result for empty list")
	}
	if len(ids) != 0 {
		t.Errorf("ids = %v, want empty", ids)
	}
	if gotPath != "/api/recommend/cbf/item%2F42" {
		t.Errorf("path = %s, item id not escaped", gotPath)
	}
}

func TestFetchAbsentOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL)
	if _, ok := g.UserRecommendations(context.Background(), "u1"); ok {
		t.Error("expected absent on 500")
	}
}

func TestFetchAbsentOnMalformedBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "hello"},
		{"missing field", `{"results":["a"]}`},
		{"null field", `{"recommendations":null}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			g := newTestGateway(t, srv.URL)
			if _, ok := g.UserRecommendations(context.Background(), "u1"); ok {
				t.Errorf("expected absent for body %q", tt.body)
			}
		})
	}
}

func TestFetchAbsentOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	g := newTestGateway(t, srv.URL)
	start := time.Now()
	if _, ok := g.SimilarItems(context.Background(), "i1"); ok {
		t.Error("expected absent on timeout")
	}
	if elapsed := time.Since(start); elapsed > 1500*time.Millisecond {
		t.Errorf("call took %v, timeout not enforced", elapsed)
	}
}

func TestFetchAbsentOnUnreachableService(t *testing.T) {
	// Port from a server that was already closed.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	g := newTestGateway(t, addr)
	if _, ok := g.UserRecommendations(context.Background(), "u1"); ok {
		t.Error("expected absent when service is unreachable")
	}
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	g := New(&config.ModelServiceConfig{
		URL:                 srv.URL,
		Timeout:             500 * time.Millisecond,
		BreakerFailureRatio: 0.5,
		BreakerMinRequests:  3,
		BreakerOpenTimeout:  time.Minute,
	}, zerolog.Nop())

	for i := 0; i < 5; i++ {
		g.UserRecommendations(context.Background(), "u1")
	}
	if g.breaker.State() != gobreaker.StateOpen {
		t.Errorf("breaker state = %v, want open", g.breaker.State())
	}
}
