// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package tracker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/suadeo/suadeo/internal/metrics"
	"github.com/suadeo/suadeo/internal/models"
)

type captureStore struct {
	mu     sync.Mutex
	events []models.InteractionEvent
	err    error
}

func (s *captureStore) InsertInteraction(_ context.Context, event *models.InteractionEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.events = append(s.events, *event)
	return nil
}

func (s *captureStore) snapshot() []models.InteractionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.InteractionEvent, len(s.events))
	copy(out, s.events)
	return out
}

func TestRecordFillsDefaults(t *testing.T) {
	r := NewRecorder(Config{BufferSize: 4}, zerolog.Nop())
	defer r.Close()

	r.Record(models.InteractionEvent{UserID: "u1", ItemID: "i1"})

	select {
	case event := <-r.queue:
		if event.EventID == "" {
			t.Error("EventID not assigned")
		}
		if event.CreatedAt.IsZero() {
			t.Error("CreatedAt not assigned")
		}
		if event.Type != models.InteractionView {
			t.Errorf("Type = %s, want default view", event.Type)
		}
	default:
		t.Fatal("event not queued")
	}
}

func TestRecordDropsWhenSaturated(t *testing.T) {
	r := NewRecorder(Config{BufferSize: 1}, zerolog.Nop())
	defer r.Close()

	droppedBefore := testutil.ToFloat64(metrics.InteractionEventsDropped)

	// No pump running: the second and third events overflow the queue.
	for i := 0; i < 3; i++ {
		r.Record(models.InteractionEvent{UserID: "u1", ItemID: "i1"})
	}

	dropped := testutil.ToFloat64(metrics.InteractionEventsDropped) - droppedBefore
	if dropped != 2 {
		t.Errorf("dropped = %v, want 2", dropped)
	}
}

func TestRecordAfterCloseDrops(t *testing.T) {
	r := NewRecorder(Config{BufferSize: 4}, zerolog.Nop())
	if err := r.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	r.Record(models.InteractionEvent{UserID: "u1", ItemID: "i1"})

	select {
	case <-r.queue:
		t.Fatal("event queued after close")
	default:
	}
}

func TestRecorderConsumerRoundtrip(t *testing.T) {
	r := NewRecorder(Config{BufferSize: 16}, zerolog.Nop())
	defer r.Close()

	store := &captureStore{}
	consumer := NewConsumer(r, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = consumer.Serve(ctx) }()
	go func() { _ = r.Serve(ctx) }()

	// The subscription races with the first publish on a non-persistent
	// bus, so keep recording until one event lands.
	deadline := time.After(5 * time.Second)
	for {
		r.Record(models.InteractionEvent{UserID: "u1", ItemID: "i1", Type: models.InteractionClick})

		if events := store.snapshot(); len(events) > 0 {
			event := events[0]
			if event.UserID != "u1" || event.ItemID != "i1" || event.Type != models.InteractionClick {
				t.Errorf("persisted event = %+v", event)
			}
			if event.EventID == "" {
				t.Error("persisted event has no EventID")
			}
			return
		}

		select {
		case <-deadline:
			t.Fatal("no event persisted within deadline")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestConsumerSwallowsStoreFailures(t *testing.T) {
	r := NewRecorder(Config{BufferSize: 16}, zerolog.Nop())
	defer r.Close()

	store := &captureStore{err: errors.New("write failed")}
	consumer := NewConsumer(r, store, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	failuresBefore := testutil.ToFloat64(metrics.InteractionWriteFailures)

	go func() { _ = consumer.Serve(ctx) }()
	go func() { _ = r.Serve(ctx) }()

	deadline := time.After(5 * time.Second)
	for {
		r.Record(models.InteractionEvent{UserID: "u1", ItemID: "i1"})

		if testutil.ToFloat64(metrics.InteractionWriteFailures) > failuresBefore {
			return // failure counted, consumer still running
		}

		select {
		case <-deadline:
			t.Fatal("write failure never counted")
		case <-time.After(10 * time.Millisecond):
		}
	}
}
