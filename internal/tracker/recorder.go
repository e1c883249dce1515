// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

// Package tracker implements fire-and-forget interaction recording. Events
// are accepted on the request path without blocking it, moved through an
// in-process message bus and persisted by a supervised consumer. A recording
// failure never fails the request that produced the event.
package tracker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/suadeo/suadeo/internal/metrics"
	"github.com/suadeo/suadeo/internal/models"
)

// TopicInteractions is the bus topic carrying interaction events.
const TopicInteractions = "interactions"

// Config holds tracker tuning knobs.
type Config struct {
	// BufferSize bounds the accept queue. When the queue is full, new
	// events are dropped and counted rather than blocking the caller.
	BufferSize int
}

// Recorder accepts interaction events and forwards them to the message bus.
// Record is safe for concurrent use and never blocks.
type Recorder struct {
	bus    *gochannel.GoChannel
	queue  chan models.InteractionEvent
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewRecorder creates a recorder with an in-process bus.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRecorder(cfg Config, logger zerolog.Logger) *Recorder {
	if cfg.BufferSize < 1 {
		cfg.BufferSize = 1024
	}

	bus := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: int64(cfg.BufferSize),
	}, newWatermillLogger(logger))

	return &Recorder{
		bus:    bus,
		queue:  make(chan models.InteractionEvent, cfg.BufferSize),
		logger: logger.With().Str("component", "tracker").Logger(),
	}
}

// Record accepts one interaction event. Missing identifiers and timestamps
// are filled in. If the accept queue is saturated the event is dropped, which
// is preferable to stalling the serving path.
//
//nolint:gocritic // hugeParam: event passed by value for immutability
func (r *Recorder) Record(event models.InteractionEvent) {
	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		metrics.InteractionEventsDropped.Inc()
		return
	}

	if event.EventID == "" {
		event.EventID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}
	if event.Type == "" {
		event.Type = models.InteractionView
	}

	select {
	case r.queue <- event:
		metrics.InteractionEventsAccepted.Inc()
	default:
		metrics.InteractionEventsDropped.Inc()
		r.logger.Warn().Str("event_id", event.EventID).Msg("accept queue saturated, event dropped")
	}
}

// Serve drains the accept queue onto the bus until the context is canceled.
// It implements the supervision tree's service contract.
func (r *Recorder) Serve(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-r.queue:
			if err := r.publish(event); err != nil {
				metrics.InteractionWriteFailures.Inc()
				r.logger.Error().Err(err).Str("event_id", event.EventID).Msg("publish failed")
			}
		}
	}
}

// String identifies the service in supervisor logs.
func (r *Recorder) String() string {
	return "tracker-recorder"
}

//nolint:gocritic // hugeParam: event passed by value for immutability
func (r *Recorder) publish(event models.InteractionEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(event.EventID, data)
	msg.Metadata.Set("user_id", event.UserID)
	msg.Metadata.Set("type", string(event.Type))

	return r.bus.Publish(TopicInteractions, msg)
}

// Subscribe exposes the bus subscription for the persistence consumer.
func (r *Recorder) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return r.bus.Subscribe(ctx, TopicInteractions)
}

// Close shuts down the bus. Events still in the accept queue are discarded.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true

	return r.bus.Close()
}
