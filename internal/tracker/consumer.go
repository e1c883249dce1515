// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package tracker

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/suadeo/suadeo/internal/metrics"
	"github.com/suadeo/suadeo/internal/models"
)

// InteractionStore persists interaction events.
type InteractionStore interface {
	InsertInteraction(ctx context.Context, event *models.InteractionEvent) error
}

// Consumer subscribes to the interaction topic and persists each event.
// Persistence failures are logged and counted but never re-queued; the
// contract of the recording path is best-effort, not exactly-once.
type Consumer struct {
	recorder *Recorder
	store    InteractionStore
	logger   zerolog.Logger
}

// NewConsumer creates a persistence consumer for the recorder's bus.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewConsumer(recorder *Recorder, store InteractionStore, logger zerolog.Logger) *Consumer {
	return &Consumer{
		recorder: recorder,
		store:    store,
		logger:   logger.With().Str("component", "tracker-consumer").Logger(),
	}
}

// Serve consumes events until the context is canceled or the bus closes.
// It implements the supervision tree's service contract.
func (c *Consumer) Serve(ctx context.Context) error {
	msgs, err := c.recorder.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", TopicInteractions, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-msgs:
			if !ok {
				return ctx.Err()
			}
			c.handle(ctx, msg.Payload)
			msg.Ack()
		}
	}
}

// String identifies the service in supervisor logs.
func (c *Consumer) String() string {
	return "tracker-consumer"
}

func (c *Consumer) handle(ctx context.Context, payload []byte) {
	var event models.InteractionEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		metrics.InteractionWriteFailures.Inc()
		c.logger.Error().Err(err).Msg("malformed event payload")
		return
	}

	if err := c.store.InsertInteraction(ctx, &event); err != nil {
		metrics.InteractionWriteFailures.Inc()
		c.logger.Error().Err(err).
			Str("event_id", event.EventID).
			Str("user_id", event.UserID).
			Msg("persist interaction failed")
		return
	}

	c.logger.Trace().
		Str("event_id", event.EventID).
		Str("item_id", event.ItemID).
		Msg("interaction persisted")
}
