// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/suadeo/suadeo/internal/models"
)

// InsertInteraction appends one interaction event. The seq column is assigned
// from a sequence at insert time, so retrieval order is insertion order even
// when wall-clock timestamps collide. The recorded timestamp is persisted as
// is; a zero value falls back to insert time.
func (db *DB) InsertInteraction(ctx context.Context, event *models.InteractionEvent) error {
	start := time.Now()

	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO interactions (event_id, user_id, item_id, type, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		event.EventID, event.UserID, event.ItemID, event.Type, createdAt)
	observe("insert_interaction", start, err)
	if err != nil {
		return fmt.Errorf("insert interaction: %w", err)
	}
	return nil
}

// UserHistory returns a user's interaction events newest first. A limit of 0
// returns the full history.
func (db *DB) UserHistory(ctx context.Context, userID string, limit int) ([]models.InteractionEvent, error) {
	start := time.Now()

	query := `SELECT event_id, user_id, item_id, type, seq, created_at
		FROM interactions WHERE user_id = ? ORDER BY seq DESC`
	args := []interface{}{userID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("user_history", start, err)
	if err != nil {
		return nil, fmt.Errorf("query user history: %w", err)
	}
	defer rows.Close()

	events := []models.InteractionEvent{}
	for rows.Next() {
		var ev models.InteractionEvent
		if err := rows.Scan(&ev.EventID, &ev.UserID, &ev.ItemID, &ev.Type, &ev.Seq, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return events, nil
}
