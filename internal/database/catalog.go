// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/suadeo/suadeo/internal/models"
)

// ErrItemNotFound is returned when a catalog item does not exist.
var ErrItemNotFound = errors.New("item not found")

// popularityExpr is the weighted engagement score used for the popularity
// ranking. Missing counters default to 0 at the schema level.
const popularityExpr = `(5*stars_5 + 4*stars_4 + 3*stars_3 + 2*stars_2 + 1*stars_1)`

const itemColumns = `item_id, brand, attributes, stars_1, stars_2, stars_3, stars_4, stars_5`

// CreateItem inserts a catalog item.
func (db *DB) CreateItem(ctx context.Context, item *models.ItemRecord) error {
	start := time.Now()

	attrs, err := json.Marshal(item.Attributes)
	if err != nil {
		return fmt.Errorf("marshal attributes: %w", err)
	}

	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO items (item_id, brand, attributes, stars_1, stars_2, stars_3, stars_4, stars_5)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ItemID, item.Brand, string(attrs),
		item.Stars1, item.Stars2, item.Stars3, item.Stars4, item.Stars5)
	observe("create_item", start, err)
	if err != nil {
		return fmt.Errorf("insert item: %w", err)
	}
	return nil
}

// GetItem returns one catalog item by identifier.
func (db *DB) GetItem(ctx context.Context, itemID string) (*models.ItemRecord, error) {
	start := time.Now()

	row := db.conn.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE item_id = ?`, itemID)

	item, err := scanItem(row)
	observe("get_item", start, err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query item: %w", err)
	}
	return item, nil
}

// ListItems returns catalog items in storage order, optionally restricted to
// one brand, windowed by page and pageSize.
func (db *DB) ListItems(ctx context.Context, page, pageSize int, brand string) ([]models.ItemRecord, error) {
	start := time.Now()

	query := `SELECT ` + itemColumns + ` FROM items`
	args := []interface{}{}
	if brand != "" {
		query += ` WHERE brand = ?`
		args = append(args, brand)
	}
	query += ` ORDER BY rowid LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("list_items", start, err)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// ItemsByIDs returns the catalog records whose identifier is in ids,
// optionally restricted to one brand. Results come back in storage order;
// the hydrator re-establishes candidate order. Unknown identifiers are
// simply not returned.
func (db *DB) ItemsByIDs(ctx context.Context, ids []string, brand string) ([]models.ItemRecord, error) {
	if len(ids) == 0 {
		return []models.ItemRecord{}, nil
	}

	start := time.Now()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	query := `SELECT ` + itemColumns + ` FROM items WHERE item_id IN (` + placeholders + `)`
	args := make([]interface{}, 0, len(ids)+1)
	for _, id := range ids {
		args = append(args, id)
	}
	if brand != "" {
		query += ` AND brand = ?`
		args = append(args, brand)
	}

	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("items_by_ids", start, err)
	if err != nil {
		return nil, fmt.Errorf("query items by ids: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// PopularItems returns items ranked by the weighted engagement score,
// descending, with storage order (rowid) as the tiebreak. The tiebreak makes
// the ordering deterministic across calls, which pagination depends on.
func (db *DB) PopularItems(ctx context.Context, page, pageSize int, brand string) ([]models.ItemRecord, error) {
	start := time.Now()

	query := `SELECT ` + itemColumns + ` FROM items`
	args := []interface{}{}
	if brand != "" {
		query += ` WHERE brand = ?`
		args = append(args, brand)
	}
	query += ` ORDER BY ` + popularityExpr + ` DESC, rowid LIMIT ? OFFSET ?`
	args = append(args, pageSize, (page-1)*pageSize)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	observe("popular_items", start, err)
	if err != nil {
		return nil, fmt.Errorf("query popular items: %w", err)
	}
	defer rows.Close()

	return collectItems(rows)
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanItem.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanItem scans one item row, unmarshaling the attributes JSON.
func scanItem(row rowScanner) (*models.ItemRecord, error) {
	var (
		item  models.ItemRecord
		attrs string
	)
	if err := row.Scan(&item.ItemID, &item.Brand, &attrs,
		&item.Stars1, &item.Stars2, &item.Stars3, &item.Stars4, &item.Stars5); err != nil {
		return nil, err
	}
	if attrs != "" && attrs != "{}" && attrs != "null" {
		if err := json.Unmarshal([]byte(attrs), &item.Attributes); err != nil {
			return nil, fmt.Errorf("unmarshal attributes for %s: %w", item.ItemID, err)
		}
	}
	return &item, nil
}

// collectItems drains rows into a slice.
func collectItems(rows *sql.Rows) ([]models.ItemRecord, error) {
	items := []models.ItemRecord{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}
