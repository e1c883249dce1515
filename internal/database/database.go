// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

// Package database implements the catalog store and interaction log store on
// DuckDB. The popularity aggregation and pagination run at the SQL level so
// ranking stays deterministic and cheap at catalog scale.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/suadeo/suadeo/internal/config"
	"github.com/suadeo/suadeo/internal/metrics"
)

// DB wraps the DuckDB connection and provides data access methods.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
}

// New opens the database and initializes the schema. An empty path opens an
// in-memory database, which the tests rely on.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	connStr := ""
	if cfg.Path != "" {
		// Ensure the parent directory exists; 0750 per gosec G301.
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("create database directory %s: %w", dbDir, err)
			}
		}

		numThreads := cfg.Threads
		if numThreads <= 0 {
			numThreads = runtime.NumCPU()
		}
		connStr = fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s",
			cfg.Path, numThreads, cfg.MaxMemory)
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// DuckDB is an embedded single-writer engine; a small pool avoids
	// write contention while allowing concurrent reads.
	conn.SetMaxOpenConns(4)
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)

	db := &DB{conn: conn, cfg: cfg}
	if err := db.initSchema(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("initialize schema: %w", err)
	}

	return db, nil
}

// initSchema creates tables, sequences and indexes if they do not exist.
func (db *DB) initSchema() error {
	statements := []string{
		`CREATE SEQUENCE IF NOT EXISTS interaction_seq START 1`,
		`CREATE TABLE IF NOT EXISTS items (
			item_id    VARCHAR PRIMARY KEY,
			brand      VARCHAR NOT NULL,
			attributes VARCHAR NOT NULL DEFAULT '{}',
			stars_1    INTEGER NOT NULL DEFAULT 0,
			stars_2    INTEGER NOT NULL DEFAULT 0,
			stars_3    INTEGER NOT NULL DEFAULT 0,
			stars_4    INTEGER NOT NULL DEFAULT 0,
			stars_5    INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE TABLE IF NOT EXISTS interactions (
			event_id   VARCHAR PRIMARY KEY,
			user_id    VARCHAR NOT NULL,
			item_id    VARCHAR NOT NULL,
			type       VARCHAR NOT NULL,
			seq        BIGINT NOT NULL DEFAULT nextval('interaction_seq'),
			created_at TIMESTAMP NOT NULL DEFAULT current_timestamp
		)`,
		`CREATE INDEX IF NOT EXISTS idx_items_brand ON items(brand)`,
		`CREATE INDEX IF NOT EXISTS idx_interactions_user_seq ON interactions(user_id, seq)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}

// Ping verifies the database connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// observe records query duration and errors for Prometheus.
func observe(operation string, start time.Time, err error) {
	metrics.DBQueryDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DBQueryErrors.WithLabelValues(operation).Inc()
	}
}
