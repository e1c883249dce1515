// Suadeo - Hybrid Recommendation Service
// Copyright 2026 Suadeo Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/suadeo/suadeo

// Command server runs the Suadeo hybrid recommendation service.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/suadeo/suadeo/internal/api"
	"github.com/suadeo/suadeo/internal/auth"
	"github.com/suadeo/suadeo/internal/config"
	"github.com/suadeo/suadeo/internal/database"
	"github.com/suadeo/suadeo/internal/logging"
	"github.com/suadeo/suadeo/internal/modelsvc"
	"github.com/suadeo/suadeo/internal/recommend"
	"github.com/suadeo/suadeo/internal/supervisor"
	"github.com/suadeo/suadeo/internal/supervisor/services"
	"github.com/suadeo/suadeo/internal/tracker"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal().Err(err).Msg("server exited")
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	logger := logging.Logger()
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Msg("starting suadeo")

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	gateway := modelsvc.New(&cfg.ModelService, logger)

	orchestrator, err := recommend.NewOrchestrator(&recommend.Config{
		ColdStartThreshold: cfg.Recommend.ColdStartThreshold,
		SimilarFanout:      cfg.Recommend.SimilarFanout,
		DefaultPageSize:    cfg.Recommend.DefaultPageSize,
		MaxPageSize:        cfg.Recommend.MaxPageSize,
	}, gateway, db, db, logger)
	if err != nil {
		return fmt.Errorf("create orchestrator: %w", err)
	}

	recorder := tracker.NewRecorder(tracker.Config{BufferSize: cfg.Tracker.BufferSize}, logger)
	defer recorder.Close()
	consumer := tracker.NewConsumer(recorder, db, logger)

	var authMw *auth.Middleware
	if cfg.Security.JWTSecret != "" {
		jwtManager, err := auth.NewJWTManager(cfg.Security.JWTSecret, 24*time.Hour)
		if err != nil {
			return fmt.Errorf("create jwt manager: %w", err)
		}
		authMw = auth.NewMiddleware(jwtManager)
	}

	handlers := api.NewHandlers(cfg, orchestrator, db, db, recorder, db, logger)
	router := api.NewRouter(cfg, handlers, authMw)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(recorder)
	tree.AddDataService(consumer)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info().Str("addr", server.Addr).Msg("supervision tree starting")
	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("supervision tree: %w", err)
	}

	logger.Info().Msg("shutdown complete")
	return nil
}
