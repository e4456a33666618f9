// Copyright (C) 2026 Netra Systems (eng@netrasystems.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package gateway assembles the Zen backend service: storage, health
// monitoring, audit trail, agents, middleware, and the route table.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/gin-gonic/gin"
	"github.com/netra-systems/zen/pkg/extensions"
	"github.com/netra-systems/zen/services/gateway/agents"
	"github.com/netra-systems/zen/services/gateway/audit"
	"github.com/netra-systems/zen/services/gateway/config"
	"github.com/netra-systems/zen/services/gateway/health"
	"github.com/netra-systems/zen/services/gateway/middleware"
	"github.com/netra-systems/zen/services/gateway/observability"
	"github.com/netra-systems/zen/services/gateway/routes"
	"github.com/netra-systems/zen/services/gateway/store"
	"github.com/netra-systems/zen/services/gateway/ws"
	"github.com/netra-systems/zen/services/llm"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"golang.org/x/sync/errgroup"
)

// Server is the assembled gateway with its background workers.
type Server struct {
	Router *gin.Engine

	cfg       *config.Config
	db        *badger.DB
	sweeper   *store.Sweeper
	sampler   *health.Sampler
	watcher   *config.Watcher
	jsonlSink *audit.JSONLSink
}

// New builds the gateway from config and extension options. Call Run to
// serve and Close to release resources.
func New(cfg *config.Config, opts extensions.ServiceOptions) (*Server, error) {
	if opts.AuthProvider == nil {
		opts = extensions.DefaultOptions()
	}

	db, err := store.Open(store.DefaultConfig(cfg.StorePath))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	sessions := store.NewSessionStore(db, cfg.SessionTTL)
	sweeper := store.NewSweeper(sessions, store.DefaultSweeperConfig())

	// Audit trail: durable JSONL + in-memory ring for the admin API,
	// plus whatever sink the hosted tier injected.
	jsonlSink, err := audit.NewJSONLSink(cfg.AuditLogPath)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open audit log: %w", err)
	}
	events := audit.NewMemorySink(0)
	trail := audit.NewTrail(jsonlSink, events, opts.AuditLogger)

	llmClient, err := buildLLMClient(cfg.LLMBackend)
	if err != nil {
		_ = jsonlSink.Close()
		_ = db.Close()
		return nil, err
	}

	registry := agents.NewRegistry()
	registry.RegisterDefault(agents.NewAssistantAgent(llmClient))

	wsRegistry := ws.NewRegistry()

	monitor := health.NewMonitor(0)
	sampler := health.NewSampler(monitor, 10*time.Second)
	sampler.AddProbe("goroutines",
		health.Thresholds{Warn: 2000, Critical: 10000}, health.GoroutineProbe)
	sampler.AddProbe("heap_mib",
		health.Thresholds{Warn: 1024, Critical: 4096}, health.HeapProbe)
	sampler.AddProbe("websockets",
		health.Thresholds{Warn: 5000, Critical: 20000},
		func() float64 { return float64(wsRegistry.Count()) })

	watcher, err := config.NewWatcher(cfg)
	if err != nil {
		slog.Warn("config watcher unavailable, limits are startup-static", "error", err)
	}

	observability.InitMetrics()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware("zen-gateway"))
	routes.SetupRoutes(router, routes.Deps{
		Options:   opts,
		Sessions:  sessions,
		Agents:    registry,
		WSClients: wsRegistry,
		Monitor:   monitor,
		Trail:     trail,
		Events:    events,
		LLM:       llmClient,
		Limiter:   middleware.NewTenantLimiter(cfg),
	})

	return &Server{
		Router:    router,
		cfg:       cfg,
		db:        db,
		sweeper:   sweeper,
		sampler:   sampler,
		watcher:   watcher,
		jsonlSink: jsonlSink,
	}, nil
}

func buildLLMClient(backend string) (llm.Client, error) {
	switch backend {
	case "echo":
		slog.Info("Using echo LLM backend")
		return llm.NewEchoClient(), nil
	case "openai", "":
		slog.Info("Using OpenAI-compatible LLM backend")
		return llm.NewOpenAIClient()
	default:
		return nil, fmt.Errorf("unknown LLM backend %q", backend)
	}
}

// Run starts the background workers and serves HTTP until ctx is
// canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.sweeper.Start()
	s.sampler.Start()

	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("gateway listening", "port", s.cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	err := g.Wait()
	s.Close()
	return err
}

// Close stops workers and releases resources. Safe after a failed Run.
func (s *Server) Close() {
	s.sweeper.Stop()
	s.sampler.Stop()
	if err := s.watcher.Close(); err != nil {
		slog.Warn("config watcher close failed", "error", err)
	}
	if err := s.jsonlSink.Close(); err != nil {
		slog.Warn("audit sink close failed", "error", err)
	}
	if err := s.db.Close(); err != nil {
		slog.Warn("store close failed", "error", err)
	}
	_ = os.Stderr.Sync()
}
