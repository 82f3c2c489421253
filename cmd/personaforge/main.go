package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	pfhttp "github.com/personaforge/personaforge/internal/adapter/http"
	"github.com/personaforge/personaforge/internal/adapter/litellm"
	pfmcp "github.com/personaforge/personaforge/internal/adapter/mcp"
	pfotel "github.com/personaforge/personaforge/internal/adapter/otel"
	"github.com/personaforge/personaforge/internal/adapter/postgres"
	"github.com/personaforge/personaforge/internal/adapter/ristretto"
	"github.com/personaforge/personaforge/internal/adapter/ws"
	"github.com/personaforge/personaforge/internal/config"
	"github.com/personaforge/personaforge/internal/domain/granularity"
	"github.com/personaforge/personaforge/internal/logger"
	"github.com/personaforge/personaforge/internal/resilience"
	"github.com/personaforge/personaforge/internal/service"
)

func main() {
	args := os.Args[1:]
	if len(args) > 0 && args[0] == "migrate" {
		if err := runMigrate(args[1:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(args); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := config.ParseFlags(args)
	if err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	cfg, cfgPath, err := config.LoadWithCLI(flags)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser := logger.New(cfg.Logging)
	slog.SetDefault(log)
	defer logCloser.Close()

	slog.Info("config loaded",
		"path", cfgPath,
		"port", cfg.Server.Port,
		"log_level", cfg.Logging.Level,
		"pg_max_conns", cfg.Postgres.MaxConns,
	)

	ctx := context.Background()

	// --- Observability ---
	otelShutdown, err := pfotel.Setup(ctx, cfg.Logging.Service, cfg.Otel.Endpoint)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = otelShutdown(shutdownCtx)
	}()

	metrics, err := pfotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---
	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	l1, err := ristretto.New(cfg.Cache.L1MaxSizeMB << 20)
	if err != nil {
		return fmt.Errorf("cache: %w", err)
	}
	defer l1.Close()

	// --- Services ---
	hub := ws.NewHub()
	store := postgres.NewStore(pool)
	levels := granularity.All()

	promptSvc := service.NewPromptService(store, levels, l1, metrics)
	personaSvc := service.NewPersonaService(store, hub, promptSvc)
	tokenSvc := service.NewTokenService(store, hub, promptSvc)
	settingsSvc := service.NewSettingsService(store)
	exportSvc := service.NewExportService(store, hub)

	llmClient := litellm.NewClient(cfg.LiteLLM.URL, cfg.LiteLLM.MasterKey)
	llmClient.SetBreaker(resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout))
	suggestionSvc := service.NewSuggestionService(store, llmClient, levels, hub, promptSvc, metrics)

	// --- HTTP ---
	handlers := &pfhttp.Handlers{
		Personas:    personaSvc,
		Tokens:      tokenSvc,
		Prompts:     promptSvc,
		Suggestions: suggestionSvc,
		Exports:     exportSvc,
		Settings:    settingsSvc,
		LiteLLM:     llmClient,
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(pfhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(pfhttp.SecurityHeaders)
	r.Use(pfhttp.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(60 * time.Second))
	r.Use(pfotel.HTTPMiddleware(cfg.Logging.Service))

	r.Get("/health", healthHandler(cfg))
	r.Get("/ws", hub.HandleWS)

	if cfg.MCP.Enabled {
		mcpServer := pfmcp.NewServer(pfmcp.Deps{
			Personas: personaSvc,
			Tokens:   tokenSvc,
			Composer: promptSvc,
		})
		r.Handle("/mcp", pfmcp.AuthMiddleware(cfg.MCP.APIKey, mcpServer.Handler()))
		slog.Info("mcp server mounted", "path", "/mcp")
	}

	pfhttp.MountRoutes(r, handlers)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}

// healthHandler returns an http.HandlerFunc that reports service health.
func healthHandler(cfg *config.Config) http.HandlerFunc {
	type healthStatus struct {
		Status  string `json:"status"`
		LiteLLM string `json:"litellm"`
	}

	return func(w http.ResponseWriter, _ *http.Request) {
		status := healthStatus{
			Status:  "ok",
			LiteLLM: cfg.LiteLLM.URL,
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}
