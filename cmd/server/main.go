// Streamlit demo apps served as a JSON API with an embedded UI.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/ashureev/shsh-demos/internal/api"
	"github.com/ashureev/shsh-demos/internal/catalog"
	"github.com/ashureev/shsh-demos/internal/chat"
	"github.com/ashureev/shsh-demos/internal/config"
	"github.com/ashureev/shsh-demos/internal/facts"
	"github.com/ashureev/shsh-demos/internal/live"
	"github.com/ashureev/shsh-demos/internal/llm"
	"github.com/ashureev/shsh-demos/internal/middleware"
	"github.com/ashureev/shsh-demos/internal/quiz"
	"github.com/ashureev/shsh-demos/internal/recipe"
	"github.com/ashureev/shsh-demos/internal/reply"
	"github.com/ashureev/shsh-demos/internal/search"
	"github.com/ashureev/shsh-demos/internal/state"
	"github.com/ashureev/shsh-demos/internal/store"
	"github.com/ashureev/shsh-demos/internal/telemetry"
	"github.com/ashureev/shsh-demos/internal/todo"
	"github.com/ashureev/shsh-demos/web"
)

const serviceName = "shsh-demos"

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.LogLevel),
	}))
	slog.SetDefault(logger)

	slog.Info("Starting server", "port", cfg.Port, "dev", cfg.IsDevelopment(), "state_backend", cfg.StateBackend)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Setup(serviceName, cfg.OTelEnabled, os.Stderr)
	if err != nil {
		slog.Error("Failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Error("Failed to flush traces", "error", err)
		}
	}()

	// Initialize dependencies.
	repo, err := openRepository(ctx, cfg)
	if err != nil {
		slog.Error("Failed to initialize state store", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(ctx); err != nil {
		slog.Error("State store health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("State store connected")

	if cfg.ResetStateOnStart {
		if err := state.PurgeOnStart(ctx, repo); err != nil {
			slog.Error("Failed to purge previous state", "error", err)
			os.Exit(1)
		}
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		slog.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}

	httpClient := http.DefaultClient
	if cfg.OTelEnabled {
		httpClient = telemetry.NewHTTPClient(0)
	}
	completer := llm.NewClient(cfg.LLM, httpClient)
	if !completer.Configured() {
		slog.Warn("API_KEY is not set, completion features will report an error")
	}

	wikiClient := &http.Client{Timeout: cfg.Search.WikipediaTimeout}
	if cfg.OTelEnabled {
		wikiClient = telemetry.NewHTTPClient(cfg.Search.WikipediaTimeout)
	}

	// Initialize services.
	st := state.New(repo)
	sm := live.NewSessionManager()
	limiter := middleware.NewRateLimiter(cfg.RateLimitPerMin, time.Minute)
	limiter.StartEviction(ctx)

	handler := api.NewHandler(api.Deps{
		State:         st,
		Sessions:      sm,
		Catalog:       cat,
		Chat:          chat.NewService(completer, cat),
		Facts:         facts.NewService(completer, cat),
		Recipe:        recipe.NewService(completer, cat),
		Reply:         reply.NewService(completer, cat),
		Quiz:          quiz.NewService(quiz.NewGenerator(nil)),
		Todo:          todo.NewList(),
		Local:         search.NewLocal(cfg.Search.Root, cfg.Search.MaxResults, cfg.Search.Extensions),
		Wikipedia:     search.NewWikipedia(cfg.Search.WikipediaURL, wikiClient),
		Limiter:       limiter,
		LLMConfigured: completer.Configured(),
		SessionTTL:    cfg.SessionTTL,
	})

	allowedOrigins := []string{"*"}
	if !cfg.IsDevelopment() && cfg.FrontendURL != "" {
		allowedOrigins = []string{cfg.FrontendURL}
	}

	router := api.NewRouter(handler, api.RouterOptions{
		ServiceName:    serviceName,
		IsDev:          cfg.IsDevelopment(),
		AllowedOrigins: allowedOrigins,
		Tracing:        cfg.OTelEnabled,
		QuizTimer:      live.NewQuizTimerHandler(st, sm, cfg.FrontendURL, cfg.IsDevelopment()),
		Static:         web.SPAHandler(),
	})

	// Completion calls can take a while, and the quiz timer is a websocket.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      0,
		IdleTimeout:       120 * time.Second,
	}

	state.StartTTLWorker(ctx, repo, cfg.SessionTTL, sm.CloseSession)

	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			stop()
		}
	}()

	// Wait for shutdown signal.
	<-ctx.Done()
	stop()

	slog.Info("Shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		return
	}

	slog.Info("Server stopped successfully")
}

func openRepository(ctx context.Context, cfg *config.Config) (store.Repository, error) {
	if cfg.StateBackend == config.BackendRedis {
		rs, err := store.NewRedis(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return nil, err
		}
		return rs, nil
	}
	ss, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	return ss, nil
}

func parseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}
