package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jgalan247/schemeofLearning/internal/ai"
	"github.com/jgalan247/schemeofLearning/internal/curriculum"
	"github.com/jgalan247/schemeofLearning/internal/planning"
	"github.com/jgalan247/schemeofLearning/internal/platform/cache"
	"github.com/jgalan247/schemeofLearning/internal/platform/config"
	"github.com/jgalan247/schemeofLearning/internal/scheme"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	setupLogger(cfg.Log)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	loader, err := curriculum.NewLoader(cfg.CurriculumDir)
	if err != nil {
		slog.Error("failed to load curriculum catalog", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	router := buildRouter(cfg)
	synth, closeCache := buildSynthesizer(ctx, cfg, router)
	if closeCache != nil {
		defer closeCache()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      newServer(planning.NewMemoryStore(), loader, router, synth, planning.NewMemoryEventLogger()).routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
}

func setupLogger(cfg config.LogConfig) {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}

// buildRouter registers every configured completion provider, in
// preference order.
func buildRouter(cfg *config.Config) *ai.Router {
	router := ai.NewRouter()

	if cfg.AI.Google.APIKey != "" {
		p, err := ai.NewGoogleProvider(cfg.AI.Google.APIKey)
		if err != nil {
			slog.Error("google provider init failed", "error", err)
		} else {
			router.Register("google", p)
			slog.Info("completion provider registered", "provider", "google", "model", cfg.AI.Google.Model)
		}
	}
	if cfg.AI.Anthropic.APIKey != "" {
		p, err := ai.NewAnthropicProvider(cfg.AI.Anthropic.APIKey)
		if err != nil {
			slog.Error("anthropic provider init failed", "error", err)
		} else {
			router.Register("anthropic", p)
			slog.Info("completion provider registered", "provider", "anthropic")
		}
	}
	return router
}

// buildSynthesizer wires the synthesis adapter when at least one
// provider is configured, with an optional response cache. The returned
// func closes the cache connection, nil when no cache is in use.
func buildSynthesizer(ctx context.Context, cfg *config.Config, router *ai.Router) (*scheme.Synthesizer, func()) {
	if !router.HasProvider() {
		slog.Warn("no completion provider configured, synthesis disabled")
		return nil, nil
	}

	opts := []scheme.Option{scheme.WithMaxTokens(cfg.AI.MaxTokens)}
	if cfg.AI.Anthropic.APIKey == "" {
		// Model selection is per-provider; only pin it when Google is the
		// sole provider.
		opts = append(opts, scheme.WithModel(cfg.AI.Google.Model))
	}

	var closeCache func()
	if cfg.Cache.Enabled {
		c, err := cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			slog.Warn("cache unavailable, synthesis responses will not be cached", "error", err)
		} else {
			ttl := time.Duration(cfg.Cache.TTLMins) * time.Minute
			opts = append(opts, scheme.WithCache(c, ttl))
			closeCache = func() {
				if err := c.Close(); err != nil {
					slog.Warn("cache close failed", "error", err)
				}
			}
		}
	}
	return scheme.NewSynthesizer(router, opts...), closeCache
}
