package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gift-advisor/internal/config"
	"gift-advisor/internal/domain/ports/adapter"
	aiAdapters "gift-advisor/internal/infra/adapters/ai"
	pg "gift-advisor/internal/infra/db/postgres"
	"gift-advisor/internal/infra/logging"
	"gift-advisor/internal/infra/metrics"
	red "gift-advisor/internal/infra/redis"
	"gift-advisor/internal/infra/web"
	"gift-advisor/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (canned AI provider)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	// ---- Redis (optional history cache) ----
	var cache *red.HistoryCache
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer redisClient.Close()
		cache = red.NewHistoryCache(redisClient, cfg.Redis.TTL)
	} else {
		logger.Info().Msg("redis not configured; history cache disabled")
	}

	// ---- Repository ----
	historyRepo := pg.NewHistoryRepo(pool, cache)

	// ---- Completion adapter (OpenRouter -> Gemini failover) ----
	var providers []adapter.CompletionAdapter
	if cfg.Runtime.Dev {
		providers = append(providers, aiAdapters.NewCannedAdapter())
		logger.Info().Msg("AI adapter: canned (dev)")
	}
	if cfg.AI.OpenRouterKey != "" {
		or, err := aiAdapters.NewOpenRouterAdapter(cfg.AI.OpenRouterKey, cfg.AI.OpenRouterBaseURL)
		if err != nil {
			log.Fatalf("openrouter adapter: %v", err)
		}
		providers = append(providers, or)
		logger.Info().Str("base", cfg.AI.OpenRouterBaseURL).Str("model", cfg.AI.ReplyModel).Msg("AI adapter: OpenRouter")
	}
	if cfg.AI.GeminiKey != "" {
		gm, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiBaseURL, "")
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		providers = append(providers, gm)
		logger.Info().Msg("AI adapter: Gemini")
	}
	ai, err := aiAdapters.NewFailoverAdapter(logger, providers...)
	if err != nil {
		log.Fatalf("ai adapter: %v", err)
	}

	// ---- Use case ----
	chatUC := usecase.NewChatUseCase(historyRepo, ai, cfg.AI.ReplyModel, cfg.AI.ChipsModel, cfg.AI.RequestTimeout, logger)

	// ---- HTTP server ----
	srv := web.NewServer(chatUC, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(web.Options{WithMetrics: true}),
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown")
	}
}
