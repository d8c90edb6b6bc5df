package main

import (
	"context"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"

	"gift-advisor/internal/config"
	"gift-advisor/internal/domain/ports/adapter"
	aiAdapters "gift-advisor/internal/infra/adapters/ai"
	pg "gift-advisor/internal/infra/db/postgres"
	"gift-advisor/internal/infra/logging"
	red "gift-advisor/internal/infra/redis"
	"gift-advisor/internal/infra/web"
	"gift-advisor/internal/usecase"
)

// Serverless entrypoint: the same two endpoints as cmd/app, mounted under
// /api behind API Gateway. Configured from the environment alone.
func main() {
	ctx := context.Background()

	dev := os.Getenv("DEV_MODE") == "1"
	cfg, err := config.LoadConfig("", dev)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	var cache *red.HistoryCache
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		cache = red.NewHistoryCache(redisClient, cfg.Redis.TTL)
	}

	historyRepo := pg.NewHistoryRepo(pool, cache)

	var providers []adapter.CompletionAdapter
	if cfg.Runtime.Dev {
		providers = append(providers, aiAdapters.NewCannedAdapter())
	}
	if cfg.AI.OpenRouterKey != "" {
		or, err := aiAdapters.NewOpenRouterAdapter(cfg.AI.OpenRouterKey, cfg.AI.OpenRouterBaseURL)
		if err != nil {
			log.Fatalf("openrouter adapter: %v", err)
		}
		providers = append(providers, or)
	}
	if cfg.AI.GeminiKey != "" {
		gm, err := aiAdapters.NewGeminiAdapter(ctx, cfg.AI.GeminiKey, cfg.AI.GeminiBaseURL, "")
		if err != nil {
			log.Fatalf("gemini adapter: %v", err)
		}
		providers = append(providers, gm)
	}
	ai, err := aiAdapters.NewFailoverAdapter(logger, providers...)
	if err != nil {
		log.Fatalf("ai adapter: %v", err)
	}

	chatUC := usecase.NewChatUseCase(historyRepo, ai, cfg.AI.ReplyModel, cfg.AI.ChipsModel, cfg.AI.RequestTimeout, logger)
	srv := web.NewServer(chatUC, logger)
	handler := srv.Router(web.Options{PathPrefix: "/api"})

	lambda.Start(httpadapter.New(handler).ProxyWithContext)
}
