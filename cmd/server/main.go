package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/marketgap/backend/config"
	httpDelivery "github.com/marketgap/backend/internal/delivery/http"
	"github.com/marketgap/backend/internal/domain"
	"github.com/marketgap/backend/internal/infrastructure/apify"
	"github.com/marketgap/backend/internal/infrastructure/cache"
	"github.com/marketgap/backend/internal/infrastructure/firecrawl"
	"github.com/marketgap/backend/internal/infrastructure/openai"
	"github.com/marketgap/backend/internal/infrastructure/snapshot"
	"github.com/marketgap/backend/internal/usecase"
	"github.com/marketgap/backend/pkg/logger"
)

func main() {
	// .env is optional; real deployments use environment variables
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger.Init("marketgap-backend", cfg.Server.Environment, cfg.Log.Level)
	defer logger.Sync()
	log := logger.L()

	log.Info("starting marketgap backend",
		zap.String("environment", cfg.Server.Environment),
		zap.String("port", cfg.Server.Port),
		zap.String("cache_type", cfg.Cache.Type),
		zap.Duration("cache_ttl", cfg.Cache.TTL),
	)

	var analysisCache domain.CacheRepository
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(context.Background(), cfg.Cache.RedisURL)
		if err != nil {
			log.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisCache.Close()
		analysisCache = redisCache
	default:
		analysisCache = cache.NewMemoryCache()
	}

	snapshots, err := snapshot.NewStore(cfg.Data.Dir)
	if err != nil {
		log.Fatal("failed to initialize snapshot store", zap.Error(err))
	}

	apifyClient := apify.NewClient(cfg.Apify.APIToken, cfg.Apify.BaseURL, log)
	firecrawlClient := firecrawl.NewClient(cfg.Firecrawl.APIKey, cfg.Firecrawl.BaseURL, log)

	semantic := openai.NewMatcher(cfg.OpenAI.APIKey, cfg.OpenAI.Model, log)
	if semantic.Enabled() {
		log.Info("semantic matching enabled", zap.String("model", cfg.OpenAI.Model))
	} else {
		log.Info("semantic matching disabled, keyword matching only")
	}

	matcher := usecase.NewMatcher(semantic, usecase.MatcherConfig{
		Threshold: cfg.Matching.SimilarityThreshold,
	}, log)
	comparator := usecase.NewComparator(matcher, log)

	analysis := usecase.NewAnalysisService(
		analysisCache,
		apifyClient,
		firecrawlClient,
		snapshots,
		comparator,
		usecase.AnalysisConfig{
			CacheTTL:            cfg.Cache.TTL,
			MaxResults:          cfg.Matching.MaxResults,
			MinReviews:          cfg.Matching.MinReviews,
			SimilarityThreshold: cfg.Matching.SimilarityThreshold,
			ArbitrageThreshold:  cfg.Matching.ArbitrageThreshold,
		},
		log,
	)

	handler := httpDelivery.NewHandler(analysis, comparator, snapshots)
	router := httpDelivery.SetupRouter(cfg, handler)

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server listening", zap.String("addr", addr))

	if err := router.Run(addr); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
