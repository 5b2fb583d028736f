package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/marketgap/backend/config"
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
	categories := flag.String("categories", "home-garden", "comma-separated category slugs")
	sourceMarket := flag.String("source", "", "source market code (default jp, or universal in arbitrage mode)")
	targetMarket := flag.String("target", "us", "target market code")
	mode := flag.String("mode", "standard", "comparison mode: standard or arbitrage")
	maxResults := flag.Int("max-results", 0, "products per category (0 = config default)")
	minReviews := flag.Int("min-reviews", 0, "source review floor (0 = config default)")
	skipScraping := flag.Bool("skip-scraping", false, "reuse saved snapshots instead of scraping")
	output := flag.String("output", "", "write opportunities CSV to this path (default stdout)")
	timeout := flag.Duration("timeout", 15*time.Minute, "overall run timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init("marketgap-analyze", cfg.Server.Environment, cfg.Log.Level)
	defer logger.Sync()
	log := logger.L()

	snapshots, err := snapshot.NewStore(cfg.Data.Dir)
	if err != nil {
		log.Fatal("failed to initialize snapshot store", zap.Error(err))
	}

	semantic := openai.NewMatcher(cfg.OpenAI.APIKey, cfg.OpenAI.Model, log)
	matcher := usecase.NewMatcher(semantic, usecase.MatcherConfig{
		Threshold: cfg.Matching.SimilarityThreshold,
	}, log)
	comparator := usecase.NewComparator(matcher, log)

	analysis := usecase.NewAnalysisService(
		cache.NewMemoryCache(),
		apify.NewClient(cfg.Apify.APIToken, cfg.Apify.BaseURL, log),
		firecrawl.NewClient(cfg.Firecrawl.APIKey, cfg.Firecrawl.BaseURL, log),
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

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	request := &domain.AnalysisRequest{
		Categories:   splitCategories(*categories),
		SourceMarket: *sourceMarket,
		TargetMarket: *targetMarket,
		MaxResults:   *maxResults,
		MinReviews:   *minReviews,
		Mode:         domain.CompareMode(*mode),
		SkipScraping: *skipScraping,
	}

	result, err := analysis.Run(ctx, request)
	if err != nil {
		log.Fatal("analysis failed", zap.Error(err))
	}

	log.Info("analysis finished",
		zap.String("run_id", result.RunID),
		zap.Int("opportunities", result.TotalOpportunities()),
	)

	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.Fatal("failed to create output file", zap.Error(err))
		}
		defer f.Close()
		out = f
	}

	rows := usecase.FlattenOpportunities(result.Opportunities)
	if err := usecase.WriteCSV(out, rows); err != nil {
		log.Fatal("failed to write CSV", zap.Error(err))
	}
}

func splitCategories(raw string) []string {
	parts := strings.Split(raw, ",")
	categories := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			categories = append(categories, trimmed)
		}
	}
	return categories
}
