package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/marketgap/backend/internal/domain"
)

// AnalysisConfig holds configuration for the analysis service.
type AnalysisConfig struct {
	CacheTTL            time.Duration
	MaxResults          int
	MinReviews          int
	SimilarityThreshold float64
	ArbitrageThreshold  float64
}

// AnalysisService orchestrates a full run: check cache, fetch both
// markets, compare, snapshot, return. Fetch failures degrade to empty
// categories so one bad scrape never aborts the batch.
type AnalysisService struct {
	cache       domain.CacheRepository
	bestsellers domain.BestsellerClient
	storefront  domain.StorefrontClient
	snapshots   domain.SnapshotStore
	comparator  *Comparator
	config      AnalysisConfig
	log         *zap.Logger
}

// NewAnalysisService wires the analysis pipeline. storefront may be nil
// when arbitrage mode is not used; log may be nil.
func NewAnalysisService(
	cache domain.CacheRepository,
	bestsellers domain.BestsellerClient,
	storefront domain.StorefrontClient,
	snapshots domain.SnapshotStore,
	comparator *Comparator,
	config AnalysisConfig,
	log *zap.Logger,
) *AnalysisService {
	if config.CacheTTL == 0 {
		config.CacheTTL = 12 * time.Hour
	}
	if config.MaxResults <= 0 {
		config.MaxResults = 20
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &AnalysisService{
		cache:       cache,
		bestsellers: bestsellers,
		storefront:  storefront,
		snapshots:   snapshots,
		comparator:  comparator,
		config:      config,
		log:         log,
	}
}

// Run executes one analysis. Flow: cache -> fetch (or load snapshots) ->
// compare -> snapshot -> cache -> return.
func (s *AnalysisService) Run(ctx context.Context, request *domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	if request == nil || len(request.Categories) == 0 {
		return nil, domain.ErrInvalidRequest
	}
	s.applyDefaults(request)

	cacheKey := s.cacheKey(request)
	if cached := s.getCached(ctx, cacheKey); cached != nil {
		cached.FromCache = true
		return cached, nil
	}

	sourceData, targetData, err := s.collectMarkets(ctx, request)
	if err != nil {
		return nil, err
	}

	threshold := s.config.SimilarityThreshold
	if request.Mode == domain.ModeArbitrage {
		threshold = s.config.ArbitrageThreshold
	}
	opportunities := s.comparator.CompareMarkets(ctx, sourceData, targetData, CompareOptions{
		Mode:                request.Mode,
		MinReviews:          request.MinReviews,
		SimilarityThreshold: threshold,
	})

	result := &domain.AnalysisResult{
		RunID:         uuid.NewString(),
		GeneratedAt:   time.Now().UTC(),
		SourceMarket:  request.SourceMarket,
		TargetMarket:  request.TargetMarket,
		Mode:          request.Mode,
		Opportunities: opportunities,
	}

	if s.snapshots != nil {
		if _, err := s.snapshots.SaveOpportunities(result.RunID, opportunities); err != nil {
			s.log.Warn("failed to snapshot opportunities", zap.Error(err))
		}
	}
	s.setCached(ctx, cacheKey, result)

	s.log.Info("analysis complete",
		zap.String("run_id", result.RunID),
		zap.String("mode", string(result.Mode)),
		zap.Int("categories", len(opportunities)),
		zap.Int("opportunities", result.TotalOpportunities()),
	)
	return result, nil
}

func (s *AnalysisService) applyDefaults(request *domain.AnalysisRequest) {
	if request.SourceMarket == "" {
		if request.Mode == domain.ModeArbitrage {
			request.SourceMarket = "universal"
		} else {
			request.SourceMarket = "jp"
		}
	}
	if request.TargetMarket == "" {
		request.TargetMarket = "us"
	}
	if request.MaxResults <= 0 {
		request.MaxResults = s.config.MaxResults
	}
	if request.MinReviews <= 0 {
		request.MinReviews = s.config.MinReviews
	}
	if request.Mode == "" {
		request.Mode = domain.ModeStandard
	}
}

// collectMarkets gathers both market datasets, either from live clients or
// from the most recent snapshots when scraping is skipped.
func (s *AnalysisService) collectMarkets(ctx context.Context, request *domain.AnalysisRequest) (source, target map[string][]domain.Product, err error) {
	if request.SkipScraping {
		if s.snapshots == nil {
			return nil, nil, domain.ErrSnapshotNotFound
		}
		source, err = s.snapshots.LoadMarket(request.SourceMarket)
		if err != nil {
			return nil, nil, fmt.Errorf("loading source snapshot: %w", err)
		}
		target, err = s.snapshots.LoadMarket(request.TargetMarket)
		if err != nil {
			return nil, nil, fmt.Errorf("loading target snapshot: %w", err)
		}
		return source, target, nil
	}

	source = s.fetchMarket(ctx, request.SourceMarket, request, true)
	target = s.fetchMarket(ctx, request.TargetMarket, request, false)

	if s.snapshots != nil {
		if _, err := s.snapshots.SaveMarket(request.SourceMarket, source); err != nil {
			s.log.Warn("failed to snapshot source market", zap.Error(err))
		}
		if _, err := s.snapshots.SaveMarket(request.TargetMarket, target); err != nil {
			s.log.Warn("failed to snapshot target market", zap.Error(err))
		}
	}
	return source, target, nil
}

// fetchMarket fetches every requested category for one market. A category
// that fails to fetch is recorded as empty and logged, never fatal.
func (s *AnalysisService) fetchMarket(ctx context.Context, market string, request *domain.AnalysisRequest, isSource bool) map[string][]domain.Product {
	data := make(map[string][]domain.Product, len(request.Categories))

	for _, category := range request.Categories {
		products, err := s.fetchCategory(ctx, market, category, request, isSource)
		if err != nil {
			s.log.Warn("category fetch failed, continuing with empty list",
				zap.String("market", market),
				zap.String("category", category),
				zap.Error(err),
			)
			data[category] = nil
			continue
		}
		data[category] = products
	}
	return data
}

func (s *AnalysisService) fetchCategory(ctx context.Context, market, category string, request *domain.AnalysisRequest, isSource bool) ([]domain.Product, error) {
	if isSource && request.Mode == domain.ModeArbitrage {
		if s.storefront == nil {
			return nil, domain.ErrMarketDataUnavailable
		}
		return s.storefront.FetchCategory(ctx, category, request.MaxResults)
	}
	if s.bestsellers == nil {
		return nil, domain.ErrMarketDataUnavailable
	}
	return s.bestsellers.FetchBestsellers(ctx, market, category, request.MaxResults)
}

// cacheKey derives a stable key from the normalized request parameters.
func (s *AnalysisService) cacheKey(request *domain.AnalysisRequest) string {
	categories := make([]string, len(request.Categories))
	for i, c := range request.Categories {
		categories[i] = Normalize(c)
	}
	sort.Strings(categories)

	return fmt.Sprintf("analysis:%s:%s:%s:%d:%d:%s",
		request.SourceMarket, request.TargetMarket, request.Mode,
		request.MaxResults, request.MinReviews,
		strings.Join(categories, ","))
}

func (s *AnalysisService) getCached(ctx context.Context, key string) *domain.AnalysisResult {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return nil
	}

	var result domain.AnalysisResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.log.Warn("discarding undecodable cached analysis", zap.Error(err))
		return nil
	}
	return &result
}

func (s *AnalysisService) setCached(ctx context.Context, key string, result *domain.AnalysisResult) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, data, s.config.CacheTTL); err != nil {
		s.log.Warn("failed to cache analysis result", zap.Error(err))
	}
}
