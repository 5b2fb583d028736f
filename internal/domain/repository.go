package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations. Values are
// opaque byte blobs; callers own serialization.
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// BestsellerClient fetches ranked bestseller listings for a marketplace
// category (e.g. the Apify amazon-bestsellers actor).
type BestsellerClient interface {
	FetchBestsellers(ctx context.Context, market, category string, maxResults int) ([]Product, error)
}

// StorefrontClient scrapes an un-reviewed storefront category page, used as
// the universal source in arbitrage comparisons.
type StorefrontClient interface {
	FetchCategory(ctx context.Context, category string, limit int) ([]Product, error)
}

// SemanticMatcher picks the candidate equivalent to a product name, reading
// past script and word-order differences. PickMatch returns the index into
// candidates, or -1 when no equivalent exists. Implementations may be
// unavailable; callers must treat any error as "no semantic match".
type SemanticMatcher interface {
	PickMatch(ctx context.Context, name string, candidates []string) (int, error)
	Enabled() bool
}

// SnapshotStore persists market data and comparison results between runs.
type SnapshotStore interface {
	SaveMarket(market string, data map[string][]Product) (string, error)
	LoadMarket(market string) (map[string][]Product, error)
	SaveOpportunities(runID string, opportunities map[string][]Opportunity) (string, error)
	LoadOpportunities(runID string) (map[string][]Opportunity, error)
}
