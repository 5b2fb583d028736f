package usecase

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/marketgap/backend/internal/domain"
)

// defaultMinReviews is the review floor below which a source product is
// never considered a standard-mode opportunity.
const defaultMinReviews = 1000

// CompareOptions tunes one comparison run. Zero values fall back to the
// defaults for the selected mode.
type CompareOptions struct {
	Mode                domain.CompareMode
	MinReviews          int
	SimilarityThreshold float64
}

// Comparator runs cross-market comparisons: for every source product it
// finds the best target counterpart and, where the target presence is
// absent or weak, emits a scored opportunity. Pure and deterministic given
// its inputs; all I/O lives in the collaborators feeding it.
type Comparator struct {
	matcher *Matcher
	log     *zap.Logger
}

// NewComparator creates a comparator around a matcher. log may be nil.
func NewComparator(matcher *Matcher, log *zap.Logger) *Comparator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Comparator{matcher: matcher, log: log}
}

// CompareMarkets compares every category present in the source collection
// against its target counterpart. A target category that is missing is
// treated as empty, not as an error. Categories with no source products
// are skipped entirely (and logged), so they are absent from the result;
// a present-but-empty list means comparisons ran and nothing qualified.
// Each category's opportunities are sorted descending by score, ties
// preserving input order.
func (c *Comparator) CompareMarkets(ctx context.Context, source, target map[string][]domain.Product, opts CompareOptions) map[string][]domain.Opportunity {
	result := make(map[string][]domain.Opportunity, len(source))

	for category, sourceProducts := range source {
		if len(sourceProducts) == 0 {
			c.log.Info("no source products for category, skipping",
				zap.String("category", category))
			continue
		}

		targetProducts := target[category]
		opportunities := c.findOpportunities(ctx, sourceProducts, targetProducts, opts)

		sort.SliceStable(opportunities, func(i, j int) bool {
			return opportunities[i].Score > opportunities[j].Score
		})
		result[category] = opportunities

		c.log.Debug("category compared",
			zap.String("category", category),
			zap.Int("source_products", len(sourceProducts)),
			zap.Int("target_products", len(targetProducts)),
			zap.Int("opportunities", len(opportunities)),
		)
	}

	return result
}

// findOpportunities evaluates one category's source products under the
// selected strategy.
func (c *Comparator) findOpportunities(ctx context.Context, sources, targets []domain.Product, opts CompareOptions) []domain.Opportunity {
	minReviews := opts.MinReviews
	if minReviews <= 0 {
		minReviews = defaultMinReviews
	}

	opportunities := make([]domain.Opportunity, 0, len(sources))
	for _, source := range sources {
		if opts.Mode == domain.ModeArbitrage {
			// Storefront sources carry no review signal; no floor applies.
			if opp := c.arbitrageOpportunity(ctx, source, targets, opts.SimilarityThreshold); opp != nil {
				opportunities = append(opportunities, *opp)
			}
			continue
		}

		if source.ReviewsCount < minReviews {
			continue
		}
		if opp := c.standardOpportunity(ctx, source, targets, opts.SimilarityThreshold); opp != nil {
			opportunities = append(opportunities, *opp)
		}
	}
	return opportunities
}

// standardOpportunity applies the demand-gap policy: emit when no target
// counterpart exists, or when the source product out-reviews its
// counterpart more than threefold. A comparable or stronger target
// presence suppresses the product entirely.
func (c *Comparator) standardOpportunity(ctx context.Context, source domain.Product, targets []domain.Product, threshold float64) *domain.Opportunity {
	match := c.matcher.FindBestMatch(ctx, source, targets, threshold)

	if match == nil {
		opp := domain.NewNoMatchOpportunity(source,
			StandardScore(source, nil),
			"No similar product found in target market")
		return &opp
	}

	sourceReviews := source.ReviewsCount
	targetReviews := match.Product.ReviewsCount
	if sourceReviews <= targetReviews*3 {
		return nil
	}

	reason := "Source product dominates an unreviewed target equivalent"
	if targetReviews > 0 {
		reason = fmt.Sprintf("Source product has %.1fx more reviews than target equivalent",
			float64(sourceReviews)/float64(targetReviews))
	}

	opp := domain.NewMatchedOpportunity(source, match.Product,
		domain.MatchTypeReviewDelta, match.Similarity,
		StandardScore(source, &match.Product), reason)
	return &opp
}
