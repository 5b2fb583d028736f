package usecase

import (
	"github.com/marketgap/backend/internal/domain"
)

// maxOpportunityScore caps every opportunity score. All scoring terms are
// non-negative so no floor is needed.
const maxOpportunityScore = 100

// StandardScore rates a demand-gap opportunity 0-100 from the source
// product's own signals plus the competitive picture in the target market.
// Each product is scored independently; the model is additive tiers, not a
// ranking across the list.
func StandardScore(source domain.Product, target *domain.Product) float64 {
	score := 0.0

	// Demand: review volume in the source market.
	switch reviews := source.ReviewsCount; {
	case reviews >= 50000:
		score += 30
	case reviews >= 10000:
		score += 25
	case reviews >= 5000:
		score += 20
	case reviews >= 1000:
		score += 15
	}

	// Quality: source-market rating.
	switch stars := source.Stars; {
	case stars >= 4.5:
		score += 25
	case stars >= 4.0:
		score += 20
	case stars >= 3.5:
		score += 10
	}

	// Popularity: rank within the source bestseller list.
	switch rank := source.RankPosition(); {
	case rank <= 5:
		score += 25
	case rank <= 10:
		score += 20
	case rank <= 20:
		score += 15
	case rank <= 50:
		score += 10
	}

	// Competition: absent or underreviewed target counterpart.
	if target == nil {
		score += 20
	} else {
		sourceReviews := source.ReviewsCount
		targetReviews := target.ReviewsCount
		switch {
		case targetReviews*10 < sourceReviews:
			score += 15
		case targetReviews*3 < sourceReviews:
			score += 10
		}
	}

	if score > maxOpportunityScore {
		score = maxOpportunityScore
	}
	return score
}
