package usecase

import (
	"context"
	"fmt"

	"github.com/marketgap/backend/internal/domain"
)

const (
	// arbitrageThreshold is the looser match threshold for un-reviewed
	// storefront sources, where titles are supplier-written and noisy.
	arbitrageThreshold = 0.2
	// strongMatchSimilarity separates a genuine similar-product match from
	// a weak one for discount purposes.
	strongMatchSimilarity = 0.3
	// marginScoreSlope converts margin multiplier to score: a 3x markup
	// reaches the 100-point ceiling before discounts.
	marginScoreSlope = 50.0

	// Match-quality discounts. Price comparison against an unrelated
	// category leader is a much weaker signal than against a verified
	// similar item.
	weakMatchDiscount      = 0.8
	bestsellerRefDiscount  = 0.5
)

// categoryLeader picks the generic price reference for a target category:
// the rank-1 product, or failing that the most-reviewed one. Nil when the
// list is empty.
func categoryLeader(products []domain.Product) *domain.Product {
	if len(products) == 0 {
		return nil
	}

	for i := range products {
		if products[i].Position == 1 {
			return &products[i]
		}
	}

	best := &products[0]
	for i := 1; i < len(products); i++ {
		if products[i].ReviewsCount > best.ReviewsCount {
			best = &products[i]
		}
	}
	return best
}

// arbitrageOpportunity evaluates one storefront product for price-markup
// potential against the target market. Returns nil when the product must be
// skipped (no price reference, or a non-positive price on either side).
func (c *Comparator) arbitrageOpportunity(ctx context.Context, source domain.Product, targets []domain.Product, threshold float64) *domain.Opportunity {
	if threshold <= 0 {
		threshold = arbitrageThreshold
	}

	match := c.matcher.FindBestMatch(ctx, source, targets, threshold)

	var (
		reference  domain.Product
		matchType  domain.MatchType
		similarity float64
	)
	if match != nil {
		reference = match.Product
		matchType = domain.MatchTypeSimilar
		similarity = match.Similarity
	} else {
		leader := categoryLeader(targets)
		if leader == nil {
			return nil
		}
		reference = *leader
		matchType = domain.MatchTypeCategoryBestseller
	}

	if !source.Price.IsPositive() || !reference.Price.IsPositive() {
		return nil
	}

	margin, _ := reference.Price.Value.Div(source.Price.Value).Float64()

	// Clamp the base score first, then discount: reversing the order
	// changes behavior at the ceiling.
	base := (margin - 1) * marginScoreSlope
	if base < 0 {
		base = 0
	}
	if base > maxOpportunityScore {
		base = maxOpportunityScore
	}

	score := base
	switch {
	case matchType == domain.MatchTypeSimilar && similarity > strongMatchSimilarity:
		// Verified similar product: full confidence in the price signal.
	case matchType == domain.MatchTypeSimilar:
		score *= weakMatchDiscount
	default:
		score *= bestsellerRefDiscount
	}

	var reason string
	if matchType == domain.MatchTypeSimilar {
		reason = fmt.Sprintf("Arbitrage: %s -> %s (%.1fx) | Similar: %s",
			formatPrice(source.Price), formatPrice(reference.Price), margin, truncateName(reference.Name, 40))
	} else {
		reason = fmt.Sprintf("Potential arbitrage: %s vs category leader %s (%.1fx), no direct match found",
			formatPrice(source.Price), formatPrice(reference.Price), margin)
	}

	opp := domain.NewMatchedOpportunity(source, reference, matchType, similarity, score, reason)
	return &opp
}

func formatPrice(p domain.Price) string {
	return p.Currency + p.Value.StringFixed(2)
}

func truncateName(name string, max int) string {
	runes := []rune(name)
	if len(runes) <= max {
		return name
	}
	return string(runes[:max]) + "..."
}
