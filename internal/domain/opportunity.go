package domain

// MatchType classifies how (or whether) a target counterpart was found
// for a source product.
type MatchType string

const (
	// MatchTypeNone means no target counterpart exists above threshold.
	MatchTypeNone MatchType = "no_match"
	// MatchTypeReviewDelta means a counterpart exists but is heavily
	// underreviewed relative to the source product.
	MatchTypeReviewDelta MatchType = "review_delta_match"
	// MatchTypeSimilar means a genuine similar product was used as the
	// arbitrage price reference.
	MatchTypeSimilar MatchType = "similar_product"
	// MatchTypeCategoryBestseller means the category leader stood in as a
	// generic price reference because nothing similar was found.
	MatchTypeCategoryBestseller MatchType = "category_bestseller"
)

// Opportunity is a source product flagged as worth pursuing, with a score
// and a textual justification. Opportunities are derived and stateless:
// every comparison run recomputes them from scratch.
type Opportunity struct {
	Source     Product   `json:"source_product"`
	Target     *Product  `json:"target_match,omitempty"`
	Similarity float64   `json:"similarity_score"`
	Score      float64   `json:"opportunity_score"`
	MatchType  MatchType `json:"match_type"`
	Reason     string    `json:"reason"`
}

// NewNoMatchOpportunity builds an opportunity for a source product with no
// target counterpart. Target stays nil and similarity zero by construction.
func NewNoMatchOpportunity(source Product, score float64, reason string) Opportunity {
	return Opportunity{
		Source:    source,
		Score:     clampScore(score),
		MatchType: MatchTypeNone,
		Reason:    reason,
	}
}

// NewMatchedOpportunity builds an opportunity backed by a target match.
// The target is copied by value so the opportunity never aliases the
// candidate list it was matched against.
func NewMatchedOpportunity(source, target Product, matchType MatchType, similarity, score float64, reason string) Opportunity {
	targetCopy := target
	return Opportunity{
		Source:     source,
		Target:     &targetCopy,
		Similarity: clampUnit(similarity),
		Score:      clampScore(score),
		MatchType:  matchType,
		Reason:     reason,
	}
}

func clampScore(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
