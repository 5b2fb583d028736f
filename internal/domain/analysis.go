package domain

import "time"

// CompareMode selects the comparison strategy.
type CompareMode string

const (
	// ModeStandard mines demand gaps between two reviewed marketplaces.
	ModeStandard CompareMode = "standard"
	// ModeArbitrage mines price-markup potential from an un-reviewed
	// storefront against a reviewed target market.
	ModeArbitrage CompareMode = "arbitrage"
)

// AnalysisRequest describes a full scrape-and-compare run.
type AnalysisRequest struct {
	Categories   []string    `json:"categories" binding:"required"`
	SourceMarket string      `json:"source_market"`
	TargetMarket string      `json:"target_market"`
	MaxResults   int         `json:"max_results"`
	MinReviews   int         `json:"min_reviews"`
	Mode         CompareMode `json:"mode"`
	SkipScraping bool        `json:"skip_scraping"`
}

// AnalysisResult is the outcome of one analysis run. Opportunities map
// category name to its score-sorted list; a category absent from the map
// had no source data at all.
type AnalysisResult struct {
	RunID         string                   `json:"run_id"`
	GeneratedAt   time.Time                `json:"generated_at"`
	SourceMarket  string                   `json:"source_market"`
	TargetMarket  string                   `json:"target_market"`
	Mode          CompareMode              `json:"mode"`
	Opportunities map[string][]Opportunity `json:"opportunities"`
	FromCache     bool                     `json:"from_cache,omitempty"`
}

// TotalOpportunities counts opportunities across all categories.
func (r *AnalysisResult) TotalOpportunities() int {
	total := 0
	for _, opps := range r.Opportunities {
		total += len(opps)
	}
	return total
}
