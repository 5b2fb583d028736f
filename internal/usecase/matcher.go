package usecase

import (
	"context"

	"go.uber.org/zap"

	"github.com/marketgap/backend/internal/domain"
)

const (
	// defaultMatchThreshold is the minimum similarity for a keyword match.
	defaultMatchThreshold = 0.3
	// semanticWindowSize caps how many candidates are offered to the AI
	// delegate per product.
	semanticWindowSize = 30
	// semanticMatchConfidence is the fixed similarity recorded for matches
	// picked by the AI delegate, which returns no numeric score of its own.
	semanticMatchConfidence = 0.85
)

// MatcherConfig holds configuration for the matcher.
type MatcherConfig struct {
	Threshold float64
}

// Matcher finds the best target-market counterpart for a source product.
// The keyword similarity matcher is always available; an optional semantic
// delegate is tried first for non-ASCII names and falls back silently on
// any failure.
type Matcher struct {
	semantic  domain.SemanticMatcher
	threshold float64
	log       *zap.Logger
}

// NewMatcher creates a matcher. semantic may be nil; log may be nil.
func NewMatcher(semantic domain.SemanticMatcher, config MatcherConfig, log *zap.Logger) *Matcher {
	threshold := config.Threshold
	if threshold <= 0 {
		threshold = defaultMatchThreshold
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Matcher{
		semantic:  semantic,
		threshold: threshold,
		log:       log,
	}
}

// FindBestMatch returns the candidate most similar to product, or nil when
// no candidate reaches the threshold. A non-positive threshold uses the
// matcher's default. Never fails: semantic-delegate errors degrade to
// keyword matching.
func (m *Matcher) FindBestMatch(ctx context.Context, product domain.Product, candidates []domain.Product, threshold float64) *domain.Match {
	if product.Name == "" || len(candidates) == 0 {
		return nil
	}
	if threshold <= 0 {
		threshold = m.threshold
	}

	if m.semantic != nil && m.semantic.Enabled() && hasNonASCII(product.Name) {
		if match := m.semanticMatch(ctx, product.Name, candidates); match != nil {
			return match
		}
	}

	return m.keywordMatch(product.Name, candidates, threshold)
}

// semanticMatch asks the AI delegate to pick an equivalent from a capped
// candidate window. Returns nil on any error or out-of-range answer.
func (m *Matcher) semanticMatch(ctx context.Context, name string, candidates []domain.Product) *domain.Match {
	window := candidates
	if len(window) > semanticWindowSize {
		window = window[:semanticWindowSize]
	}

	names := make([]string, len(window))
	for i, c := range window {
		names[i] = c.Name
	}

	idx, err := m.semantic.PickMatch(ctx, name, names)
	if err != nil {
		m.log.Debug("semantic match failed, falling back to keywords",
			zap.String("name", name),
			zap.Error(err),
		)
		return nil
	}
	if idx < 0 || idx >= len(window) {
		return nil
	}

	return &domain.Match{
		Product:    window[idx],
		Similarity: semanticMatchConfidence,
		Method:     domain.MatchMethodSemantic,
	}
}

// keywordMatch scans all candidates tracking the running best score with a
// strict greater-than, so the first candidate reaching the top score wins
// ties. Deterministic for a given candidate order.
func (m *Matcher) keywordMatch(name string, candidates []domain.Product, threshold float64) *domain.Match {
	var best *domain.Product
	bestScore := 0.0

	for i := range candidates {
		score := Similarity(name, candidates[i].Name)
		if score > bestScore {
			bestScore = score
			best = &candidates[i]
		}
	}

	if best == nil || bestScore < threshold {
		return nil
	}

	return &domain.Match{
		Product:    *best,
		Similarity: bestScore,
		Method:     domain.MatchMethodKeyword,
	}
}
