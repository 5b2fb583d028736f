package domain

import (
	"testing"
)

func TestNewNoMatchOpportunity(t *testing.T) {
	source := Product{Name: "Rice Washing Bowl", ReviewsCount: 9000}

	opp := NewNoMatchOpportunity(source, 80, "No similar product found in target market")
	if opp.Target != nil {
		t.Errorf("target = %+v, want nil", opp.Target)
	}
	if opp.MatchType != MatchTypeNone {
		t.Errorf("match type = %s, want no_match", opp.MatchType)
	}
	if opp.Similarity != 0 {
		t.Errorf("similarity = %v, want 0", opp.Similarity)
	}
	if opp.Score != 80 {
		t.Errorf("score = %v, want 80", opp.Score)
	}
}

func TestNewMatchedOpportunityCopiesTarget(t *testing.T) {
	source := Product{Name: "Washable Dog Bed"}
	target := Product{Name: "Orthopedic Dog Bed", ReviewsCount: 100}

	opp := NewMatchedOpportunity(source, target, MatchTypeReviewDelta, 0.8, 90, "reason")

	target.ReviewsCount = 999999
	if opp.Target.ReviewsCount != 100 {
		t.Errorf("target reviews = %d, opportunity aliased the caller's value", opp.Target.ReviewsCount)
	}
	if opp.MatchType != MatchTypeReviewDelta {
		t.Errorf("match type = %s, want review_delta_match", opp.MatchType)
	}
}

func TestOpportunityClamping(t *testing.T) {
	source := Product{Name: "A"}
	target := Product{Name: "B"}

	over := NewMatchedOpportunity(source, target, MatchTypeSimilar, 1.5, 140, "")
	if over.Score != 100 {
		t.Errorf("score = %v, want clamped 100", over.Score)
	}
	if over.Similarity != 1 {
		t.Errorf("similarity = %v, want clamped 1", over.Similarity)
	}

	under := NewMatchedOpportunity(source, target, MatchTypeSimilar, -0.5, -10, "")
	if under.Score != 0 {
		t.Errorf("score = %v, want clamped 0", under.Score)
	}
	if under.Similarity != 0 {
		t.Errorf("similarity = %v, want clamped 0", under.Similarity)
	}
}
