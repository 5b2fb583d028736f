package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/marketgap/backend/internal/domain"
)

func price(v string) domain.Price {
	d, _ := decimal.NewFromString(v)
	return domain.Price{Value: d, Currency: "$"}
}

func TestCategoryLeader(t *testing.T) {
	t.Run("nil for empty list", func(t *testing.T) {
		if got := categoryLeader(nil); got != nil {
			t.Errorf("leader = %+v, want nil", got)
		}
	})

	t.Run("prefers rank one", func(t *testing.T) {
		products := []domain.Product{
			{ASIN: "A", Position: 3, ReviewsCount: 99999},
			{ASIN: "B", Position: 1, ReviewsCount: 10},
		}
		got := categoryLeader(products)
		if got == nil || got.ASIN != "B" {
			t.Errorf("leader = %+v, want B", got)
		}
	})

	t.Run("falls back to most reviewed", func(t *testing.T) {
		products := []domain.Product{
			{ASIN: "A", Position: 4, ReviewsCount: 100},
			{ASIN: "B", Position: 2, ReviewsCount: 5000},
			{ASIN: "C", Position: 3, ReviewsCount: 800},
		}
		got := categoryLeader(products)
		if got == nil || got.ASIN != "B" {
			t.Errorf("leader = %+v, want B", got)
		}
	})
}

func TestArbitrageOpportunity(t *testing.T) {
	c := NewComparator(NewMatcher(nil, MatcherConfig{}, nil), nil)
	ctx := context.Background()

	t.Run("direct match with big margin hits the ceiling", func(t *testing.T) {
		source := domain.Product{Name: "Silicone Baking Mat", Price: price("5.00")}
		targets := []domain.Product{
			{Name: "Silicone Baking Mat Set", Price: price("30.00"), Position: 1},
		}

		opp := c.arbitrageOpportunity(ctx, source, targets, 0)
		if opp == nil {
			t.Fatal("opportunity = nil, want emitted")
		}
		if opp.MatchType != domain.MatchTypeSimilar {
			t.Errorf("match type = %s, want similar_product", opp.MatchType)
		}
		if opp.Score != 100 {
			t.Errorf("score = %v, want 100 (6x margin, clamped before discount)", opp.Score)
		}
		if !strings.Contains(opp.Reason, "6.0x") {
			t.Errorf("reason = %q, want margin 6.0x mentioned", opp.Reason)
		}
	})

	t.Run("no match falls back to discounted category leader", func(t *testing.T) {
		source := domain.Product{Name: "Portable Neck Fan Rechargeable", Price: price("10.00")}
		targets := []domain.Product{
			{Name: "Stainless Steel Mixing Bowls", Price: price("20.00"), Position: 1},
			{Name: "Bamboo Cutting Board", Price: price("15.00"), Position: 2},
		}

		opp := c.arbitrageOpportunity(ctx, source, targets, 0)
		if opp == nil {
			t.Fatal("opportunity = nil, want emitted")
		}
		if opp.MatchType != domain.MatchTypeCategoryBestseller {
			t.Errorf("match type = %s, want category_bestseller", opp.MatchType)
		}
		// margin 2.0 -> base 50, halved for the generic reference.
		if opp.Score != 25 {
			t.Errorf("score = %v, want 25", opp.Score)
		}
		if opp.Target == nil || opp.Target.Name != "Stainless Steel Mixing Bowls" {
			t.Errorf("target = %+v, want the rank-1 leader", opp.Target)
		}
	})

	t.Run("negative margin floors at zero", func(t *testing.T) {
		source := domain.Product{Name: "Luxury Espresso Machine", Price: price("500.00")}
		targets := []domain.Product{
			{Name: "Luxury Espresso Machine Pro", Price: price("100.00"), Position: 1},
		}

		opp := c.arbitrageOpportunity(ctx, source, targets, 0)
		if opp == nil {
			t.Fatal("opportunity = nil, want emitted with zero score")
		}
		if opp.Score != 0 {
			t.Errorf("score = %v, want 0", opp.Score)
		}
	})

	t.Run("skips non-positive source price", func(t *testing.T) {
		source := domain.Product{Name: "Portable Neck Fan", Price: price("0")}
		targets := []domain.Product{
			{Name: "Desk Fan", Price: price("20.00"), Position: 1},
		}
		if opp := c.arbitrageOpportunity(ctx, source, targets, 0); opp != nil {
			t.Errorf("opportunity = %+v, want nil for zero source price", opp)
		}
	})

	t.Run("skips non-positive reference price", func(t *testing.T) {
		source := domain.Product{Name: "Portable Neck Fan", Price: price("10.00")}
		targets := []domain.Product{
			{Name: "Desk Fan", Position: 1},
		}
		if opp := c.arbitrageOpportunity(ctx, source, targets, 0); opp != nil {
			t.Errorf("opportunity = %+v, want nil for zero reference price", opp)
		}
	})

	t.Run("nil when no targets exist", func(t *testing.T) {
		source := domain.Product{Name: "Portable Neck Fan", Price: price("10.00")}
		if opp := c.arbitrageOpportunity(ctx, source, nil, 0); opp != nil {
			t.Errorf("opportunity = %+v, want nil with no reference", opp)
		}
	})
}

func TestTruncateName(t *testing.T) {
	if got := truncateName("short", 40); got != "short" {
		t.Errorf("truncateName = %q, want unchanged", got)
	}
	long := strings.Repeat("a", 50)
	got := truncateName(long, 40)
	if len([]rune(got)) != 43 || !strings.HasSuffix(got, "...") {
		t.Errorf("truncateName = %q, want 40 runes plus ellipsis", got)
	}
}
