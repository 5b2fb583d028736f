package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// PositionSentinel is the rank assumed for products whose position within
// their source listing is unknown. Unranked items land in the lowest
// popularity tier.
const PositionSentinel = 100

// Price is a monetary amount attached to a product listing. Scraped price
// values arrive as numbers, formatted strings ("1,234.56") or garbage;
// anything unparseable decodes to zero rather than failing the batch.
type Price struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency,omitempty"`
}

// priceJSON mirrors the wire shape where value may be a number or a string.
type priceJSON struct {
	Value    json.RawMessage `json:"value"`
	Currency string          `json:"currency"`
}

// UnmarshalJSON decodes a price, coercing string values and treating
// malformed input as absent.
func (p *Price) UnmarshalJSON(data []byte) error {
	var raw priceJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		*p = Price{}
		return nil
	}

	p.Currency = raw.Currency
	p.Value = parsePriceValue(raw.Value)
	return nil
}

// parsePriceValue accepts a JSON number or a numeric string with optional
// thousands separators. Anything else becomes zero.
func parsePriceValue(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}

	var num float64
	if err := json.Unmarshal(raw, &num); err == nil {
		return decimal.NewFromFloat(num)
	}

	var str string
	if err := json.Unmarshal(raw, &str); err != nil {
		return decimal.Zero
	}

	str = strings.TrimSpace(strings.ReplaceAll(str, ",", ""))
	value, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Zero
	}
	return value
}

// IsPositive reports whether the price carries a usable positive value.
func (p Price) IsPositive() bool {
	return p.Value.Sign() > 0
}

// Product is an immutable snapshot of a scraped listing. Identifiers are
// market-scoped; two scrapes of the same real-world product are unrelated
// records unless their ASINs happen to coincide.
type Product struct {
	ASIN         string  `json:"asin,omitempty"`
	Name         string  `json:"name"`
	Price        Price   `json:"price"`
	Stars        float64 `json:"stars,omitempty"`
	ReviewsCount int     `json:"reviewsCount,omitempty"`
	Position     int     `json:"position,omitempty"`
	URL          string  `json:"url,omitempty"`
	ThumbnailURL string  `json:"thumbnailUrl,omitempty"`
}

// RankPosition returns the product's rank within its source list, falling
// back to PositionSentinel when the rank is absent or invalid.
func (p Product) RankPosition() int {
	if p.Position <= 0 {
		return PositionSentinel
	}
	return p.Position
}

// MatchMethod describes how a target counterpart was located.
type MatchMethod string

const (
	// MatchMethodKeyword is the normalized-token similarity matcher.
	MatchMethodKeyword MatchMethod = "keyword"
	// MatchMethodSemantic is the AI delegate used for non-ASCII names.
	MatchMethodSemantic MatchMethod = "ai_semantic"
)

// Match is a candidate product paired with the similarity evidence that
// selected it. The product is embedded by value so callers can hold the
// match without aliasing the candidate list.
type Match struct {
	Product    Product
	Similarity float64
	Method     MatchMethod
}
