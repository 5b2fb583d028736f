package domain

import (
	"encoding/json"
	"testing"
)

func TestPriceUnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		want     string
		currency string
	}{
		{"numeric value", `{"value": 89.99, "currency": "$"}`, "89.99", "$"},
		{"string value", `{"value": "1234.56", "currency": "¥"}`, "1234.56", "¥"},
		{"string with thousands separators", `{"value": "1,234.56"}`, "1234.56", ""},
		{"integer value", `{"value": 500}`, "500", ""},
		{"garbage string becomes zero", `{"value": "N/A"}`, "0", ""},
		{"missing value becomes zero", `{"currency": "$"}`, "0", "$"},
		{"null value becomes zero", `{"value": null}`, "0", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p Price
			if err := json.Unmarshal([]byte(tt.payload), &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if p.Value.String() != tt.want {
				t.Errorf("value = %s, want %s", p.Value.String(), tt.want)
			}
			if p.Currency != tt.currency {
				t.Errorf("currency = %q, want %q", p.Currency, tt.currency)
			}
		})
	}
}

func TestPriceUnmarshalJSONNotObject(t *testing.T) {
	// A malformed price never fails the surrounding product decode.
	var p Price
	if err := json.Unmarshal([]byte(`"free"`), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.IsPositive() {
		t.Errorf("price = %+v, want zero", p)
	}
}

func TestPriceIsPositive(t *testing.T) {
	var zero Price
	if zero.IsPositive() {
		t.Error("zero price reported positive")
	}

	var p Price
	if err := json.Unmarshal([]byte(`{"value": 0.01}`), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if !p.IsPositive() {
		t.Error("0.01 reported non-positive")
	}
}

func TestProductDecoding(t *testing.T) {
	payload := `{
		"asin": "B0TEST",
		"name": "Rice Cooker",
		"price": {"value": "89.99", "currency": "$"},
		"stars": 4.6,
		"reviewsCount": 12000,
		"position": 3,
		"url": "https://example.com/p",
		"thumbnailUrl": "https://example.com/t.jpg"
	}`

	var p Product
	if err := json.Unmarshal([]byte(payload), &p); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if p.ASIN != "B0TEST" || p.Name != "Rice Cooker" {
		t.Errorf("product = %+v", p)
	}
	if p.ReviewsCount != 12000 || p.Position != 3 {
		t.Errorf("counts = %d reviews, position %d", p.ReviewsCount, p.Position)
	}
	if !p.Price.IsPositive() {
		t.Error("price should be positive")
	}
}

func TestRankPosition(t *testing.T) {
	tests := []struct {
		position int
		want     int
	}{
		{1, 1},
		{42, 42},
		{0, PositionSentinel},
		{-3, PositionSentinel},
	}

	for _, tt := range tests {
		p := Product{Position: tt.position}
		if got := p.RankPosition(); got != tt.want {
			t.Errorf("RankPosition() with position %d = %d, want %d", tt.position, got, tt.want)
		}
	}
}
