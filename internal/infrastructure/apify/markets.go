package apify

import (
	"fmt"
	"sort"
)

// Market describes one Amazon marketplace.
type Market struct {
	Name     string
	BaseURL  string
	Currency string
}

// markets lists the supported Amazon marketplaces.
var markets = map[string]Market{
	"us": {Name: "USA", BaseURL: "https://www.amazon.com", Currency: "$"},
	"jp": {Name: "Japan", BaseURL: "https://www.amazon.co.jp", Currency: "¥"},
	"de": {Name: "Germany", BaseURL: "https://www.amazon.de", Currency: "€"},
	"uk": {Name: "UK", BaseURL: "https://www.amazon.co.uk", Currency: "£"},
	"fr": {Name: "France", BaseURL: "https://www.amazon.fr", Currency: "€"},
	"it": {Name: "Italy", BaseURL: "https://www.amazon.it", Currency: "€"},
	"es": {Name: "Spain", BaseURL: "https://www.amazon.es", Currency: "€"},
}

// categoryURLs maps category slug -> market code -> bestsellers page URL.
// Amazon's category paths are not uniform across marketplaces, so the URLs
// are listed explicitly rather than templated.
var categoryURLs = map[string]map[string]string{
	"home-garden": {
		"us": "https://www.amazon.com/Best-Sellers-Home-Kitchen/zgbs/home-garden",
		"jp": "https://www.amazon.co.jp/gp/bestsellers/kitchen/",
		"de": "https://www.amazon.de/gp/bestsellers/kitchen/",
		"uk": "https://www.amazon.co.uk/gp/bestsellers/kitchen/",
		"fr": "https://www.amazon.fr/gp/bestsellers/kitchen/",
		"it": "https://www.amazon.it/gp/bestsellers/kitchen/",
		"es": "https://www.amazon.es/gp/bestsellers/kitchen/",
	},
	"pet-supplies": {
		"us": "https://www.amazon.com/Best-Sellers-Pet-Supplies/zgbs/pet-supplies",
		"jp": "https://www.amazon.co.jp/gp/bestsellers/pet-supplies/",
		"de": "https://www.amazon.de/gp/bestsellers/pet-supplies/",
		"uk": "https://www.amazon.co.uk/gp/bestsellers/pet-supplies/",
		"fr": "https://www.amazon.fr/gp/bestsellers/pet-supplies/",
		"it": "https://www.amazon.it/gp/bestsellers/pet-supplies/",
		"es": "https://www.amazon.es/gp/bestsellers/pet-supplies/",
	},
	"office-products": {
		"us": "https://www.amazon.com/Best-Sellers-Office-Products/zgbs/office-products",
		"jp": "https://www.amazon.co.jp/gp/bestsellers/office-products/",
		"de": "https://www.amazon.de/gp/bestsellers/office-products/",
		"uk": "https://www.amazon.co.uk/gp/bestsellers/office-products/",
		"fr": "https://www.amazon.fr/gp/bestsellers/office-products/",
		"it": "https://www.amazon.it/gp/bestsellers/office-products/",
		"es": "https://www.amazon.es/gp/bestsellers/office-products/",
	},
	"sports-outdoors": {
		"us": "https://www.amazon.com/Best-Sellers-Sports-Outdoors/zgbs/sporting-goods",
		"jp": "https://www.amazon.co.jp/gp/bestsellers/sports/",
		"de": "https://www.amazon.de/gp/bestsellers/sports/",
		"uk": "https://www.amazon.co.uk/gp/bestsellers/sports/",
		"fr": "https://www.amazon.fr/gp/bestsellers/sports/",
		"it": "https://www.amazon.it/gp/bestsellers/sports/",
		"es": "https://www.amazon.es/gp/bestsellers/sports/",
	},
	"toys-games": {
		"us": "https://www.amazon.com/Best-Sellers-Toys-Games/zgbs/toys-and-games",
		"jp": "https://www.amazon.co.jp/gp/bestsellers/toys/",
		"de": "https://www.amazon.de/gp/bestsellers/toys/",
		"uk": "https://www.amazon.co.uk/gp/bestsellers/toys/",
		"fr": "https://www.amazon.fr/gp/bestsellers/toys/",
		"it": "https://www.amazon.it/gp/bestsellers/toys/",
		"es": "https://www.amazon.es/gp/bestsellers/toys/",
	},
}

// SupportedMarkets returns the known market codes, sorted.
func SupportedMarkets() []string {
	codes := make([]string, 0, len(markets))
	for code := range markets {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// SupportedCategories returns the known category slugs, sorted.
func SupportedCategories() []string {
	slugs := make([]string, 0, len(categoryURLs))
	for slug := range categoryURLs {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// MarketInfo looks up marketplace metadata by code.
func MarketInfo(market string) (Market, bool) {
	m, ok := markets[market]
	return m, ok
}

// CategoryURL resolves the bestsellers page URL for a market/category pair.
func CategoryURL(market, category string) (string, error) {
	byMarket, ok := categoryURLs[category]
	if !ok {
		return "", fmt.Errorf("unknown category %q (supported: %v)", category, SupportedCategories())
	}
	u, ok := byMarket[market]
	if !ok {
		return "", fmt.Errorf("unknown market %q for category %q (supported: %v)", market, category, SupportedMarkets())
	}
	return u, nil
}
