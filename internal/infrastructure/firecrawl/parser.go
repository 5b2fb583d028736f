package firecrawl

import (
	"fmt"
	"hash/fnv"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/marketgap/backend/internal/domain"
)

// rubPerUSD is an approximate conversion rate used to express storefront
// prices in the same currency as the target marketplaces.
const rubPerUSD = 90

// The storefront renders each product card as a markdown link of the form
// [![](IMAGE)\n\nPRICE ₽\n\nNAME](ITEM_URL). fullBlockPattern captures the
// whole card; simpleBlockPattern is the fallback when the card layout
// drops the inline price or name.
var (
	fullBlockPattern = regexp.MustCompile(
		`(?s)\[!\[\]\((https://ae\d+\.alicdn\.com/[^)]+)\)[^\]]*?(\d[\d\s\x{00a0}]*)\s*₽[^\]]*?([^\]₽\n][^\]]{10,}?)\]\((https://aliexpress\.ru/item/[^)]+)\)`,
	)
	simpleBlockPattern = regexp.MustCompile(
		`\[!\[\]\((https://ae\d+\.alicdn\.com/[^)]+)\)[^\]]*\]\((https://aliexpress\.ru/item/[^)]+)\)`,
	)
	pricePattern      = regexp.MustCompile(`(\d[\d\s\x{00a0}]*)\s*₽`)
	trailingNameRegex = regexp.MustCompile(`[\n\\]+([^\n\[\]₽]{10,}?)\s*$`)
	whitespaceRegex   = regexp.MustCompile(`\\n|\\t|\s+`)

	salesPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d[\d\s\x{00a0}]*)\s*sold`),
		regexp.MustCompile(`(?i)(\d[\d\s\x{00a0}]*)\s*продано`),
		regexp.MustCompile(`\*\s*(\d[\d\s\x{00a0}]+)\s*\*`),
	}
)

type productBlock struct {
	imageURL string
	priceRUB string
	name     string
	itemURL  string
}

// ParseMarkdown extracts up to limit products from a rendered category
// page. Sales counts stand in for review counts so that storefront
// products are comparable with marketplace listings.
func ParseMarkdown(markdown string, limit int) []domain.Product {
	blocks := extractBlocks(markdown)

	products := make([]domain.Product, 0, limit)
	for i, block := range blocks {
		if len(products) >= limit {
			break
		}

		name := cleanName(block.name)
		if len([]rune(name)) < 5 {
			name = fmt.Sprintf("AliExpress Product #%d", i+1)
		}
		if len([]rune(name)) > 100 {
			name = string([]rune(name)[:100])
		}

		sales := extractSalesCount(markdown, block.itemURL)
		reviews := sales
		if reviews == 0 {
			reviews = 1000
		}

		products = append(products, domain.Product{
			ASIN:         syntheticID(i+1, block.itemURL),
			Name:         name,
			Price:        domain.Price{Value: parsePriceUSD(block.priceRUB), Currency: "$"},
			Stars:        4.5,
			ReviewsCount: reviews,
			Position:     i + 1,
			URL:          block.itemURL,
			ThumbnailURL: block.imageURL,
		})
	}
	return products
}

// extractBlocks tries the full card pattern first and falls back to
// scanning the context before each item link when too few cards match.
func extractBlocks(markdown string) []productBlock {
	full := fullBlockPattern.FindAllStringSubmatch(markdown, -1)
	if len(full) >= 3 {
		blocks := make([]productBlock, 0, len(full))
		for _, m := range full {
			blocks = append(blocks, productBlock{
				imageURL: m[1],
				priceRUB: m[2],
				name:     m[3],
				itemURL:  m[4],
			})
		}
		return blocks
	}

	simple := simpleBlockPattern.FindAllStringSubmatch(markdown, -1)
	blocks := make([]productBlock, 0, len(simple))
	for _, m := range simple {
		imageURL, itemURL := m[1], m[2]
		context := contextBefore(markdown, itemURL, 300)

		priceRUB := "0"
		if pm := pricePattern.FindStringSubmatch(context); pm != nil {
			priceRUB = pm[1]
		}

		name := ""
		if nm := trailingNameRegex.FindStringSubmatch(context); nm != nil {
			name = strings.TrimSpace(nm[1])
		}

		blocks = append(blocks, productBlock{
			imageURL: imageURL,
			priceRUB: priceRUB,
			name:     name,
			itemURL:  itemURL,
		})
	}
	return blocks
}

// extractSalesCount looks for an order count near the product link.
func extractSalesCount(markdown, itemURL string) int {
	idx := strings.Index(markdown, itemURL)
	if idx <= 0 {
		return 0
	}

	start := idx - 500
	if start < 0 {
		start = 0
	}
	end := idx + 200
	if end > len(markdown) {
		end = len(markdown)
	}
	window := markdown[start:end]

	for _, pattern := range salesPatterns {
		m := pattern.FindStringSubmatch(window)
		if m == nil {
			continue
		}
		digits := stripSpaces(m[1])
		if n, err := strconv.Atoi(digits); err == nil {
			return n
		}
	}
	return 0
}

func contextBefore(markdown, needle string, span int) string {
	idx := strings.Index(markdown, needle)
	if idx < 0 {
		return ""
	}
	start := idx - span
	if start < 0 {
		start = 0
	}
	return markdown[start:idx]
}

func parsePriceUSD(priceRUB string) decimal.Decimal {
	digits := stripSpaces(priceRUB)
	rub, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero
	}
	return rub.DivRound(decimal.NewFromInt(rubPerUSD), 2)
}

func cleanName(name string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(name, " "))
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if r == ' ' || r == '\u00a0' {
			return -1
		}
		return r
	}, s)
}

// syntheticID builds a stable stand-in for products that have no
// marketplace identifier.
func syntheticID(position int, itemURL string) string {
	h := fnv.New32a()
	h.Write([]byte(itemURL))
	return fmt.Sprintf("fc_%d_%d", position, h.Sum32()%100000)
}
