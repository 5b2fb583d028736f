package firecrawl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/marketgap/backend/internal/domain"
	"github.com/marketgap/backend/internal/metrics"
)

// Client scrapes AliExpress category pages through the Firecrawl API and
// parses the rendered markdown into products. It serves as the "universal"
// source market for arbitrage comparisons.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	log        *zap.Logger
}

// categoryPages maps category slugs to AliExpress category pages sorted by
// order count, so the first results approximate a bestseller list.
var categoryPages = map[string]string{
	"home-garden":     "https://aliexpress.ru/category/6/home-garden-office?SortType=total_tranpro_desc",
	"pet-supplies":    "https://aliexpress.ru/category/858/pet-products?SortType=total_tranpro_desc",
	"office-products": "https://aliexpress.ru/category/16029/home-improvement-tools?SortType=total_tranpro_desc",
	"sports-outdoors": "https://aliexpress.ru/category/7/sports-entertainment?SortType=total_tranpro_desc",
	"toys-games":      "https://aliexpress.ru/category/9/toys-hobbies?SortType=total_tranpro_desc",
}

const defaultCategoryPage = "https://aliexpress.ru/category/6/home-garden-office?SortType=total_tranpro_desc"

// NewClient creates a new Firecrawl API client.
func NewClient(apiKey, baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.firecrawl.dev"
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 2 * time.Minute,
		},
		apiKey:  apiKey,
		baseURL: baseURL,
		log:     log,
	}
}

type scrapeAction struct {
	Type         string `json:"type"`
	Milliseconds int    `json:"milliseconds,omitempty"`
	Direction    string `json:"direction,omitempty"`
}

type scrapeRequest struct {
	URL     string         `json:"url"`
	Formats []string       `json:"formats"`
	WaitFor int            `json:"waitFor"`
	Actions []scrapeAction `json:"actions"`
}

type scrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
	Error string `json:"error"`
}

// FetchCategory scrapes one storefront category and returns up to limit
// products, most-ordered first.
func (c *Client) FetchCategory(ctx context.Context, category string, limit int) ([]domain.Product, error) {
	pageURL, ok := categoryPages[category]
	if !ok {
		pageURL = defaultCategoryPage
		c.log.Warn("unknown storefront category, using default page",
			zap.String("category", category),
		)
	}
	if limit <= 0 {
		limit = 20
	}

	markdown, err := c.scrapeMarkdown(ctx, pageURL)
	if err != nil {
		metrics.ScrapeRequestsTotal.WithLabelValues("firecrawl", "error").Inc()
		return nil, fmt.Errorf("%w: %v", domain.ErrMarketDataUnavailable, err)
	}
	metrics.ScrapeRequestsTotal.WithLabelValues("firecrawl", "ok").Inc()

	products := ParseMarkdown(markdown, limit)
	c.log.Debug("storefront category scraped",
		zap.String("category", category),
		zap.Int("markdown_bytes", len(markdown)),
		zap.Int("products", len(products)),
	)
	return products, nil
}

// scrapeMarkdown requests a rendered-markdown scrape of a single page. The
// category pages hide the real bestseller grid below a promo carousel, so
// the request scrolls the page a few times before scraping.
func (c *Client) scrapeMarkdown(ctx context.Context, pageURL string) (string, error) {
	reqBody := scrapeRequest{
		URL:     pageURL,
		Formats: []string{"markdown"},
		WaitFor: 3000,
		Actions: []scrapeAction{
			{Type: "wait", Milliseconds: 2000},
			{Type: "scroll", Direction: "down"},
			{Type: "wait", Milliseconds: 1000},
			{Type: "scroll", Direction: "down"},
			{Type: "wait", Milliseconds: 1000},
			{Type: "scroll", Direction: "down"},
			{Type: "wait", Milliseconds: 1000},
			{Type: "scrape"},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("encoding scrape request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("scrape status %d: %s", resp.StatusCode, string(respBody))
	}

	var decoded scrapeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("decoding scrape response: %w", err)
	}
	if !decoded.Success {
		return "", fmt.Errorf("scrape failed: %s", decoded.Error)
	}
	return decoded.Data.Markdown, nil
}
