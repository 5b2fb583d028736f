package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/marketgap/backend/internal/domain"
	"github.com/marketgap/backend/internal/metrics"
)

// actorID is the Apify actor that crawls Amazon bestseller pages.
const actorID = "junglee~amazon-bestsellers"

// Client runs the bestsellers actor synchronously and returns its dataset
// items mapped to domain products.
type Client struct {
	httpClient  *http.Client
	token       string
	baseURL     string
	rateLimiter *rate.Limiter
	log         *zap.Logger
}

// NewClient creates a new Apify API client. Actor runs are slow and
// metered, so requests are limited to roughly one every two seconds.
func NewClient(token, baseURL string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = "https://api.apify.com"
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: 5 * time.Minute,
		},
		token:       token,
		baseURL:     baseURL,
		rateLimiter: rate.NewLimiter(rate.Limit(0.5), 2),
		log:         log,
	}
}

// runInput is the actor input. Product-detail crawling stays disabled to
// keep actor usage cheap.
type runInput struct {
	CategoryURLs         []string `json:"categoryUrls"`
	MaxItemsPerStartURL  int      `json:"maxItemsPerStartUrl"`
	DepthOfCrawl         int      `json:"depthOfCrawl"`
	Language             string   `json:"language"`
	ScrapeProductDetails bool     `json:"scrapeProductDetails"`
	UseCaptchaSolver     bool     `json:"useCaptchaSolver"`
}

// FetchBestsellers scrapes one market category and returns its ranked
// products. Transient failures are retried up to three times.
func (c *Client) FetchBestsellers(ctx context.Context, market, category string, maxResults int) ([]domain.Product, error) {
	categoryURL, err := CategoryURL(market, category)
	if err != nil {
		return nil, err
	}
	if maxResults <= 0 {
		maxResults = 20
	}

	input := runInput{
		CategoryURLs:        []string{categoryURL},
		MaxItemsPerStartURL: maxResults,
		DepthOfCrawl:        1,
		Language:            "en",
	}
	body, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("encoding actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/run-sync-get-dataset-items", c.baseURL, actorID)
	params := url.Values{}
	params.Add("token", c.token)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())

	var lastErr error
	for attempt := 1; attempt <= 3; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}

		items, err := c.runActor(ctx, reqURL, body)
		if err != nil {
			metrics.ScrapeRequestsTotal.WithLabelValues("apify", "error").Inc()
			c.log.Warn("apify request failed",
				zap.Int("attempt", attempt),
				zap.String("market", market),
				zap.String("category", category),
				zap.Error(err),
			)
			lastErr = err
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * 500 * time.Millisecond):
			}
			continue
		}

		metrics.ScrapeRequestsTotal.WithLabelValues("apify", "ok").Inc()
		products := MapItems(items)
		c.log.Debug("bestsellers fetched",
			zap.String("market", market),
			zap.String("category", category),
			zap.Int("products", len(products)),
		)
		return products, nil
	}

	return nil, fmt.Errorf("%w: %v", domain.ErrMarketDataUnavailable, lastErr)
}

// runActor executes one synchronous actor run and decodes the dataset.
func (c *Client) runActor(ctx context.Context, reqURL string, body []byte) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("actor run status %d: %s", resp.StatusCode, string(respBody))
	}

	var items []Item
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decoding dataset items: %w", err)
	}
	return items, nil
}
