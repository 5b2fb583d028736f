package apify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marketgap/backend/internal/domain"
)

func TestNewClient(t *testing.T) {
	client := NewClient("test-token", "https://api.example.com", nil)

	assert.NotNil(t, client)
	assert.Equal(t, "test-token", client.token)
	assert.Equal(t, "https://api.example.com", client.baseURL)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
}

func TestNewClientDefaultBaseURL(t *testing.T) {
	client := NewClient("test-token", "", nil)
	assert.Equal(t, "https://api.apify.com", client.baseURL)
}

func TestFetchBestsellers_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v2/acts/junglee~amazon-bestsellers/run-sync-get-dataset-items", r.URL.Path)
		assert.Equal(t, "test-token", r.URL.Query().Get("token"))

		var input map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, []interface{}{"https://www.amazon.co.jp/gp/bestsellers/kitchen/"}, input["categoryUrls"])
		assert.Equal(t, float64(5), input["maxItemsPerStartUrl"])
		assert.Equal(t, float64(1), input["depthOfCrawl"])
		assert.Equal(t, "en", input["language"])
		assert.Equal(t, false, input["scrapeProductDetails"])
		assert.Equal(t, false, input["useCaptchaSolver"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"asin":"B001","name":"Rice Cooker","price":{"value":89.99,"currency":"$"},"stars":4.6,"reviewsCount":12000,"position":1,"url":"https://example.com/1"},
			{"asin":"B002","name":"Electric Kettle","price":{"value":"1,234.00","currency":"¥"},"stars":4.2,"reviewsCount":800,"position":2}
		]`))
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL, nil)
	products, err := client.FetchBestsellers(context.Background(), "jp", "home-garden", 5)

	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "B001", products[0].ASIN)
	assert.Equal(t, "Rice Cooker", products[0].Name)
	assert.Equal(t, 12000, products[0].ReviewsCount)
	assert.True(t, products[0].Price.IsPositive())
	// String price values are coerced too.
	assert.Equal(t, "1234", products[1].Price.Value.String())
}

func TestFetchBestsellers_UnknownCategory(t *testing.T) {
	client := NewClient("test-token", "https://api.example.com", nil)

	_, err := client.FetchBestsellers(context.Background(), "jp", "nonexistent-category", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown category")
}

func TestFetchBestsellers_UnknownMarket(t *testing.T) {
	client := NewClient("test-token", "https://api.example.com", nil)

	_, err := client.FetchBestsellers(context.Background(), "br", "home-garden", 5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown market")
}

func TestFetchBestsellers_RetriesThenFails(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL, nil)
	_, err := client.FetchBestsellers(context.Background(), "us", "toys-games", 5)

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrMarketDataUnavailable))
	assert.Equal(t, 3, attempts)
}

func TestFetchBestsellers_RecoversAfterTransientError(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"asin":"B003","name":"Wooden Puzzle","position":1}]`))
	}))
	defer server.Close()

	client := NewClient("test-token", server.URL, nil)
	products, err := client.FetchBestsellers(context.Background(), "us", "toys-games", 5)

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, 2, attempts)
}

func TestCategoryURL(t *testing.T) {
	url, err := CategoryURL("us", "pet-supplies")
	require.NoError(t, err)
	assert.Equal(t, "https://www.amazon.com/Best-Sellers-Pet-Supplies/zgbs/pet-supplies", url)
}

func TestSupportedMarketsAndCategories(t *testing.T) {
	assert.Equal(t, []string{"de", "es", "fr", "it", "jp", "uk", "us"}, SupportedMarkets())
	assert.Equal(t,
		[]string{"home-garden", "office-products", "pet-supplies", "sports-outdoors", "toys-games"},
		SupportedCategories())

	market, ok := MarketInfo("jp")
	require.True(t, ok)
	assert.Equal(t, "https://www.amazon.co.jp", market.BaseURL)
	assert.Equal(t, "¥", market.Currency)
}
