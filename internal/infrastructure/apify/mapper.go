package apify

import (
	"strings"

	"github.com/marketgap/backend/internal/domain"
)

// Item is one dataset item produced by the bestsellers actor. The actor
// emits the same field names the domain product uses, but items can be
// partial when a listing fails to render, so they are validated before
// being handed to the rest of the pipeline.
type Item struct {
	ASIN         string       `json:"asin"`
	Name         string       `json:"name"`
	Price        domain.Price `json:"price"`
	Stars        float64      `json:"stars"`
	ReviewsCount int          `json:"reviewsCount"`
	Position     int          `json:"position"`
	URL          string       `json:"url"`
	ThumbnailURL string       `json:"thumbnailUrl"`
}

// MapItems converts dataset items into domain products, dropping entries
// without a usable name.
func MapItems(items []Item) []domain.Product {
	products := make([]domain.Product, 0, len(items))
	for _, it := range items {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		products = append(products, domain.Product{
			ASIN:         it.ASIN,
			Name:         name,
			Price:        it.Price,
			Stars:        it.Stars,
			ReviewsCount: it.ReviewsCount,
			Position:     it.Position,
			URL:          it.URL,
			ThumbnailURL: it.ThumbnailURL,
		})
	}
	return products
}
