package usecase

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/marketgap/backend/internal/domain"
)

// Row is the flattened, export-ready shape of one opportunity. This is the
// contract consumed by CSV export and dashboard collaborators.
type Row struct {
	Category       string  `json:"category"`
	Score          float64 `json:"opportunity_score"`
	Reason         string  `json:"reason"`
	SourceName     string  `json:"source_name"`
	SourceASIN     string  `json:"source_asin"`
	SourcePrice    string  `json:"source_price"`
	SourceStars    float64 `json:"source_stars"`
	SourceReviews  int     `json:"source_reviews"`
	SourcePosition int     `json:"source_position"`
	SourceURL      string  `json:"source_url"`
	TargetName     string  `json:"target_name,omitempty"`
	TargetReviews  int     `json:"target_reviews,omitempty"`
	TargetURL      string  `json:"target_url,omitempty"`
	Similarity     float64 `json:"similarity_score"`
}

// FlattenOpportunities converts a comparison result into flat rows,
// walking categories alphabetically so export output is deterministic.
func FlattenOpportunities(opportunities map[string][]domain.Opportunity) []Row {
	categories := make([]string, 0, len(opportunities))
	for category := range opportunities {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var rows []Row
	for _, category := range categories {
		for _, opp := range opportunities[category] {
			row := Row{
				Category:       category,
				Score:          opp.Score,
				Reason:         opp.Reason,
				SourceName:     opp.Source.Name,
				SourceASIN:     opp.Source.ASIN,
				SourcePrice:    formatPrice(opp.Source.Price),
				SourceStars:    opp.Source.Stars,
				SourceReviews:  opp.Source.ReviewsCount,
				SourcePosition: opp.Source.Position,
				SourceURL:      opp.Source.URL,
				Similarity:     opp.Similarity,
			}
			if opp.Target != nil {
				row.TargetName = opp.Target.Name
				row.TargetReviews = opp.Target.ReviewsCount
				row.TargetURL = opp.Target.URL
			}
			rows = append(rows, row)
		}
	}
	return rows
}

// csvHeader is the column order for exported CSV files.
var csvHeader = []string{
	"category", "opportunity_score", "reason",
	"source_name", "source_asin", "source_price", "source_stars",
	"source_reviews", "source_position", "source_url",
	"target_name", "target_reviews", "target_url",
	"similarity_score",
}

// WriteCSV streams rows as CSV, header first.
func WriteCSV(w io.Writer, rows []Row) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return err
	}

	for _, row := range rows {
		record := []string{
			row.Category,
			strconv.FormatFloat(row.Score, 'f', 1, 64),
			row.Reason,
			row.SourceName,
			row.SourceASIN,
			row.SourcePrice,
			strconv.FormatFloat(row.SourceStars, 'f', 1, 64),
			strconv.Itoa(row.SourceReviews),
			strconv.Itoa(row.SourcePosition),
			row.SourceURL,
			row.TargetName,
			strconv.Itoa(row.TargetReviews),
			row.TargetURL,
			strconv.FormatFloat(row.Similarity, 'f', 2, 64),
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
