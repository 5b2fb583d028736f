package http

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/marketgap/backend/internal/domain"
	"github.com/marketgap/backend/internal/metrics"
	"github.com/marketgap/backend/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	analysis   *usecase.AnalysisService
	comparator *usecase.Comparator
	snapshots  domain.SnapshotStore
}

// NewHandler creates a new HTTP handler
func NewHandler(analysis *usecase.AnalysisService, comparator *usecase.Comparator, snapshots domain.SnapshotStore) *Handler {
	return &Handler{
		analysis:   analysis,
		comparator: comparator,
		snapshots:  snapshots,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "marketgap-backend",
		"version": "1.0.0",
	})
}

// compareRequest carries inline market data for a synchronous comparison.
type compareRequest struct {
	Source     map[string][]domain.Product `json:"source" binding:"required"`
	Target     map[string][]domain.Product `json:"target" binding:"required"`
	Mode       domain.CompareMode          `json:"mode"`
	MinReviews int                         `json:"min_reviews"`
	Threshold  float64                     `json:"similarity_threshold"`
}

// Compare runs the comparison engine over market data supplied in the
// request body, without any scraping or caching.
func (h *Handler) Compare(c *gin.Context) {
	var req compareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}
	if req.Mode == "" {
		req.Mode = domain.ModeStandard
	}

	start := time.Now()
	opportunities := h.comparator.CompareMarkets(c.Request.Context(), req.Source, req.Target, usecase.CompareOptions{
		Mode:                req.Mode,
		MinReviews:          req.MinReviews,
		SimilarityThreshold: req.Threshold,
	})

	total := 0
	for _, opps := range opportunities {
		total += len(opps)
	}
	metrics.ObserveComparison(string(req.Mode), start, total)

	c.JSON(http.StatusOK, gin.H{
		"mode":          req.Mode,
		"opportunities": opportunities,
		"total":         total,
	})
}

// RunAnalysis executes a full scrape-compare-snapshot pipeline run.
func (h *Handler) RunAnalysis(c *gin.Context) {
	var req domain.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body: " + err.Error(),
		})
		return
	}

	start := time.Now()
	result, err := h.analysis.Run(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrSnapshotNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		}
		return
	}

	if !result.FromCache {
		metrics.ObserveComparison(string(result.Mode), start, result.TotalOpportunities())
	}
	c.JSON(http.StatusOK, result)
}

// ExportCSV streams a snapshotted analysis run as a CSV download.
func (h *Handler) ExportCSV(c *gin.Context) {
	runID := c.Query("run_id")
	if runID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "run_id query parameter is required",
		})
		return
	}

	opportunities, err := h.snapshots.LoadOpportunities(runID)
	if err != nil {
		if errors.Is(err, domain.ErrSnapshotNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	var buf bytes.Buffer
	rows := usecase.FlattenOpportunities(opportunities)
	if err := usecase.WriteCSV(&buf, rows); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("opportunities_%s.csv", runID)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
