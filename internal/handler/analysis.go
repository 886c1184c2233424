package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"btc-barometer/internal/domain"
)

const defaultPeriodDays = 7

type analysisRequest struct {
	PeriodDays int `json:"period_days"`
}

// QuickAnalyze godoc
// @Summary      Run a quick Bitcoin analysis
// @Description  Runs the default 7-day analysis; override with the days query parameter
// @Tags         analysis
// @Produce      json
// @Param        days  query  int  false  "Lookback period in days (1-365)"
// @Success      200  {object}  domain.AnalysisResult
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /analyze [get]
func (h *Handler) QuickAnalyze(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.quick-analyze")
	defer span.End()

	days := defaultPeriodDays
	if raw := c.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "days must be an integer"})
			return
		}
		days = parsed
	}
	span.SetAttributes(attribute.Int("period.days", days))

	result, err := h.analysisService.Analyze(ctx, days)
	if err != nil {
		h.renderAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// RunAnalysis godoc
// @Summary      Run a Bitcoin analysis for a given period
// @Description  Runs price consensus, news sentiment, and the combined recommendation
// @Tags         analysis
// @Accept       json
// @Produce      json
// @Param        request  body  analysisRequest  true  "Analysis parameters"
// @Success      200  {object}  domain.AnalysisResult
// @Failure      400  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /api/analysis [post]
func (h *Handler) RunAnalysis(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.run-analysis")
	defer span.End()

	var req analysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.PeriodDays == 0 {
		req.PeriodDays = defaultPeriodDays
	}
	span.SetAttributes(attribute.Int("period.days", req.PeriodDays))

	result, err := h.analysisService.Analyze(ctx, req.PeriodDays)
	if err != nil {
		h.renderAnalysisError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetHistory godoc
// @Summary      List recent analyses
// @Description  Returns stored analysis summaries, newest first
// @Tags         analysis
// @Produce      json
// @Param        limit  query  int  false  "Maximum rows to return (default 20)"
// @Success      200  {object}  map[string]interface{}
// @Failure      503  {object}  map[string]string
// @Router       /api/analysis/history [get]
func (h *Handler) GetHistory(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-history")
	defer span.End()

	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis history is not configured"})
		return
	}

	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	entries, err := h.history.ListRecent(ctx, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": entries})
}

func (h *Handler) renderAnalysisError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidPeriod):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrAllSourcesUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
