package handler

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"btc-barometer/internal/repository"
	"btc-barometer/internal/service"
)

type Handler struct {
	tracer          trace.Tracer
	analysisService *service.AnalysisService
	history         *repository.AnalysisRepository
	apiKey          string
}

func New(tracer trace.Tracer, analysisService *service.AnalysisService, history *repository.AnalysisRepository, apiKey string) *Handler {
	return &Handler{
		tracer:          tracer,
		analysisService: analysisService,
		history:         history,
		apiKey:          apiKey,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/status", h.Status)
	r.GET("/analyze", h.QuickAnalyze)

	api := r.Group("/api", APIKeyAuth(h.apiKey))
	api.POST("/analysis", h.RunAnalysis)
	api.GET("/analysis/history", h.GetHistory)
}
