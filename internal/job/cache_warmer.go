package job

import (
	"context"
	"log"
	"time"

	"go.opentelemetry.io/otel/trace"

	"btc-barometer/internal/domain"
)

type AnalysisRunner interface {
	Analyze(ctx context.Context, periodDays int) (*domain.AnalysisResult, error)
}

// CacheWarmer keeps the default-period analysis warm so interactive requests
// mostly hit the cache.
type CacheWarmer struct {
	tracer       trace.Tracer
	runner       AnalysisRunner
	periodDays   int
	pollInterval time.Duration
}

func NewCacheWarmer(tracer trace.Tracer, runner AnalysisRunner, periodDays int, pollInterval time.Duration) *CacheWarmer {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Minute
	}
	if periodDays <= 0 {
		periodDays = 7
	}
	return &CacheWarmer{
		tracer:       tracer,
		runner:       runner,
		periodDays:   periodDays,
		pollInterval: pollInterval,
	}
}

// Start blocks until ctx is cancelled.
func (w *CacheWarmer) Start(ctx context.Context) {
	if w.runner == nil {
		log.Println("Cache warmer disabled: no runner")
		<-ctx.Done()
		return
	}

	w.runOnce(ctx)
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Cache warmer stopped")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *CacheWarmer) runOnce(ctx context.Context) {
	ctx, span := w.tracer.Start(ctx, "cache-warmer.run-once")
	defer span.End()

	result, err := w.runner.Analyze(ctx, w.periodDays)
	if err != nil {
		log.Printf("Cache warm cycle error: %v", err)
		return
	}
	log.Printf("Cache warm cycle complete period=%dd recommendation=%s confidence=%.2f",
		result.PeriodDays, result.Recommendation, result.RecommendationConfidence)
}
