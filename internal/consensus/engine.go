package consensus

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"time"

	"btc-barometer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// QuoteProvider is the capability every price source must offer.
type QuoteProvider interface {
	Name() string
	FetchQuote(ctx context.Context) (*domain.PriceQuote, error)
}

// HistoricalProvider is the optional capability of supplying a reference
// price from the start of the analysis window.
type HistoricalProvider interface {
	FetchHistorical(ctx context.Context, periodDays int) (*domain.PriceQuote, error)
}

type Config struct {
	Timeout             time.Duration
	OutlierThresholdPct float64
	BullishThresholdPct float64
	BearishThresholdPct float64
}

// Engine computes one consensus price point from all registered providers.
type Engine struct {
	tracer    trace.Tracer
	providers []QuoteProvider
	cfg       Config
}

func NewEngine(tracer trace.Tracer, providers []QuoteProvider, cfg Config) *Engine {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.OutlierThresholdPct <= 0 {
		cfg.OutlierThresholdPct = 5.0
	}
	if cfg.BullishThresholdPct == 0 {
		cfg.BullishThresholdPct = 1.0
	}
	if cfg.BearishThresholdPct == 0 {
		cfg.BearishThresholdPct = -1.0
	}
	return &Engine{tracer: tracer, providers: providers, cfg: cfg}
}

type fetchOutcome struct {
	source    string
	quote     *domain.PriceQuote
	reference *domain.PriceQuote
	err       error
}

// Compute queries all providers concurrently, rejects failures and outliers,
// and returns the consensus price with its trend over periodDays. A provider
// that times out or reports a non-positive price is a failed source. Zero
// surviving sources is a hard failure.
func (e *Engine) Compute(ctx context.Context, periodDays int) (*domain.ConsensusPrice, error) {
	_, span := e.tracer.Start(ctx, "consensus.compute")
	defer span.End()

	if len(e.providers) == 0 {
		return nil, domain.ErrAllSourcesUnavailable
	}

	outcomes := make(chan fetchOutcome, len(e.providers))
	for _, p := range e.providers {
		go func(p QuoteProvider) {
			fetchCtx, cancel := context.WithTimeout(ctx, e.cfg.Timeout)
			defer cancel()

			quote, err := p.FetchQuote(fetchCtx)
			if err != nil {
				outcomes <- fetchOutcome{source: p.Name(), err: err}
				return
			}
			out := fetchOutcome{source: p.Name(), quote: quote}
			if hp, ok := p.(HistoricalProvider); ok {
				if ref, err := hp.FetchHistorical(fetchCtx, periodDays); err != nil {
					log.Printf("historical lookup failed for %s: %v", p.Name(), err)
				} else {
					out.reference = ref
				}
			}
			outcomes <- out
		}(p)
	}

	var quotes []*domain.PriceQuote
	referencesBySource := make(map[string]*domain.PriceQuote)
	for range e.providers {
		out := <-outcomes
		if out.err != nil {
			log.Printf("price source %s failed: %v", out.source, out.err)
			continue
		}
		if out.quote == nil || out.quote.Price <= 0 {
			log.Printf("price source %s returned invalid quote", out.source)
			continue
		}
		quotes = append(quotes, out.quote)
		if out.reference != nil && out.reference.Price > 0 {
			referencesBySource[out.quote.Source] = out.reference
		}
	}

	attempted := len(e.providers)
	if len(quotes) == 0 {
		return nil, fmt.Errorf("%w: %d providers attempted", domain.ErrAllSourcesUnavailable, attempted)
	}

	accepted := rejectOutliers(quotes, e.cfg.OutlierThresholdPct)
	consensus := &domain.ConsensusPrice{
		Price:            mean(prices(accepted)),
		Trend:            domain.TrendNeutral,
		SourcesUsed:      len(accepted),
		SourcesAttempted: attempted,
		Spread:           spreadOf(prices(accepted)),
	}

	// A source whose spot quote was rejected does not get a say in the
	// reference mean either.
	var references []*domain.PriceQuote
	for _, q := range accepted {
		if ref, ok := referencesBySource[q.Source]; ok {
			references = append(references, ref)
		}
	}

	if len(references) > 0 {
		ref := mean(prices(references))
		change := (consensus.Price - ref) / ref * 100
		consensus.ChangePercent = &change
		consensus.Trend = e.classifyTrend(change)
	}

	return consensus, nil
}

func (e *Engine) classifyTrend(changePct float64) domain.Trend {
	switch {
	case changePct >= e.cfg.BullishThresholdPct:
		return domain.TrendBullish
	case changePct <= e.cfg.BearishThresholdPct:
		return domain.TrendBearish
	default:
		return domain.TrendNeutral
	}
}

// rejectOutliers drops quotes deviating from the provisional median by more
// than thresholdPct percent. At least one quote always survives; if the
// filter would discard everything the original set is returned unchanged.
func rejectOutliers(quotes []*domain.PriceQuote, thresholdPct float64) []*domain.PriceQuote {
	if len(quotes) < 3 {
		return quotes
	}

	med := median(prices(quotes))
	if med <= 0 {
		return quotes
	}

	kept := make([]*domain.PriceQuote, 0, len(quotes))
	for _, q := range quotes {
		deviation := math.Abs(q.Price-med) / med * 100
		if deviation > thresholdPct {
			log.Printf("discarding outlier quote from %s: %.2f (%.2f%% off median %.2f)",
				q.Source, q.Price, deviation, med)
			continue
		}
		kept = append(kept, q)
	}
	if len(kept) == 0 {
		return quotes
	}
	return kept
}

func prices(quotes []*domain.PriceQuote) []float64 {
	out := make([]float64, len(quotes))
	for i, q := range quotes {
		out[i] = q.Price
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func spreadOf(values []float64) domain.Spread {
	if len(values) == 0 {
		return domain.Spread{}
	}
	s := domain.Spread{High: values[0], Low: values[0], Average: mean(values)}
	for _, v := range values {
		s.High = math.Max(s.High, v)
		s.Low = math.Min(s.Low, v)
	}
	variance := 0.0
	for _, v := range values {
		variance += (v - s.Average) * (v - s.Average)
	}
	s.StdDev = math.Sqrt(variance / float64(len(values)))
	return s
}
