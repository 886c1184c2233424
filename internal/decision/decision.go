// Package decision maps a price trend and an aggregate news sentiment onto a
// trading recommendation. It is pure: no I/O, no clocks, no randomness.
package decision

import (
	"math"

	"btc-barometer/internal/domain"
)

// Config sets the blend between the two signals. Weights should sum to 1.
type Config struct {
	TrendWeight     float64
	SentimentWeight float64
	// TrendNormPct is the absolute price change, in percent, at which the
	// trend signal is considered maximally strong.
	TrendNormPct float64
}

// DefaultConfig favors price action over headlines.
func DefaultConfig() Config {
	return Config{TrendWeight: 0.6, SentimentWeight: 0.4, TrendNormPct: 10.0}
}

// Decide produces a recommendation from the consensus trend and the overall
// sentiment. A buy requires both signals up, a sell both signals down;
// anything mixed or flat holds.
func Decide(consensus domain.ConsensusPrice, sentiment domain.AggregateSentiment, cfg Config) (domain.Recommendation, float64) {
	var rec domain.Recommendation
	switch {
	case consensus.Trend == domain.TrendBullish && sentiment.OverallLabel == domain.SentimentPositive:
		rec = domain.RecommendationBuy
	case consensus.Trend == domain.TrendBearish && sentiment.OverallLabel == domain.SentimentNegative:
		rec = domain.RecommendationSell
	default:
		rec = domain.RecommendationHold
	}

	confidence := cfg.TrendWeight*trendStrength(consensus, cfg.TrendNormPct) +
		cfg.SentimentWeight*sentiment.ConfidenceScore
	return rec, clamp(confidence, 0, 1)
}

// trendStrength scales the magnitude of the price change onto [0,1]. An
// unknown change (no historical reference) contributes nothing.
func trendStrength(consensus domain.ConsensusPrice, normPct float64) float64 {
	if consensus.ChangePercent == nil || normPct <= 0 {
		return 0
	}
	return clamp(math.Abs(*consensus.ChangePercent)/normPct, 0, 1)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
