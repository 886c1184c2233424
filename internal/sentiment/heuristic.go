package sentiment

import (
	"context"
	"strings"

	"btc-barometer/internal/domain"
)

var bullishWords = []string{
	"surge", "rally", "gain", "bullish", "soar", "breakout", "adoption",
	"record", "high", "approval", "institutional", "buy", "accumulate",
	"upgrade", "growth", "milestone", "optimism",
}

var bearishWords = []string{
	"crash", "plunge", "drop", "bearish", "sell-off", "selloff", "decline",
	"ban", "hack", "fraud", "lawsuit", "fear", "liquidation", "dump",
	"collapse", "warning", "regulation crackdown", "downgrade",
}

// HeuristicClassifier is the classifier of last resort when no hosted model
// is configured. It counts keyword hits and sizes confidence by the margin
// between the two tallies.
type HeuristicClassifier struct{}

func NewHeuristicClassifier() *HeuristicClassifier { return &HeuristicClassifier{} }

func (h *HeuristicClassifier) Classify(_ context.Context, text string) (domain.SentimentScore, error) {
	lower := strings.ToLower(text)

	var pos, neg int
	for _, w := range bullishWords {
		pos += strings.Count(lower, w)
	}
	for _, w := range bearishWords {
		neg += strings.Count(lower, w)
	}

	total := pos + neg
	if total == 0 {
		return domain.SentimentScore{Label: domain.SentimentNeutral, Confidence: 0.5}, nil
	}

	margin := float64(absInt(pos-neg)) / float64(total)
	// Keyword counting is crude; never claim more than 0.9 confidence.
	confidence := clamp01(0.5 + 0.4*margin)

	switch {
	case pos > neg:
		return domain.SentimentScore{Label: domain.SentimentPositive, Confidence: confidence}, nil
	case neg > pos:
		return domain.SentimentScore{Label: domain.SentimentNegative, Confidence: confidence}, nil
	default:
		return domain.SentimentScore{Label: domain.SentimentNeutral, Confidence: 0.5}, nil
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
