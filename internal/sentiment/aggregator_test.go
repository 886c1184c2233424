package sentiment

import (
	"math"
	"testing"

	"btc-barometer/internal/domain"
)

func scoredWith(scores ...domain.SentimentScore) []domain.ScoredArticle {
	out := make([]domain.ScoredArticle, len(scores))
	for i, s := range scores {
		out[i] = domain.ScoredArticle{Article: domain.Article{Title: "t"}, Score: s}
	}
	return out
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	agg := Aggregate(nil)
	if agg.OverallLabel != domain.SentimentNeutral {
		t.Errorf("expected neutral, got %s", agg.OverallLabel)
	}
	if agg.ConfidenceScore != 0 || agg.ArticlesAnalyzed != 0 {
		t.Errorf("expected zeroed aggregate, got %+v", agg)
	}
}

func TestAggregateWeightedVote(t *testing.T) {
	t.Parallel()

	// One strong positive outweighs two weak negatives.
	agg := Aggregate(scoredWith(
		domain.SentimentScore{Label: domain.SentimentPositive, Confidence: 0.9},
		domain.SentimentScore{Label: domain.SentimentNegative, Confidence: 0.4},
		domain.SentimentScore{Label: domain.SentimentNegative, Confidence: 0.4},
	))
	if agg.OverallLabel != domain.SentimentPositive {
		t.Fatalf("expected positive, got %s", agg.OverallLabel)
	}
	// mean agreeing confidence 0.9, agreeing fraction 1/3
	want := 0.9 * (1.0 / 3.0)
	if math.Abs(agg.ConfidenceScore-want) > 1e-9 {
		t.Errorf("confidence = %f, want %f", agg.ConfidenceScore, want)
	}
	if agg.ArticlesAnalyzed != 3 {
		t.Errorf("articles analyzed = %d, want 3", agg.ArticlesAnalyzed)
	}
}

func TestAggregateTieIsNeutral(t *testing.T) {
	t.Parallel()

	agg := Aggregate(scoredWith(
		domain.SentimentScore{Label: domain.SentimentPositive, Confidence: 0.7},
		domain.SentimentScore{Label: domain.SentimentNegative, Confidence: 0.7},
	))
	if agg.OverallLabel != domain.SentimentNeutral {
		t.Errorf("expected tie to resolve neutral, got %s", agg.OverallLabel)
	}
	if agg.ConfidenceScore != 0 {
		t.Errorf("expected zero confidence on tie without neutral votes, got %f", agg.ConfidenceScore)
	}
}

func TestAggregateUnanimous(t *testing.T) {
	t.Parallel()

	agg := Aggregate(scoredWith(
		domain.SentimentScore{Label: domain.SentimentNegative, Confidence: 0.8},
		domain.SentimentScore{Label: domain.SentimentNegative, Confidence: 0.6},
	))
	if agg.OverallLabel != domain.SentimentNegative {
		t.Fatalf("expected negative, got %s", agg.OverallLabel)
	}
	if math.Abs(agg.ConfidenceScore-0.7) > 1e-9 {
		t.Errorf("confidence = %f, want 0.7", agg.ConfidenceScore)
	}
}
