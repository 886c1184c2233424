package domain

import "time"

type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

type SentimentLabel string

const (
	SentimentPositive SentimentLabel = "positive"
	SentimentNegative SentimentLabel = "negative"
	SentimentNeutral  SentimentLabel = "neutral"
)

type Recommendation string

const (
	RecommendationBuy  Recommendation = "buy_signal"
	RecommendationSell Recommendation = "sell_signal"
	RecommendationHold Recommendation = "hold_signal"
)

// PriceQuote is a single spot price reported by one market-data provider.
type PriceQuote struct {
	Source     string    `json:"source"`
	Price      float64   `json:"price"`
	ObservedAt time.Time `json:"observed_at"`
}

// ConsensusPrice is the price agreed by the surviving providers after
// outlier rejection, together with the trend over the analysis window.
// ChangePercent is nil when no provider could supply a historical reference.
type ConsensusPrice struct {
	Price            float64  `json:"price"`
	ChangePercent    *float64 `json:"change_percent,omitempty"`
	Trend            Trend    `json:"trend"`
	SourcesUsed      int      `json:"sources_used"`
	SourcesAttempted int      `json:"sources_attempted"`
	Spread           Spread   `json:"spread"`
}

// Spread describes how far apart the accepted provider quotes were.
type Spread struct {
	High    float64 `json:"high"`
	Low     float64 `json:"low"`
	Average float64 `json:"average"`
	StdDev  float64 `json:"std_dev"`
}

// Article is one news item as delivered by the news collector.
type Article struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	URL         string    `json:"url,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// SentimentScore is the classification of one article's text.
// Confidence is the classifier's calibrated probability for the label.
type SentimentScore struct {
	Label      SentimentLabel `json:"label"`
	Confidence float64        `json:"confidence"`
}

// ScoredArticle pairs an article with its sentiment classification.
type ScoredArticle struct {
	Article Article        `json:"article"`
	Score   SentimentScore `json:"score"`
}

type AggregateSentiment struct {
	OverallLabel     SentimentLabel `json:"overall_label"`
	ConfidenceScore  float64        `json:"confidence_score"`
	ArticlesAnalyzed int            `json:"articles_analyzed"`
}

// AnalysisResult is the full outcome of one analysis run. It is immutable
// once built and is the unit stored in the cache and returned to callers.
type AnalysisResult struct {
	PeriodDays               int                `json:"period_days"`
	Consensus                ConsensusPrice     `json:"consensus_price"`
	Sentiment                AggregateSentiment `json:"aggregate_sentiment"`
	KeyArticles              []ScoredArticle    `json:"key_articles,omitempty"`
	Recommendation           Recommendation     `json:"recommendation"`
	RecommendationConfidence float64            `json:"recommendation_confidence"`
	GeneratedAt              time.Time          `json:"generated_at"`
}
