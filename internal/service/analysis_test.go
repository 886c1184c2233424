package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"

	"btc-barometer/internal/cache"
	"btc-barometer/internal/decision"
	"btc-barometer/internal/domain"
)

type fakeEngine struct {
	consensus *domain.ConsensusPrice
	err       error
	calls     int
	mu        sync.Mutex
}

func (f *fakeEngine) Compute(_ context.Context, _ int) (*domain.ConsensusPrice, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return f.consensus, nil
}

type fakeNews struct {
	articles []domain.Article
	err      error
}

func (f *fakeNews) FetchRecentArticles(_ context.Context, _ []string, _, _ int) ([]domain.Article, error) {
	return f.articles, f.err
}

type fakeScorer struct {
	scored []domain.ScoredArticle
}

func (f *fakeScorer) ScoreBatch(_ context.Context, articles []domain.Article) ([]domain.ScoredArticle, int) {
	return f.scored, len(articles)
}

type fakeHistory struct {
	mu       sync.Mutex
	inserted []*domain.AnalysisResult
}

func (f *fakeHistory) InsertResult(_ context.Context, r *domain.AnalysisResult) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserted = append(f.inserted, r)
	return nil
}

func pctPtr(v float64) *float64 { return &v }

func bullishConsensus() *domain.ConsensusPrice {
	return &domain.ConsensusPrice{
		Price:            64000,
		ChangePercent:    pctPtr(4.2),
		Trend:            domain.TrendBullish,
		SourcesUsed:      3,
		SourcesAttempted: 3,
	}
}

func positiveScored(n int) []domain.ScoredArticle {
	out := make([]domain.ScoredArticle, n)
	for i := range out {
		out[i] = domain.ScoredArticle{
			Article: domain.Article{Title: "up", PublishedAt: time.Now()},
			Score:   domain.SentimentScore{Label: domain.SentimentPositive, Confidence: 0.8},
		}
	}
	return out
}

func newTestService(engine *fakeEngine, news *fakeNews, scorer *fakeScorer, history *fakeHistory) *AnalysisService {
	var sink HistorySink
	if history != nil {
		sink = history
	}
	return NewAnalysisService(
		engine, news, scorer,
		cache.NewMemoryAnalysisCache(10*time.Minute),
		sink,
		Options{
			Keywords:        []string{"bitcoin"},
			MaxArticles:     50,
			MinPriceSources: 1,
			Decision:        decision.DefaultConfig(),
		},
		trace.NewNoopTracerProvider().Tracer("test"),
	)
}

func TestAnalyzeHappyPath(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{consensus: bullishConsensus()}
	news := &fakeNews{articles: []domain.Article{{Title: "a"}, {Title: "b"}}}
	scorer := &fakeScorer{scored: positiveScored(2)}
	history := &fakeHistory{}

	svc := newTestService(engine, news, scorer, history)
	result, err := svc.Analyze(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Recommendation != domain.RecommendationBuy {
		t.Errorf("expected buy, got %s", result.Recommendation)
	}
	if result.Sentiment.OverallLabel != domain.SentimentPositive {
		t.Errorf("expected positive sentiment, got %s", result.Sentiment.OverallLabel)
	}
	if result.PeriodDays != 7 {
		t.Errorf("expected period 7, got %d", result.PeriodDays)
	}
	if len(result.KeyArticles) != 2 {
		t.Errorf("expected 2 key articles, got %d", len(result.KeyArticles))
	}
	if len(history.inserted) != 1 {
		t.Errorf("expected 1 history insert, got %d", len(history.inserted))
	}
}

func TestAnalyzeInvalidPeriod(t *testing.T) {
	t.Parallel()

	svc := newTestService(&fakeEngine{consensus: bullishConsensus()}, &fakeNews{}, &fakeScorer{}, nil)

	for _, days := range []int{0, -1, 366} {
		if _, err := svc.Analyze(context.Background(), days); !errors.Is(err, domain.ErrInvalidPeriod) {
			t.Errorf("days=%d: expected ErrInvalidPeriod, got %v", days, err)
		}
	}
}

func TestAnalyzePriceFailureIsFatal(t *testing.T) {
	t.Parallel()

	resultCache := cache.NewMemoryAnalysisCache(10 * time.Minute)
	engine := &fakeEngine{err: domain.ErrAllSourcesUnavailable}
	svc := NewAnalysisService(
		engine, &fakeNews{}, &fakeScorer{}, resultCache, nil,
		Options{
			Keywords:        []string{"bitcoin"},
			MaxArticles:     50,
			MinPriceSources: 1,
			Decision:        decision.DefaultConfig(),
		},
		trace.NewNoopTracerProvider().Tracer("test"),
	)

	if _, err := svc.Analyze(context.Background(), 7); !errors.Is(err, domain.ErrAllSourcesUnavailable) {
		t.Fatalf("expected ErrAllSourcesUnavailable, got %v", err)
	}

	cached, err := resultCache.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("cache get failed: %v", err)
	}
	if cached != nil {
		t.Error("failed analysis must not be cached")
	}
}

func TestAnalyzeBelowMinSources(t *testing.T) {
	t.Parallel()

	consensus := bullishConsensus()
	consensus.SourcesUsed = 1
	engine := &fakeEngine{consensus: consensus}

	svc := newTestService(engine, &fakeNews{}, &fakeScorer{}, nil)
	svc.opts.MinPriceSources = 2

	if _, err := svc.Analyze(context.Background(), 7); !errors.Is(err, domain.ErrAllSourcesUnavailable) {
		t.Fatalf("expected ErrAllSourcesUnavailable, got %v", err)
	}
}

func TestAnalyzeNewsFailureDegrades(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{consensus: bullishConsensus()}
	news := &fakeNews{err: errors.New("all feeds down")}

	svc := newTestService(engine, news, &fakeScorer{}, nil)
	result, err := svc.Analyze(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected degraded success, got %v", err)
	}

	if result.Sentiment.OverallLabel != domain.SentimentNeutral {
		t.Errorf("expected neutral sentiment, got %s", result.Sentiment.OverallLabel)
	}
	if result.Sentiment.ArticlesAnalyzed != 0 {
		t.Errorf("expected 0 articles analyzed, got %d", result.Sentiment.ArticlesAnalyzed)
	}
	if result.Recommendation != domain.RecommendationHold {
		t.Errorf("expected hold without sentiment, got %s", result.Recommendation)
	}
}

func TestAnalyzeUsesCache(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{consensus: bullishConsensus()}
	svc := newTestService(engine, &fakeNews{}, &fakeScorer{scored: positiveScored(1)}, nil)

	if _, err := svc.Analyze(context.Background(), 7); err != nil {
		t.Fatalf("first call failed: %v", err)
	}
	if _, err := svc.Analyze(context.Background(), 7); err != nil {
		t.Fatalf("second call failed: %v", err)
	}

	if engine.calls != 1 {
		t.Errorf("expected 1 engine call after cache hit, got %d", engine.calls)
	}
}

func TestAnalyzeKeyArticlesCapped(t *testing.T) {
	t.Parallel()

	engine := &fakeEngine{consensus: bullishConsensus()}
	scorer := &fakeScorer{scored: positiveScored(9)}

	svc := newTestService(engine, &fakeNews{articles: make([]domain.Article, 9)}, scorer, nil)
	result, err := svc.Analyze(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.KeyArticles) != maxKeyArticles {
		t.Errorf("expected %d key articles, got %d", maxKeyArticles, len(result.KeyArticles))
	}
}
