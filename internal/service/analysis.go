package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"btc-barometer/internal/cache"
	"btc-barometer/internal/decision"
	"btc-barometer/internal/domain"
	"btc-barometer/internal/sentiment"
)

const maxKeyArticles = 5

// ConsensusEngine produces the cross-source price view for a period.
type ConsensusEngine interface {
	Compute(ctx context.Context, periodDays int) (*domain.ConsensusPrice, error)
}

// NewsSource collects recent articles matching the configured keywords.
type NewsSource interface {
	FetchRecentArticles(ctx context.Context, keywords []string, maxArticles, periodDays int) ([]domain.Article, error)
}

// ArticleScorer classifies a batch of articles.
type ArticleScorer interface {
	ScoreBatch(ctx context.Context, articles []domain.Article) ([]domain.ScoredArticle, int)
}

// HistorySink records finished analyses. It is optional.
type HistorySink interface {
	InsertResult(ctx context.Context, result *domain.AnalysisResult) error
}

// Options carries the tunables the orchestrator needs.
type Options struct {
	Keywords        []string
	MaxArticles     int
	MinPriceSources int
	Decision        decision.Config
}

// AnalysisService runs the full pipeline: price consensus and news sentiment
// in parallel, then the recommendation. Identical concurrent requests share
// one in-flight computation; completed ones are cached by time bucket.
type AnalysisService struct {
	engine  ConsensusEngine
	news    NewsSource
	scorer  ArticleScorer
	cache   cache.AnalysisCache
	history HistorySink
	opts    Options
	tracer  trace.Tracer
	group   singleflight.Group
	now     func() time.Time
}

func NewAnalysisService(
	engine ConsensusEngine,
	news NewsSource,
	scorer ArticleScorer,
	resultCache cache.AnalysisCache,
	history HistorySink,
	opts Options,
	tracer trace.Tracer,
) *AnalysisService {
	if opts.MaxArticles <= 0 {
		opts.MaxArticles = 50
	}
	if opts.MinPriceSources <= 0 {
		opts.MinPriceSources = 1
	}
	return &AnalysisService{
		engine:  engine,
		news:    news,
		scorer:  scorer,
		cache:   resultCache,
		history: history,
		opts:    opts,
		tracer:  tracer,
		now:     time.Now,
	}
}

// Analyze runs or reuses an analysis for the given lookback period.
func (s *AnalysisService) Analyze(ctx context.Context, periodDays int) (*domain.AnalysisResult, error) {
	ctx, span := s.tracer.Start(ctx, "analysis.Analyze")
	defer span.End()
	span.SetAttributes(attribute.Int("period.days", periodDays))

	if periodDays < 1 || periodDays > 365 {
		return nil, fmt.Errorf("%w: %d", domain.ErrInvalidPeriod, periodDays)
	}

	if cached, err := s.cache.Get(ctx, periodDays); err != nil {
		log.Printf("analysis: cache read failed: %v", err)
	} else if cached != nil {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}

	result, err, _ := s.group.Do(fmt.Sprintf("analyze:%d", periodDays), func() (any, error) {
		return s.run(ctx, periodDays)
	})
	if err != nil {
		return nil, err
	}
	return result.(*domain.AnalysisResult), nil
}

func (s *AnalysisService) run(ctx context.Context, periodDays int) (*domain.AnalysisResult, error) {
	var (
		consensus *domain.ConsensusPrice
		scored    []domain.ScoredArticle
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		c, err := s.engine.Compute(gctx, periodDays)
		if err != nil {
			return err
		}
		if c.SourcesUsed < s.opts.MinPriceSources {
			return fmt.Errorf("%w: %d of %d sources responded, need %d",
				domain.ErrAllSourcesUnavailable, c.SourcesUsed, c.SourcesAttempted, s.opts.MinPriceSources)
		}
		consensus = c
		return nil
	})

	// News and sentiment degrade instead of failing the analysis.
	g.Go(func() error {
		articles, err := s.news.FetchRecentArticles(gctx, s.opts.Keywords, s.opts.MaxArticles, periodDays)
		if err != nil {
			log.Printf("analysis: news collection failed, continuing without sentiment: %v", err)
			return nil
		}
		scored, _ = s.scorer.ScoreBatch(gctx, articles)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	agg := sentiment.Aggregate(scored)
	rec, confidence := decision.Decide(*consensus, agg, s.opts.Decision)

	result := &domain.AnalysisResult{
		PeriodDays:               periodDays,
		Consensus:                *consensus,
		Sentiment:                agg,
		KeyArticles:              keyArticles(scored),
		Recommendation:           rec,
		RecommendationConfidence: confidence,
		GeneratedAt:              s.now().UTC(),
	}

	if err := s.cache.Put(ctx, periodDays, result); err != nil {
		log.Printf("analysis: cache write failed: %v", err)
	}
	if s.history != nil {
		if err := s.history.InsertResult(ctx, result); err != nil {
			log.Printf("analysis: history insert failed: %v", err)
		}
	}
	return result, nil
}

// keyArticles picks the highest-confidence scored articles, most confident
// first.
func keyArticles(scored []domain.ScoredArticle) []domain.ScoredArticle {
	out := make([]domain.ScoredArticle, len(scored))
	copy(out, scored)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score.Confidence > out[j].Score.Confidence
	})
	if len(out) > maxKeyArticles {
		out = out[:maxKeyArticles]
	}
	return out
}
