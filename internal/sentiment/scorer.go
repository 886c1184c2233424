package sentiment

import (
	"context"
	"log"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"btc-barometer/internal/domain"
)

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]+>`)
	urlRe        = regexp.MustCompile(`https?://\S+`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// cleanText strips markup, links and collapsed whitespace before the text is
// handed to a classifier.
func cleanText(s string) string {
	s = htmlTagRe.ReplaceAllString(s, " ")
	s = urlRe.ReplaceAllString(s, " ")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Scorer fans articles out to a classifier with bounded concurrency. An
// article whose classification fails is dropped from the result set; the
// batch as a whole only fails if the caller's context does.
type Scorer struct {
	classifier    Classifier
	maxConcurrent int
	perCallLimit  time.Duration
	tracer        trace.Tracer
}

func NewScorer(classifier Classifier, maxConcurrent int, perCallLimit time.Duration, tracer trace.Tracer) *Scorer {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	if perCallLimit <= 0 {
		perCallLimit = 10 * time.Second
	}
	return &Scorer{
		classifier:    classifier,
		maxConcurrent: maxConcurrent,
		perCallLimit:  perCallLimit,
		tracer:        tracer,
	}
}

// ScoreBatch classifies every article and returns those that succeeded. The
// second return value is the number of articles attempted.
func (s *Scorer) ScoreBatch(ctx context.Context, articles []domain.Article) ([]domain.ScoredArticle, int) {
	ctx, span := s.tracer.Start(ctx, "sentiment.ScoreBatch")
	defer span.End()
	span.SetAttributes(attribute.Int("articles.count", len(articles)))

	if len(articles) == 0 {
		return nil, 0
	}

	sem := make(chan struct{}, s.maxConcurrent)
	results := make([]*domain.ScoredArticle, len(articles))

	var wg sync.WaitGroup
	for i, article := range articles {
		wg.Add(1)
		go func(i int, article domain.Article) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}

			text := cleanText(article.Title + ". " + article.Summary)
			callCtx, cancel := context.WithTimeout(ctx, s.perCallLimit)
			defer cancel()

			score, err := s.classifier.Classify(callCtx, text)
			if err != nil {
				log.Printf("sentiment: skipping article %q: %v", article.Title, err)
				return
			}
			results[i] = &domain.ScoredArticle{Article: article, Score: score}
		}(i, article)
	}
	wg.Wait()

	scored := make([]domain.ScoredArticle, 0, len(articles))
	for _, r := range results {
		if r != nil {
			scored = append(scored, *r)
		}
	}
	span.SetAttributes(attribute.Int("articles.scored", len(scored)))
	return scored, len(articles)
}
