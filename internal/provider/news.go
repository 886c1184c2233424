package provider

import (
	"context"
	"log"
	"regexp"
	"strings"

	"btc-barometer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// ArticleSource is one backend capable of listing recent articles. Returning
// an empty slice without an error is a valid outcome.
type ArticleSource interface {
	FetchRecentArticles(ctx context.Context, keywords []string, maxArticles, periodDays int) ([]domain.Article, error)
}

// NewsCollector tries its sources in order and returns the first successful
// result. A source that answers with zero articles still counts as success.
type NewsCollector struct {
	tracer  trace.Tracer
	sources []ArticleSource
}

func NewNewsCollector(tracer trace.Tracer, sources ...ArticleSource) *NewsCollector {
	return &NewsCollector{tracer: tracer, sources: sources}
}

func (c *NewsCollector) FetchRecentArticles(ctx context.Context, keywords []string, maxArticles, periodDays int) ([]domain.Article, error) {
	_, span := c.tracer.Start(ctx, "news-collector.fetch-articles")
	defer span.End()

	var lastErr error
	for _, source := range c.sources {
		articles, err := source.FetchRecentArticles(ctx, keywords, maxArticles, periodDays)
		if err != nil {
			log.Printf("news source unavailable, trying next: %v", err)
			lastErr = err
			continue
		}
		return articles, nil
	}
	return nil, lastErr
}

type keywordMatcher struct {
	re *regexp.Regexp
}

func newKeywordMatcher(keywords []string) keywordMatcher {
	if len(keywords) == 0 {
		return keywordMatcher{}
	}
	quoted := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		if kw = strings.TrimSpace(kw); kw != "" {
			quoted = append(quoted, regexp.QuoteMeta(kw))
		}
	}
	if len(quoted) == 0 {
		return keywordMatcher{}
	}
	return keywordMatcher{re: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`)}
}

// matches reports whether the text mentions any configured keyword. An empty
// keyword set matches everything.
func (m keywordMatcher) matches(text string) bool {
	if m.re == nil {
		return true
	}
	return m.re.MatchString(text)
}

func sanitizeText(v string, maxLen int) string {
	v = strings.Join(strings.Fields(v), " ")
	if maxLen > 0 && len(v) > maxLen {
		v = v[:maxLen]
	}
	return strings.TrimSpace(v)
}
