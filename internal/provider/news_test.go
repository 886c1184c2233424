package provider

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/trace"

	"btc-barometer/internal/domain"
)

type fakeSource struct {
	articles []domain.Article
	err      error
	calls    int
}

func (f *fakeSource) FetchRecentArticles(_ context.Context, _ []string, _, _ int) ([]domain.Article, error) {
	f.calls++
	return f.articles, f.err
}

func TestCollectorFirstSourceWins(t *testing.T) {
	t.Parallel()

	first := &fakeSource{articles: []domain.Article{{Title: "from first"}}}
	second := &fakeSource{articles: []domain.Article{{Title: "from second"}}}

	c := NewNewsCollector(trace.NewNoopTracerProvider().Tracer("test"), first, second)
	articles, err := c.FetchRecentArticles(context.Background(), nil, 10, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "from first" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
	if second.calls != 0 {
		t.Error("second source should not be consulted")
	}
}

func TestCollectorFallsBackOnError(t *testing.T) {
	t.Parallel()

	first := &fakeSource{err: errors.New("api down")}
	second := &fakeSource{articles: []domain.Article{{Title: "fallback"}}}

	c := NewNewsCollector(trace.NewNoopTracerProvider().Tracer("test"), first, second)
	articles, err := c.FetchRecentArticles(context.Background(), nil, 10, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 1 || articles[0].Title != "fallback" {
		t.Fatalf("unexpected articles: %+v", articles)
	}
}

func TestCollectorEmptyResultIsSuccess(t *testing.T) {
	t.Parallel()

	first := &fakeSource{articles: []domain.Article{}}
	second := &fakeSource{articles: []domain.Article{{Title: "never"}}}

	c := NewNewsCollector(trace.NewNoopTracerProvider().Tracer("test"), first, second)
	articles, err := c.FetchRecentArticles(context.Background(), nil, 10, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(articles) != 0 {
		t.Fatalf("expected empty result, got %+v", articles)
	}
	if second.calls != 0 {
		t.Error("empty result must not trigger fallback")
	}
}

func TestCollectorAllSourcesFail(t *testing.T) {
	t.Parallel()

	errLast := errors.New("feeds unreachable")
	c := NewNewsCollector(trace.NewNoopTracerProvider().Tracer("test"),
		&fakeSource{err: errors.New("api down")},
		&fakeSource{err: errLast},
	)

	if _, err := c.FetchRecentArticles(context.Background(), nil, 10, 7); !errors.Is(err, errLast) {
		t.Fatalf("expected last error, got %v", err)
	}
}

func TestKeywordMatcher(t *testing.T) {
	t.Parallel()

	m := newKeywordMatcher([]string{"bitcoin", "btc"})

	if !m.matches("Bitcoin hits new high") {
		t.Error("expected case-insensitive match")
	}
	if !m.matches("BTC/USD consolidates") {
		t.Error("expected match on symbol")
	}
	if m.matches("Ethereum upgrade ships") {
		t.Error("unexpected match without keywords")
	}
	if m.matches("bitcoiners debate the halving") {
		t.Error("keyword must not match inside a longer word")
	}

	empty := newKeywordMatcher(nil)
	if !empty.matches("anything at all") {
		t.Error("empty matcher must match everything")
	}
}

func TestSanitizeText(t *testing.T) {
	t.Parallel()

	if got := sanitizeText("  spaced \n\t out  ", 0); got != "spaced out" {
		t.Errorf("got %q", got)
	}
	if got := sanitizeText("abcdefgh", 4); got != "abcd" {
		t.Errorf("got %q", got)
	}
}
