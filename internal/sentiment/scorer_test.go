package sentiment

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"

	"btc-barometer/internal/domain"
)

type fakeClassifier struct {
	fn func(ctx context.Context, text string) (domain.SentimentScore, error)
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (domain.SentimentScore, error) {
	return f.fn(ctx, text)
}

func articles(titles ...string) []domain.Article {
	out := make([]domain.Article, len(titles))
	for i, t := range titles {
		out[i] = domain.Article{Title: t, Summary: "summary", PublishedAt: time.Now()}
	}
	return out
}

func TestScoreBatchAll(t *testing.T) {
	t.Parallel()

	c := &fakeClassifier{fn: func(_ context.Context, _ string) (domain.SentimentScore, error) {
		return domain.SentimentScore{Label: domain.SentimentPositive, Confidence: 0.8}, nil
	}}
	s := NewScorer(c, 4, time.Second, trace.NewNoopTracerProvider().Tracer("test"))

	scored, attempted := s.ScoreBatch(context.Background(), articles("a", "b", "c"))
	if attempted != 3 {
		t.Errorf("expected 3 attempted, got %d", attempted)
	}
	if len(scored) != 3 {
		t.Fatalf("expected 3 scored, got %d", len(scored))
	}
}

func TestScoreBatchSkipsFailures(t *testing.T) {
	t.Parallel()

	c := &fakeClassifier{fn: func(_ context.Context, text string) (domain.SentimentScore, error) {
		if strings.Contains(text, "bad") {
			return domain.SentimentScore{}, errors.New("model error")
		}
		return domain.SentimentScore{Label: domain.SentimentNeutral, Confidence: 0.6}, nil
	}}
	s := NewScorer(c, 2, time.Second, trace.NewNoopTracerProvider().Tracer("test"))

	scored, attempted := s.ScoreBatch(context.Background(), articles("good one", "bad one", "another good"))
	if attempted != 3 {
		t.Errorf("expected 3 attempted, got %d", attempted)
	}
	if len(scored) != 2 {
		t.Fatalf("expected 2 scored, got %d", len(scored))
	}
	for _, sc := range scored {
		if strings.Contains(sc.Article.Title, "bad") {
			t.Errorf("failed article leaked into results: %q", sc.Article.Title)
		}
	}
}

func TestScoreBatchEmpty(t *testing.T) {
	t.Parallel()

	s := NewScorer(&fakeClassifier{fn: func(_ context.Context, _ string) (domain.SentimentScore, error) {
		t.Error("classifier should not be called")
		return domain.SentimentScore{}, nil
	}}, 2, time.Second, trace.NewNoopTracerProvider().Tracer("test"))

	scored, attempted := s.ScoreBatch(context.Background(), nil)
	if scored != nil || attempted != 0 {
		t.Errorf("expected empty result, got %d scored %d attempted", len(scored), attempted)
	}
}

func TestCleanText(t *testing.T) {
	t.Parallel()

	in := `<p>Bitcoin   rallies</p> read more at https://example.com/article  today`
	want := "Bitcoin rallies read more at today"
	if got := cleanText(in); got != want {
		t.Errorf("cleanText = %q, want %q", got, want)
	}
}
