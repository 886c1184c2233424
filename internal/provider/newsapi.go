package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"btc-barometer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// NewsAPIProvider fetches recent articles from the NewsAPI "everything"
// endpoint, filtered to the configured keywords.
type NewsAPIProvider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
}

func NewNewsAPIProvider(tracer trace.Tracer, baseURL, apiKey string, timeout time.Duration) *NewsAPIProvider {
	return &NewsAPIProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
		apiKey:  apiKey,
		tracer:  tracer,
	}
}

func (p *NewsAPIProvider) FetchRecentArticles(ctx context.Context, keywords []string, maxArticles, periodDays int) ([]domain.Article, error) {
	_, span := p.tracer.Start(ctx, "newsapi.fetch-articles")
	defer span.End()

	if p.apiKey == "" {
		return nil, fmt.Errorf("newsapi key is not configured")
	}
	if maxArticles <= 0 {
		maxArticles = 50
	}

	from := time.Now().UTC().AddDate(0, 0, -periodDays)
	query := url.Values{}
	query.Set("q", strings.Join(keywords, " OR "))
	query.Set("from", from.Format("2006-01-02"))
	query.Set("language", "en")
	query.Set("sortBy", "publishedAt")
	query.Set("pageSize", fmt.Sprintf("%d", maxArticles))
	query.Set("apiKey", p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("newsapi error %d: %s", resp.StatusCode, string(body))
	}

	var raw struct {
		Articles []struct {
			Title       string `json:"title"`
			Description string `json:"description"`
			Content     string `json:"content"`
			URL         string `json:"url"`
			PublishedAt string `json:"publishedAt"`
		} `json:"articles"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode newsapi payload: %w", err)
	}

	matcher := newKeywordMatcher(keywords)
	articles := make([]domain.Article, 0, len(raw.Articles))
	for _, row := range raw.Articles {
		if len(articles) >= maxArticles {
			break
		}
		title := sanitizeText(row.Title, 300)
		summary := sanitizeText(row.Description, 420)
		if summary == "" {
			summary = sanitizeText(row.Content, 420)
		}
		if title == "" || !matcher.matches(title+" "+summary) {
			continue
		}
		publishedAt, _ := time.Parse(time.RFC3339, row.PublishedAt)
		if publishedAt.IsZero() {
			publishedAt = time.Now().UTC()
		}
		articles = append(articles, domain.Article{
			Title:       title,
			Summary:     summary,
			URL:         sanitizeText(row.URL, 500),
			PublishedAt: publishedAt.UTC(),
		})
	}

	return articles, nil
}
