package provider

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"btc-barometer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

// RSSNewsProvider collects articles from a set of crypto news RSS feeds. It
// is the fallback article source when NewsAPI is unavailable.
type RSSNewsProvider struct {
	client *http.Client
	feeds  []string
	tracer trace.Tracer
}

func NewRSSNewsProvider(tracer trace.Tracer, feeds []string, timeout time.Duration) *RSSNewsProvider {
	return &RSSNewsProvider{
		client: &http.Client{Timeout: timeout},
		feeds:  feeds,
		tracer: tracer,
	}
}

func (p *RSSNewsProvider) FetchRecentArticles(ctx context.Context, keywords []string, maxArticles, periodDays int) ([]domain.Article, error) {
	_, span := p.tracer.Start(ctx, "rss.fetch-articles")
	defer span.End()

	if maxArticles <= 0 {
		maxArticles = 50
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -periodDays)
	matcher := newKeywordMatcher(keywords)

	var articles []domain.Article
	var lastErr error
	for _, feed := range p.feeds {
		if len(articles) >= maxArticles {
			break
		}
		items, err := p.fetchFeed(ctx, feed)
		if err != nil {
			lastErr = fmt.Errorf("feed %s: %w", feed, err)
			continue
		}
		for _, item := range items {
			if len(articles) >= maxArticles {
				break
			}
			if item.PublishedAt.Before(cutoff) {
				continue
			}
			if !matcher.matches(item.Title + " " + item.Summary) {
				continue
			}
			articles = append(articles, item)
		}
	}

	if len(articles) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return articles, nil
}

func (p *RSSNewsProvider) fetchFeed(ctx context.Context, feedURL string) ([]domain.Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml, application/xml, text/xml")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("rss fetch error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var rss struct {
		Channel struct {
			Items []struct {
				Title       string `xml:"title"`
				Link        string `xml:"link"`
				Description string `xml:"description"`
				PubDate     string `xml:"pubDate"`
			} `xml:"item"`
		} `xml:"channel"`
	}
	if err := xml.Unmarshal(body, &rss); err != nil {
		return nil, fmt.Errorf("decode rss payload: %w", err)
	}

	items := make([]domain.Article, 0, len(rss.Channel.Items))
	for _, row := range rss.Channel.Items {
		title := sanitizeText(row.Title, 300)
		if title == "" {
			continue
		}
		publishedAt := parseRSSDate(row.PubDate)
		if publishedAt.IsZero() {
			publishedAt = time.Now().UTC()
		}
		items = append(items, domain.Article{
			Title:       title,
			Summary:     sanitizeText(htmlStrip(row.Description), 420),
			URL:         sanitizeText(row.Link, 500),
			PublishedAt: publishedAt.UTC(),
		})
	}

	return items, nil
}

func parseRSSDate(v string) time.Time {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}
	}
	layouts := []string{time.RFC1123Z, time.RFC1123, time.RFC822Z, time.RFC822, time.RFC3339}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func htmlStrip(in string) string {
	if strings.TrimSpace(in) == "" {
		return ""
	}
	var b strings.Builder
	inside := false
	for _, r := range in {
		switch r {
		case '<':
			inside = true
			continue
		case '>':
			inside = false
			continue
		}
		if !inside {
			b.WriteRune(r)
		}
	}
	return b.String()
}
