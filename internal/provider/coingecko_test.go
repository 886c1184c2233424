package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, payload any) *http.Response {
	data, _ := json.Marshal(payload)
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(data)),
		Header:     make(http.Header),
	}
}

func TestCoinGeckoFetchQuote(t *testing.T) {
	t.Parallel()

	p := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"), time.Second)
	p.baseURL = "http://example"
	p.limiter = NewRateLimiter(10, time.Millisecond)
	p.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if !strings.Contains(req.URL.Path, "/simple/price") {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			return jsonResponse(http.StatusOK, map[string]map[string]float64{
				"bitcoin": {"usd": 64500},
			}), nil
		}),
	}

	quote, err := p.FetchQuote(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Price != 64500 {
		t.Errorf("price = %f, want 64500", quote.Price)
	}
	if quote.Source != "coingecko" {
		t.Errorf("source = %s", quote.Source)
	}
}

func TestCoinGeckoFetchQuoteAPIError(t *testing.T) {
	t.Parallel()

	p := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"), time.Second)
	p.baseURL = "http://example"
	p.limiter = NewRateLimiter(10, time.Millisecond)
	p.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusTooManyRequests,
				Body:       io.NopCloser(strings.NewReader("rate limited")),
				Header:     make(http.Header),
			}, nil
		}),
	}

	if _, err := p.FetchQuote(context.Background()); err == nil {
		t.Fatal("expected error on 429")
	}
}

func TestCoinGeckoFetchHistorical(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	p := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"), time.Second)
	p.baseURL = "http://example"
	p.limiter = NewRateLimiter(10, time.Millisecond)
	p.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			if !strings.Contains(req.URL.Path, "/coins/bitcoin/market_chart") {
				t.Fatalf("unexpected path: %s", req.URL.Path)
			}
			if got := req.URL.Query().Get("days"); got != "7" {
				t.Fatalf("days = %s, want 7", got)
			}
			return jsonResponse(http.StatusOK, map[string]any{
				"prices": [][]float64{
					{float64(base.UnixMilli()), 61000},
					{float64(base.Add(24 * time.Hour).UnixMilli()), 62000},
				},
			}), nil
		}),
	}

	ref, err := p.FetchHistorical(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ref.Price != 61000 {
		t.Errorf("reference price = %f, want the oldest point 61000", ref.Price)
	}
	if !ref.ObservedAt.Equal(base) {
		t.Errorf("observed at = %v, want %v", ref.ObservedAt, base)
	}
}

func TestCoinGeckoFetchHistoricalEmpty(t *testing.T) {
	t.Parallel()

	p := NewCoinGeckoProvider(trace.NewNoopTracerProvider().Tracer("test"), time.Second)
	p.baseURL = "http://example"
	p.limiter = NewRateLimiter(10, time.Millisecond)
	p.client = &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			return jsonResponse(http.StatusOK, map[string]any{"prices": [][]float64{}}), nil
		}),
	}

	if _, err := p.FetchHistorical(context.Background(), 7); err == nil {
		t.Fatal("expected error on empty history")
	}
}
