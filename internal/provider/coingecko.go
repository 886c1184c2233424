package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"btc-barometer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coingeckoBaseURL = "https://api.coingecko.com/api/v3"

// CoinGeckoProvider fetches Bitcoin spot and historical prices from the
// CoinGecko free API.
type CoinGeckoProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

// NewCoinGeckoProvider creates a provider with built-in rate limiting.
// Limited to 8 requests per minute (one token every 7.5 seconds).
func NewCoinGeckoProvider(tracer trace.Tracer, timeout time.Duration) *CoinGeckoProvider {
	return &CoinGeckoProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(8, 7500*time.Millisecond),
	}
}

func (p *CoinGeckoProvider) Name() string { return "coingecko" }

// FetchQuote fetches the current BTC/USD spot price.
func (p *CoinGeckoProvider) FetchQuote(ctx context.Context) (*domain.PriceQuote, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-quote")
	defer span.End()

	url := fmt.Sprintf("%s/simple/price?ids=bitcoin&vs_currencies=usd", p.baseURL)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}

	// Response shape: {"bitcoin": {"usd": 97000}}
	var raw map[string]map[string]float64
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse quote: %w", err)
	}
	price := raw["bitcoin"]["usd"]
	if price <= 0 {
		return nil, fmt.Errorf("coingecko returned non-positive price %f", price)
	}

	return &domain.PriceQuote{
		Source:     p.Name(),
		Price:      price,
		ObservedAt: time.Now().UTC(),
	}, nil
}

// FetchHistorical returns the BTC/USD daily close from periodDays ago, used
// as the reference for change-percent computation.
func (p *CoinGeckoProvider) FetchHistorical(ctx context.Context, periodDays int) (*domain.PriceQuote, error) {
	_, span := p.tracer.Start(ctx, "coingecko.fetch-historical")
	defer span.End()

	url := fmt.Sprintf("%s/coins/bitcoin/market_chart?vs_currency=usd&days=%d&interval=daily",
		p.baseURL, periodDays)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch historical: %w", err)
	}

	var raw struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse market chart: %w", err)
	}
	if len(raw.Prices) == 0 || len(raw.Prices[0]) < 2 {
		return nil, fmt.Errorf("coingecko returned empty price history")
	}

	first := raw.Prices[0]
	if first[1] <= 0 {
		return nil, fmt.Errorf("coingecko returned non-positive historical price %f", first[1])
	}
	return &domain.PriceQuote{
		Source:     p.Name(),
		Price:      first[1],
		ObservedAt: time.UnixMilli(int64(first[0])).UTC(),
	}, nil
}

func (p *CoinGeckoProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
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
		return nil, fmt.Errorf("coingecko API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
