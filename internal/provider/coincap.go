package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"btc-barometer/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const coincapBaseURL = "https://api.coincap.io/v2"

// CoinCapProvider fetches Bitcoin prices from the CoinCap API.
type CoinCapProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewCoinCapProvider(tracer trace.Tracer, timeout time.Duration) *CoinCapProvider {
	return &CoinCapProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: coincapBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(10, 6*time.Second),
	}
}

func (p *CoinCapProvider) Name() string { return "coincap" }

func (p *CoinCapProvider) FetchQuote(ctx context.Context) (*domain.PriceQuote, error) {
	_, span := p.tracer.Start(ctx, "coincap.fetch-quote")
	defer span.End()

	body, err := p.doRequest(ctx, p.baseURL+"/assets/bitcoin")
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}

	var raw struct {
		Data struct {
			PriceUSD string `json:"priceUsd"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse asset: %w", err)
	}
	price, err := strconv.ParseFloat(raw.Data.PriceUSD, 64)
	if err != nil {
		return nil, fmt.Errorf("parse asset price %q: %w", raw.Data.PriceUSD, err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("coincap returned non-positive price %f", price)
	}

	return &domain.PriceQuote{
		Source:     p.Name(),
		Price:      price,
		ObservedAt: time.Now().UTC(),
	}, nil
}

func (p *CoinCapProvider) FetchHistorical(ctx context.Context, periodDays int) (*domain.PriceQuote, error) {
	_, span := p.tracer.Start(ctx, "coincap.fetch-historical")
	defer span.End()

	end := time.Now().UTC()
	start := end.AddDate(0, 0, -periodDays)
	url := fmt.Sprintf("%s/assets/bitcoin/history?interval=d1&start=%d&end=%d",
		p.baseURL, start.UnixMilli(), end.UnixMilli())

	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch history: %w", err)
	}

	var raw struct {
		Data []struct {
			PriceUSD string `json:"priceUsd"`
			Time     int64  `json:"time"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse history: %w", err)
	}
	if len(raw.Data) == 0 {
		return nil, fmt.Errorf("coincap returned empty price history")
	}

	first := raw.Data[0]
	price, err := strconv.ParseFloat(first.PriceUSD, 64)
	if err != nil {
		return nil, fmt.Errorf("parse history price %q: %w", first.PriceUSD, err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("coincap returned non-positive historical price %f", price)
	}

	return &domain.PriceQuote{
		Source:     p.Name(),
		Price:      price,
		ObservedAt: time.UnixMilli(first.Time).UTC(),
	}, nil
}

func (p *CoinCapProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
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
		return nil, fmt.Errorf("coincap API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
