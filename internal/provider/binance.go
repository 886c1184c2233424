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

const binanceBaseURL = "https://api.binance.com/api/v3"

// BinanceProvider fetches BTCUSDT prices from the Binance public API.
// Binance reports prices as decimal strings.
type BinanceProvider struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
}

func NewBinanceProvider(tracer trace.Tracer, timeout time.Duration) *BinanceProvider {
	return &BinanceProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: binanceBaseURL,
		tracer:  tracer,
		limiter: NewRateLimiter(20, 3*time.Second),
	}
}

func (p *BinanceProvider) Name() string { return "binance" }

func (p *BinanceProvider) FetchQuote(ctx context.Context) (*domain.PriceQuote, error) {
	_, span := p.tracer.Start(ctx, "binance.fetch-quote")
	defer span.End()

	url := fmt.Sprintf("%s/ticker/price?symbol=BTCUSDT", p.baseURL)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch quote: %w", err)
	}

	var raw struct {
		Symbol string `json:"symbol"`
		Price  string `json:"price"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("parse ticker: %w", err)
	}
	price, err := strconv.ParseFloat(raw.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("parse ticker price %q: %w", raw.Price, err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("binance returned non-positive price %f", price)
	}

	return &domain.PriceQuote{
		Source:     p.Name(),
		Price:      price,
		ObservedAt: time.Now().UTC(),
	}, nil
}

// FetchHistorical returns the daily close from periodDays ago via the klines
// endpoint. Kline rows are positional arrays; index 4 is the close.
func (p *BinanceProvider) FetchHistorical(ctx context.Context, periodDays int) (*domain.PriceQuote, error) {
	_, span := p.tracer.Start(ctx, "binance.fetch-historical")
	defer span.End()

	url := fmt.Sprintf("%s/klines?symbol=BTCUSDT&interval=1d&limit=%d", p.baseURL, periodDays)
	body, err := p.doRequest(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch klines: %w", err)
	}

	var klines [][]json.RawMessage
	if err := json.Unmarshal(body, &klines); err != nil {
		return nil, fmt.Errorf("parse klines: %w", err)
	}
	if len(klines) == 0 || len(klines[0]) < 5 {
		return nil, fmt.Errorf("binance returned empty kline history")
	}

	var openMs float64
	if err := json.Unmarshal(klines[0][0], &openMs); err != nil {
		return nil, fmt.Errorf("parse kline open time: %w", err)
	}
	var closeStr string
	if err := json.Unmarshal(klines[0][4], &closeStr); err != nil {
		return nil, fmt.Errorf("parse kline close: %w", err)
	}
	price, err := strconv.ParseFloat(closeStr, 64)
	if err != nil {
		return nil, fmt.Errorf("parse kline close %q: %w", closeStr, err)
	}
	if price <= 0 {
		return nil, fmt.Errorf("binance returned non-positive historical price %f", price)
	}

	return &domain.PriceQuote{
		Source:     p.Name(),
		Price:      price,
		ObservedAt: time.UnixMilli(int64(openMs)).UTC(),
	}, nil
}

func (p *BinanceProvider) doRequest(ctx context.Context, url string) ([]byte, error) {
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
		return nil, fmt.Errorf("binance API error %d: %s", resp.StatusCode, string(body))
	}

	return io.ReadAll(resp.Body)
}
