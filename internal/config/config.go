package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	TelegramBotToken string
	DatabaseURL      string
	RedisURL         string
	APIKey           string

	NewsAPIURL        string
	NewsAPIKey        string
	HuggingFaceAPIURL string
	HuggingFaceAPIKey string
	OpenAIAPIKey      string
	OpenAIModel       string

	BitcoinKeywords       []string
	NewsFeeds             []string
	MaxArticles           int
	MaxConcurrentRequests int
	CacheDurationMins     int
	RequestTimeoutSecs    int

	BullishThresholdPct float64
	BearishThresholdPct float64
	OutlierThresholdPct float64
	MinPriceSources     int

	TrendWeight      float64
	SentimentWeight  float64
	TrendNormPct     float64
	WarmIntervalSecs int
}

func Load() *Config {
	cfg := &Config{
		TelegramBotToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisURL:          os.Getenv("REDIS_URL"),
		APIKey:            os.Getenv("API_KEY"),
		NewsAPIKey:        os.Getenv("NEWSAPI_KEY"),
		HuggingFaceAPIKey: os.Getenv("HUGGINGFACE_API_KEY"),
		OpenAIAPIKey:      os.Getenv("OPENAI_API_KEY"),
	}

	if cfg.TelegramBotToken == "" {
		log.Println("Warning: TELEGRAM_BOT_TOKEN not set, bot disabled")
	}
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL not set, analysis history disabled")
	}
	if cfg.RedisURL == "" {
		log.Println("Warning: REDIS_URL not set, falling back to in-memory cache")
	}
	if cfg.NewsAPIKey == "" {
		log.Println("Warning: NEWSAPI_KEY not set, news collection will use RSS feeds only")
	}
	if cfg.HuggingFaceAPIKey == "" && cfg.OpenAIAPIKey == "" {
		log.Println("Warning: no sentiment API key set, using keyword heuristic classifier")
	}

	cfg.NewsAPIURL = strings.TrimSpace(os.Getenv("NEWSAPI_URL"))
	if cfg.NewsAPIURL == "" {
		cfg.NewsAPIURL = "https://newsapi.org/v2/everything"
	}

	cfg.HuggingFaceAPIURL = strings.TrimSpace(os.Getenv("HUGGINGFACE_API_URL"))
	if cfg.HuggingFaceAPIURL == "" {
		cfg.HuggingFaceAPIURL = "https://api-inference.huggingface.co/models/distilbert-base-uncased-finetuned-sst-2-english"
	}

	cfg.OpenAIModel = strings.TrimSpace(os.Getenv("OPENAI_MODEL"))
	if cfg.OpenAIModel == "" {
		cfg.OpenAIModel = "gpt-4o-mini"
	}

	cfg.BitcoinKeywords = splitList(os.Getenv("BITCOIN_KEYWORDS"))
	if len(cfg.BitcoinKeywords) == 0 {
		cfg.BitcoinKeywords = []string{"bitcoin", "btc", "cryptocurrency", "crypto"}
	}

	cfg.NewsFeeds = splitList(os.Getenv("NEWS_RSS_FEEDS"))
	if len(cfg.NewsFeeds) == 0 {
		cfg.NewsFeeds = []string{
			"https://cointelegraph.com/rss",
			"https://coindesk.com/arc/outboundfeeds/rss/",
			"https://decrypt.co/feed",
		}
	}

	cfg.MaxArticles = intEnv("MAX_ARTICLES", 50)
	cfg.MaxConcurrentRequests = intEnv("MAX_CONCURRENT_REQUESTS", 10)
	cfg.CacheDurationMins = intEnv("CACHE_DURATION_MINS", 10)
	cfg.RequestTimeoutSecs = intEnv("REQUEST_TIMEOUT_SECS", 10)
	cfg.MinPriceSources = intEnv("MIN_PRICE_SOURCES", 1)
	cfg.WarmIntervalSecs = intEnv("ANALYSIS_WARM_SECS", 600)

	cfg.BullishThresholdPct = floatEnv("BULLISH_THRESHOLD_PCT", 1.0)
	cfg.BearishThresholdPct = floatEnv("BEARISH_THRESHOLD_PCT", -1.0)
	if cfg.BearishThresholdPct > cfg.BullishThresholdPct {
		log.Printf("Warning: bearish threshold %.2f above bullish %.2f, using defaults",
			cfg.BearishThresholdPct, cfg.BullishThresholdPct)
		cfg.BullishThresholdPct = 1.0
		cfg.BearishThresholdPct = -1.0
	}

	cfg.OutlierThresholdPct = floatEnv("OUTLIER_THRESHOLD_PCT", 5.0)
	cfg.TrendNormPct = floatEnv("TREND_NORM_PCT", 10.0)

	cfg.TrendWeight = floatEnv("TREND_WEIGHT", 0.6)
	cfg.SentimentWeight = floatEnv("SENTIMENT_WEIGHT", 0.4)
	if sum := cfg.TrendWeight + cfg.SentimentWeight; sum <= 0 || absDiff(sum, 1.0) > 0.001 {
		log.Printf("Warning: decision weights sum to %.3f, using defaults 0.6/0.4", sum)
		cfg.TrendWeight = 0.6
		cfg.SentimentWeight = 0.4
	}

	return cfg
}

func intEnv(name string, def int) int {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func floatEnv(name string, def float64) float64 {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
	}
	return def
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func absDiff(a, b float64) float64 {
	if a > b {
		return a - b
	}
	return b - a
}
