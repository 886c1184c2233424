package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"btc-barometer/internal/bot"
	"btc-barometer/internal/cache"
	"btc-barometer/internal/config"
	"btc-barometer/internal/consensus"
	"btc-barometer/internal/db"
	"btc-barometer/internal/decision"
	"btc-barometer/internal/handler"
	"btc-barometer/internal/job"
	"btc-barometer/internal/provider"
	"btc-barometer/internal/repository"
	"btc-barometer/internal/sentiment"
	"btc-barometer/internal/service"
	"btc-barometer/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "btc-barometer/docs"
)

var (
	loadEnvFunc            = godotenv.Load
	loadConfigFunc         = config.Load
	initPostgresFunc       = db.InitPostgres
	initRedisFunc          = cache.InitRedis
	initTracerFunc         = tracing.InitTracer
	newAnalysisRepoFunc    = repository.NewAnalysisRepository
	newAnalysisServiceFunc = service.NewAnalysisService
	newCacheWarmerFunc     = job.NewCacheWarmer
	startWarmerFunc        = func(w *job.CacheWarmer, ctx context.Context) { go w.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = signal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           BTC Barometer API
// @version         1.0
// @description     Bitcoin price consensus and news sentiment analysis service.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	initPostgresFunc(ctx, cfg.DatabaseURL)
	initRedisFunc(ctx, cfg.RedisURL)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	var analysisRepo *repository.AnalysisRepository
	if db.Pool != nil {
		analysisRepo = newAnalysisRepoFunc(db.Pool, tracer)
		if err := analysisRepo.RunMigrations(ctx); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	requestTimeout := time.Duration(cfg.RequestTimeoutSecs) * time.Second

	engine := consensus.NewEngine(tracer,
		[]consensus.QuoteProvider{
			provider.NewCoinGeckoProvider(tracer, requestTimeout),
			provider.NewBinanceProvider(tracer, requestTimeout),
			provider.NewCoinCapProvider(tracer, requestTimeout),
		},
		consensus.Config{
			Timeout:             requestTimeout,
			OutlierThresholdPct: cfg.OutlierThresholdPct,
			BullishThresholdPct: cfg.BullishThresholdPct,
			BearishThresholdPct: cfg.BearishThresholdPct,
		},
	)

	news := newsCollector(cfg, tracer, requestTimeout)
	scorer := sentiment.NewScorer(classifier(cfg), cfg.MaxConcurrentRequests, requestTimeout, tracer)

	ttl := time.Duration(cfg.CacheDurationMins) * time.Minute
	var resultCache cache.AnalysisCache
	if cache.Client != nil {
		resultCache = cache.NewRedisAnalysisCache(cache.Client, ttl)
	} else {
		resultCache = cache.NewMemoryAnalysisCache(ttl)
	}

	var history service.HistorySink
	if analysisRepo != nil {
		history = analysisRepo
	}

	analysisService := newAnalysisServiceFunc(engine, news, scorer, resultCache, history,
		service.Options{
			Keywords:        cfg.BitcoinKeywords,
			MaxArticles:     cfg.MaxArticles,
			MinPriceSources: cfg.MinPriceSources,
			Decision: decision.Config{
				TrendWeight:     cfg.TrendWeight,
				SentimentWeight: cfg.SentimentWeight,
				TrendNormPct:    cfg.TrendNormPct,
			},
		},
		tracer,
	)

	warmer := newCacheWarmerFunc(tracer, analysisService, 7, time.Duration(cfg.WarmIntervalSecs)*time.Second)
	startWarmerFunc(warmer, ctx)

	startTelegramBotFunc(cfg.TelegramBotToken, analysisService)

	h := newHandlerFunc(tracer, analysisService, analysisRepo, cfg.APIKey)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("btc-barometer"))

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    ":8080",
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

// newsCollector prefers NewsAPI and falls back to the public RSS feeds.
func newsCollector(cfg *config.Config, tracer trace.Tracer, timeout time.Duration) *provider.NewsCollector {
	var sources []provider.ArticleSource
	if cfg.NewsAPIKey != "" {
		sources = append(sources, provider.NewNewsAPIProvider(tracer, cfg.NewsAPIURL, cfg.NewsAPIKey, timeout))
	}
	sources = append(sources, provider.NewRSSNewsProvider(tracer, cfg.NewsFeeds, timeout))
	return provider.NewNewsCollector(tracer, sources...)
}

// classifier picks the best configured backend: a hosted classification
// model, then an OpenAI chat model, then the keyword heuristic.
func classifier(cfg *config.Config) sentiment.Classifier {
	if cfg.HuggingFaceAPIKey != "" {
		return sentiment.NewHuggingFaceClassifier(cfg.HuggingFaceAPIURL, cfg.HuggingFaceAPIKey,
			time.Duration(cfg.RequestTimeoutSecs)*time.Second)
	}
	if cfg.OpenAIAPIKey != "" {
		client := openai.NewClient(option.WithAPIKey(cfg.OpenAIAPIKey))
		return sentiment.NewOpenAIClassifier(&client, cfg.OpenAIModel)
	}
	return sentiment.NewHeuristicClassifier()
}
