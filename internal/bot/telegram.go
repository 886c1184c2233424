package bot

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"btc-barometer/internal/domain"
	"btc-barometer/internal/service"
)

// StartTelegramBot serves /analyze over Telegram. A missing token disables
// the bot without failing startup.
func StartTelegramBot(token string, analysisService *service.AnalysisService) {
	if token == "" {
		log.Println("TELEGRAM_BOT_TOKEN not set, skipping Telegram bot startup")
		return
	}
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}
	b, err := tele.NewBot(pref)
	if err != nil {
		log.Fatalf("failed to create Telegram bot: %v", err)
	}

	b.Handle("/ping", func(c tele.Context) error {
		return c.Send("pong")
	})

	b.Handle("/price", func(c tele.Context) error {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		result, err := analysisService.Analyze(ctx, 1)
		if err != nil {
			return c.Send(fmt.Sprintf("Price lookup failed: %v", err))
		}
		cp := result.Consensus
		return c.Send(fmt.Sprintf("BTC: $%.2f (%d/%d sources, %s)", cp.Price, cp.SourcesUsed, cp.SourcesAttempted, cp.Trend))
	})

	b.Handle("/analyze", func(c tele.Context) error {
		days := 7
		if args := c.Args(); len(args) > 0 {
			parsed, err := strconv.Atoi(args[0])
			if err != nil {
				return c.Send("Usage: /analyze [days]\nExample: /analyze 30")
			}
			days = parsed
		}

		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()

		result, err := analysisService.Analyze(ctx, days)
		if err != nil {
			return c.Send(fmt.Sprintf("Analysis failed: %v", err))
		}
		return c.Send(formatResult(result))
	})

	log.Println("Telegram bot started")
	go b.Start()
}

func formatResult(r *domain.AnalysisResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Bitcoin %d-day analysis\n", r.PeriodDays)
	fmt.Fprintf(&b, "Price: $%.2f (%d/%d sources)\n", r.Consensus.Price, r.Consensus.SourcesUsed, r.Consensus.SourcesAttempted)
	if r.Consensus.ChangePercent != nil {
		fmt.Fprintf(&b, "Change: %+.2f%% (%s)\n", *r.Consensus.ChangePercent, r.Consensus.Trend)
	} else {
		fmt.Fprintf(&b, "Trend: %s (no historical reference)\n", r.Consensus.Trend)
	}
	fmt.Fprintf(&b, "News sentiment: %s (%.0f%% confidence, %d articles)\n",
		r.Sentiment.OverallLabel, r.Sentiment.ConfidenceScore*100, r.Sentiment.ArticlesAnalyzed)
	fmt.Fprintf(&b, "Recommendation: %s (%.0f%% confidence)",
		strings.ToUpper(string(r.Recommendation)), r.RecommendationConfidence*100)
	return b.String()
}
