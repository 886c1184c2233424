package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/trace"

	"btc-barometer/internal/domain"
)

const createAnalysisTable = `
CREATE TABLE IF NOT EXISTS analysis_results (
    id              BIGSERIAL   PRIMARY KEY,
    period_days     INT         NOT NULL,
    consensus_price NUMERIC     NOT NULL,
    change_percent  NUMERIC,
    trend           TEXT        NOT NULL,
    sentiment       TEXT        NOT NULL,
    recommendation  TEXT        NOT NULL,
    confidence      NUMERIC     NOT NULL,
    payload         JSONB       NOT NULL,
    generated_at    TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analysis_results_period_time
    ON analysis_results (period_days, generated_at DESC);
`

type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// AnalysisRepository persists completed analyses for the history endpoint.
type AnalysisRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewAnalysisRepository(pool PgxPool, tracer trace.Tracer) *AnalysisRepository {
	return &AnalysisRepository{pool: pool, tracer: tracer}
}

func (r *AnalysisRepository) RunMigrations(ctx context.Context) error {
	_, span := r.tracer.Start(ctx, "analysis-repo.run-migrations")
	defer span.End()

	_, err := r.pool.Exec(ctx, createAnalysisTable)
	return err
}

func (r *AnalysisRepository) InsertResult(ctx context.Context, result *domain.AnalysisResult) error {
	_, span := r.tracer.Start(ctx, "analysis-repo.insert-result")
	defer span.End()

	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO analysis_results
		     (period_days, consensus_price, change_percent, trend, sentiment,
		      recommendation, confidence, payload, generated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		result.PeriodDays,
		result.Consensus.Price,
		result.Consensus.ChangePercent,
		result.Consensus.Trend,
		result.Sentiment.OverallLabel,
		result.Recommendation,
		result.RecommendationConfidence,
		payload,
		result.GeneratedAt,
	)
	return err
}

// HistoryEntry is the stored summary row returned to history queries.
type HistoryEntry struct {
	ID             int64                 `json:"id"`
	PeriodDays     int                   `json:"period_days"`
	ConsensusPrice float64               `json:"consensus_price"`
	ChangePercent  *float64              `json:"change_percent,omitempty"`
	Trend          domain.Trend          `json:"trend"`
	Sentiment      domain.SentimentLabel `json:"sentiment"`
	Recommendation domain.Recommendation `json:"recommendation"`
	Confidence     float64               `json:"confidence"`
	GeneratedAt    time.Time             `json:"generated_at"`
}

func (r *AnalysisRepository) ListRecent(ctx context.Context, limit int) ([]*HistoryEntry, error) {
	_, span := r.tracer.Start(ctx, "analysis-repo.list-recent")
	defer span.End()

	if limit <= 0 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, period_days, consensus_price, change_percent, trend,
		        sentiment, recommendation, confidence, generated_at
		 FROM analysis_results
		 ORDER BY generated_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		e := &HistoryEntry{}
		if err := rows.Scan(
			&e.ID, &e.PeriodDays, &e.ConsensusPrice, &e.ChangePercent, &e.Trend,
			&e.Sentiment, &e.Recommendation, &e.Confidence, &e.GeneratedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
