package db

import (
	"context"
	"log"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

var Pool *pgxpool.Pool

var openPool = pgxpool.New

// InitPostgres connects the package-level pool. With no DSN the service runs
// without result history.
func InitPostgres(ctx context.Context, dsn string) {
	if strings.TrimSpace(dsn) == "" {
		log.Println("DATABASE_URL not set, analysis history disabled")
		return
	}

	pool, err := openPool(ctx, dsn)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("ping postgres: %v", err)
	}

	Pool = pool
	log.Println("Connected to Postgres")
}
