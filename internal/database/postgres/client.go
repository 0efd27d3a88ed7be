package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/salvex/salvex-api/pkg/logger"
	"github.com/salvex/salvex-api/pkg/metrics"
	"go.uber.org/zap"
)

// DB is the subset of pgxpool.Pool the client uses. Tests can supply a fake.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
}

// Client wraps a pgx connection pool with observability
type Client struct {
	pool DB
}

// NewClient wraps an open pool. The pool's lifecycle stays with the caller.
func NewClient(pool DB) *Client {
	return &Client{pool: pool}
}

// Ping checks if the database connection is alive
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// recordMetrics records database operation metrics
func recordMetrics(ctx context.Context, operation, status string, duration float64, fields ...zap.Field) {
	metrics.DBRequestDuration.WithLabelValues("postgres_"+operation, status).Observe(duration)
	metrics.DBRequestTotal.WithLabelValues("postgres_"+operation, status).Inc()
	logger.LogAPICall(ctx, "postgres", operation, status, duration, fields...)
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}
