package backend

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is satisfied by both the pool and an open transaction.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Pool is the pooled relational connector. A nil *Pool behaves as an
// unconfigured backend: every call fails with ErrNotConfigured.
type Pool struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewPool builds a pgx pool from dsn. Connections are established lazily, so
// an unreachable server surfaces per call as a connection error rather than
// failing startup.
func NewPool(ctx context.Context, dsn string, timeout time.Duration) (*Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	cfg.MaxConns = 20
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.HealthCheckPeriod = time.Minute
	if timeout > 0 {
		cfg.ConnConfig.ConnectTimeout = timeout
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	return &Pool{pool: pool, timeout: timeout}, nil
}

// WrapPool adapts an existing pgx pool.
func WrapPool(pool *pgxpool.Pool, timeout time.Duration) *Pool {
	return &Pool{pool: pool, timeout: timeout}
}

func (p *Pool) Kind() Kind { return KindPostgres }

// Raw exposes the pgx pool for schema migrations.
func (p *Pool) Raw() *pgxpool.Pool {
	if p == nil {
		return nil
	}
	return p.pool
}

func (p *Pool) Close() {
	if p != nil && p.pool != nil {
		p.pool.Close()
	}
}

func (p *Pool) HealthCheck(ctx context.Context) bool {
	if p == nil || p.pool == nil {
		return false
	}
	ctx, cancel := scope(ctx, p.timeout)
	defer cancel()
	var one int
	return p.pool.QueryRow(ctx, "SELECT 1").Scan(&one) == nil
}

// Run executes work against a leased pool connection under the call timeout.
// The returned error is classified into the domain taxonomy.
func (p *Pool) Run(ctx context.Context, work func(ctx context.Context, q Querier) error) error {
	if p == nil || p.pool == nil {
		return ErrNotConfigured
	}
	ctx, cancel := scope(ctx, p.timeout)
	defer cancel()
	return Classify(work(ctx, p.pool))
}

// Transaction begins a transaction, runs work, and commits. Any failure from
// work rolls the transaction back and is returned classified.
func (p *Pool) Transaction(ctx context.Context, work func(ctx context.Context, q Querier) error) error {
	if p == nil || p.pool == nil {
		return ErrNotConfigured
	}
	ctx, cancel := scope(ctx, p.timeout)
	defer cancel()

	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return Classify(fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := work(ctx, tx); err != nil {
		return Classify(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return Classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
