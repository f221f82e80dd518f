// Package repository implements the Postgres store for user and
// appointment records, including the credential and notification status
// fields the issuance and booking workflows write back.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool sizing: the batch issuance path fans out up to BATCH_CONCURRENCY
// conditional writes at once (default 8), on top of the stream worker's
// status writes and the HTTP handlers.
const (
	poolMaxConns = 12
	poolMinConns = 2
)

// Repository provides access to the user and appointment tables.
type Repository struct {
	pool *pgxpool.Pool
}

// New connects a pooled Repository and verifies the connection.
func New(ctx context.Context, databaseURL string) (*Repository, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	config.MaxConns = poolMaxConns
	config.MinConns = poolMinConns

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Repository{pool: pool}, nil
}

// Ping checks database connectivity for the readiness probe.
func (r *Repository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Close closes the connection pool.
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool exposes the pgx pool for the test harness (advisory locks and
// schema resets). Production code goes through Repository methods.
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}
