// Package postgres persists characters and their inventories in
// PostgreSQL through pgx v5. Pool owns the connection pool; the
// repository types own the SQL.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/duskvale/rpg/internal/config"
)

// Pool is the shared pgx connection pool for all repositories.
type Pool struct {
	pool *pgxpool.Pool
}

// NewPool opens a connection pool against cfg's database and verifies
// connectivity with a single ping before returning it.
//
// Postcondition: on success the pool has served at least one round trip.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("parsing database DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("opening connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &Pool{pool: pool}, nil
}

// Health pings the database, failing if no response arrives within timeout.
func (p *Pool) Health(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return p.pool.Ping(ctx)
}

// Close releases every connection held by the pool.
//
// Postcondition: the pool must not be used after Close returns.
func (p *Pool) Close() {
	p.pool.Close()
}

// DB exposes the raw pgxpool.Pool for repository constructors.
func (p *Pool) DB() *pgxpool.Pool {
	return p.pool
}
