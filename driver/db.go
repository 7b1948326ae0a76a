// Package driver contains raw pgx access to the durable store and is the
// only package that writes SQL.
package driver

import (
	"context"
	"fmt"

	"review-processor/config"
	"review-processor/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Init builds the shared connection pool. Lifecycle is owned by main.
func Init(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	connString := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable pool_max_conns=20 pool_min_conns=5 pool_max_conn_lifetime=1h pool_max_conn_idle_time=30m",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name)

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Logger.Info("database connection pool initialized",
		"host", cfg.Host, "database", cfg.Name)

	return pool, nil
}
