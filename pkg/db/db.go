package db

import (
	"context"
	"fmt"

	"github.com/Alarion239/studentrecords/internal/logger"
	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	pool *pgxpool.Pool
}

// ApplicationName is reported to postgres unless the connection string
// sets application_name itself.
const ApplicationName = "studentrecords"

// NewDB opens a pool for the records store and pings it. Pool sizing comes
// from the connection string (pool_max_conns, pool_min_conns,
// pool_max_conn_lifetime); unset values keep the pgx defaults.
func NewDB(ctx context.Context, connectionString string) (*DB, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context cancelled: %w", err)
	}

	cfg, err := ParseConfig(connectionString)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		logger.LogError("Failed to create connection pool", err)
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	// Verify the connection pool works by pinging the database
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		logger.LogError("Failed to ping database", err)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{
		pool: pool,
	}, nil
}

// ParseConfig parses connectionString into a pool config and fills in
// ApplicationName.
func ParseConfig(connectionString string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	}
	return cfg, nil
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}

// Close gracefully closes the connection pool and releases all resources.
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Pool returns the underlying pgxpool.Pool for direct access when needed.
func (db *DB) Pool() *pgxpool.Pool {
	return db.pool
}
