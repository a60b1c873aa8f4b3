package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the subset of pgx used by repositories. It is satisfied by
// *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is the pool behind the four collection repositories.
type DB struct {
	*pgxpool.Pool
}

var _ Querier = (*DB)(nil)

// ApplicationName is reported to Postgres so sessions show up in
// pg_stat_activity under this service.
const ApplicationName = "ekaya-mes"

// Pool defaults. The server only talks to the database on collection
// fetches and mutations, so the pool stays small.
const (
	defaultMaxConns          = 10
	defaultMaxConnLifetime   = time.Hour
	defaultMaxConnIdleTime   = 15 * time.Minute
	defaultHealthCheckPeriod = time.Minute
	defaultPingTimeout       = 5 * time.Second
)

// Config holds database connection configuration. Zero values take the
// pool defaults above.
type Config struct {
	URL             string
	MaxConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	PingTimeout     time.Duration
}

// poolConfig parses the URL and applies the pool settings.
func poolConfig(cfg *Config) (*pgxpool.Config, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	pc.MaxConns = orDefault(cfg.MaxConnections, defaultMaxConns)
	pc.MaxConnLifetime = orDefault(cfg.MaxConnLifetime, defaultMaxConnLifetime)
	pc.MaxConnIdleTime = orDefault(cfg.MaxConnIdleTime, defaultMaxConnIdleTime)
	pc.HealthCheckPeriod = defaultHealthCheckPeriod
	if _, ok := pc.ConnConfig.RuntimeParams["application_name"]; !ok {
		pc.ConnConfig.RuntimeParams["application_name"] = ApplicationName
	}
	return pc, nil
}

func orDefault[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}

// NewConnection opens the pool and pings the server once, so an unreachable
// database fails here instead of on the first collection fetch.
func NewConnection(ctx context.Context, cfg *Config) (*DB, error) {
	pc, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, orDefault(cfg.PingTimeout, defaultPingTimeout))
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

// Close closes the connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}
