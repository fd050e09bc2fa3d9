package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/eslsoft/vocquiz/internal/infrastructure/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/tracelog"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// Connection is an open handle on the configured store. Exactly one of Pool
// (postgres) and SQL (sqlite3) is set.
type Connection struct {
	Driver string
	Pool   *pgxpool.Pool
	SQL    *sql.DB
}

// Open connects to the database selected by cfg.
func Open(cfg *config.Config, logger *logrus.Logger) (*Connection, func(), error) {
	driver, err := cfg.DatabaseDriver()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database driver: %w", err)
	}

	switch driver {
	case "postgres":
		pool, cleanup, err := NewPool(cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		return &Connection{Driver: driver, Pool: pool}, cleanup, nil
	case "sqlite3":
		dsn, err := cfg.DatabaseURL()
		if err != nil {
			return nil, nil, fmt.Errorf("determine database dsn: %w", err)
		}
		db, err := OpenSQLite(dsn)
		if err != nil {
			return nil, nil, err
		}
		return &Connection{Driver: driver, SQL: db}, func() { _ = db.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", driver)
	}
}

// NewPool creates a new pgx connection pool
func NewPool(cfg *config.Config, logger *logrus.Logger) (*pgxpool.Pool, func(), error) {
	dsn, err := cfg.DatabaseURL()
	if err != nil {
		return nil, nil, fmt.Errorf("determine database dsn: %w", err)
	}
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("parse pool config: %w", err)
	}
	poolCfg.MaxConns = 10

	if cfg.Database.LogSQL && logger != nil {
		poolCfg.ConnConfig.Tracer = &tracelog.TraceLog{
			Logger: tracelog.LoggerFunc(func(_ context.Context, lvl tracelog.LogLevel, msg string, data map[string]any) {
				logger.WithField("pgx_level", lvl.String()).WithFields(logrus.Fields(data)).Debug(msg)
			}),
			LogLevel: tracelog.LogLevelTrace,
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping db: %w", err)
	}

	return pool, pool.Close, nil
}

// OpenSQLite opens a sqlite database with foreign keys enforced.
func OpenSQLite(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable sqlite foreign keys: %w", err)
	}
	return db, nil
}
