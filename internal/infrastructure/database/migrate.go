package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema/postgres.sql
var postgresSchema string

//go:embed schema/sqlite.sql
var sqliteSchema string

// Migrate applies the embedded schema for the connection's driver. It is idempotent.
func (c *Connection) Migrate(ctx context.Context) error {
	switch {
	case c.Pool != nil:
		return MigratePostgres(ctx, c.Pool)
	case c.SQL != nil:
		return MigrateSQLite(ctx, c.SQL)
	default:
		return fmt.Errorf("migrate: no open connection")
	}
}

// MigratePostgres runs the postgres schema statements.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range splitStatements(postgresSchema) {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply postgres schema: %w", err)
		}
	}
	return nil
}

// MigrateSQLite runs the sqlite schema statements.
func MigrateSQLite(ctx context.Context, db *sql.DB) error {
	for _, stmt := range splitStatements(sqliteSchema) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}

func splitStatements(schema string) []string {
	parts := strings.Split(schema, ";")
	stmts := make([]string, 0, len(parts))
	for _, s := range parts {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		stmts = append(stmts, s)
	}
	return stmts
}
