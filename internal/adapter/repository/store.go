package repository

import (
	"context"
	"errors"

	"github.com/eslsoft/vocquiz/internal/infrastructure/database"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the subset of pgx shared by pools, connections and transactions.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store groups the repositories backed by one connection.
type Store struct {
	Users     repository.UserRepository
	Words     repository.WordRepository
	Exposures repository.ExposureRepository
}

// NewStore picks the repository implementations matching the connection driver.
func NewStore(conn *database.Connection) (*Store, error) {
	switch {
	case conn == nil:
		return nil, errors.New("store: nil connection")
	case conn.Pool != nil:
		return &Store{
			Users:     NewUserRepository(conn.Pool),
			Words:     NewWordRepository(conn.Pool),
			Exposures: NewExposureRepository(conn.Pool),
		}, nil
	case conn.SQL != nil:
		return &Store{
			Users:     NewSQLiteUserRepository(conn.SQL),
			Words:     NewSQLiteWordRepository(conn.SQL),
			Exposures: NewSQLiteExposureRepository(conn.SQL),
		}, nil
	default:
		return nil, errors.New("store: connection has no database handle")
	}
}
