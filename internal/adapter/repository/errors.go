package repository

import (
	"database/sql"
	"errors"
	"strings"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	sqlite3 "github.com/mattn/go-sqlite3"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translatePgError maps driver errors onto domain errors; notFound is
// returned for missing rows and foreign key violations.
func translatePgError(err error, duplicate, notFound error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return duplicate
		case pgForeignKeyViolation:
			return notFound
		}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	return err
}

func translateSQLiteError(err error, duplicate, notFound error) error {
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return duplicate
		case sqlite3.ErrConstraintForeignKey:
			return notFound
		}
	}
	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}
	// older builds report constraint failures only in the message
	if err != nil && strings.Contains(strings.ToLower(err.Error()), "unique constraint failed") {
		return duplicate
	}
	return err
}

func translateUserError(err error) error {
	return translatePgError(err, entity.ErrUserAlreadyExists, entity.ErrUserNotFound)
}

func translateWordError(err error) error {
	return translatePgError(err, entity.ErrDuplicateWord, entity.ErrWordNotFound)
}
