package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
)

type sqliteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository constructs a database/sql user repository for sqlite.
func NewSQLiteUserRepository(db *sql.DB) repository.UserRepository {
	return &sqliteUserRepository{db: db}
}

func (r *sqliteUserRepository) FindByExternalID(ctx context.Context, externalID int64) (*entity.User, error) {
	var u entity.User
	err := r.db.QueryRowContext(ctx,
		`SELECT id, external_id, name, points, created_at FROM users WHERE external_id = ?`,
		externalID,
	).Scan(&u.ID, &u.ExternalID, &u.Name, &u.Points, sqliteTime{&u.CreatedAt})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *sqliteUserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	created := *user
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (external_id, name) VALUES (?, ?) RETURNING id, points, created_at`,
		user.ExternalID, user.Name,
	).Scan(&created.ID, &created.Points, sqliteTime{&created.CreatedAt})
	if err != nil {
		return nil, translateSQLiteError(err, entity.ErrUserAlreadyExists, entity.ErrUserNotFound)
	}
	return &created, nil
}

func (r *sqliteUserRepository) AdjustPoints(ctx context.Context, externalID int64, delta int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET points = points + ? WHERE external_id = ?`, delta, externalID)
	if err != nil {
		return fmt.Errorf("adjust points: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("adjust points: %w", err)
	}
	if affected == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

func (r *sqliteUserRepository) ListByPointsDesc(ctx context.Context) ([]entity.RatingEntry, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT external_id, name, points FROM users ORDER BY points DESC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var entries []entity.RatingEntry
	for rows.Next() {
		var e entity.RatingEntry
		if err := rows.Scan(&e.ExternalID, &e.Name, &e.Points); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return entries, nil
}
