package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/jackc/pgx/v5"
)

type userRepository struct {
	db DBTX
}

// NewUserRepository constructs a pgx-backed user repository.
func NewUserRepository(db DBTX) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) FindByExternalID(ctx context.Context, externalID int64) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var u entity.User
	err := r.db.QueryRow(ctx,
		`SELECT id, external_id, name, points, created_at FROM users WHERE external_id = $1`,
		externalID,
	).Scan(&u.ID, &u.ExternalID, &u.Name, &u.Points, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	created := *user
	err := r.db.QueryRow(ctx,
		`INSERT INTO users (external_id, name) VALUES ($1, $2) RETURNING id, points, created_at`,
		user.ExternalID, user.Name,
	).Scan(&created.ID, &created.Points, &created.CreatedAt)
	if err != nil {
		return nil, translateUserError(err)
	}
	return &created, nil
}

func (r *userRepository) AdjustPoints(ctx context.Context, externalID int64, delta int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tag, err := r.db.Exec(ctx, `UPDATE users SET points = points + $2 WHERE external_id = $1`, externalID, delta)
	if err != nil {
		return fmt.Errorf("adjust points: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return entity.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) ListByPointsDesc(ctx context.Context) ([]entity.RatingEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT external_id, name, points FROM users ORDER BY points DESC, id ASC`)
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
