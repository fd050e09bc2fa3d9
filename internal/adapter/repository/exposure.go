package repository

import (
	"context"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
)

const upsertExposure = `
INSERT INTO exposures (user_id, word_id, times_shown) VALUES ($1, $2, 1)
ON CONFLICT (user_id, word_id) DO UPDATE SET times_shown = exposures.times_shown + 1
RETURNING times_shown`

type exposureRepository struct{ db DBTX }

// NewExposureRepository constructs a pgx-backed exposure repository.
func NewExposureRepository(db DBTX) repository.ExposureRepository {
	return &exposureRepository{db: db}
}

func (r *exposureRepository) Increment(ctx context.Context, userID, wordID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	var shown int32
	if err := r.db.QueryRow(ctx, upsertExposure, userID, wordID).Scan(&shown); err != nil {
		return 0, translatePgError(err, entity.ErrDuplicateWord, entity.ErrWordNotFound)
	}
	return int(shown), nil
}
