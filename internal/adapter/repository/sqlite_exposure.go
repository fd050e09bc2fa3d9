package repository

import (
	"context"
	"database/sql"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
)

type sqliteExposureRepository struct{ db *sql.DB }

// NewSQLiteExposureRepository constructs a database/sql exposure repository for sqlite.
func NewSQLiteExposureRepository(db *sql.DB) repository.ExposureRepository {
	return &sqliteExposureRepository{db: db}
}

func (r *sqliteExposureRepository) Increment(ctx context.Context, userID, wordID int64) (int, error) {
	var shown int
	err := r.db.QueryRowContext(ctx, `
INSERT INTO exposures (user_id, word_id, times_shown) VALUES (?, ?, 1)
ON CONFLICT (user_id, word_id) DO UPDATE SET times_shown = exposures.times_shown + 1
RETURNING times_shown`, userID, wordID).Scan(&shown)
	if err != nil {
		return 0, translateSQLiteError(err, entity.ErrDuplicateWord, entity.ErrWordNotFound)
	}
	return shown, nil
}
