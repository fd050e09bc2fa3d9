package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/jackc/pgx/v5"
)

const (
	pgSampleSharedWords = `
SELECT w.id, w.term, w.translation, w.owner_id, w.created_at
FROM words w
WHERE w.owner_id IS NULL
  AND w.id NOT IN (
    SELECT e.word_id FROM exposures e
    WHERE e.user_id = $1
    GROUP BY e.word_id
    HAVING SUM(e.times_shown) >= $2
  )
ORDER BY RANDOM()
LIMIT $3`

	pgSampleOwnedWords = `
SELECT w.id, w.term, w.translation, w.owner_id, w.created_at
FROM words w
WHERE w.owner_id = $1
  AND w.id NOT IN (
    SELECT e.word_id FROM exposures e
    WHERE e.user_id = $1
    GROUP BY e.word_id
    HAVING SUM(e.times_shown) >= $2
  )
ORDER BY RANDOM()
LIMIT $3`
)

type wordRepository struct{ db DBTX }

// NewWordRepository constructs a pgx-backed word repository.
func NewWordRepository(db DBTX) repository.WordRepository { return &wordRepository{db: db} }

func (r *wordRepository) Find(ctx context.Context, term string, ownerID *int64) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var (
		row pgx.Row
		w   entity.Word
	)
	if ownerID == nil {
		row = r.db.QueryRow(ctx,
			`SELECT id, term, translation, owner_id, created_at FROM words WHERE term = $1 AND owner_id IS NULL`, term)
	} else {
		row = r.db.QueryRow(ctx,
			`SELECT id, term, translation, owner_id, created_at FROM words WHERE term = $1 AND owner_id = $2`, term, *ownerID)
	}
	if err := row.Scan(&w.ID, &w.Term, &w.Translation, &w.OwnerID, &w.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entity.ErrWordNotFound
		}
		return nil, fmt.Errorf("find word: %w", err)
	}
	return &w, nil
}

func (r *wordRepository) Create(ctx context.Context, word *entity.Word) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	created := *word
	err := r.db.QueryRow(ctx,
		`INSERT INTO words (term, translation, owner_id) VALUES ($1, $2, $3) RETURNING id, created_at`,
		word.Term, word.Translation, word.OwnerID,
	).Scan(&created.ID, &created.CreatedAt)
	if err != nil {
		return nil, translateWordError(err)
	}
	return &created, nil
}

func (r *wordRepository) SampleEligible(ctx context.Context, query repository.SampleWordsQuery) ([]entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if query.Limit <= 0 {
		return nil, nil
	}
	stmt := pgSampleSharedWords
	if query.Scope == repository.ScopeOwned {
		stmt = pgSampleOwnedWords
	}
	rows, err := r.db.Query(ctx, stmt, query.UserID, query.MasteryThreshold, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("sample %s words: %w", query.Scope, err)
	}
	defer rows.Close()

	var words []entity.Word
	for rows.Next() {
		var w entity.Word
		if err := rows.Scan(&w.ID, &w.Term, &w.Translation, &w.OwnerID, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sample %s words: %w", query.Scope, err)
	}
	return words, nil
}

func (r *wordRepository) ListOwned(ctx context.Context, userID int64) ([]entity.OwnedWord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `
SELECT w.term, e.times_shown
FROM words w
LEFT JOIN exposures e ON e.word_id = w.id AND e.user_id = $1
WHERE w.owner_id = $1
ORDER BY w.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned words: %w", err)
	}
	defer rows.Close()

	var words []entity.OwnedWord
	for rows.Next() {
		var (
			w     entity.OwnedWord
			shown *int32
		)
		if err := rows.Scan(&w.Term, &shown); err != nil {
			return nil, fmt.Errorf("scan owned word: %w", err)
		}
		if shown != nil {
			n := int(*shown)
			w.TimesShown = &n
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list owned words: %w", err)
	}
	return words, nil
}

func (r *wordRepository) DeleteOwned(ctx context.Context, userID int64, term string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	tag, err := r.db.Exec(ctx, `DELETE FROM words WHERE term = $1 AND owner_id = $2`, term, userID)
	if err != nil {
		return false, fmt.Errorf("delete owned word: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}
