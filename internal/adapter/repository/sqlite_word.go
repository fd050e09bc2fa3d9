package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
)

const (
	sqliteSampleSharedWords = `
SELECT w.id, w.term, w.translation, w.owner_id, w.created_at
FROM words w
WHERE w.owner_id IS NULL
  AND w.id NOT IN (
    SELECT e.word_id FROM exposures e
    WHERE e.user_id = ?1
    GROUP BY e.word_id
    HAVING SUM(e.times_shown) >= ?2
  )
ORDER BY RANDOM()
LIMIT ?3`

	sqliteSampleOwnedWords = `
SELECT w.id, w.term, w.translation, w.owner_id, w.created_at
FROM words w
WHERE w.owner_id = ?1
  AND w.id NOT IN (
    SELECT e.word_id FROM exposures e
    WHERE e.user_id = ?1
    GROUP BY e.word_id
    HAVING SUM(e.times_shown) >= ?2
  )
ORDER BY RANDOM()
LIMIT ?3`
)

type sqliteWordRepository struct{ db *sql.DB }

// NewSQLiteWordRepository constructs a database/sql word repository for sqlite.
func NewSQLiteWordRepository(db *sql.DB) repository.WordRepository {
	return &sqliteWordRepository{db: db}
}

func (r *sqliteWordRepository) Find(ctx context.Context, term string, ownerID *int64) (*entity.Word, error) {
	var row *sql.Row
	if ownerID == nil {
		row = r.db.QueryRowContext(ctx,
			`SELECT id, term, translation, owner_id, created_at FROM words WHERE term = ? AND owner_id IS NULL`, term)
	} else {
		row = r.db.QueryRowContext(ctx,
			`SELECT id, term, translation, owner_id, created_at FROM words WHERE term = ? AND owner_id = ?`, term, *ownerID)
	}
	w, err := scanSQLiteWord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrWordNotFound
		}
		return nil, fmt.Errorf("find word: %w", err)
	}
	return w, nil
}

func (r *sqliteWordRepository) Create(ctx context.Context, word *entity.Word) (*entity.Word, error) {
	created := *word
	var owner sql.NullInt64
	if word.OwnerID != nil {
		owner = sql.NullInt64{Int64: *word.OwnerID, Valid: true}
	}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO words (term, translation, owner_id) VALUES (?, ?, ?) RETURNING id, created_at`,
		word.Term, word.Translation, owner,
	).Scan(&created.ID, sqliteTime{&created.CreatedAt})
	if err != nil {
		return nil, translateSQLiteError(err, entity.ErrDuplicateWord, entity.ErrWordNotFound)
	}
	return &created, nil
}

func (r *sqliteWordRepository) SampleEligible(ctx context.Context, query repository.SampleWordsQuery) ([]entity.Word, error) {
	if query.Limit <= 0 {
		return nil, nil
	}
	stmt := sqliteSampleSharedWords
	if query.Scope == repository.ScopeOwned {
		stmt = sqliteSampleOwnedWords
	}
	rows, err := r.db.QueryContext(ctx, stmt, query.UserID, query.MasteryThreshold, query.Limit)
	if err != nil {
		return nil, fmt.Errorf("sample %s words: %w", query.Scope, err)
	}
	defer rows.Close()

	var words []entity.Word
	for rows.Next() {
		w, err := scanSQLiteWord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan word: %w", err)
		}
		words = append(words, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sample %s words: %w", query.Scope, err)
	}
	return words, nil
}

func (r *sqliteWordRepository) ListOwned(ctx context.Context, userID int64) ([]entity.OwnedWord, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT w.term, e.times_shown
FROM words w
LEFT JOIN exposures e ON e.word_id = w.id AND e.user_id = ?1
WHERE w.owner_id = ?1
ORDER BY w.id`, userID)
	if err != nil {
		return nil, fmt.Errorf("list owned words: %w", err)
	}
	defer rows.Close()

	var words []entity.OwnedWord
	for rows.Next() {
		var (
			w     entity.OwnedWord
			shown sql.NullInt64
		)
		if err := rows.Scan(&w.Term, &shown); err != nil {
			return nil, fmt.Errorf("scan owned word: %w", err)
		}
		if shown.Valid {
			n := int(shown.Int64)
			w.TimesShown = &n
		}
		words = append(words, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list owned words: %w", err)
	}
	return words, nil
}

func (r *sqliteWordRepository) DeleteOwned(ctx context.Context, userID int64, term string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM words WHERE term = ? AND owner_id = ?`, term, userID)
	if err != nil {
		return false, fmt.Errorf("delete owned word: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete owned word: %w", err)
	}
	return affected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteWord(row rowScanner) (*entity.Word, error) {
	var (
		w     entity.Word
		owner sql.NullInt64
	)
	if err := row.Scan(&w.ID, &w.Term, &w.Translation, &owner, sqliteTime{&w.CreatedAt}); err != nil {
		return nil, err
	}
	if owner.Valid {
		id := owner.Int64
		w.OwnerID = &id
	}
	return &w, nil
}
