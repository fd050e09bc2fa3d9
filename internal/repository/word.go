package repository

import (
	"context"

	"github.com/eslsoft/vocquiz/internal/entity"
)

// SampleWordsQuery holds parameters for drawing eligible words for a user.
type SampleWordsQuery struct {
	UserID int64
	Scope  OwnerScope
	Limit  int
	// MasteryThreshold excludes words whose cumulative exposure for UserID reaches it.
	MasteryThreshold int
}

// WordRepository defines data access for vocabulary entries.
type WordRepository interface {
	// Find returns the word with the given term and owner (nil owner = shared pool).
	Find(ctx context.Context, term string, ownerID *int64) (*entity.Word, error)
	Create(ctx context.Context, word *entity.Word) (*entity.Word, error)
	// SampleEligible draws up to Limit random words the user has not mastered.
	SampleEligible(ctx context.Context, query SampleWordsQuery) ([]entity.Word, error)
	ListOwned(ctx context.Context, userID int64) ([]entity.OwnedWord, error)
	DeleteOwned(ctx context.Context, userID int64, term string) (bool, error)
}
