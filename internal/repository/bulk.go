package repository

import (
	"context"

	"github.com/eslsoft/vocquiz/internal/entity"
)

// BulkWordSource is a depletable list of word pairs. Pairs returned by
// DrainSample are removed from the list and never returned again.
type BulkWordSource interface {
	DrainSample(ctx context.Context, quantity int) ([]entity.WordPair, error)
	Remaining(ctx context.Context) (int, error)
}
