package repository

import (
	"context"

	"github.com/eslsoft/vocquiz/internal/entity"
)

// UserRepository abstracts persistence for players and their scores.
type UserRepository interface {
	FindByExternalID(ctx context.Context, externalID int64) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) (*entity.User, error)
	// AdjustPoints adds delta (which may be negative) to the stored total.
	AdjustPoints(ctx context.Context, externalID int64, delta int64) error
	// ListByPointsDesc returns all users ordered by points, highest first;
	// ties keep insertion order.
	ListByPointsDesc(ctx context.Context) ([]entity.RatingEntry, error)
}
