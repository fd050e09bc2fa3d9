package repository

import "context"

// ExposureRepository tracks how often each user has seen each word.
type ExposureRepository interface {
	// Increment bumps the counter for (userID, wordID), creating it at 1, and
	// returns the new value.
	Increment(ctx context.Context, userID, wordID int64) (int, error)
}
