package usecase

import (
	"context"
	"fmt"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
)

// MasteryTracker counts how often each user has been shown each word.
type MasteryTracker interface {
	// RecordShown bumps the exposure counter and returns its new value.
	// A zero wordID (an unregistered built-in word) is ignored.
	RecordShown(ctx context.Context, externalID, wordID int64) (int, error)
	IsMastered(timesShown *int) bool
}

// NewMasteryTracker builds a tracker over the user and exposure stores.
func NewMasteryTracker(users repository.UserRepository, exposures repository.ExposureRepository) MasteryTracker {
	return &masteryTracker{users: users, exposures: exposures}
}

type masteryTracker struct {
	users     repository.UserRepository
	exposures repository.ExposureRepository
}

func (m *masteryTracker) RecordShown(ctx context.Context, externalID, wordID int64) (int, error) {
	if wordID == 0 {
		return 0, nil
	}
	user, err := m.users.FindByExternalID(ctx, externalID)
	if err != nil {
		return 0, err
	}
	shown, err := m.exposures.Increment(ctx, user.ID, wordID)
	if err != nil {
		return 0, fmt.Errorf("record exposure of word %d: %w", wordID, err)
	}
	return shown, nil
}

func (m *masteryTracker) IsMastered(timesShown *int) bool {
	return entity.IsMastered(timesShown)
}
