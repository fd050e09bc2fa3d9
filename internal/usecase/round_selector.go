package usecase

import (
	"context"
	"math/rand/v2"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// RoundSize is the number of words in a round: the prompt plus distractors.
type RoundSize int

// DefaultRoundSize matches the four-button keyboard of the chat client.
const DefaultRoundSize RoundSize = 4

// RoundObserver is notified about every served round.
type RoundObserver interface {
	RoundServed(source entity.SourceKind)
	RoundFallback()
}

// NoopRoundObserver ignores all notifications.
type NoopRoundObserver struct{}

func (NoopRoundObserver) RoundServed(entity.SourceKind) {}
func (NoopRoundObserver) RoundFallback()                {}

// RoundSelector assembles the next quiz round for a user.
type RoundSelector interface {
	// SelectRound always returns a playable round. Failures of the word
	// sources are logged and answered from the built-in word list.
	SelectRound(ctx context.Context, externalID int64) *entity.Round
}

// NewRoundSelector wires the three word sources over the given stores.
func NewRoundSelector(
	users repository.UserRepository,
	words repository.WordRepository,
	bulk repository.BulkWordSource,
	size RoundSize,
	observer RoundObserver,
	logger logrus.FieldLogger,
) RoundSelector {
	if size < 2 {
		size = DefaultRoundSize
	}
	if observer == nil {
		observer = NoopRoundObserver{}
	}
	general := NewGeneralSource(words)
	return &roundSelector{
		users: users,
		sources: []WordSource{
			NewBulkSource(bulk, words, general, logger),
			NewOwnedSource(words, general),
			general,
		},
		fallback: &fallbackSource{words: words, logger: logger},
		size:     int(size),
		pick:     rand.IntN,
		observer: observer,
		logger:   logger,
	}
}

type roundSelector struct {
	users    repository.UserRepository
	sources  []WordSource
	fallback *fallbackSource
	size     int
	pick     func(n int) int
	observer RoundObserver
	logger   logrus.FieldLogger
}

func (s *roundSelector) SelectRound(ctx context.Context, externalID int64) *entity.Round {
	log := s.logger.WithField("user", externalID)

	user, err := s.users.FindByExternalID(ctx, externalID)
	if err != nil {
		log.WithError(err).Error("resolve user for round")
		return s.fallbackRound(ctx, 0, log)
	}

	source := s.sources[s.pick(len(s.sources))]
	log = log.WithField("source", source.Kind())
	log.Debug("selecting round")

	candidates, err := s.produce(ctx, source, user)
	if err != nil {
		log.WithError(err).Warn("word source failed, serving built-in words")
		return s.fallbackRound(ctx, user.ID, log)
	}

	round, err := entity.NewRound(user.ID, source.Kind(), candidates)
	if err != nil {
		log.WithError(err).Warn("build round, serving built-in words")
		return s.fallbackRound(ctx, user.ID, log)
	}
	s.observer.RoundServed(round.Source)
	log.WithFields(logrus.Fields{"round": round.ID, "word_id": round.WordID}).Debug("round ready")
	return round
}

func (s *roundSelector) produce(ctx context.Context, source WordSource, user *entity.User) ([]entity.Candidate, error) {
	set, err := source.Produce(ctx, user, s.size)
	if err != nil {
		return nil, err
	}
	candidates := usableCandidates(set.Items(), s.size)
	if len(candidates) < 2 {
		return nil, entity.ErrNotEnoughCandidates
	}
	return candidates, nil
}

func (s *roundSelector) fallbackRound(ctx context.Context, userID int64, log logrus.FieldLogger) *entity.Round {
	s.observer.RoundFallback()
	candidates := usableCandidates(s.fallback.Produce(ctx, s.size), s.size)
	round, err := entity.NewRound(userID, entity.SourceFallback, candidates)
	if err != nil {
		// the built-in list is never empty
		panic(err)
	}
	log.WithFields(logrus.Fields{"round": round.ID, "word_id": round.WordID}).Debug("fallback round ready")
	return round
}

// usableCandidates drops entries whose translation repeats an earlier one, so
// every choice on the keyboard is distinct, and caps the list at size.
func usableCandidates(items []entity.Candidate, size int) []entity.Candidate {
	items = lo.UniqBy(items, func(c entity.Candidate) string { return c.Translation })
	if len(items) > size {
		items = items[:size]
	}
	return items
}
