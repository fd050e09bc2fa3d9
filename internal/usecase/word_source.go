package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/sirupsen/logrus"
)

// WordSource produces the candidate words for one round.
type WordSource interface {
	Kind() entity.SourceKind
	Produce(ctx context.Context, user *entity.User, quantity int) (*entity.CandidateSet, error)
}

// NewGeneralSource draws shared words the user has not mastered yet.
func NewGeneralSource(words repository.WordRepository) WordSource {
	return &generalSource{words: words}
}

type generalSource struct {
	words repository.WordRepository
}

func (s *generalSource) Kind() entity.SourceKind { return entity.SourceGeneral }

func (s *generalSource) Produce(ctx context.Context, user *entity.User, quantity int) (*entity.CandidateSet, error) {
	return sampleEligible(ctx, s.words, user, repository.ScopeShared, quantity)
}

// NewOwnedSource draws words the user added personally and tops up from general.
func NewOwnedSource(words repository.WordRepository, general WordSource) WordSource {
	return &ownedSource{words: words, general: general}
}

type ownedSource struct {
	words   repository.WordRepository
	general WordSource
}

func (s *ownedSource) Kind() entity.SourceKind { return entity.SourceOwned }

func (s *ownedSource) Produce(ctx context.Context, user *entity.User, quantity int) (*entity.CandidateSet, error) {
	set, err := sampleEligible(ctx, s.words, user, repository.ScopeOwned, quantity)
	if err != nil {
		return nil, err
	}
	if err := topUp(ctx, set, s.general, user, quantity); err != nil {
		return nil, err
	}
	return set, nil
}

// NewBulkSource drains words from the bulk list, registering each as a shared word.
func NewBulkSource(bulk repository.BulkWordSource, words repository.WordRepository, general WordSource, logger logrus.FieldLogger) WordSource {
	return &bulkSource{bulk: bulk, words: words, general: general, logger: logger}
}

type bulkSource struct {
	bulk    repository.BulkWordSource
	words   repository.WordRepository
	general WordSource
	logger  logrus.FieldLogger
}

func (s *bulkSource) Kind() entity.SourceKind { return entity.SourceBulk }

func (s *bulkSource) Produce(ctx context.Context, user *entity.User, quantity int) (*entity.CandidateSet, error) {
	pairs, err := s.bulk.DrainSample(ctx, quantity)
	if err != nil {
		s.logger.WithError(err).WithField("user", user.ExternalID).Warn("bulk source unavailable, using general pool")
		return s.general.Produce(ctx, user, quantity)
	}

	set := entity.NewCandidateSet()
	for _, pair := range pairs {
		word, err := ensureSharedWord(ctx, s.words, pair)
		if err != nil {
			return nil, fmt.Errorf("register bulk word %q: %w", pair.Term, err)
		}
		set.Add(entity.Candidate{Term: word.Term, Translation: word.Translation, WordID: word.ID})
	}
	if err := topUp(ctx, set, s.general, user, quantity); err != nil {
		return nil, err
	}
	return set, nil
}

func sampleEligible(ctx context.Context, words repository.WordRepository, user *entity.User, scope repository.OwnerScope, quantity int) (*entity.CandidateSet, error) {
	found, err := words.SampleEligible(ctx, repository.SampleWordsQuery{
		UserID:           user.ID,
		Scope:            scope,
		Limit:            quantity,
		MasteryThreshold: entity.MasteryThreshold,
	})
	if err != nil {
		return nil, fmt.Errorf("sample %s words: %w", scope, err)
	}
	set := entity.NewCandidateSet()
	for _, w := range found {
		set.Add(entity.Candidate{Term: w.Term, Translation: w.Translation, WordID: w.ID})
	}
	return set, nil
}

// topUp fills set up to quantity from general. Terms already present are kept.
func topUp(ctx context.Context, set *entity.CandidateSet, general WordSource, user *entity.User, quantity int) error {
	if set.Len() >= quantity {
		return nil
	}
	extra, err := general.Produce(ctx, user, quantity)
	if err != nil {
		return fmt.Errorf("top up from general pool: %w", err)
	}
	set.Merge(extra, quantity)
	return nil
}

// ensureSharedWord returns the shared word for pair, creating it when absent.
func ensureSharedWord(ctx context.Context, words repository.WordRepository, pair entity.WordPair) (*entity.Word, error) {
	word, err := words.Find(ctx, pair.Term, nil)
	if err == nil {
		return word, nil
	}
	if !errors.Is(err, entity.ErrWordNotFound) {
		return nil, err
	}
	word, err = words.Create(ctx, &entity.Word{Term: pair.Term, Translation: pair.Translation})
	if errors.Is(err, entity.ErrDuplicateWord) {
		// created concurrently by another session
		return words.Find(ctx, pair.Term, nil)
	}
	return word, err
}
