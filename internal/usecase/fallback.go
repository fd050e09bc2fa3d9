package usecase

import (
	"context"
	"fmt"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

var fallbackPairs = []entity.WordPair{
	{Term: "кот", Translation: "cat"},
	{Term: "собака", Translation: "dog"},
	{Term: "молоко", Translation: "milk"},
	{Term: "хлеб", Translation: "bread"},
	{Term: "яблоко", Translation: "apple"},
	{Term: "машина", Translation: "car"},
	{Term: "дом", Translation: "house"},
	{Term: "окно", Translation: "window"},
	{Term: "дерево", Translation: "tree"},
	{Term: "книга", Translation: "book"},
	{Term: "ручка", Translation: "pen"},
	{Term: "стол", Translation: "table"},
	{Term: "стул", Translation: "chair"},
	{Term: "часы", Translation: "clock"},
	{Term: "зонт", Translation: "umbrella"},
	{Term: "солнце", Translation: "sun"},
	{Term: "луна", Translation: "moon"},
	{Term: "звезда", Translation: "star"},
	{Term: "рыба", Translation: "fish"},
	{Term: "птица", Translation: "bird"},
}

// FallbackPairs returns a copy of the built-in word list.
func FallbackPairs() []entity.WordPair {
	return append([]entity.WordPair(nil), fallbackPairs...)
}

// fallbackSource serves rounds from the built-in list. It never fails: a word
// that cannot be registered in storage is served with WordID 0.
type fallbackSource struct {
	words  repository.WordRepository
	logger logrus.FieldLogger
}

func (s *fallbackSource) Produce(ctx context.Context, quantity int) []entity.Candidate {
	picked := lo.Samples(fallbackPairs, quantity)
	return lo.Map(picked, func(pair entity.WordPair, _ int) entity.Candidate {
		c := entity.Candidate{Term: pair.Term, Translation: pair.Translation}
		word, err := ensureSharedWord(ctx, s.words, pair)
		if err != nil {
			s.logger.WithError(err).WithField("term", pair.Term).Error("register fallback word")
			return c
		}
		// a stored shared word wins over the built-in translation
		return entity.Candidate{Term: word.Term, Translation: word.Translation, WordID: word.ID}
	})
}

// SeedSharedWords registers pairs in the shared pool, skipping those already
// present, and returns how many pairs are now available.
func SeedSharedWords(ctx context.Context, words repository.WordRepository, pairs []entity.WordPair) (int, error) {
	for i, pair := range pairs {
		if _, err := ensureSharedWord(ctx, words, pair); err != nil {
			return i, fmt.Errorf("seed %q: %w", pair.Term, err)
		}
	}
	return len(pairs), nil
}
