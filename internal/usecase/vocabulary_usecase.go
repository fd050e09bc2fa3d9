package usecase

import (
	"context"
	"strings"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
)

// VocabularyUsecase covers player registration and personal word lists.
type VocabularyUsecase interface {
	Register(ctx context.Context, externalID int64, name string) (*entity.User, error)
	FindUser(ctx context.Context, externalID int64) (*entity.User, error)
	// AddWord parses "term, translation" and stores it as the user's own word.
	AddWord(ctx context.Context, externalID int64, input string) (*entity.Word, error)
	// DeleteWord reports whether the user owned a word with that term.
	DeleteWord(ctx context.Context, externalID int64, term string) (bool, error)
	ListWords(ctx context.Context, externalID int64) ([]entity.OwnedWord, error)
}

// NewVocabularyUsecase wires the repositories.
func NewVocabularyUsecase(users repository.UserRepository, words repository.WordRepository) VocabularyUsecase {
	return &vocabularyUsecase{users: users, words: words}
}

type vocabularyUsecase struct {
	users repository.UserRepository
	words repository.WordRepository
}

func (u *vocabularyUsecase) Register(ctx context.Context, externalID int64, name string) (*entity.User, error) {
	user := &entity.User{ExternalID: externalID, Name: strings.TrimSpace(name)}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return u.users.Create(ctx, user)
}

func (u *vocabularyUsecase) FindUser(ctx context.Context, externalID int64) (*entity.User, error) {
	return u.users.FindByExternalID(ctx, externalID)
}

func (u *vocabularyUsecase) AddWord(ctx context.Context, externalID int64, input string) (*entity.Word, error) {
	pair, err := entity.ParseWordPair(input)
	if err != nil {
		return nil, err
	}
	user, err := u.users.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return u.words.Create(ctx, &entity.Word{
		Term:        pair.Term,
		Translation: pair.Translation,
		OwnerID:     &user.ID,
	})
}

func (u *vocabularyUsecase) DeleteWord(ctx context.Context, externalID int64, term string) (bool, error) {
	term = entity.NormalizeWordToken(term)
	if term == "" {
		return false, nil
	}
	user, err := u.users.FindByExternalID(ctx, externalID)
	if err != nil {
		return false, err
	}
	return u.words.DeleteOwned(ctx, user.ID, term)
}

func (u *vocabularyUsecase) ListWords(ctx context.Context, externalID int64) ([]entity.OwnedWord, error) {
	user, err := u.users.FindByExternalID(ctx, externalID)
	if err != nil {
		return nil, err
	}
	return u.words.ListOwned(ctx, user.ID)
}
