package usecase

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"sort"
	"sync"

	"github.com/eslsoft/vocquiz/internal/entity"
	"github.com/eslsoft/vocquiz/internal/repository"
	"github.com/sirupsen/logrus"
)

// memStore implements the user, word and exposure repositories in memory.
type memStore struct {
	mu        sync.RWMutex
	userSeq   int64
	wordSeq   int64
	users     []*entity.User
	words     []*entity.Word
	exposures map[[2]int64]int
}

func newMemStore() *memStore {
	return &memStore{exposures: make(map[[2]int64]int)}
}

var (
	_ repository.UserRepository     = (*memStore)(nil)
	_ repository.WordRepository     = wordRepo{}
	_ repository.ExposureRepository = (*memStore)(nil)
)

func (s *memStore) FindByExternalID(ctx context.Context, externalID int64) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ExternalID == externalID {
			copy := *u
			return &copy, nil
		}
	}
	return nil, entity.ErrUserNotFound
}

func (s *memStore) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ExternalID == user.ExternalID {
			return nil, entity.ErrUserAlreadyExists
		}
	}
	s.userSeq++
	copy := *user
	copy.ID = s.userSeq
	s.users = append(s.users, &copy)
	out := copy
	return &out, nil
}

func (s *memStore) AdjustPoints(ctx context.Context, externalID int64, delta int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ExternalID == externalID {
			u.Points += delta
			return nil
		}
	}
	return entity.ErrUserNotFound
}

func (s *memStore) ListByPointsDesc(ctx context.Context) ([]entity.RatingEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.RatingEntry, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, entity.RatingEntry{ExternalID: u.ExternalID, Name: u.Name, Points: u.Points})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Points > out[j].Points })
	return out, nil
}

func sameOwner(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (s *memStore) Find(ctx context.Context, term string, ownerID *int64) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.words {
		if w.Term == term && sameOwner(w.OwnerID, ownerID) {
			copy := *w
			return &copy, nil
		}
	}
	return nil, entity.ErrWordNotFound
}

func (s *memStore) CreateWord(word *entity.Word) *entity.Word {
	w, err := s.createWord(word)
	if err != nil {
		panic(err)
	}
	return w
}

func (s *memStore) createWord(word *entity.Word) (*entity.Word, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, w := range s.words {
		if w.Term == word.Term && sameOwner(w.OwnerID, word.OwnerID) {
			return nil, entity.ErrDuplicateWord
		}
	}
	s.wordSeq++
	copy := *word
	copy.ID = s.wordSeq
	s.words = append(s.words, &copy)
	out := copy
	return &out, nil
}

// wordRepo adapts memStore to WordRepository; Create clashes with the user method.
type wordRepo struct{ *memStore }

func (r wordRepo) Create(ctx context.Context, word *entity.Word) (*entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.createWord(word)
}

func (s *memStore) shownLocked(userID, wordID int64) int {
	return s.exposures[[2]int64{userID, wordID}]
}

func (s *memStore) SampleEligible(ctx context.Context, q repository.SampleWordsQuery) ([]entity.Word, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.Word
	for _, w := range s.words {
		switch q.Scope {
		case repository.ScopeOwned:
			if w.OwnerID == nil || *w.OwnerID != q.UserID {
				continue
			}
		default:
			if w.OwnerID != nil {
				continue
			}
		}
		if s.shownLocked(q.UserID, w.ID) >= q.MasteryThreshold {
			continue
		}
		out = append(out, *w)
	}
	rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	if len(out) > q.Limit {
		out = out[:q.Limit]
	}
	return out, nil
}

func (s *memStore) ListOwned(ctx context.Context, userID int64) ([]entity.OwnedWord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []entity.OwnedWord
	for _, w := range s.words {
		if w.OwnerID == nil || *w.OwnerID != userID {
			continue
		}
		item := entity.OwnedWord{Term: w.Term}
		if n, ok := s.exposures[[2]int64{userID, w.ID}]; ok {
			item.TimesShown = &n
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *memStore) DeleteOwned(ctx context.Context, userID int64, term string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, w := range s.words {
		if w.Term == term && w.OwnerID != nil && *w.OwnerID == userID {
			s.words = append(s.words[:i], s.words[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memStore) Increment(ctx context.Context, userID, wordID int64) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]int64{userID, wordID}
	s.exposures[key]++
	return s.exposures[key], nil
}

func (s *memStore) wordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// fakeBulk is an in-memory depletable list.
type fakeBulk struct {
	mu    sync.Mutex
	pairs []entity.WordPair
	err   error
}

func (b *fakeBulk) DrainSample(ctx context.Context, quantity int) ([]entity.WordPair, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return nil, b.err
	}
	if len(b.pairs) == 0 {
		return nil, entity.ErrBulkSourceEmpty
	}
	n := min(quantity, len(b.pairs))
	out := append([]entity.WordPair(nil), b.pairs[:n]...)
	b.pairs = b.pairs[n:]
	return out, nil
}

func (b *fakeBulk) Remaining(context.Context) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pairs), nil
}

// failingWords fails every word query.
type failingWords struct{ wordRepo }

var errStorageDown = errors.New("storage down")

func (failingWords) Find(context.Context, string, *int64) (*entity.Word, error) {
	return nil, errStorageDown
}

func (failingWords) Create(context.Context, *entity.Word) (*entity.Word, error) {
	return nil, errStorageDown
}

func (failingWords) SampleEligible(context.Context, repository.SampleWordsQuery) ([]entity.Word, error) {
	return nil, errStorageDown
}

type countingObserver struct {
	mu        sync.Mutex
	served    map[entity.SourceKind]int
	fallbacks int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{served: make(map[entity.SourceKind]int)}
}

func (o *countingObserver) RoundServed(source entity.SourceKind) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.served[source]++
}

func (o *countingObserver) RoundFallback() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.fallbacks++
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
