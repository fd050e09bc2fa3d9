package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/eslsoft/vocquiz/internal/entity"
)

func TestSeedSharedWordsIsIdempotent(t *testing.T) {
	store := newMemStore()
	store.CreateWord(&entity.Word{Term: "кот", Translation: "cat"})
	pairs := FallbackPairs()

	n, err := SeedSharedWords(context.Background(), wordRepo{store}, pairs)
	if err != nil {
		t.Fatalf("SeedSharedWords: %v", err)
	}
	if n != len(pairs) {
		t.Fatalf("seeded %d, want %d", n, len(pairs))
	}
	if got := store.wordCount(); got != len(pairs) {
		t.Fatalf("pool has %d words, want %d", got, len(pairs))
	}

	if _, err := SeedSharedWords(context.Background(), wordRepo{store}, pairs); err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if got := store.wordCount(); got != len(pairs) {
		t.Fatalf("second seed changed pool size to %d", got)
	}
}

func TestSeedSharedWordsStopsOnStorageError(t *testing.T) {
	n, err := SeedSharedWords(context.Background(), failingWords{}, FallbackPairs())
	if !errors.Is(err, errStorageDown) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 seeded, got %d", n)
	}
}

func TestFallbackPairsReturnsCopy(t *testing.T) {
	pairs := FallbackPairs()
	pairs[0].Term = "changed"
	if FallbackPairs()[0].Term == "changed" {
		t.Fatal("FallbackPairs exposes the built-in list")
	}
}

func TestFallbackUsesStoredTranslation(t *testing.T) {
	store := newMemStore()
	stored := store.CreateWord(&entity.Word{Term: "кот", Translation: "kitty"})
	src := &fallbackSource{words: wordRepo{store}, logger: quietLogger()}

	candidates := src.Produce(context.Background(), len(FallbackPairs()))
	for _, c := range candidates {
		if c.Term != "кот" {
			continue
		}
		if c.Translation != "kitty" || c.WordID != stored.ID {
			t.Fatalf("candidate %+v does not match stored word %+v", c, stored)
		}
		return
	}
	t.Fatal("кот missing from fallback candidates")
}
