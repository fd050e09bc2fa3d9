package entity

import (
	"strings"
	"time"
)

// Word is a term with its translation. A nil OwnerID places the word in the
// shared pool; otherwise it belongs to the user who added it.
type Word struct {
	ID          int64     `json:"id"`
	Term        string    `json:"term"`
	Translation string    `json:"translation"`
	OwnerID     *int64    `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Shared reports whether the word lives in the general pool.
func (w *Word) Shared() bool { return w.OwnerID == nil }

// WordPair is a bare term/translation pair as read from the bulk list or typed by a user.
type WordPair struct {
	Term        string
	Translation string
}

// Valid reports whether both halves are non-empty.
func (p WordPair) Valid() bool {
	return p.Term != "" && p.Translation != ""
}

// NormalizeWordToken trims and lowercases a term or translation.
func NormalizeWordToken(word string) string {
	trimmed := strings.TrimSpace(word)
	if trimmed == "" {
		return ""
	}
	return strings.ToLower(trimmed)
}

// ParseWordPair parses user input of the form "term, translation".
func ParseWordPair(input string) (WordPair, error) {
	parts := strings.Split(strings.ToLower(input), ",")
	if len(parts) != 2 {
		return WordPair{}, ErrInvalidWordPair
	}
	pair := WordPair{
		Term:        NormalizeWordToken(parts[0]),
		Translation: NormalizeWordToken(parts[1]),
	}
	if !pair.Valid() {
		return WordPair{}, ErrInvalidWordPair
	}
	return pair, nil
}
