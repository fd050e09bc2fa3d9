package entity

import "github.com/google/uuid"

// SourceKind tags where the words of a round came from.
type SourceKind string

const (
	SourceBulk     SourceKind = "bulk"
	SourceOwned    SourceKind = "owned"
	SourceGeneral  SourceKind = "general"
	SourceFallback SourceKind = "fallback"
)

func (k SourceKind) String() string { return string(k) }

// Candidate is a word offered by a source for the next round.
type Candidate struct {
	Term        string
	Translation string
	WordID      int64
}

// CandidateSet is an insertion-ordered set of candidates keyed by term.
// Adding a term that is already present keeps the earlier entry.
type CandidateSet struct {
	items []Candidate
	index map[string]int
}

// NewCandidateSet returns an empty set.
func NewCandidateSet() *CandidateSet {
	return &CandidateSet{index: make(map[string]int)}
}

// Add inserts c unless its term is already present and reports whether it was added.
func (s *CandidateSet) Add(c Candidate) bool {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[c.Term]; ok {
		return false
	}
	s.index[c.Term] = len(s.items)
	s.items = append(s.items, c)
	return true
}

// Merge adds candidates of other in order until the set holds limit entries.
// Terms already present are skipped. It returns how many were added.
func (s *CandidateSet) Merge(other *CandidateSet, limit int) int {
	added := 0
	for _, c := range other.Items() {
		if s.Len() >= limit {
			break
		}
		if s.Add(c) {
			added++
		}
	}
	return added
}

// Len returns the number of candidates.
func (s *CandidateSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns a copy of the candidates in insertion order.
func (s *CandidateSet) Items() []Candidate {
	if s == nil {
		return nil
	}
	return append([]Candidate(nil), s.items...)
}

// Round is one quiz question. It is never persisted.
type Round struct {
	ID          uuid.UUID
	UserID      int64
	Term        string
	Translation string
	Distractors []string
	WordID      int64
	Source      SourceKind
}

// NewRound builds a round from a candidate list: the first entry is the
// prompt, the translations of the rest become distractors.
func NewRound(userID int64, source SourceKind, candidates []Candidate) (*Round, error) {
	if len(candidates) == 0 {
		return nil, ErrNotEnoughCandidates
	}
	prompt := candidates[0]
	distractors := make([]string, 0, len(candidates)-1)
	for _, c := range candidates[1:] {
		distractors = append(distractors, c.Translation)
	}
	return &Round{
		ID:          uuid.New(),
		UserID:      userID,
		Term:        prompt.Term,
		Translation: prompt.Translation,
		Distractors: distractors,
		WordID:      prompt.WordID,
		Source:      source,
	}, nil
}

// Choices returns the distractors followed by the correct translation.
func (r *Round) Choices() []string {
	choices := make([]string, 0, len(r.Distractors)+1)
	choices = append(choices, r.Distractors...)
	return append(choices, r.Translation)
}

// IsCorrect reports whether answer matches the correct translation.
func (r *Round) IsCorrect(answer string) bool {
	return answer == r.Translation
}
