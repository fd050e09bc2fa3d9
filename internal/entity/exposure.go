package entity

// MasteryThreshold is the number of presentations after which a word counts as learned.
const MasteryThreshold = 4

// IsMastered reports whether a word shown timesShown times is learned.
// A nil count means the word was never shown and is still in progress.
func IsMastered(timesShown *int) bool {
	return timesShown != nil && *timesShown >= MasteryThreshold
}

// Exposure counts how often a user has been presented a word.
type Exposure struct {
	UserID     int64
	WordID     int64
	TimesShown int
}

// OwnedWord is a user-added term together with the user's exposure count.
type OwnedWord struct {
	Term       string
	TimesShown *int
}

// Mastered reports whether the owner has learned the word.
func (w OwnedWord) Mastered() bool { return IsMastered(w.TimesShown) }
