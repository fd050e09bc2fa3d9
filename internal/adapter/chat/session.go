package chat

import "github.com/eslsoft/vocquiz/internal/entity"

// State is the position of a session in the conversation.
type State int

const (
	// StateNew is a session that has not seen a message yet.
	StateNew State = iota
	StateAwaitingName
	// StatePlaying waits for the answer to Session.Round.
	StatePlaying
	// StateIdle waits for the start button.
	StateIdle
	StateAwaitingNewWord
	StateAwaitingWordToDelete
)

func (s State) String() string {
	switch s {
	case StateNew:
		return "new"
	case StateAwaitingName:
		return "awaiting_name"
	case StatePlaying:
		return "playing"
	case StateIdle:
		return "idle"
	case StateAwaitingNewWord:
		return "awaiting_new_word"
	case StateAwaitingWordToDelete:
		return "awaiting_word_to_delete"
	default:
		return "unknown"
	}
}

// Session is the conversation state of one chat. It is owned by a single
// dispatcher worker and never shared.
type Session struct {
	ID     int64
	UserID int64
	State  State
	Round  *entity.Round
}
