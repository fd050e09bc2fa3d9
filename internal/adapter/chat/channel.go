// Package chat implements the conversation flow of the quiz independently of
// the messaging service that carries it.
package chat

import "context"

// Message is one outgoing chat message. Keyboard rows replace the reply
// keyboard of the client; a nil Keyboard leaves it unchanged.
type Message struct {
	Text     string
	Keyboard [][]string
	HTML     bool
}

// Incoming is one text message received from a player.
type Incoming struct {
	SessionID int64
	UserID    int64
	UserName  string
	Text      string
}

// Channel delivers messages to a chat session.
type Channel interface {
	Send(ctx context.Context, sessionID int64, msg Message) error
}

// Handler processes the messages of one session in order.
type Handler interface {
	Handle(ctx context.Context, session *Session, in Incoming) error
}
