// Package console plays the quiz on a terminal.
package console

import (
	"bufio"
	"context"
	"fmt"
	"html"
	"io"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/eslsoft/vocquiz/internal/adapter/chat"
	"github.com/samber/lo"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// Console is a chat.Channel that prints messages and numbers keyboard buttons
// so they can be picked by typing the number.
type Console struct {
	out io.Writer

	mu      sync.Mutex
	buttons []string
}

var _ chat.Channel = (*Console)(nil)

// New returns a console writing to out.
func New(out io.Writer) *Console {
	return &Console{out: out}
}

// Send prints msg. HTML markup is stripped.
func (c *Console) Send(_ context.Context, _ int64, msg chat.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	text := msg.Text
	if msg.HTML {
		text = html.UnescapeString(tagPattern.ReplaceAllString(text, ""))
	}
	if _, err := fmt.Fprintln(c.out, text); err != nil {
		return err
	}
	if msg.Keyboard == nil {
		return nil
	}
	c.buttons = lo.Flatten(msg.Keyboard)
	for i, label := range c.buttons {
		if _, err := fmt.Fprintf(c.out, "  [%d] %s\n", i+1, label); err != nil {
			return err
		}
	}
	return nil
}

// Resolve maps a typed button number to its label; other input is returned trimmed.
func (c *Console) Resolve(input string) string {
	input = strings.TrimSpace(input)
	n, err := strconv.Atoi(input)
	if err != nil {
		return input
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if n < 1 || n > len(c.buttons) {
		return input
	}
	return c.buttons[n-1]
}

// Play runs one session reading lines from in until EOF or ctx is done.
func (c *Console) Play(ctx context.Context, in io.Reader, handler chat.Handler, userID int64, userName string) error {
	session := &chat.Session{ID: userID}
	send := func(text string) error {
		return handler.Handle(ctx, session, chat.Incoming{
			SessionID: userID,
			UserID:    userID,
			UserName:  userName,
			Text:      text,
		})
	}

	if err := send(chat.CommandStart); err != nil {
		return err
	}
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}
		line := c.Resolve(scanner.Text())
		if line == "" {
			continue
		}
		if line == "/quit" {
			return nil
		}
		if err := send(line); err != nil {
			return err
		}
	}
	return scanner.Err()
}
