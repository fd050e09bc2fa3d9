package console

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/eslsoft/vocquiz/internal/adapter/chat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendStripsHTMLAndNumbersButtons(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)

	require.NoError(t, c.Send(context.Background(), 1, chat.Message{
		Text:     "How do you translate '<b>кот</b>'? &amp; more",
		Keyboard: [][]string{{"cat", "dog"}, {chat.LabelRating}},
		HTML:     true,
	}))

	assert.Equal(t, "How do you translate 'кот'? & more\n  [1] cat\n  [2] dog\n  [3] "+chat.LabelRating+"\n", out.String())
	assert.Equal(t, "dog", c.Resolve(" 2 "))
	assert.Equal(t, "7", c.Resolve("7"))
	assert.Equal(t, "horse", c.Resolve("horse"))
}

func TestSendKeepsButtonsWithoutKeyboard(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)
	require.NoError(t, c.Send(context.Background(), 1, chat.Message{Text: "pick", Keyboard: [][]string{{"a"}}}))
	require.NoError(t, c.Send(context.Background(), 1, chat.Message{Text: "plain <b>kept</b>"}))

	assert.Contains(t, out.String(), "plain <b>kept</b>")
	assert.Equal(t, "a", c.Resolve("1"))
}

type echoHandler struct{ got []string }

func (h *echoHandler) Handle(_ context.Context, s *chat.Session, in chat.Incoming) error {
	h.got = append(h.got, in.Text)
	s.State = chat.StatePlaying
	return nil
}

func TestPlay(t *testing.T) {
	var out bytes.Buffer
	c := New(&out)
	require.NoError(t, c.Send(context.Background(), 1, chat.Message{Text: "q", Keyboard: [][]string{{"cat", "dog"}}}))

	h := &echoHandler{}
	err := c.Play(context.Background(), strings.NewReader("2\n\ncat\n/quit\nignored\n"), h, 1, "Ann")
	require.NoError(t, err)
	assert.Equal(t, []string{chat.CommandStart, "dog", "cat"}, h.got)
}
