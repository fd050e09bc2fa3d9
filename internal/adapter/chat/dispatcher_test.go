package chat

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	mu       sync.Mutex
	bySess   map[int64][]string
	sessions map[*Session]struct{}
	block    chan struct{}
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{bySess: map[int64][]string{}, sessions: map[*Session]struct{}{}}
}

func (h *recordingHandler) Handle(_ context.Context, s *Session, in Incoming) error {
	if h.block != nil && in.SessionID == 1 {
		<-h.block
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.bySess[s.ID] = append(h.bySess[s.ID], in.Text)
	h.sessions[s] = struct{}{}
	if in.Text == "panic" {
		panic("boom")
	}
	return nil
}

func (h *recordingHandler) count(id int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.bySess[id])
}

func discardLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestDispatcherKeepsPerSessionOrder(t *testing.T) {
	h := newRecordingHandler()
	d := NewDispatcher(h, time.Minute, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())

	texts := []string{"a", "b", "c", "d", "e"}
	for _, text := range texts {
		require.NoError(t, d.Dispatch(ctx, Incoming{SessionID: 7, Text: text}))
	}
	require.Eventually(t, func() bool { return h.count(7) == len(texts) }, time.Second, 5*time.Millisecond)
	assert.Equal(t, texts, h.bySess[7])
	assert.Equal(t, 1, d.Sessions())

	cancel()
	d.Wait()
	assert.Equal(t, 0, d.Sessions())
}

func TestDispatcherSessionsDoNotBlockEachOther(t *testing.T) {
	h := newRecordingHandler()
	h.block = make(chan struct{})
	d := NewDispatcher(h, time.Minute, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		d.Wait()
	}()

	require.NoError(t, d.Dispatch(ctx, Incoming{SessionID: 1, Text: "stuck"}))
	require.NoError(t, d.Dispatch(ctx, Incoming{SessionID: 2, Text: "free"}))

	require.Eventually(t, func() bool { return h.count(2) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, h.count(1))
	close(h.block)
	require.Eventually(t, func() bool { return h.count(1) == 1 }, time.Second, 5*time.Millisecond)
}

func TestDispatchDropsOverflowWithoutBlocking(t *testing.T) {
	h := newRecordingHandler()
	h.block = make(chan struct{})
	d := NewDispatcher(h, time.Minute, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		d.Wait()
	}()

	accepted, busy := 0, 0
	for i := 0; i < inboxSize+2; i++ {
		err := d.Dispatch(ctx, Incoming{SessionID: 1, Text: "flood"})
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, ErrSessionBusy):
			busy++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.GreaterOrEqual(t, busy, 1)
	assert.LessOrEqual(t, accepted, inboxSize+1)

	require.NoError(t, d.Dispatch(ctx, Incoming{SessionID: 2, Text: "free"}))
	require.Eventually(t, func() bool { return h.count(2) == 1 }, time.Second, 5*time.Millisecond)

	close(h.block)
	require.Eventually(t, func() bool { return h.count(1) == accepted }, time.Second, 5*time.Millisecond)
}

func TestDispatcherIdleWorkerRestartsWithFreshSession(t *testing.T) {
	h := newRecordingHandler()
	d := NewDispatcher(h, 20*time.Millisecond, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, d.Dispatch(ctx, Incoming{SessionID: 3, Text: "one"}))
	require.Eventually(t, func() bool { return h.count(3) == 1 && d.Sessions() == 0 }, time.Second, 5*time.Millisecond)

	require.NoError(t, d.Dispatch(ctx, Incoming{SessionID: 3, Text: "two"}))
	require.Eventually(t, func() bool { return h.count(3) == 2 }, time.Second, 5*time.Millisecond)

	h.mu.Lock()
	assert.Len(t, h.sessions, 2)
	h.mu.Unlock()
}

func TestDispatcherSurvivesHandlerPanic(t *testing.T) {
	h := newRecordingHandler()
	d := NewDispatcher(h, time.Minute, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	defer func() {
		cancel()
		d.Wait()
	}()

	require.NoError(t, d.Dispatch(ctx, Incoming{SessionID: 9, Text: "panic"}))
	require.NoError(t, d.Dispatch(ctx, Incoming{SessionID: 9, Text: "after"}))
	require.Eventually(t, func() bool { return h.count(9) == 2 }, time.Second, 5*time.Millisecond)
}

func TestDispatchAfterCancel(t *testing.T) {
	d := NewDispatcher(newRecordingHandler(), 0, discardLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, d.Dispatch(ctx, Incoming{SessionID: 1, Text: "late"}), context.Canceled)
	d.Wait()
	assert.Equal(t, 0, d.Sessions())
}
