package chat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const inboxSize = 16

// ErrSessionBusy is returned when a session already has a full inbox.
var ErrSessionBusy = errors.New("session inbox is full")

// Dispatcher feeds incoming messages to one worker goroutine per session, so
// a session sees its messages in order while sessions run concurrently.
// Workers exit after being idle for the configured duration and are
// recreated, with a fresh session, on the next message.
type Dispatcher struct {
	handler Handler
	idle    time.Duration
	logger  logrus.FieldLogger

	mu      sync.Mutex
	workers map[int64]*worker
	wg      sync.WaitGroup
}

type worker struct {
	inbox chan Incoming
	// pending counts messages accepted by Dispatch but not yet received; guarded by Dispatcher.mu.
	pending int
}

// NewDispatcher creates a dispatcher. A non-positive idle keeps workers forever.
func NewDispatcher(handler Handler, idle time.Duration, logger logrus.FieldLogger) *Dispatcher {
	return &Dispatcher{
		handler: handler,
		idle:    idle,
		logger:  logger,
		workers: make(map[int64]*worker),
	}
}

// Dispatch queues in for its session without blocking. A message for a session
// whose inbox is full is dropped with ErrSessionBusy. Workers started here stop
// when ctx is done.
func (d *Dispatcher) Dispatch(ctx context.Context, in Incoming) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	d.mu.Lock()
	w, ok := d.workers[in.SessionID]
	if !ok {
		w = &worker{inbox: make(chan Incoming, inboxSize)}
		d.workers[in.SessionID] = w
		d.wg.Add(1)
		go d.run(ctx, in.SessionID, w)
	}
	w.pending++
	d.mu.Unlock()

	select {
	case w.inbox <- in:
		return nil
	default:
		d.mu.Lock()
		w.pending--
		d.mu.Unlock()
		d.logger.WithField("session", in.SessionID).Warn("session inbox full, message dropped")
		return ErrSessionBusy
	}
}

// Sessions returns the number of live session workers.
func (d *Dispatcher) Sessions() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.workers)
}

// Wait blocks until every worker has exited.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

func (d *Dispatcher) run(ctx context.Context, id int64, w *worker) {
	defer d.wg.Done()
	defer d.remove(id, w)

	log := d.logger.WithField("session", id)
	session := &Session{ID: id}

	var (
		timer   *time.Timer
		timeout <-chan time.Time
	)
	if d.idle > 0 {
		timer = time.NewTimer(d.idle)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case <-ctx.Done():
			return
		case in := <-w.inbox:
			d.mu.Lock()
			w.pending--
			d.mu.Unlock()

			if err := d.handle(ctx, session, in); err != nil {
				log.WithError(err).WithField("state", session.State).Error("handle message")
			}
			if timer != nil {
				timer.Reset(d.idle)
			}
		case <-timeout:
			d.mu.Lock()
			if w.pending > 0 {
				d.mu.Unlock()
				timer.Reset(d.idle)
				continue
			}
			delete(d.workers, id)
			d.mu.Unlock()
			log.Debug("session idle, worker stopped")
			return
		}
	}
}

func (d *Dispatcher) handle(ctx context.Context, session *Session, in Incoming) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return d.handler.Handle(ctx, session, in)
}

func (d *Dispatcher) remove(id int64, w *worker) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.workers[id] == w {
		delete(d.workers, id)
	}
}
