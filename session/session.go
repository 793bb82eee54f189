package session

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"sync/atomic"

	"github.com/drake/chartform/event"
	"github.com/drake/chartform/internal/buffer"
)

// ErrClosed is returned by Flush once the session has stopped.
var ErrClosed = errors.New("session closed")

// Config holds session configuration
type Config struct {
	Logger     *log.Logger // nil discards
	QueueLimit int         // queued events past which overflow is reported; 0 = 10000
}

// Stats is a point-in-time view of the session for diagnostics.
type Stats struct {
	EventsProcessed uint64
	Overflows       uint64 // events queued past the limit
	Rejected        uint64 // local intents refused by the controller
	Observers       int
	Layers          int
	Datasets        int
	State           SyncState
	Pending         bool
}

// Session owns a Controller and runs it on a single event loop. Host
// messages, local intents and flush requests are queued and handled one at a
// time, so the model never sees concurrent access.
type Session struct {
	ctrl   *Controller
	logger *log.Logger

	eventsIn  chan<- event.Event
	eventsOut <-chan event.Event

	// Latest published snapshot, readable from any goroutine
	latest atomic.Pointer[Snapshot]

	processed atomic.Uint64
	overflows atomic.Uint64
	rejected  atomic.Uint64

	// Shutdown coordination
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a new Session. It is passive - the loop starts in Run.
func New(init event.Init, host Host, cfg Config) *Session {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	limit := cfg.QueueLimit
	if limit <= 0 {
		limit = 10000
	}

	s := &Session{
		ctrl:   NewController(init, host),
		logger: logger,
		done:   make(chan struct{}),
	}
	// Host patches and user edits are never dropped: the queue grows instead.
	s.eventsIn, s.eventsOut = buffer.Unbounded[event.Event](s.done, 64, limit, func(event.Event) bool {
		if n := s.overflows.Add(1); n == 1 {
			s.logger.Printf("queue limit reached (%d), growing", limit)
		}
		return false
	})

	snap := s.ctrl.Snapshot()
	s.latest.Store(&snap)
	s.ctrl.Subscribe(func(snap Snapshot) {
		s.latest.Store(&snap)
	})

	return s
}

// Subscribe registers an observer of committed snapshots. Observers run on the
// session loop and must not block; hand the snapshot off instead.
func (s *Session) Subscribe(fn func(Snapshot)) func() {
	return s.ctrl.Subscribe(fn)
}

// Snapshot returns the most recently committed state.
func (s *Session) Snapshot() Snapshot {
	return *s.latest.Load()
}

// Run processes events until ctx is cancelled or Close is called.
func (s *Session) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			s.Close()
			return ctx.Err()
		case <-s.done:
			return nil
		case ev, ok := <-s.eventsOut:
			if !ok {
				return nil
			}
			s.handleEvent(ev)
		}
	}
}

// handleEvent executes a single event on the session loop.
func (s *Session) handleEvent(ev event.Event) {
	s.processed.Add(1)

	switch ev.Type {
	case event.HostMessage:
		if err := s.ctrl.Apply(ev.Message); err != nil {
			s.logger.Printf("ignoring host message: %v", err)
		}

	case event.UserIntent:
		if err := s.ctrl.Handle(ev.Intent); err != nil {
			s.rejected.Add(1)
			s.logger.Printf("rejected intent: %v", err)
		}

	case event.SystemControl:
		switch ev.Control.Action {
		case event.ActionFlush:
			s.ctrl.Flush()
		}
	}

	if ev.Callback != nil {
		ev.Callback()
	}
}

func (s *Session) enqueue(ev event.Event) bool {
	select {
	case <-s.done:
		return false
	case s.eventsIn <- ev:
		return true
	}
}

// Deliver decodes a named host message and queues it. Decoding errors are
// returned to the caller; the message is dropped.
func (s *Session) Deliver(name string, raw []byte) error {
	msg, err := event.DecodeInbound(name, raw)
	if err != nil {
		s.logger.Printf("dropping host message: %v", err)
		return err
	}
	s.Post(msg)
	return nil
}

// Post queues a decoded host message.
func (s *Session) Post(msg event.Inbound) {
	s.enqueue(event.Event{Type: event.HostMessage, Message: msg})
}

// Submit queues a local intent from the presenter.
func (s *Session) Submit(in event.Intent) {
	s.enqueue(event.Event{Type: event.UserIntent, Intent: in})
}

// Flush commits any pending edit and returns once the loop has done so, so a
// snapshot read afterwards is consistent. It must not be called from the loop.
func (s *Session) Flush(ctx context.Context) error {
	flushed := make(chan struct{})
	var once sync.Once
	ok := s.enqueue(event.Event{
		Type:     event.SystemControl,
		Control:  event.ControlOp{Action: event.ActionFlush},
		Callback: func() { once.Do(func() { close(flushed) }) },
	})
	if !ok {
		return ErrClosed
	}

	select {
	case <-flushed:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-s.done:
		return ErrClosed
	}
}

// Stats returns loop counters. Safe to call from any goroutine.
func (s *Session) Stats() Stats {
	snap := s.Snapshot()
	return Stats{
		EventsProcessed: s.processed.Load(),
		Overflows:       s.overflows.Load(),
		Rejected:        s.rejected.Load(),
		Observers:       s.ctrl.observers.Len(),
		Layers:          len(snap.Layers),
		Datasets:        len(snap.Datasets),
		State:           snap.State,
		Pending:         snap.Pending != nil,
	}
}

// Done is closed when the session stops.
func (s *Session) Done() <-chan struct{} { return s.done }

// Close stops the loop. Queued events are discarded.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}
