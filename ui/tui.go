package ui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/drake/chartform/event"
	"github.com/drake/chartform/session"
)

// Source is the session surface the UI needs.
type Source interface {
	Submitter
	Snapshot() session.Snapshot
	Subscribe(fn func(session.Snapshot)) func()
}

// BubbleTeaUI runs the form in a terminal.
// It bridges the session's observer callbacks with Bubble Tea's
// model/update/view event loop.
type BubbleTeaUI struct {
	program *tea.Program
	source  Source
	opts    []tea.ProgramOption

	// Synchronization for startup
	ready     chan struct{}
	readyOnce sync.Once

	// Shutdown coordination
	done     chan struct{}
	doneOnce sync.Once

	// Pending messages queued before program starts
	pendingMsgs  []tea.Msg
	pendingMsgMu sync.Mutex
}

// NewBubbleTeaUI creates a UI for the given session.
// With no options the program uses the alternate screen.
func NewBubbleTeaUI(source Source, opts ...tea.ProgramOption) *BubbleTeaUI {
	if len(opts) == 0 {
		opts = []tea.ProgramOption{tea.WithAltScreen()}
	}
	return &BubbleTeaUI{
		source: source,
		opts:   opts,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// sendOrQueue sends a message to the program, or queues it if not ready yet.
// Queued messages are delivered before any later one.
func (b *BubbleTeaUI) sendOrQueue(msg tea.Msg) {
	b.pendingMsgMu.Lock()
	select {
	case <-b.ready:
		b.pendingMsgMu.Unlock()
		b.program.Send(msg)
	default:
		b.pendingMsgs = append(b.pendingMsgs, msg)
		b.pendingMsgMu.Unlock()
	}
}

// Submit forwards an intent to the session.
// Rejections come back through the session log, not here.
func (b *BubbleTeaUI) Submit(in event.Intent) {
	b.source.Submit(in)
}

// Run starts the TUI and blocks until exit.
func (b *BubbleTeaUI) Run() error {
	// Subscribe before reading the initial snapshot so no commit is missed.
	unsubscribe := b.source.Subscribe(func(s session.Snapshot) {
		b.sendOrQueue(SnapshotMsg(s))
	})
	defer unsubscribe()

	model := NewModel(b.source.Snapshot(), b)
	b.program = tea.NewProgram(model, b.opts...)

	go func() {
		b.pendingMsgMu.Lock()
		defer b.pendingMsgMu.Unlock()

		for _, msg := range b.pendingMsgs {
			b.program.Send(msg)
		}
		b.pendingMsgs = nil
		b.readyOnce.Do(func() {
			close(b.ready)
		})
	}()

	_, err := b.program.Run()

	b.doneOnce.Do(func() {
		close(b.done)
	})

	return err
}

// Done returns a channel that closes when the UI exits.
func (b *BubbleTeaUI) Done() <-chan struct{} {
	return b.done
}

// QuitWhen quits the UI once ctx is done. It does not block.
func (b *BubbleTeaUI) QuitWhen(ctx context.Context) {
	go func() {
		select {
		case <-ctx.Done():
			b.Quit()
		case <-b.done:
		}
	}()
}

// Quit signals the TUI to exit.
func (b *BubbleTeaUI) Quit() {
	select {
	case <-b.ready:
		b.program.Quit()
	default:
		b.sendOrQueue(tea.QuitMsg{})
	}
}
