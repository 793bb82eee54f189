package ui

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/drake/chartform/event"
	"github.com/drake/chartform/session"
)

// fakeSource serves a fixed snapshot and records subscriptions.
type fakeSource struct {
	snap session.Snapshot

	mu           sync.Mutex
	subscribed   bool
	unsubscribed bool
}

func (f *fakeSource) Submit(event.Intent) {}

func (f *fakeSource) Snapshot() session.Snapshot { return f.snap }

func (f *fakeSource) Subscribe(func(session.Snapshot)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.subscribed = true
	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		f.unsubscribed = true
	}
}

func headlessUI(src Source) *BubbleTeaUI {
	var in, out bytes.Buffer
	return NewBubbleTeaUI(src, tea.WithInput(&in), tea.WithOutput(&out), tea.WithoutSignalHandler())
}

func TestQuitWhenStopsTheProgram(t *testing.T) {
	ctrl := session.NewController(irisInit(), session.HostFunc(func(event.Outbound) {}))
	src := &fakeSource{snap: ctrl.Snapshot()}
	tui := headlessUI(src)

	ctx, cancel := context.WithCancel(context.Background())
	tui.QuitWhen(ctx)

	errCh := make(chan error, 1)
	go func() { errCh <- tui.Run() }()
	cancel()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("ui did not quit")
	}

	select {
	case <-tui.Done():
	default:
		t.Fatal("done not closed")
	}

	src.mu.Lock()
	defer src.mu.Unlock()
	require.True(t, src.subscribed)
	require.True(t, src.unsubscribed)
}

func TestQuitBeforeRunIsDelivered(t *testing.T) {
	ctrl := session.NewController(irisInit(), session.HostFunc(func(event.Outbound) {}))
	tui := headlessUI(&fakeSource{snap: ctrl.Snapshot()})
	tui.Quit()

	errCh := make(chan error, 1)
	go func() { errCh <- tui.Run() }()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("queued quit was lost")
	}
}
