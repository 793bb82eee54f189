package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/drake/chartform/event"
	"github.com/drake/chartform/form"
)

func startSession(t *testing.T, init event.Init) (*Session, *MockHost) {
	t.Helper()
	host := NewMockHost()
	s := New(init, host, Config{})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- s.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case <-errCh:
		case <-time.After(time.Second):
			t.Error("session did not stop")
		}
	})
	return s, host
}

// drain waits until every event queued so far has been handled.
func drain(t *testing.T, s *Session) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Flush(ctx))
}

func TestSessionAppliesHostMessagesInOrder(t *testing.T) {
	s, _ := startSession(t, irisInit())

	require.NoError(t, s.Deliver(event.UpdateRoot, []byte(`{"fields":{"chart_title":"first"}}`)))
	require.NoError(t, s.Deliver(event.UpdateRoot, []byte(`{"fields":{"chart_title":"second"}}`)))
	require.NoError(t, s.Deliver(event.UpdateLayer, []byte(`{"idx":0,"fields":{"chart_type":"area"}}`)))
	drain(t, s)

	snap := s.Snapshot()
	require.Equal(t, "second", snap.Root.ChartTitle)
	require.Equal(t, "area", snap.Layers[0].ChartType)
	require.Equal(t, uint64(4), s.Stats().EventsProcessed)
}

func TestSessionDeliverRejectsUnknown(t *testing.T) {
	s, _ := startSession(t, irisInit())
	require.Error(t, s.Deliver("explode", nil))
}

func TestSessionFlushCommitsPendingInput(t *testing.T) {
	s, host := startSession(t, irisInit())
	title := form.RootTarget(form.FieldChartTitle)

	s.Submit(event.Input(title, "Sal"))
	s.Submit(event.Input(title, "Sales"))
	drain(t, s)

	require.Equal(t, []event.Outbound{event.NewUpdateField(title, "Sales")}, host.Drain())
	require.Nil(t, s.Snapshot().Pending)
	require.Equal(t, Edited, s.Snapshot().State)
}

func TestSessionRejectedIntentsAreCounted(t *testing.T) {
	s, host := startSession(t, irisInit())
	s.Submit(event.RemoveLayerIntent(0))
	drain(t, s)

	require.Equal(t, uint64(1), s.Stats().Rejected)
	require.Empty(t, host.Pushed)
}

func TestSessionObserversSeeEveryCommit(t *testing.T) {
	s, _ := startSession(t, irisInit())

	seen := make(chan Snapshot, 8)
	unsub := s.Subscribe(func(snap Snapshot) { seen <- snap })

	s.Submit(event.AddLayerIntent())
	drain(t, s)
	snap := <-seen
	require.Len(t, snap.Layers, 2)

	unsub()
	s.Submit(event.RemoveLayerIntent(1))
	drain(t, s)
	require.Len(t, seen, 0)
	require.Len(t, s.Snapshot().Layers, 1)
}

func TestSessionFlushAfterClose(t *testing.T) {
	s := New(irisInit(), NewMockHost(), Config{})
	s.Close()
	require.ErrorIs(t, s.Flush(context.Background()), ErrClosed)
}

func TestSessionKeepsEveryEventPastQueueLimit(t *testing.T) {
	host := NewMockHost()
	s := New(irisInit(), host, Config{QueueLimit: 2})
	title := form.RootTarget(form.FieldChartTitle)

	// Nothing consumes until Run, so the queue backs up well past its limit.
	for i := 0; i < 30; i++ {
		s.Submit(event.Input(title, fmt.Sprintf("v%d", i)))
	}
	require.NoError(t, s.Deliver(event.UpdateLayer, []byte(`{"idx":0,"fields":{"chart_type":"bar"}}`)))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	drain(t, s)

	stats := s.Stats()
	require.Equal(t, uint64(32), stats.EventsProcessed)
	require.NotZero(t, stats.Overflows)

	snap := s.Snapshot()
	require.Equal(t, "v29", snap.Root.ChartTitle)
	require.Equal(t, "bar", snap.Layers[0].ChartType)
	require.Equal(t, []event.Outbound{event.NewUpdateField(title, "v29")}, host.Drain())
}
