package session

import (
	"sync"

	"github.com/drake/chartform/event"
)

// MockHost implements Host for testing.
type MockHost struct {
	mu sync.Mutex

	// Captured calls
	Pushed []event.Outbound
}

func NewMockHost() *MockHost {
	return &MockHost{}
}

func (m *MockHost) Push(ev event.Outbound) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Pushed = append(m.Pushed, ev)
}

// Names returns the names of pushed events in order.
func (m *MockHost) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, len(m.Pushed))
	for i, ev := range m.Pushed {
		names[i] = ev.Name
	}
	return names
}

// Drain returns and clears captured events.
func (m *MockHost) Drain() []event.Outbound {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.Pushed
	m.Pushed = nil
	return out
}
