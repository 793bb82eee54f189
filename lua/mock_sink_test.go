package lua

import "sync"

type delivered struct {
	Name string
	Raw  []byte
}

// MockSink implements Sink for testing.
type MockSink struct {
	mu sync.Mutex

	// Captured calls
	Delivered []delivered
}

func NewMockSink() *MockSink {
	return &MockSink{}
}

func (m *MockSink) Deliver(name string, raw []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Delivered = append(m.Delivered, delivered{Name: name, Raw: raw})
	return nil
}

// Drain returns and clears captured messages.
func (m *MockSink) Drain() []delivered {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.Delivered
	m.Delivered = nil
	return out
}
