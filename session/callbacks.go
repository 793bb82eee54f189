package session

import "sync"

// ObserverManager manages snapshot observers.
// Subscribe may be called from any goroutine; observers run on the session loop.
type ObserverManager struct {
	mu       sync.Mutex
	registry map[int]func(Snapshot)
	order    []int
	nextID   int
}

// NewObserverManager creates a new observer manager.
func NewObserverManager() *ObserverManager {
	return &ObserverManager{
		registry: make(map[int]func(Snapshot)),
	}
}

// Register stores an observer and returns a function that removes it.
func (o *ObserverManager) Register(fn func(Snapshot)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	id := o.nextID
	o.registry[id] = fn
	o.order = append(o.order, id)

	var once sync.Once
	return func() {
		once.Do(func() { o.remove(id) })
	}
}

func (o *ObserverManager) remove(id int) {
	o.mu.Lock()
	defer o.mu.Unlock()

	delete(o.registry, id)
	for i, v := range o.order {
		if v == id {
			o.order = append(o.order[:i:i], o.order[i+1:]...)
			break
		}
	}
}

// Notify calls every observer in registration order.
func (o *ObserverManager) Notify(s Snapshot) {
	o.mu.Lock()
	fns := make([]func(Snapshot), 0, len(o.order))
	for _, id := range o.order {
		fns = append(fns, o.registry[id])
	}
	o.mu.Unlock()

	for _, fn := range fns {
		fn(s)
	}
}

// Len returns the number of registered observers.
func (o *ObserverManager) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.order)
}
