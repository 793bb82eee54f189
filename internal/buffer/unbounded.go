package buffer

// Unbounded creates a channel buffer that grows as needed, so producers such as
// the host bridge never block on a slow consumer.
// It returns a write-only channel to feed data in, and a read-only channel to read data out.
//
// done: Stops the buffer goroutine; queued items are discarded.
// initialCap: The starting size of the backing slice (performance optimization).
// hardLimit: The number of queued items at which shedding starts (safety valve).
// shed: Consulted at the limit with the oldest queued item. If it accepts, the
// item is dropped; otherwise the queue grows past the limit. nil always drops.
//
// Usage:
//
//	in, out := buffer.Unbounded[event.Event](done, 64, 10000, nil)
//	in <- ev
//	ev := <-out
func Unbounded[T any](done <-chan struct{}, initialCap, hardLimit int, shed func(T) bool) (chan<- T, <-chan T) {
	in := make(chan T, 10)
	out := make(chan T, 10)

	go func() {
		defer close(out)

		queue := make([]T, 0, initialCap)

		for {
			var next T
			var downstream chan T

			// Enable the 'out' case only if we have data to send.
			if len(queue) > 0 {
				next = queue[0]
				downstream = out
			}

			select {
			case <-done:
				return

			case val, ok := <-in:
				if !ok {
					// Input closed. Flush remaining queue then exit.
					for _, item := range queue {
						select {
						case out <- item:
						case <-done:
							return
						}
					}
					return
				}

				if hardLimit > 0 && len(queue) >= hardLimit {
					queue = shedOne(queue, shed)
				}

				queue = append(queue, val)

			case downstream <- next:
				queue = queue[1:]
			}
		}
	}()

	return in, out
}

// shedOne drops the oldest item if shed accepts it.
func shedOne[T any](queue []T, shed func(T) bool) []T {
	if shed == nil || shed(queue[0]) {
		return queue[1:]
	}
	return queue
}
