package session

import "github.com/drake/chartform/event"

// Host receives the form's outbound notifications.
// Push is fire-and-forget: it must not block and the form never waits on a reply.
// Authoritative state comes back later as inbound messages.
type Host interface {
	Push(ev event.Outbound)
}

// HostFunc adapts a plain function to Host.
type HostFunc func(ev event.Outbound)

func (f HostFunc) Push(ev event.Outbound) { f(ev) }
