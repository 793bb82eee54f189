package lua

// Sink receives the messages the host script pushes back into the form.
// The session implements it; Deliver must not block.
type Sink interface {
	Deliver(name string, raw []byte) error
}
