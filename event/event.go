package event

import "github.com/drake/chartform/form"

// Type identifies the source of a queued event
type Type int

const (
	HostMessage Type = iota // A message pushed by the host
	UserIntent              // A local edit from the presenter
	SystemControl
)

// Control action constants
const (
	ActionFlush = "flush"
)

// ControlOp contains control operation details
type ControlOp struct {
	Action string // Use Action* constants
}

// Event is the universal packet handled by the session loop
type Event struct {
	Type     Type
	Message  Inbound   // For HostMessage
	Intent   Intent    // For UserIntent
	Control  ControlOp // For SystemControl events
	Callback func()    // Run on the loop after the event is handled
}

// IntentKind identifies a local edit.
type IntentKind int

const (
	IntentInput       IntentKind = iota // value typed, not committed
	IntentChange                        // value committed
	IntentBlur                          // focused editor lost focus
	IntentAddLayer
	IntentRemoveLayer
)

// Intent is a change a child editor reports upward. The session is the only
// writer of the model; editors never touch it directly.
type Intent struct {
	Kind   IntentKind
	Target form.Target // Input, Change
	Value  string      // Input, Change
	Layer  int         // RemoveLayer
}

func Input(t form.Target, value string) Intent {
	return Intent{Kind: IntentInput, Target: t, Value: value}
}

func Change(t form.Target, value string) Intent {
	return Intent{Kind: IntentChange, Target: t, Value: value}
}

func Blur() Intent { return Intent{Kind: IntentBlur} }

func AddLayerIntent() Intent { return Intent{Kind: IntentAddLayer} }

func RemoveLayerIntent(i int) Intent { return Intent{Kind: IntentRemoveLayer, Layer: i} }
