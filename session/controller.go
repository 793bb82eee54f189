package session

import (
	"errors"
	"fmt"

	"github.com/drake/chartform/event"
	"github.com/drake/chartform/form"
)

// ErrFormDisabled is returned for local edits while no dataset is selected.
var ErrFormDisabled = errors.New("form is disabled until a dataset is selected")

// SyncState tracks whether local edits have been answered by the host.
type SyncState int

const (
	// Idle: the model reflects the last state pushed by the host.
	Idle SyncState = iota
	// Edited: a local edit was sent and no host patch has arrived since.
	Edited
)

func (s SyncState) String() string {
	if s == Edited {
		return "edited"
	}
	return "idle"
}

// Snapshot is an immutable copy of the form state taken after a commit.
type Snapshot struct {
	Root       form.RootConfig
	Layers     []form.Layer
	Datasets   []form.Dataset
	MissingDep string
	State      SyncState
	Pending    *form.Target // editor holding an uncommitted value, if any
	View       form.View
}

// Init returns the snapshot's state in init payload form, so it can be saved
// and mounted again.
func (s Snapshot) Init() event.Init {
	return event.Init{
		RootFields:  s.Root,
		Layers:      s.Layers,
		DataOptions: s.Datasets,
		MissingDep:  s.MissingDep,
	}
}

// Controller is the sole writer of the form model. It applies local edits and
// host patches, and is the only place notifications leave the form.
// Host patches always win: there is no correlation between an edit and the
// patch that follows it, so a newer local value can be overwritten by a patch
// answering an older edit.
//
// Controller is not safe for concurrent use; Session serialises access.
type Controller struct {
	model      *form.Model
	registry   *form.Registry
	missingDep string
	state      SyncState
	pending    *form.Target

	host      Host
	observers *ObserverManager
}

// NewController builds a controller from the host's init payload.
func NewController(init event.Init, host Host) *Controller {
	return &Controller{
		model:      form.NewModel(init.RootFields, init.Layers),
		registry:   form.NewRegistry(init.DataOptions),
		missingDep: init.MissingDep,
		host:       host,
		observers:  NewObserverManager(),
	}
}

// Subscribe registers an observer called with a fresh snapshot after every
// commit. It returns an unsubscribe function.
func (c *Controller) Subscribe(fn func(Snapshot)) func() {
	return c.observers.Register(fn)
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	s := Snapshot{
		Root:       c.model.Root,
		Layers:     c.model.Layers(),
		Datasets:   c.registry.Datasets(),
		MissingDep: c.missingDep,
		State:      c.state,
		View:       form.BuildView(c.registry, c.model, c.missingDep),
	}
	if c.pending != nil {
		p := *c.pending
		s.Pending = &p
	}
	return s
}

// State returns the sync state.
func (c *Controller) State() SyncState { return c.state }

// HasNoDataset reports whether the form is disabled.
func (c *Controller) HasNoDataset() bool { return c.model.HasNoDataset() }

func (c *Controller) commit() {
	if c.observers.Len() == 0 {
		return
	}
	c.observers.Notify(c.Snapshot())
}

func (c *Controller) emit(ev event.Outbound) {
	c.state = Edited
	c.host.Push(ev)
}

// --- Local edits ---

// set writes a local value. A layer index that no longer exists is a silent
// no-op reporting false; an unknown field name is an error.
func (c *Controller) set(t form.Target, value string) (bool, error) {
	if c.model.HasNoDataset() {
		return false, ErrFormDisabled
	}
	if c.model.SetField(t, value) {
		return true, nil
	}
	if !t.IsRoot() && t.Layer >= c.model.Len() {
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", form.ErrUnknownField, t.Field)
}

// Input records a value as the user types. The model follows the editor at
// once, but nothing is sent until the value is committed.
func (c *Controller) Input(t form.Target, value string) error {
	if c.pending != nil && *c.pending != t {
		// Focus moved without a blur; commit the previous editor first.
		c.Blur()
	}
	ok, err := c.set(t, value)
	if !ok {
		return err
	}
	c.pending = &t
	c.commit()
	return nil
}

// Change commits a value and notifies the host.
func (c *Controller) Change(t form.Target, value string) error {
	ok, err := c.set(t, value)
	if !ok {
		return err
	}
	if c.pending != nil && *c.pending == t {
		c.pending = nil
	}
	c.emit(event.NewUpdateField(t, value))
	c.commit()
	return nil
}

// Blur commits the pending edit, as if its editor lost focus.
// It reports whether a notification was sent.
func (c *Controller) Blur() bool {
	if c.pending == nil {
		return false
	}
	t := *c.pending
	c.pending = nil

	value, ok := c.model.Get(t)
	if !ok {
		// The layer went away underneath the editor.
		c.commit()
		return false
	}
	c.emit(event.NewUpdateField(t, value))
	c.commit()
	return true
}

// Flush is the host's synchronous commit primitive.
func (c *Controller) Flush() bool { return c.Blur() }

// AddLayer appends an empty layer locally and asks the host for the real one.
func (c *Controller) AddLayer() error {
	if c.model.HasNoDataset() {
		return ErrFormDisabled
	}
	c.model.AddLayer()
	c.emit(event.NewAddLayer())
	c.commit()
	return nil
}

// RemoveLayer removes layer i locally and tells the host.
func (c *Controller) RemoveLayer(i int) error {
	if c.model.HasNoDataset() {
		return ErrFormDisabled
	}
	if err := c.model.RemoveLayer(i); err != nil {
		return err
	}
	if c.pending != nil && !c.pending.IsRoot() {
		switch {
		case c.pending.Layer == i:
			c.pending = nil
		case c.pending.Layer > i:
			c.pending.Layer--
		}
	}
	c.emit(event.NewRemoveLayer(i))
	c.commit()
	return nil
}

// --- Host patches ---

// ApplyRootPatch merges fields into the root settings.
func (c *Controller) ApplyRootPatch(fields form.Fields) {
	c.model.Root.Apply(fields)
	c.state = Idle
	c.commit()
}

// ApplyLayerPatch merges fields into layer i. An unknown index is ignored.
func (c *Controller) ApplyLayerPatch(i int, fields form.Fields) bool {
	if !c.model.ApplyLayer(i, fields) {
		return false
	}
	c.state = Idle
	c.commit()
	return true
}

// ReplaceLayers swaps in the host's layer list. An empty list is refused.
func (c *Controller) ReplaceLayers(layers []form.Layer) bool {
	if !c.model.ReplaceLayers(layers) {
		return false
	}
	if c.pending != nil && !c.pending.IsRoot() && c.pending.Layer >= c.model.Len() {
		c.pending = nil
	}
	c.state = Idle
	c.commit()
	return true
}

// SetMissingDependency sets or clears the missing dependency banner.
func (c *Controller) SetMissingDependency(dep string) {
	c.missingDep = dep
	c.commit()
}

// ReplaceDatasets swaps the dataset registry and patches the first layer as
// one observable update.
func (c *Controller) ReplaceDatasets(datasets []form.Dataset, fields form.Fields) {
	c.registry.Replace(datasets)
	c.model.ApplyLayer(0, fields)
	c.state = Idle
	c.commit()
}

// Apply dispatches a host message as returned by event.DecodeInbound.
func (c *Controller) Apply(msg event.Inbound) error {
	switch m := msg.(type) {
	case *event.UpdateRootMsg:
		c.ApplyRootPatch(m.Fields)
	case *event.UpdateLayerMsg:
		if !c.ApplyLayerPatch(m.Idx, m.Fields) {
			return fmt.Errorf("%s: %w: %d", m.Name(), form.ErrLayerIndex, m.Idx)
		}
	case *event.SetLayersMsg:
		if !c.ReplaceLayers(m.Layers) {
			return fmt.Errorf("%s: empty layer list", m.Name())
		}
	case *event.MissingDepMsg:
		c.SetMissingDependency(m.Dep)
	case *event.SetAvailableDataMsg:
		c.ReplaceDatasets(m.DataOptions, m.Fields)
	default:
		return fmt.Errorf("unhandled host message %T", msg)
	}
	return nil
}

// Handle dispatches a local intent.
func (c *Controller) Handle(in event.Intent) error {
	switch in.Kind {
	case event.IntentInput:
		return c.Input(in.Target, in.Value)
	case event.IntentChange:
		return c.Change(in.Target, in.Value)
	case event.IntentBlur:
		c.Blur()
	case event.IntentAddLayer:
		return c.AddLayer()
	case event.IntentRemoveLayer:
		return c.RemoveLayer(in.Layer)
	default:
		return fmt.Errorf("unknown intent %d", in.Kind)
	}
	return nil
}
