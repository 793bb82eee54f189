// Package event defines the messages exchanged with the host and the events
// queued on the session loop.
package event

import (
	"encoding/json"
	"fmt"

	"github.com/drake/chartform/form"
)

// Inbound message names (host -> form).
const (
	UpdateRoot       = "update_root"
	UpdateLayer      = "update_layer"
	SetLayers        = "set_layers"
	MissingDep       = "missing_dep"
	SetAvailableData = "set_available_data"
)

// Outbound message names (form -> host).
const (
	UpdateField = "update_field"
	AddLayer    = "add_layer"
	RemoveLayer = "remove_layer"
)

// Inbound is a decoded host message.
type Inbound interface {
	Name() string
}

type UpdateRootMsg struct {
	Fields form.Fields `json:"fields"`
}

type UpdateLayerMsg struct {
	Idx    int         `json:"idx"`
	Fields form.Fields `json:"fields"`
}

type SetLayersMsg struct {
	Layers []form.Layer `json:"layers"`
}

type MissingDepMsg struct {
	Dep string `json:"dep"`
}

// SetAvailableDataMsg replaces the datasets and patches the first layer in one step.
type SetAvailableDataMsg struct {
	DataOptions []form.Dataset `json:"data_options"`
	Fields      form.Fields    `json:"fields"`
}

func (UpdateRootMsg) Name() string       { return UpdateRoot }
func (UpdateLayerMsg) Name() string      { return UpdateLayer }
func (SetLayersMsg) Name() string        { return SetLayers }
func (MissingDepMsg) Name() string       { return MissingDep }
func (SetAvailableDataMsg) Name() string { return SetAvailableData }

// DecodeInbound decodes the payload of a named host message.
func DecodeInbound(name string, raw []byte) (Inbound, error) {
	var msg Inbound
	switch name {
	case UpdateRoot:
		msg = &UpdateRootMsg{}
	case UpdateLayer:
		msg = &UpdateLayerMsg{}
	case SetLayers:
		msg = &SetLayersMsg{}
	case MissingDep:
		msg = &MissingDepMsg{}
	case SetAvailableData:
		msg = &SetAvailableDataMsg{}
	default:
		return nil, fmt.Errorf("unknown host event %q", name)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, msg); err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
	}
	return msg, nil
}

// Outbound is a fire-and-forget notification to the host.
type Outbound struct {
	Name    string
	Payload any
}

// UpdateFieldPayload reports a committed field value. Layer is nil for root fields.
type UpdateFieldPayload struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Layer *int   `json:"layer,omitempty"`
}

type RemoveLayerPayload struct {
	Layer int `json:"layer"`
}

// NewUpdateField builds the update_field notification for a target.
func NewUpdateField(t form.Target, value string) Outbound {
	p := UpdateFieldPayload{Field: t.Field, Value: value}
	if !t.IsRoot() {
		idx := t.Layer
		p.Layer = &idx
	}
	return Outbound{Name: UpdateField, Payload: p}
}

func NewAddLayer() Outbound {
	return Outbound{Name: AddLayer, Payload: struct{}{}}
}

func NewRemoveLayer(i int) Outbound {
	return Outbound{Name: RemoveLayer, Payload: RemoveLayerPayload{Layer: i}}
}

// Init is the state the host hands over when the form is mounted.
type Init struct {
	RootFields  form.RootConfig `json:"root_fields" yaml:"root_fields"`
	Layers      []form.Layer    `json:"layers" yaml:"layers"`
	DataOptions []form.Dataset  `json:"data_options" yaml:"data_options"`
	MissingDep  string          `json:"missing_dep" yaml:"missing_dep"`
}

// DecodeInit decodes an init payload.
func DecodeInit(raw []byte) (Init, error) {
	var in Init
	if err := json.Unmarshal(raw, &in); err != nil {
		return Init{}, fmt.Errorf("init payload: %w", err)
	}
	return in, nil
}
