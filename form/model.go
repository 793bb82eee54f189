package form

import "errors"

var (
	ErrLastLayer    = errors.New("cannot remove the last layer")
	ErrLayerIndex   = errors.New("layer index out of range")
	ErrUnknownField = errors.New("unknown field")
)

// RootConfig holds the chart-wide settings.
type RootConfig struct {
	ChartTitle string `json:"chart_title" yaml:"chart_title"`
	Width      Number `json:"width" yaml:"width"`
	Height     Number `json:"height" yaml:"height"`
}

// Get returns the display value of a root field.
func (r RootConfig) Get(name string) (string, bool) {
	switch name {
	case FieldChartTitle:
		return r.ChartTitle, true
	case FieldWidth:
		return r.Width.String(), true
	case FieldHeight:
		return r.Height.String(), true
	}
	return "", false
}

// Set assigns one root field. Unknown names are ignored and report false.
func (r *RootConfig) Set(name string, v any) bool {
	switch name {
	case FieldChartTitle:
		r.ChartTitle = stringValue(v)
	case FieldWidth:
		r.Width = ParseNumber(v)
	case FieldHeight:
		r.Height = ParseNumber(v)
	default:
		return false
	}
	return true
}

// Apply merges a patch; fields the patch does not name are left untouched.
func (r *RootConfig) Apply(fields Fields) {
	for name, v := range fields {
		r.Set(name, v)
	}
}

// Axis is the field selection of one role.
type Axis struct {
	Field     string
	Type      string
	Aggregate string
}

// Layer is the configuration of one chart layer. Empty strings mean unset.
type Layer struct {
	DataVariable string `json:"data_variable" yaml:"data_variable"`
	ChartType    string `json:"chart_type" yaml:"chart_type"`

	XField          string `json:"x_field" yaml:"x_field"`
	XFieldType      string `json:"x_field_type" yaml:"x_field_type"`
	XFieldAggregate string `json:"x_field_aggregate" yaml:"x_field_aggregate"`

	YField          string `json:"y_field" yaml:"y_field"`
	YFieldType      string `json:"y_field_type" yaml:"y_field_type"`
	YFieldAggregate string `json:"y_field_aggregate" yaml:"y_field_aggregate"`

	ColorField          string `json:"color_field" yaml:"color_field"`
	ColorFieldType      string `json:"color_field_type" yaml:"color_field_type"`
	ColorFieldAggregate string `json:"color_field_aggregate" yaml:"color_field_aggregate"`
}

// ref maps a wire name to the struct field that stores it.
func (l *Layer) ref(name string) *string {
	switch name {
	case FieldDataVariable:
		return &l.DataVariable
	case FieldChartType:
		return &l.ChartType
	case "x_field":
		return &l.XField
	case "x_field_type":
		return &l.XFieldType
	case "x_field_aggregate":
		return &l.XFieldAggregate
	case "y_field":
		return &l.YField
	case "y_field_type":
		return &l.YFieldType
	case "y_field_aggregate":
		return &l.YFieldAggregate
	case "color_field":
		return &l.ColorField
	case "color_field_type":
		return &l.ColorFieldType
	case "color_field_aggregate":
		return &l.ColorFieldAggregate
	}
	return nil
}

// Get returns the value of a layer field by wire name.
func (l Layer) Get(name string) (string, bool) {
	p := l.ref(name)
	if p == nil {
		return "", false
	}
	return *p, true
}

// Set assigns one layer field. Unknown names are ignored and report false.
func (l *Layer) Set(name string, v any) bool {
	p := l.ref(name)
	if p == nil {
		return false
	}
	*p = stringValue(v)
	return true
}

// Apply merges a patch into the layer.
func (l *Layer) Apply(fields Fields) {
	for name, v := range fields {
		l.Set(name, v)
	}
}

// Axis returns the selection for a role.
func (l Layer) Axis(r Role) Axis {
	field, _ := l.Get(r.Field())
	typ, _ := l.Get(r.TypeField())
	agg, _ := l.Get(r.AggregateField())
	return Axis{Field: field, Type: typ, Aggregate: agg}
}

// Target addresses one editable field: a root field when Layer is negative,
// otherwise a field of the layer at that index.
type Target struct {
	Layer int
	Field string
}

// RootTarget addresses a root field.
func RootTarget(field string) Target { return Target{Layer: -1, Field: field} }

// LayerTarget addresses a field of layer i.
func LayerTarget(i int, field string) Target { return Target{Layer: i, Field: field} }

// IsRoot reports whether the target is a root field.
func (t Target) IsRoot() bool { return t.Layer < 0 }

// Model is the root settings plus the ordered, never empty, layer sequence.
// It is not safe for concurrent use.
type Model struct {
	Root   RootConfig
	layers []Layer
}

// NewModel builds a model. An empty layer list is replaced by one empty layer.
func NewModel(root RootConfig, layers []Layer) *Model {
	m := &Model{Root: root}
	if !m.ReplaceLayers(layers) {
		m.layers = []Layer{{}}
	}
	return m
}

// Len returns the number of layers.
func (m *Model) Len() int { return len(m.layers) }

// Layers returns a copy of the layer sequence.
func (m *Model) Layers() []Layer {
	out := make([]Layer, len(m.layers))
	copy(out, m.layers)
	return out
}

// Layer returns the layer at index i.
func (m *Model) Layer(i int) (Layer, bool) {
	if i < 0 || i >= len(m.layers) {
		return Layer{}, false
	}
	return m.layers[i], true
}

// HasNoDataset reports whether the first layer has no dataset bound. While it
// holds the whole form is disabled.
func (m *Model) HasNoDataset() bool {
	return len(m.layers) == 0 || m.layers[0].DataVariable == ""
}

// CanRemoveLayer reports whether a layer may be removed.
func (m *Model) CanRemoveLayer() bool { return len(m.layers) > 1 }

// AddLayer appends an empty layer and returns its index.
func (m *Model) AddLayer() int {
	m.layers = append(m.layers, Layer{})
	return len(m.layers) - 1
}

// RemoveLayer removes the layer at index i, keeping the order of the rest.
func (m *Model) RemoveLayer(i int) error {
	if i < 0 || i >= len(m.layers) {
		return ErrLayerIndex
	}
	if len(m.layers) <= 1 {
		return ErrLastLayer
	}
	m.layers = append(m.layers[:i:i], m.layers[i+1:]...)
	return nil
}

// Get returns the current value of a target.
func (m *Model) Get(t Target) (string, bool) {
	if t.IsRoot() {
		return m.Root.Get(t.Field)
	}
	l, ok := m.Layer(t.Layer)
	if !ok {
		return "", false
	}
	return l.Get(t.Field)
}

// SetField assigns a value to a target. An out-of-range layer or unknown field
// is a no-op reporting false.
func (m *Model) SetField(t Target, v any) bool {
	if t.IsRoot() {
		return m.Root.Set(t.Field, v)
	}
	if t.Layer >= len(m.layers) {
		return false
	}
	return m.layers[t.Layer].Set(t.Field, v)
}

// ApplyLayer merges a patch into layer i. Reports false if i is out of range.
func (m *Model) ApplyLayer(i int, fields Fields) bool {
	if i < 0 || i >= len(m.layers) {
		return false
	}
	m.layers[i].Apply(fields)
	return true
}

// ReplaceLayers swaps in a new sequence. An empty sequence would break the
// one-layer minimum and is refused.
func (m *Model) ReplaceLayers(layers []Layer) bool {
	if len(layers) == 0 {
		return false
	}
	m.layers = make([]Layer, len(layers))
	copy(m.layers, layers)
	return true
}
