package form

import (
	"fmt"

	"github.com/drake/chartform/catalog"
)

// Kind is the editor a control is shown with.
type Kind int

const (
	KindText Kind = iota
	KindNumber
	KindSelect
)

// Control is the derived state of one form control.
type Control struct {
	Target      Target
	Label       string
	Kind        Kind
	Value       string
	Options     []Option // selects only
	Required    bool
	Disabled    bool
	Unavailable bool
}

// LayerView is the derived state of one layer section.
type LayerView struct {
	Index     int
	Title     string
	Subtitle  string
	Removable bool
	Controls  []Control
}

// View is everything a presenter needs to draw the form.
type View struct {
	MissingDep  string
	NoDataset   bool
	Root        []Control
	Layers      []LayerView
	CanAddLayer bool
}

// Controls returns every control in display order.
func (v View) Controls() []Control {
	out := append([]Control(nil), v.Root...)
	for _, l := range v.Layers {
		out = append(out, l.Controls...)
	}
	return out
}

// BuildView derives the form view from the model and dataset registry.
func BuildView(reg *Registry, m *Model, missingDep string) View {
	noData := m.HasNoDataset()
	v := View{
		MissingDep:  missingDep,
		NoDataset:   noData,
		CanAddLayer: !noData,
		Root: []Control{
			{Target: RootTarget(FieldChartTitle), Label: "Charting", Kind: KindText, Value: m.Root.ChartTitle, Disabled: noData},
			{Target: RootTarget(FieldWidth), Label: "Width", Kind: KindNumber, Value: m.Root.Width.String(), Disabled: noData},
			{Target: RootTarget(FieldHeight), Label: "Height", Kind: KindNumber, Value: m.Root.Height.String(), Disabled: noData},
		},
	}

	removable := m.CanRemoveLayer()
	for i, l := range m.layers {
		lv := LayerView{
			Index:     i,
			Title:     fmt.Sprintf("Layer %d", i+1),
			Subtitle:  fmt.Sprintf(": %s for %s", l.ChartType, l.DataVariable),
			Removable: removable && !noData,
		}
		lv.Controls = append(lv.Controls,
			selectControl(i, FieldDataVariable, "Data", l.DataVariable, reg.Names(), true, noData),
			selectControl(i, FieldChartType, "Chart", l.ChartType, catalog.ChartKinds, true, noData),
		)

		fields := AxisOptions(reg, l)
		for _, role := range Roles {
			axis := l.Axis(role)
			sub := noData || !SubfieldEnabled(axis.Field)
			lv.Controls = append(lv.Controls,
				selectControl(i, role.Field(), roleLabel(role), axis.Field, fields, false, noData),
				selectControl(i, role.TypeField(), "Type", axis.Type, catalog.FieldTypes, false, sub),
				selectControl(i, role.AggregateField(), "Aggregate", axis.Aggregate, catalog.Aggregates, false, sub),
			)
		}
		v.Layers = append(v.Layers, lv)
	}
	return v
}

func selectControl(layer int, field, label, value string, options []string, required, disabled bool) Control {
	return Control{
		Target:      LayerTarget(layer, field),
		Label:       label,
		Kind:        KindSelect,
		Value:       value,
		Options:     SelectOptions(value, options, required),
		Required:    required,
		Disabled:    disabled,
		Unavailable: IsFieldUnavailable(value, options),
	}
}

func roleLabel(r Role) string {
	switch r {
	case RoleX:
		return "x-axis"
	case RoleY:
		return "y-axis"
	}
	return "Color"
}
