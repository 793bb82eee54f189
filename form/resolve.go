package form

import "github.com/drake/chartform/catalog"

// AxisOptions returns the fields a layer's axis selectors may choose from.
func AxisOptions(r *Registry, l Layer) []string {
	return r.Fields(l.DataVariable)
}

// IsFieldUnavailable reports whether a set value is missing from options.
// Such a value is kept and shown as stale rather than cleared.
func IsFieldUnavailable(field string, options []string) bool {
	if field == "" {
		return false
	}
	for _, o := range options {
		if o == field {
			return false
		}
	}
	return true
}

// FieldIsConfigurable reports whether a field is a real column.
func FieldIsConfigurable(field string) bool {
	return field != "" && field != catalog.CountField
}

// SubfieldEnabled reports whether the type and aggregate selectors of an
// axis bound to field should be enabled.
func SubfieldEnabled(field string) bool {
	return FieldIsConfigurable(field)
}

// Option is one entry of a select.
type Option struct {
	Value       string
	Label       string
	Unavailable bool
}

// SelectOptions lists what a select shows for value over options. Optional
// selects get a leading blank entry unless the value is stale; a stale value is
// appended as an unavailable entry so it stays selected.
func SelectOptions(value string, options []string, required bool) []Option {
	stale := IsFieldUnavailable(value, options)
	out := make([]Option, 0, len(options)+1)
	if !required && !stale {
		out = append(out, Option{})
	}
	for _, o := range options {
		out = append(out, Option{Value: o, Label: catalog.Label(o)})
	}
	if stale {
		out = append(out, Option{Value: value, Label: catalog.Label(value), Unavailable: true})
	}
	return out
}
