package form

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Root field names.
const (
	FieldChartTitle = "chart_title"
	FieldWidth      = "width"
	FieldHeight     = "height"
)

// Layer field names that are not tied to an axis role.
const (
	FieldDataVariable = "data_variable"
	FieldChartType    = "chart_type"
)

// Role is an encoding channel of a layer.
type Role string

const (
	RoleX     Role = "x"
	RoleY     Role = "y"
	RoleColor Role = "color"
)

// Roles lists the axis roles in display order.
var Roles = []Role{RoleX, RoleY, RoleColor}

// Field returns the name of the role's field selector, e.g. "x_field".
func (r Role) Field() string { return string(r) + "_field" }

// TypeField returns the name of the role's type selector.
func (r Role) TypeField() string { return string(r) + "_field_type" }

// AggregateField returns the name of the role's aggregate selector.
func (r Role) AggregateField() string { return string(r) + "_field_aggregate" }

// Fields is a partial set of field values keyed by wire name, as pushed by the host.
// Values are whatever JSON decoding produced: string, float64, bool or nil.
type Fields map[string]any

// Number is an optional numeric root setting. The zero value is empty.
type Number struct {
	Value float64
	Valid bool
}

// NumberOf returns a set Number.
func NumberOf(v float64) Number { return Number{Value: v, Valid: true} }

// ParseNumber converts a host or input value into a Number.
// nil, "" and text that is not a number all yield an empty Number.
func ParseNumber(v any) Number {
	switch n := v.(type) {
	case nil:
		return Number{}
	case float64:
		return NumberOf(n)
	case int:
		return NumberOf(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return Number{}
		}
		return NumberOf(f)
	case Number:
		return n
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return Number{}
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Number{}
		}
		return NumberOf(f)
	}
	return Number{}
}

// String formats the number the way a number input shows it.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}

func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

func (n *Number) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = ParseNumber(v)
	return nil
}

// UnmarshalYAML accepts the same spellings as the JSON form.
func (n *Number) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	*n = ParseNumber(v)
	return nil
}

func (n Number) MarshalYAML() (any, error) {
	if !n.Valid {
		return nil, nil
	}
	return n.Value, nil
}

// stringValue coerces a host value into the string a select holds.
func stringValue(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case fmt.Stringer:
		return s.String()
	}
	return fmt.Sprint(v)
}
