// Package catalog holds the fixed option lists offered by the chart form.
package catalog

// CountField is the pseudo-field that stands for the row count of a dataset.
const CountField = "__count__"

// countLabel is how CountField is shown to the user.
const countLabel = "COUNT(*)"

// ChartKinds lists the mark types a layer can draw.
var ChartKinds = []string{"point", "bar", "line", "area", "boxplot", "rule"}

// FieldTypes lists the encoding type classifications.
var FieldTypes = []string{"quantitative", "nominal", "ordinal", "temporal"}

// Aggregates lists the aggregate functions offered for an axis.
var Aggregates = []string{"sum", "mean"}

// Label returns the display text for an option value.
func Label(option string) string {
	if option == CountField {
		return countLabel
	}
	return option
}
