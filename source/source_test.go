package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/drake/chartform/event"
	"github.com/drake/chartform/form"
)

func writeWorkbook(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]any{"sepal_length", "", "species"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]any{5.1, nil, "setosa"}))
	require.NoError(t, f.SetSheetName("Sheet1", "iris"))

	_, err := f.NewSheet("empty")
	require.NoError(t, err)

	_, err = f.NewSheet("sales")
	require.NoError(t, err)
	require.NoError(t, f.SetSheetRow("sales", "A1", &[]any{"region", "amount"}))

	path := filepath.Join(t.TempDir(), "data.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestLoadWorkbook(t *testing.T) {
	datasets, err := LoadDatasets(writeWorkbook(t))
	require.NoError(t, err)
	require.Equal(t, []form.Dataset{
		form.DatasetOf("iris", "sepal_length", "species"),
		form.DatasetOf("sales", "region", "amount"),
	}, datasets)
}

func TestLoadDatasetsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
datasets:
  - variable: iris
    columns:
      - name: sepal_length
      - name: species
`), 0o644))

	datasets, err := LoadDatasets(path)
	require.NoError(t, err)
	require.Equal(t, []form.Dataset{form.DatasetOf("iris", "sepal_length", "species")}, datasets)
}

func TestLoadDatasetsRejectsUnknownType(t *testing.T) {
	_, err := LoadDatasets("data.csv")
	require.Error(t, err)
}

func TestLoadPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "payload.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root_fields:
  chart_title: Sales
  width: 640
  height: ~
layers:
  - data_variable: sales
    chart_type: bar
    x_field: region
    color_field: region
data_options:
  - variable: sales
    columns:
      - name: amount
missing_dep: ""
`), 0o644))

	in, err := LoadPayload(path)
	require.NoError(t, err)
	require.Equal(t, form.RootConfig{ChartTitle: "Sales", Width: form.NumberOf(640)}, in.RootFields)
	require.Equal(t, "region", in.Layers[0].ColorField)
	require.Equal(t, []form.Dataset{form.DatasetOf("sales", "amount")}, in.DataOptions)
}

func TestSavePayloadReloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	in := event.Init{
		RootFields:  form.RootConfig{ChartTitle: "Iris", Height: form.NumberOf(240.5)},
		Layers:      []form.Layer{{DataVariable: "iris", ChartType: "point", XField: "species"}},
		DataOptions: []form.Dataset{form.DatasetOf("iris", "species")},
	}
	require.NoError(t, SavePayload(path, in))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "width: null")

	out, err := LoadPayload(path)
	require.NoError(t, err)
	require.Equal(t, in, out)
}
