package lua

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/drake/chartform/event"
	"github.com/drake/chartform/form"
	"github.com/drake/chartform/session"
)

// message is a named protocol message in test data
type message struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// testCase represents a single test case from JSON
type testCase struct {
	Name     string    `json:"name"`
	Pushes   []message `json:"pushes"`
	Expected []message `json:"expected"`
}

type testDataFile struct {
	Datasets []form.Dataset `json:"datasets"`
	Tests    []testCase     `json:"tests"`
}

// setupTest boots an engine on the core scripts and mounts datasets.
func setupTest(t *testing.T, datasets []form.Dataset) (*Engine, *MockSink, event.Init) {
	t.Helper()

	sink := NewMockSink()
	engine := NewEngine(sink, nil)
	if err := engine.Boot(CoreScripts); err != nil {
		t.Fatal("Failed to boot engine:", err)
	}
	t.Cleanup(engine.Close)

	init, err := engine.Mount(datasets)
	if err != nil {
		t.Fatal("Failed to mount:", err)
	}
	return engine, sink, init
}

func loadTestData(t *testing.T, filename string) testDataFile {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", filename))
	if err != nil {
		t.Fatalf("Failed to read test data %s: %v", filename, err)
	}

	var testData testDataFile
	if err := json.Unmarshal(data, &testData); err != nil {
		t.Fatalf("Failed to parse test data %s: %v", filename, err)
	}
	return testData
}

// assertMessages compares decoded messages so null and absent fields of typed
// payloads compare equal the way the form sees them.
func assertMessages(t *testing.T, expected []message, actual []delivered) {
	t.Helper()

	names := make([]string, len(actual))
	for i, a := range actual {
		names[i] = a.Name
	}
	require.Len(t, actual, len(expected), "got messages %v", names)

	for i, exp := range expected {
		require.Equal(t, exp.Name, actual[i].Name, "message %d", i)

		want, err := event.DecodeInbound(exp.Name, exp.Payload)
		require.NoError(t, err)
		got, err := event.DecodeInbound(actual[i].Name, actual[i].Raw)
		require.NoError(t, err, "payload %s", actual[i].Raw)
		require.Equal(t, want, got, "message %d payload %s", i, actual[i].Raw)
	}
}

// TestFeatures runs all host script tests from JSON files
func TestFeatures(t *testing.T) {
	files, err := os.ReadDir("testdata")
	require.NoError(t, err)

	for _, file := range files {
		if file.IsDir() || !strings.HasSuffix(file.Name(), "_tests.json") {
			continue
		}
		feature := strings.TrimSuffix(file.Name(), "_tests.json")
		testData := loadTestData(t, file.Name())

		for _, tt := range testData.Tests {
			t.Run(fmt.Sprintf("%s/%s", feature, tt.Name), func(t *testing.T) {
				engine, sink, _ := setupTest(t, testData.Datasets)
				for _, p := range tt.Pushes {
					engine.Push(event.Outbound{Name: p.Name, Payload: p.Payload})
				}
				assertMessages(t, tt.Expected, sink.Drain())
			})
		}
	}
}

func TestMountBindsFirstDataset(t *testing.T) {
	_, _, init := setupTest(t, []form.Dataset{
		form.DatasetOf("iris", "sepal_length", "species"),
		form.DatasetOf("sales", "region"),
	})

	require.Equal(t, []form.Layer{{
		DataVariable: "iris",
		ChartType:    "point",
		XField:       "sepal_length",
		YField:       "species",
	}}, init.Layers)
	require.Equal(t, form.RootConfig{}, init.RootFields)
	require.Len(t, init.DataOptions, 2)
	require.Empty(t, init.MissingDep)
}

func TestMountWithoutDatasets(t *testing.T) {
	_, _, init := setupTest(t, nil)
	require.Equal(t, []form.Layer{{ChartType: "point"}}, init.Layers)
	require.Empty(t, init.DataOptions)
}

func TestRestoreSeedsState(t *testing.T) {
	sink := NewMockSink()
	engine := NewEngine(sink, nil)
	require.NoError(t, engine.Boot(CoreScripts))
	defer engine.Close()

	in := event.Init{
		RootFields: form.RootConfig{ChartTitle: "Sales", Width: form.NumberOf(300)},
		Layers: []form.Layer{
			{DataVariable: "sales", ChartType: "bar", XField: "region"},
			{DataVariable: "sales", ChartType: "line"},
		},
		DataOptions: []form.Dataset{form.DatasetOf("sales", "region", "amount")},
	}
	init, err := engine.Restore(in)
	require.NoError(t, err)
	require.Equal(t, in, init)

	engine.Push(event.NewRemoveLayer(0))
	msgs := sink.Drain()
	require.Len(t, msgs, 1)

	got, err := event.DecodeInbound(msgs[0].Name, msgs[0].Raw)
	require.NoError(t, err)
	require.Equal(t, []form.Layer{{DataVariable: "sales", ChartType: "line"}}, got.(*event.SetLayersMsg).Layers)
}

func TestRestoreWithoutLayersBindsFirstDataset(t *testing.T) {
	engine := NewEngine(nil, nil)
	require.NoError(t, engine.Boot(CoreScripts))
	defer engine.Close()

	init, err := engine.Restore(event.Init{
		DataOptions: []form.Dataset{form.DatasetOf("iris", "sepal_length", "sepal_width")},
	})
	require.NoError(t, err)
	require.Len(t, init.Layers, 1)
	require.Equal(t, form.Layer{
		DataVariable: "iris",
		ChartType:    "point",
		XField:       "sepal_length",
		YField:       "sepal_width",
	}, init.Layers[0])

	// The form built from it is usable, not stuck without a dataset.
	snap := session.NewController(init, engine).Snapshot()
	require.False(t, snap.View.NoDataset)
}

func TestDatasetsRebindFirstLayer(t *testing.T) {
	engine, sink, _ := setupTest(t, []form.Dataset{form.DatasetOf("iris", "sepal_length", "species")})

	engine.SetDatasets([]form.Dataset{form.DatasetOf("sales", "region", "amount")})
	msgs := sink.Drain()
	require.Len(t, msgs, 1)

	got, err := event.DecodeInbound(msgs[0].Name, msgs[0].Raw)
	require.NoError(t, err)
	sad := got.(*event.SetAvailableDataMsg)
	require.Equal(t, []form.Dataset{form.DatasetOf("sales", "region", "amount")}, sad.DataOptions)
	require.Equal(t, "sales", sad.Fields[form.FieldDataVariable])
	require.Equal(t, "region", sad.Fields["x_field"])
	require.Contains(t, sad.Fields, "color_field")
	require.Nil(t, sad.Fields["color_field"])
}

func TestDatasetsKeepValidBinding(t *testing.T) {
	engine, sink, _ := setupTest(t, []form.Dataset{form.DatasetOf("iris", "species")})

	engine.SetDatasets([]form.Dataset{form.DatasetOf("iris", "species"), form.DatasetOf("sales", "region")})
	msgs := sink.Drain()
	require.Len(t, msgs, 1)

	got, err := event.DecodeInbound(msgs[0].Name, msgs[0].Raw)
	require.NoError(t, err)
	require.Empty(t, got.(*event.SetAvailableDataMsg).Fields)
}

func TestMissingDependency(t *testing.T) {
	engine, sink, _ := setupTest(t, nil)
	engine.SetMissingDependency(`{:vega_lite, "~> 0.1"}`)

	msgs := sink.Drain()
	require.Len(t, msgs, 1)
	require.Equal(t, event.MissingDep, msgs[0].Name)
	require.JSONEq(t, `{"dep":"{:vega_lite, \"~> 0.1\"}"}`, string(msgs[0].Raw))
}

func TestUserScriptHooks(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "host.lua")
	require.NoError(t, os.WriteFile(script, []byte(`
chart.hooks.on("add_layer", function()
    chart.push("missing_dep", { dep = "extra" })
end)
`), 0o644))

	sink := NewMockSink()
	engine := NewEngine(sink, nil)
	require.NoError(t, engine.Boot(CoreScripts, script))
	defer engine.Close()
	_, err := engine.Mount([]form.Dataset{form.DatasetOf("iris", "species")})
	require.NoError(t, err)

	engine.Push(event.NewAddLayer())
	names := []string{}
	for _, m := range sink.Drain() {
		names = append(names, m.Name)
	}
	require.Equal(t, []string{event.SetLayers, event.MissingDep}, names)
}

func TestBootReportsScriptErrors(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "broken.lua")
	require.NoError(t, os.WriteFile(script, []byte("this is not lua"), 0o644))

	engine := NewEngine(NewMockSink(), nil)
	defer engine.Close()
	err := engine.Boot(CoreScripts, script)
	require.Error(t, err)
	require.Contains(t, err.Error(), "broken.lua")
}
