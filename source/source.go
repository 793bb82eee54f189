// Package source loads datasets and init payloads from files for the
// command-line host.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/drake/chartform/event"
	"github.com/drake/chartform/form"
)

// LoadWorkbook reads an Excel workbook. Every sheet becomes a dataset named
// after the sheet, with the non-empty cells of its first row as columns.
// Sheets without a header row are skipped.
func LoadWorkbook(path string) ([]form.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	var datasets []form.Dataset
	for _, sheet := range f.GetSheetList() {
		rows, err := f.Rows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		var header []string
		if rows.Next() {
			header, err = rows.Columns()
		}
		rows.Close()
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}

		var columns []string
		for _, cell := range header {
			if name := strings.TrimSpace(cell); name != "" {
				columns = append(columns, name)
			}
		}
		if len(columns) == 0 {
			continue
		}
		datasets = append(datasets, form.DatasetOf(sheet, columns...))
	}
	return datasets, nil
}

// datasetFile is the YAML layout of a dataset list.
type datasetFile struct {
	Datasets []form.Dataset `yaml:"datasets"`
}

// LoadDatasets reads datasets from a workbook (.xlsx) or a YAML file with a
// top-level "datasets" list.
func LoadDatasets(path string) ([]form.Dataset, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return LoadWorkbook(path)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		var df datasetFile
		if err := yaml.Unmarshal(data, &df); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return df.Datasets, nil
	}
	return nil, fmt.Errorf("%s: unsupported dataset file type", path)
}

// LoadPayload reads a complete init payload from YAML.
func LoadPayload(path string) (event.Init, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return event.Init{}, err
	}
	var in event.Init
	if err := yaml.Unmarshal(data, &in); err != nil {
		return event.Init{}, fmt.Errorf("%s: %w", path, err)
	}
	return in, nil
}

// SavePayload writes an init payload as YAML, in the layout LoadPayload reads.
func SavePayload(path string, in event.Init) error {
	data, err := yaml.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}
	return nil
}
