package form

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/drake/chartform/catalog"
)

// optionCacheSize bounds the per-dataset field list memo.
const optionCacheSize = 64

// Column is one column of a dataset.
type Column struct {
	Name string `json:"name" yaml:"name"`
}

// Dataset describes a dataset the host has made available.
type Dataset struct {
	Name    string   `json:"variable" yaml:"variable"`
	Columns []Column `json:"columns" yaml:"columns"`
}

// ColumnNames returns the column names in order.
func (d Dataset) ColumnNames() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

func (d Dataset) clone() Dataset {
	return Dataset{Name: d.Name, Columns: append([]Column(nil), d.Columns...)}
}

// DatasetOf builds a dataset from plain column names.
func DatasetOf(name string, columns ...string) Dataset {
	d := Dataset{Name: name, Columns: make([]Column, len(columns))}
	for i, c := range columns {
		d.Columns[i] = Column{Name: c}
	}
	return d
}

// Registry holds the available datasets and their derived name list.
// The component only reads datasets; the host replaces them wholesale.
type Registry struct {
	datasets []Dataset
	names    []string
	index    map[string]int

	// Field lists per dataset name. Reset on every Replace.
	fields *lru.Cache[string, []string]
}

// NewRegistry creates a registry holding the given datasets.
func NewRegistry(datasets []Dataset) *Registry {
	r := &Registry{}
	r.Replace(datasets)
	return r
}

// Replace swaps in a new dataset list. Names, lookup index and field cache are
// rebuilt together, so readers never see a mix of old and new.
func (r *Registry) Replace(datasets []Dataset) {
	ds := make([]Dataset, len(datasets))
	for i, d := range datasets {
		ds[i] = d.clone()
	}

	names := make([]string, len(ds))
	index := make(map[string]int, len(ds))
	for i, d := range ds {
		names[i] = d.Name
		if _, dup := index[d.Name]; !dup {
			index[d.Name] = i
		}
	}

	cache, _ := lru.New[string, []string](optionCacheSize)

	r.datasets = ds
	r.names = names
	r.index = index
	r.fields = cache
}

// Names returns the dataset names in host order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Datasets returns a deep copy of the descriptors.
func (r *Registry) Datasets() []Dataset {
	out := make([]Dataset, len(r.datasets))
	for i, d := range r.datasets {
		out[i] = d.clone()
	}
	return out
}

// Lookup finds a dataset by name. The first descriptor wins on duplicates.
func (r *Registry) Lookup(name string) (Dataset, bool) {
	i, ok := r.index[name]
	if !ok {
		return Dataset{}, false
	}
	return r.datasets[i].clone(), true
}

// Fields returns the selectable field list of a dataset: its columns followed by
// the row-count pseudo-field. Unknown or empty names yield an empty list.
func (r *Registry) Fields(name string) []string {
	if name == "" {
		return []string{}
	}
	if cached, ok := r.fields.Get(name); ok {
		return append([]string(nil), cached...)
	}
	d, ok := r.Lookup(name)
	if !ok {
		return []string{}
	}
	fields := append(d.ColumnNames(), catalog.CountField)
	r.fields.Add(name, fields)
	return append([]string(nil), fields...)
}
