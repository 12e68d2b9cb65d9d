// Package registry describes the datasets the dashboard can display and
// resolves which dataset owns a given view value.
package registry

// View is one selectable dataset+visualization combination.
type View struct {
	Key   string
	Value string
	Label string
	// Special marks views without a date selector (e.g. peak outlooks);
	// entering or leaving one resets date/model selections.
	Special bool
}

// Dataset is one registry entry. Read-only to the rest of the core.
type Dataset struct {
	ShortName string
	// Prefix namespaces this dataset's URL parameters: {prefix}_dates,
	// {prefix}_models, {prefix}_target plus any ExtraParams.
	Prefix           string
	Views            []View
	DefaultView      string
	DefaultModel     string
	DefaultLocation  string
	HasDateSelector  bool
	HasModelSelector bool
	// Metro datasets use city-level location codes instead of state codes.
	Metro bool
	// ExtraParams lists dataset-specific URL parameter names cleared on
	// dataset switches, e.g. "nhsn_columns".
	ExtraParams []string
}

// HasView reports whether view is one of the dataset's view values.
func (d *Dataset) HasView(view string) bool {
	for _, v := range d.Views {
		if v.Value == view {
			return true
		}
	}
	return false
}

// ViewIsSpecial reports whether view is one of the dataset's special views.
func (d *Dataset) ViewIsSpecial(view string) bool {
	for _, v := range d.Views {
		if v.Value == view {
			return v.Special
		}
	}
	return false
}

// NamespacedParams returns every URL parameter name owned by the dataset.
func (d *Dataset) NamespacedParams() []string {
	params := []string{
		d.Prefix + "_dates",
		d.Prefix + "_models",
		d.Prefix + "_target",
	}
	return append(params, d.ExtraParams...)
}

// Registry holds dataset entries with a view-value index built once.
type Registry struct {
	datasets []Dataset
	byView   map[string]*Dataset
	byName   map[string]*Dataset
}

// New builds a registry from entries. On duplicate view values the first
// registered dataset wins.
func New(datasets ...Dataset) *Registry {
	r := &Registry{
		datasets: datasets,
		byView:   make(map[string]*Dataset),
		byName:   make(map[string]*Dataset),
	}
	for i := range r.datasets {
		ds := &r.datasets[i]
		if _, ok := r.byName[ds.ShortName]; !ok {
			r.byName[ds.ShortName] = ds
		}
		for _, v := range ds.Views {
			if _, ok := r.byView[v.Value]; !ok {
				r.byView[v.Value] = ds
			}
		}
	}
	return r
}

// ByView returns the dataset owning the view value, or nil if unmatched.
func (r *Registry) ByView(view string) *Dataset {
	return r.byView[view]
}

// ByShortName returns the dataset with the given short name, or nil.
func (r *Registry) ByShortName(name string) *Dataset {
	return r.byName[name]
}

// Default returns the registry's first dataset, or nil when empty.
func (r *Registry) Default() *Dataset {
	if len(r.datasets) == 0 {
		return nil
	}
	return &r.datasets[0]
}

// DefaultView returns the default dataset's default view, or "" when empty.
func (r *Registry) DefaultView() string {
	if ds := r.Default(); ds != nil {
		return ds.DefaultView
	}
	return ""
}

// All returns the registered datasets in order.
func (r *Registry) All() []Dataset {
	return r.datasets
}
