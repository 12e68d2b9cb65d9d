package viewstate

import (
	"github.com/respiview/respiview/internal/domain/registry"
)

// HistoryMode tells the caller how to commit the resulting parameters.
// Replace keeps the current history entry; Push creates a new one so browser
// back/forward navigates between views.
type HistoryMode int

const (
	HistoryReplace HistoryMode = iota
	HistoryPush
)

// ViewChange is the result of applying a view transition.
type ViewChange struct {
	State   State
	Params  Params
	History HistoryMode
	// Changed is false for no-op transitions.
	Changed bool
}

// datasetFor resolves a view to its owning dataset, treating unknown views
// as the registry default.
func datasetFor(reg *registry.Registry, view string) *registry.Dataset {
	if ds := reg.ByView(view); ds != nil {
		return ds
	}
	return reg.Default()
}

// noDateSelector reports whether the view behaves as a "special" view: either
// flagged special or owned by a dataset without a date selector.
func noDateSelector(ds *registry.Dataset, view string) bool {
	if ds == nil {
		return false
	}
	return ds.ViewIsSpecial(view) || !ds.HasDateSelector
}

// ApplyViewChange performs a view transition over the current state and
// parameters.
//
// Rules:
//   - Unchanged view: no-op.
//   - Dataset change, or crossing a special-view boundary: clear the date,
//     model, active-date and target selections, and delete the old dataset's
//     namespaced parameters so they cannot leak into the new dataset.
//   - Same dataset: clear only the target (targets are dataset-scoped but not
//     view-scoped).
//   - Entering a metro view with a default or bare state-level location:
//     switch to the metro dataset's default location. Leaving a metro view
//     with a city-level location: reset to the global default.
//   - The view parameter is omitted when it is the overall default and no
//     other parameters remain.
func ApplyViewChange(reg *registry.Registry, s State, p Params, oldView, newView string) ViewChange {
	if oldView == newView {
		return ViewChange{State: s, Params: p.Clone(), History: HistoryReplace, Changed: false}
	}

	oldDS := datasetFor(reg, oldView)
	newDS := datasetFor(reg, newView)
	if reg.ByView(newView) == nil {
		// Unknown target view degrades to the default view.
		newView = reg.DefaultView()
	}

	out := p.Clone()
	datasetChanged := oldDS == nil || newDS == nil || oldDS.ShortName != newDS.ShortName
	specialBoundary := noDateSelector(oldDS, oldView) != noDateSelector(newDS, newView)

	if datasetChanged || specialBoundary {
		s = s.clearSelections()
		if oldDS != nil {
			for _, param := range oldDS.NamespacedParams() {
				out.Del(param)
			}
		}
	} else {
		// Same dataset: only the target is view-sensitive.
		s.SelectedTarget = ""
		out.Del(oldDS.Prefix + "_target")
	}

	out = applyLocationReset(out, oldDS, newDS)

	// Commit the new view. Omit it when it is the overall default and the
	// URL would otherwise be empty.
	out.Del(ParamView)
	if !(newView == reg.DefaultView() && out.IsEmpty()) {
		out.Set(ParamView, newView)
	}

	return ViewChange{State: s, Params: out, History: HistoryPush, Changed: true}
}

// applyLocationReset handles the metro/state location rules on transitions.
func applyLocationReset(p Params, oldDS, newDS *registry.Dataset) Params {
	loc := p.Get(ParamLocation)
	enteringMetro := newDS != nil && newDS.Metro && (oldDS == nil || !oldDS.Metro)
	leavingMetro := oldDS != nil && oldDS.Metro && (newDS == nil || !newDS.Metro)

	switch {
	case enteringMetro:
		// A default or bare state code has no meaning in a metro dataset.
		if loc == "" || len(loc) == 2 || loc == registry.GlobalDefaultLocation {
			return SetLocation(p, newDS.DefaultLocation, newDS.DefaultLocation)
		}
	case leavingMetro:
		// A city-level code has no meaning outside the metro dataset.
		def := registry.GlobalDefaultLocation
		if newDS != nil && newDS.DefaultLocation != "" {
			def = newDS.DefaultLocation
		}
		if loc != "" && len(loc) > 2 && loc != def {
			return SetLocation(p, registry.GlobalDefaultLocation, def)
		}
	}
	return p
}
