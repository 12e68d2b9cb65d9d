package viewstate

import (
	"github.com/respiview/respiview/internal/domain/registry"
)

// currentSeasonStart bounds the peak outlook's notion of available dates.
const currentSeasonStart = "2025-08-01"

// Peak-only target names excluded from generic target selectors.
const (
	TargetPeakIncidence = "peak_inc_flu_hosp"
	TargetPeakWeek      = "peak_week_inc_flu_hosp"
)

// Metadata carries the availability sets learned from loaded snapshot
// documents. Peak views have independent date and model sources.
type Metadata struct {
	AvailableDates   []string
	AvailableModels  []string
	AvailableTargets []string
	PeakDates        []string
	PeakModels       []string
}

// DatesFor returns the available dates for the view kind. Peak dates are
// filtered to on/after the current season start.
func (m Metadata) DatesFor(special bool) []string {
	if !special {
		return m.AvailableDates
	}
	out := make([]string, 0, len(m.PeakDates))
	for _, d := range m.PeakDates {
		if d >= currentSeasonStart {
			out = append(out, d)
		}
	}
	return out
}

// ModelsFor returns the available models for the view kind.
func (m Metadata) ModelsFor(special bool) []string {
	if special {
		return m.PeakModels
	}
	return m.AvailableModels
}

// TargetsFor returns the available targets for the view kind. Generic views
// never see the peak-only targets.
func (m Metadata) TargetsFor(special bool) []string {
	if special {
		return m.AvailableTargets
	}
	out := make([]string, 0, len(m.AvailableTargets))
	for _, t := range m.AvailableTargets {
		if t == TargetPeakIncidence || t == TargetPeakWeek {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Resolution is the outcome of one reconciliation run.
type Resolution struct {
	State  State
	Params Params
	// WroteBack is true when the run mutated the parameters (models
	// write-back). A second run over the result is guaranteed not to.
	WroteBack bool
	// Corrected is true when any URL-provided selection had to be dropped
	// or replaced because it was stale for the loaded data.
	Corrected bool
}

// Resolve reconciles state and parameters against loaded metadata. It is the
// pure core of the reconciliation effect: derive, don't cache. Running it
// twice with unchanged inputs produces no further mutation.
//
// Models resolve as URL-valid values, else the dataset default, else the
// first available model. Dates resolve as URL-valid values, else the single
// latest available date. The active date must be a member of the selected
// dates. The target resolves from the URL only when it is available. When
// models or dates were filled from defaults, the resolved models (only) are
// written back into the parameters to make the default shareable.
func Resolve(reg *registry.Registry, p Params, meta Metadata, current State) Resolution {
	view := View(p, reg)
	ds := datasetFor(reg, view)
	special := noDateSelector(ds, view)

	dp := GetDatasetParams(p, ds)
	availModels := meta.ModelsFor(special)
	availDates := meta.DatesFor(special)
	availTargets := meta.TargetsFor(special)

	s := current
	corrected := false

	// Models: URL-valid, else dataset default, else first available.
	models := filterValid(dp.Models, availModels)
	modelsFromURL := len(models) > 0 && len(models) == len(dp.Models)
	if len(dp.Models) > 0 && len(models) != len(dp.Models) {
		corrected = true
	}
	if len(models) == 0 {
		if len(dp.Models) > 0 {
			corrected = true
		}
		switch {
		case ds != nil && ds.DefaultModel != "" && contains(availModels, ds.DefaultModel):
			models = []string{ds.DefaultModel}
		case len(availModels) > 0:
			models = []string{availModels[0]}
		default:
			models = []string{}
		}
	}
	s.SelectedModels = models

	// Dates: URL-valid, else the single latest available date.
	dates := filterValid(dp.Dates, availDates)
	datesFromURL := len(dates) > 0 && len(dates) == len(dp.Dates)
	if len(dp.Dates) > 0 && len(dates) != len(dp.Dates) {
		corrected = true
	}
	if len(dates) == 0 {
		if len(dp.Dates) > 0 {
			corrected = true
		}
		if latest := latestOf(availDates); latest != "" {
			dates = []string{latest}
		} else {
			dates = []string{}
		}
	}
	s.SelectedDates = dates

	// Active date must be a member of the selected dates.
	if !contains(dates, s.ActiveDate) {
		if s.ActiveDate != "" {
			corrected = true
		}
		s.ActiveDate = latestOf(dates)
	}

	// Target: URL value only when available.
	target := ""
	if ds != nil {
		target = p.Get(ds.Prefix + "_target")
	}
	if contains(availTargets, target) {
		s.SelectedTarget = target
	} else {
		if target != "" || (s.SelectedTarget != "" && !contains(availTargets, s.SelectedTarget)) {
			corrected = true
		}
		s.SelectedTarget = ""
	}

	// Write the resolved models back when the URL did not already encode a
	// valid equivalent. Only models are written back, never dates.
	out := p.Clone()
	if !modelsFromURL || !datesFromURL {
		out = SetDatasetParams(out, ds, ModelsPatch(models))
	}
	return Resolution{
		State:     s,
		Params:    out,
		WroteBack: !out.Equal(p),
		Corrected: corrected,
	}
}

// filterValid keeps values present in the availability set, preserving order
// and dropping duplicates.
func filterValid(values, available []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		if contains(available, v) {
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}

func contains(values []string, v string) bool {
	if v == "" {
		return false
	}
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// latestOf returns the maximum ISO date, which sorts lexicographically.
func latestOf(dates []string) string {
	latest := ""
	for _, d := range dates {
		if d > latest {
			latest = d
		}
	}
	return latest
}
