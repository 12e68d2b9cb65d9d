package viewstate

import (
	"sort"
	"strings"
)

// ChartScale selects the y-axis scale of the time-series chart.
type ChartScale string

const (
	ScaleLinear ChartScale = "linear"
	ScaleLog    ChartScale = "log"
	ScaleSqrt   ChartScale = "sqrt"
)

// ParseChartScale maps a raw value to a valid scale, defaulting to linear.
func ParseChartScale(raw string) ChartScale {
	switch ChartScale(raw) {
	case ScaleLog:
		return ScaleLog
	case ScaleSqrt:
		return ScaleSqrt
	default:
		return ScaleLinear
	}
}

// Interval identifies one independently toggleable chart trace.
type Interval string

const (
	IntervalMedian Interval = "median"
	IntervalCI50   Interval = "ci50"
	IntervalCI95   Interval = "ci95"
)

// IntervalSet tracks which traces are visible.
type IntervalSet map[Interval]bool

// DefaultIntervals returns the default visibility: all traces shown.
func DefaultIntervals() IntervalSet {
	return IntervalSet{IntervalMedian: true, IntervalCI50: true, IntervalCI95: true}
}

// encode renders the visible intervals as a stable comma list.
func (s IntervalSet) encode() string {
	visible := make([]string, 0, len(s))
	for iv, on := range s {
		if on {
			visible = append(visible, string(iv))
		}
	}
	sort.Strings(visible)
	return strings.Join(visible, listSeparator)
}

// equalDefault reports whether the set matches the default visibility.
func (s IntervalSet) equalDefault() bool {
	def := DefaultIntervals()
	for iv, on := range def {
		if s[iv] != on {
			return false
		}
	}
	for iv, on := range s {
		if on && !def[iv] {
			return false
		}
	}
	return true
}

// parseIntervals decodes an interval list; unknown names are dropped.
func parseIntervals(raw string) IntervalSet {
	set := IntervalSet{}
	for _, name := range splitList(raw) {
		switch Interval(name) {
		case IntervalMedian, IntervalCI50, IntervalCI95:
			set[Interval(name)] = true
		}
	}
	return set
}

// State holds the in-memory side of the view parameters: the selections not
// (or not yet) reflected in the URL. Zero-length fields mean "unset".
type State struct {
	SelectedTarget string
	SelectedModels []string
	SelectedDates  []string
	ActiveDate     string
	ChartScale     ChartScale
	Intervals      IntervalSet
	ShowLegend     bool
}

// NewState returns the session-start state with display defaults applied.
func NewState() State {
	return State{
		SelectedModels: []string{},
		SelectedDates:  []string{},
		ChartScale:     ScaleLinear,
		Intervals:      DefaultIntervals(),
		ShowLegend:     true,
	}
}

// clearSelections resets everything tied to a dataset's data.
func (s State) clearSelections() State {
	s.SelectedTarget = ""
	s.SelectedModels = []string{}
	s.SelectedDates = []string{}
	s.ActiveDate = ""
	return s
}

// Route identifies the page currently displayed. Display parameters are only
// synced to the URL while the main forecast page is active.
type Route string

const (
	RouteForecast Route = "forecast"
	RouteOther    Route = "other"
)

// SetDisplayParams writes chart scale, interval visibility and legend flag
// into the parameters, omitting values equal to the defaults. Off the
// forecast route this is a no-op: display settings stay purely in-memory.
func SetDisplayParams(p Params, s State, route Route) Params {
	if route != RouteForecast {
		return p.Clone()
	}
	out := p.Clone()
	if s.ChartScale == ScaleLinear || s.ChartScale == "" {
		out.Del(ParamScale)
	} else {
		out.Set(ParamScale, string(s.ChartScale))
	}
	if s.Intervals == nil || s.Intervals.equalDefault() {
		out.Del(ParamIntervals)
	} else {
		out.Set(ParamIntervals, s.Intervals.encode())
	}
	if s.ShowLegend {
		out.Del(ParamLegend)
	} else {
		out.Set(ParamLegend, "false")
	}
	return out
}

// ApplyDisplayParams folds URL display parameters into the state. Absent or
// malformed values keep the defaults.
func ApplyDisplayParams(p Params, s State) State {
	s.ChartScale = ParseChartScale(p.Get(ParamScale))
	if p.Has(ParamIntervals) {
		s.Intervals = parseIntervals(p.Get(ParamIntervals))
	} else {
		s.Intervals = DefaultIntervals()
	}
	s.ShowLegend = p.Get(ParamLegend) != "false"
	return s
}
