// Package scoring computes the Weighted Interval Score and its aggregates for
// probabilistic forecasts. All functions are pure and never panic: invalid
// numeric input yields a nil result ("not available"), never a zero score.
package scoring

import (
	"math"
)

// Interval coverage levels and WIS weights.
const (
	alpha50 = 0.5
	alpha95 = 0.05

	weight50     = 0.25
	weight95     = 0.025
	weightMedian = 0.5
)

// IntervalResult decomposes a single interval score.
type IntervalResult struct {
	Dispersion      float64
	Underprediction float64
	Overprediction  float64
	Score           float64
}

// finite reports whether v is a usable number.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// IntervalScore computes the interval score for one nominal interval with
// coverage level (1-alpha). Returns nil if any input is not finite.
func IntervalScore(observed, lower, upper, alpha float64) *IntervalResult {
	if !finite(observed) || !finite(lower) || !finite(upper) || !finite(alpha) || alpha <= 0 {
		return nil
	}
	r := IntervalResult{Dispersion: upper - lower}
	if observed < lower {
		r.Underprediction = (2 / alpha) * (lower - observed)
	}
	if observed > upper {
		r.Overprediction = (2 / alpha) * (observed - upper)
	}
	r.Score = r.Dispersion + r.Underprediction + r.Overprediction
	return &r
}

// Result holds a forecast's WIS and its additive decomposition. The
// decomposition aggregates the two interval components only; the median
// absolute error term has no dispersion/under/over split.
type Result struct {
	WIS             float64
	Dispersion      float64
	Underprediction float64
	Overprediction  float64
}

// WIS computes the Weighted Interval Score for one forecast given the
// observed value, the median, and the 50% and 95% interval bounds. Returns
// nil when the observation is not finite or either interval score is
// undefined. A non-finite median contributes an absolute error of zero.
func WIS(observed, median, lower50, upper50, lower95, upper95 float64) *Result {
	if !finite(observed) {
		return nil
	}
	score50 := IntervalScore(observed, lower50, upper50, alpha50)
	score95 := IntervalScore(observed, lower95, upper95, alpha95)
	if score50 == nil || score95 == nil {
		return nil
	}

	medianAE := 0.0
	if finite(median) {
		medianAE = math.Abs(observed - median)
	}

	return &Result{
		WIS:             weight50*score50.Score + weight95*score95.Score + weightMedian*medianAE,
		Dispersion:      weight50*score50.Dispersion + weight95*score95.Dispersion,
		Underprediction: weight50*score50.Underprediction + weight95*score95.Underprediction,
		Overprediction:  weight50*score50.Overprediction + weight95*score95.Overprediction,
	}
}
