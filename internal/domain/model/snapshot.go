package model

import "math"

// Quantile levels required for interval-based traces.
const (
	QuantileLower95 = 0.025
	QuantileLower50 = 0.25
	QuantileMedian  = 0.5
	QuantileUpper50 = 0.75
	QuantileUpper95 = 0.975
)

// Metadata mirrors {datasetDir}/metadata.json.
type Metadata struct {
	Locations []MetadataLocation `json:"locations"`
}

// MetadataLocation is one selectable location in a dataset.
type MetadataLocation struct {
	Abbreviation string `json:"abbreviation"`
	LocationName string `json:"location_name"`
}

// LocationDocument mirrors {datasetDir}/{location}_{datasetDir}.json:
// forecasts keyed by date -> target -> model, plus ground truth series.
type LocationDocument struct {
	Forecasts   map[string]map[string]map[string]ForecastPayload `json:"forecasts"`
	GroundTruth map[string][]ForecastObservation                 `json:"ground_truth"`
}

// ForecastObservation is one observed (date, value) pair.
type ForecastObservation struct {
	Date  string   `json:"date"`
	Value *float64 `json:"value"`
}

// ForecastPayload is either a quantile or a sample forecast.
type ForecastPayload struct {
	Type        string                `json:"type"`
	Predictions map[string]Prediction `json:"predictions"`
}

// Prediction holds predicted values for one horizon key.
type Prediction struct {
	Date      string    `json:"date"`
	Quantiles []float64 `json:"quantiles,omitempty"`
	Values    []float64 `json:"values,omitempty"`
	Samples   []float64 `json:"samples,omitempty"`
}

// NHSNSnapshot mirrors the NHSN-specific document: parallel arrays keyed by
// column name alongside the shared dates array.
type NHSNSnapshot struct {
	Series map[string][]float64 `json:"series"`
	Dates  []string             `json:"dates"`
}

// QuantileSet is a sparse mapping from quantile level to predicted value for
// one prediction at one horizon.
type QuantileSet map[float64]float64

// requiredLevels are the five levels interval traces depend on.
var requiredLevels = []float64{
	QuantileLower95, QuantileLower50, QuantileMedian, QuantileUpper50, QuantileUpper95,
}

// FromPrediction builds a QuantileSet from a quantile-type prediction's
// parallel arrays. Mismatched lengths yield the shorter prefix.
func FromPrediction(p Prediction) QuantileSet {
	n := len(p.Quantiles)
	if len(p.Values) < n {
		n = len(p.Values)
	}
	qs := make(QuantileSet, n)
	for i := 0; i < n; i++ {
		qs[p.Quantiles[i]] = p.Values[i]
	}
	return qs
}

// Complete reports whether all five required levels are present with finite
// values. Predictions missing any level contribute nothing to interval traces.
func (qs QuantileSet) Complete() bool {
	for _, level := range requiredLevels {
		v, ok := qs[level]
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
