// Command genfixtures generates synthetic snapshot JSON fixtures for local
// development and test suites: a metadata document, a location document with
// quantile forecasts and ground truth, and an NHSN series document. It uses
// the actual domain packages so the fixture shapes match real decode paths.
//
// Usage:
//
//	go run ./cmd/genfixtures -out data/fixtures -dataset flusight -location US
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/respiview/respiview/internal/domain/model"
	"github.com/respiview/respiview/internal/domain/registry"
)

var baseDate = time.Date(2025, time.November, 1, 0, 0, 0, 0, time.UTC)

const (
	weeks    = 8
	horizons = 4
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output directory for fixture files")
	dataset := flag.String("dataset", "flusight", "dataset short name")
	location := flag.String("location", "US", "location code")
	seed := flag.Int64("seed", 1, "random seed for reproducible fixtures")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	ds := registry.Builtin().ByShortName(*dataset)
	if ds == nil {
		return fmt.Errorf("unknown dataset %q", *dataset)
	}

	rng := rand.New(rand.NewSource(*seed))
	dir := filepath.Join(*out, ds.ShortName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	meta := model.Metadata{
		Locations: []model.MetadataLocation{
			{Abbreviation: "US", LocationName: "United States"},
			{Abbreviation: "CA", LocationName: "California"},
			{Abbreviation: "NY", LocationName: "New York"},
		},
	}
	if err := writeJSON(filepath.Join(dir, "metadata.json"), meta); err != nil {
		return err
	}

	doc := locationDocument(ds, rng)
	name := fmt.Sprintf("%s_%s.json", *location, ds.ShortName)
	if err := writeJSON(filepath.Join(dir, name), doc); err != nil {
		return err
	}

	nhsnDir := filepath.Join(*out, "nhsn")
	if err := os.MkdirAll(nhsnDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", nhsnDir, err)
	}
	snap := nhsnSnapshot(rng)
	if err := writeJSON(filepath.Join(nhsnDir, *location+"_nhsn.json"), snap); err != nil {
		return err
	}

	log.Printf("wrote fixtures for %s/%s under %s", ds.ShortName, *location, *out)
	return nil
}

// locationDocument builds weekly quantile forecasts for the ensemble and a
// baseline model, plus matching ground truth, around a noisy seasonal curve.
func locationDocument(ds *registry.Dataset, rng *rand.Rand) model.LocationDocument {
	target := "wk inc flu hosp"
	models := []string{ds.DefaultModel, "CDC-baseline"}

	forecasts := make(map[string]map[string]map[string]model.ForecastPayload, weeks)
	truth := make([]model.ForecastObservation, 0, weeks+horizons)

	level := 800 + rng.Float64()*400
	for w := 0; w < weeks+horizons; w++ {
		date := baseDate.AddDate(0, 0, 7*w).Format("2006-01-02")
		// Rising season with multiplicative noise.
		value := level * math.Pow(1.15, float64(w)) * (0.9 + rng.Float64()*0.2)
		v := math.Round(value)
		truth = append(truth, model.ForecastObservation{Date: date, Value: &v})

		if w >= weeks {
			continue
		}
		byTarget := make(map[string]map[string]model.ForecastPayload, 1)
		byModel := make(map[string]model.ForecastPayload, len(models))
		for _, name := range models {
			byModel[name] = payload(date, value, rng)
		}
		byTarget[target] = byModel
		forecasts[date] = byTarget
	}

	return model.LocationDocument{
		Forecasts:   forecasts,
		GroundTruth: map[string][]model.ForecastObservation{target: truth},
	}
}

// payload builds one quantile forecast spanning the configured horizons.
func payload(date string, center float64, rng *rand.Rand) model.ForecastPayload {
	preds := make(map[string]model.Prediction, horizons)
	start, _ := time.Parse("2006-01-02", date)
	for h := 0; h < horizons; h++ {
		median := center * math.Pow(1.12, float64(h+1)) * (0.95 + rng.Float64()*0.1)
		spread := median * 0.15 * float64(h+1)
		preds[strconv.Itoa(h)] = model.Prediction{
			Date: start.AddDate(0, 0, 7*(h+1)).Format("2006-01-02"),
			Quantiles: []float64{
				model.QuantileLower95, model.QuantileLower50, model.QuantileMedian,
				model.QuantileUpper50, model.QuantileUpper95,
			},
			Values: []float64{
				math.Round(median - 2*spread),
				math.Round(median - spread),
				math.Round(median),
				math.Round(median + spread),
				math.Round(median + 2*spread),
			},
		}
	}
	return model.ForecastPayload{Type: "quantile", Predictions: preds}
}

// nhsnSnapshot builds parallel weekly admission series.
func nhsnSnapshot(rng *rand.Rand) model.NHSNSnapshot {
	dates := make([]string, weeks)
	flu := make([]float64, weeks)
	covid := make([]float64, weeks)
	for w := 0; w < weeks; w++ {
		dates[w] = baseDate.AddDate(0, 0, 7*w).Format("2006-01-02")
		flu[w] = math.Round(300 + rng.Float64()*200)
		covid[w] = math.Round(500 + rng.Float64()*300)
	}
	return model.NHSNSnapshot{
		Dates: dates,
		Series: map[string][]float64{
			"totalconfflunewadm": flu,
			"totalconfc19newadm": covid,
		},
	}
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
