package scoring

import (
	"github.com/respiview/respiview/internal/domain/model"
)

// GameScore aggregates the per-horizon WIS of one game. Pointer fields are
// nil when no horizon could be scored, preserving the distinction between
// "no data" and "score of zero".
type GameScore struct {
	GameID          string   `json:"gameId"`
	WIS             *float64 `json:"wis"`
	Dispersion      *float64 `json:"dispersion"`
	Underprediction *float64 `json:"underprediction"`
	Overprediction  *float64 `json:"overprediction"`
	ValidHorizons   int      `json:"validHorizons"`
	// Coverage counters over horizons with finite truth and finite bounds.
	CoverageHorizons int `json:"coverageHorizons"`
	Covered95        int `json:"covered95"`
	Covered50        int `json:"covered50"`
}

// ScoreGame computes the per-game WIS aggregate. Horizons with missing or
// non-finite ground truth are excluded from both numerator and denominator.
func ScoreGame(rec model.GameRecord) GameScore {
	gs := GameScore{GameID: rec.ID}

	var sumWIS, sumDisp, sumUnder, sumOver float64
	for i, fc := range rec.UserForecasts {
		if i >= len(rec.GroundTruth) || rec.GroundTruth[i] == nil {
			continue
		}
		truth := *rec.GroundTruth[i]
		if !finite(truth) {
			continue
		}

		if res := WIS(truth, fc.Median, fc.Lower50, fc.Upper50, fc.Lower95, fc.Upper95); res != nil {
			sumWIS += res.WIS
			sumDisp += res.Dispersion
			sumUnder += res.Underprediction
			sumOver += res.Overprediction
			gs.ValidHorizons++
		}

		if finite(fc.Lower95) && finite(fc.Upper95) && finite(fc.Lower50) && finite(fc.Upper50) {
			gs.CoverageHorizons++
			// Inclusive bounds: truth on the boundary counts as covered.
			if truth >= fc.Lower95 && truth <= fc.Upper95 {
				gs.Covered95++
			}
			if truth >= fc.Lower50 && truth <= fc.Upper50 {
				gs.Covered50++
			}
		}
	}

	if gs.ValidHorizons > 0 {
		n := float64(gs.ValidHorizons)
		gs.WIS = ptr(sumWIS / n)
		gs.Dispersion = ptr(sumDisp / n)
		gs.Underprediction = ptr(sumUnder / n)
		gs.Overprediction = ptr(sumOver / n)
	}
	return gs
}

func ptr(v float64) *float64 {
	return &v
}
