package scoring

import (
	"github.com/jonboulle/clockwork"

	"github.com/respiview/respiview/internal/domain/model"
)

// Summary is the cross-game statistics view. Pointer fields are nil when no
// game carried the data needed to compute them.
type Summary struct {
	GamesPlayed int `json:"gamesPlayed"`
	ScoredGames int `json:"scoredGames"`

	AvgWIS   *float64 `json:"avgWIS"`
	BestWIS  *float64 `json:"bestWIS"`
	WorstWIS *float64 `json:"worstWIS"`

	AvgDispersion      *float64 `json:"avgDispersion"`
	AvgUnderprediction *float64 `json:"avgUnderprediction"`
	AvgOverprediction  *float64 `json:"avgOverprediction"`

	// AvgRankDelta averages (ensembleRank - userRank); positive means the
	// user outperformed the ensemble.
	AvgRankDelta *float64 `json:"avgRankDelta"`
	// AvgPctVsEnsemble averages (userWIS - ensembleWIS) / ensembleWIS * 100.
	AvgPctVsEnsemble *float64 `json:"avgPctVsEnsemble"`

	Coverage95Pct *float64 `json:"coverage95Pct"`
	Coverage50Pct *float64 `json:"coverage50Pct"`

	CurrentStreak int `json:"currentStreak"`
	MaxStreak     int `json:"maxStreak"`
}

// Summarize computes cross-game statistics over all stored games. The clock
// anchors "today" for the streak calculation.
func Summarize(recs []model.GameRecord, clock clockwork.Clock) Summary {
	sum := Summary{GamesPlayed: len(recs)}

	var (
		wisSum, dispSum, underSum, overSum float64
		best, worst                        *float64
		rankDeltaSum                       float64
		rankDeltaCount                     int
		pctSum                             float64
		pctCount                           int
		covHorizons, cov95, cov50          int
		dates                              []string
	)

	for _, rec := range recs {
		dates = append(dates, rec.ChallengeDate)
		gs := ScoreGame(rec)

		covHorizons += gs.CoverageHorizons
		cov95 += gs.Covered95
		cov50 += gs.Covered50

		// Rank context does not depend on the game being scorable.
		if rec.UserRank != nil && rec.EnsembleRank != nil {
			rankDeltaSum += float64(*rec.EnsembleRank - *rec.UserRank)
			rankDeltaCount++
		}

		if gs.WIS == nil {
			continue
		}
		wis := *gs.WIS
		if !finite(wis) {
			continue
		}
		sum.ScoredGames++
		wisSum += wis
		dispSum += *gs.Dispersion
		underSum += *gs.Underprediction
		overSum += *gs.Overprediction
		if best == nil || wis < *best {
			best = ptr(wis)
		}
		if worst == nil || wis > *worst {
			worst = ptr(wis)
		}

		if rec.EnsembleWIS != nil && finite(*rec.EnsembleWIS) && *rec.EnsembleWIS > 0 {
			pctSum += (wis - *rec.EnsembleWIS) / *rec.EnsembleWIS * 100
			pctCount++
		}
	}

	if sum.ScoredGames > 0 {
		n := float64(sum.ScoredGames)
		sum.AvgWIS = ptr(wisSum / n)
		sum.AvgDispersion = ptr(dispSum / n)
		sum.AvgUnderprediction = ptr(underSum / n)
		sum.AvgOverprediction = ptr(overSum / n)
		sum.BestWIS = best
		sum.WorstWIS = worst
	}
	if rankDeltaCount > 0 {
		sum.AvgRankDelta = ptr(rankDeltaSum / float64(rankDeltaCount))
	}
	if pctCount > 0 {
		sum.AvgPctVsEnsemble = ptr(pctSum / float64(pctCount))
	}
	if covHorizons > 0 {
		sum.Coverage95Pct = ptr(float64(cov95) / float64(covHorizons) * 100)
		sum.Coverage50Pct = ptr(float64(cov50) / float64(covHorizons) * 100)
	}

	sum.CurrentStreak, sum.MaxStreak = Streaks(dates, clock)
	return sum
}
