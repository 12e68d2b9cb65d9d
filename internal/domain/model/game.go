// Package model contains domain models passed between layers.
package model

import "fmt"

// HorizonForecast holds the user's forecast for a single horizon of a game:
// the median plus the 50% and 95% prediction interval bounds.
type HorizonForecast struct {
	Horizon int     `json:"horizon"`
	Median  float64 `json:"median"`
	Lower95 float64 `json:"lower95"`
	Upper95 float64 `json:"upper95"`
	Lower50 float64 `json:"lower50"`
	Upper50 float64 `json:"upper50"`
}

// GameRecord is one completed Forecastle game as persisted in the game store.
// ID is derived from (challenge date, dataset, location) and acts as a natural
// key: saving a colliding record overwrites the prior one.
type GameRecord struct {
	ID            string            `json:"id"`
	PlayedAt      string            `json:"playedAt"`
	ChallengeDate string            `json:"challengeDate"`
	Dataset       string            `json:"dataset"`
	Location      string            `json:"location"`
	Target        string            `json:"target"`
	UserForecasts []HorizonForecast `json:"userForecasts"`
	// GroundTruth holds one observation per horizon; nil means the truth for
	// that horizon was not yet available when the game was recorded.
	GroundTruth  []*float64 `json:"groundTruth"`
	HorizonDates []string   `json:"horizonDates"`
	// Optional rank context captured at play time for statistics.
	UserRank     *int     `json:"userRank,omitempty"`
	EnsembleRank *int     `json:"ensembleRank,omitempty"`
	EnsembleWIS  *float64 `json:"ensembleWIS,omitempty"`
}

// DeriveID builds the natural key for a game record.
func DeriveID(challengeDate, dataset, location string) string {
	return fmt.Sprintf("%s_%s_%s", challengeDate, dataset, location)
}

// WithDerivedID returns a copy of rec with ID set from its key fields.
func (r GameRecord) WithDerivedID() GameRecord {
	r.ID = DeriveID(r.ChallengeDate, r.Dataset, r.Location)
	return r
}
