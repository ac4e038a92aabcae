package models

import "github.com/google/uuid"

// RegulationMinutes is the length of a match used to scale elapsed time
const RegulationMinutes = 90.0

// MatchContext is a live snapshot of a match in progress
type MatchContext struct {
	Minute            int     `json:"minute" yaml:"minute" validate:"gte=0,lte=130"`
	HomeScore         int     `json:"home_score" yaml:"home_score" validate:"gte=0"`
	AwayScore         int     `json:"away_score" yaml:"away_score" validate:"gte=0"`
	HomePossession    float64 `json:"home_possession" yaml:"home_possession" validate:"gte=0,lte=100"`
	AwayPossession    float64 `json:"away_possession" yaml:"away_possession" validate:"gte=0,lte=100"`
	HomeCorners       int     `json:"home_corners" yaml:"home_corners" validate:"gte=0"`
	AwayCorners       int     `json:"away_corners" yaml:"away_corners" validate:"gte=0"`
	HomeFouls         int     `json:"home_fouls" yaml:"home_fouls" validate:"gte=0"`
	AwayFouls         int     `json:"away_fouls" yaml:"away_fouls" validate:"gte=0"`
	HomeYellowCards   int     `json:"home_yellow_cards" yaml:"home_yellow_cards" validate:"gte=0"`
	AwayYellowCards   int     `json:"away_yellow_cards" yaml:"away_yellow_cards" validate:"gte=0"`
	HomeShotsOnTarget int     `json:"home_shots_on_target" yaml:"home_shots_on_target" validate:"gte=0"`
	AwayShotsOnTarget int     `json:"away_shots_on_target" yaml:"away_shots_on_target" validate:"gte=0"`
}

// ElapsedFraction returns the share of regulation time played, in [0,1]
func (c *MatchContext) ElapsedFraction() float64 {
	if c == nil || c.Minute <= 0 {
		return 0
	}
	f := float64(c.Minute) / RegulationMinutes
	if f > 1 {
		return 1
	}
	return f
}

// LiveMinute returns the match minute or 0 without a context
func (c *MatchContext) LiveMinute() int {
	if c == nil {
		return 0
	}
	return c.Minute
}

// LiveTotals returns the home and away live counts for a metric
func (c *MatchContext) LiveTotals(m Metric) (home, away float64) {
	if c == nil {
		return 0, 0
	}
	switch m {
	case MetricGoals:
		return float64(c.HomeScore), float64(c.AwayScore)
	case MetricCorners:
		return float64(c.HomeCorners), float64(c.AwayCorners)
	case MetricFouls:
		return float64(c.HomeFouls), float64(c.AwayFouls)
	case MetricYellowCards:
		return float64(c.HomeYellowCards), float64(c.AwayYellowCards)
	case MetricShotsOnTarget:
		return float64(c.HomeShotsOnTarget), float64(c.AwayShotsOnTarget)
	case MetricGoalsConceded:
		return float64(c.AwayScore), float64(c.HomeScore)
	}
	return 0, 0
}

// MatchRequest asks for recommendations on one fixture
type MatchRequest struct {
	Home          TeamStats     `json:"home" yaml:"home" validate:"required"`
	Away          TeamStats     `json:"away" yaml:"away" validate:"required"`
	Context       *MatchContext `json:"context,omitempty" yaml:"context,omitempty"`
	Markets       []string      `json:"markets,omitempty" yaml:"markets,omitempty"`
	AllThresholds bool          `json:"all_thresholds,omitempty" yaml:"all_thresholds,omitempty"`
}

// MatchID derives a stable identifier from the fixture names
func (r MatchRequest) MatchID() uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(r.Home.Name+" v "+r.Away.Name))
}

// MatchReport is the ordered recommendation list for one fixture
type MatchReport struct {
	MatchID          uuid.UUID              `json:"match_id"`
	Home             string                 `json:"home"`
	Away             string                 `json:"away"`
	CatalogVersion   string                 `json:"catalog_version"`
	Predictions      []CalibratedPrediction `json:"predictions"`
	Warnings         []string               `json:"warnings,omitempty"`
	MarketsEvaluated int                    `json:"markets_evaluated"`
}

// Best returns the highest-confidence prediction, if any
func (r *MatchReport) Best() (CalibratedPrediction, bool) {
	if r == nil || len(r.Predictions) == 0 {
		return CalibratedPrediction{}, false
	}
	return r.Predictions[0], true
}
