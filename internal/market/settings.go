// Package market holds the versioned per-market calibration constants.
package market

import (
	"math"

	"github.com/yourusername/matchedge/internal/models"
)

// Aggregation selects how two team values combine into a market total
type Aggregation int

const (
	// AggregateSum adds the weighted team values
	AggregateSum Aggregation = iota
	// AggregateWeakest takes the weaker weighted side, used for BTTS
	AggregateWeakest
)

// Settings is the typed configuration record of a single market
type Settings struct {
	Kind                models.MarketKind
	Metric              models.Metric
	Label               string
	Aggregation         Aggregation
	Thresholds          []float64
	VarianceCoefficient float64
	HomeWeight          float64
	AwayWeight          float64
	ProbabilityBase     float64
	ProbabilitySlope    float64
	ProbabilityCap      float64
	MinConfidence       float64
	SecurityScale       float64
	PriorUpper          float64
	PriorLower          float64
	StrongBetConfidence float64
	BetConfidence       float64
}

// Directions returns the upper and lower call names for the market
func (s Settings) Directions() (upper, lower models.Direction) {
	if s.Aggregation == AggregateWeakest {
		return models.DirectionYes, models.DirectionNo
	}
	return models.DirectionOver, models.DirectionUnder
}

// Prior returns the historical success rate for a direction
func (s Settings) Prior(d models.Direction) float64 {
	if d.IsUpper() {
		return s.PriorUpper
	}
	return s.PriorLower
}

// RawProbability maps a security margin onto the market's probability line
func (s Settings) RawProbability(margin float64) float64 {
	return math.Min(s.ProbabilityCap, s.ProbabilityBase+margin*s.ProbabilitySlope)
}

// SecurityLevel converts a margin into the 0-100 security scale
func (s Settings) SecurityLevel(margin float64) float64 {
	if margin <= 0 {
		return 0
	}
	return math.Min(100, margin*s.SecurityScale)
}

// Combine aggregates weighted team values into the market total
func (s Settings) Combine(home, away float64) float64 {
	h := home * s.HomeWeight
	a := away * s.AwayWeight
	if s.Aggregation == AggregateWeakest {
		return math.Min(h, a)
	}
	return h + a
}

func (s Settings) clone() Settings {
	s.Thresholds = append([]float64(nil), s.Thresholds...)
	return s
}
