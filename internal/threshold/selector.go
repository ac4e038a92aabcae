// Package threshold scans each market's candidate lines for a defensible call.
package threshold

import (
	"fmt"
	"math"

	"github.com/yourusername/matchedge/internal/market"
	"github.com/yourusername/matchedge/internal/models"
	"github.com/yourusername/matchedge/internal/profile"
)

// PercentileZ is the normal quantile of the 10th/90th percentile band
const PercentileZ = 1.28

// Options tune a selection
type Options struct {
	// All returns every qualifying threshold instead of the single best
	All bool
	// HomeWeight and AwayWeight override the market's venue weighting when positive
	HomeWeight float64
	AwayWeight float64
}

// Selector picks threshold calls for a market from two team profiles
type Selector struct {
	catalog market.Catalog
}

// NewSelector creates a selector bound to a catalog
func NewSelector(catalog market.Catalog) *Selector {
	return &Selector{catalog: catalog}
}

// Select returns the qualifying calls for kind. An empty result means the
// market has insufficient data or no line cleared the uncertainty band.
func (s *Selector) Select(home, away *models.TeamProfile, kind models.MarketKind, opts Options) []models.ThresholdResult {
	if home == nil || away == nil || !kind.Valid() {
		return nil
	}
	settings := s.catalog.Settings(kind)
	if opts.HomeWeight > 0 {
		settings.HomeWeight = opts.HomeWeight
	}
	if opts.AwayWeight > 0 {
		settings.AwayWeight = opts.AwayWeight
	}

	homeEst := home.Metric(settings.Metric)
	awayEst := away.Metric(settings.Metric)
	if homeEst.ExpectedValue <= 0 || awayEst.ExpectedValue <= 0 {
		return nil
	}

	expected := settings.Combine(homeEst.ExpectedValue, awayEst.ExpectedValue)
	variance := CombinedVariance(
		homeEst.Variance*settings.VarianceCoefficient,
		awayEst.Variance*settings.VarianceCoefficient,
	)

	var qualifying []models.ThresholdResult
	for _, t := range settings.Thresholds {
		result, ok := Evaluate(settings, expected, variance, t)
		if !ok {
			continue
		}
		result.HomeExpected = homeEst.ExpectedValue
		result.AwayExpected = awayEst.ExpectedValue
		result.Reasoning = append([]string{composition(settings, homeEst.ExpectedValue, awayEst.ExpectedValue, expected)}, result.Reasoning...)
		qualifying = append(qualifying, result)
	}

	if opts.All || len(qualifying) <= 1 {
		return qualifying
	}
	return []models.ThresholdResult{best(qualifying)}
}

// CombinedVariance sums two independent spreads in quadrature
func CombinedVariance(home, away float64) float64 {
	return math.Sqrt(home*home + away*away)
}

// Evaluate tests a single line against an expected total and its spread.
// The line qualifies only when the expectation sits strictly outside the
// band threshold ± variance and the raw probability clears the market minimum.
func Evaluate(settings market.Settings, expected, variance, threshold float64) (models.ThresholdResult, bool) {
	if variance <= 0 {
		variance = profile.VarianceFloor
	}
	upper, lower := settings.Directions()

	var direction models.Direction
	var margin float64
	switch {
	case expected > threshold+variance:
		direction = upper
		margin = (expected - threshold) / variance
	case expected < threshold-variance:
		direction = lower
		margin = (threshold - expected) / variance
	default:
		return models.ThresholdResult{}, false
	}

	raw := settings.RawProbability(margin)
	if raw < settings.MinConfidence {
		return models.ThresholdResult{}, false
	}

	minExpected := math.Max(0, expected-PercentileZ*variance)
	maxExpected := expected + PercentileZ*variance

	return models.ThresholdResult{
		Market:           settings.Kind,
		MetricLabel:      settings.Label,
		Threshold:        threshold,
		Direction:        direction,
		ExpectedValue:    expected,
		CombinedVariance: variance,
		SecurityMargin:   margin,
		RawProbability:   raw,
		MinExpected:      minExpected,
		MaxExpected:      maxExpected,
		Reasoning: []string{
			fmt.Sprintf("%s %s %.1f: expectation %.2f sits %.2f from the line (%.1fσ outside the uncertain band)",
				settings.Label, direction, threshold, expected, math.Abs(expected-threshold), margin),
			fmt.Sprintf("80%% band %.2f to %.2f", minExpected, maxExpected),
		},
		ValidatedBy: []string{"variance-band", "probability-floor"},
	}, true
}

func composition(settings market.Settings, home, away, expected float64) string {
	if settings.Aggregation == market.AggregateWeakest {
		return fmt.Sprintf("Weaker side expected to score %.2f (home %.2f, away %.2f)", expected, home, away)
	}
	return fmt.Sprintf("Expected %s %.2f (home %.2f × %.2f + away %.2f × %.2f)",
		settings.Label, expected, home, settings.HomeWeight, away, settings.AwayWeight)
}

// best keeps the highest raw probability, then the widest margin; the
// earlier catalog line wins a full tie
func best(results []models.ThresholdResult) models.ThresholdResult {
	top := results[0]
	for _, r := range results[1:] {
		if r.RawProbability > top.RawProbability ||
			(r.RawProbability == top.RawProbability && r.SecurityMargin > top.SecurityMargin) {
			top = r
		}
	}
	return top
}
