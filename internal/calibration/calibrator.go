// Package calibration turns a raw threshold probability into a final
// confidence by blending independent heuristic signals.
package calibration

import (
	"math"

	"github.com/yourusername/matchedge/internal/market"
	"github.com/yourusername/matchedge/internal/models"
)

const (
	// Ceiling is the highest confidence ever reported
	Ceiling = 99.0
	// Floor is the lowest base confidence accepted
	Floor = 50.0

	pathStep     = 0.1
	maxPathSteps = 500
	minVariance  = 1e-6
)

// ConsensusLevels are the fractions of each signal cap that count as strong
// agreement for the consensus override
type ConsensusLevels struct {
	Trend float64
	Prior float64
	Curve float64
}

// Input is one threshold result to calibrate, with optional live context
// and the profiles it was derived from
type Input struct {
	Result  models.ThresholdResult
	Home    *models.TeamProfile
	Away    *models.TeamProfile
	Context *models.MatchContext
}

// Calibrator produces final confidences. It holds no mutable state and is
// safe for concurrent use.
type Calibrator struct {
	catalog   market.Catalog
	patterns  []PatternRule
	overrides []Override
	consensus ConsensusLevels
}

// Option configures a Calibrator
type Option func(*Calibrator)

// WithPatterns replaces the pattern rule table
func WithPatterns(rules []PatternRule) Option {
	return func(c *Calibrator) {
		c.patterns = append([]PatternRule(nil), rules...)
	}
}

// WithOverrides replaces the near-certain override list
func WithOverrides(rules []Override) Option {
	return func(c *Calibrator) {
		c.overrides = append([]Override(nil), rules...)
	}
}

// WithConsensusLevels replaces the consensus thresholds
func WithConsensusLevels(levels ConsensusLevels) Option {
	return func(c *Calibrator) {
		c.consensus = levels
	}
}

// NewCalibrator creates a calibrator with the default rule tables
func NewCalibrator(catalog market.Catalog, opts ...Option) *Calibrator {
	c := &Calibrator{
		catalog:   catalog,
		patterns:  DefaultPatterns(),
		overrides: DefaultOverrides(),
		consensus: ConsensusLevels{Trend: 0.6, Prior: 0.8, Curve: 0.75},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type pathPoint struct {
	total    float64
	signals  models.SignalBreakdown
	patterns []string
}

// Calibrate returns the final confidence for a threshold result. The result
// lies in [base, 99] where base is the raw probability clamped to [50, 99].
//
// The ensemble is walked along the distance path from the line out to the
// observed distance and its running maximum is used, so a wider margin never
// reads as less certain.
func (c *Calibrator) Calibrate(in Input) models.Calibration {
	settings := c.catalog.Settings(in.Result.Market)
	base := clamp(in.Result.RawProbability, Floor, Ceiling)
	distance := in.Result.Distance()

	steps := int(math.Floor(distance / pathStep))
	if steps > maxPathSteps {
		steps = maxPathSteps
	}

	var best pathPoint
	maxBoost := 0.0
	consensus := false
	for k := 0; k <= steps; k++ {
		p := c.evaluate(settings, in, float64(k)*pathStep)
		if k == 0 || p.total > best.total {
			best = p
		}
		maxBoost = math.Max(maxBoost, p.signals.EnsembleBoost)
		consensus = consensus || c.isConsensus(p.signals)
	}

	confidence := math.Min(Ceiling, math.Max(base, best.total))
	confidence, fired := ApplyOverrides(confidence, c.overrides, OverrideInput{
		Evidence:      Evidence{Result: in.Result, Home: in.Home, Away: in.Away, Context: in.Context},
		Distance:      distance,
		Minute:        in.Context.LiveMinute(),
		EnsembleBoost: maxBoost,
		Consensus:     consensus,
	})
	confidence = clamp(confidence, base, Ceiling)

	signals := best.signals
	signals.EnsembleBoost = maxBoost

	return models.Calibration{
		BaseConfidence:  base,
		FinalConfidence: confidence,
		Signals:         signals,
		PatternsMatched: best.patterns,
		Overrides:       fired,
	}
}

// evaluate scores a hypothetical line sitting gap units from the expectation
// on the same side as the real call
func (c *Calibrator) evaluate(settings market.Settings, in Input, gap float64) pathPoint {
	caps := c.catalog.Caps()

	r := in.Result
	variance := math.Max(r.CombinedVariance, minVariance)
	if r.Direction.IsUpper() {
		r.Threshold = r.ExpectedValue - gap
	} else {
		r.Threshold = r.ExpectedValue + gap
	}
	r.SecurityMargin = gap / variance
	r.RawProbability = settings.RawProbability(r.SecurityMargin)
	base := clamp(r.RawProbability, Floor, Ceiling)

	trend := TrendSignal(caps.Trend, settings, r, in.Context)
	prior := PriorSignal(caps.Prior, settings.Prior(r.Direction), r.SecurityMargin)
	pattern, matched := PatternSignal(caps.Pattern, c.patterns, Evidence{
		Result:  r,
		Home:    in.Home,
		Away:    in.Away,
		Context: in.Context,
	})
	curve := CurveSignal(caps.Curve, base, in.Context.ElapsedFraction(), gap)

	signals := Ensemble(c.catalog.Weights(), c.catalog.Agreement(), trend, prior, pattern, curve)
	return pathPoint{
		total:    base + signals.EnsembleBoost,
		signals:  signals,
		patterns: matched,
	}
}

func (c *Calibrator) isConsensus(s models.SignalBreakdown) bool {
	caps := c.catalog.Caps()
	return s.Trend >= c.consensus.Trend*caps.Trend &&
		s.Prior >= c.consensus.Prior*caps.Prior &&
		s.Curve >= c.consensus.Curve*caps.Curve
}
