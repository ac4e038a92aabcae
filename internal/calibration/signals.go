package calibration

import (
	"math"

	"github.com/yourusername/matchedge/internal/market"
	"github.com/yourusername/matchedge/internal/models"
)

// TrendSignal scales with elapsed time and with how well the live pace
// agrees with the call. Zero without a live context.
func TrendSignal(limit float64, settings market.Settings, result models.ThresholdResult, ctx *models.MatchContext) float64 {
	elapsed := ctx.ElapsedFraction()
	if elapsed == 0 {
		return 0
	}
	return limit * elapsed * liveAgreement(settings, result, ctx)
}

// liveAgreement returns how strongly the live match supports the call, in [0,1]
func liveAgreement(settings market.Settings, result models.ThresholdResult, ctx *models.MatchContext) float64 {
	liveHome, liveAway := ctx.LiveTotals(settings.Metric)
	upper := result.Direction.IsUpper()

	if settings.Aggregation == market.AggregateWeakest {
		bothScored := liveHome > 0 && liveAway > 0
		if bothScored {
			return boolToFloat(upper)
		}
		return paceAgreement(liveHome+liveAway, result.HomeExpected+result.AwayExpected, ctx.Minute, upper)
	}

	live := liveHome + liveAway
	if live > result.Threshold {
		// The line is already decided in play
		return boolToFloat(upper)
	}
	return paceAgreement(live, result.ExpectedValue, ctx.Minute, upper)
}

func paceAgreement(live, expectedTotal float64, minute int, upper bool) float64 {
	if minute <= 0 || expectedTotal <= 0 {
		return 0
	}
	observedRate := live / float64(minute)
	expectedRate := expectedTotal / models.RegulationMinutes
	ratio := observedRate / expectedRate
	if upper {
		return clamp(ratio, 0, 1)
	}
	return clamp(2-ratio, 0, 1)
}

// PriorSignal blends the historical success rate of the market/direction with
// a likelihood derived from the security margin
func PriorSignal(limit, prior, margin float64) float64 {
	if margin <= 0 {
		return 0
	}
	likelihood := 1 - 0.5*math.Exp(-margin)
	posterior := prior * likelihood / (prior*likelihood + (1-prior)*(1-likelihood))
	return limit * clamp((posterior-0.5)/0.5, 0, 1)
}

// CurveSignal is a logistic transform of the base confidence plus temporal
// and distance bonuses
func CurveSignal(limit, base, elapsed, distance float64) float64 {
	logistic := 10 / (1 + math.Exp(-(base-75)/5))
	temporal := 5 * clamp(elapsed, 0, 1)
	distanceBonus := math.Min(5, math.Max(0, distance))
	return math.Min(limit, logistic+temporal+distanceBonus)
}

// Ensemble combines the four signals into a weighted boost plus a bonus
// when their spread is low
func Ensemble(weights market.EnsembleWeights, agreement market.AgreementBonus, trend, prior, pattern, curve float64) models.SignalBreakdown {
	weighted := weights.Trend*trend + weights.Prior*prior + weights.Pattern*pattern + weights.Curve*curve
	spread := stddev(trend, prior, pattern, curve)

	bonus := 0.0
	switch {
	case spread < agreement.TightSpread:
		bonus = agreement.TightBonus
	case spread < agreement.LooseSpread:
		bonus = agreement.LooseBonus
	}

	return models.SignalBreakdown{
		Trend:          trend,
		Prior:          prior,
		Pattern:        pattern,
		Curve:          curve,
		Weighted:       weighted,
		Spread:         spread,
		AgreementBonus: bonus,
		EnsembleBoost:  weighted + bonus,
	}
}

func stddev(values ...float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	sum := 0.0
	for _, v := range values {
		sum += (v - mean) * (v - mean)
	}
	return math.Sqrt(sum / float64(len(values)))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
