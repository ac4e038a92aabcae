// Package recommendation maps calibrated confidences onto actionable tiers.
package recommendation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/yourusername/matchedge/internal/market"
	"github.com/yourusername/matchedge/internal/models"
)

const (
	// StrongSecurity is the security level required for STRONG_BET and VERY_LOW risk
	StrongSecurity = 85.0
	// ModerateSecurity is the security level required for LOW risk
	ModerateSecurity = 70.0
)

// Classifier assigns recommendation tiers and risk labels
type Classifier struct {
	catalog market.Catalog
}

// NewClassifier creates a classifier bound to a catalog
func NewClassifier(catalog market.Catalog) *Classifier {
	return &Classifier{catalog: catalog}
}

// Tier returns the recommendation tier for a confidence and security level
func (c *Classifier) Tier(kind models.MarketKind, confidence, securityLevel float64) models.RecommendationTier {
	settings := c.catalog.Settings(kind)
	switch {
	case confidence >= settings.StrongBetConfidence && securityLevel >= StrongSecurity:
		return models.RecommendationStrongBet
	case confidence >= settings.BetConfidence:
		return models.RecommendationBet
	default:
		return models.RecommendationSkip
	}
}

// Risk labels the residual risk of a call from its security level
func Risk(securityLevel float64) models.RiskLabel {
	switch {
	case securityLevel >= StrongSecurity:
		return models.RiskVeryLow
	case securityLevel >= ModerateSecurity:
		return models.RiskLow
	default:
		return models.RiskMedium
	}
}

// ConfidenceTier buckets a call by its security level
func ConfidenceTier(securityLevel float64) models.ConfidenceTier {
	switch {
	case securityLevel >= StrongSecurity:
		return models.ConfidenceMaximum
	case securityLevel >= ModerateSecurity:
		return models.ConfidenceVeryHigh
	default:
		return models.ConfidenceHigh
	}
}

// Classify builds the final prediction. The caller drops SKIP results.
func (c *Classifier) Classify(matchID uuid.UUID, result models.ThresholdResult, cal models.Calibration) models.CalibratedPrediction {
	settings := c.catalog.Settings(result.Market)
	security := round1(settings.SecurityLevel(result.SecurityMargin))
	confidence := round1(cal.FinalConfidence)

	tier := c.Tier(result.Market, confidence, security)
	risk := Risk(security)

	r := result.Clone()
	r.ValidatedBy = append(r.ValidatedBy, validatedBy(cal)...)

	return models.CalibratedPrediction{
		ID:             PredictionID(matchID, result),
		Result:         r,
		Confidence:     confidence,
		ConfidenceTier: ConfidenceTier(security),
		SecurityLevel:  security,
		Recommendation: tier,
		Risk:           risk,
		Signals:        cal.Signals,
		Overrides:      append([]string(nil), cal.Overrides...),
		Justification:  justify(settings, r, cal, confidence, security, tier, risk),
	}
}

// PredictionID derives a stable identifier for a call on a match
func PredictionID(matchID uuid.UUID, r models.ThresholdResult) uuid.UUID {
	name := fmt.Sprintf("%s:%s:%.1f", r.Market, r.Direction, r.Threshold)
	return uuid.NewSHA1(matchID, []byte(name))
}

func validatedBy(cal models.Calibration) []string {
	var tags []string
	s := cal.Signals
	if s.Trend > 0 {
		tags = append(tags, "live-trend")
	}
	if s.Prior > 0 {
		tags = append(tags, "historical-prior")
	}
	for _, p := range cal.PatternsMatched {
		tags = append(tags, "pattern:"+p)
	}
	if s.Curve > 0 {
		tags = append(tags, "calibration-curve")
	}
	if s.AgreementBonus > 0 {
		tags = append(tags, "ensemble-agreement")
	}
	for _, o := range cal.Overrides {
		tags = append(tags, "override:"+o)
	}
	return tags
}

func justify(settings market.Settings, r models.ThresholdResult, cal models.Calibration, confidence, security float64, tier models.RecommendationTier, risk models.RiskLabel) []string {
	lines := []string{
		fmt.Sprintf("%s %s %.1f at %.1f%% confidence (%s, %s risk)",
			settings.Label, r.Direction, r.Threshold, confidence, tier, strings.ToLower(strings.ReplaceAll(string(risk), "_", " "))),
		fmt.Sprintf("Security level %.1f from a %.2fσ margin", security, r.SecurityMargin),
		fmt.Sprintf("Raw probability %.1f%% lifted by an ensemble boost of %.1f", cal.BaseConfidence, cal.Signals.EnsembleBoost),
	}
	if len(cal.PatternsMatched) > 0 {
		lines = append(lines, "Patterns: "+strings.Join(cal.PatternsMatched, ", "))
	}
	if len(cal.Overrides) > 0 {
		lines = append(lines, "Near-certain rules: "+strings.Join(cal.Overrides, ", "))
	}
	return lines
}

func round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}
