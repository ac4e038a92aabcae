package models

import "github.com/google/uuid"

// ConfidenceTier buckets a prediction by its security level
type ConfidenceTier string

const (
	ConfidenceHigh     ConfidenceTier = "HIGH"
	ConfidenceVeryHigh ConfidenceTier = "VERY_HIGH"
	ConfidenceMaximum  ConfidenceTier = "MAXIMUM"
)

// RecommendationTier is the actionable output class
type RecommendationTier string

const (
	RecommendationStrongBet RecommendationTier = "STRONG_BET"
	RecommendationBet       RecommendationTier = "BET"
	RecommendationSkip      RecommendationTier = "SKIP"
)

// RiskLabel describes the residual risk of a recommendation
type RiskLabel string

const (
	RiskVeryLow RiskLabel = "VERY_LOW"
	RiskLow     RiskLabel = "LOW"
	RiskMedium  RiskLabel = "MEDIUM"
)

// ThresholdResult is a defensible call against one market line
type ThresholdResult struct {
	Market           MarketKind `json:"market"`
	MetricLabel      string     `json:"metric_label"`
	Threshold        float64    `json:"threshold"`
	Direction        Direction  `json:"direction"`
	ExpectedValue    float64    `json:"expected_value"`
	CombinedVariance float64    `json:"combined_variance"`
	SecurityMargin   float64    `json:"security_margin"`
	RawProbability   float64    `json:"raw_probability"`
	MinExpected      float64    `json:"min_expected"`
	MaxExpected      float64    `json:"max_expected"`
	HomeExpected     float64    `json:"home_expected"`
	AwayExpected     float64    `json:"away_expected"`
	Reasoning        []string   `json:"reasoning"`
	ValidatedBy      []string   `json:"validated_by"`
	Warnings         []string   `json:"warnings,omitempty"`
}

// Distance returns the absolute gap between the expected value and the line
func (r ThresholdResult) Distance() float64 {
	d := r.ExpectedValue - r.Threshold
	if d < 0 {
		return -d
	}
	return d
}

// Clone returns a deep copy so callers never share slices
func (r ThresholdResult) Clone() ThresholdResult {
	r.Reasoning = append([]string(nil), r.Reasoning...)
	r.ValidatedBy = append([]string(nil), r.ValidatedBy...)
	r.Warnings = append([]string(nil), r.Warnings...)
	return r
}

// SignalBreakdown records each calibration signal in confidence points
type SignalBreakdown struct {
	Trend          float64 `json:"trend"`
	Prior          float64 `json:"prior"`
	Pattern        float64 `json:"pattern"`
	Curve          float64 `json:"curve"`
	Weighted       float64 `json:"weighted"`
	Spread         float64 `json:"spread"`
	AgreementBonus float64 `json:"agreement_bonus"`
	EnsembleBoost  float64 `json:"ensemble_boost"`
}

// Calibration is the outcome of calibrating one threshold result
type Calibration struct {
	BaseConfidence  float64         `json:"base_confidence"`
	FinalConfidence float64         `json:"final_confidence"`
	Signals         SignalBreakdown `json:"signals"`
	PatternsMatched []string        `json:"patterns_matched,omitempty"`
	Overrides       []string        `json:"overrides,omitempty"`
}

// CalibratedPrediction is a threshold call with its final confidence and
// recommendation attached
type CalibratedPrediction struct {
	ID             uuid.UUID          `json:"id"`
	Result         ThresholdResult    `json:"result"`
	Confidence     float64            `json:"confidence"`
	ConfidenceTier ConfidenceTier     `json:"confidence_tier"`
	SecurityLevel  float64            `json:"security_level"`
	Recommendation RecommendationTier `json:"recommendation"`
	Risk           RiskLabel          `json:"risk"`
	Signals        SignalBreakdown    `json:"signals"`
	Overrides      []string           `json:"overrides,omitempty"`
	Justification  []string           `json:"justification"`
}

// IsActionable reports whether the prediction should be shown to the caller
func (p CalibratedPrediction) IsActionable() bool {
	return p.Recommendation == RecommendationStrongBet || p.Recommendation == RecommendationBet
}

// MeetsThreshold checks if the confidence meets the given threshold
func (p CalibratedPrediction) MeetsThreshold(threshold float64) bool {
	return p.Confidence >= threshold
}
