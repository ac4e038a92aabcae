package market

import (
	"fmt"

	"github.com/yourusername/matchedge/internal/models"
)

// DefaultVersion tags the shipped calibration constants
const DefaultVersion = "2024.2"

// EnsembleWeights weight the four calibration signals
type EnsembleWeights struct {
	Trend   float64
	Prior   float64
	Pattern float64
	Curve   float64
}

// Sum returns the total weight
func (w EnsembleWeights) Sum() float64 {
	return w.Trend + w.Prior + w.Pattern + w.Curve
}

// AgreementBonus rewards low spread between signals
type AgreementBonus struct {
	TightSpread float64
	TightBonus  float64
	LooseSpread float64
	LooseBonus  float64
}

// SignalCaps bound each calibration signal in confidence points
type SignalCaps struct {
	Trend   float64
	Prior   float64
	Pattern float64
	Curve   float64
}

// Catalog is the immutable, versioned set of calibration constants injected
// into every pipeline component. Methods hand out copies.
type Catalog struct {
	version   string
	markets   [models.MarketKindCount]Settings
	weights   EnsembleWeights
	agreement AgreementBonus
	caps      SignalCaps
}

// DefaultCatalog returns the shipped constants
func DefaultCatalog() Catalog {
	c := Catalog{
		version: DefaultVersion,
		weights: EnsembleWeights{Trend: 0.35, Prior: 0.30, Pattern: 0.20, Curve: 0.15},
		agreement: AgreementBonus{
			TightSpread: 3, TightBonus: 12,
			LooseSpread: 5, LooseBonus: 6,
		},
		caps: SignalCaps{Trend: 15, Prior: 15, Pattern: 20, Curve: 20},
	}
	for _, kind := range models.AllMarkets() {
		c.markets[kind] = defaultSettings(kind)
	}
	return c
}

func defaultSettings(kind models.MarketKind) Settings {
	switch kind {
	case models.MarketGoals:
		return Settings{
			Kind: kind, Metric: models.MetricGoals, Label: "Total goals",
			Aggregation:         AggregateSum,
			Thresholds:          []float64{1.5, 2.5, 3.5},
			VarianceCoefficient: 1.0,
			HomeWeight:          1.0, AwayWeight: 1.0,
			ProbabilityBase: 75, ProbabilitySlope: 8, ProbabilityCap: 95,
			MinConfidence:   72,
			SecurityScale:   25,
			PriorUpper:      0.70, PriorLower: 0.66,
			StrongBetConfidence: 88, BetConfidence: 80,
		}
	case models.MarketCorners:
		return Settings{
			Kind: kind, Metric: models.MetricCorners, Label: "Total corners",
			Aggregation:         AggregateSum,
			Thresholds:          []float64{8.5, 9.5, 10.5, 11.5},
			VarianceCoefficient: 1.0,
			HomeWeight:          1.05, AwayWeight: 0.95,
			ProbabilityBase: 74, ProbabilitySlope: 8, ProbabilityCap: 95,
			MinConfidence:   72,
			SecurityScale:   25,
			PriorUpper:      0.74, PriorLower: 0.68,
			StrongBetConfidence: 86, BetConfidence: 79,
		}
	case models.MarketFouls:
		return Settings{
			Kind: kind, Metric: models.MetricFouls, Label: "Total fouls",
			Aggregation:         AggregateSum,
			Thresholds:          []float64{18.5, 20.5, 22.5, 24.5, 26.5},
			VarianceCoefficient: 1.1,
			HomeWeight:          1.0, AwayWeight: 1.0,
			ProbabilityBase: 72, ProbabilitySlope: 6, ProbabilityCap: 90,
			MinConfidence:   70,
			SecurityScale:   30,
			PriorUpper:      0.64, PriorLower: 0.72,
			StrongBetConfidence: 85, BetConfidence: 78,
		}
	case models.MarketCards:
		return Settings{
			Kind: kind, Metric: models.MetricYellowCards, Label: "Total cards",
			Aggregation:         AggregateSum,
			Thresholds:          []float64{2.5, 3.5, 4.5, 5.5},
			VarianceCoefficient: 1.2,
			HomeWeight:          1.0, AwayWeight: 1.05,
			ProbabilityBase: 73, ProbabilitySlope: 7, ProbabilityCap: 92,
			MinConfidence:   72,
			SecurityScale:   25,
			PriorUpper:      0.66, PriorLower: 0.70,
			StrongBetConfidence: 87, BetConfidence: 80,
		}
	case models.MarketBTTS:
		return Settings{
			Kind: kind, Metric: models.MetricGoals, Label: "Both teams to score",
			Aggregation:         AggregateWeakest,
			Thresholds:          []float64{0.5},
			VarianceCoefficient: 1.0,
			HomeWeight:          1.0, AwayWeight: 1.0,
			ProbabilityBase: 73, ProbabilitySlope: 6, ProbabilityCap: 90,
			MinConfidence:   75,
			SecurityScale:   30,
			PriorUpper:      0.62, PriorLower: 0.60,
			StrongBetConfidence: 88, BetConfidence: 80,
		}
	}
	panic(fmt.Sprintf("market: no default settings for %s", kind))
}

// Version returns the catalog version tag
func (c Catalog) Version() string {
	return c.version
}

// Settings returns a copy of the configuration for kind
func (c Catalog) Settings(kind models.MarketKind) Settings {
	return c.markets[kind].clone()
}

// Weights returns the ensemble weights
func (c Catalog) Weights() EnsembleWeights {
	return c.weights
}

// Agreement returns the agreement bonus rule
func (c Catalog) Agreement() AgreementBonus {
	return c.agreement
}

// Caps returns the per-signal bounds
func (c Catalog) Caps() SignalCaps {
	return c.caps
}

// WithVersion returns a copy tagged with a new version
func (c Catalog) WithVersion(version string) Catalog {
	c.version = version
	return c.deepCopy()
}

// WithSettings returns a copy with the settings for s.Kind replaced
func (c Catalog) WithSettings(s Settings) Catalog {
	out := c.deepCopy()
	out.markets[s.Kind] = s.clone()
	return out
}

// WithWeights returns a copy with new ensemble weights
func (c Catalog) WithWeights(w EnsembleWeights) Catalog {
	out := c.deepCopy()
	out.weights = w
	return out
}

// WithAgreement returns a copy with a new agreement rule
func (c Catalog) WithAgreement(a AgreementBonus) Catalog {
	out := c.deepCopy()
	out.agreement = a
	return out
}

func (c Catalog) deepCopy() Catalog {
	for i := range c.markets {
		c.markets[i] = c.markets[i].clone()
	}
	return c
}

// Validate checks every market is configured with coherent constants
func (c Catalog) Validate() error {
	if c.version == "" {
		return fmt.Errorf("%w: version is required", models.ErrInvalidCatalog)
	}
	for _, kind := range models.AllMarkets() {
		s := c.markets[kind]
		if s.Kind != kind {
			return fmt.Errorf("%w: %s settings are missing", models.ErrInvalidCatalog, kind)
		}
		if len(s.Thresholds) == 0 {
			return fmt.Errorf("%w: %s has no thresholds", models.ErrInvalidCatalog, kind)
		}
		if s.ProbabilityCap > 99 || s.ProbabilityBase > s.ProbabilityCap {
			return fmt.Errorf("%w: %s probability base %.1f must not exceed cap %.1f (max 99)",
				models.ErrInvalidCatalog, kind, s.ProbabilityBase, s.ProbabilityCap)
		}
		if s.VarianceCoefficient <= 0 {
			return fmt.Errorf("%w: %s variance coefficient must be positive", models.ErrInvalidCatalog, kind)
		}
		if s.BetConfidence > s.StrongBetConfidence {
			return fmt.Errorf("%w: %s bet confidence exceeds strong bet confidence", models.ErrInvalidCatalog, kind)
		}
		if s.PriorUpper <= 0 || s.PriorUpper >= 1 || s.PriorLower <= 0 || s.PriorLower >= 1 {
			return fmt.Errorf("%w: %s priors must be in (0,1)", models.ErrInvalidCatalog, kind)
		}
	}
	if c.weights.Sum() <= 0 {
		return fmt.Errorf("%w: ensemble weights must be positive", models.ErrInvalidCatalog)
	}
	if c.agreement.TightSpread > c.agreement.LooseSpread {
		return fmt.Errorf("%w: tight spread must not exceed loose spread", models.ErrInvalidCatalog)
	}
	return nil
}

// Summary is a read-only view of one market's headline settings
type Summary struct {
	Market              string    `json:"market" yaml:"market"`
	Label               string    `json:"label" yaml:"label"`
	Thresholds          []float64 `json:"thresholds" yaml:"thresholds"`
	MinConfidence       float64   `json:"min_confidence" yaml:"min_confidence"`
	BetConfidence       float64   `json:"bet_confidence" yaml:"bet_confidence"`
	StrongBetConfidence float64   `json:"strong_bet_confidence" yaml:"strong_bet_confidence"`
}

// Summaries lists every market in catalog order
func (c Catalog) Summaries() []Summary {
	out := make([]Summary, 0, models.MarketKindCount)
	for _, kind := range models.AllMarkets() {
		s := c.Settings(kind)
		out = append(out, Summary{
			Market:              kind.String(),
			Label:               s.Label,
			Thresholds:          s.Thresholds,
			MinConfidence:       s.MinConfidence,
			BetConfidence:       s.BetConfidence,
			StrongBetConfidence: s.StrongBetConfidence,
		})
	}
	return out
}
