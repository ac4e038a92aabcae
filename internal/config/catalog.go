package config

import (
	"fmt"
	"sort"

	"github.com/yourusername/matchedge/internal/market"
	"github.com/yourusername/matchedge/internal/models"
)

// BuildCatalog applies the calibration overrides to the shipped catalog and
// validates the result
func BuildCatalog(cfg *Config) (market.Catalog, error) {
	catalog := market.DefaultCatalog()
	cc := cfg.Calibration

	if cc.Version != "" {
		catalog = catalog.WithVersion(cc.Version)
	}

	if cc.Weights.IsSet() {
		catalog = catalog.WithWeights(market.EnsembleWeights{
			Trend:   cc.Weights.Trend,
			Prior:   cc.Weights.Prior,
			Pattern: cc.Weights.Pattern,
			Curve:   cc.Weights.Curve,
		})
	}

	names := make([]string, 0, len(cc.Markets))
	for name := range cc.Markets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		kind, err := models.ParseMarketKind(name)
		if err != nil {
			return market.Catalog{}, fmt.Errorf("calibration override: %w", err)
		}
		catalog = catalog.WithSettings(applyOverride(catalog.Settings(kind), cc.Markets[name]))
	}

	if err := catalog.Validate(); err != nil {
		return market.Catalog{}, err
	}
	return catalog, nil
}

func applyOverride(s market.Settings, o MarketOverride) market.Settings {
	if len(o.Thresholds) > 0 {
		thresholds := append([]float64(nil), o.Thresholds...)
		sort.Float64s(thresholds)
		s.Thresholds = thresholds
	}
	if o.HomeWeight > 0 {
		s.HomeWeight = o.HomeWeight
	}
	if o.AwayWeight > 0 {
		s.AwayWeight = o.AwayWeight
	}
	if o.MinConfidence > 0 {
		s.MinConfidence = o.MinConfidence
	}
	if o.StrongBetConfidence > 0 {
		s.StrongBetConfidence = o.StrongBetConfidence
	}
	if o.BetConfidence > 0 {
		s.BetConfidence = o.BetConfidence
	}
	return s
}
