package calibration

import "github.com/yourusername/matchedge/internal/models"

// OverrideInput is the state near-certain rules are evaluated against
type OverrideInput struct {
	Evidence
	Distance      float64
	Minute        int
	EnsembleBoost float64
	Consensus     bool
}

// Override raises the confidence to Floor when Applies holds. Overrides
// never lower a confidence.
type Override struct {
	Name    string
	Floor   float64
	Applies func(OverrideInput) bool
}

// DefaultOverrides returns the near-certain rules in priority order
func DefaultOverrides() []Override {
	return []Override{
		{
			Name:  "late-match-wide-margin",
			Floor: 99,
			Applies: func(in OverrideInput) bool {
				return in.Minute > 85 && in.Distance > 5
			},
		},
		{
			Name:  "late-match-strong-ensemble",
			Floor: 98,
			Applies: func(in OverrideInput) bool {
				return in.Minute > 80 && in.Distance > 3 && in.EnsembleBoost > 15
			},
		},
		{
			Name:  "signal-consensus",
			Floor: 97,
			Applies: func(in OverrideInput) bool {
				return in.Consensus
			},
		},
		{
			Name:  "disciplined-sides-under",
			Floor: 95,
			Applies: func(in OverrideInput) bool {
				r := in.Result
				return r.Market == models.MarketFouls &&
					r.Direction == models.DirectionUnder &&
					r.HomeExpected > 0 && r.AwayExpected > 0 &&
					r.HomeExpected < 10 && r.AwayExpected < 10 &&
					r.Threshold > r.HomeExpected+r.AwayExpected
			},
		},
		{
			Name:  "home-corner-dominance",
			Floor: 92,
			Applies: func(in OverrideInput) bool {
				r := in.Result
				return r.Market == models.MarketCorners &&
					r.Direction == models.DirectionOver &&
					r.HomeExpected > 8 && r.AwayExpected < 3
			},
		},
	}
}

// ApplyOverrides evaluates rules in order and returns the raised confidence
// together with the names of the rules that fired
func ApplyOverrides(confidence float64, rules []Override, in OverrideInput) (float64, []string) {
	var fired []string
	for _, rule := range rules {
		if !rule.Applies(in) {
			continue
		}
		fired = append(fired, rule.Name)
		if rule.Floor > confidence {
			confidence = rule.Floor
		}
	}
	return confidence, fired
}
