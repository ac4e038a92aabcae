package calibration

import (
	"github.com/yourusername/matchedge/internal/models"
)

// Evidence is what pattern rules and overrides inspect
type Evidence struct {
	Result  models.ThresholdResult
	Home    *models.TeamProfile
	Away    *models.TeamProfile
	Context *models.MatchContext
}

func (e Evidence) live() bool {
	return e.Context != nil && e.Context.Minute > 0
}

func (e Evidence) liveTotals(m models.Metric) (float64, float64) {
	return e.Context.LiveTotals(m)
}

func (e Evidence) scores() (home, away models.ProfileScores, ok bool) {
	if e.Home == nil || e.Away == nil {
		return models.ProfileScores{}, models.ProfileScores{}, false
	}
	return e.Home.Scores(), e.Away.Scores(), true
}

// PatternRule is one independent condition that adds fixed points when met
type PatternRule struct {
	Name    string
	Market  models.MarketKind
	Upper   bool
	Points  float64
	Matches func(Evidence) bool
}

// PatternSignal sums the points of every satisfied rule for the result's
// market and direction, bounded by limit
func PatternSignal(limit float64, rules []PatternRule, ev Evidence) (float64, []string) {
	total := 0.0
	var matched []string
	for _, rule := range rules {
		if rule.Market != ev.Result.Market || rule.Upper != ev.Result.Direction.IsUpper() {
			continue
		}
		if rule.Matches(ev) {
			total += rule.Points
			matched = append(matched, rule.Name)
		}
	}
	if total > limit {
		total = limit
	}
	return total, matched
}

// DefaultPatterns returns the shipped rule table
func DefaultPatterns() []PatternRule {
	return []PatternRule{
		// goals
		{
			Name: "both-attacks-strong", Market: models.MarketGoals, Upper: true, Points: 8,
			Matches: func(ev Evidence) bool {
				h, a, ok := ev.scores()
				return ok && h.Attack >= 6 && a.Attack >= 6
			},
		},
		{
			Name: "early-goals", Market: models.MarketGoals, Upper: true, Points: 8,
			Matches: func(ev Evidence) bool {
				if !ev.live() {
					return false
				}
				h, a := ev.liveTotals(models.MetricGoals)
				return ev.Context.Minute <= 45 && h+a >= 2
			},
		},
		{
			Name: "both-defences-strong", Market: models.MarketGoals, Upper: false, Points: 8,
			Matches: func(ev Evidence) bool {
				h, a, ok := ev.scores()
				return ok && h.Defense >= 7 && a.Defense >= 7
			},
		},
		{
			Name: "goalless-after-hour", Market: models.MarketGoals, Upper: false, Points: 10,
			Matches: func(ev Evidence) bool {
				if !ev.live() {
					return false
				}
				h, a := ev.liveTotals(models.MetricGoals)
				return ev.Context.Minute > 60 && h+a == 0
			},
		},
		// corners
		{
			Name: "home-corner-dominance", Market: models.MarketCorners, Upper: true, Points: 10,
			Matches: func(ev Evidence) bool {
				return ev.Result.HomeExpected > 8 && ev.Result.AwayExpected < 3
			},
		},
		{
			Name: "corner-pressure-live", Market: models.MarketCorners, Upper: true, Points: 8,
			Matches: func(ev Evidence) bool {
				if !ev.live() {
					return false
				}
				h, a := ev.liveTotals(models.MetricCorners)
				return ev.Context.Minute <= 70 && h+a >= ev.Result.Threshold-2
			},
		},
		{
			Name: "low-corner-sides", Market: models.MarketCorners, Upper: false, Points: 8,
			Matches: func(ev Evidence) bool {
				return ev.Result.HomeExpected < 4.5 && ev.Result.AwayExpected < 4.5
			},
		},
		{
			Name: "few-corners-after-hour", Market: models.MarketCorners, Upper: false, Points: 8,
			Matches: func(ev Evidence) bool {
				if !ev.live() {
					return false
				}
				h, a := ev.liveTotals(models.MetricCorners)
				return ev.Context.Minute > 60 && h+a < 6
			},
		},
		// fouls
		{
			Name: "disciplined-sides", Market: models.MarketFouls, Upper: false, Points: 8,
			Matches: func(ev Evidence) bool {
				return ev.Result.HomeExpected < 10 && ev.Result.AwayExpected < 10
			},
		},
		{
			Name: "quiet-fouls-after-hour", Market: models.MarketFouls, Upper: false, Points: 8,
			Matches: func(ev Evidence) bool {
				if !ev.live() {
					return false
				}
				h, a := ev.liveTotals(models.MetricFouls)
				return ev.Context.Minute > 60 && h < 10 && a < 10
			},
		},
		{
			Name: "physical-sides", Market: models.MarketFouls, Upper: true, Points: 8,
			Matches: func(ev Evidence) bool {
				return ev.Result.HomeExpected > 13 && ev.Result.AwayExpected > 13
			},
		},
		{
			Name: "early-bookings", Market: models.MarketFouls, Upper: true, Points: 6,
			Matches: func(ev Evidence) bool {
				if !ev.live() {
					return false
				}
				h, a := ev.liveTotals(models.MetricYellowCards)
				return ev.Context.Minute <= 45 && h+a >= 3
			},
		},
		// cards
		{
			Name: "undisciplined-sides", Market: models.MarketCards, Upper: true, Points: 8,
			Matches: func(ev Evidence) bool {
				h, a, ok := ev.scores()
				return ok && h.Discipline > 0 && a.Discipline > 0 && h.Discipline <= 4 && a.Discipline <= 4
			},
		},
		{
			Name: "cards-flowing", Market: models.MarketCards, Upper: true, Points: 8,
			Matches: func(ev Evidence) bool {
				if !ev.live() {
					return false
				}
				h, a := ev.liveTotals(models.MetricYellowCards)
				return ev.Context.Minute <= 60 && h+a >= 4
			},
		},
		{
			Name: "clean-sides", Market: models.MarketCards, Upper: false, Points: 8,
			Matches: func(ev Evidence) bool {
				h, a, ok := ev.scores()
				return ok && h.Discipline >= 7 && a.Discipline >= 7
			},
		},
		{
			Name: "few-cards-after-hour", Market: models.MarketCards, Upper: false, Points: 8,
			Matches: func(ev Evidence) bool {
				if !ev.live() {
					return false
				}
				h, a := ev.liveTotals(models.MetricYellowCards)
				return ev.Context.Minute > 60 && h+a <= 1
			},
		},
		// btts
		{
			Name: "both-score-freely", Market: models.MarketBTTS, Upper: true, Points: 8,
			Matches: func(ev Evidence) bool {
				return ev.Result.HomeExpected >= 1.3 && ev.Result.AwayExpected >= 1.3
			},
		},
		{
			Name: "both-already-scored", Market: models.MarketBTTS, Upper: true, Points: 20,
			Matches: func(ev Evidence) bool {
				if !ev.live() {
					return false
				}
				h, a := ev.liveTotals(models.MetricGoals)
				return h > 0 && a > 0
			},
		},
		{
			Name: "blunt-attack", Market: models.MarketBTTS, Upper: false, Points: 8,
			Matches: func(ev Evidence) bool {
				return ev.Result.HomeExpected < 0.8 || ev.Result.AwayExpected < 0.8
			},
		},
		{
			Name: "side-blanked-late", Market: models.MarketBTTS, Upper: false, Points: 8,
			Matches: func(ev Evidence) bool {
				if !ev.live() {
					return false
				}
				h, a := ev.liveTotals(models.MetricGoals)
				return ev.Context.Minute > 70 && (h == 0 || a == 0)
			},
		},
	}
}
