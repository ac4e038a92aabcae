// Package profile turns raw team counters into statistical team profiles.
package profile

import (
	"fmt"
	"math"

	"github.com/yourusername/matchedge/internal/models"
)

const (
	// BaseVarianceFactor is the share of the expected value used as spread
	// for a team with no consistency at all
	BaseVarianceFactor = 0.4
	// VarianceFloor keeps downstream margins finite
	VarianceFloor = 1e-6

	consistencyMatchWeight        = 0.6
	consistencyCompletenessWeight = 0.4
)

// Builder derives TeamProfiles from TeamStats
type Builder struct{}

// NewBuilder creates a profile builder
func NewBuilder() *Builder {
	return &Builder{}
}

// Build derives a profile. It never fails: absent data degrades to zeros.
func (b *Builder) Build(stats models.TeamStats) *models.TeamProfile {
	var warnings []string
	if stats.MatchesPlayed <= 0 {
		warnings = append(warnings, fmt.Sprintf("%s: no matches played, season averages default to zero", stats.Name))
	}
	warnings = append(warnings, negativeInputWarnings(stats)...)

	expected := expectedValues(stats)
	consistency := Consistency(stats)

	metrics := make(map[models.Metric]models.MetricEstimate, len(expected))
	for metric, ev := range expected {
		metrics[metric] = models.MetricEstimate{
			ExpectedValue: ev,
			Variance:      Variance(ev, consistency),
		}
	}

	scores := models.ProfileScores{
		Attack:      attackScore(stats, expected),
		Defense:     defenseScore(stats, expected),
		Discipline:  disciplineScore(stats, expected),
		Consistency: consistency,
	}

	return models.NewTeamProfile(stats.Name, metrics, scores, warnings)
}

// Variance applies the shared spread formula: ev × 0.4 × (1 − consistency/10)
func Variance(expectedValue, consistency float64) float64 {
	if expectedValue <= 0 {
		return 0
	}
	v := expectedValue * BaseVarianceFactor * (1 - clamp(consistency, 0, 10)/10)
	return math.Max(v, VarianceFloor)
}

// Consistency blends sample size and data completeness into a [0,10] score
func Consistency(stats models.TeamStats) float64 {
	sample := math.Min(10, float64(max(stats.MatchesPlayed, 0))/3)
	completeness := Completeness(stats) * 10
	return clamp(consistencyMatchWeight*sample+consistencyCompletenessWeight*completeness, 0, 10)
}

// Completeness is the fraction of optional inputs that were collected
func Completeness(stats models.TeamStats) float64 {
	fields := stats.OptionalFields()
	present := 0
	for _, f := range fields {
		if models.Present(f) {
			present++
		}
	}
	return float64(present) / float64(len(fields))
}

func expectedValues(stats models.TeamStats) map[models.Metric]float64 {
	matches := math.Max(1, float64(stats.MatchesPlayed))

	goals := math.Max(0, stats.GoalsScored) / matches
	conceded := math.Max(0, stats.GoalsConceded) / matches
	if stats.MatchesPlayed <= 0 {
		goals, conceded = 0, 0
	}

	shots := models.Value(stats.ShotsOnTarget)
	if !models.Present(stats.ShotsOnTarget) && goals > 0 {
		shots = goals * 3.2
	}

	corners := models.Value(stats.CornersPerMatch)
	if !models.Present(stats.CornersPerMatch) {
		corners = deriveCorners(stats, shots)
	}

	fouls := models.Value(stats.FoulsPerMatch)
	if !models.Present(stats.FoulsPerMatch) {
		fouls = deriveFouls(stats)
	}

	cards := models.Value(stats.YellowCards)
	if !models.Present(stats.YellowCards) {
		cards = fouls * 0.16
	}

	return map[models.Metric]float64{
		models.MetricGoals:         goals,
		models.MetricGoalsConceded: conceded,
		models.MetricCorners:       corners,
		models.MetricFouls:         fouls,
		models.MetricYellowCards:   cards,
		models.MetricShotsOnTarget: shots,
	}
}

// deriveCorners estimates corners from territorial pressure when the
// corner count itself was not collected
func deriveCorners(stats models.TeamStats, shots float64) float64 {
	if !models.Present(stats.Possession) && !models.Present(stats.ShotsOnTarget) {
		return 0
	}
	possession := models.Value(stats.Possession)
	if !models.Present(stats.Possession) {
		possession = 50
	}
	return 1.0 + 0.05*possession + 0.45*shots
}

// deriveFouls estimates fouls from possession deficit and lost duels
func deriveFouls(stats models.TeamStats) float64 {
	if !models.Present(stats.Possession) && !models.Present(stats.DuelsWon) {
		return 0
	}
	fouls := 10.0
	if models.Present(stats.Possession) {
		fouls += 0.15 * math.Max(0, 50-models.Value(stats.Possession))
	}
	if models.Present(stats.DuelsWon) {
		fouls += 0.08 * math.Max(0, 50-models.Value(stats.DuelsWon))
	}
	return fouls
}

func attackScore(stats models.TeamStats, ev map[models.Metric]float64) float64 {
	score := ev[models.MetricGoals]*2.5 + ev[models.MetricShotsOnTarget]*0.6
	if models.Present(stats.Possession) {
		score += math.Max(0, models.Value(stats.Possession)-50) * 0.1
	}
	return clamp(score, 0, 10)
}

func defenseScore(stats models.TeamStats, ev map[models.Metric]float64) float64 {
	if stats.MatchesPlayed <= 0 {
		return 0
	}
	return clamp(10-3*ev[models.MetricGoalsConceded], 0, 10)
}

func disciplineScore(stats models.TeamStats, ev map[models.Metric]float64) float64 {
	if ev[models.MetricFouls] == 0 && ev[models.MetricYellowCards] == 0 && !models.Present(stats.RedCards) {
		return 0
	}
	penalty := ev[models.MetricYellowCards]*1.5 +
		models.Value(stats.RedCards)*5 +
		math.Max(0, ev[models.MetricFouls]-10)*0.3
	return clamp(10-penalty, 0, 10)
}

func negativeInputWarnings(stats models.TeamStats) []string {
	var warnings []string
	if stats.GoalsScored < 0 || stats.GoalsConceded < 0 {
		warnings = append(warnings, fmt.Sprintf("%s: negative goal totals treated as zero", stats.Name))
	}
	for _, f := range stats.OptionalFields() {
		if f != nil && *f < 0 {
			warnings = append(warnings, fmt.Sprintf("%s: negative per-match average treated as zero", stats.Name))
			break
		}
	}
	if models.Present(stats.Possession) && models.Value(stats.Possession) > 100 {
		warnings = append(warnings, fmt.Sprintf("%s: possession %.1f%% exceeds 100%%", stats.Name, *stats.Possession))
	}
	return warnings
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
