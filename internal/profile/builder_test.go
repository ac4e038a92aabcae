package profile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/matchedge/internal/models"
)

func completeStats(name string) models.TeamStats {
	return models.TeamStats{
		Name:            name,
		MatchesPlayed:   30,
		GoalsScored:     48,
		GoalsConceded:   30,
		CornersPerMatch: models.Float(5.5),
		FoulsPerMatch:   models.Float(11),
		YellowCards:     models.Float(1.8),
		RedCards:        models.Float(0.1),
		ShotsOnTarget:   models.Float(5),
		Possession:      models.Float(55),
		DuelsWon:        models.Float(52),
	}
}

func TestBuildUsesDirectAverages(t *testing.T) {
	p := NewBuilder().Build(completeStats("Arsenal"))

	assert.Equal(t, "Arsenal", p.Name())
	assert.InDelta(t, 1.6, p.Expected(models.MetricGoals), 1e-9)
	assert.InDelta(t, 1.0, p.Expected(models.MetricGoalsConceded), 1e-9)
	assert.Equal(t, 5.5, p.Expected(models.MetricCorners))
	assert.Equal(t, 11.0, p.Expected(models.MetricFouls))
	assert.Equal(t, 1.8, p.Expected(models.MetricYellowCards))
	assert.Equal(t, 5.0, p.Expected(models.MetricShotsOnTarget))
	assert.Empty(t, p.Warnings())
}

func TestConsistency(t *testing.T) {
	tests := []struct {
		name     string
		stats    models.TeamStats
		expected float64
	}{
		{
			name:     "full sample and complete data",
			stats:    completeStats("A"),
			expected: 10,
		},
		{
			name:     "no data at all",
			stats:    models.TeamStats{Name: "B"},
			expected: 0,
		},
		{
			name:     "nine matches no optional fields",
			stats:    models.TeamStats{Name: "C", MatchesPlayed: 9},
			expected: 0.6 * 3,
		},
		{
			name:     "sample capped at ten",
			stats:    models.TeamStats{Name: "D", MatchesPlayed: 90},
			expected: 6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Consistency(tt.stats), 1e-9)
		})
	}
}

func TestVarianceFormula(t *testing.T) {
	assert.InDelta(t, 10*0.4*0.5, Variance(10, 5), 1e-9)
	assert.Equal(t, VarianceFloor, Variance(10, 10))
	assert.Equal(t, 0.0, Variance(0, 3))
	assert.InDelta(t, 4.0, Variance(10, -3), 1e-9)
}

func TestVarianceShrinksWithConsistency(t *testing.T) {
	sparse := models.TeamStats{Name: "Sparse", MatchesPlayed: 3, GoalsScored: 6}
	rich := completeStats("Rich")
	rich.GoalsScored = 60

	sp := NewBuilder().Build(sparse)
	rp := NewBuilder().Build(rich)

	require.Equal(t, 2.0, sp.Expected(models.MetricGoals))
	require.Equal(t, 2.0, rp.Expected(models.MetricGoals))
	assert.Greater(t, sp.Metric(models.MetricGoals).Variance, rp.Metric(models.MetricGoals).Variance)
}

func TestDerivedEstimates(t *testing.T) {
	stats := models.TeamStats{
		Name:          "Derived",
		MatchesPlayed: 10,
		GoalsScored:   10,
		ShotsOnTarget: models.Float(4),
		Possession:    models.Float(40),
		DuelsWon:      models.Float(45),
	}
	p := NewBuilder().Build(stats)

	assert.InDelta(t, 1.0+0.05*40+0.45*4, p.Expected(models.MetricCorners), 1e-9)
	assert.InDelta(t, 10+0.15*10+0.08*5, p.Expected(models.MetricFouls), 1e-9)
	assert.InDelta(t, (10+0.15*10+0.08*5)*0.16, p.Expected(models.MetricYellowCards), 1e-9)
}

func TestObservedZeroFoulsIsNotDerived(t *testing.T) {
	stats := completeStats("Clean")
	stats.FoulsPerMatch = models.Float(0)

	p := NewBuilder().Build(stats)

	assert.Equal(t, 0.0, p.Expected(models.MetricFouls))
	assert.Equal(t, 0.0, p.Metric(models.MetricFouls).Variance)
}

func TestEmptyStatsDegradeToZero(t *testing.T) {
	p := NewBuilder().Build(models.TeamStats{Name: "Ghost"})

	for _, m := range models.TrackedMetrics() {
		assert.Equal(t, 0.0, p.Expected(m), "metric %s", m)
		assert.Equal(t, 0.0, p.Metric(m).Variance, "metric %s", m)
	}
	assert.Equal(t, models.ProfileScores{}, p.Scores())
	require.Len(t, p.Warnings(), 1)
	assert.Contains(t, p.Warnings()[0], "no matches played")
}

func TestScoresAreBounded(t *testing.T) {
	stats := completeStats("Extreme")
	stats.GoalsScored = 300
	stats.GoalsConceded = 300
	stats.YellowCards = models.Float(9)
	stats.Possession = models.Float(150)

	p := NewBuilder().Build(stats)
	scores := p.Scores()

	for _, s := range []float64{scores.Attack, scores.Defense, scores.Discipline, scores.Consistency} {
		assert.GreaterOrEqual(t, s, 0.0)
		assert.LessOrEqual(t, s, 10.0)
	}
	assert.Equal(t, 10.0, scores.Attack)
	assert.Equal(t, 0.0, scores.Defense)
	assert.NotEmpty(t, p.Warnings())
}

func TestNegativeInputsAreClamped(t *testing.T) {
	stats := completeStats("Broken")
	stats.CornersPerMatch = models.Float(-4)

	p := NewBuilder().Build(stats)

	assert.Equal(t, 0.0, p.Expected(models.MetricCorners))
	assert.NotEmpty(t, p.Warnings())
}

func TestProfileIsImmutable(t *testing.T) {
	p := NewBuilder().Build(completeStats("Frozen"))

	metrics := p.Metrics()
	metrics[models.MetricGoals] = models.MetricEstimate{ExpectedValue: 99}

	assert.InDelta(t, 1.6, p.Expected(models.MetricGoals), 1e-9)
}
