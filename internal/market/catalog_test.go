package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/matchedge/internal/models"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	c := DefaultCatalog()
	require.NoError(t, c.Validate())
	assert.Equal(t, DefaultVersion, c.Version())
	assert.InDelta(t, 1.0, c.Weights().Sum(), 1e-9)

	for _, kind := range models.AllMarkets() {
		s := c.Settings(kind)
		assert.Equal(t, kind, s.Kind, "settings for %s", kind)
		assert.NotEmpty(t, s.Thresholds, "thresholds for %s", kind)
		assert.LessOrEqual(t, s.ProbabilityCap, 99.0)
		assert.GreaterOrEqual(t, s.MinConfidence, 68.0)
		assert.LessOrEqual(t, s.MinConfidence, 75.0)
	}
}

func TestCornersThresholds(t *testing.T) {
	s := DefaultCatalog().Settings(models.MarketCorners)
	assert.Equal(t, []float64{8.5, 9.5, 10.5, 11.5}, s.Thresholds)
}

func TestSettingsAreCopies(t *testing.T) {
	c := DefaultCatalog()
	s := c.Settings(models.MarketGoals)
	s.Thresholds[0] = 42

	assert.Equal(t, 1.5, c.Settings(models.MarketGoals).Thresholds[0])
}

func TestWithSettingsLeavesOriginalUntouched(t *testing.T) {
	c := DefaultCatalog()
	s := c.Settings(models.MarketFouls)
	s.ProbabilityBase = 60

	modified := c.WithSettings(s).WithVersion("test")

	assert.Equal(t, 72.0, c.Settings(models.MarketFouls).ProbabilityBase)
	assert.Equal(t, 60.0, modified.Settings(models.MarketFouls).ProbabilityBase)
	assert.Equal(t, DefaultVersion, c.Version())
	assert.Equal(t, "test", modified.Version())
}

func TestValidateRejectsBadConstants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(Settings) Settings
	}{
		{
			name: "cap above 99",
			mutate: func(s Settings) Settings {
				s.ProbabilityCap = 100
				return s
			},
		},
		{
			name: "base above cap",
			mutate: func(s Settings) Settings {
				s.ProbabilityBase = 96
				return s
			},
		},
		{
			name: "no thresholds",
			mutate: func(s Settings) Settings {
				s.Thresholds = nil
				return s
			},
		},
		{
			name: "zero variance coefficient",
			mutate: func(s Settings) Settings {
				s.VarianceCoefficient = 0
				return s
			},
		},
		{
			name: "prior of one",
			mutate: func(s Settings) Settings {
				s.PriorUpper = 1
				return s
			},
		},
		{
			name: "bet above strong bet",
			mutate: func(s Settings) Settings {
				s.BetConfidence = 90
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCatalog()
			c = c.WithSettings(tt.mutate(c.Settings(models.MarketGoals)))
			err := c.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, models.ErrInvalidCatalog)
		})
	}
}

func TestRawProbabilityCaps(t *testing.T) {
	s := DefaultCatalog().Settings(models.MarketFouls)

	assert.InDelta(t, 78.0, s.RawProbability(1), 1e-9)
	assert.Equal(t, 90.0, s.RawProbability(50))
}

func TestCombineWeakestSide(t *testing.T) {
	btts := DefaultCatalog().Settings(models.MarketBTTS)
	upper, lower := btts.Directions()

	assert.Equal(t, 0.9, btts.Combine(1.8, 0.9))
	assert.Equal(t, models.DirectionYes, upper)
	assert.Equal(t, models.DirectionNo, lower)

	corners := DefaultCatalog().Settings(models.MarketCorners)
	assert.InDelta(t, 9*1.05+2*0.95, corners.Combine(9, 2), 1e-9)
}

func TestSecurityLevel(t *testing.T) {
	s := DefaultCatalog().Settings(models.MarketGoals)

	assert.Equal(t, 0.0, s.SecurityLevel(-1))
	assert.InDelta(t, 50.0, s.SecurityLevel(2), 1e-9)
	assert.Equal(t, 100.0, s.SecurityLevel(10))
}

func TestSummaries(t *testing.T) {
	summaries := DefaultCatalog().Summaries()

	require.Len(t, summaries, int(models.MarketKindCount))
	assert.Equal(t, "goals", summaries[0].Market)
	assert.Equal(t, []float64{1.5, 2.5, 3.5}, summaries[0].Thresholds)
	assert.Equal(t, "btts", summaries[len(summaries)-1].Market)
}
