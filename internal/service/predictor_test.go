package service

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/matchedge/internal/market"
	"github.com/yourusername/matchedge/internal/models"
	"github.com/yourusername/matchedge/internal/profile"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newTestPredictor(opts ...PredictorOption) *Predictor {
	return NewPredictor(market.DefaultCatalog(), quietLogger(), opts...)
}

func disciplinedSide(name string) models.TeamStats {
	return models.TeamStats{
		Name:            name,
		MatchesPlayed:   12,
		GoalsScored:     12,
		GoalsConceded:   12,
		CornersPerMatch: models.Float(4),
		FoulsPerMatch:   models.Float(8.5),
		YellowCards:     models.Float(1.2),
		ShotsOnTarget:   models.Float(3),
		Possession:      models.Float(50),
	}
}

func cornerHeavyHome() models.TeamStats {
	return models.TeamStats{
		Name:            "Pressers",
		MatchesPlayed:   12,
		GoalsScored:     20,
		GoalsConceded:   10,
		CornersPerMatch: models.Float(9),
		FoulsPerMatch:   models.Float(11),
		YellowCards:     models.Float(1.5),
		ShotsOnTarget:   models.Float(5),
		Possession:      models.Float(58),
	}
}

func cornerShyAway() models.TeamStats {
	return models.TeamStats{
		Name:            "Sitters",
		MatchesPlayed:   12,
		GoalsScored:     10,
		GoalsConceded:   18,
		CornersPerMatch: models.Float(2.5),
		FoulsPerMatch:   models.Float(12),
		YellowCards:     models.Float(2),
		ShotsOnTarget:   models.Float(2),
		Possession:      models.Float(42),
	}
}

func TestPredictFoulsUnderForDisciplinedSides(t *testing.T) {
	p := newTestPredictor()

	report, err := p.Predict(context.Background(), models.MatchRequest{
		Home:    disciplinedSide("Calm United"),
		Away:    disciplinedSide("Quiet Town"),
		Markets: []string{"fouls"},
	})
	require.NoError(t, err)
	require.Len(t, report.Predictions, 1)

	pred := report.Predictions[0]
	assert.Equal(t, models.MarketFouls, pred.Result.Market)
	assert.Equal(t, models.DirectionUnder, pred.Result.Direction)
	assert.Equal(t, 26.5, pred.Result.Threshold)
	assert.GreaterOrEqual(t, pred.Confidence, 95.0)
	assert.LessOrEqual(t, pred.Confidence, 99.0)
	assert.Equal(t, models.RecommendationStrongBet, pred.Recommendation)
	assert.Contains(t, pred.Overrides, "disciplined-sides-under")
}

func TestPredictCornersOverWithHomeDominance(t *testing.T) {
	p := newTestPredictor()

	report, err := p.Predict(context.Background(), models.MatchRequest{
		Home:    cornerHeavyHome(),
		Away:    cornerShyAway(),
		Markets: []string{"corners"},
	})
	require.NoError(t, err)
	require.Len(t, report.Predictions, 1)

	pred := report.Predictions[0]
	assert.Equal(t, models.DirectionOver, pred.Result.Direction)
	assert.Equal(t, 8.5, pred.Result.Threshold)
	assert.GreaterOrEqual(t, pred.Confidence, 92.0)
	assert.LessOrEqual(t, pred.Confidence, 99.0)
	assert.True(t, pred.IsActionable())
}

func TestPredictSkipsFoulsWithoutData(t *testing.T) {
	p := newTestPredictor()
	sparse := func(name string) models.TeamStats {
		return models.TeamStats{Name: name, MatchesPlayed: 10, GoalsScored: 14, GoalsConceded: 12}
	}

	report, err := p.Predict(context.Background(), models.MatchRequest{
		Home:    sparse("Alpha"),
		Away:    sparse("Beta"),
		Markets: []string{"fouls", "cards"},
	})
	require.NoError(t, err)

	assert.Empty(t, report.Predictions)
	assert.Equal(t, 2, report.MarketsEvaluated)
}

func TestPredictLateMatchWideMarginIsExactly99(t *testing.T) {
	p := newTestPredictor()

	report, err := p.Predict(context.Background(), models.MatchRequest{
		Home: disciplinedSide("Calm United"),
		Away: disciplinedSide("Quiet Town"),
		Context: &models.MatchContext{
			Minute:         90,
			HomePossession: 50,
			AwayPossession: 50,
			HomeFouls:      8,
			AwayFouls:      9,
		},
		Markets: []string{"fouls"},
	})
	require.NoError(t, err)
	require.Len(t, report.Predictions, 1)

	pred := report.Predictions[0]
	assert.Equal(t, 99.0, pred.Confidence)
	assert.Contains(t, pred.Overrides, "late-match-wide-margin")
}

func TestPredictOrdersAndBoundsPredictions(t *testing.T) {
	p := newTestPredictor()

	report, err := p.Predict(context.Background(), models.MatchRequest{
		Home:          cornerHeavyHome(),
		Away:          cornerShyAway(),
		AllThresholds: true,
	})
	require.NoError(t, err)
	require.NotEmpty(t, report.Predictions)
	assert.Equal(t, len(models.AllMarkets()), report.MarketsEvaluated)
	assert.Equal(t, market.DefaultVersion, report.CatalogVersion)

	for i, pred := range report.Predictions {
		assert.GreaterOrEqual(t, pred.Confidence, 50.0)
		assert.LessOrEqual(t, pred.Confidence, 99.0)
		assert.GreaterOrEqual(t, pred.SecurityLevel, 0.0)
		assert.LessOrEqual(t, pred.SecurityLevel, 100.0)
		assert.NotEqual(t, models.RecommendationSkip, pred.Recommendation)
		assert.Greater(t, pred.Result.Distance(), pred.Result.CombinedVariance)
		if i > 0 {
			assert.GreaterOrEqual(t, report.Predictions[i-1].Confidence, pred.Confidence)
		}
	}

	best, ok := report.Best()
	require.True(t, ok)
	assert.Equal(t, report.Predictions[0], best)
}

func TestPredictIsDeterministic(t *testing.T) {
	p := newTestPredictor()
	req := models.MatchRequest{
		Home:    cornerHeavyHome(),
		Away:    cornerShyAway(),
		Context: &models.MatchContext{Minute: 60, HomeScore: 1, HomeCorners: 7, AwayCorners: 1, HomePossession: 60, AwayPossession: 40},
	}

	first, err := p.Predict(context.Background(), req)
	require.NoError(t, err)
	second, err := p.Predict(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPredictErrors(t *testing.T) {
	p := newTestPredictor()

	tests := []struct {
		name string
		ctx  func() context.Context
		req  models.MatchRequest
		err  error
	}{
		{
			name: "missing home name",
			ctx:  context.Background,
			req:  models.MatchRequest{Away: disciplinedSide("B")},
			err:  models.ErrTeamNameRequired,
		},
		{
			name: "missing away name",
			ctx:  context.Background,
			req:  models.MatchRequest{Home: disciplinedSide("A")},
			err:  models.ErrTeamNameRequired,
		},
		{
			name: "unknown market",
			ctx:  context.Background,
			req:  models.MatchRequest{Home: disciplinedSide("A"), Away: disciplinedSide("B"), Markets: []string{"offsides"}},
			err:  models.ErrUnknownMarket,
		},
		{
			name: "cancelled context",
			ctx: func() context.Context {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx
			},
			req: models.MatchRequest{Home: disciplinedSide("A"), Away: disciplinedSide("B")},
			err: context.Canceled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := p.Predict(tt.ctx(), tt.req)
			assert.Nil(t, report)
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestPredictMarketFilterDeduplicates(t *testing.T) {
	p := newTestPredictor()

	report, err := p.Predict(context.Background(), models.MatchRequest{
		Home:    cornerHeavyHome(),
		Away:    cornerShyAway(),
		Markets: []string{"Corners", " corners "},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.MarketsEvaluated)
	for _, pred := range report.Predictions {
		assert.Equal(t, models.MarketCorners, pred.Result.Market)
	}
}

func TestPredictEnabledMarkets(t *testing.T) {
	p := newTestPredictor(WithEnabledMarkets([]models.MarketKind{models.MarketFouls}))

	report, err := p.Predict(context.Background(), models.MatchRequest{
		Home: disciplinedSide("A"),
		Away: disciplinedSide("B"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, report.MarketsEvaluated)
	assert.Equal(t, []models.MarketKind{models.MarketFouls}, p.Markets())
}

func TestPredictUsesProfileCache(t *testing.T) {
	cached := profile.NewCachedBuilder(nil, time.Minute, 100)
	p := newTestPredictor(WithProfileSource(cached))
	req := models.MatchRequest{Home: disciplinedSide("A"), Away: disciplinedSide("B"), Markets: []string{"fouls"}}

	_, err := p.Predict(context.Background(), req)
	require.NoError(t, err)
	_, err = p.Predict(context.Background(), req)
	require.NoError(t, err)

	hits, misses, _ := cached.Stats()
	assert.Equal(t, uint64(2), hits)
	assert.Equal(t, uint64(2), misses)
}

func TestPredictCollectsWarnings(t *testing.T) {
	p := newTestPredictor()
	home := cornerHeavyHome()
	home.Possession = models.Float(70)

	report, err := p.Predict(context.Background(), models.MatchRequest{
		Home:    home,
		Away:    cornerShyAway(),
		Markets: []string{"goals"},
	})
	require.NoError(t, err)

	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], "possession")
}

func TestPredictBatchPreservesOrder(t *testing.T) {
	p := newTestPredictor(WithWorkerLimit(2))
	reqs := []models.MatchRequest{
		{Home: disciplinedSide("A"), Away: disciplinedSide("B")},
		{Home: cornerHeavyHome(), Away: cornerShyAway()},
		{Home: disciplinedSide("C"), Away: disciplinedSide("D")},
	}

	reports, err := p.PredictBatch(context.Background(), reqs)
	require.NoError(t, err)
	require.Len(t, reports, len(reqs))

	for i, report := range reports {
		assert.Equal(t, reqs[i].Home.Name, report.Home)
		assert.Equal(t, reqs[i].MatchID(), report.MatchID)
	}
}

func TestPredictBatchErrors(t *testing.T) {
	p := newTestPredictor()

	_, err := p.PredictBatch(context.Background(), nil)
	assert.ErrorIs(t, err, models.ErrEmptyBatch)

	_, err = p.PredictBatch(context.Background(), []models.MatchRequest{
		{Home: disciplinedSide("A"), Away: disciplinedSide("B")},
		{Home: disciplinedSide("C")},
	})
	assert.ErrorIs(t, err, models.ErrTeamNameRequired)
}

func TestSortPredictions(t *testing.T) {
	mk := func(kind models.MarketKind, line, conf float64) models.CalibratedPrediction {
		return models.CalibratedPrediction{
			Confidence: conf,
			Result:     models.ThresholdResult{Market: kind, Threshold: line},
		}
	}
	preds := []models.CalibratedPrediction{
		mk(models.MarketCards, 3.5, 90),
		mk(models.MarketGoals, 2.5, 85),
		mk(models.MarketCorners, 9.5, 90),
		mk(models.MarketCorners, 8.5, 90),
		mk(models.MarketBTTS, 0.5, 97),
	}

	SortPredictions(preds)

	assert.Equal(t, models.MarketBTTS, preds[0].Result.Market)
	assert.Equal(t, 8.5, preds[1].Result.Threshold)
	assert.Equal(t, 9.5, preds[2].Result.Threshold)
	assert.Equal(t, models.MarketCards, preds[3].Result.Market)
	assert.Equal(t, models.MarketGoals, preds[4].Result.Market)
}
