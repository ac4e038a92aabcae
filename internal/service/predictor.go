// Package service runs the prediction pipeline over match requests.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/matchedge/internal/calibration"
	"github.com/yourusername/matchedge/internal/logger"
	"github.com/yourusername/matchedge/internal/market"
	"github.com/yourusername/matchedge/internal/metrics"
	"github.com/yourusername/matchedge/internal/models"
	"github.com/yourusername/matchedge/internal/profile"
	"github.com/yourusername/matchedge/internal/recommendation"
	"github.com/yourusername/matchedge/internal/threshold"
)

// DefaultWorkerLimit bounds concurrent matches in a batch
const DefaultWorkerLimit = 4

// ProfileSource turns raw team stats into a profile
type ProfileSource interface {
	Build(stats models.TeamStats) *models.TeamProfile
}

// Predictor wires the four pipeline stages together
type Predictor struct {
	catalog     market.Catalog
	profiles    ProfileSource
	selector    *threshold.Selector
	calibrator  *calibration.Calibrator
	classifier  *recommendation.Classifier
	validator   *InputValidator
	markets     []models.MarketKind
	workerLimit int
	logger      *logrus.Logger
	predLogger  *logger.PredictionLogger
}

// PredictorOption configures a Predictor
type PredictorOption func(*Predictor)

// WithProfileSource replaces the profile builder, e.g. with a CachedBuilder
func WithProfileSource(src ProfileSource) PredictorOption {
	return func(p *Predictor) {
		if src != nil {
			p.profiles = src
		}
	}
}

// WithEnabledMarkets restricts the markets evaluated when a request names none
func WithEnabledMarkets(kinds []models.MarketKind) PredictorOption {
	return func(p *Predictor) {
		if len(kinds) > 0 {
			p.markets = orderedUnique(kinds)
		}
	}
}

// WithWorkerLimit bounds concurrency in PredictBatch
func WithWorkerLimit(n int) PredictorOption {
	return func(p *Predictor) {
		if n > 0 {
			p.workerLimit = n
		}
	}
}

// WithCalibrator replaces the confidence calibrator
func WithCalibrator(c *calibration.Calibrator) PredictorOption {
	return func(p *Predictor) {
		if c != nil {
			p.calibrator = c
		}
	}
}

// NewPredictor creates a predictor over the given catalog
func NewPredictor(catalog market.Catalog, log *logrus.Logger, opts ...PredictorOption) *Predictor {
	if log == nil {
		log = logrus.New()
	}
	p := &Predictor{
		catalog:     catalog,
		profiles:    profile.NewBuilder(),
		selector:    threshold.NewSelector(catalog),
		calibrator:  calibration.NewCalibrator(catalog),
		classifier:  recommendation.NewClassifier(catalog),
		validator:   NewInputValidator(),
		markets:     models.AllMarkets(),
		workerLimit: DefaultWorkerLimit,
		logger:      log,
		predLogger:  logger.NewPredictionLogger(log),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Catalog returns the catalog the predictor was built with
func (p *Predictor) Catalog() market.Catalog {
	return p.catalog
}

// Markets returns the markets evaluated by default
func (p *Predictor) Markets() []models.MarketKind {
	return append([]models.MarketKind(nil), p.markets...)
}

// Predict evaluates every requested market for one match. The report lists
// actionable predictions only, by descending confidence, then market order,
// then threshold.
func (p *Predictor) Predict(ctx context.Context, req models.MatchRequest) (*models.MatchReport, error) {
	start := time.Now()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	kinds, err := p.resolve(req)
	if err != nil {
		metrics.RecordRequestError(errorReason(err))
		return nil, err
	}

	matchID := req.MatchID()
	id := matchID.String()

	warnings := p.validator.Validate(req)
	home := p.profiles.Build(req.Home)
	away := p.profiles.Build(req.Away)
	warnings = append(warnings, home.Warnings()...)
	warnings = append(warnings, away.Warnings()...)
	p.predLogger.LogInputWarnings(id, warnings)

	perMarket := make([][]models.CalibratedPrediction, len(kinds))
	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		i, kind := i, kind
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			perMarket[i] = p.evaluateMarket(id, req, kind, home, away)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var predictions []models.CalibratedPrediction
	for _, preds := range perMarket {
		predictions = append(predictions, preds...)
	}
	SortPredictions(predictions)

	report := &models.MatchReport{
		MatchID:          matchID,
		Home:             req.Home.Name,
		Away:             req.Away.Name,
		CatalogVersion:   p.catalog.Version(),
		Predictions:      predictions,
		Warnings:         warnings,
		MarketsEvaluated: len(kinds),
	}
	if report.Predictions == nil {
		report.Predictions = []models.CalibratedPrediction{}
	}

	elapsed := time.Since(start)
	metrics.RecordMatchEvaluated(elapsed.Seconds())
	p.predLogger.LogMatchEvaluation(id, req.Home.Name, req.Away.Name, p.catalog.Version(),
		len(kinds), len(predictions), float64(elapsed.Microseconds())/1000)

	return report, nil
}

// PredictBatch evaluates many matches concurrently. Reports keep the input
// order. The first failing request aborts the batch.
func (p *Predictor) PredictBatch(ctx context.Context, reqs []models.MatchRequest) ([]*models.MatchReport, error) {
	if len(reqs) == 0 {
		return nil, models.ErrEmptyBatch
	}

	p.logger.WithField("count", len(reqs)).Info("Evaluating match batch")

	reports := make([]*models.MatchReport, len(reqs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workerLimit)
	for i := range reqs {
		i := i
		g.Go(func() error {
			report, err := p.Predict(gctx, reqs[i])
			if err != nil {
				return fmt.Errorf("match %d (%s v %s): %w", i, reqs[i].Home.Name, reqs[i].Away.Name, err)
			}
			reports[i] = report
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

func (p *Predictor) evaluateMarket(matchID string, req models.MatchRequest, kind models.MarketKind, home, away *models.TeamProfile) []models.CalibratedPrediction {
	start := time.Now()
	defer func() {
		metrics.RecordCalibrationDuration(kind.String(), time.Since(start).Seconds())
	}()

	results := p.selector.Select(home, away, kind, threshold.Options{All: req.AllThresholds})
	if len(results) == 0 {
		p.predLogger.LogMarketSkipped(matchID, kind.String(), "no line cleared the uncertainty band or data was insufficient")
		return nil
	}

	var out []models.CalibratedPrediction
	for _, r := range results {
		cal := p.calibrator.Calibrate(calibration.Input{
			Result:  r,
			Home:    home,
			Away:    away,
			Context: req.Context,
		})
		pred := p.classifier.Classify(req.MatchID(), r, cal)

		for _, rule := range pred.Overrides {
			metrics.RecordOverride(rule)
			p.predLogger.LogOverride(matchID, kind.String(), rule, pred.Confidence)
		}
		metrics.RecordPrediction(kind.String(), string(pred.Recommendation), pred.Confidence)
		p.predLogger.LogPrediction(matchID, kind.String(), string(r.Direction), r.Threshold,
			pred.Confidence, pred.SecurityLevel, string(pred.Recommendation))

		if !pred.IsActionable() {
			continue
		}
		out = append(out, pred)
	}
	if len(out) == 0 {
		p.predLogger.LogMarketSkipped(matchID, kind.String(), "calibrated confidence below the bet threshold")
	}
	return out
}

func (p *Predictor) resolve(req models.MatchRequest) ([]models.MarketKind, error) {
	if strings.TrimSpace(req.Home.Name) == "" {
		return nil, fmt.Errorf("home team: %w", models.ErrTeamNameRequired)
	}
	if strings.TrimSpace(req.Away.Name) == "" {
		return nil, fmt.Errorf("away team: %w", models.ErrTeamNameRequired)
	}
	if len(req.Markets) == 0 {
		return p.markets, nil
	}

	kinds := make([]models.MarketKind, 0, len(req.Markets))
	for _, name := range req.Markets {
		kind, err := models.ParseMarketKind(name)
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return orderedUnique(kinds), nil
}

// SortPredictions orders predictions by descending confidence, then market
// order, then ascending threshold, then direction
func SortPredictions(preds []models.CalibratedPrediction) {
	sort.SliceStable(preds, func(i, j int) bool {
		a, b := preds[i], preds[j]
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		if a.Result.Market != b.Result.Market {
			return a.Result.Market < b.Result.Market
		}
		if a.Result.Threshold != b.Result.Threshold {
			return a.Result.Threshold < b.Result.Threshold
		}
		return a.Result.Direction < b.Result.Direction
	})
}

func orderedUnique(kinds []models.MarketKind) []models.MarketKind {
	seen := make(map[models.MarketKind]bool, len(kinds))
	out := make([]models.MarketKind, 0, len(kinds))
	for _, k := range kinds {
		if !k.Valid() || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func errorReason(err error) string {
	switch {
	case errors.Is(err, models.ErrTeamNameRequired):
		return "team_name_required"
	case errors.Is(err, models.ErrUnknownMarket):
		return "unknown_market"
	default:
		return "other"
	}
}
