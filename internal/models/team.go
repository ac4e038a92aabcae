package models

// TeamStats holds the raw per-team counters supplied by the ingestion layer.
// Optional per-match averages are pointers; nil means the figure was not collected.
type TeamStats struct {
	Name            string   `json:"name" yaml:"name" validate:"required"`
	MatchesPlayed   int      `json:"matches_played" yaml:"matches_played" validate:"gte=0"`
	GoalsScored     float64  `json:"goals_scored" yaml:"goals_scored" validate:"gte=0"`
	GoalsConceded   float64  `json:"goals_conceded" yaml:"goals_conceded" validate:"gte=0"`
	CornersPerMatch *float64 `json:"corners_per_match,omitempty" yaml:"corners_per_match,omitempty"`
	FoulsPerMatch   *float64 `json:"fouls_per_match,omitempty" yaml:"fouls_per_match,omitempty"`
	YellowCards     *float64 `json:"yellow_cards_per_match,omitempty" yaml:"yellow_cards_per_match,omitempty"`
	RedCards        *float64 `json:"red_cards_per_match,omitempty" yaml:"red_cards_per_match,omitempty"`
	ShotsOnTarget   *float64 `json:"shots_on_target_per_match,omitempty" yaml:"shots_on_target_per_match,omitempty"`
	Possession      *float64 `json:"possession_pct,omitempty" yaml:"possession_pct,omitempty"`
	DuelsWon        *float64 `json:"duels_won_pct,omitempty" yaml:"duels_won_pct,omitempty"`
}

// Float returns a pointer to v, for populating optional stats
func Float(v float64) *float64 {
	return &v
}

// Value returns the optional figure or 0 when absent. Negative inputs read as 0.
func Value(v *float64) float64 {
	if v == nil || *v < 0 {
		return 0
	}
	return *v
}

// Present reports whether an optional figure was collected
func Present(v *float64) bool {
	return v != nil
}

// OptionalFields returns the optional inputs in a fixed order
func (s TeamStats) OptionalFields() []*float64 {
	return []*float64{
		s.CornersPerMatch,
		s.FoulsPerMatch,
		s.YellowCards,
		s.RedCards,
		s.ShotsOnTarget,
		s.Possession,
		s.DuelsWon,
	}
}

// MetricEstimate is the expected per-match value of a metric and its spread
type MetricEstimate struct {
	ExpectedValue float64 `json:"expected_value"`
	Variance      float64 `json:"variance"`
}

// TeamProfile is the derived statistical view of one team. It is built per
// request and never mutated afterwards.
type TeamProfile struct {
	name        string
	metrics     map[Metric]MetricEstimate
	attack      float64
	defense     float64
	discipline  float64
	consistency float64
	warnings    []string
}

// ProfileScores groups the composite strength scores, each in [0,10]
type ProfileScores struct {
	Attack      float64 `json:"attack"`
	Defense     float64 `json:"defense"`
	Discipline  float64 `json:"discipline"`
	Consistency float64 `json:"consistency"`
}

// NewTeamProfile builds an immutable profile, copying the supplied metrics
func NewTeamProfile(name string, metrics map[Metric]MetricEstimate, scores ProfileScores, warnings []string) *TeamProfile {
	copied := make(map[Metric]MetricEstimate, len(metrics))
	for k, v := range metrics {
		copied[k] = v
	}
	return &TeamProfile{
		name:        name,
		metrics:     copied,
		attack:      scores.Attack,
		defense:     scores.Defense,
		discipline:  scores.Discipline,
		consistency: scores.Consistency,
		warnings:    append([]string(nil), warnings...),
	}
}

// Name returns the team name
func (p *TeamProfile) Name() string {
	return p.name
}

// Metric returns the estimate for m, or a zero estimate when untracked
func (p *TeamProfile) Metric(m Metric) MetricEstimate {
	return p.metrics[m]
}

// Expected returns the expected per-match value of m
func (p *TeamProfile) Expected(m Metric) float64 {
	return p.metrics[m].ExpectedValue
}

// Metrics returns a copy of every tracked estimate
func (p *TeamProfile) Metrics() map[Metric]MetricEstimate {
	copied := make(map[Metric]MetricEstimate, len(p.metrics))
	for k, v := range p.metrics {
		copied[k] = v
	}
	return copied
}

// Scores returns the composite strength scores
func (p *TeamProfile) Scores() ProfileScores {
	return ProfileScores{
		Attack:      p.attack,
		Defense:     p.defense,
		Discipline:  p.discipline,
		Consistency: p.consistency,
	}
}

// Warnings returns advisory messages recorded while building the profile
func (p *TeamProfile) Warnings() []string {
	return append([]string(nil), p.warnings...)
}
