package models

import (
	"fmt"
	"strings"
)

// MarketKind identifies a bettable statistic
type MarketKind int

const (
	MarketGoals MarketKind = iota
	MarketCorners
	MarketFouls
	MarketCards
	MarketBTTS
	marketKindCount
)

// MarketKindCount is the number of supported markets
const MarketKindCount = int(marketKindCount)

var marketKindNames = [marketKindCount]string{
	MarketGoals:   "goals",
	MarketCorners: "corners",
	MarketFouls:   "fouls",
	MarketCards:   "cards",
	MarketBTTS:    "btts",
}

// AllMarkets returns every market kind in catalog order
func AllMarkets() []MarketKind {
	kinds := make([]MarketKind, 0, MarketKindCount)
	for k := MarketKind(0); k < marketKindCount; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// String returns the wire name of the market
func (k MarketKind) String() string {
	if !k.Valid() {
		return fmt.Sprintf("market(%d)", int(k))
	}
	return marketKindNames[k]
}

// Valid reports whether k is a known market
func (k MarketKind) Valid() bool {
	return k >= 0 && k < marketKindCount
}

// ParseMarketKind resolves a market name, case-insensitively
func ParseMarketKind(name string) (MarketKind, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	for k, n := range marketKindNames {
		if n == normalized {
			return MarketKind(k), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMarket, name)
}

// MarshalText implements encoding.TextMarshaler
func (k MarketKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMarket, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (k *MarketKind) UnmarshalText(text []byte) error {
	parsed, err := ParseMarketKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Metric names a tracked per-match statistic
type Metric string

const (
	MetricGoals         Metric = "goals"
	MetricGoalsConceded Metric = "goals_conceded"
	MetricCorners       Metric = "corners"
	MetricFouls         Metric = "fouls"
	MetricYellowCards   Metric = "yellow_cards"
	MetricShotsOnTarget Metric = "shots_on_target"
)

// TrackedMetrics lists every metric a TeamProfile carries
func TrackedMetrics() []Metric {
	return []Metric{
		MetricGoals,
		MetricGoalsConceded,
		MetricCorners,
		MetricFouls,
		MetricYellowCards,
		MetricShotsOnTarget,
	}
}

// Direction is the side of a threshold call
type Direction string

const (
	DirectionOver  Direction = "OVER"
	DirectionUnder Direction = "UNDER"
	DirectionYes   Direction = "YES"
	DirectionNo    Direction = "NO"
)

// IsUpper reports whether the call wins when the statistic lands above the line
func (d Direction) IsUpper() bool {
	return d == DirectionOver || d == DirectionYes
}
