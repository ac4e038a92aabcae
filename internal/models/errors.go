package models

import "errors"

// Custom errors
var (
	ErrUnknownMarket    = errors.New("unknown market")
	ErrTeamNameRequired = errors.New("team name is required")
	ErrInvalidCatalog   = errors.New("invalid market catalog")
	ErrEmptyBatch       = errors.New("no matches supplied")
)
