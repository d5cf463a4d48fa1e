package simulation

import "github.com/osse101/QuotaPit_Go/internal/domain"

// Strategy names
const (
	StrategyCheapest = "cheapest" // Cheapest affordable offer every action
	StrategyRichest  = "richest"  // Most expensive offer that still leaves the quota reachable
)

// Defaults
const (
	DefaultGames       = 1000
	DefaultConcurrency = 8
	DefaultMaxRounds   = 200
)

// CauseRoundLimit marks a game stopped by the round cap rather than a terminal condition
const CauseRoundLimit domain.GameOverCause = "round_limit"

// CauseStalled marks a game where the strategy had no legal move left
const CauseStalled domain.GameOverCause = "stalled"

// Error messages
const (
	ErrMsgInvalidGames       = "games must be positive, got %d"
	ErrMsgInvalidConcurrency = "concurrency must be positive, got %d"
	ErrMsgUnknownStrategy    = "unknown strategy %q"
	ErrMsgNoOffers           = "rules define no offers"
	ErrMsgBuildGameFmt       = "failed to build game %d: %w"
	ErrMsgPlayGameFmt        = "game %d: %w"
)

// Log messages
const (
	LogMsgSimulationStarted  = "Simulation started"
	LogMsgSimulationFinished = "Simulation finished"
)
