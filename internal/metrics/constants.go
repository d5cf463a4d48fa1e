package metrics

// ============================================================================
// Metric Names
// ============================================================================

// HTTP metric names
const (
	MetricNameHTTPRequestsTotal    = "http_requests_total"
	MetricNameHTTPRequestDuration  = "http_request_duration_seconds"
	MetricNameHTTPRequestsInFlight = "http_requests_in_flight"
)

// Event metric names
const (
	MetricNameEventsPublished    = "events_published_total"
	MetricNameEventHandlerErrors = "event_handler_errors_total"
)

// Game metric names
const (
	MetricNameGamesStarted      = "games_started_total"
	MetricNameGamesEnded        = "games_ended_total"
	MetricNameActiveSessions    = "game_sessions_active"
	MetricNameOptionsPurchased  = "spin_options_purchased_total"
	MetricNameSpins             = "spins_total"
	MetricNameSpinPayout        = "spin_payout_coins"
	MetricNamePatternWins       = "pattern_wins_total"
	MetricNamePenaltyCoins      = "penalty_coins_total"
	MetricNameCoinsDeposited    = "coins_deposited_total"
	MetricNameInterestWithdrawn = "interest_withdrawn_total"
	MetricNameRoundsSettled     = "rounds_settled_total"
	MetricNameRoundsSurvived    = "rounds_survived"
)

// ============================================================================
// Metric Help Text
// ============================================================================

// HTTP metric help text
const (
	HelpTextHTTPRequestsTotal    = "Total number of HTTP requests"
	HelpTextHTTPRequestDuration  = "HTTP request latency in seconds"
	HelpTextHTTPRequestsInFlight = "Current number of HTTP requests being served"
)

// Event metric help text
const (
	HelpTextEventsPublished    = "Total number of events published"
	HelpTextEventHandlerErrors = "Total number of event handler errors"
)

// Game metric help text
const (
	HelpTextGamesStarted      = "Total number of games started"
	HelpTextGamesEnded        = "Total number of games that reached a terminal state"
	HelpTextActiveSessions    = "Current number of game sessions held in memory"
	HelpTextOptionsPurchased  = "Total number of spin options bought"
	HelpTextSpins             = "Total number of spins resolved"
	HelpTextSpinPayout        = "Coins won per spin"
	HelpTextPatternWins       = "Total number of pattern and run matches"
	HelpTextPenaltyCoins      = "Total coins lost to the penalty event"
	HelpTextCoinsDeposited    = "Total coins deposited toward quotas"
	HelpTextInterestWithdrawn = "Total interest coins withdrawn"
	HelpTextRoundsSettled     = "Total number of quota checks passed"
	HelpTextRoundsSurvived    = "Rounds survived per finished game"
)

// ============================================================================
// Metric Label Names
// ============================================================================

// Common label names used across metrics
const (
	LabelMethod  = "method"
	LabelPath    = "path"
	LabelStatus  = "status"
	LabelType    = "type"
	LabelCause   = "cause"
	LabelResult  = "result"
	LabelSpins   = "spins"
	LabelPattern = "pattern"
	LabelSymbol  = "symbol"
)

// Spin result label values
const (
	SpinResultWin     = "win"
	SpinResultLoss    = "loss"
	SpinResultPenalty = "penalty"
)

// ============================================================================
// Histogram Buckets
// ============================================================================

// HTTPLatencyBuckets range from 1ms to 10s
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// PayoutBuckets cover a losing spin up to a full-grid star jackpot
var PayoutBuckets = []float64{0, 1, 2, 3, 5, 10, 20, 50, 100, 250, 1000}

// RoundsBuckets cover the usual length of a game
var RoundsBuckets = []float64{1, 2, 3, 4, 5, 6, 8, 10, 15, 20}

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgEventPayloadUnexpected = "Event payload has an unexpected shape"
	LogMsgMetricsRecorded        = "Metrics recorded for event"
)
