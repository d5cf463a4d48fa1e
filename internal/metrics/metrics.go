package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP Metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameHTTPRequestsTotal,
			Help: HelpTextHTTPRequestsTotal,
		},
		[]string{LabelMethod, LabelPath, LabelStatus},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    MetricNameHTTPRequestDuration,
			Help:    HelpTextHTTPRequestDuration,
			Buckets: HTTPLatencyBuckets,
		},
		[]string{LabelMethod, LabelPath},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameHTTPRequestsInFlight,
			Help: HelpTextHTTPRequestsInFlight,
		},
	)
)

// Event Metrics
var (
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventsPublished,
			Help: HelpTextEventsPublished,
		},
		[]string{LabelType},
	)

	EventHandlerErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameEventHandlerErrors,
			Help: HelpTextEventHandlerErrors,
		},
		[]string{LabelType},
	)
)

// Game Metrics
var (
	GamesStarted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameGamesStarted,
			Help: HelpTextGamesStarted,
		},
	)

	GamesEnded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameGamesEnded,
			Help: HelpTextGamesEnded,
		},
		[]string{LabelCause},
	)

	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: MetricNameActiveSessions,
			Help: HelpTextActiveSessions,
		},
	)

	OptionsPurchased = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameOptionsPurchased,
			Help: HelpTextOptionsPurchased,
		},
		[]string{LabelSpins},
	)

	Spins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNameSpins,
			Help: HelpTextSpins,
		},
		[]string{LabelResult},
	)

	SpinPayout = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameSpinPayout,
			Help:    HelpTextSpinPayout,
			Buckets: PayoutBuckets,
		},
	)

	PatternWins = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: MetricNamePatternWins,
			Help: HelpTextPatternWins,
		},
		[]string{LabelPattern, LabelSymbol},
	)

	PenaltyCoins = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNamePenaltyCoins,
			Help: HelpTextPenaltyCoins,
		},
	)

	CoinsDeposited = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameCoinsDeposited,
			Help: HelpTextCoinsDeposited,
		},
	)

	InterestWithdrawn = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameInterestWithdrawn,
			Help: HelpTextInterestWithdrawn,
		},
	)

	RoundsSettled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: MetricNameRoundsSettled,
			Help: HelpTextRoundsSettled,
		},
	)

	RoundsSurvived = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    MetricNameRoundsSurvived,
			Help:    HelpTextRoundsSurvived,
			Buckets: RoundsBuckets,
		},
	)
)
