package metrics

import (
	"context"
	"strconv"

	"github.com/osse101/QuotaPit_Go/internal/event"
	"github.com/osse101/QuotaPit_Go/internal/logger"
)

// EventMetricsCollector subscribes to game events and records metrics
type EventMetricsCollector struct{}

// NewEventMetricsCollector creates a new event metrics collector
func NewEventMetricsCollector() *EventMetricsCollector {
	return &EventMetricsCollector{}
}

// Register subscribes to every game event
func (e *EventMetricsCollector) Register(bus event.Bus) error {
	for _, eventType := range event.GameTypes {
		bus.Subscribe(eventType, e.HandleEvent)
	}
	return nil
}

// HandleEvent updates the counters matching one game event
func (e *EventMetricsCollector) HandleEvent(ctx context.Context, evt event.Event) error {
	log := logger.FromContext(ctx)

	EventsPublished.WithLabelValues(string(evt.Type)).Inc()

	var err error
	switch evt.Type {
	case event.GameCreated:
		GamesStarted.Inc()

	case event.OptionSelected:
		var p event.OptionSelectedPayloadV1
		if p, err = event.DecodePayload[event.OptionSelectedPayloadV1](evt.Payload); err == nil {
			OptionsPurchased.WithLabelValues(strconv.Itoa(p.Spins)).Inc()
		}

	case event.SpinResolved:
		var p event.SpinResolvedPayloadV1
		if p, err = event.DecodePayload[event.SpinResolvedPayloadV1](evt.Payload); err == nil {
			recordSpin(p)
		}

	case event.Deposited:
		var p event.DepositPayloadV1
		if p, err = event.DecodePayload[event.DepositPayloadV1](evt.Payload); err == nil {
			CoinsDeposited.Add(float64(p.Amount))
		}

	case event.InterestWithdrawn:
		var p event.InterestWithdrawnPayloadV1
		if p, err = event.DecodePayload[event.InterestWithdrawnPayloadV1](evt.Payload); err == nil {
			InterestWithdrawn.Add(float64(p.Amount))
		}

	case event.RoundSettled:
		RoundsSettled.Inc()

	case event.GameOver:
		var p event.GameOverPayloadV1
		if p, err = event.DecodePayload[event.GameOverPayloadV1](evt.Payload); err == nil {
			GamesEnded.WithLabelValues(string(p.GameOver.Cause)).Inc()
			RoundsSurvived.Observe(float64(p.GameOver.RoundsSurvived))
		}
	}

	if err != nil {
		EventHandlerErrors.WithLabelValues(string(evt.Type)).Inc()
		log.Debug(LogMsgEventPayloadUnexpected, "type", evt.Type, "error", err)
		return nil
	}

	log.Debug(LogMsgMetricsRecorded, "type", evt.Type)
	return nil
}

func recordSpin(p event.SpinResolvedPayloadV1) {
	o := p.Outcome
	switch {
	case o.Penalty:
		Spins.WithLabelValues(SpinResultPenalty).Inc()
		PenaltyCoins.Add(float64(o.Loss))
	case o.Gain > 0:
		Spins.WithLabelValues(SpinResultWin).Inc()
	default:
		Spins.WithLabelValues(SpinResultLoss).Inc()
	}

	SpinPayout.Observe(float64(o.Gain))
	for _, w := range o.Wins {
		PatternWins.WithLabelValues(w.Pattern, w.Symbol).Inc()
	}
}
