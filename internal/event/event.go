package event

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/osse101/QuotaPit_Go/internal/domain"
)

// Type represents the type of an event
type Type string

// Metadata carries optional key/value context such as the request ID
type Metadata map[string]interface{}

// Event represents a generic event in the system
type Event struct {
	Version  string      `json:"version"` // Event schema version (e.g., "1.0")
	Type     Type        `json:"type"`
	Payload  interface{} `json:"payload"`
	Metadata Metadata    `json:"metadata,omitempty"`
}

// GetMetadataValue extracts a value from the event metadata safely
func (e Event) GetMetadataValue(key string) interface{} {
	if e.Metadata == nil {
		return nil
	}
	return e.Metadata[key]
}

// Game event types
const (
	GameCreated       Type = domain.EventTypeGameCreated
	OptionSelected    Type = domain.EventTypeOptionSelected
	SpinResolved      Type = domain.EventTypeSpinResolved
	Deposited         Type = domain.EventTypeDeposit
	InterestWithdrawn Type = domain.EventTypeInterestWithdrawn
	RoundSettled      Type = domain.EventTypeRoundSettled
	GameOver          Type = domain.EventTypeGameOver
)

// GameTypes lists every game event type
var GameTypes = []Type{
	GameCreated,
	OptionSelected,
	SpinResolved,
	Deposited,
	InterestWithdrawn,
	RoundSettled,
	GameOver,
}

// Typed event payloads. Every payload carries the game ID so fan-out can filter on it.

// GameCreatedPayloadV1 is the typed payload for game.created
type GameCreatedPayloadV1 struct {
	GameID    string              `json:"game_id"`
	State     domain.EconomyState `json:"state"`
	Timestamp int64               `json:"timestamp"`
}

// OptionSelectedPayloadV1 is the typed payload for game.option_selected
type OptionSelectedPayloadV1 struct {
	GameID    string `json:"game_id"`
	Cost      int    `json:"cost"`
	Spins     int    `json:"spins"`
	Tickets   int    `json:"tickets"`
	Coins     int    `json:"coins"`
	Timestamp int64  `json:"timestamp"`
}

// SpinResolvedPayloadV1 is the typed payload for game.spin_resolved
type SpinResolvedPayloadV1 struct {
	GameID    string             `json:"game_id"`
	Outcome   domain.SpinOutcome `json:"outcome"`
	Coins     int                `json:"coins"`
	Timestamp int64              `json:"timestamp"`
}

// DepositPayloadV1 is the typed payload for game.deposit
type DepositPayloadV1 struct {
	GameID       string `json:"game_id"`
	Amount       int    `json:"amount"`
	QuotaDeposit int    `json:"quota_deposit"`
	Quota        int    `json:"quota"`
	Timestamp    int64  `json:"timestamp"`
}

// InterestWithdrawnPayloadV1 is the typed payload for game.interest_withdrawn
type InterestWithdrawnPayloadV1 struct {
	GameID    string `json:"game_id"`
	Amount    int    `json:"amount"`
	Coins     int    `json:"coins"`
	Timestamp int64  `json:"timestamp"`
}

// RoundSettledPayloadV1 is the typed payload for game.round_settled
type RoundSettledPayloadV1 struct {
	GameID     string                 `json:"game_id"`
	Settlement domain.RoundSettlement `json:"settlement"`
	Timestamp  int64                  `json:"timestamp"`
}

// GameOverPayloadV1 is the typed payload for game.over
type GameOverPayloadV1 struct {
	GameID    string          `json:"game_id"`
	GameOver  domain.GameOver `json:"game_over"`
	Timestamp int64           `json:"timestamp"`
}

// GameIDOf returns the game ID carried by a typed game payload, or "" for anything else
func GameIDOf(evt Event) string {
	switch p := evt.Payload.(type) {
	case GameCreatedPayloadV1:
		return p.GameID
	case OptionSelectedPayloadV1:
		return p.GameID
	case SpinResolvedPayloadV1:
		return p.GameID
	case DepositPayloadV1:
		return p.GameID
	case InterestWithdrawnPayloadV1:
		return p.GameID
	case RoundSettledPayloadV1:
		return p.GameID
	case GameOverPayloadV1:
		return p.GameID
	}
	if id, ok := evt.GetMetadataValue(MetadataKeyGameID).(string); ok {
		return id
	}
	return ""
}

// DecodePayload returns the payload as T. In-process events already hold T;
// anything else (e.g. a dead-letter replay) goes through a JSON round-trip.
func DecodePayload[T any](input interface{}) (T, error) {
	if v, ok := input.(T); ok {
		return v, nil
	}
	var result T
	data, err := json.Marshal(input)
	if err != nil {
		return result, err
	}
	return result, json.Unmarshal(data, &result)
}

// Type-safe event constructors

func newGameEvent(t Type, gameID string, payload interface{}) Event {
	return Event{
		Version:  EventSchemaVersion,
		Type:     t,
		Payload:  payload,
		Metadata: Metadata{MetadataKeyGameID: gameID},
	}
}

// NewGameCreatedEvent creates a game.created event
func NewGameCreatedEvent(gameID string, state domain.EconomyState) Event {
	return newGameEvent(GameCreated, gameID, GameCreatedPayloadV1{
		GameID:    gameID,
		State:     state,
		Timestamp: time.Now().Unix(),
	})
}

// NewOptionSelectedEvent creates a game.option_selected event
func NewOptionSelectedEvent(gameID string, cost, spins, tickets, coins int) Event {
	return newGameEvent(OptionSelected, gameID, OptionSelectedPayloadV1{
		GameID:    gameID,
		Cost:      cost,
		Spins:     spins,
		Tickets:   tickets,
		Coins:     coins,
		Timestamp: time.Now().Unix(),
	})
}

// NewSpinResolvedEvent creates a game.spin_resolved event
func NewSpinResolvedEvent(gameID string, outcome domain.SpinOutcome, coins int) Event {
	return newGameEvent(SpinResolved, gameID, SpinResolvedPayloadV1{
		GameID:    gameID,
		Outcome:   outcome,
		Coins:     coins,
		Timestamp: time.Now().Unix(),
	})
}

// NewDepositEvent creates a game.deposit event
func NewDepositEvent(gameID string, amount, quotaDeposit, quota int) Event {
	return newGameEvent(Deposited, gameID, DepositPayloadV1{
		GameID:       gameID,
		Amount:       amount,
		QuotaDeposit: quotaDeposit,
		Quota:        quota,
		Timestamp:    time.Now().Unix(),
	})
}

// NewInterestWithdrawnEvent creates a game.interest_withdrawn event
func NewInterestWithdrawnEvent(gameID string, amount, coins int) Event {
	return newGameEvent(InterestWithdrawn, gameID, InterestWithdrawnPayloadV1{
		GameID:    gameID,
		Amount:    amount,
		Coins:     coins,
		Timestamp: time.Now().Unix(),
	})
}

// NewRoundSettledEvent creates a game.round_settled event
func NewRoundSettledEvent(gameID string, settlement domain.RoundSettlement) Event {
	return newGameEvent(RoundSettled, gameID, RoundSettledPayloadV1{
		GameID:     gameID,
		Settlement: settlement,
		Timestamp:  time.Now().Unix(),
	})
}

// NewGameOverEvent creates a game.over event
func NewGameOverEvent(gameID string, over domain.GameOver) Event {
	return newGameEvent(GameOver, gameID, GameOverPayloadV1{
		GameID:    gameID,
		GameOver:  over,
		Timestamp: time.Now().Unix(),
	})
}

// Handler is a function that handles an event
type Handler func(ctx context.Context, event Event) error

// Bus defines the interface for an event bus
type Bus interface {
	Publish(ctx context.Context, event Event) error
	Subscribe(eventType Type, handler Handler)
}

// MemoryBus is an in-memory implementation of the Event Bus
type MemoryBus struct {
	handlers map[Type][]Handler
	mu       sync.RWMutex
}

// NewMemoryBus creates a new MemoryBus
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{
		handlers: make(map[Type][]Handler),
	}
}

// Publish runs every subscriber synchronously and reports all handler errors together
func (b *MemoryBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.handlers[event.Type]...)
	b.mu.RUnlock()

	var errs []error
	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf(LogMsgHandlerErrorFormat, len(errs), event.Type, errs)
	}

	return nil
}

// Subscribe subscribes a handler to an event type
func (b *MemoryBus) Subscribe(eventType Type, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
}
