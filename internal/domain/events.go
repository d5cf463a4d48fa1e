package domain

// Event type constants used across the application for event bus subscriptions,
// SSE fan-out and metrics tracking.
//
// Event types follow the pattern: <entity>.<action> (e.g., "game.deposit")
const (
	// EventTypeGameCreated is published when a new game session starts
	EventTypeGameCreated = "game.created"

	// EventTypeOptionSelected is published when a spin option is purchased
	EventTypeOptionSelected = "game.option_selected"

	// EventTypeSpinResolved is published when a spin outcome has been applied
	EventTypeSpinResolved = "game.spin_resolved"

	// EventTypeDeposit is published when coins are deposited toward the quota
	EventTypeDeposit = "game.deposit"

	// EventTypeInterestWithdrawn is published when accrued interest is withdrawn
	EventTypeInterestWithdrawn = "game.interest_withdrawn"

	// EventTypeRoundSettled is published after every quota check that the player passed
	EventTypeRoundSettled = "game.round_settled"

	// EventTypeGameOver is published once when a game reaches a terminal state
	EventTypeGameOver = "game.over"
)

// GameEventTypes lists every game event type in publication order
var GameEventTypes = []string{
	EventTypeGameCreated,
	EventTypeOptionSelected,
	EventTypeSpinResolved,
	EventTypeDeposit,
	EventTypeInterestWithdrawn,
	EventTypeRoundSettled,
	EventTypeGameOver,
}
