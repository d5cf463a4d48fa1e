package domain

import (
	"errors"
	"fmt"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Input errors
	ErrMsgInvalidInput = "invalid input"

	// Economy errors
	ErrMsgInsufficientFunds = "insufficient funds"
	ErrMsgNoInterest        = "interest < 1"

	// Spin option errors
	ErrMsgSpinOptionActive = "a spin option is already active"
	ErrMsgNoSpinOption     = "no spin option is active"
	ErrMsgResolving        = "a spin is still resolving"
	ErrMsgNotResolving     = "no spin is resolving"
	ErrMsgUnknownOffer     = "unknown spin offer"

	// Terminal state
	ErrMsgGameOver = "game is over"

	// Session errors
	ErrMsgSessionNotFound = "game session not found"

	// Configuration errors
	ErrMsgInvalidRules = "invalid rules"
)

// Common domain errors
// These errors should be used consistently across all layers of the application.
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrInvalidInput = errors.New(ErrMsgInvalidInput)

	ErrInsufficientFunds = errors.New(ErrMsgInsufficientFunds)
	ErrNoInterest        = errors.New(ErrMsgNoInterest)

	ErrSpinOptionActive = errors.New(ErrMsgSpinOptionActive)
	ErrNoSpinOption     = errors.New(ErrMsgNoSpinOption)
	ErrResolving        = errors.New(ErrMsgResolving)
	ErrNotResolving     = errors.New(ErrMsgNotResolving)
	ErrUnknownOffer     = errors.New(ErrMsgUnknownOffer)

	ErrGameOver = errors.New(ErrMsgGameOver)

	ErrSessionNotFound = errors.New(ErrMsgSessionNotFound)

	ErrInvalidRules = errors.New(ErrMsgInvalidRules)
)

// ActionError is a recoverable rejection of a player action.
// Error returns the player-facing message; Unwrap exposes the domain error for errors.Is.
type ActionError struct {
	Message string
	Err     error
}

// NewActionError builds an ActionError with a formatted player-facing message
func NewActionError(err error, format string, args ...interface{}) *ActionError {
	return &ActionError{
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func (e *ActionError) Error() string {
	return e.Message
}

func (e *ActionError) Unwrap() error {
	return e.Err
}
