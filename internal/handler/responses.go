package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/osse101/QuotaPit_Go/internal/domain"
	"github.com/osse101/QuotaPit_Go/internal/logger"
)

// SuccessResponse represents a simple successful operation message
type SuccessResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// GameOverResponse is returned when an action hits a finished game.
// The state carries the game-over summary so the renderer can show it.
type GameOverResponse struct {
	Error string               `json:"error"`
	State *domain.EconomyState `json:"state,omitempty"`
}

// respondJSON sends a JSON response with the given status code and payload
func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	buf := getBuffer()
	defer putBuffer(buf)

	// Encode first so an encoding failure can still become a 500.
	// Player messages contain "<" and must reach the renderer verbatim.
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		slog.Error(LogMsgEncodeFailed, "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"` + ErrMsgGenericServerError + `"}` + "\n"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error(LogMsgWriteFailed, "error", err)
	}
}

// respondError sends a JSON error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondServiceError logs a failed service call and writes the mapped response.
// Player mistakes are logged at debug, anything else at error.
func respondServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	log := logger.FromContext(r.Context())
	status, msg := mapServiceErrorToUserMessage(err)
	if status >= http.StatusInternalServerError {
		log.Error(LogMsgServiceFailed, "op", op, "error", err)
	} else {
		log.Debug(LogMsgActionRejected, "op", op, "status", status, "reason", msg)
	}
	respondError(w, status, msg)
}

// mapServiceErrorToUserMessage maps domain errors to HTTP status codes and
// player-facing messages. Rejected actions carry their own message.
func mapServiceErrorToUserMessage(err error) (int, string) {
	if err == nil {
		return http.StatusInternalServerError, ErrMsgUnknownError
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, ErrMsgGameNotFound
	case errors.Is(err, domain.ErrGameOver),
		errors.Is(err, domain.ErrSpinOptionActive),
		errors.Is(err, domain.ErrResolving),
		errors.Is(err, domain.ErrNotResolving):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNoSpinOption),
		errors.Is(err, domain.ErrNoInterest),
		errors.Is(err, domain.ErrUnknownOffer):
		status = http.StatusBadRequest
	}

	var actionErr *domain.ActionError
	if errors.As(err, &actionErr) {
		return status, actionErr.Message
	}
	if status == http.StatusConflict && errors.Is(err, domain.ErrGameOver) {
		return status, ErrMsgGameOverHTTP
	}
	if status != http.StatusInternalServerError {
		return status, err.Error()
	}
	return status, ErrMsgGenericServerError
}
