package handler

import (
	"errors"
	"net/http"

	"github.com/osse101/QuotaPit_Go/internal/domain"
	"github.com/osse101/QuotaPit_Go/internal/logger"
	"github.com/osse101/QuotaPit_Go/internal/session"
)

// GameHandler serves the game session API
type GameHandler struct {
	service session.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(service session.Service) *GameHandler {
	return &GameHandler{service: service}
}

// SelectOptionRequest buys either a configured offer or an explicit bundle
type SelectOptionRequest struct {
	OfferID string `json:"offer_id,omitempty"`
	Cost    *int   `json:"cost,omitempty" validate:"required_without=OfferID,omitempty,gte=0"`
	Spins   *int   `json:"spins,omitempty" validate:"required_without=OfferID,omitempty,gte=0"`
	Tickets *int   `json:"tickets,omitempty" validate:"omitempty,gte=0"`
}

// DepositRequest moves coins toward the quota
type DepositRequest struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

// GameStateResponse is the current snapshot of a game
type GameStateResponse struct {
	GameID string              `json:"game_id"`
	State  domain.EconomyState `json:"state"`
}

// HandleCreate starts a new game
func (h *GameHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Create(r.Context())
	if err != nil {
		respondServiceError(w, r, OpCreateGame, err)
		return
	}
	respondJSON(w, http.StatusCreated, res)
}

// HandleGet returns the game snapshot. Reading a bankrupt game ends it.
func (h *GameHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, PathParamGameID)
	if !ok {
		return
	}

	state, err := h.service.State(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, OpGetGame, err)
		return
	}
	respondJSON(w, http.StatusOK, GameStateResponse{GameID: id, State: state})
}

// HandleEnd discards a game
func (h *GameHandler) HandleEnd(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, PathParamGameID)
	if !ok {
		return
	}

	if err := h.service.End(r.Context(), id); err != nil {
		respondServiceError(w, r, OpEndGame, err)
		return
	}
	respondJSON(w, http.StatusOK, SuccessResponse{Message: MsgGameEnded})
}

// HandleSelectOption buys a spin bundle, by offer ID or by explicit terms
func (h *GameHandler) HandleSelectOption(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, PathParamGameID)
	if !ok {
		return
	}

	var req SelectOptionRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpSelectOption); err != nil {
		return
	}
	if req.OfferID != "" && (req.Cost != nil || req.Spins != nil) {
		respondError(w, http.StatusBadRequest, ErrMsgOptionChoice)
		return
	}
	LogRequestFields(logger.FromContext(r.Context()), logger.AttrKeyGameID, id, "offer_id", req.OfferID)

	var (
		res *domain.ActionResult
		err error
	)
	if req.OfferID != "" {
		res, err = h.service.SelectOffer(r.Context(), id, req.OfferID)
	} else {
		res, err = h.service.SelectSpinOption(r.Context(), id, *req.Cost, *req.Spins, valueOr(req.Tickets, 0))
	}
	h.respondAction(w, r, OpSelectOption, id, res, err)
}

// HandleSpin plays one spin of the active option
func (h *GameHandler) HandleSpin(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, PathParamGameID)
	if !ok {
		return
	}
	res, err := h.service.Spin(r.Context(), id)
	h.respondAction(w, r, OpSpin, id, res, err)
}

// HandleDeposit moves coins into the quota deposit
func (h *GameHandler) HandleDeposit(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, PathParamGameID)
	if !ok {
		return
	}

	var req DepositRequest
	if err := DecodeAndValidateRequest(r, w, &req, OpDeposit); err != nil {
		return
	}
	LogRequestFields(logger.FromContext(r.Context()), logger.AttrKeyGameID, id, "amount", req.Amount)

	res, err := h.service.Deposit(r.Context(), id, req.Amount)
	h.respondAction(w, r, OpDeposit, id, res, err)
}

// HandleWithdraw moves whole coins of accrued interest back to the wallet
func (h *GameHandler) HandleWithdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := GetPathParam(r, w, PathParamGameID)
	if !ok {
		return
	}
	res, err := h.service.WithdrawInterest(r.Context(), id)
	h.respondAction(w, r, OpWithdrawInterest, id, res, err)
}

// respondAction writes an action result. Actions on a finished game answer 409
// with the final state so the renderer can show the summary.
func (h *GameHandler) respondAction(w http.ResponseWriter, r *http.Request, op, id string, res *domain.ActionResult, err error) {
	if err == nil {
		respondJSON(w, http.StatusOK, res)
		return
	}
	if !errors.Is(err, domain.ErrGameOver) {
		respondServiceError(w, r, op, err)
		return
	}

	_, msg := mapServiceErrorToUserMessage(err)
	resp := GameOverResponse{Error: msg}
	if state, stateErr := h.service.State(r.Context(), id); stateErr == nil {
		resp.State = &state
	}
	respondJSON(w, http.StatusConflict, resp)
}

func valueOr(v *int, fallback int) int {
	if v == nil {
		return fallback
	}
	return *v
}
