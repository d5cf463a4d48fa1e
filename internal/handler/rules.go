package handler

import (
	"net/http"
	"sort"

	"github.com/osse101/QuotaPit_Go/internal/config"
	"github.com/osse101/QuotaPit_Go/internal/domain"
	"github.com/osse101/QuotaPit_Go/internal/economy"
)

// RulesResponse is the rule set a renderer needs to draw and explain the machine
type RulesResponse struct {
	Grid     GridView        `json:"grid"`
	Symbols  []domain.Symbol `json:"symbols"`
	Patterns []PatternView   `json:"patterns"`
	Runs     *RunsView       `json:"runs,omitempty"`
	Penalty  PenaltyView     `json:"penalty"`
	Economy  EconomyView     `json:"economy"`
}

// GridView is the reel grid size
type GridView struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// PatternView describes one paying shape and its base multiplier
type PatternView struct {
	Name           string   `json:"name"`
	Type           string   `json:"type"`
	Anchor         string   `json:"anchor"`
	BaseMultiplier float64  `json:"base_multiplier"`
	Mask           []string `json:"mask"`
}

// RunTier is the multiplier paid for a run of Length symbols
type RunTier struct {
	Length     int     `json:"length"`
	Multiplier float64 `json:"multiplier"`
}

// RunsView describes continuous-run payouts, tiers sorted by length
type RunsView struct {
	MinLength int       `json:"min_length"`
	Tiers     []RunTier `json:"tiers"`
}

// PenaltyView describes the random penalty rolled after every spin
type PenaltyView struct {
	Chance  float64 `json:"chance"`
	Rate    float64 `json:"rate"`
	Minimum int     `json:"minimum"`
}

// EconomyView holds the round, quota and offer settings
type EconomyView struct {
	StartingCoins         int             `json:"starting_coins"`
	StartingQuota         int             `json:"starting_quota"`
	QuotaGrowth           float64         `json:"quota_growth"`
	InterestRate          float64         `json:"interest_rate"`
	ActionsPerRound       int             `json:"actions_per_round"`
	BankruptcyFloor       int             `json:"bankruptcy_floor"`
	SettleOnFinalPurchase bool            `json:"settle_on_final_purchase"`
	Offers                []economy.Offer `json:"offers"`
}

// NewRulesResponse flattens the game rules for the API
func NewRulesResponse(rules config.GameRules) RulesResponse {
	s, e := rules.Slots, rules.Economy

	resp := RulesResponse{
		Grid:     GridView{Rows: s.Rows, Cols: s.Cols},
		Symbols:  s.Symbols,
		Patterns: make([]PatternView, 0, len(s.Patterns)),
		Penalty:  PenaltyView{Chance: s.PenaltyChance, Rate: s.PenaltyRate, Minimum: s.MinPenalty},
		Economy: EconomyView{
			StartingCoins:         e.StartingCoins,
			StartingQuota:         e.StartingQuota,
			QuotaGrowth:           e.QuotaGrowth,
			InterestRate:          e.InterestRate,
			ActionsPerRound:       e.ActionsPerRound,
			BankruptcyFloor:       e.BankruptcyFloor,
			SettleOnFinalPurchase: e.SettleOnFinalPurchase,
			Offers:                e.Offers,
		},
	}

	for _, p := range s.Patterns {
		resp.Patterns = append(resp.Patterns, PatternView{
			Name:           p.Name,
			Type:           p.Type,
			Anchor:         string(p.Anchor),
			BaseMultiplier: p.BaseMultiplier,
			Mask:           p.Mask,
		})
	}

	if s.Runs != nil {
		runs := &RunsView{MinLength: s.Runs.MinLength}
		for length, m := range s.Runs.Tiers {
			runs.Tiers = append(runs.Tiers, RunTier{Length: length, Multiplier: m})
		}
		sort.Slice(runs.Tiers, func(i, j int) bool { return runs.Tiers[i].Length < runs.Tiers[j].Length })
		resp.Runs = runs
	}

	return resp
}

// HandleRules returns the rule set new games are built from
func HandleRules(rules config.GameRules) http.HandlerFunc {
	resp := NewRulesResponse(rules)
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, resp)
	}
}
