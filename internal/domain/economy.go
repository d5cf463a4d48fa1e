package domain

// Phase is the resolution phase of a game
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseResolving Phase = "resolving" // Outcome computed, controls locked until applied
	PhaseSettled   Phase = "settled"   // Outcome applied, renderer may present it
	PhaseGameOver  Phase = "game_over"
)

// GameOverCause identifies which terminal condition ended a game
type GameOverCause string

const (
	CauseBankruptcy  GameOverCause = "bankruptcy"
	CauseQuotaFailed GameOverCause = "quota_failed"
)

// SpinOption is a purchased bundle of spins
type SpinOption struct {
	Cost       int `json:"cost"`
	TotalSpins int `json:"total_spins"`
	SpinsLeft  int `json:"spins_left"`
	Tickets    int `json:"tickets"`
}

// GameOver is the terminal notification of a game
type GameOver struct {
	Cause          GameOverCause `json:"cause"`
	Reason         string        `json:"reason"`
	RoundsSurvived int           `json:"rounds_survived"`
	FinalDeposit   float64       `json:"final_deposit"`
	Summary        string        `json:"summary"`
}

// RoundSettlement describes the end-of-round quota check
type RoundSettlement struct {
	Round    int     `json:"round"` // Round that was settled
	Success  bool    `json:"success"`
	Quota    int     `json:"quota"`     // Quota that was checked
	Deposit  int     `json:"deposit"`   // Quota deposit made during the round
	NewQuota int     `json:"new_quota"` // Zero on failure
	Interest float64 `json:"interest"`  // Interest credited to the deposit
	Message  string  `json:"message"`
}

// EconomyState is a read-only snapshot of a game's economy
type EconomyState struct {
	Coins            int         `json:"coins"`
	CloverTickets    int         `json:"clover_tickets"`
	DepositedMoney   float64     `json:"deposited_money"`
	DepositedDisplay string      `json:"deposited_display"` // Two decimal places
	Principal        float64     `json:"principal"`
	Interest         int         `json:"interest"` // Whole coins currently withdrawable
	Round            int         `json:"round"`
	RoundsRemaining  int         `json:"rounds_remaining"`
	CurrentQuota     int         `json:"current_quota"`
	QuotaDeposit     int         `json:"quota_deposit"`
	SpinOption       *SpinOption `json:"spin_option,omitempty"`
	Phase            Phase       `json:"phase"`
	ControlsDisabled bool        `json:"controls_disabled"`
	GameOver         *GameOver   `json:"game_over,omitempty"`
}

// IsOver reports whether the game has reached a terminal state
func (s EconomyState) IsOver() bool {
	return s.GameOver != nil
}

// ActionResult is returned by every accepted player action
type ActionResult struct {
	GameID     string           `json:"game_id,omitempty"`
	Message    string           `json:"message"`
	Amount     int              `json:"amount,omitempty"` // Coins moved by a deposit or withdrawal
	Outcome    *SpinOutcome     `json:"outcome,omitempty"`
	Settlement *RoundSettlement `json:"settlement,omitempty"`
	State      EconomyState     `json:"state"`
}
