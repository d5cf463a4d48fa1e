package economy

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/osse101/QuotaPit_Go/internal/domain"
	"github.com/osse101/QuotaPit_Go/internal/utils"
)

// SpinResolver produces the outcome of one spin played from the given balance
type SpinResolver interface {
	ResolveSpin(coins int) domain.SpinOutcome
}

var one = decimal.NewFromInt(1)

// Machine owns the economy of a single game.
// It is not safe for concurrent use; callers serialize actions per game.
type Machine struct {
	rules        Rules
	resolver     SpinResolver
	interestRate decimal.Decimal

	coins           int
	tickets         int
	deposited       decimal.Decimal
	principal       decimal.Decimal
	round           int
	roundsRemaining int
	quota           int
	quotaDeposit    int

	option   *domain.SpinOption
	phase    domain.Phase
	pending  *domain.SpinOutcome
	gameOver *domain.GameOver
}

// NewMachine starts a game in its initial state
func NewMachine(rules Rules, resolver SpinResolver) (*Machine, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}
	if resolver == nil {
		return nil, fmt.Errorf(ErrMsgNilResolverFmt, domain.ErrInvalidRules)
	}

	return &Machine{
		rules:           rules,
		resolver:        resolver,
		interestRate:    decimal.NewFromFloat(rules.InterestRate),
		coins:           rules.StartingCoins,
		deposited:       decimal.Zero,
		principal:       decimal.Zero,
		round:           1,
		roundsRemaining: rules.ActionsPerRound,
		quota:           rules.StartingQuota,
		phase:           domain.PhaseIdle,
	}, nil
}

// Rules returns the rule table the game runs on
func (m *Machine) Rules() Rules {
	return m.rules
}

// State returns a snapshot. Reading state runs the bankruptcy check, so a
// bankrupt game is reported as over before any further action is accepted.
func (m *Machine) State() domain.EconomyState {
	if m.phase != domain.PhaseResolving {
		m.checkBankruptcy()
	}
	return m.snapshot()
}

// GameOver returns the terminal notification, or nil while the game is running
func (m *Machine) GameOver() *domain.GameOver {
	if m.gameOver == nil {
		return nil
	}
	g := *m.gameOver
	return &g
}

// SelectOffer buys one of the configured spin bundles
func (m *Machine) SelectOffer(id string) (*domain.ActionResult, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	offer, ok := m.rules.Offer(id)
	if !ok {
		return nil, domain.NewActionError(domain.ErrUnknownOffer, MsgUnknownOfferFmt, id)
	}
	return m.SelectSpinOption(offer.Cost, offer.Spins, offer.Tickets)
}

// SelectSpinOption buys a bundle of spins. It always consumes one round action.
// Buying the last action of a round settles it, unless settlement is deferred
// until the purchased spins are played.
func (m *Machine) SelectSpinOption(cost, spins, tickets int) (*domain.ActionResult, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	if cost < 0 || spins < 0 || tickets < 0 {
		return nil, domain.NewActionError(domain.ErrInvalidInput, MsgInvalidSpinOption)
	}
	if m.option != nil {
		return nil, domain.NewActionError(domain.ErrSpinOptionActive, MsgSpinOptionActive)
	}
	if m.coins < cost {
		return nil, domain.NewActionError(domain.ErrInsufficientFunds, MsgInsufficientCoins)
	}

	m.coins -= cost
	m.tickets += tickets
	m.roundsRemaining--

	// A bundle without spins is played out on purchase
	if spins > 0 {
		m.option = &domain.SpinOption{
			Cost:       cost,
			TotalSpins: spins,
			SpinsLeft:  spins,
			Tickets:    tickets,
		}
	}

	messages := []string{fmt.Sprintf(MsgOptionPurchasedFmt, spins, cost)}
	var settlement *domain.RoundSettlement
	if m.roundsRemaining <= 0 && (m.option == nil || m.rules.SettleOnFinalPurchase) {
		settlement = m.settleRound()
		messages = append(messages, settlement.Message)
	}

	return m.finish(messages, nil, settlement), nil
}

// BeginSpin resolves the next spin of the active option and locks the controls
// until CompleteSpin applies the outcome
func (m *Machine) BeginSpin() (*domain.ActionResult, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	if m.option == nil || m.option.SpinsLeft <= 0 {
		return nil, domain.NewActionError(domain.ErrNoSpinOption, MsgNoSpinOption)
	}

	m.option.SpinsLeft--
	outcome := m.resolver.ResolveSpin(m.coins)
	m.pending = &outcome
	m.phase = domain.PhaseResolving

	presented := outcome
	return &domain.ActionResult{
		Message: outcome.Summary,
		Outcome: &presented,
		State:   m.snapshot(),
	}, nil
}

// CompleteSpin applies the pending outcome. Exhausting the option settles the
// round if no round actions remain, otherwise frees the player to buy again.
func (m *Machine) CompleteSpin() (*domain.ActionResult, error) {
	if m.gameOver != nil {
		return nil, domain.NewActionError(domain.ErrGameOver, MsgGameOver)
	}
	if m.phase != domain.PhaseResolving || m.pending == nil {
		return nil, domain.NewActionError(domain.ErrNotResolving, MsgNotResolving)
	}

	outcome := *m.pending
	m.pending = nil
	m.coins = utils.ClampMin(m.coins+outcome.Net(), 0)
	m.phase = domain.PhaseSettled

	messages := []string{outcome.Summary}
	var settlement *domain.RoundSettlement
	if m.option != nil && m.option.SpinsLeft <= 0 {
		if m.roundsRemaining <= 0 {
			settlement = m.settleRound()
			messages = append(messages, settlement.Message)
		} else {
			m.option = nil
		}
	}

	return m.finish(messages, &outcome, settlement), nil
}

// ExecuteSpin resolves and applies one spin in a single step
func (m *Machine) ExecuteSpin() (*domain.ActionResult, error) {
	if _, err := m.BeginSpin(); err != nil {
		return nil, err
	}
	return m.CompleteSpin()
}

// Deposit moves coins into the interest-bearing account. It is a free action.
func (m *Machine) Deposit(amount int) (*domain.ActionResult, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, domain.NewActionError(domain.ErrInvalidInput, MsgInvalidDeposit)
	}
	if amount > m.coins {
		return nil, domain.NewActionError(domain.ErrInsufficientFunds, MsgDepositExceedsCoins)
	}

	d := decimal.NewFromInt(int64(amount))
	m.coins -= amount
	m.deposited = m.deposited.Add(d)
	m.principal = m.principal.Add(d)
	m.quotaDeposit += amount

	res := m.finish([]string{fmt.Sprintf(MsgDepositedFmt, amount, m.quotaDeposit, m.quota)}, nil, nil)
	res.Amount = amount
	return res, nil
}

// WithdrawInterest moves the whole coins of accrued interest back to the wallet.
// The fractional remainder stays deposited and becomes part of the principal.
func (m *Machine) WithdrawInterest() (*domain.ActionResult, error) {
	if err := m.guard(); err != nil {
		return nil, err
	}

	interest := m.deposited.Sub(m.principal).Floor()
	if interest.LessThan(one) {
		return nil, domain.NewActionError(domain.ErrNoInterest, MsgNoInterest)
	}

	n := int(interest.IntPart())
	m.coins += n
	m.deposited = m.deposited.Sub(interest)
	m.principal = m.deposited

	res := m.finish([]string{fmt.Sprintf(MsgInterestWithdrawnFmt, n)}, nil, nil)
	res.Amount = n
	return res, nil
}

// guard rejects actions on a finished game or while a spin is resolving
func (m *Machine) guard() error {
	if m.gameOver != nil {
		return domain.NewActionError(domain.ErrGameOver, MsgGameOver)
	}
	if m.phase == domain.PhaseResolving {
		return domain.NewActionError(domain.ErrResolving, MsgResolving)
	}
	return nil
}

// finish runs the post-action bankruptcy check and builds the result
func (m *Machine) finish(messages []string, outcome *domain.SpinOutcome, settlement *domain.RoundSettlement) *domain.ActionResult {
	if m.checkBankruptcy() {
		messages = append(messages, m.gameOver.Reason)
	}
	return &domain.ActionResult{
		Message:    strings.Join(messages, MsgSeparator),
		Outcome:    outcome,
		Settlement: settlement,
		State:      m.snapshot(),
	}
}

// settleRound runs the quota check. Failure is terminal; success grows the
// quota, compounds the deposit and opens the next round.
func (m *Machine) settleRound() *domain.RoundSettlement {
	s := &domain.RoundSettlement{
		Round:   m.round,
		Quota:   m.quota,
		Deposit: m.quotaDeposit,
	}
	m.option = nil

	if m.quotaDeposit < m.quota {
		s.Message = fmt.Sprintf(MsgQuotaFailedFmt, m.quotaDeposit, m.quota)
		m.endGame(domain.CauseQuotaFailed, s.Message)
		return s
	}

	interest := m.deposited.Mul(m.interestRate)
	m.deposited = m.deposited.Add(interest)
	m.quota = utils.RoundToInt(float64(m.quota) * m.rules.QuotaGrowth)
	m.round++
	m.roundsRemaining = m.rules.ActionsPerRound
	m.quotaDeposit = 0

	s.Success = true
	s.NewQuota = m.quota
	s.Interest = interest.InexactFloat64()
	s.Message = fmt.Sprintf(MsgQuotaSuccessFmt, m.quota, interest.StringFixed(MoneyDecimals))
	return s
}

// checkBankruptcy ends the game when the player can no longer afford the
// cheapest option while round actions remain. Reports whether it just ended the game.
func (m *Machine) checkBankruptcy() bool {
	if m.gameOver != nil || m.roundsRemaining <= 0 || m.coins >= m.rules.BankruptcyFloor {
		return false
	}
	m.endGame(domain.CauseBankruptcy, MsgBankrupt)
	return true
}

func (m *Machine) endGame(cause domain.GameOverCause, reason string) {
	deposit := m.deposited.StringFixed(MoneyDecimals)
	m.option = nil
	m.pending = nil
	m.phase = domain.PhaseGameOver
	m.gameOver = &domain.GameOver{
		Cause:          cause,
		Reason:         reason,
		RoundsSurvived: m.round,
		FinalDeposit:   m.deposited.InexactFloat64(),
		Summary: strings.Join([]string{
			reason,
			fmt.Sprintf(MsgRoundsSurvivedFmt, m.round),
			fmt.Sprintf(MsgTotalDepositFmt, deposit),
		}, MsgSummarySeparator),
	}
}

func (m *Machine) withdrawable() int {
	interest := m.deposited.Sub(m.principal).Floor()
	if interest.IsNegative() {
		return 0
	}
	return int(interest.IntPart())
}

func (m *Machine) snapshot() domain.EconomyState {
	s := domain.EconomyState{
		Coins:            m.coins,
		CloverTickets:    m.tickets,
		DepositedMoney:   m.deposited.InexactFloat64(),
		DepositedDisplay: m.deposited.StringFixed(MoneyDecimals),
		Principal:        m.principal.InexactFloat64(),
		Interest:         m.withdrawable(),
		Round:            m.round,
		RoundsRemaining:  m.roundsRemaining,
		CurrentQuota:     m.quota,
		QuotaDeposit:     m.quotaDeposit,
		Phase:            m.phase,
		ControlsDisabled: m.phase == domain.PhaseResolving,
	}
	if m.option != nil {
		o := *m.option
		s.SpinOption = &o
	}
	if m.gameOver != nil {
		g := *m.gameOver
		s.GameOver = &g
	}
	return s
}
