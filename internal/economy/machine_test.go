package economy

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/QuotaPit_Go/internal/domain"
	"github.com/osse101/QuotaPit_Go/internal/slots"
)

func newTestMachine(t *testing.T, rules Rules) (*Machine, *MockSpinResolver) {
	t.Helper()
	resolver := new(MockSpinResolver)
	m, err := NewMachine(rules, resolver)
	require.NoError(t, err)
	return m, resolver
}

// playNoOps spends n round actions on free bundles without spins
func playNoOps(t *testing.T, m *Machine, n int) *domain.ActionResult {
	t.Helper()
	var res *domain.ActionResult
	for i := 0; i < n; i++ {
		var err error
		res, err = m.SelectSpinOption(0, 0, 0)
		require.NoError(t, err)
	}
	return res
}

func TestNewMachine_InitialState(t *testing.T) {
	m, _ := newTestMachine(t, DefaultRules())

	s := m.State()
	assert.Equal(t, 50, s.Coins)
	assert.Zero(t, s.CloverTickets)
	assert.Zero(t, s.DepositedMoney)
	assert.Equal(t, "0.00", s.DepositedDisplay)
	assert.Zero(t, s.Principal)
	assert.Equal(t, 1, s.Round)
	assert.Equal(t, 3, s.RoundsRemaining)
	assert.Equal(t, 20, s.CurrentQuota)
	assert.Zero(t, s.QuotaDeposit)
	assert.Nil(t, s.SpinOption)
	assert.Equal(t, domain.PhaseIdle, s.Phase)
	assert.False(t, s.ControlsDisabled)
	assert.False(t, s.IsOver())
	assert.Nil(t, m.GameOver())
}

func TestNewMachine_Validation(t *testing.T) {
	_, err := NewMachine(DefaultRules(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRules)

	rules := DefaultRules()
	rules.QuotaGrowth = 0.5
	_, err = NewMachine(rules, new(MockSpinResolver))
	assert.ErrorIs(t, err, domain.ErrInvalidRules)
}

func TestScenario_QuotaFailedWithNoDeposits(t *testing.T) {
	m, resolver := newTestMachine(t, DefaultRules())
	resolver.On("ResolveSpin", mock.Anything).Return(losingSpin())

	for i := 0; i < 2; i++ {
		_, err := m.SelectSpinOption(3, 1, 0)
		require.NoError(t, err)
		_, err = m.ExecuteSpin()
		require.NoError(t, err)
	}

	res, err := m.SelectSpinOption(3, 1, 0)
	require.NoError(t, err)

	require.NotNil(t, res.Settlement)
	assert.False(t, res.Settlement.Success)
	assert.Equal(t, 0, res.Settlement.Deposit)
	assert.Equal(t, 20, res.Settlement.Quota)

	over := m.GameOver()
	require.NotNil(t, over)
	assert.Equal(t, domain.CauseQuotaFailed, over.Cause)
	assert.Contains(t, over.Reason, "0 of 20")
	assert.Equal(t, 1, over.RoundsSurvived)
	assert.Zero(t, over.FinalDeposit)
	assert.Equal(t, "Quota FAILED! Deposited 0 of 20. You survived 1 rounds. Total Deposit: 0.00", over.Summary)

	assert.Equal(t, 41, res.State.Coins)
	assert.Equal(t, domain.PhaseGameOver, res.State.Phase)
	resolver.AssertNumberOfCalls(t, "ResolveSpin", 2)
}

func TestScenario_DepositMeetsQuota(t *testing.T) {
	m, resolver := newTestMachine(t, DefaultRules())

	res, err := m.Deposit(20)
	require.NoError(t, err)
	assert.Equal(t, "Successfully deposited 20 coins. Quota progress: 20/20.", res.Message)
	assert.Equal(t, 3, res.State.RoundsRemaining, "deposits are free actions")

	res = playNoOps(t, m, 3)

	require.NotNil(t, res.Settlement)
	assert.True(t, res.Settlement.Success)
	assert.Equal(t, 30, res.Settlement.NewQuota)
	assert.InDelta(t, 0.8, res.Settlement.Interest, 1e-9)
	assert.Contains(t, res.Message, "Quota SUCCESS! New Quota: 30. Earned 0.80 interest on deposit.")

	s := m.State()
	assert.Equal(t, 30, s.CurrentQuota)
	assert.InDelta(t, 20.80, s.DepositedMoney, 1e-9)
	assert.Equal(t, "20.80", s.DepositedDisplay)
	assert.InDelta(t, 20.0, s.Principal, 1e-9)
	assert.Equal(t, 2, s.Round)
	assert.Equal(t, 3, s.RoundsRemaining)
	assert.Zero(t, s.QuotaDeposit)
	assert.Equal(t, 30, s.Coins)
	assert.False(t, s.IsOver())
	resolver.AssertNotCalled(t, "ResolveSpin", mock.Anything)
}

func TestScenario_BankruptcyAfterSpinLoss(t *testing.T) {
	m, resolver := newTestMachine(t, DefaultRules())
	resolver.On("ResolveSpin", 47).Return(penaltySpin(45))

	_, err := m.SelectOffer(OfferSingle)
	require.NoError(t, err)

	res, err := m.ExecuteSpin()
	require.NoError(t, err)
	assert.Equal(t, 2, res.State.Coins)
	assert.Equal(t, 2, res.State.RoundsRemaining)
	assert.Contains(t, res.Message, MsgBankrupt)

	s := m.State()
	require.NotNil(t, s.GameOver)
	assert.Equal(t, domain.CauseBankruptcy, s.GameOver.Cause)
	assert.Equal(t, "You are bankrupt. You survived 1 rounds. Total Deposit: 0.00", s.GameOver.Summary)

	_, err = m.Deposit(1)
	assert.ErrorIs(t, err, domain.ErrGameOver)
}

func TestState_DetectsBankruptcy(t *testing.T) {
	rules := DefaultRules()
	rules.StartingCoins = 2
	m, _ := newTestMachine(t, rules)

	s := m.State()

	require.True(t, s.IsOver())
	assert.Equal(t, domain.CauseBankruptcy, s.GameOver.Cause)
	assert.Equal(t, domain.PhaseGameOver, s.Phase)

	_, err := m.SelectSpinOption(0, 0, 0)
	assert.ErrorIs(t, err, domain.ErrGameOver)
}

func TestQuotaMonotonicity(t *testing.T) {
	rules := DefaultRules()
	rules.StartingCoins = 1000
	m, _ := newTestMachine(t, rules)

	var quotas []int
	for i := 0; i < 5; i++ {
		_, err := m.Deposit(m.State().CurrentQuota)
		require.NoError(t, err)
		playNoOps(t, m, 3)
		quotas = append(quotas, m.State().CurrentQuota)
	}

	assert.Equal(t, []int{30, 45, 68, 102, 153}, quotas)
	assert.Equal(t, 6, m.State().Round)
}

func TestWithdrawInterest(t *testing.T) {
	rules := DefaultRules()
	rules.InterestRate = 0.10
	m, _ := newTestMachine(t, rules)

	_, err := m.Deposit(25)
	require.NoError(t, err)

	_, err = m.WithdrawInterest()
	assert.ErrorIs(t, err, domain.ErrNoInterest, "no interest before the round settles")

	playNoOps(t, m, 3)
	before := m.State()
	assert.Equal(t, 2, before.Interest)
	assert.Equal(t, "27.50", before.DepositedDisplay)

	res, err := m.WithdrawInterest()
	require.NoError(t, err)
	assert.Equal(t, "Withdrew 2 coins of interest.", res.Message)
	assert.Equal(t, before.Coins+2, res.State.Coins)
	assert.Equal(t, "25.50", res.State.DepositedDisplay)
	assert.InDelta(t, 25.5, res.State.Principal, 1e-9)
	assert.Zero(t, res.State.Interest)
	assert.Equal(t, before.RoundsRemaining, res.State.RoundsRemaining)

	_, err = m.WithdrawInterest()
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoInterest)
	assert.Contains(t, err.Error(), "interest < 1")
}

func TestRoundActionAccounting(t *testing.T) {
	m, resolver := newTestMachine(t, DefaultRules())
	resolver.On("ResolveSpin", mock.Anything).Return(losingSpin())

	res, err := m.SelectOffer(OfferMarathon)
	require.NoError(t, err)
	assert.Equal(t, 2, res.State.RoundsRemaining)
	assert.Equal(t, 2, res.State.CloverTickets)
	require.NotNil(t, res.State.SpinOption)
	assert.Equal(t, 7, res.State.SpinOption.SpinsLeft)

	for i := 0; i < 7; i++ {
		res, err = m.ExecuteSpin()
		require.NoError(t, err)
		assert.Equal(t, 2, res.State.RoundsRemaining, "spins never consume round actions")
	}
	assert.Nil(t, res.State.SpinOption, "exhausted option is cleared")

	_, err = m.Deposit(5)
	require.NoError(t, err)
	assert.Equal(t, 2, m.State().RoundsRemaining)

	_, err = m.ExecuteSpin()
	assert.ErrorIs(t, err, domain.ErrNoSpinOption)

	res, err = m.SelectOffer(OfferSingle)
	require.NoError(t, err)
	assert.Equal(t, 1, res.State.RoundsRemaining)
	resolver.AssertNumberOfCalls(t, "ResolveSpin", 7)
}

func TestSettlement_OnFinalPurchaseDiscardsUnplayedSpins(t *testing.T) {
	m, resolver := newTestMachine(t, DefaultRules())
	resolver.On("ResolveSpin", mock.Anything).Return(losingSpin())

	_, err := m.Deposit(20)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = m.SelectOffer(OfferSingle)
		require.NoError(t, err)
		_, err = m.ExecuteSpin()
		require.NoError(t, err)
	}

	res, err := m.SelectOffer(OfferTriple)
	require.NoError(t, err)
	require.NotNil(t, res.Settlement)
	assert.True(t, res.Settlement.Success)
	assert.Nil(t, res.State.SpinOption)
	assert.Equal(t, 2, res.State.Round)
	assert.Equal(t, 17, res.State.Coins)
	assert.Equal(t, "Bought 3 spins for 7 coins. | Quota SUCCESS! New Quota: 30. Earned 0.80 interest on deposit.", res.Message)

	_, err = m.ExecuteSpin()
	assert.ErrorIs(t, err, domain.ErrNoSpinOption)
}

func TestSettlement_DeferredUntilSpinsExhausted(t *testing.T) {
	rules := DefaultRules()
	rules.SettleOnFinalPurchase = false
	m, resolver := newTestMachine(t, rules)
	resolver.On("ResolveSpin", mock.Anything).Return(losingSpin())

	_, err := m.Deposit(20)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = m.SelectOffer(OfferSingle)
		require.NoError(t, err)
		_, err = m.ExecuteSpin()
		require.NoError(t, err)
	}

	res, err := m.SelectOffer(OfferTriple)
	require.NoError(t, err)
	assert.Nil(t, res.Settlement)
	assert.Zero(t, res.State.RoundsRemaining)
	require.NotNil(t, res.State.SpinOption)

	for i := 0; i < 2; i++ {
		res, err = m.ExecuteSpin()
		require.NoError(t, err)
		assert.Nil(t, res.Settlement)
		assert.Equal(t, 1, res.State.Round)
	}

	res, err = m.ExecuteSpin()
	require.NoError(t, err)
	require.NotNil(t, res.Settlement)
	assert.True(t, res.Settlement.Success)
	assert.Equal(t, 2, res.State.Round)
	assert.Equal(t, 3, res.State.RoundsRemaining)
	assert.Nil(t, res.State.SpinOption)
}

func TestSettlement_DeferredZeroSpinOptionSettlesAtOnce(t *testing.T) {
	rules := DefaultRules()
	rules.SettleOnFinalPurchase = false
	m, _ := newTestMachine(t, rules)

	res := playNoOps(t, m, 3)

	require.NotNil(t, res.Settlement)
	assert.False(t, res.Settlement.Success)
	assert.True(t, res.State.IsOver())
}

func TestTwoPhaseSpin(t *testing.T) {
	m, resolver := newTestMachine(t, DefaultRules())
	resolver.On("ResolveSpin", 47).Return(winningSpin(6))

	_, err := m.SelectOffer(OfferSingle)
	require.NoError(t, err)

	begun, err := m.BeginSpin()
	require.NoError(t, err)
	require.NotNil(t, begun.Outcome)
	assert.Equal(t, 6, begun.Outcome.Gain)
	assert.Equal(t, domain.PhaseResolving, begun.State.Phase)
	assert.True(t, begun.State.ControlsDisabled)
	assert.Equal(t, 47, begun.State.Coins, "outcome is not applied until completion")
	assert.Equal(t, 0, begun.State.SpinOption.SpinsLeft)

	locked := []func() error{
		func() error { _, err := m.Deposit(1); return err },
		func() error { _, err := m.WithdrawInterest(); return err },
		func() error { _, err := m.SelectOffer(OfferSingle); return err },
		func() error { _, err := m.BeginSpin(); return err },
		func() error { _, err := m.ExecuteSpin(); return err },
	}
	for _, action := range locked {
		assert.ErrorIs(t, action(), domain.ErrResolving)
	}
	assert.True(t, m.State().ControlsDisabled)

	done, err := m.CompleteSpin()
	require.NoError(t, err)
	assert.Equal(t, 53, done.State.Coins)
	assert.Equal(t, domain.PhaseSettled, done.State.Phase)
	assert.False(t, done.State.ControlsDisabled)
	assert.Nil(t, done.State.SpinOption)

	_, err = m.CompleteSpin()
	assert.ErrorIs(t, err, domain.ErrNotResolving)
}

func TestCoinsNeverNegative(t *testing.T) {
	m, resolver := newTestMachine(t, DefaultRules())
	resolver.On("ResolveSpin", mock.Anything).Return(penaltySpin(1000))

	_, err := m.SelectOffer(OfferSingle)
	require.NoError(t, err)
	res, err := m.ExecuteSpin()
	require.NoError(t, err)

	assert.Zero(t, res.State.Coins)
	assert.True(t, res.State.IsOver())
}

func TestCoinsNeverNegative_RandomActionSequences(t *testing.T) {
	harsh := slots.DefaultRules()
	harsh.PenaltyChance = 0.5
	harsh.PenaltyRate = 0.9
	harsh.MinPenalty = 5

	deferred := DefaultRules()
	deferred.SettleOnFinalPurchase = false

	tests := []struct {
		name    string
		slots   slots.Rules
		economy Rules
	}{
		{"default rules", slots.DefaultRules(), DefaultRules()},
		{"harsh penalties", harsh, DefaultRules()},
		{"harsh penalties with deferred settlement", harsh, deferred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(1); seed <= 40; seed++ {
				playRandomGame(t, seed, tt.slots, tt.economy)
			}
		})
	}
}

// playRandomGame throws random, often illegal, actions at a machine driven by a
// seeded engine and checks the balance after every one of them
func playRandomGame(t *testing.T, seed uint64, slotRules slots.Rules, rules Rules) {
	t.Helper()
	engine, err := slots.NewEngine(slotRules, slots.NewSeededRNG(seed))
	require.NoError(t, err)
	m, err := NewMachine(rules, engine)
	require.NoError(t, err)

	r := rand.New(rand.NewPCG(seed, 0))
	offerIDs := []string{"unknown"}
	for _, o := range rules.Offers {
		offerIDs = append(offerIDs, o.ID)
	}

	for step := 0; step < 400 && !m.State().IsOver(); step++ {
		coins := m.State().Coins

		var res *domain.ActionResult
		switch r.IntN(5) {
		case 0:
			res, err = m.SelectOffer(offerIDs[r.IntN(len(offerIDs))])
		case 1:
			res, err = m.SelectSpinOption(r.IntN(coins+6), r.IntN(6), r.IntN(3))
		case 2, 3:
			res, err = m.ExecuteSpin()
		default:
			if r.IntN(2) == 0 {
				res, err = m.Deposit(r.IntN(coins+4) - 2)
			} else {
				res, err = m.WithdrawInterest()
			}
		}

		if err != nil {
			var actionErr *domain.ActionError
			require.ErrorAs(t, err, &actionErr, "seed %d step %d", seed, step)
		} else {
			require.GreaterOrEqual(t, res.State.Coins, 0, "seed %d step %d", seed, step)
		}
		require.GreaterOrEqual(t, m.State().Coins, 0, "seed %d step %d", seed, step)
	}
}

func TestRejectedActions_LeaveStateUnchanged(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(*Machine)
		action  func(*Machine) error
		wantErr error
		wantMsg string
	}{
		{
			name:    "insufficient coins",
			action:  func(m *Machine) error { _, err := m.SelectSpinOption(51, 1, 0); return err },
			wantErr: domain.ErrInsufficientFunds,
			wantMsg: MsgInsufficientCoins,
		},
		{
			name:    "negative spin option",
			action:  func(m *Machine) error { _, err := m.SelectSpinOption(3, -1, 0); return err },
			wantErr: domain.ErrInvalidInput,
			wantMsg: MsgInvalidSpinOption,
		},
		{
			name:    "option already active",
			prepare: func(m *Machine) { _, _ = m.SelectOffer(OfferTriple) },
			action:  func(m *Machine) error { _, err := m.SelectOffer(OfferSingle); return err },
			wantErr: domain.ErrSpinOptionActive,
			wantMsg: MsgSpinOptionActive,
		},
		{
			name:    "spin without option",
			action:  func(m *Machine) error { _, err := m.ExecuteSpin(); return err },
			wantErr: domain.ErrNoSpinOption,
			wantMsg: MsgNoSpinOption,
		},
		{
			name:    "complete without begin",
			action:  func(m *Machine) error { _, err := m.CompleteSpin(); return err },
			wantErr: domain.ErrNotResolving,
			wantMsg: MsgNotResolving,
		},
		{
			name:    "zero deposit",
			action:  func(m *Machine) error { _, err := m.Deposit(0); return err },
			wantErr: domain.ErrInvalidInput,
			wantMsg: MsgInvalidDeposit,
		},
		{
			name:    "deposit above balance",
			action:  func(m *Machine) error { _, err := m.Deposit(51); return err },
			wantErr: domain.ErrInsufficientFunds,
			wantMsg: MsgDepositExceedsCoins,
		},
		{
			name:    "withdraw without interest",
			prepare: func(m *Machine) { _, _ = m.Deposit(10) },
			action:  func(m *Machine) error { _, err := m.WithdrawInterest(); return err },
			wantErr: domain.ErrNoInterest,
			wantMsg: MsgNoInterest,
		},
		{
			name:    "unknown offer",
			action:  func(m *Machine) error { _, err := m.SelectOffer("jackpot"); return err },
			wantErr: domain.ErrUnknownOffer,
			wantMsg: `Unknown spin option "jackpot".`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestMachine(t, DefaultRules())
			if tt.prepare != nil {
				tt.prepare(m)
			}
			before := m.State()

			err := tt.action(m)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantMsg, err.Error())
			assert.Equal(t, before, m.State())
		})
	}
}

func TestGameOver_RefusesEveryAction(t *testing.T) {
	m, _ := newTestMachine(t, DefaultRules())
	playNoOps(t, m, 3)
	require.NotNil(t, m.GameOver())

	actions := map[string]func() error{
		"select":   func() error { _, err := m.SelectSpinOption(0, 0, 0); return err },
		"offer":    func() error { _, err := m.SelectOffer(OfferSingle); return err },
		"begin":    func() error { _, err := m.BeginSpin(); return err },
		"complete": func() error { _, err := m.CompleteSpin(); return err },
		"spin":     func() error { _, err := m.ExecuteSpin(); return err },
		"deposit":  func() error { _, err := m.Deposit(1); return err },
		"withdraw": func() error { _, err := m.WithdrawInterest(); return err },
	}
	for name, action := range actions {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, action(), domain.ErrGameOver)
		})
	}
}

func TestGameOver_ReturnsCopy(t *testing.T) {
	m, _ := newTestMachine(t, DefaultRules())
	playNoOps(t, m, 3)

	over := m.GameOver()
	require.NotNil(t, over)
	over.Reason = "changed"

	assert.NotEqual(t, "changed", m.GameOver().Reason)
}
