package simulation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/QuotaPit_Go/internal/config"
	"github.com/osse101/QuotaPit_Go/internal/domain"
	"github.com/osse101/QuotaPit_Go/internal/economy"
	"github.com/osse101/QuotaPit_Go/internal/testing/leaktest"
)

func TestRun_SameSeedSameReport(t *testing.T) {
	params := Params{Games: 40, Seed: 7, Concurrency: 1, Rules: config.DefaultGameRules()}

	serial, err := Run(context.Background(), params)
	require.NoError(t, err)

	params.Concurrency = 8
	parallel, err := Run(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, serial.Results, parallel.Results)
	assert.Equal(t, serial.Rounds, parallel.Rounds)
	assert.Equal(t, serial.Causes, parallel.Causes)
	assert.Equal(t, serial.RTP, parallel.RTP)
}

func TestRun_EveryGameEnds(t *testing.T) {
	for _, strategy := range []string{StrategyCheapest, StrategyRichest} {
		t.Run(strategy, func(t *testing.T) {
			report, err := Run(context.Background(), Params{
				Games:     25,
				Seed:      99,
				Strategy:  strategy,
				MaxRounds: 50,
				Rules:     config.DefaultGameRules(),
			})
			require.NoError(t, err)

			require.Len(t, report.Results, 25)
			total := 0
			for cause, n := range report.Causes {
				assert.Contains(t, []domain.GameOverCause{
					domain.CauseBankruptcy, domain.CauseQuotaFailed, CauseRoundLimit, CauseStalled,
				}, cause)
				total += n
			}
			assert.Equal(t, 25, total)

			for i, r := range report.Results {
				assert.Equal(t, uint64(99+i), r.Seed)
				assert.GreaterOrEqual(t, r.RoundsSurvived, 1)
				assert.LessOrEqual(t, r.RoundsSurvived, 50)
				assert.Positive(t, r.Purchases)
			}
			assert.Positive(t, report.Wagered)
			assert.InDelta(t, float64(report.Gain)/float64(report.Wagered), report.RTP, 1e-9)
		})
	}
}

func TestRun_DifferentSeedsDiffer(t *testing.T) {
	a, err := Run(context.Background(), Params{Games: 30, Seed: 1, Rules: config.DefaultGameRules()})
	require.NoError(t, err)
	b, err := Run(context.Background(), Params{Games: 30, Seed: 1000, Rules: config.DefaultGameRules()})
	require.NoError(t, err)

	assert.NotEqual(t, a.Results, b.Results)
}

func TestRun_StopsAllWorkers(t *testing.T) {
	leaktest.Verify(t, func() {
		_, err := Run(context.Background(), Params{Games: 50, Concurrency: 16, Rules: config.DefaultGameRules()})
		require.NoError(t, err)
	})
}

func TestRun_InvalidParams(t *testing.T) {
	rules := config.DefaultGameRules()
	noOffers := config.DefaultGameRules()
	noOffers.Economy.Offers = nil

	tests := []struct {
		name   string
		params Params
	}{
		{"negative games", Params{Games: -1, Rules: rules}},
		{"negative concurrency", Params{Concurrency: -2, Rules: rules}},
		{"unknown strategy", Params{Strategy: "martingale", Rules: rules}},
		{"no offers", Params{Rules: noOffers}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := Run(context.Background(), tt.params)
			assert.Error(t, err)
			assert.Nil(t, report)
		})
	}
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Params{Games: 5, Rules: config.DefaultGameRules()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestChooseOffer(t *testing.T) {
	rules := economy.DefaultRules()

	tests := []struct {
		name     string
		strategy string
		state    domain.EconomyState
		wantID   string
		wantOK   bool
	}{
		{
			name:     "cheapest picks single",
			strategy: StrategyCheapest,
			state:    domain.EconomyState{Coins: 50, RoundsRemaining: 3, CurrentQuota: 10},
			wantID:   economy.OfferSingle,
			wantOK:   true,
		},
		{
			name:     "richest spends what the quota leaves",
			strategy: StrategyRichest,
			state:    domain.EconomyState{Coins: 50, RoundsRemaining: 3, CurrentQuota: 10},
			wantID:   economy.OfferMarathon,
			wantOK:   true,
		},
		{
			name:     "richest keeps the quota reachable",
			strategy: StrategyRichest,
			state:    domain.EconomyState{Coins: 22, RoundsRemaining: 2, CurrentQuota: 10},
			wantID:   economy.OfferTriple,
			wantOK:   true,
		},
		{
			name:     "richest takes cheapest on final action",
			strategy: StrategyRichest,
			state:    domain.EconomyState{Coins: 50, RoundsRemaining: 1, CurrentQuota: 10},
			wantID:   economy.OfferSingle,
			wantOK:   true,
		},
		{
			name:     "nothing affordable",
			strategy: StrategyCheapest,
			state:    domain.EconomyState{Coins: 2, RoundsRemaining: 3},
			wantOK:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer, ok := chooseOffer(tt.strategy, rules, tt.state)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantID, offer.ID)
			}
		})
	}
}

func TestQuotaTopUp(t *testing.T) {
	single := economy.Offer{ID: economy.OfferSingle, Cost: 3, Spins: 1}

	tests := []struct {
		name  string
		state domain.EconomyState
		want  int
	}{
		{"not the final action", domain.EconomyState{Coins: 50, RoundsRemaining: 2, CurrentQuota: 10}, 0},
		{"covers the quota", domain.EconomyState{Coins: 50, RoundsRemaining: 1, CurrentQuota: 10, QuotaDeposit: 4}, 6},
		{"short of coins", domain.EconomyState{Coins: 8, RoundsRemaining: 1, CurrentQuota: 10}, 5},
		{"quota already met", domain.EconomyState{Coins: 50, RoundsRemaining: 1, CurrentQuota: 10, QuotaDeposit: 12}, 0},
		{"cannot pay the offer", domain.EconomyState{Coins: 2, RoundsRemaining: 1, CurrentQuota: 10}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quotaTopUp(tt.state, single))
		})
	}
}
