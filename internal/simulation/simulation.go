// Package simulation plays many complete games with a fixed strategy to
// measure how a rule set behaves over time.
package simulation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/QuotaPit_Go/internal/config"
	"github.com/osse101/QuotaPit_Go/internal/domain"
	"github.com/osse101/QuotaPit_Go/internal/economy"
	"github.com/osse101/QuotaPit_Go/internal/logger"
	"github.com/osse101/QuotaPit_Go/internal/slots"
)

// Params configures a simulation run. Zero values fall back to the defaults.
type Params struct {
	Games       int
	Seed        uint64
	Concurrency int
	Strategy    string
	MaxRounds   int
	Rules       config.GameRules
}

// GameResult is the record of one simulated game
type GameResult struct {
	Seed           uint64               `json:"seed"`
	Cause          domain.GameOverCause `json:"cause"`
	RoundsSurvived int                  `json:"rounds_survived"`
	Purchases      int                  `json:"purchases"`
	Spins          int                  `json:"spins"`
	Penalties      int                  `json:"penalties"`
	Wagered        int                  `json:"wagered"` // Coins spent on spin bundles
	Gain           int                  `json:"gain"`
	Loss           int                  `json:"loss"`
	FinalDeposit   float64              `json:"final_deposit"`
}

// Report aggregates a simulation run
type Report struct {
	Games     int                          `json:"games"`
	Seed      uint64                       `json:"seed"`
	Strategy  string                       `json:"strategy"`
	Rounds    Stats                        `json:"rounds_survived"`
	Causes    map[domain.GameOverCause]int `json:"causes"`
	Purchases int                          `json:"purchases"`
	Spins     int                          `json:"spins"`
	Penalties int                          `json:"penalties"`
	Wagered   int                          `json:"wagered"`
	Gain      int                          `json:"gain"`
	Loss      int                          `json:"loss"`
	RTP       float64                      `json:"rtp"` // Total spin gain per coin spent on bundles
	Elapsed   time.Duration                `json:"elapsed"`
	Results   []GameResult                 `json:"-"`
}

func (p Params) withDefaults() Params {
	if p.Games == 0 {
		p.Games = DefaultGames
	}
	if p.Concurrency == 0 {
		p.Concurrency = DefaultConcurrency
	}
	if p.Strategy == "" {
		p.Strategy = StrategyCheapest
	}
	if p.MaxRounds <= 0 {
		p.MaxRounds = DefaultMaxRounds
	}
	return p
}

func (p Params) validate() error {
	if p.Games < 0 {
		return fmt.Errorf(ErrMsgInvalidGames, p.Games)
	}
	if p.Concurrency < 0 {
		return fmt.Errorf(ErrMsgInvalidConcurrency, p.Concurrency)
	}
	if p.Strategy != StrategyCheapest && p.Strategy != StrategyRichest {
		return fmt.Errorf(ErrMsgUnknownStrategy, p.Strategy)
	}
	if len(p.Rules.Economy.Offers) == 0 {
		return errors.New(ErrMsgNoOffers)
	}
	return nil
}

// Run plays Params.Games games, game i drawing from a source seeded with Seed+i.
// Results do not depend on Concurrency.
func Run(ctx context.Context, p Params) (*Report, error) {
	p = p.withDefaults()
	if err := p.validate(); err != nil {
		return nil, err
	}

	log := logger.FromContext(ctx)
	log.Info(LogMsgSimulationStarted, "games", p.Games, "seed", p.Seed, "strategy", p.Strategy, "concurrency", p.Concurrency)
	start := time.Now()

	results := make([]GameResult, p.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Concurrency)

	for i := range p.Games {
		g.Go(func() error {
			seed := p.Seed + uint64(i)
			res, err := playGame(gctx, p, seed)
			if err != nil {
				return fmt.Errorf(ErrMsgPlayGameFmt, i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := summarize(p, results)
	report.Elapsed = time.Since(start)
	log.Info(LogMsgSimulationFinished,
		"games", report.Games,
		"mean_rounds", report.Rounds.Mean,
		"rtp", report.RTP,
		"elapsed", report.Elapsed)
	return report, nil
}

// playGame drives one machine with the strategy until the game ends or hits the round cap
func playGame(ctx context.Context, p Params, seed uint64) (GameResult, error) {
	res := GameResult{Seed: seed}

	engine, err := slots.NewEngine(p.Rules.Slots, slots.NewSeededRNG(seed))
	if err != nil {
		return res, fmt.Errorf(ErrMsgBuildGameFmt, seed, err)
	}
	m, err := economy.NewMachine(p.Rules.Economy, engine)
	if err != nil {
		return res, fmt.Errorf(ErrMsgBuildGameFmt, seed, err)
	}
	rules := m.Rules()

	for {
		s := m.State()
		if over := s.GameOver; over != nil {
			res.Cause = over.Cause
			res.RoundsSurvived = over.RoundsSurvived
			res.FinalDeposit = over.FinalDeposit
			return res, nil
		}
		if s.Round > p.MaxRounds {
			res.Cause = CauseRoundLimit
			res.RoundsSurvived = p.MaxRounds
			res.FinalDeposit = s.DepositedMoney
			return res, nil
		}

		switch {
		case s.SpinOption != nil:
			out, err := m.ExecuteSpin()
			if err != nil {
				return res, err
			}
			res.Spins++
			if o := out.Outcome; o != nil {
				res.Gain += o.Gain
				res.Loss += o.Loss
				if o.Penalty {
					res.Penalties++
				}
			}

		case s.Interest >= 1:
			if _, err := m.WithdrawInterest(); err != nil {
				return res, err
			}

		default:
			if err := ctx.Err(); err != nil {
				return res, err
			}
			offer, ok := chooseOffer(p.Strategy, rules, s)
			if !ok {
				res.Cause = CauseStalled
				res.RoundsSurvived = s.Round
				res.FinalDeposit = s.DepositedMoney
				return res, nil
			}
			if amount := quotaTopUp(s, offer); amount > 0 {
				if _, err := m.Deposit(amount); err != nil {
					return res, err
				}
				continue
			}
			if _, err := m.SelectOffer(offer.ID); err != nil {
				return res, err
			}
			res.Purchases++
			res.Wagered += offer.Cost
		}
	}
}

// chooseOffer picks the next bundle. The last action of a round always takes the
// cheapest one so the coins go to the quota instead.
func chooseOffer(strategy string, rules economy.Rules, s domain.EconomyState) (economy.Offer, bool) {
	cheapest, ok := cheapestAffordable(rules.Offers, s.Coins)
	if !ok || strategy == StrategyCheapest || s.RoundsRemaining <= 1 {
		return cheapest, ok
	}

	// Keep enough back to still meet the quota on the final action
	budget := s.Coins - (s.CurrentQuota - s.QuotaDeposit) - cheapest.Cost
	best := cheapest
	for _, o := range rules.Offers {
		if o.Cost <= budget && o.Cost > best.Cost {
			best = o
		}
	}
	return best, true
}

func cheapestAffordable(offers []economy.Offer, coins int) (economy.Offer, bool) {
	var (
		best  economy.Offer
		found bool
	)
	for _, o := range offers {
		if o.Cost > coins {
			continue
		}
		if !found || o.Cost < best.Cost {
			best, found = o, true
		}
	}
	return best, found
}

// quotaTopUp is the deposit to make before the final purchase of a round:
// as much of the outstanding quota as the coins allow after paying for the offer
func quotaTopUp(s domain.EconomyState, offer economy.Offer) int {
	if s.RoundsRemaining != 1 {
		return 0
	}
	need := s.CurrentQuota - s.QuotaDeposit
	spare := s.Coins - offer.Cost
	return max(min(need, spare), 0)
}

func summarize(p Params, results []GameResult) *Report {
	report := &Report{
		Games:    len(results),
		Seed:     p.Seed,
		Strategy: p.Strategy,
		Causes:   make(map[domain.GameOverCause]int),
		Results:  results,
	}

	rounds := make([]int, 0, len(results))
	for _, r := range results {
		rounds = append(rounds, r.RoundsSurvived)
		report.Causes[r.Cause]++
		report.Purchases += r.Purchases
		report.Spins += r.Spins
		report.Penalties += r.Penalties
		report.Wagered += r.Wagered
		report.Gain += r.Gain
		report.Loss += r.Loss
	}
	report.Rounds = calcStats(rounds)
	if report.Wagered > 0 {
		report.RTP = float64(report.Gain) / float64(report.Wagered)
	}
	return report
}
