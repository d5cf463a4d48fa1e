package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/QuotaPit_Go/internal/concurrency"
	"github.com/osse101/QuotaPit_Go/internal/config"
	"github.com/osse101/QuotaPit_Go/internal/domain"
	"github.com/osse101/QuotaPit_Go/internal/economy"
	"github.com/osse101/QuotaPit_Go/internal/event"
	"github.com/osse101/QuotaPit_Go/internal/logger"
	"github.com/osse101/QuotaPit_Go/internal/metrics"
	"github.com/osse101/QuotaPit_Go/internal/slots"
)

// Publisher delivers game events without failing the caller
type Publisher interface {
	PublishWithRetry(ctx context.Context, evt event.Event)
}

// Service runs many independent games, one economy machine per session
type Service interface {
	Rules() config.GameRules

	Create(ctx context.Context) (*domain.ActionResult, error)
	State(ctx context.Context, id string) (domain.EconomyState, error)
	SelectOffer(ctx context.Context, id, offerID string) (*domain.ActionResult, error)
	SelectSpinOption(ctx context.Context, id string, cost, spins, tickets int) (*domain.ActionResult, error)
	Spin(ctx context.Context, id string) (*domain.ActionResult, error)
	Deposit(ctx context.Context, id string, amount int) (*domain.ActionResult, error)
	WithdrawInterest(ctx context.Context, id string) (*domain.ActionResult, error)
	End(ctx context.Context, id string) error

	// Lifecycle
	CheckHealth(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Option customizes a service
type Option func(*service)

// WithRandomSource makes every new game draw from the source built by factory
func WithRandomSource(factory func() slots.RandomSource) Option {
	return func(s *service) {
		s.newRNG = factory
	}
}

// WithIDGenerator replaces the UUID session IDs
func WithIDGenerator(gen func() string) Option {
	return func(s *service) {
		s.newID = gen
	}
}

// game is one session. Its fields are guarded by the session lock.
type game struct {
	id            string
	machine       *economy.Machine
	overPublished bool
}

type service struct {
	rules     config.GameRules
	sessions  *expirable.LRU[string, *game]
	locks     *concurrency.LockManager
	publisher Publisher
	newRNG    func() slots.RandomSource
	newID     func() string
	closed    atomic.Bool
}

// NewService creates a session service. The rules are checked once up front so
// Create can only fail on exhausted resources.
func NewService(rules config.GameRules, size int, ttl time.Duration, publisher Publisher, opts ...Option) (Service, error) {
	if _, err := slots.NewEngine(rules.Slots, slots.DefaultRNG()); err != nil {
		return nil, fmt.Errorf(ErrMsgBuildEngineFmt, err)
	}
	if err := rules.Economy.Validate(); err != nil {
		return nil, fmt.Errorf(ErrMsgBuildMachineFmt, err)
	}

	s := &service{
		rules:     rules,
		locks:     concurrency.NewLockManager(),
		publisher: publisher,
		newRNG:    slots.DefaultRNG,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	// The expirable LRU runs its own expiry goroutine for the life of the process.
	// Every access renews a game's entry, so ttl acts as an idle timeout.
	s.sessions = expirable.NewLRU[string, *game](size, s.onEvict, ttl)
	return s, nil
}

func (s *service) onEvict(id string, _ *game) {
	metrics.ActiveSessions.Dec()
	slog.Debug(LogMsgSessionEvicted, logger.AttrKeyGameID, id)
}

// Rules returns the rule set every new game is built from
func (s *service) Rules() config.GameRules {
	return s.rules
}

// Create starts a new game
func (s *service) Create(ctx context.Context) (*domain.ActionResult, error) {
	log := logger.FromContext(ctx)

	engine, err := slots.NewEngine(s.rules.Slots, s.newRNG())
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBuildEngineFmt, err)
	}
	machine, err := economy.NewMachine(s.rules.Economy, engine)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgBuildMachineFmt, err)
	}

	g := &game{id: s.newID(), machine: machine}
	state := machine.State()

	s.sessions.Add(g.id, g)
	metrics.ActiveSessions.Inc()
	log.Info(LogMsgGameCreated, logger.AttrKeyGameID, g.id, "coins", state.Coins, "quota", state.CurrentQuota)

	events := []event.Event{event.NewGameCreatedEvent(g.id, state)}
	if state.GameOver != nil {
		g.overPublished = true
		events = append(events, event.NewGameOverEvent(g.id, *state.GameOver))
	}
	s.publish(ctx, events)

	return &domain.ActionResult{
		GameID:  g.id,
		Message: economy.MsgWelcome,
		State:   state,
	}, nil
}

// State returns the current snapshot. Reading state may end a bankrupt game.
func (s *service) State(ctx context.Context, id string) (domain.EconomyState, error) {
	g, err := s.get(ctx, id)
	if err != nil {
		return domain.EconomyState{}, err
	}

	var state domain.EconomyState
	var events []event.Event
	err = s.locks.WithLock(id, func() error {
		if !s.touch(g) {
			return fmt.Errorf(ErrMsgSessionNotFoundFmt, domain.ErrSessionNotFound, id)
		}
		state = g.machine.State()
		events = s.gameOverEvent(g, state)
		return nil
	})
	if err != nil {
		return domain.EconomyState{}, err
	}

	s.publish(ctx, events)
	return state, nil
}

// SelectOffer buys a configured spin bundle
func (s *service) SelectOffer(ctx context.Context, id, offerID string) (*domain.ActionResult, error) {
	return s.act(ctx, id, ActionSelectOffer,
		func(m *economy.Machine) (*domain.ActionResult, error) {
			return m.SelectOffer(offerID)
		},
		func(res *domain.ActionResult) event.Event {
			o, _ := s.rules.Economy.Offer(offerID)
			return event.NewOptionSelectedEvent(id, o.Cost, o.Spins, o.Tickets, res.State.Coins)
		})
}

// SelectSpinOption buys an arbitrary spin bundle
func (s *service) SelectSpinOption(ctx context.Context, id string, cost, spins, tickets int) (*domain.ActionResult, error) {
	return s.act(ctx, id, ActionSelectSpinOption,
		func(m *economy.Machine) (*domain.ActionResult, error) {
			return m.SelectSpinOption(cost, spins, tickets)
		},
		func(res *domain.ActionResult) event.Event {
			return event.NewOptionSelectedEvent(id, cost, spins, tickets, res.State.Coins)
		})
}

// Spin plays one spin of the active option
func (s *service) Spin(ctx context.Context, id string) (*domain.ActionResult, error) {
	return s.act(ctx, id, ActionSpin,
		func(m *economy.Machine) (*domain.ActionResult, error) {
			return m.ExecuteSpin()
		},
		func(res *domain.ActionResult) event.Event {
			return event.NewSpinResolvedEvent(id, *res.Outcome, res.State.Coins)
		})
}

// Deposit moves coins toward the quota
func (s *service) Deposit(ctx context.Context, id string, amount int) (*domain.ActionResult, error) {
	return s.act(ctx, id, ActionDeposit,
		func(m *economy.Machine) (*domain.ActionResult, error) {
			return m.Deposit(amount)
		},
		func(res *domain.ActionResult) event.Event {
			return event.NewDepositEvent(id, res.Amount, res.State.QuotaDeposit, res.State.CurrentQuota)
		})
}

// WithdrawInterest moves accrued interest back to the wallet
func (s *service) WithdrawInterest(ctx context.Context, id string) (*domain.ActionResult, error) {
	return s.act(ctx, id, ActionWithdrawInterest,
		func(m *economy.Machine) (*domain.ActionResult, error) {
			return m.WithdrawInterest()
		},
		func(res *domain.ActionResult) event.Event {
			return event.NewInterestWithdrawnEvent(id, res.Amount, res.State.Coins)
		})
}

// End discards a session
func (s *service) End(ctx context.Context, id string) error {
	var removed bool
	_ = s.locks.WithLock(id, func() error {
		removed = s.sessions.Remove(id)
		return nil
	})
	if !removed {
		logger.FromContext(ctx).Debug(LogMsgSessionNotFound, logger.AttrKeyGameID, id)
		return fmt.Errorf(ErrMsgSessionNotFoundFmt, domain.ErrSessionNotFound, id)
	}
	logger.FromContext(ctx).Info(LogMsgGameEnded, logger.AttrKeyGameID, id)
	return nil
}

// CheckHealth reports unhealthy once shutdown has begun
func (s *service) CheckHealth(_ context.Context) error {
	if s.closed.Load() {
		return errors.New(ErrMsgShuttingDown)
	}
	return nil
}

// Shutdown drops every session
func (s *service) Shutdown(ctx context.Context) error {
	s.closed.Store(true)
	n := s.sessions.Len()
	s.sessions.Purge()
	logger.FromContext(ctx).Info(LogMsgSessionsPurged, "sessions", n)
	return nil
}

func (s *service) get(ctx context.Context, id string) (*game, error) {
	g, ok := s.sessions.Get(id)
	if !ok {
		logger.FromContext(ctx).Debug(LogMsgSessionNotFound, logger.AttrKeyGameID, id)
		return nil, fmt.Errorf(ErrMsgSessionNotFoundFmt, domain.ErrSessionNotFound, id)
	}
	return g, nil
}

// touch restarts the idle timeout of g and reports whether g is still live.
// It must run under the session lock and never brings back a game that was
// ended or expired while the caller waited for the lock.
func (s *service) touch(g *game) bool {
	cur, ok := s.sessions.Peek(g.id)
	if !ok || cur != g {
		return false
	}
	s.sessions.Add(g.id, g)
	return true
}

// act runs one machine action under the session lock, then publishes the
// events it produced once the lock is released
func (s *service) act(
	ctx context.Context,
	id, action string,
	fn func(*economy.Machine) (*domain.ActionResult, error),
	actionEvent func(*domain.ActionResult) event.Event,
) (*domain.ActionResult, error) {
	log := logger.FromContext(ctx)

	g, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	var res *domain.ActionResult
	var events []event.Event
	err = s.locks.WithLock(id, func() error {
		if !s.touch(g) {
			return fmt.Errorf(ErrMsgSessionNotFoundFmt, domain.ErrSessionNotFound, id)
		}
		r, err := fn(g.machine)
		if err != nil {
			return err
		}
		r.GameID = id
		res = r

		events = append(events, actionEvent(r))
		if r.Settlement != nil && r.Settlement.Success {
			events = append(events, event.NewRoundSettledEvent(id, *r.Settlement))
		}
		events = append(events, s.gameOverEvent(g, r.State)...)
		return nil
	})
	if err != nil {
		var actionErr *domain.ActionError
		switch {
		case errors.As(err, &actionErr):
			log.Debug(LogMsgActionRejected, logger.AttrKeyGameID, id, "action", action, "reason", actionErr.Message)
		case errors.Is(err, domain.ErrSessionNotFound):
			log.Debug(LogMsgSessionNotFound, logger.AttrKeyGameID, id)
		default:
			log.Error(LogMsgActionFailed, logger.AttrKeyGameID, id, "action", action, "error", err)
		}
		return nil, err
	}

	s.publish(ctx, events)
	return res, nil
}

// gameOverEvent returns the game.over event the first time a game is seen over
func (s *service) gameOverEvent(g *game, st domain.EconomyState) []event.Event {
	if st.GameOver == nil || g.overPublished {
		return nil
	}
	g.overPublished = true
	slog.Info(LogMsgGameOver,
		logger.AttrKeyGameID, g.id,
		"cause", st.GameOver.Cause,
		"rounds_survived", st.GameOver.RoundsSurvived)
	return []event.Event{event.NewGameOverEvent(g.id, *st.GameOver)}
}

func (s *service) publish(ctx context.Context, events []event.Event) {
	if s.publisher == nil || len(events) == 0 {
		return
	}
	logger.FromContext(ctx).Debug(LogMsgEventsPublishing, "count", len(events))
	for _, evt := range events {
		s.publisher.PublishWithRetry(ctx, evt)
	}
}
