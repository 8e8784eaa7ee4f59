// Package resilience wraps outbound cross-service calls with a per-dependency
// circuit breaker. A breaker never substitutes responses itself: call sites
// declare their own read-only fallback when Execute reports ErrCircuitOpen or
// a transport failure.
package resilience

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"
)

var (
	// ErrCircuitOpen is returned without touching the network while the
	// breaker is cooling down.
	ErrCircuitOpen = errors.New("circuit open")
	// ErrProbeInFlight is returned when the single half-open trial slot is
	// already taken.
	ErrProbeInFlight = errors.New("half-open probe in flight")
)

// State is the breaker's position in its three-state machine.
type State int32

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config carries the breaker policy. Zero values fall back to defaults so a
// breaker constructed from partial config still behaves sanely.
type Config struct {
	// FailureThreshold is the consecutive-failure count that opens the
	// circuit. Defaults to 5.
	FailureThreshold int
	// Cooldown is how long an open circuit short-circuits calls before
	// allowing one trial. Defaults to 30s.
	Cooldown time.Duration
	// CallTimeout bounds each wrapped call. Exceeding it counts as a
	// failure toward the breaker, not a fatal error to the caller.
	// Defaults to 2s.
	CallTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.FailureThreshold <= 0 {
		c.FailureThreshold = 5
	}
	if c.Cooldown <= 0 {
		c.Cooldown = 30 * time.Second
	}
	if c.CallTimeout <= 0 {
		c.CallTimeout = 2 * time.Second
	}
	return c
}

// Breaker guards one logical dependency. All counters are updated atomically;
// a single Breaker is shared by every caller of that dependency.
type Breaker struct {
	name   string
	cfg    Config
	logger *slog.Logger
	now    func() time.Time

	state         atomic.Int32
	failures      atomic.Int32
	lastFailureAt atomic.Int64
	probeInFlight atomic.Bool
}

func NewBreaker(name string, cfg Config, logger *slog.Logger) *Breaker {
	if logger == nil {
		logger = slog.Default()
	}
	b := &Breaker{
		name:   name,
		cfg:    cfg.withDefaults(),
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
	b.state.Store(int32(StateClosed))
	return b
}

// NewBreakerWithClock pins the breaker to an injected clock.
func NewBreakerWithClock(name string, cfg Config, logger *slog.Logger, now func() time.Time) *Breaker {
	b := NewBreaker(name, cfg, logger)
	if now != nil {
		b.now = now
	}
	return b
}

func (b *Breaker) State() State {
	return State(b.state.Load())
}

// Execute runs call under the breaker policy with the configured timeout.
// Any non-nil error from call counts as a failure; callers must therefore map
// business outcomes (such as a remote not-found) to a nil error and carry
// them out of band.
func (b *Breaker) Execute(ctx context.Context, call func(ctx context.Context) error) error {
	release, err := b.allow()
	if err != nil {
		return err
	}

	callCtx, cancel := context.WithTimeout(ctx, b.cfg.CallTimeout)
	defer cancel()

	callErr := call(callCtx)
	if callErr != nil {
		release(false)
		return callErr
	}
	release(true)
	return nil
}

func (b *Breaker) allow() (release func(success bool), err error) {
	switch State(b.state.Load()) {
	case StateClosed:
		return b.settle, nil

	case StateOpen:
		last := time.Unix(0, b.lastFailureAt.Load())
		if b.now().Sub(last) < b.cfg.Cooldown {
			return nil, ErrCircuitOpen
		}
		b.transition(StateOpen, StateHalfOpen)
		fallthrough

	case StateHalfOpen:
		if !b.probeInFlight.CompareAndSwap(false, true) {
			return nil, ErrProbeInFlight
		}
		return func(success bool) {
			b.probeInFlight.Store(false)
			b.settle(success)
		}, nil

	default:
		return nil, ErrCircuitOpen
	}
}

func (b *Breaker) settle(success bool) {
	if success {
		b.recordSuccess()
		return
	}
	b.recordFailure()
}

func (b *Breaker) recordSuccess() {
	switch State(b.state.Load()) {
	case StateClosed:
		b.failures.Store(0)
	case StateHalfOpen:
		if b.transition(StateHalfOpen, StateClosed) {
			b.failures.Store(0)
		}
	}
}

func (b *Breaker) recordFailure() {
	b.lastFailureAt.Store(b.now().UnixNano())

	switch State(b.state.Load()) {
	case StateClosed:
		if int(b.failures.Add(1)) >= b.cfg.FailureThreshold {
			if b.transition(StateClosed, StateOpen) {
				b.failures.Store(0)
			}
		}
	case StateHalfOpen:
		// Failed trial reopens the circuit and restarts the cooldown.
		b.transition(StateHalfOpen, StateOpen)
	}
}

func (b *Breaker) transition(from, to State) bool {
	if !b.state.CompareAndSwap(int32(from), int32(to)) {
		return false
	}
	b.logger.Info("circuit breaker state transition",
		"event", "circuit_state_transition",
		"module", "internal/shared/resilience",
		"layer", "shared",
		"dependency", b.name,
		"from", from.String(),
		"to", to.String(),
	)
	return true
}
