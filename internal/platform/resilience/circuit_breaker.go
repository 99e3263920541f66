package resilience

import (
	"fmt"
	"sync"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jonboulle/clockwork"
)

var ErrCircuitOpen = crerr.New("circuit breaker is open")

type CircuitState string

const (
	CircuitStateClosed   CircuitState = "closed"
	CircuitStateOpen     CircuitState = "open"
	CircuitStateHalfOpen CircuitState = "half_open"
)

// OpenError is returned while the breaker refuses calls.
type OpenError struct {
	Circuit    string
	RetryAfter time.Duration
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit %s is open, retry after %s", e.Circuit, e.RetryAfter)
}

func (e *OpenError) Unwrap() error { return ErrCircuitOpen }

// StateChangeFunc is called with the breaker lock released.
type StateChangeFunc func(circuit string, from, to CircuitState)

// CircuitBreaker counts consecutive failures of a dependency and stops
// calling it for OpenTimeout once FailureThreshold is reached.
type CircuitBreaker struct {
	mu sync.Mutex

	cfg      CircuitBreakerConfig
	clock    clockwork.Clock
	onChange StateChangeFunc

	state               CircuitState
	consecutiveFailures int
	openedAt            time.Time
	halfOpenInFlight    int
	halfOpenSuccesses   int
}

func NewCircuitBreaker(cfg CircuitBreakerConfig, clock clockwork.Clock) *CircuitBreaker {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &CircuitBreaker{
		cfg:   cfg.Normalized(),
		clock: clock,
		state: CircuitStateClosed,
	}
}

// OnStateChange registers fn for every transition. Not safe to call
// concurrently with Do.
func (b *CircuitBreaker) OnStateChange(fn StateChangeFunc) {
	b.onChange = fn
}

func (b *CircuitBreaker) Name() string {
	return b.cfg.Name
}

// Do runs fn when the breaker admits the call and records its outcome.
func (b *CircuitBreaker) Do(fn func() error) error {
	if err := b.Allow(); err != nil {
		return err
	}
	if err := fn(); err != nil {
		b.RecordFailure()
		return err
	}
	b.RecordSuccess()
	return nil
}

func (b *CircuitBreaker) Allow() error {
	b.mu.Lock()
	from := b.state
	err := b.allowLocked()
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
	return err
}

func (b *CircuitBreaker) allowLocked() error {
	if b.state == CircuitStateOpen {
		if wait := b.cfg.OpenTimeout - b.clock.Since(b.openedAt); wait > 0 {
			return &OpenError{Circuit: b.cfg.Name, RetryAfter: wait}
		}
		b.setHalfOpen()
	}
	if b.state == CircuitStateHalfOpen {
		if b.halfOpenInFlight >= b.cfg.HalfOpenMaxReq {
			return &OpenError{Circuit: b.cfg.Name}
		}
		b.halfOpenInFlight++
	}
	return nil
}

func (b *CircuitBreaker) RecordSuccess() {
	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.consecutiveFailures = 0
	case CircuitStateHalfOpen:
		b.releaseHalfOpenSlot()
		b.halfOpenSuccesses++
		if b.halfOpenSuccesses >= b.cfg.HalfOpenMaxReq && b.halfOpenInFlight == 0 {
			b.setClosed()
		}
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

func (b *CircuitBreaker) RecordFailure() {
	b.mu.Lock()
	from := b.state
	switch b.state {
	case CircuitStateClosed:
		b.consecutiveFailures++
		if b.consecutiveFailures >= b.cfg.FailureThreshold {
			b.setOpen()
		}
	case CircuitStateHalfOpen:
		b.releaseHalfOpenSlot()
		b.setOpen()
	case CircuitStateOpen:
		b.openedAt = b.clock.Now()
	}
	to := b.state
	b.mu.Unlock()

	b.notify(from, to)
}

// State reports half-open once the open timeout has passed, before any call
// has been admitted.
func (b *CircuitBreaker) State() CircuitState {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == CircuitStateOpen && b.clock.Since(b.openedAt) >= b.cfg.OpenTimeout {
		return CircuitStateHalfOpen
	}
	return b.state
}

func (b *CircuitBreaker) notify(from, to CircuitState) {
	if from != to && b.onChange != nil {
		b.onChange(b.cfg.Name, from, to)
	}
}

func (b *CircuitBreaker) releaseHalfOpenSlot() {
	if b.halfOpenInFlight > 0 {
		b.halfOpenInFlight--
	}
}

func (b *CircuitBreaker) setClosed() {
	b.state = CircuitStateClosed
	b.consecutiveFailures = 0
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
	b.openedAt = time.Time{}
}

func (b *CircuitBreaker) setOpen() {
	b.state = CircuitStateOpen
	b.openedAt = b.clock.Now()
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
}

func (b *CircuitBreaker) setHalfOpen() {
	b.state = CircuitStateHalfOpen
	b.halfOpenInFlight = 0
	b.halfOpenSuccesses = 0
}
