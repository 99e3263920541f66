package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestCircuitBreaker_BasicTransitions(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClockAt(time.Date(2026, 2, 11, 12, 0, 0, 0, time.UTC))
	b := NewCircuitBreaker(CircuitBreakerConfig{Name: "event_index", FailureThreshold: 2, OpenTimeout: 5 * time.Second, HalfOpenMaxReq: 1}, clock)

	var transitions []string
	b.OnStateChange(func(circuit string, from, to CircuitState) {
		transitions = append(transitions, circuit+":"+string(from)+"->"+string(to))
	})

	if err := b.Allow(); err != nil {
		t.Fatalf("expected allow in closed state: %v", err)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after first failure, got %s", state)
	}
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("expected open after threshold failures, got %s", state)
	}

	clock.Advance(2 * time.Second)
	err := b.Allow()
	var open *OpenError
	if !errors.As(err, &open) || !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open error, got %v", err)
	}
	if open.Circuit != "event_index" || open.RetryAfter != 3*time.Second {
		t.Fatalf("unexpected open error: %+v", open)
	}

	clock.Advance(4 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("expected half-open trial to pass, got %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected second half-open call to be refused, got %v", err)
	}
	b.RecordSuccess()
	if state := b.State(); state != CircuitStateClosed {
		t.Fatalf("expected closed after successful trial, got %s", state)
	}

	want := []string{
		"event_index:closed->open",
		"event_index:open->half_open",
		"event_index:half_open->closed",
	}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i := range want {
		if transitions[i] != want[i] {
			t.Fatalf("transitions = %v, want %v", transitions, want)
		}
	}
}

func TestCircuitBreaker_DoRecordsOutcome(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	b := NewCircuitBreaker(CircuitBreakerConfig{FailureThreshold: 1, OpenTimeout: time.Minute}, clock)
	if b.Name() != "event_index" {
		t.Fatalf("expected default name, got %q", b.Name())
	}

	down := errors.New("connection refused")
	if err := b.Do(func() error { return down }); !errors.Is(err, down) {
		t.Fatalf("expected dependency error, got %v", err)
	}

	calls := 0
	err := b.Do(func() error { calls++; return nil })
	if !errors.Is(err, ErrCircuitOpen) || calls != 0 {
		t.Fatalf("expected refusal without calling fn, err=%v calls=%d", err, calls)
	}

	clock.Advance(time.Minute)
	b.RecordFailure()
	if state := b.State(); state != CircuitStateOpen {
		t.Fatalf("failure while open must restart the timeout, got %s", state)
	}
}

func TestCircuitBreakerConfig_NormalizedAndValidate(t *testing.T) {
	t.Parallel()

	got := CircuitBreakerConfig{Name: "postgres"}.Normalized()
	if got.Name != "postgres" || got.FailureThreshold != 3 || got.OpenTimeout != 30*time.Second || got.HalfOpenMaxReq != 1 {
		t.Fatalf("unexpected normalized config: %+v", got)
	}

	if err := (CircuitBreakerConfig{Name: "x", FailureThreshold: 1, OpenTimeout: time.Second}).Validate(); err == nil {
		t.Fatalf("expected half-open validation error")
	}
	if err := DefaultCircuitBreakerConfig().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}
