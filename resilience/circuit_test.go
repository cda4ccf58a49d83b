package resilience

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sweengineeringlabs/guardrail/clock"
)

func newTestClock() *clock.FakeClock {
	return clock.NewFakeClock(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestNewCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})

	if cb.State() != StateClosed {
		t.Errorf("Initial state = %v, want closed", cb.State())
	}
}

func TestNewCircuitBreaker_Defaults(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{})

	if cb.config.FailureThreshold != 5 {
		t.Errorf("FailureThreshold = %d, want 5", cb.config.FailureThreshold)
	}
	if cb.config.Timeout != 60*time.Second {
		t.Errorf("Timeout = %v, want 60s", cb.config.Timeout)
	}
	if cb.config.SuccessThreshold != 2 {
		t.Errorf("SuccessThreshold = %d, want 2", cb.config.SuccessThreshold)
	}
}

func TestCircuitBreaker_OpensAtExactThreshold(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		Timeout:          time.Minute,
		Clock:            newTestClock(),
	})

	testErr := errors.New("test error")

	// Any number of failures below the threshold keeps the circuit closed.
	for i := 0; i < 2; i++ {
		err := cb.Execute(context.Background(), func(ctx context.Context) error {
			return testErr
		})
		if err != testErr {
			t.Errorf("Execute() error = %v, want %v", err, testErr)
		}
		if cb.State() != StateClosed {
			t.Errorf("After %d failures, state = %v, want closed", i+1, cb.State())
		}
	}

	// Exactly the threshold opens it.
	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return testErr
	})
	if cb.State() != StateOpen {
		t.Errorf("After 3 failures, state = %v, want open", cb.State())
	}
}

func TestCircuitBreaker_OpenFailsFast(t *testing.T) {
	clk := newTestClock()
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		Timeout:          time.Minute,
		Clock:            clk,
	})

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})

	// While open and before the cooldown, the operation must never run.
	calls := 0
	for i := 0; i < 5; i++ {
		clk.Advance(time.Second)
		err := cb.Execute(context.Background(), func(ctx context.Context) error {
			calls++
			return nil
		})
		if !errors.Is(err, ErrCircuitOpen) {
			t.Errorf("Execute() while open = %v, want ErrCircuitOpen", err)
		}
	}
	if calls != 0 {
		t.Errorf("op calls while open = %d, want 0", calls)
	}
}

func TestCircuitBreaker_HalfOpenAfterTimeout(t *testing.T) {
	clk := newTestClock()
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		Timeout:          time.Minute,
		Clock:            clk,
	})

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})
	if cb.State() != StateOpen {
		t.Fatalf("State = %v, want open", cb.State())
	}

	clk.Advance(time.Minute)

	if cb.State() != StateHalfOpen {
		t.Errorf("State after cooldown = %v, want half-open", cb.State())
	}

	// The next call is admitted as a probe.
	calls := 0
	err := cb.Execute(context.Background(), func(ctx context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if calls != 1 {
		t.Errorf("probe op calls = %d, want 1", calls)
	}
}

func TestCircuitBreaker_SuccessThresholdCloses(t *testing.T) {
	clk := newTestClock()
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		Timeout:          time.Minute,
		SuccessThreshold: 2,
		Clock:            clk,
	})

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})
	clk.Advance(time.Minute)

	// First half-open success is not enough.
	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if cb.State() != StateHalfOpen {
		t.Errorf("After 1 probe success, state = %v, want half-open", cb.State())
	}

	// Second success closes the circuit and resets counters.
	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})
	if cb.State() != StateClosed {
		t.Errorf("After 2 probe successes, state = %v, want closed", cb.State())
	}

	m := cb.Metrics()
	if m.Failures != 0 || m.Successes != 0 {
		t.Errorf("Metrics after close = %+v, want zero counters", m)
	}
	if !m.LastFailure.IsZero() {
		t.Errorf("LastFailure after close = %v, want zero", m.LastFailure)
	}
}

func TestCircuitBreaker_ProbeFailureReopensAndResetsCooldown(t *testing.T) {
	clk := newTestClock()
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		Timeout:          time.Minute,
		Clock:            clk,
	})

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})
	clk.Advance(time.Minute)

	// Failed probe sends it straight back to open.
	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("still broken")
	})
	if cb.State() != StateOpen {
		t.Fatalf("After failed probe, state = %v, want open", cb.State())
	}

	// The cooldown clock restarted at the probe failure: 30s is not enough.
	clk.Advance(30 * time.Second)
	if cb.State() != StateOpen {
		t.Errorf("30s after failed probe, state = %v, want open", cb.State())
	}

	clk.Advance(30 * time.Second)
	if cb.State() != StateHalfOpen {
		t.Errorf("60s after failed probe, state = %v, want half-open", cb.State())
	}
}

func TestCircuitBreaker_SuccessResetsFailures(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 3,
		Timeout:          time.Hour,
		Clock:            newTestClock(),
	})

	testErr := errors.New("test error")
	fail := func(ctx context.Context) error { return testErr }
	succeed := func(ctx context.Context) error { return nil }

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), succeed)
	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)

	if cb.State() != StateClosed {
		t.Errorf("State = %v, want closed (failure count was reset)", cb.State())
	}
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		Timeout:          time.Hour,
		Clock:            newTestClock(),
	})

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})
	if cb.State() != StateOpen {
		t.Fatalf("State = %v, want open", cb.State())
	}

	cb.Reset()

	if cb.State() != StateClosed {
		t.Errorf("After reset, state = %v, want closed", cb.State())
	}
}

func TestCircuitBreaker_OnStateChange(t *testing.T) {
	clk := newTestClock()

	var transitions []struct {
		from, to State
	}
	var mu sync.Mutex

	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		Timeout:          time.Minute,
		SuccessThreshold: 1,
		Clock:            clk,
		OnStateChange: func(from, to State) {
			mu.Lock()
			transitions = append(transitions, struct{ from, to State }{from, to})
			mu.Unlock()
		},
	})

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})
	clk.Advance(time.Minute)
	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})

	mu.Lock()
	defer mu.Unlock()

	want := []struct{ from, to State }{
		{StateClosed, StateOpen},
		{StateOpen, StateHalfOpen},
		{StateHalfOpen, StateClosed},
	}
	if len(transitions) != len(want) {
		t.Fatalf("transitions = %v, want %v", transitions, want)
	}
	for i, tr := range transitions {
		if tr != want[i] {
			t.Errorf("transition %d = %v -> %v, want %v -> %v", i, tr.from, tr.to, want[i].from, want[i].to)
		}
	}
}

func TestCircuitBreaker_IsFailureExemptsErrors(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		Timeout:          time.Hour,
		Clock:            newTestClock(),
		IsFailure: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		},
	})

	// A cancellation mid-flight leaves the breaker untouched.
	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return context.Canceled
	})

	if cb.State() != StateClosed {
		t.Errorf("State after exempted error = %v, want closed", cb.State())
	}
}

func TestCircuitBreaker_ConcurrentProbesAdmitted(t *testing.T) {
	clk := newTestClock()
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 1,
		Timeout:          time.Minute,
		SuccessThreshold: 100,
		Clock:            clk,
	})

	_ = cb.Execute(context.Background(), func(ctx context.Context) error {
		return errors.New("boom")
	})
	clk.Advance(time.Minute)

	// Half-open admission is unbounded: every concurrent caller that sees
	// half-open gets through.
	var wg sync.WaitGroup
	var mu sync.Mutex
	invoked := 0

	start := make(chan struct{})
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_ = cb.Execute(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				invoked++
				mu.Unlock()
				return nil
			})
		}()
	}
	close(start)
	wg.Wait()

	if invoked != 10 {
		t.Errorf("probe invocations = %d, want 10", invoked)
	}
}

func TestCircuitBreaker_Metrics(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{
		FailureThreshold: 5,
		Clock:            newTestClock(),
	})

	testErr := errors.New("test error")
	_ = cb.Execute(context.Background(), func(ctx context.Context) error { return testErr })
	_ = cb.Execute(context.Background(), func(ctx context.Context) error { return testErr })

	m := cb.Metrics()

	if m.State != StateClosed {
		t.Errorf("Metrics.State = %v, want closed", m.State)
	}
	if m.Failures != 2 {
		t.Errorf("Metrics.Failures = %d, want 2", m.Failures)
	}
	if m.LastFailure.IsZero() {
		t.Error("Metrics.LastFailure is zero, want set after a failure")
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateClosed, "closed"},
		{StateOpen, "open"},
		{StateHalfOpen, "half-open"},
		{State(99), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.state.String(); got != tt.want {
				t.Errorf("State.String() = %v, want %v", got, tt.want)
			}
		})
	}
}
