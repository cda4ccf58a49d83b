package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestNewSlidingWindow_Defaults(t *testing.T) {
	sw := NewSlidingWindow(SlidingWindowConfig{})

	if sw.config.MaxRequests != 100 {
		t.Errorf("MaxRequests = %d, want 100", sw.config.MaxRequests)
	}
	if sw.config.WindowSize != time.Second {
		t.Errorf("WindowSize = %v, want 1s", sw.config.WindowSize)
	}
}

func TestSlidingWindow_RollingLimit(t *testing.T) {
	clk := newTestClock()
	sw := NewSlidingWindow(SlidingWindowConfig{
		MaxRequests: 3,
		WindowSize:  100 * time.Millisecond,
		Clock:       clk,
	})

	// Admissions at t=0, 10, 20ms succeed.
	for i := 0; i < 3; i++ {
		if !sw.Allow() {
			t.Fatalf("Allow() call %d = false, want true", i+1)
		}
		clk.Advance(10 * time.Millisecond)
	}

	// t=30ms: window still holds three timestamps.
	if sw.Allow() {
		t.Error("Allow() at t=30ms = true, want false")
	}

	// t=105ms: the t=0 slot expired exactly WindowSize after it was recorded.
	clk.Advance(75 * time.Millisecond)
	if !sw.Allow() {
		t.Error("Allow() at t=105ms = false, want true")
	}
}

func TestSlidingWindow_SlotFreesExactlyAfterWindow(t *testing.T) {
	clk := newTestClock()
	sw := NewSlidingWindow(SlidingWindowConfig{
		MaxRequests: 1,
		WindowSize:  100 * time.Millisecond,
		Clock:       clk,
	})

	if !sw.Allow() {
		t.Fatal("Allow() = false, want true")
	}

	clk.Advance(99 * time.Millisecond)
	if sw.Allow() {
		t.Error("Allow() at 99ms = true, want false")
	}

	clk.Advance(time.Millisecond)
	if !sw.Allow() {
		t.Error("Allow() at 100ms = false, want true")
	}
}

func TestSlidingWindow_InWindow(t *testing.T) {
	clk := newTestClock()
	sw := NewSlidingWindow(SlidingWindowConfig{
		MaxRequests: 10,
		WindowSize:  100 * time.Millisecond,
		Clock:       clk,
	})

	sw.Allow()
	clk.Advance(50 * time.Millisecond)
	sw.Allow()

	if got := sw.InWindow(); got != 2 {
		t.Errorf("InWindow() = %d, want 2", got)
	}

	clk.Advance(60 * time.Millisecond)

	if got := sw.InWindow(); got != 1 {
		t.Errorf("InWindow() after first slot expired = %d, want 1", got)
	}
}

func TestSlidingWindow_Acquire(t *testing.T) {
	sw := NewSlidingWindow(SlidingWindowConfig{
		MaxRequests: 1,
		WindowSize:  10 * time.Millisecond,
	})
	sw.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := sw.Acquire(ctx); err != nil {
		t.Errorf("Acquire() error = %v", err)
	}
}

func TestSlidingWindow_ConcurrentAllow(t *testing.T) {
	sw := NewSlidingWindow(SlidingWindowConfig{
		MaxRequests: 50,
		WindowSize:  time.Hour,
	})

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sw.Allow() {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if admitted != 50 {
		t.Errorf("admitted = %d, want exactly 50", admitted)
	}
}
