package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestDoSucceedsAfterFailures(t *testing.T) {
	p := Policy{MaxAttempts: 3, Backoff: func(int) time.Duration { return 0 }}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoReturnsFinalError(t *testing.T) {
	p := Policy{MaxAttempts: 2, Backoff: func(int) time.Duration { return 0 }}

	calls := 0
	finalErr := errors.New("attempt 2")
	err := p.Do(context.Background(), func() error {
		calls++
		if calls == 1 {
			return errors.New("attempt 1")
		}
		return finalErr
	})
	if !errors.Is(err, finalErr) {
		t.Errorf("err = %v, want final attempt's error", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestDoPermanentStopsEarly(t *testing.T) {
	p := Policy{MaxAttempts: 5, Backoff: func(int) time.Duration { return 0 }}

	calls := 0
	bad := errors.New("bad request")
	err := p.Do(context.Background(), func() error {
		calls++
		return Permanent(bad)
	})
	if !errors.Is(err, bad) {
		t.Errorf("err = %v, want wrapped permanent error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	p := Policy{MaxAttempts: 10, Backoff: func(int) time.Duration { return time.Hour }}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func() error {
			calls++
			return errors.New("transient")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected error after cancellation")
		}
	case <-time.After(time.Second):
		t.Fatal("Do did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (backoff sleep interrupted)", calls)
	}
}

func TestBackoffShapes(t *testing.T) {
	lin := Linear(time.Second)
	for i, want := range []time.Duration{time.Second, 2 * time.Second, 3 * time.Second} {
		if got := lin(i); got != want {
			t.Errorf("Linear(%d) = %v, want %v", i, got, want)
		}
	}

	exp := Exponential(time.Second)
	for i, want := range []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 8 * time.Second} {
		if got := exp(i); got != want {
			t.Errorf("Exponential(%d) = %v, want %v", i, got, want)
		}
	}
}

func TestDoPermanentStaysMarkedThroughLayers(t *testing.T) {
	inner := Policy{MaxAttempts: 1}
	outer := Policy{MaxAttempts: 5, Backoff: func(int) time.Duration { return 0 }}

	bad := errors.New("bad credentials")
	calls := 0
	err := outer.Do(context.Background(), func() error {
		calls++
		return inner.Do(context.Background(), func() error {
			return Permanent(bad)
		})
	})
	if !errors.Is(err, bad) {
		t.Errorf("err = %v, want wrapped permanent error", err)
	}
	if calls != 1 {
		t.Errorf("outer calls = %d, want 1 (permanence survives the inner policy)", calls)
	}
}
