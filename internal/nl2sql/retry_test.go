package nl2sql

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrierSucceedsAfterTransientFailures(t *testing.T) {
	r := newRetrier(3, time.Millisecond)

	var calls int
	err := r.do(context.Background(), func(error) bool { return true }, func() error {
		calls++
		if calls < 3 {
			return errors.New("rate limit exceeded")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("do: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetrierStopsOnTerminalError(t *testing.T) {
	r := newRetrier(3, time.Millisecond)
	terminal := errors.New("invalid api key")

	var calls int
	err := r.do(context.Background(), func(error) bool { return false }, func() error {
		calls++
		return terminal
	})
	if !errors.Is(err, terminal) {
		t.Fatalf("err = %v, want terminal error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetrierExhaustsAttempts(t *testing.T) {
	r := newRetrier(2, time.Millisecond)
	transient := errors.New("503 service unavailable")

	var calls int
	err := r.do(context.Background(), func(error) bool { return true }, func() error {
		calls++
		return transient
	})
	if !errors.Is(err, transient) {
		t.Fatalf("err = %v, want last transient error", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want maxRetries attempts", calls)
	}
}

func TestRetrierHonorsContextCancellation(t *testing.T) {
	r := newRetrier(5, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	var calls int
	errCh := make(chan error, 1)
	go func() {
		errCh <- r.do(ctx, func(error) bool { return true }, func() error {
			calls++
			return errors.New("timeout")
		})
	}()

	// Let the first attempt land in the backoff sleep, then cancel.
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("do did not return after cancellation")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (cancelled during backoff)", calls)
	}
}

func TestRetrierCancelledBeforeStart(t *testing.T) {
	r := newRetrier(3, time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := r.do(ctx, func(error) bool { return true }, func() error {
		t.Fatal("op should not run with a cancelled context")
		return nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewRetrierDefaults(t *testing.T) {
	r := newRetrier(0, 0)
	if r.maxRetries != 3 {
		t.Errorf("maxRetries = %d, want 3", r.maxRetries)
	}
	if r.retryDelay != time.Second {
		t.Errorf("retryDelay = %v, want 1s", r.retryDelay)
	}
}
