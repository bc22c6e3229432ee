package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestRunInvokesRefreshUntilCancelled(t *testing.T) {
	var calls atomic.Int64
	s := New(Options{Interval: 10 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(context.Context) error {
			calls.Add(1)
			return nil
		})
	}()

	time.Sleep(60 * time.Millisecond)
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("unexpected exit error: %v", err)
	}
	if calls.Load() < 2 {
		t.Fatalf("刷新次数太少: %d", calls.Load())
	}
}

func TestRunAtStart(t *testing.T) {
	var calls atomic.Int64
	s := New(Options{Interval: time.Hour, RunAtStart: true}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, func(context.Context) error {
			calls.Add(1)
			return errors.New("boom")
		})
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()
	<-done

	if calls.Load() != 1 {
		t.Fatalf("refresh should run once at start, got %d", calls.Load())
	}
}

func TestNewRejectsNonPositiveInterval(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	New(Options{}, zerolog.Nop())
}
