// Package scheduler drives the periodic refresh of live market data.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// RefreshFunc is invoked on every interval.
type RefreshFunc func(ctx context.Context) error

// Options tune refresh behaviour.
type Options struct {
	Interval   time.Duration
	RunAtStart bool
}

// Scheduler invokes a refresh function at a fixed interval. Refresh
// failures are logged and the loop keeps running; the previous tables
// stay in service until a refresh succeeds.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
}

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	if opts.Interval <= 0 {
		panic("scheduler interval must be positive")
	}
	return &Scheduler{opts: opts, logger: logger.With().Str("component", "scheduler").Logger()}
}

// Run blocks, invoking refresh at each interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, refresh RefreshFunc) error {
	if s.opts.RunAtStart {
		if err := refresh(ctx); err != nil {
			s.logger.Error().Err(err).Msg("initial refresh failed")
		}
	}

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		s.logger.Debug().Msg("refreshing market data")
		if err := refresh(ctx); err != nil {
			s.logger.Error().Err(err).Msg("market data refresh failed")
		}
	}
}
