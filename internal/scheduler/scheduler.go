package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// CycleFunc is invoked once per scan cycle with the cycle start time.
type CycleFunc func(ctx context.Context, cycle time.Time) error

// Options tune scheduler behaviour.
type Options struct {
	Interval     time.Duration
	AlignToStart bool
	StartupDelay time.Duration
	// RunImmediately starts a cycle right after the startup delay instead of
	// waiting for the first interval to elapse.
	RunImmediately bool
}

// Scheduler drives periodic scan cycles.
type Scheduler struct {
	opts   Options
	logger zerolog.Logger
	now    func() time.Time
}

// New constructs a Scheduler instance.
func New(opts Options, logger zerolog.Logger) *Scheduler {
	if opts.Interval <= 0 {
		panic("scheduler interval must be positive")
	}
	return &Scheduler{
		opts:   opts,
		logger: logger.With().Str("component", "scheduler").Logger(),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run blocks, invoking fn at each interval until ctx is cancelled. A failing
// cycle is logged and the next one still runs.
func (s *Scheduler) Run(ctx context.Context, fn CycleFunc) error {
	if s.opts.StartupDelay > 0 {
		if err := sleep(ctx, s.opts.StartupDelay); err != nil {
			return err
		}
	}

	if s.opts.RunImmediately {
		s.execute(ctx, fn, s.now())
	}

	next := s.nextTick(s.now())
	for {
		delay := next.Sub(s.now())
		if delay < 0 {
			next = s.nextTick(s.now())
			delay = next.Sub(s.now())
		}

		s.logger.Debug().Time("next_cycle", next).Msg("waiting for next cycle")
		if err := sleep(ctx, delay); err != nil {
			return err
		}

		s.execute(ctx, fn, s.cycleStart(next))
		next = next.Add(s.opts.Interval)
	}
}

func (s *Scheduler) execute(ctx context.Context, fn CycleFunc, cycle time.Time) {
	s.logger.Info().Time("cycle", cycle).Msg("executing scan cycle")
	started := time.Now()
	if err := fn(ctx, cycle); err != nil {
		s.logger.Error().Err(err).Time("cycle", cycle).Msg("scan cycle failed")
		return
	}
	s.logger.Info().Time("cycle", cycle).Dur("elapsed", time.Since(started)).Msg("scan cycle finished")
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Scheduler) nextTick(now time.Time) time.Time {
	if !s.opts.AlignToStart {
		return now.Add(s.opts.Interval)
	}
	bucket := now.Truncate(s.opts.Interval)
	if !bucket.After(now) {
		bucket = bucket.Add(s.opts.Interval)
	}
	return bucket
}

func (s *Scheduler) cycleStart(t time.Time) time.Time {
	if !s.opts.AlignToStart {
		return t
	}
	return t.Truncate(s.opts.Interval)
}
