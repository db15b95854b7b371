package stream

import (
	"context"
	"time"
)

// DefaultTickInterval is the update period used when none is configured.
const DefaultTickInterval = 300 * time.Millisecond

// Ticker is the part of Store driven by a Scheduler.
type Ticker interface {
	Tick(ctx context.Context) error
}

// Scheduler calls Tick at a fixed interval.
type Scheduler struct {
	target   Ticker
	interval time.Duration
	acc      time.Duration
}

// NewScheduler returns a scheduler whose first Update ticks immediately.
func NewScheduler(target Ticker, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Scheduler{target: target, interval: interval, acc: interval}
}

// Interval returns the tick period.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Update advances the accumulator by dt and ticks once when the interval has
// elapsed. Intended for frame loops. Reports whether a tick ran.
func (s *Scheduler) Update(ctx context.Context, dt time.Duration) (bool, error) {
	s.acc += dt
	if s.acc < s.interval {
		return false, nil
	}
	s.acc = 0
	return true, s.target.Tick(ctx)
}

// Run ticks immediately and then on every interval until ctx is done.
// It returns nil on cancellation and the first Tick error otherwise.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.target.Tick(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if err := s.target.Tick(ctx); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
		}
	}
}
