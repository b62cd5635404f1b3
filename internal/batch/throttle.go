package batch

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Throttle keeps at least interval between the end of one remote call and
// the start of the next. The first call never waits.
type Throttle struct {
	interval time.Duration
	limiter  *rate.Limiter
}

// NewThrottle creates a throttle; an interval <= 0 disables pacing
func NewThrottle(interval time.Duration) *Throttle {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	return &Throttle{
		interval: interval,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Wait blocks until the next call may be made or ctx is done
func (t *Throttle) Wait(ctx context.Context) error {
	return t.limiter.Wait(ctx)
}

// Done marks the end of a remote call; the next Wait blocks for a full
// interval from now
func (t *Throttle) Done() {
	t.limiter.Reserve()
}

// Delay returns how long the next call would have to wait
func (t *Throttle) Delay() time.Duration {
	r := t.limiter.Reserve()
	defer r.Cancel()
	return r.Delay()
}

// Interval returns the configured spacing
func (t *Throttle) Interval() time.Duration {
	return t.interval
}
