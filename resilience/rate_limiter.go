package resilience

import (
	"context"
	"errors"
	"math"
	"time"

	"golang.org/x/time/rate"
)

// Common rate limiter errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)

// RateLimiterConfig configures a rate limiter.
type RateLimiterConfig struct {
	// Name identifies this rate limiter for metrics/logging.
	Name string
	// Rate is the number of permits issued per second.
	Rate float64
	// Burst is the number of permits that can be stored.
	Burst int
	// OnLimit is called when a caller is refused or has to wait.
	OnLimit func(name string)
}

// PerMinute returns a config admitting n permits per minute. Burst is one
// second's worth of permits, never less than one, so a fresh limiter cannot
// release a whole minute's budget at once.
func PerMinute(name string, n int) RateLimiterConfig {
	perSecond := float64(n) / 60.0
	return RateLimiterConfig{
		Name:  name,
		Rate:  perSecond,
		Burst: max(1, int(math.Floor(perSecond))),
	}
}

// RateLimiter is a token bucket shared by concurrent callers. Permits are
// handed out through rate.Limiter reservations, so two callers never claim
// the same token.
type RateLimiter struct {
	config  RateLimiterConfig
	limiter *rate.Limiter
}

// NewRateLimiter creates a new rate limiter that starts with a full bucket.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	if config.Rate <= 0 {
		config.Rate = 10.0
	}
	if config.Burst <= 0 {
		config.Burst = max(1, int(config.Rate))
	}

	return &RateLimiter{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.Rate), config.Burst),
	}
}

// TryAcquire takes a permit if one is available right now.
func (rl *RateLimiter) TryAcquire() bool {
	if rl.limiter.Allow() {
		return true
	}
	rl.limited()
	return false
}

// Allow is an alias for TryAcquire.
func (rl *RateLimiter) Allow() bool {
	return rl.TryAcquire()
}

// Acquire blocks until a permit is available and reports how long the caller
// waited. If ctx ends first the reservation is returned to the bucket.
func (rl *RateLimiter) Acquire(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r := rl.limiter.Reserve()
	if !r.OK() {
		return 0, ErrRateLimited
	}
	delay := r.Delay()
	if delay <= 0 {
		return 0, nil
	}
	rl.limited()

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		r.Cancel()
		return 0, ctx.Err()
	case <-timer.C:
		return delay, nil
	}
}

// Wait blocks until a permit is available or ctx is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	_, err := rl.Acquire(ctx)
	return err
}

// Execute runs fn if a permit is available, otherwise returns ErrRateLimited.
func (rl *RateLimiter) Execute(fn func() error) error {
	if !rl.TryAcquire() {
		return ErrRateLimited
	}
	return fn()
}

// ExecuteWait blocks until a permit is available, then runs fn.
func (rl *RateLimiter) ExecuteWait(ctx context.Context, fn func() error) error {
	if err := rl.Wait(ctx); err != nil {
		return err
	}
	return fn()
}

// Tokens returns the current number of available permits. It goes negative
// while callers hold reservations they are still waiting on.
func (rl *RateLimiter) Tokens() float64 {
	return rl.limiter.Tokens()
}

// Rate returns the permits issued per second.
func (rl *RateLimiter) Rate() float64 {
	return rl.config.Rate
}

// Burst returns the burst size.
func (rl *RateLimiter) Burst() int {
	return rl.config.Burst
}

// Name returns the configured name.
func (rl *RateLimiter) Name() string {
	return rl.config.Name
}

func (rl *RateLimiter) limited() {
	if rl.config.OnLimit != nil {
		rl.config.OnLimit(rl.config.Name)
	}
}
