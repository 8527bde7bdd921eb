package retry

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Policy controls the exponential backoff applied to transient failures
type Policy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultPolicy matches the backoff the extraction backends expect:
// three attempts, doubling from one second, half a second of jitter.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts:  3,
		InitialDelay: 1 * time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// Do runs op, retrying transient errors with exponential backoff and
// jitter until the policy's attempts are exhausted or the context is done.
// Terminal errors propagate immediately.
func Do(ctx context.Context, policy Policy, logger *zap.Logger, op func(ctx context.Context) error) error {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 1
	}
	if policy.Multiplier <= 1 {
		policy.Multiplier = 2.0
	}

	delay := policy.InitialDelay
	var err error

	for attempt := 1; ; attempt++ {
		err = op(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) || attempt >= policy.MaxAttempts {
			return err
		}

		sleep := delay + time.Duration(rand.Int63n(int64(500*time.Millisecond)))
		if policy.MaxDelay > 0 && sleep > policy.MaxDelay {
			sleep = policy.MaxDelay
		}
		if logger != nil {
			logger.Warn("Transient extraction failure, backing off",
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", policy.MaxAttempts),
				zap.Duration("delay", sleep),
				zap.Error(err))
		}

		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay = time.Duration(float64(delay) * policy.Multiplier)
	}
}

// transientMarkers are the rate-limit and availability signals the
// generative backends emit
var transientMarkers = []string{
	"429",
	"503",
	"resource_exhausted",
	"rate limit",
	"quota",
	"unavailable",
	"overloaded",
	"too many requests",
}

// IsTransient classifies an error as retryable (rate-limit/unavailable)
// versus terminal
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, marker := range transientMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}
