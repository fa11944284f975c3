package warehouse

import (
	"math"
	"math/rand"
	"time"
)

const (
	baseBackoff = 500 * time.Millisecond
	maxBackoff  = 10 * time.Second
)

// retryBackoff returns the delay before retry number attempt (1-based):
// base * 2^(attempt-1), capped, plus up to 25% jitter so concurrent callers
// don't hammer the rate limiter in lockstep.
func retryBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return baseBackoff
	}
	delay := time.Duration(float64(baseBackoff) * math.Pow(2, float64(attempt-1)))
	if delay > maxBackoff {
		delay = maxBackoff
	}
	jitter := time.Duration(rand.Int63n(int64(delay)/4 + 1))
	return delay + jitter
}
