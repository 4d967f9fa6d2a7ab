// File: pool/throttle.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Exhaustion warning throttles.

package pool

import (
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/momentics/hioload-mempool/api"
)

// DefaultWarnCeiling is the number of exhaustion warnings the default throttle lets through.
const DefaultWarnCeiling = 10

// CountLimiter allows the first ceiling calls and suppresses the rest.
type CountLimiter struct {
	count   atomic.Int64
	ceiling int64
}

// NewCountLimiter creates a limiter admitting ceiling emissions.
func NewCountLimiter(ceiling int) *CountLimiter {
	return &CountLimiter{ceiling: int64(ceiling)}
}

// Allow records one occurrence and reports whether it may be emitted.
func (l *CountLimiter) Allow() bool {
	return l.count.Add(1) <= l.ceiling
}

// Count returns the number of occurrences recorded so far.
func (l *CountLimiter) Count() int64 {
	return l.count.Load()
}

// Reset zeroes the occurrence counter.
func (l *CountLimiter) Reset() {
	l.count.Store(0)
}

var defaultLimiter = NewCountLimiter(DefaultWarnCeiling)

// DefaultWarningLimiter returns the process-wide throttle shared by pools
// constructed without WithWarningLimiter.
func DefaultWarningLimiter() *CountLimiter {
	return defaultLimiter
}

// RateLimiter admits warnings at a sustained rate instead of a fixed count.
type RateLimiter struct {
	lim        *rate.Limiter
	suppressed atomic.Int64
}

// NewRateLimiter admits one warning per interval with the given burst.
func NewRateLimiter(interval time.Duration, burst int) *RateLimiter {
	return &RateLimiter{lim: rate.NewLimiter(rate.Every(interval), burst)}
}

func (r *RateLimiter) Allow() bool {
	if r.lim.Allow() {
		return true
	}
	r.suppressed.Add(1)
	return false
}

// Suppressed returns how many warnings were dropped.
func (r *RateLimiter) Suppressed() int64 {
	return r.suppressed.Load()
}

var (
	_ api.WarningLimiter = (*CountLimiter)(nil)
	_ api.WarningLimiter = (*RateLimiter)(nil)
)
