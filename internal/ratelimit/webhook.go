package ratelimit

import (
	"context"
	"time"

	"github.com/garyellow/kitaku-linebot-go/internal/metrics"
)

// ReplyLimiter paces reply calls to the LINE Messaging API.
// See https://developers.line.biz/en/reference/messaging-api/#rate-limits
type ReplyLimiter struct {
	*Limiter
	metrics *metrics.Metrics
}

// NewReplyLimiter allows rps calls per second with a one-second burst of at
// least one call, so rates below 1/s still admit a reply. m may be nil.
func NewReplyLimiter(rps float64, m *metrics.Metrics) *ReplyLimiter {
	return &ReplyLimiter{
		Limiter: New(max(1, rps), rps),
		metrics: m,
	}
}

// Acquire waits for a token, recording wait time or a drop when ctx ends first.
func (rl *ReplyLimiter) Acquire(ctx context.Context) error {
	start := time.Now()
	err := rl.Wait(ctx)
	if rl.metrics == nil {
		return err
	}
	if err != nil {
		rl.metrics.RecordRateLimiterDrop()
		return err
	}
	rl.metrics.RecordRateLimiterWait(time.Since(start).Seconds())
	return nil
}
