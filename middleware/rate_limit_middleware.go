package middleware

import (
	"context"
	"errors"

	"golang.org/x/time/rate"

	"udprpc/message"
)

// ErrRateLimited is the handler error sent back to the caller when the
// token bucket is empty.
var ErrRateLimited = errors.New("rate limit exceeded")

// RateLimitMiddleware rejects requests beyond r per second with bursts of
// up to burst, using a token bucket. The rejection travels back to the
// caller as a failure-return frame rather than killing the dispatch loop.
func RateLimitMiddleware(r float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(r), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, arg message.ArgVariant) (message.RetVariant, error) {
			if !limiter.Allow() {
				return nil, ErrRateLimited
			}
			return next(ctx, arg)
		}
	}
}
