package middleware

import (
	"context"
	"errors"
	"time"

	"udprpc/message"
)

// ErrHandlerTimeout is returned when a handler exceeds the configured bound.
var ErrHandlerTimeout = errors.New("handler timed out")

// TimeOutMiddleware bounds handler execution time. This bounds only the
// application handler — transport waits remain unbounded by design.
func TimeOutMiddleware(timeout time.Duration) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, arg message.ArgVariant) (message.RetVariant, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()

			type result struct {
				ret message.RetVariant
				err error
			}
			done := make(chan result, 1)
			go func() {
				ret, err := next(ctx, arg)
				done <- result{ret, err}
			}()

			select {
			case res := <-done:
				return res.ret, res.err
			case <-ctx.Done():
				return nil, ErrHandlerTimeout
			}
		}
	}
}
