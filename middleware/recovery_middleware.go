package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"udprpc/message"
)

// RecoveryMiddleware converts a handler panic into a handler error, so one
// bad request produces a failure-return frame instead of tearing down the
// whole server process.
func RecoveryMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, arg message.ArgVariant) (ret message.RetVariant, err error) {
			defer func() {
				if r := recover(); r != nil {
					ret = nil
					err = fmt.Errorf("panic recovered: %v\nstack:\n%s", r, debug.Stack())
				}
			}()
			return next(ctx, arg)
		}
	}
}
