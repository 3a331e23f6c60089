package middleware

import (
	"context"
	"log"
	"time"

	"udprpc/message"
)

func LoggingMiddleware() Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, arg message.ArgVariant) (message.RetVariant, error) {
			start := time.Now()
			ret, err := next(ctx, arg)
			duration := time.Since(start)
			log.Printf("rpc: %s, duration: %s", arg.RPCID(), duration)
			if err != nil {
				log.Printf("rpc: %s failed: %v", arg.RPCID(), err)
			}
			return ret, err
		}
	}
}
