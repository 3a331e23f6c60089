package middleware

import (
	"context"

	"udprpc/message"
)

// HandlerFunc is the dispatch signature wrapped by middlewares: one decoded
// argument variant in, one return variant or a handler error out.
type HandlerFunc func(ctx context.Context, arg message.ArgVariant) (message.RetVariant, error)

type Middleware func(next HandlerFunc) HandlerFunc

// Chain combines middlewares into one. Chain(A, B, C)(h) runs as A(B(C(h))):
// A sees the request first and the response last.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
