// Package server implements the service dispatcher: the loop that reads raw
// bytes from a channel, decodes complete call frames, routes each one
// through the middleware chain to the application handler, and sends the
// result frame back on the same channel.
//
// Request processing pipeline:
//
//	Channel.Recv → drain frames (wire.DecodeArg per frame)
//	  → Middleware Chain → message.Dispatch → handler method
//	  → wire.EncodeRet (or wire.EncodeError on handler failure) → Channel.Send
//
// The loop is synchronous: one frame is fully handled and answered before
// the next is decoded, preserving the in-order one-call-at-a-time protocol.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"udprpc/channel"
	"udprpc/config"
	"udprpc/frame"
	"udprpc/message"
	"udprpc/middleware"
	"udprpc/registry"
	"udprpc/wire"
)

const defaultLeaseTTL = 10 // seconds

// Server drives one channel's dispatch loop for a message.Handler.
type Server struct {
	handler       message.Handler
	middlewares   []middleware.Middleware // Registered middlewares (applied in order)
	chain         middleware.HandlerFunc  // middleware(middleware(...(dispatch)))
	reg           registry.Registry       // Service registry (etcd), nil if not using discovery
	advertiseAddr string                  // Address registered in etcd; must be routable, unlike the bind address
	leaseTTL      int64
	bufSize       int
	shutdown      atomic.Bool // Set during Shutdown to suppress the channel-close error
	ch            channel.MessageChannel
	calls         map[string]*atomic.Int64 // Per-RPC call counters, rendered by the debug page
}

// NewServer creates a server for the given handler. The handler is owned by
// the serve loop for the loop's lifetime.
func NewServer(h message.Handler) *Server {
	s := &Server{
		handler:  h,
		leaseTTL: defaultLeaseTTL,
		bufSize:  frame.DefaultBufferSize,
		calls:    make(map[string]*atomic.Int64),
	}
	for _, id := range message.RPCIDs() {
		s.calls[id] = new(atomic.Int64)
	}
	return s
}

// Use registers a middleware. Middlewares are applied in the order they are added.
func (s *Server) Use(mw middleware.Middleware) {
	s.middlewares = append(s.middlewares, mw)
}

// SetBufferSize sets the receive scratch buffer size. A frame, or remainder
// of a multi-frame batch, larger than this cannot be reassembled.
func (s *Server) SetBufferSize(n int) {
	if n > 0 {
		s.bufSize = n
	}
}

// Serve runs the dispatch loop on ch until the channel fails or Shutdown is
// called. If reg is non-nil, the backend service is registered under
// advertiseAddr first and deregistered on Shutdown.
//
/// Error discipline: transport failures and protocol violations (unknown RPC,
// malformed header or body) terminate the loop. Handler failures do not —
// they are answered with a failure-return frame and the loop keeps serving.
func (s *Server) Serve(ch channel.MessageChannel, advertiseAddr string, reg registry.Registry) error {
	s.ch = ch

	// Build the middleware chain once at serve time, not per-request.
	// Chain(A, B, C)(dispatch) runs A.before → B.before → C.before → handler.
	s.chain = middleware.Chain(s.middlewares...)(s.dispatch)

	if reg != nil {
		s.reg = reg
		s.advertiseAddr = advertiseAddr
		if err := reg.Register(message.ServiceName, registry.ServiceInstance{Addr: advertiseAddr}, s.leaseTTL); err != nil {
			return fmt.Errorf("server: register %s: %w", message.ServiceName, err)
		}
	}

	buf := make([]byte, s.bufSize)
	var residual []byte // Unconsumed tail of the previous receive
	for {
		// Await bytes. Blocks until the transport delivers or fails.
		n, err := ch.Recv(buf)
		if err != nil {
			if s.shutdown.Load() {
				return nil
			}
			return fmt.Errorf("server: recv: %w", err)
		}

		// A frame may have been split across receives; prepend whatever
		// was left over last time so its bytes are not lost.
		data := append(residual, buf[:n]...)

		// Drain frames until the remainder is incomplete.
		off := 0
		for {
			consumed, arg, err := wire.DecodeArg(data[off:])
			if errors.Is(err, wire.ErrIncomplete) {
				break
			}
			if err != nil {
				return fmt.Errorf("server: protocol violation: %w", err)
			}
			off += consumed

			if err := s.respond(arg); err != nil {
				return err
			}
		}
		residual = append([]byte(nil), data[off:]...)
	}
}

// respond runs one decoded call through the chain and sends its result
// before the next frame is decoded.
func (s *Server) respond(arg message.ArgVariant) error {
	s.calls[arg.RPCID()].Add(1)

	ret, herr := s.chain(context.Background(), arg)

	var out []byte
	var err error
	if herr != nil {
		out, err = wire.EncodeError(arg.RPCID(), herr)
	} else {
		out, err = wire.EncodeRet(ret)
	}
	if err != nil {
		return fmt.Errorf("server: encode %s result: %w", arg.RPCID(), err)
	}

	sent, err := s.ch.Send(out)
	if err != nil {
		return fmt.Errorf("server: send %s result: %w", arg.RPCID(), err)
	}
	if sent != len(out) {
		return fmt.Errorf("server: short send: %d of %d bytes", sent, len(out))
	}
	return nil
}

// dispatch is the innermost HandlerFunc, wrapped by the middleware chain.
func (s *Server) dispatch(ctx context.Context, arg message.ArgVariant) (message.RetVariant, error) {
	return message.Dispatch(ctx, s.handler, arg)
}

// Shutdown deregisters the service and closes the channel, which unblocks
// the serve loop's pending receive. Serve then returns nil rather than the
// close error.
func (s *Server) Shutdown() error {
	if s.reg != nil {
		if err := s.reg.Deregister(message.ServiceName, s.advertiseAddr); err != nil {
			log.Printf("server: deregister failed: %v", err)
		}
	}
	s.shutdown.Store(true)
	if s.ch != nil {
		return s.ch.Close()
	}
	return nil
}

// SetLeaseTTL sets the registry lease TTL in seconds used when Serve
// registers the service.
func (s *Server) SetLeaseTTL(ttl int64) {
	if ttl > 0 {
		s.leaseTTL = ttl
	}
}

// FromConfig builds a server with the configured buffer size, registry
// lease TTL, and middleware stack. Middlewares are attached outermost-first
/// in a fixed order: recovery, logging, metrics, rate limit, timeout.
func FromConfig(cfg *config.Config, h message.Handler) *Server {
	s := NewServer(h)
	sc := cfg.Server
	s.SetBufferSize(sc.BufferSize)
	s.SetLeaseTTL(cfg.Registry.LeaseTTL)
	if sc.Middleware.Recovery {
		s.Use(middleware.RecoveryMiddleware())
	}
	if sc.Middleware.Logging {
		s.Use(middleware.LoggingMiddleware())
	}
	if sc.Middleware.Metrics {
		s.Use(middleware.MetricsMiddleware())
	}
	if sc.Middleware.RateLimit.Enabled {
		s.Use(middleware.RateLimitMiddleware(sc.Middleware.RateLimit.Rate, sc.Middleware.RateLimit.Burst))
	}
	if sc.Middleware.Timeout.Duration > 0 {
		s.Use(middleware.TimeOutMiddleware(sc.Middleware.Timeout.Duration))
	}
	return s
}

// ListenAndServe opens the configured UDP channel (snappy-wrapped if
// configured), starts the debug HTTP server when one is configured, and
// runs the dispatch loop.
func (s *Server) ListenAndServe(cfg *config.Config, reg registry.Registry) error {
	udp, err := channel.Listen(cfg.Server.Address)
	if err != nil {
		return err
	}
	var ch channel.MessageChannel = udp
	if cfg.Server.Snappy {
		ch = channel.NewSnappyChannel(udp, s.bufSize)
	}
	if cfg.Server.DebugAddress != "" {
		go func() {
			if err := s.ServeDebug(cfg.Server.DebugAddress); err != nil {
				log.Printf("server: debug endpoint: %v", err)
			}
		}()
	}
	return s.Serve(ch, cfg.Server.AdvertiseAddr, reg)
}
