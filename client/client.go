// Package client implements the synchronous caller side of udp-rpc.
//
// A Client owns one channel and issues one call at a time: encode the
// argument, send it, block for one result frame, decode and return it.
// There is no call queue, no concurrent in-flight calls, and no timeout —
// a mutex serializes callers that share one Client, and a peer that never
// answers blocks the caller indefinitely by design.
package client

import (
	"fmt"
	"sync"

	"udprpc/channel"
	"udprpc/config"
	"udprpc/frame"
	"udprpc/loadbalance"
	"udprpc/message"
	"udprpc/registry"
	"udprpc/wire"
)

type Client struct {
	ch      channel.MessageChannel
	bufSize int
	mu      sync.Mutex // One in-flight call at a time
}

// NewClient wraps an already-open channel. The client owns the channel for
// the session and closes it via Close.
func NewClient(ch channel.MessageChannel) *Client {
	return &Client{ch: ch, bufSize: frame.DefaultBufferSize}
}

// SetBufferSize sets the receive scratch buffer size for result frames.
func (c *Client) SetBufferSize(n int) {
	if n > 0 {
		c.bufSize = n
	}
}

// resolveInstance picks one backend address through the registry and
// balancer.
func resolveInstance(reg registry.Registry, bal loadbalance.Balancer) (string, error) {
	instances, err := reg.Discover(message.ServiceName)
	if err != nil {
		return "", err
	}
	instance, err := bal.Pick(instances)
	if err != nil {
		return "", err
	}
	return instance.Addr, nil
}

// Discover resolves a backend instance through the registry and balancer,
// then dials it.
func Discover(reg registry.Registry, bal loadbalance.Balancer) (*Client, error) {
	addr, err := resolveInstance(reg, bal)
	if err != nil {
		return nil, err
	}
	ch, err := channel.Dial(addr)
	if err != nil {
		return nil, err
	}
	return NewClient(ch), nil
}

// FromConfig builds a client per the configuration: fixed-address or
// discovery mode, optional snappy compression, configured buffer size.
func FromConfig(cfg *config.Config, reg registry.Registry) (*Client, error) {
	addr := cfg.Client.Address
	if cfg.Client.Mode == "discovery" {
		bal, err := loadbalance.New(cfg.Client.Balancer, cfg.Client.HashKey)
		if err != nil {
			return nil, err
		}
		addr, err = resolveInstance(reg, bal)
		if err != nil {
			return nil, err
		}
	}

	udp, err := channel.Dial(addr)
	if err != nil {
		return nil, err
	}
	var ch channel.MessageChannel = udp
	if cfg.Client.Snappy {
		ch = channel.NewSnappyChannel(udp, cfg.Client.BufferSize)
	}
	cli := NewClient(ch)
	cli.SetBufferSize(cfg.Client.BufferSize)
	return cli, nil
}

// Call issues one RPC and blocks for its result. It fails on transport
// errors, on protocol violations, on a *wire.RemoteError reported by the
// server's handler, and on a result tagged for a different RPC than was
// sent (call-type mismatch).
func (c *Client) Call(arg message.ArgVariant) (message.RetVariant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	out, err := wire.EncodeArg(arg)
	if err != nil {
		return nil, err
	}
	sent, err := c.ch.Send(out)
	if err != nil {
		return nil, fmt.Errorf("client: send %s: %w", arg.RPCID(), err)
	}
	if sent != len(out) {
		return nil, fmt.Errorf("client: short send: %d of %d bytes", sent, len(out))
	}

	buf := make([]byte, c.bufSize)
	n, err := c.ch.Recv(buf)
	if err != nil {
		return nil, fmt.Errorf("client: recv %s result: %w", arg.RPCID(), err)
	}

	_, ret, err := wire.DecodeRet(buf[:n])
	if err != nil {
		return nil, err
	}
	if ret.RPCID() != arg.RPCID() {
		return nil, fmt.Errorf("client: sent rpc %s but result is tagged %s", arg.RPCID(), ret.RPCID())
	}
	return ret, nil
}

// CallExampleMessage is the typed wrapper for ExampleRpc.
func (c *Client) CallExampleMessage(arg *message.ExampleMessage) (*message.ExampleReturn, error) {
	ret, err := c.Call(arg)
	if err != nil {
		return nil, err
	}
	return ret.(*message.ExampleReturn), nil
}

// CallSum is the typed wrapper for Sum.
func (c *Client) CallSum(arg *message.SumArgs) (*message.SumReply, error) {
	ret, err := c.Call(arg)
	if err != nil {
		return nil, err
	}
	return ret.(*message.SumReply), nil
}

// Close releases the channel. Safe on every exit path; callers typically
// defer it right after construction.
func (c *Client) Close() error {
	return c.ch.Close()
}
