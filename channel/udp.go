package channel

import (
	"errors"
	"net"
)

// ErrNoPeer is returned by Send on a listening channel that has not yet
// received anything: until the first datagram arrives there is no address
// to send to.
var ErrNoPeer = errors.New("channel: no peer pinned yet, nothing received")

// UDPChannel is the datagram implementation of MessageChannel. It owns the
// socket for the lifetime of a service or a single client session.
//
// A dialed channel has a fixed peer from the start. A listening channel
// starts with no peer and pins one on the first successful receive, so all
// later sends go back to whoever spoke first (connect-on-first-receive).
type UDPChannel struct {
	conn *net.UDPConn
	peer *net.UDPAddr // nil until dialed or pinned
}

// Dial opens a channel to a fixed peer address.
func Dial(addr string) (*UDPChannel, error) {
	raddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	return &UDPChannel{conn: conn, peer: raddr}, nil
}

// Listen opens a channel bound to a local address with no peer. The peer is
// pinned by the first receive.
func Listen(addr string) (*UDPChannel, error) {
	laddr, err := net.ResolveUDPAddr("udp", addr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}
	return &UDPChannel{conn: conn}, nil
}

func (c *UDPChannel) Send(p []byte) (int, error) {
	if c.conn.RemoteAddr() != nil {
		// Dialed socket — the kernel already knows the peer.
		return c.conn.Write(p)
	}
	if c.peer == nil {
		return 0, ErrNoPeer
	}
	return c.conn.WriteToUDP(p, c.peer)
}

func (c *UDPChannel) Recv(p []byte) (int, error) {
	if c.conn.RemoteAddr() != nil {
		return c.conn.Read(p)
	}
	n, src, err := c.conn.ReadFromUDP(p)
	if err != nil {
		return n, err
	}
	if c.peer == nil {
		c.peer = src
	}
	return n, nil
}

func (c *UDPChannel) Close() error {
	return c.conn.Close()
}

// LocalAddr returns the bound address, useful when listening on port 0.
func (c *UDPChannel) LocalAddr() net.Addr {
	return c.conn.LocalAddr()
}
