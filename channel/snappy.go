package channel

import (
	"fmt"

	"github.com/golang/snappy"

	"udprpc/frame"
)

// SnappyChannel compresses whole datagrams below the framing layer. Frame
// bytes are unchanged — both ends of the channel must simply agree to wrap.
// Useful when payloads are repetitive JSON and datagram size is the scarce
// resource.
type SnappyChannel struct {
	inner   MessageChannel
	scratch []byte // receive buffer for the compressed datagram
}

// NewSnappyChannel wraps inner. bufSize bounds the compressed datagram size
// on receive; pass 0 for the default.
func NewSnappyChannel(inner MessageChannel, bufSize int) *SnappyChannel {
	if bufSize <= 0 {
		bufSize = frame.DefaultBufferSize
	}
	return &SnappyChannel{inner: inner, scratch: make([]byte, bufSize)}
}

// Send compresses p and transmits it as one message. The returned count is
// the uncompressed payload length, so framing callers can verify a complete
// send against len(p).
func (c *SnappyChannel) Send(p []byte) (int, error) {
	enc := snappy.Encode(nil, p)
	n, err := c.inner.Send(enc)
	if err != nil {
		return 0, err
	}
	if n != len(enc) {
		return 0, fmt.Errorf("channel: short send: %d of %d compressed bytes", n, len(enc))
	}
	return len(p), nil
}

func (c *SnappyChannel) Recv(p []byte) (int, error) {
	n, err := c.inner.Recv(c.scratch)
	if err != nil {
		return 0, err
	}
	dec, err := snappy.Decode(nil, c.scratch[:n])
	if err != nil {
		return 0, fmt.Errorf("channel: corrupt compressed datagram: %w", err)
	}
	if len(dec) > len(p) {
		return 0, fmt.Errorf("channel: decompressed datagram (%d bytes) exceeds receive buffer (%d)", len(dec), len(p))
	}
	return copy(p, dec), nil
}

func (c *SnappyChannel) Close() error {
	return c.inner.Close()
}
