// Package channel provides the byte transport the RPC core runs on.
//
// MessageChannel is a pure byte capability: it knows nothing about frames.
// Framing lives above it (packages frame and wire); the socket lives below
// it (UDPChannel). Decorators such as SnappyChannel compose between the two
// without either side noticing.
package channel

// MessageChannel is a bidirectional byte transport.
//
// Send transmits p as one message and returns the number of payload bytes
// sent. Recv blocks until a message arrives and returns the number of bytes
// written into p. Both report failures to the caller rather than retrying;
// retry policy does not belong to the transport.
type MessageChannel interface {
	Send(p []byte) (int, error)
	Recv(p []byte) (int, error)
	Close() error
}
