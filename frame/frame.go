// Package frame implements the self-describing frame format for udp-rpc.
//
// A frame is a JSON header followed immediately by the body. The header is
// not length-prefixed — it delimits itself by being a complete JSON object,
// and the scanner locates its closing brace. The body length is declared
// inside the header, so the receiver slices exactly BodySize bytes after
// the header ends.
//
// Frame layout:
//
//	┌──────────────────────────────────────────────┬────────────────────┐
//	│ {"rpc":"Sum","body_size":13,"is_return":false}│ {"a":40,"b":2}     │
//	│ header (self-delimiting JSON object)          │ BodySize bytes     │
//	└──────────────────────────────────────────────┴────────────────────┘
//
// Consecutive frames are simply concatenated; there is no separator between
// a body and the next header.
package frame

import (
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultBufferSize is the receive scratch buffer size used by the server
// and client when none is configured. A frame (or the remainder of a
// multi-frame batch) larger than the receive buffer cannot be reassembled.
const DefaultBufferSize = 4096

// ErrIncomplete signals that the buffer does not yet hold a complete frame.
// It is a backpressure state, not a failure — the caller should receive more
// bytes and try again.
var ErrIncomplete = errors.New("frame: incomplete frame, need more bytes")

// Header is the leading structure of every frame.
//
//   - On a call:   IsReturn is false, Error is empty.
//   - On a result: IsReturn is true. If the handler failed, Error carries
//     the failure text and BodySize is zero.
type Header struct {
	RPC      string `json:"rpc"`             // Registered RPC identifier, routes decode and dispatch
	BodySize uint32 `json:"body_size"`       // Exact byte length of the body following the header
	IsReturn bool   `json:"is_return"`       // Distinguishes call frames from result frames
	Error    string `json:"error,omitempty"` // Handler failure text (result frames only)
}

// Encode serializes a complete frame: the header with BodySize set to
// len(body), followed by the body bytes.
func Encode(h *Header, body []byte) ([]byte, error) {
	h.BodySize = uint32(len(body))
	buf, err := json.Marshal(h)
	if err != nil {
		return nil, err
	}
	return append(buf, body...), nil
}

// Decode parses one frame from the front of buf.
// It returns the header, the body slice (aliasing buf), and the total number
// of bytes consumed (header + body).
//
// It returns ErrIncomplete when buf holds no complete header yet, or when
// the declared body extends past the end of buf. Any other error is a
// protocol violation: the header is present but not a valid frame header.
func Decode(buf []byte) (*Header, []byte, int, error) {
	end, ok := ScanHeader(buf)
	if !ok {
		return nil, nil, 0, ErrIncomplete
	}

	var h Header
	if err := json.Unmarshal(buf[:end], &h); err != nil {
		return nil, nil, 0, fmt.Errorf("frame: malformed header: %w", err)
	}
	if h.RPC == "" {
		return nil, nil, 0, errors.New("frame: header missing rpc identifier")
	}

	total := end + int(h.BodySize)
	if total > len(buf) {
		// Header arrived but the body is still in flight.
		return nil, nil, 0, ErrIncomplete
	}
	return &h, buf[end:total], total, nil
}
