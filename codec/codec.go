// Package codec handles serialization of RPC payload bodies.
//
// The frame header is always JSON (it has to be self-delimiting for the
// scanner), and the wire contract fixes the body to the per-RPC JSON shape
// as well, so JSON is the only codec shipped. The interface keeps body
// encoding a seam of its own rather than inlining it into the frame layer.
package codec

type Codec interface {
	Encode(v any) ([]byte, error)
	Decode(data []byte, v any) error
}

// Default is the codec applied to every registered RPC's bodies.
var Default Codec = &JSONCodec{}
