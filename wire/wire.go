// Package wire is the serializer between typed RPC variants and frames.
//
// Encoding serializes the payload first, then builds a header carrying the
// variant's RPC identifier and the payload's exact byte length. Decoding
// scans the header, checks the frame direction, slices the declared body,
// and routes it to the payload type registered for the header's identifier.
//
// Routing is an exhaustive case analysis over the closed RPC set in package
// message; an identifier outside the set is a protocol violation, never a
// silent default.
package wire

import (
	"errors"
	"fmt"

	"udprpc/codec"
	"udprpc/frame"
	"udprpc/message"
)

// ErrIncomplete reports that a buffer does not yet hold a complete frame.
// It aliases the frame package's sentinel so callers of either layer can
// test with a single errors.Is target.
var ErrIncomplete = frame.ErrIncomplete

// RemoteError is a handler failure reported by the server inside a
// failure-return frame. The call was delivered and well-formed; the
// application handler rejected it.
type RemoteError struct {
	RPC string // RPC identifier of the failed call
	Msg string // Handler's error text, verbatim
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("rpc %s: remote handler failed: %s", e.RPC, e.Msg)
}

// EncodeArg serializes one argument variant into a call frame.
func EncodeArg(arg message.ArgVariant) ([]byte, error) {
	body, err := codec.Default.Encode(arg)
	if err != nil {
		return nil, fmt.Errorf("wire: encode %s argument: %w", arg.RPCID(), err)
	}
	return frame.Encode(&frame.Header{RPC: arg.RPCID(), IsReturn: false}, body)
}

// EncodeRet serializes one return variant into a result frame.
func EncodeRet(ret message.RetVariant) ([]byte, error) {
	body, err := codec.Default.Encode(ret)
	if err != nil {
		return nil, fmt.Errorf("wire: encode %s return: %w", ret.RPCID(), err)
	}
	return frame.Encode(&frame.Header{RPC: ret.RPCID(), IsReturn: true}, body)
}

// EncodeError serializes a failure-return frame for a handler error. The
// frame has no body; the failure text travels in the header.
func EncodeError(rpcID string, handlerErr error) ([]byte, error) {
	return frame.Encode(&frame.Header{
		RPC:      rpcID,
		IsReturn: true,
		Error:    handlerErr.Error(),
	}, nil)
}

// DecodeArg parses one call frame from the front of buf and returns the
// total bytes consumed plus the typed argument variant.
//
// It returns ErrIncomplete when buf does not yet hold a complete frame.
// A result-flagged frame, an unregistered identifier, or a body that fails
// to parse against the registered argument shape are protocol violations.
func DecodeArg(buf []byte) (int, message.ArgVariant, error) {
	h, body, n, err := frame.Decode(buf)
	if err != nil {
		return 0, nil, err
	}
	if h.IsReturn {
		return 0, nil, fmt.Errorf("wire: rpc %s: got result frame where call frame expected", h.RPC)
	}

	var arg message.ArgVariant
	switch h.RPC {
	case message.ExampleRPCID:
		arg = new(message.ExampleMessage)
	case message.SumRPCID:
		arg = new(message.SumArgs)
	default:
		return 0, nil, fmt.Errorf("wire: unknown rpc %q", h.RPC)
	}
	if err := codec.Default.Decode(body, arg); err != nil {
		return 0, nil, fmt.Errorf("wire: rpc %s: malformed argument body: %w", h.RPC, err)
	}
	return n, arg, nil
}

// DecodeRet parses one result frame from the front of buf, symmetric to
// DecodeArg but selecting the return payload shape for the identifier.
//
// A failure-return frame decodes into a non-nil consumed count and a
// *RemoteError; the caller knows the frame was sound but the handler failed.
func DecodeRet(buf []byte) (int, message.RetVariant, error) {
	h, body, n, err := frame.Decode(buf)
	if err != nil {
		return 0, nil, err
	}
	if !h.IsReturn {
		return 0, nil, fmt.Errorf("wire: rpc %s: got call frame where result frame expected", h.RPC)
	}
	if h.Error != "" {
		return n, nil, &RemoteError{RPC: h.RPC, Msg: h.Error}
	}

	var ret message.RetVariant
	switch h.RPC {
	case message.ExampleRPCID:
		ret = new(message.ExampleReturn)
	case message.SumRPCID:
		ret = new(message.SumReply)
	default:
		return 0, nil, fmt.Errorf("wire: unknown rpc %q", h.RPC)
	}
	if err := codec.Default.Decode(body, ret); err != nil {
		return 0, nil, fmt.Errorf("wire: rpc %s: malformed return body: %w", h.RPC, err)
	}
	return n, ret, nil
}

// IsProtocolViolation reports whether err is a fatal decode failure rather
// than the ErrIncomplete backpressure state or a remote handler error.
func IsProtocolViolation(err error) bool {
	var remote *RemoteError
	return err != nil && !errors.Is(err, ErrIncomplete) && !errors.As(err, &remote)
}
