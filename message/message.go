// Package message defines the closed set of RPCs served by the backend
// service: the payload types, the argument/return variant unions, and the
// handler contract.
//
// The set is fixed at build time. Adding an RPC means adding its payload
// types here, an identifier constant, one case to each variant union, one
// method to Handler, one case to Dispatch, and one routing case in package
// wire. Every routing point is an exhaustive type switch, so an RPC added
// here and forgotten elsewhere fails loudly rather than silently.
package message

import (
	"context"
	"fmt"
)

// ServiceName is the name the backend service registers under for discovery.
const ServiceName = "Backend"

// Registered RPC identifiers. These are the wire-visible routing keys: the
// header's "rpc" field carries exactly one of them.
const (
	ExampleRPCID = "ExampleRpc"
	SumRPCID     = "Sum"
)

// RPCIDs lists every registered identifier, in registration order.
func RPCIDs() []string {
	return []string{ExampleRPCID, SumRPCID}
}

// ExampleMessage is the argument of ExampleRpc.
type ExampleMessage struct {
	Msg string `json:"msg"`
}

// ExampleReturn is the result of ExampleRpc.
type ExampleReturn struct {
	Msg string `json:"msg"`
}

// SumArgs is the argument of Sum.
type SumArgs struct {
	A int64 `json:"a"`
	B int64 `json:"b"`
}

// SumReply is the result of Sum.
type SumReply struct {
	Sum int64 `json:"sum"`
}

// ArgVariant is the tagged union over registered RPC arguments: exactly one
// implementation exists per RPC. The unexported marker method seals the set —
// no type outside this package can satisfy it.
type ArgVariant interface {
	RPCID() string
	isArg()
}

// RetVariant is the union over registered RPC results, structurally parallel
// to ArgVariant.
type RetVariant interface {
	RPCID() string
	isRet()
}

func (*ExampleMessage) RPCID() string { return ExampleRPCID }
func (*ExampleMessage) isArg()        {}

func (*ExampleReturn) RPCID() string { return ExampleRPCID }
func (*ExampleReturn) isRet()        {}

func (*SumArgs) RPCID() string { return SumRPCID }
func (*SumArgs) isArg()        {}

func (*SumReply) RPCID() string { return SumRPCID }
func (*SumReply) isRet()        {}

// Handler is implemented by the hosting application: one typed method per
// registered RPC. The server loop owns the handler for the loop's lifetime.
type Handler interface {
	HandleExampleMessage(ctx context.Context, arg *ExampleMessage) (*ExampleReturn, error)
	HandleSum(ctx context.Context, arg *SumArgs) (*SumReply, error)
}

// Dispatch routes an argument variant to the matching typed handler method
// and wraps its result back into the return variant.
func Dispatch(ctx context.Context, h Handler, arg ArgVariant) (RetVariant, error) {
	switch m := arg.(type) {
	case *ExampleMessage:
		return h.HandleExampleMessage(ctx, m)
	case *SumArgs:
		return h.HandleSum(ctx, m)
	}
	return nil, fmt.Errorf("message: no handler method for rpc %q", arg.RPCID())
}
