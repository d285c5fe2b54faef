package registry

import (
	"fmt"
	"sync"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
)

// Result is the structured value a BodyParser produces: the RPC's reply
// fields, keyed by name.
type Result map[string]codec.Value

// BodyBuilder appends an RPC call's arguments to body, in declared order.
type BodyBuilder func(body *codec.PacketAssembler, args []codec.Value) error

// BodyParser decodes an RPC reply body into a Result.
type BodyParser func(body *codec.ByteRange) (Result, error)

// MethodBinding is everything needed to send and receive one RPC over one
// send method: the send method itself, the method its reply arrives on, and
// the builder/parser pair.
type MethodBinding struct {
	Send    packet.Method
	Recv    packet.Method
	Build   BodyBuilder
	Parse   BodyParser
}

type rpcKind int

const (
	kindSingle rpcKind = iota
	kindMulti
)

// RpcEntry is a tagged variant over a single-method RPC and a multi-method
// RPC: {Single{method, builder, parser}, Multi{method->builder,
// method->parser}}. An RPC starts life single-method and is promoted to
// multi-method the moment a second send method is registered for it.
type RpcEntry struct {
	mu     sync.RWMutex
	kind   rpcKind
	single MethodBinding
	multi  map[packet.Method]MethodBinding
}

// NewRpcEntry creates a single-method RpcEntry.
func NewRpcEntry(b MethodBinding) *RpcEntry {
	return &RpcEntry{kind: kindSingle, single: b}
}

// Promote registers an additional send method for this RPC, converting it
// to multi-method once a second send method is added. Registering the same
// send method again overwrites its binding.
func (e *RpcEntry) Promote(b MethodBinding) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.kind == kindSingle && e.single.Send == b.Send {
		e.single = b
		return
	}
	if e.kind == kindSingle {
		e.multi = map[packet.Method]MethodBinding{e.single.Send: e.single}
		e.kind = kindMulti
		e.single = MethodBinding{}
	}
	e.multi[b.Send] = b
}

// IsMultiMethod reports whether more than one send method has been
// registered for this RPC.
func (e *RpcEntry) IsMultiMethod() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.kind == kindMulti
}

// SendMethods returns the send methods this RPC accepts.
func (e *RpcEntry) SendMethods() []packet.Method {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.kind == kindSingle {
		return []packet.Method{e.single.Send}
	}
	out := make([]packet.Method, 0, len(e.multi))
	for m := range e.multi {
		out = append(out, m)
	}
	return out
}

// BindingForRecv finds the binding whose reply arrives on recv, used on the
// inbound path where only the receive method is known from the wire.
func (e *RpcEntry) BindingForRecv(recv packet.Method) (MethodBinding, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.kind == kindSingle {
		if e.single.Recv == recv {
			return e.single, true
		}
		return MethodBinding{}, false
	}
	for _, b := range e.multi {
		if b.Recv == recv {
			return b, true
		}
	}
	return MethodBinding{}, false
}

// Binding returns the binding for a send method, or ErrUnsupportedMethod if
// this RPC does not accept it.
func (e *RpcEntry) Binding(send packet.Method) (MethodBinding, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.kind == kindSingle {
		if e.single.Send == send {
			return e.single, nil
		}
		return MethodBinding{}, fmt.Errorf("%w: %s", ErrUnsupportedMethod, send)
	}
	b, ok := e.multi[send]
	if !ok {
		return MethodBinding{}, fmt.Errorf("%w: %s", ErrUnsupportedMethod, send)
	}
	return b, nil
}
