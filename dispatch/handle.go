package dispatch

import (
	"fmt"
	"strings"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
)

// Handle is a navigable reference to one RPC, resolved against the
// device's registry only when a call is actually made (so handles obtained
// before introspection finishes remain valid once it completes). Child
// handles of CommandTo are lazily constructed and as cheap as a struct
// copy; there is no cache to invalidate when the registry's shape changes
// because nothing is pre-resolved.
type Handle struct {
	d         *Device
	namespace string
	rpc       string
	method    packet.Method
	hasMethod bool
}

// CommandTo begins navigating to an RPC by namespace segment, e.g.
// CommandTo("bcs", "io").Rpc("getval").
func (d *Device) CommandTo(segments ...string) *Handle {
	return &Handle{d: d, namespace: strings.Join(segments, ".")}
}

// Dial resolves a fully dotted "namespace.path.rpc" string directly to a
// Handle, failing immediately if the namespace or RPC is not registered.
func (d *Device) Dial(path string) (*Handle, error) {
	idx := strings.LastIndex(path, ".")
	if idx < 0 {
		return nil, fmt.Errorf("%w: %q has no namespace component", registry.ErrUndefinedRpc, path)
	}
	namespace, rpc := path[:idx], path[idx+1:]
	if _, err := d.reg.Resolve(namespace, rpc); err != nil {
		return nil, err
	}
	return &Handle{d: d, namespace: namespace, rpc: rpc}, nil
}

// Rpc selects the RPC name at the current namespace path.
func (h *Handle) Rpc(name string) *Handle {
	c := *h
	c.rpc = name
	return &c
}

// Method pins the send method for a multi-method RPC, whose name alone
// resolves to an intermediate handle with one child per method.
func (h *Handle) Method(m packet.Method) *Handle {
	c := *h
	c.method = m
	c.hasMethod = true
	return &c
}

// resolve picks the registry entry and send method this handle addresses.
func (h *Handle) resolve() (*registry.RpcEntry, packet.Method, error) {
	entry, err := h.d.reg.Resolve(h.namespace, h.rpc)
	if err != nil {
		return nil, 0, err
	}
	if h.hasMethod {
		return entry, h.method, nil
	}
	if entry.IsMultiMethod() {
		return nil, 0, fmt.Errorf("%w: %s#%s is multi-method, call .Method(...) to disambiguate",
			registry.ErrUnsupportedMethod, h.namespace, h.rpc)
	}
	methods := entry.SendMethods()
	if len(methods) == 0 {
		return nil, 0, fmt.Errorf("%w: %s#%s has no send methods", registry.ErrUnsupportedMethod, h.namespace, h.rpc)
	}
	return entry, methods[0], nil
}

// call resolves the handle, sends the datagram, and registers a listener
// for its reply. It is the common path behind both call shapes.
func (h *Handle) call(args []codec.Value) (*PendingCall, error) {
	entry, send, err := h.resolve()
	if err != nil {
		return nil, err
	}
	binding, err := entry.Binding(send)
	if err != nil {
		return nil, err
	}

	eventKey := EventKey(binding.Recv, h.namespace, h.rpc)
	pc := h.d.registerPending(eventKey, h.d.requestTimeout())

	err = h.d.sendDatagram(packet.AssembleRequest{
		MAC:       h.d.mac,
		Method:    send,
		Namespace: h.namespace,
		RPC:       h.rpc,
		BuildBody: func(b *codec.PacketAssembler) error {
			return binding.Build(b, args)
		},
	})
	if err != nil {
		h.d.removePending(eventKey, pc)
		return nil, err
	}
	return pc, nil
}

// Call sends the RPC with args and returns a PendingCall the caller attaches
// a continuation to later (.Then) or blocks on (.Wait) - the deferred call
// shape.
func (h *Handle) Call(args ...codec.Value) *PendingCall {
	pc, err := h.call(args)
	if err != nil {
		failed := newPendingCall(h.d, "")
		failed.deliver(nil, err)
		return failed
	}
	return pc
}

// CallWith sends the RPC with args and invokes continuation when the reply
// arrives, times out, or the call otherwise fails - the eager call shape.
func (h *Handle) CallWith(continuation func(registry.Result, error), args ...codec.Value) {
	pc, err := h.call(args)
	if err != nil {
		continuation(nil, err)
		return
	}
	pc.Then(continuation)
}
