// Package dispatch implements the command dispatcher: it exposes RPCs
// as symbolic navigable handles, builds and sends outgoing packets, and
// correlates exactly one response per in-flight call by the wire protocol's
// only correlation mechanism, the (method, namespace, rpc) event key.
package dispatch

import (
	"fmt"
	"sync"
	"time"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/contrib/bcscore"
	"github.com/mdzio/go-bowler/contrib/bcsrpc"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
	"github.com/mdzio/go-bowler/transport"
	"github.com/mdzio/go-lib/conc"
	"github.com/mdzio/go-logging"
)

var dispatchLog = logging.Get("bowler-dispatch")

// Device is a connection to one physical Bowler device. All of its
// internal state - the registry, the namespace id table, and the pending
// call queues - is mutated only on the device's single owning goroutine
// (the "reactor"), which drains a work queue of posted closures;
// CommandTo/Call and friends may be called from any goroutine, and simply
// hand their work to the reactor.
type Device struct {
	tr   transport.Transport
	mac  packet.MAC
	opts Options

	reg     *registry.Registry
	nsTable *packet.NamespaceIDTable
	framer  *packet.Framer

	actions chan func()
	daemons conc.DaemonPool

	mu      sync.Mutex
	pending map[string][]*PendingCall
	closed  bool
}

// NewDevice creates a Device talking over tr, addressing the physical
// device at mac. bcs.core and bcs.rpc are imported unconditionally -
// every Bowler device answers ping and namespace discovery, and RPC
// introspection cannot get off the ground without bcs.rpc. The reactor
// goroutine starts immediately; Connect must still be called before any
// RPC traffic is meaningful.
func NewDevice(tr transport.Transport, mac packet.MAC, opts Options) *Device {
	d := &Device{
		tr:      tr,
		mac:     mac,
		opts:    opts,
		reg:     registry.NewRegistry(),
		nsTable: packet.NewNamespaceIDTable(),
		framer:  packet.NewFramer(),
		actions: make(chan func(), 64),
		pending: make(map[string][]*PendingCall),
	}
	_ = d.reg.ImportNamespace(bcscore.Contribution())
	_ = d.reg.ImportNamespace(bcsrpc.Contribution())
	tr.SetHandlers(d.onChunk, d.onTransportError)
	go d.reactor()
	return d
}

// Registry exposes the underlying namespace registry, chiefly so contrib
// packages' Contribution values can be imported before or after Connect.
func (d *Device) Registry() *registry.Registry {
	return d.reg
}

// SupportsNamespace merges a statically-provided namespace contribution into
// the registry and, unless namespace introspection already assigned it a
// wire id, allocates a local one so the namespace is addressable on the
// wire right away. It reports whether the namespace is now resolvable.
func (d *Device) SupportsNamespace(c registry.Contribution) bool {
	if err := d.reg.ImportNamespace(c); err != nil {
		dispatchLog.Warningf("importing namespace %s: %v", c.Namespace, err)
		return false
	}
	if _, ok := d.nsTable.Allocate(c.Namespace); !ok {
		dispatchLog.Warningf("no free wire id for namespace %s", c.Namespace)
	}
	return d.reg.SupportsNamespace(c.Namespace)
}

// reactor is the device's single owning goroutine: every mutation of the
// registry, the namespace table, and the pending-call queues happens here,
// in the order actions were enqueued.
func (d *Device) reactor() {
	for action := range d.actions {
		action()
	}
}

// post enqueues a closure to run on the reactor and blocks until it has.
// Used for anything that touches shared state and must report back
// synchronously to its caller (e.g. a write's error).
func (d *Device) post(f func()) {
	done := make(chan struct{})
	d.actions <- func() {
		f()
		close(done)
	}
	<-done
}

func (d *Device) onChunk(chunk []byte) {
	d.actions <- func() { d.handleChunk(chunk) }
}

func (d *Device) onTransportError(err error) {
	d.actions <- func() { d.handleTransportError(err) }
}

func (d *Device) handleChunk(chunk []byte) {
	pkts, ferr := d.framer.Push(chunk)
	if ferr != nil {
		dispatchLog.Debugf("framing error, resyncing: %v", ferr)
	}
	for _, raw := range pkts {
		pkt, err := packet.Parse(raw, d.nsTable)
		if err != nil {
			dispatchLog.Warningf("dropping unparsable packet: %v", err)
			continue
		}
		d.fireEvent(pkt)
	}
}

func (d *Device) handleTransportError(err error) {
	dispatchLog.Errorf("transport failed, failing all pending calls: %v", err)
	d.mu.Lock()
	d.closed = true
	all := d.pending
	d.pending = make(map[string][]*PendingCall)
	d.mu.Unlock()

	for _, queue := range all {
		for _, pc := range queue {
			pc.deliver(nil, fmt.Errorf("%w: %v", ErrTransportClosed, err))
		}
	}
}

// fireEvent matches an inbound packet against the oldest waiting listener
// for its event key (FIFO, since the wire protocol carries no correlation
// id) and delivers the decoded result to it.
func (d *Device) fireEvent(pkt *packet.ParsedPacket) {
	eventKey := EventKey(pkt.Method, pkt.NamespaceName, pkt.RPC)

	d.mu.Lock()
	queue := d.pending[eventKey]
	var pc *PendingCall
	if len(queue) > 0 {
		pc = queue[0]
		d.pending[eventKey] = queue[1:]
	}
	d.mu.Unlock()

	if pc == nil {
		dispatchLog.Warningf("spurious reply for %s", eventKey)
		return
	}

	entry, err := d.reg.Resolve(pkt.NamespaceName, pkt.RPC)
	if err != nil {
		pc.deliver(nil, err)
		return
	}
	binding, ok := entry.BindingForRecv(pkt.Method)
	if !ok {
		pc.deliver(nil, fmt.Errorf("%w: no parser registered for recv method %s on %s#%s",
			registry.ErrUnsupportedMethod, pkt.Method, pkt.NamespaceName, pkt.RPC))
		return
	}

	var body *codec.ByteRange
	if len(pkt.Body) == 0 {
		body = codec.NewByteRange(nil, 0, -1)
	} else {
		body = codec.NewByteRange(pkt.Body, 0, len(pkt.Body)-1)
	}
	result, err := binding.Parse(body)
	pc.deliver(result, err)
}

// EventKey formats the wire-level correlation key for a (recv method,
// namespace, rpc) triple: "<method>:<namespace>#<rpc>".
func EventKey(recv packet.Method, namespace, rpc string) string {
	return fmt.Sprintf("%s:%s#%s", recv, namespace, rpc)
}

// registerPending creates and tracks a PendingCall for eventKey, armed with
// a timeout that removes it and delivers ErrTimeout if no reply arrives
// first.
func (d *Device) registerPending(eventKey string, timeout time.Duration) *PendingCall {
	pc := newPendingCall(d, eventKey)

	d.mu.Lock()
	closed := d.closed
	if !closed {
		d.pending[eventKey] = append(d.pending[eventKey], pc)
	}
	d.mu.Unlock()

	if closed {
		pc.deliver(nil, ErrTransportClosed)
		return pc
	}

	pc.timer = time.AfterFunc(timeout, func() {
		if d.removePending(eventKey, pc) {
			pc.deliver(nil, ErrTimeout)
		}
	})
	return pc
}

// removePending removes pc from eventKey's queue if still present,
// reporting whether it was found (and thus had not already been delivered
// by an inbound reply racing the timer/cancel).
func (d *Device) removePending(eventKey string, pc *PendingCall) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	queue := d.pending[eventKey]
	for i, q := range queue {
		if q == pc {
			d.pending[eventKey] = append(queue[:i:i], queue[i+1:]...)
			return true
		}
	}
	return false
}

// sendDatagram assembles and writes a packet on the reactor goroutine,
// preserving call order, and returns any assembly or write error.
func (d *Device) sendDatagram(req packet.AssembleRequest) error {
	var sendErr error
	d.post(func() {
		buf, err := packet.Assemble(req, d.nsTable)
		if err != nil {
			sendErr = err
			return
		}
		sendErr = d.tr.Write(buf)
	})
	return sendErr
}

// requestTimeout returns the configured per-call timeout as a Duration.
func (d *Device) requestTimeout() time.Duration {
	return time.Duration(d.opts.RequestTimeoutMillis) * time.Millisecond
}

// Close stops the device's background daemons (the heartbeat) and the
// reactor goroutine. It does not stop a Connect sequence that is still
// running on its own goroutine, and it does not close the transport, which
// callers own.
func (d *Device) Close() {
	d.daemons.Close()
	close(d.actions)
}
