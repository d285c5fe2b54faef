package dispatch

import (
	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
)

// This file makes Device satisfy introspect.Caller and introspect.Target, so
// that introspect never has to import dispatch (dispatch already imports
// introspect, in connect.go); the introspect package only ever sees these
// methods through its own interfaces.

// CallBlocking sends namespace#rpc over method with args and waits for the
// reply, satisfying introspect.Caller.
func (d *Device) CallBlocking(namespace, rpc string, method packet.Method, args ...codec.Value) (registry.Result, error) {
	h := d.CommandTo(namespace).Rpc(rpc).Method(method)
	return h.Call(args...).Wait()
}

// SetNamespaceID records a discovered namespace id, satisfying
// introspect.Target.
func (d *Device) SetNamespaceID(id uint8, name string) {
	d.nsTable.Set(id, name)
}

// NamespaceName looks up a namespace id, satisfying introspect.Target.
func (d *Device) NamespaceName(id uint8) (string, bool) {
	return d.nsTable.NameForID(id)
}

// NamespaceIDs lists every namespace id discovered so far, satisfying
// introspect.Target.
func (d *Device) NamespaceIDs() []uint8 {
	return d.nsTable.IDs()
}

// ImportRPC records a generically-introspected RPC. If the registry already
// has an entry under this name (typically from a statically-linked contrib
// package), the newly discovered method is merged into it via Promote
// instead of replacing the entry outright, so a contrib package's
// hand-written builder/parser for a method it already knows is never
// clobbered by the generic synthesized one.
func (d *Device) ImportRPC(namespace, rpcName string, entry *registry.RpcEntry) {
	if existing, err := d.reg.Resolve(namespace, rpcName); err == nil {
		for _, send := range entry.SendMethods() {
			if _, err := existing.Binding(send); err == nil {
				// A hand-written builder/parser already covers this send
				// method; augment, don't replace it with the generic one.
				continue
			}
			b, bErr := entry.Binding(send)
			if bErr != nil {
				continue
			}
			existing.Promote(b)
		}
		return
	}
	if err := d.reg.ImportNamespace(registry.Contribution{
		Namespace: namespace,
		RPCs:      map[string]*registry.RpcEntry{rpcName: entry},
	}); err != nil {
		dispatchLog.Warningf("importing introspected rpc %s#%s: %v", namespace, rpcName, err)
	}
}
