package dispatch

import (
	"fmt"
	"time"

	"github.com/mdzio/go-bowler/introspect"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-lib/conc"
)

// Connect opens the transport and runs the connection sequence: namespace
// introspection (if enabled), RPC introspection (if enabled), heartbeat
// configuration, then a resync against the neuronrobotics.dyio namespace's
// power/revision/info RPCs if that namespace is known. done is invoked with
// the first error encountered, or nil on success.
//
// The sequence runs on its own goroutine, never the reactor: several of its
// steps block on PendingCall.Wait, and blocking the reactor goroutine itself
// would deadlock inbound packet delivery (fireEvent also runs on the
// reactor).
func (d *Device) Connect(done func(error)) {
	go d.connect(done)
}

func (d *Device) connect(done func(error)) {
	if err := d.tr.Open(); err != nil {
		done(fmt.Errorf("dispatch: opening transport: %w", err))
		return
	}

	if d.opts.IntrospectNamespaces {
		if _, err := introspect.Namespaces(d, d); err != nil {
			done(fmt.Errorf("dispatch: namespace introspection: %w", err))
			return
		}
	}

	if d.opts.IntrospectRPCs {
		if _, ok := d.nsTable.IDForName("bcs.rpc"); !ok {
			done(ErrIntrospectionUnsupported)
			return
		}
		if err := introspect.RPCs(d, d); err != nil {
			done(fmt.Errorf("dispatch: rpc introspection: %w", err))
			return
		}
	}

	d.startHeartbeat()

	if err := d.resync(); err != nil {
		done(fmt.Errorf("dispatch: resync: %w", err))
		return
	}

	done(nil)
}

// startHeartbeat launches a daemon that pings bcs.core._png every heartbeat
// period to keep the link alive. A nil HeartbeatMillis disables it.
func (d *Device) startHeartbeat() {
	if d.opts.HeartbeatMillis == nil {
		return
	}
	period := time.Duration(*d.opts.HeartbeatMillis) * time.Millisecond
	d.daemons.Run(func(ctx conc.Context) {
		for !ctx.IsDone() {
			if err := ctx.Sleep(period); err != nil {
				return
			}
			if _, err := d.CommandTo("bcs", "core").Rpc("_png").Call().Wait(); err != nil {
				dispatchLog.Warningf("heartbeat ping failed: %v", err)
			}
		}
	})
}

// resync queries power, firmware revision, and device info from the
// neuronrobotics.dyio namespace, if the registry knows about it. A device
// that never imported that namespace contribution skips this step rather
// than failing Connect over it.
func (d *Device) resync() error {
	if !d.reg.SupportsNamespace("neuronrobotics.dyio") {
		return nil
	}
	h := d.CommandTo("neuronrobotics", "dyio")
	if _, err := h.Rpc("_pwr").Method(packet.MethodGet).Call().Wait(); err != nil {
		return fmt.Errorf("power: %w", err)
	}
	if _, err := h.Rpc("_rev").Call().Wait(); err != nil {
		return fmt.Errorf("revision: %w", err)
	}
	if _, err := h.Rpc("_info").Call().Wait(); err != nil {
		return fmt.Errorf("info: %w", err)
	}
	return nil
}
