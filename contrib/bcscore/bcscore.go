// Package bcscore contributes the bcs.core namespace: the two RPCs every
// Bowler device answers regardless of what else it implements, ping and
// namespace discovery. dispatch.NewDevice imports this unconditionally, since
// every device needs to be pingable and walkable before anything else is
// known about it.
package bcscore

import (
	"fmt"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
)

// Namespace is the dotted name this contribution registers under.
const Namespace = "bcs.core"

// Contribution returns the bcs.core namespace's RPC table.
func Contribution() registry.Contribution {
	return registry.Contribution{
		Namespace: Namespace,
		RPCs: map[string]*registry.RpcEntry{
			"_png": registry.NewRpcEntry(pingBinding()),
			"_nms": registry.NewRpcEntry(nmsBinding()),
		},
	}
}

// pingBinding sends on the get method with an empty body, the minimal
// liveness check every device supports.
func pingBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodGet,
		Recv: packet.DefaultRecvMethod(packet.MethodGet),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			return nil
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			return registry.Result{}, nil
		},
	}
}

// nmsBinding sends the namespace index to query and returns the raw
// "<name>;<version>\x00<count>" reply body unparsed, since only the
// introspector (package introspect) knows how to split it further.
func nmsBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodGet,
		Recv: packet.DefaultRecvMethod(packet.MethodGet),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			if len(args) != 1 {
				return fmt.Errorf("bcscore: _nms expects 1 argument (namespace index), got %d", len(args))
			}
			_, err := body.WriteValue(0, codec.TypeUInt8, args[0])
			return err
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			raw := body.ToBuffer()
			if err := body.Err(); err != nil {
				return nil, err
			}
			return registry.Result{"raw": codec.ByteBufferValue(raw)}, nil
		},
	}
}
