// Package bcsiosetmode contributes the bcs.io namespace's setmode RPC: a
// multi-method RPC, configured by post and read back by get. It is a
// separate package from
// contrib/bcsio purely to mirror how the protocol's own extension points
// layer independently-authored namespace contributions onto the same
// namespace; ImportNamespace merges them the same way the registry merges
// any other two contributions sharing a namespace.
package bcsiosetmode

import (
	"fmt"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
)

// Namespace is the dotted name this contribution registers under.
const Namespace = "bcs.io"

// Contribution returns the setmode RPC, registered under bcs.io alongside
// whatever contrib/bcsio already contributes there.
func Contribution() registry.Contribution {
	entry := registry.NewRpcEntry(setModeBinding())
	entry.Promote(getModeBinding())
	return registry.Contribution{
		Namespace: Namespace,
		RPCs: map[string]*registry.RpcEntry{
			"setmode": entry,
		},
	}
}

// setModeBinding configures a channel's mode: args (channel UInt8, mode
// UInt8).
func setModeBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodPost,
		Recv: packet.DefaultRecvMethod(packet.MethodPost),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			if len(args) != 2 {
				return fmt.Errorf("bcsiosetmode: setmode(post) expects 2 arguments (channel, mode), got %d", len(args))
			}
			n, err := body.WriteValue(0, codec.TypeUInt8, args[0])
			if err != nil {
				return err
			}
			_, err = body.WriteValue(n, codec.TypeUInt8, args[1])
			return err
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			return registry.Result{}, nil
		},
	}
}

// getModeBinding reads a channel's configured mode back: args (channel
// UInt8), reply (mode UInt8).
func getModeBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodGet,
		Recv: packet.DefaultRecvMethod(packet.MethodGet),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			if len(args) != 1 {
				return fmt.Errorf("bcsiosetmode: setmode(get) expects 1 argument (channel), got %d", len(args))
			}
			_, err := body.WriteValue(0, codec.TypeUInt8, args[0])
			return err
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			mode := body.Byte(0)
			if err := body.Err(); err != nil {
				return nil, err
			}
			return registry.Result{"mode": codec.UInt8Value(mode)}, nil
		},
	}
}
