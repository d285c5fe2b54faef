// Package bcsio contributes the bcs.io namespace: digital/analog channel
// value and mode RPCs used throughout the worked examples.
package bcsio

import (
	"fmt"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
)

// Namespace is the dotted name this contribution registers under.
const Namespace = "bcs.io"

// Contribution returns the bcs.io namespace's RPC table.
func Contribution() registry.Contribution {
	return registry.Contribution{
		Namespace: Namespace,
		RPCs: map[string]*registry.RpcEntry{
			"getval":  registry.NewRpcEntry(getvalBinding()),
			"setval":  registry.NewRpcEntry(setvalBinding()),
			"getmode": registry.NewRpcEntry(getmodeBinding()),
		},
	}
}

// getvalBinding reads one channel's value: args (channel UInt8), reply
// (value Int32).
func getvalBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodGet,
		Recv: packet.DefaultRecvMethod(packet.MethodGet),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			if len(args) != 1 {
				return fmt.Errorf("bcsio: getval expects 1 argument (channel), got %d", len(args))
			}
			_, err := body.WriteValue(0, codec.TypeUInt8, args[0])
			return err
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			v, _, err := codec.Default.Deserialize(codec.TypeInt32, body.ToBuffer(), 0, nil)
			if err != nil {
				return nil, err
			}
			return registry.Result{"value": v}, nil
		},
	}
}

// setvalBinding writes a burst of raw channel bytes in one call: args
// (channel UInt8, values UInt8Array).
func setvalBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodPost,
		Recv: packet.DefaultRecvMethod(packet.MethodPost),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			if len(args) != 2 {
				return fmt.Errorf("bcsio: setval expects 2 arguments (channel, values), got %d", len(args))
			}
			n, err := body.WriteValue(0, codec.TypeUInt8, args[0])
			if err != nil {
				return err
			}
			_, err = body.WriteValue(n, codec.TypeUInt8Array, args[1])
			return err
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			return registry.Result{}, nil
		},
	}
}

// getmodeBinding reads one channel's configured mode: args (channel
// UInt8), reply (mode UInt8).
func getmodeBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodGet,
		Recv: packet.DefaultRecvMethod(packet.MethodGet),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			if len(args) != 1 {
				return fmt.Errorf("bcsio: getmode expects 1 argument (channel), got %d", len(args))
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
