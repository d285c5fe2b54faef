// Package bcsrpc contributes the bcs.rpc namespace: the two meta-RPCs the
// introspector (package introspect) drives to learn what RPCs a device
// supports beyond the ones already statically registered.
package bcsrpc

import (
	"fmt"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
)

// Namespace is the dotted name this contribution registers under.
const Namespace = "bcs.rpc"

// Contribution returns the bcs.rpc namespace's RPC table.
func Contribution() registry.Contribution {
	return registry.Contribution{
		Namespace: Namespace,
		RPCs: map[string]*registry.RpcEntry{
			"_rpc": registry.NewRpcEntry(rpcNameBinding()),
			"args": registry.NewRpcEntry(argsBinding()),
		},
	}
}

// rpcNameBinding takes (namespace id, rpc index) and returns that RPC's
// name, null-terminated, or an empty name once idx runs past the last RPC
// in the namespace.
func rpcNameBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodGet,
		Recv: packet.DefaultRecvMethod(packet.MethodGet),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			return writeIndices(body, args)
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			name := body.ToNull(false).ToRawString(nil)
			if err := body.Err(); err != nil {
				return nil, err
			}
			return registry.Result{"name": codec.NullTerminatedStringValue(name)}, nil
		},
	}
}

// argsBinding takes (namespace id, rpc index) and returns the RPC's send
// and receive method codes plus their declared argument type codes, in the
// wire layout: send_method(1), send_count(1), send_types(send_count),
// recv_method(1), recv_count(1), recv_types(recv_count).
func argsBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodGet,
		Recv: packet.DefaultRecvMethod(packet.MethodGet),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			return writeIndices(body, args)
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			if body.Err() != nil {
				return nil, body.Err()
			}
			sendMethod := body.Byte(0)
			sendCount := int(body.Byte(1))
			sendTypes := body.Bytes(2, 2+sendCount-1)
			recvOffset := 2 + sendCount
			recvMethod := body.Byte(recvOffset)
			recvCount := int(body.Byte(recvOffset + 1))
			recvTypes := body.Bytes(recvOffset+2, recvOffset+2+recvCount-1)
			if err := body.Err(); err != nil {
				return nil, err
			}
			return registry.Result{
				"send_method": codec.UInt8Value(sendMethod),
				"send_types":  codec.UInt8ArrayValue(sendTypes.ToBuffer()),
				"recv_method": codec.UInt8Value(recvMethod),
				"recv_types":  codec.UInt8ArrayValue(recvTypes.ToBuffer()),
			}, nil
		},
	}
}

func writeIndices(body *codec.PacketAssembler, args []codec.Value) error {
	if len(args) != 2 {
		return fmt.Errorf("bcsrpc: expects 2 arguments (namespace id, rpc index), got %d", len(args))
	}
	n, err := body.WriteValue(0, codec.TypeUInt8, args[0])
	if err != nil {
		return err
	}
	_, err = body.WriteValue(n, codec.TypeUInt8, args[1])
	return err
}
