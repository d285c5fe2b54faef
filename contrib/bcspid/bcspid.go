// Package bcspid contributes the bcs.pid namespace: PID control-loop
// configuration RPCs used throughout the worked examples.
package bcspid

import (
	"fmt"

	"github.com/mdzio/go-bowler/codec"
	"github.com/mdzio/go-bowler/packet"
	"github.com/mdzio/go-bowler/registry"
)

// Namespace is the dotted name this contribution registers under.
const Namespace = "bcs.pid"

// Contribution returns the bcs.pid namespace's RPC table.
func Contribution() registry.Contribution {
	return registry.Contribution{
		Namespace: Namespace,
		RPCs: map[string]*registry.RpcEntry{
			"gain":     registry.NewRpcEntry(gainBinding()),
			"setpoint": registry.NewRpcEntry(setpointBinding()),
		},
	}
}

// gainBinding configures a loop's P/I/D gains: args (loop UInt8, kp, ki, kd
// FixedPointTwoPlaces).
func gainBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodPost,
		Recv: packet.DefaultRecvMethod(packet.MethodPost),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			if len(args) != 4 {
				return fmt.Errorf("bcspid: gain expects 4 arguments (loop, kp, ki, kd), got %d", len(args))
			}
			n, err := body.WriteValue(0, codec.TypeUInt8, args[0])
			if err != nil {
				return err
			}
			for _, v := range args[1:] {
				w, err := body.WriteValue(n, codec.TypeFixedPointTwoPlaces, v)
				if err != nil {
					return err
				}
				n += w
			}
			return nil
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			return registry.Result{}, nil
		},
	}
}

// setpointBinding sets a loop's target value: args (loop UInt8, value
// FixedPointThreePlaces).
func setpointBinding() registry.MethodBinding {
	return registry.MethodBinding{
		Send: packet.MethodPost,
		Recv: packet.DefaultRecvMethod(packet.MethodPost),
		Build: func(body *codec.PacketAssembler, args []codec.Value) error {
			if len(args) != 2 {
				return fmt.Errorf("bcspid: setpoint expects 2 arguments (loop, value), got %d", len(args))
			}
			n, err := body.WriteValue(0, codec.TypeUInt8, args[0])
			if err != nil {
				return err
			}
			_, err = body.WriteValue(n, codec.TypeFixedPointThreePlaces, args[1])
			return err
		},
		Parse: func(body *codec.ByteRange) (registry.Result, error) {
			return registry.Result{}, nil
		},
	}
}
